package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/airlinereservation/booking-backend/internal/database"
	"github.com/airlinereservation/booking-backend/internal/models"
	"github.com/airlinereservation/booking-backend/pkg/cache"
	"github.com/sirupsen/logrus"
)

// Seat rows are seeded in this order so first class gets the lowest ids
var seedOrder = []models.FlightClass{
	models.FlightClassFirst,
	models.FlightClassBusiness,
	models.FlightClassEconomy,
}

// FlightService manages airports, airplanes and flights together with each flight's seat inventory
type FlightService struct {
	db           database.DB
	flightRepo   *database.FlightRepository
	airportRepo  *database.AirportRepository
	airplaneRepo *database.AirplaneRepository
	bookingRepo  *database.FlightBookingRepository
	cache        cache.Cache
	logger       *logrus.Logger

	now func() time.Time
}

// NewFlightService creates a new FlightService
func NewFlightService(
	db database.DB,
	flightRepo *database.FlightRepository,
	airportRepo *database.AirportRepository,
	airplaneRepo *database.AirplaneRepository,
	bookingRepo *database.FlightBookingRepository,
	c cache.Cache,
	logger *logrus.Logger,
) *FlightService {
	if c == nil {
		c = cache.NewNoOpCache()
	}
	return &FlightService{
		db:           db,
		flightRepo:   flightRepo,
		airportRepo:  airportRepo,
		airplaneRepo: airplaneRepo,
		bookingRepo:  bookingRepo,
		cache:        c,
		logger:       logger,
		now:          time.Now,
	}
}

// AddAirport registers an airport; codes are stored upper case
func (s *FlightService) AddAirport(ctx context.Context, req models.AddAirportRequest) (*models.Airport, error) {
	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if strings.TrimSpace(req.Name) == "" || len(code) != 3 || strings.TrimSpace(req.City) == "" {
		return nil, fmt.Errorf("%w: missing airport details", ErrInvalidRequest)
	}

	airport := &models.Airport{
		Name:    strings.TrimSpace(req.Name),
		Code:    code,
		City:    strings.TrimSpace(req.City),
		Address: strings.TrimSpace(req.Address),
		Status:  "active",
	}
	if err := s.airportRepo.Create(airport); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, fmt.Errorf("%w: airport %s", ErrConflict, code)
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	s.invalidate(ctx, cache.KeyAirports)
	return airport, nil
}

// ListAirports returns every airport, served from the cache when possible
func (s *FlightService) ListAirports(ctx context.Context) ([]models.Airport, error) {
	var airports []models.Airport
	if s.cache.GetJSON(ctx, cache.KeyAirports, &airports) {
		return airports, nil
	}

	airports, err := s.airportRepo.List()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if err := s.cache.SetJSON(ctx, cache.KeyAirports, airports); err != nil {
		s.logger.WithError(err).Warn("Failed to cache airports")
	}
	return airports, nil
}

// AddAirplane registers an airplane and its seat allocation per class
func (s *FlightService) AddAirplane(req models.AddAirplaneRequest) (*models.Airplane, error) {
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.RegistrationNumber) == "" {
		return nil, fmt.Errorf("%w: missing airplane details", ErrInvalidRequest)
	}
	if req.EconomySeats < 0 || req.BusinessSeats < 0 || req.FirstClassSeats < 0 {
		return nil, fmt.Errorf("%w: seat counts cannot be negative", ErrInvalidRequest)
	}
	if req.EconomySeats+req.BusinessSeats+req.FirstClassSeats == 0 {
		return nil, fmt.Errorf("%w: airplane needs at least one seat", ErrInvalidRequest)
	}

	airplane := &models.Airplane{
		Name:               strings.TrimSpace(req.Name),
		RegistrationNumber: strings.ToUpper(strings.TrimSpace(req.RegistrationNumber)),
		EconomySeats:       req.EconomySeats,
		BusinessSeats:      req.BusinessSeats,
		FirstClassSeats:    req.FirstClassSeats,
		Status:             "active",
	}
	if err := s.airplaneRepo.Create(airplane); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, fmt.Errorf("%w: airplane %s", ErrConflict, airplane.RegistrationNumber)
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return airplane, nil
}

// ListAirplanes returns every airplane
func (s *FlightService) ListAirplanes() ([]models.Airplane, error) {
	airplanes, err := s.airplaneRepo.List()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return airplanes, nil
}

// AddFlight schedules a flight and seeds one available seat row per seat of its airplane.
// The flight and its seat rows are written in one transaction.
func (s *FlightService) AddFlight(ctx context.Context, req models.AddFlightRequest) (*models.Flight, error) {
	if strings.TrimSpace(req.FlightNumber) == "" || req.AirplaneID == 0 ||
		req.DepartureAirportID == 0 || req.ArrivalAirportID == 0 {
		return nil, fmt.Errorf("%w: missing flight details", ErrInvalidRequest)
	}
	if req.DepartureAirportID == req.ArrivalAirportID {
		return nil, fmt.Errorf("%w: departure and arrival airports must differ", ErrInvalidRequest)
	}
	if !req.ArrivalTime.After(req.DepartureTime) {
		return nil, fmt.Errorf("%w: arrival time must be after departure time", ErrInvalidRequest)
	}
	if req.EconomySeatFare < 0 || req.BusinessSeatFare < 0 || req.FirstClassSeatFare < 0 {
		return nil, fmt.Errorf("%w: fares cannot be negative", ErrInvalidRequest)
	}

	for _, id := range []int64{req.DepartureAirportID, req.ArrivalAirportID} {
		if _, err := s.airportRepo.GetByID(id); err != nil {
			return nil, lookupError("airport", id, err)
		}
	}

	tx, err := s.db.Beginx()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to begin transaction: %v", ErrPersistence, err)
	}
	defer tx.Rollback()

	airplane, err := s.airplaneRepo.GetByIDTx(tx, req.AirplaneID)
	if err != nil {
		return nil, lookupError("airplane", req.AirplaneID, err)
	}

	flight := &models.Flight{
		FlightNumber:       strings.ToUpper(strings.TrimSpace(req.FlightNumber)),
		AirplaneID:         airplane.ID,
		DepartureAirportID: req.DepartureAirportID,
		ArrivalAirportID:   req.ArrivalAirportID,
		DepartureTime:      req.DepartureTime,
		ArrivalTime:        req.ArrivalTime,
		EconomySeatFare:    roundMoney(req.EconomySeatFare),
		BusinessSeatFare:   roundMoney(req.BusinessSeatFare),
		FirstClassSeatFare: roundMoney(req.FirstClassSeatFare),
		Status:             models.FlightStatusScheduled,
	}
	if err := s.flightRepo.CreateTx(tx, flight); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	for _, class := range seedOrder {
		if err := s.bookingRepo.SeedSeatsTx(tx, flight.ID, class, airplane.SeatsFor(class)); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%w: failed to commit flight: %v", ErrPersistence, err)
	}

	s.logger.WithFields(logrus.Fields{
		"flight_id":     flight.ID,
		"flight_number": flight.FlightNumber,
		"airplane_id":   airplane.ID,
		"seats":         airplane.TotalSeat,
	}).Info("Flight added")

	s.invalidate(ctx, cache.KeyFlights)
	return flight, nil
}

// ResetSeats rebuilds the available seat rows of a flight from its airplane's allocation.
// A flight holding any confirmed, waiting, cancelled or pending row is refused, so sold
// seats and their history are never removed. It returns the number of seeded rows.
func (s *FlightService) ResetSeats(ctx context.Context, flightID int64) (int64, error) {
	if flightID == 0 {
		return 0, fmt.Errorf("%w: missing flight id", ErrInvalidRequest)
	}

	tx, err := s.db.Beginx()
	if err != nil {
		return 0, fmt.Errorf("%w: failed to begin transaction: %v", ErrPersistence, err)
	}
	defer tx.Rollback()

	flight, err := s.flightRepo.GetByIDTx(tx, flightID)
	if err != nil {
		return 0, lookupError("flight", flightID, err)
	}
	airplane, err := s.airplaneRepo.GetByIDTx(tx, flight.AirplaneID)
	if err != nil {
		return 0, lookupError("airplane", flight.AirplaneID, err)
	}

	rows, err := s.bookingRepo.LockByFlightTx(tx, flight.ID)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	held := 0
	for _, row := range rows {
		if row.Status != models.FlightBookingStatusAvailable {
			held++
		}
	}
	if held > 0 {
		return 0, fmt.Errorf("%w: flight %d has %d booked, waiting or cancelled seat rows", ErrInvalidRequest, flight.ID, held)
	}

	removed, err := s.bookingRepo.DeleteAvailableByFlightTx(tx, flight.ID)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	for _, class := range seedOrder {
		if err := s.bookingRepo.SeedSeatsTx(tx, flight.ID, class, airplane.SeatsFor(class)); err != nil {
			return 0, fmt.Errorf("%w: %v", ErrPersistence, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%w: failed to commit seat reset: %v", ErrPersistence, err)
	}

	s.logger.WithFields(logrus.Fields{
		"flight_id": flight.ID,
		"removed":   removed,
		"seeded":    airplane.TotalSeat,
	}).Warn("Flight seats reset")

	return int64(airplane.TotalSeat), nil
}

// ListFlights returns every flight with airport and airplane names, served from the cache when possible
func (s *FlightService) ListFlights(ctx context.Context) ([]models.FlightWithDetails, error) {
	var flights []models.FlightWithDetails
	if s.cache.GetJSON(ctx, cache.KeyFlights, &flights) {
		return flights, nil
	}

	flights, err := s.flightRepo.ListWithDetails()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if err := s.cache.SetJSON(ctx, cache.KeyFlights, flights); err != nil {
		s.logger.WithError(err).Warn("Failed to cache flights")
	}
	return flights, nil
}

// SearchFlights filters flights by route and departure day
func (s *FlightService) SearchFlights(criteria models.FlightSearchCriteria) ([]models.FlightWithDetails, error) {
	if criteria.DepartureAirportID != 0 && criteria.DepartureAirportID == criteria.ArrivalAirportID {
		return nil, fmt.Errorf("%w: departure and arrival airports must differ", ErrInvalidRequest)
	}
	flights, err := s.flightRepo.Search(criteria)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return flights, nil
}

// UpdateFlightStatus changes the operational status of a flight
func (s *FlightService) UpdateFlightStatus(ctx context.Context, req models.UpdateFlightStatusRequest) error {
	status := models.FlightStatus(strings.ToLower(strings.TrimSpace(req.Status)))
	if req.FlightID == 0 || !status.IsValid() {
		return fmt.Errorf("%w: unknown flight status %q", ErrInvalidRequest, req.Status)
	}

	if err := s.flightRepo.UpdateStatus(req.FlightID, status); err != nil {
		return lookupError("flight", req.FlightID, err)
	}

	s.logger.WithFields(logrus.Fields{
		"flight_id": req.FlightID,
		"status":    status,
	}).Info("Flight status updated")

	s.invalidate(ctx, cache.KeyFlights)
	return nil
}

// MarkDepartedFlights moves flights whose departure time has passed to departed
func (s *FlightService) MarkDepartedFlights(ctx context.Context) (int64, error) {
	count, err := s.flightRepo.MarkDeparted(s.now())
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if count > 0 {
		s.invalidate(ctx, cache.KeyFlights)
	}
	return count, nil
}

// FlightClasses lists the display names of the cabin classes
func (s *FlightService) FlightClasses() []string {
	classes := make([]string, len(models.AllFlightClasses))
	for i, class := range models.AllFlightClasses {
		classes[i] = class.Label()
	}
	return classes
}

// FlightStatuses lists the statuses an admin may set
func (s *FlightService) FlightStatuses() []string {
	statuses := make([]string, len(models.AllFlightStatuses))
	for i, status := range models.AllFlightStatuses {
		statuses[i] = string(status)
	}
	return statuses
}

func (s *FlightService) invalidate(ctx context.Context, keys ...string) {
	if err := s.cache.Delete(ctx, keys...); err != nil {
		s.logger.WithError(err).WithField("keys", keys).Warn("Failed to invalidate cache")
	}
}
