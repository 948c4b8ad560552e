package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/airlinereservation/booking-backend/internal/database"
	"github.com/airlinereservation/booking-backend/internal/models"
	"github.com/airlinereservation/booking-backend/pkg/events"
	"github.com/airlinereservation/booking-backend/pkg/ticket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Statuses shown in the admin booking list
var listedBookingStatuses = []models.FlightBookingStatus{
	models.FlightBookingStatusConfirmed,
	models.FlightBookingStatusCancelled,
	models.FlightBookingStatusWaiting,
}

// Statuses hidden from a flight's manifest
var manifestExcludedStatuses = []models.FlightBookingStatus{
	models.FlightBookingStatusCancelled,
	models.FlightBookingStatusWaiting,
	models.FlightBookingStatusPending,
}

// BookingService allocates seats, reports availability and cancels seat rows
type BookingService struct {
	db           database.DB
	bookingRepo  *database.FlightBookingRepository
	flightRepo   *database.FlightRepository
	userRepo     *database.UserRepository
	airplaneRepo *database.AirplaneRepository
	publisher    events.Publisher
	logger       *logrus.Logger

	newBookingID func() string
	now          func() time.Time
}

// NewBookingService creates a new BookingService
func NewBookingService(
	db database.DB,
	bookingRepo *database.FlightBookingRepository,
	flightRepo *database.FlightRepository,
	userRepo *database.UserRepository,
	airplaneRepo *database.AirplaneRepository,
	publisher events.Publisher,
	logger *logrus.Logger,
) *BookingService {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &BookingService{
		db:           db,
		bookingRepo:  bookingRepo,
		flightRepo:   flightRepo,
		userRepo:     userRepo,
		airplaneRepo: airplaneRepo,
		publisher:    publisher,
		logger:       logger,
		newBookingID: func() string { return uuid.New().String() },
		now:          time.Now,
	}
}

// PlaceBooking confirms up to TotalPassengers available seats of the requested class and
// puts the remainder on the waiting list, all under one booking reference.
//
// The wallet must cover the fare of every requested seat, but only confirmed seats are
// charged. Everything happens in one transaction with the passenger row and the claimed
// seat rows locked, so concurrent bookings never confirm the same seat.
func (s *BookingService) PlaceBooking(ctx context.Context, req models.AddFlightBookingRequest) (*models.BookingResult, error) {
	if req.FlightID == 0 || req.PassengerID == 0 || req.TotalPassengers < 1 || req.FlightClassType == "" {
		return nil, fmt.Errorf("%w: missing booking details", ErrInvalidRequest)
	}
	class, ok := models.ParseFlightClass(req.FlightClassType)
	if !ok {
		return nil, fmt.Errorf("%w: unknown flight class %q", ErrInvalidRequest, req.FlightClassType)
	}

	tx, err := s.db.Beginx()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to begin transaction: %v", ErrPersistence, err)
	}
	defer tx.Rollback()

	flight, err := s.flightRepo.GetByIDTx(tx, req.FlightID)
	if err != nil {
		return nil, lookupError("flight", req.FlightID, err)
	}

	passenger, err := s.userRepo.GetUserForUpdateTx(tx, req.PassengerID)
	if err != nil {
		return nil, lookupError("passenger", req.PassengerID, err)
	}

	fare, ok := flight.FareFor(class)
	if !ok {
		return nil, fmt.Errorf("%w: no fare for class %s", ErrInvalidRequest, class)
	}

	totalFare := roundMoney(fare * float64(req.TotalPassengers))
	if passenger.WalletAmount < totalFare {
		return nil, fmt.Errorf("%w: balance %.2f is below total fare %.2f", ErrInsufficientFunds, passenger.WalletAmount, totalFare)
	}

	bookingID := s.newBookingID()
	bookingTime := s.now().UnixMilli()

	available, err := s.bookingRepo.LockAvailableTx(tx, flight.ID, class, req.TotalPassengers)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	ids := make([]int64, len(available))
	for i, row := range available {
		ids[i] = row.ID
	}

	confirmed, err := s.bookingRepo.ConfirmTx(tx, ids, passenger.ID, bookingID, bookingTime)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	charged := roundMoney(fare * float64(len(confirmed)))
	balance := passenger.WalletAmount
	if len(confirmed) > 0 {
		balance = roundMoney(passenger.WalletAmount - charged)
		if err := s.userRepo.SetWalletAmountTx(tx, passenger.ID, balance); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
		}
	}

	waiting, err := s.bookingRepo.InsertWaitingTx(tx, flight.ID, class, passenger.ID, bookingID, bookingTime, req.TotalPassengers-len(confirmed))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%w: failed to commit booking: %v", ErrPersistence, err)
	}

	result := &models.BookingResult{
		BookingID:      bookingID,
		BookingTime:    bookingTime,
		ConfirmedSeats: len(confirmed),
		WaitingSeats:   len(waiting),
		AmountCharged:  charged,
		WalletBalance:  balance,
		Rows:           append(confirmed, waiting...),
		Message:        "Booking successful. Booking ID: " + bookingID,
	}

	s.logger.WithFields(logrus.Fields{
		"booking_id":   bookingID,
		"flight_id":    flight.ID,
		"passenger_id": passenger.ID,
		"class":        class,
		"confirmed":    result.ConfirmedSeats,
		"waiting":      result.WaitingSeats,
		"charged":      charged,
	}).Info("Booking placed")

	s.publish(ctx, events.BookingPlaced, events.BookingPlacedEvent{
		BookingID:      bookingID,
		FlightID:       flight.ID,
		PassengerID:    passenger.ID,
		FlightClass:    string(class),
		ConfirmedSeats: result.ConfirmedSeats,
		WaitingSeats:   result.WaitingSeats,
		AmountCharged:  charged,
		BookingTime:    bookingTime,
	})

	return result, nil
}

// SeatDetails counts available and waiting rows per class next to the airplane's capacity
func (s *BookingService) SeatDetails(flightID int64) (*models.FlightSeatDetails, error) {
	if flightID == 0 {
		return nil, fmt.Errorf("%w: missing flight id", ErrInvalidRequest)
	}

	rows, err := s.bookingRepo.ListByFlight(flightID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no seat details found", ErrInvalidRequest)
	}

	flight, err := s.flightRepo.GetByID(flightID)
	if err != nil {
		return nil, lookupError("flight", flightID, err)
	}
	airplane, err := s.airplaneRepo.GetByID(flight.AirplaneID)
	if err != nil {
		return nil, lookupError("airplane", flight.AirplaneID, err)
	}

	details := &models.FlightSeatDetails{
		FlightID:        flightID,
		EconomySeats:    airplane.EconomySeats,
		BusinessSeats:   airplane.BusinessSeats,
		FirstClassSeats: airplane.FirstClassSeats,
		TotalSeat:       airplane.TotalSeat,
	}

	for _, row := range rows {
		var available, waiting *int
		switch row.FlightClass {
		case models.FlightClassEconomy:
			available, waiting = &details.EconomySeatsAvailable, &details.EconomySeatsWaiting
		case models.FlightClassBusiness:
			available, waiting = &details.BusinessSeatsAvailable, &details.BusinessSeatsWaiting
		case models.FlightClassFirst:
			available, waiting = &details.FirstClassSeatsAvailable, &details.FirstClassSeatsWaiting
		default:
			continue
		}
		switch row.Status {
		case models.FlightBookingStatusAvailable:
			*available++
		case models.FlightBookingStatusWaiting:
			*waiting++
		}
	}

	return details, nil
}

// CancelBooking cancels exactly one seat row. Rows sharing its booking reference are untouched
// and the wallet is not refunded. When ownerID is non-zero the row must belong to that passenger.
func (s *BookingService) CancelBooking(ctx context.Context, rowID, ownerID int64) (*models.FlightBooking, error) {
	if rowID == 0 {
		return nil, fmt.Errorf("%w: missing booking id", ErrInvalidRequest)
	}

	row, err := s.bookingRepo.GetByID(rowID)
	if err != nil {
		return nil, lookupError("booking", rowID, err)
	}
	if ownerID != 0 && (row.PassengerID == nil || *row.PassengerID != ownerID) {
		return nil, fmt.Errorf("%w: booking %d belongs to another passenger", ErrForbidden, rowID)
	}
	if row.Status == models.FlightBookingStatusCancelled {
		return row, nil
	}

	if err := s.bookingRepo.UpdateStatus(row.ID, models.FlightBookingStatusCancelled); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, fmt.Errorf("%w: booking %d", ErrNotFound, rowID)
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	row.Status = models.FlightBookingStatusCancelled

	s.logger.WithFields(logrus.Fields{
		"row_id":    row.ID,
		"flight_id": row.FlightID,
	}).Info("Booking row cancelled")

	event := events.BookingCancelledEvent{
		RowID:       row.ID,
		FlightID:    row.FlightID,
		CancelledAt: s.now().UnixMilli(),
	}
	if row.BookingID != nil {
		event.BookingID = *row.BookingID
	}
	if row.PassengerID != nil {
		event.PassengerID = *row.PassengerID
	}
	s.publish(ctx, events.BookingCancelled, event)

	return row, nil
}

// ListBookings returns every confirmed, cancelled or waiting row
func (s *BookingService) ListBookings() ([]models.FlightBookingDetail, error) {
	rows, err := s.bookingRepo.ListByStatuses(listedBookingStatuses)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return rows, nil
}

// ListPassengerBookings returns every row owned by a passenger
func (s *BookingService) ListPassengerBookings(passengerID int64) ([]models.FlightBookingDetail, error) {
	if passengerID == 0 {
		return nil, fmt.Errorf("%w: missing user id", ErrInvalidRequest)
	}
	rows, err := s.bookingRepo.ListByPassenger(passengerID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return rows, nil
}

// ListFlightBookings returns a flight's rows except cancelled, waiting and pending ones
func (s *BookingService) ListFlightBookings(flightID int64) ([]models.FlightBookingDetail, error) {
	if flightID == 0 {
		return nil, fmt.Errorf("%w: missing flight id", ErrInvalidRequest)
	}
	rows, err := s.bookingRepo.ListByFlightExcluding(flightID, manifestExcludedStatuses)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return rows, nil
}

// GetBooking returns every row sharing a booking reference
func (s *BookingService) GetBooking(bookingID string) ([]models.FlightBookingDetail, error) {
	if bookingID == "" {
		return nil, fmt.Errorf("%w: missing booking id", ErrInvalidRequest)
	}
	rows, err := s.bookingRepo.ListByBookingID(bookingID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return rows, nil
}

// TicketPDF renders the ticket of a booking reference
func (s *BookingService) TicketPDF(bookingID string) ([]byte, string, error) {
	rows, err := s.GetBooking(bookingID)
	if err != nil {
		return nil, "", err
	}
	if len(rows) == 0 {
		return nil, "", fmt.Errorf("%w: booking %s", ErrNotFound, bookingID)
	}

	first := rows[0]
	t := ticket.Ticket{
		BookingID:        bookingID,
		FlightNumber:     first.FlightNumber,
		DepartureAirport: first.DepartureAirportName,
		ArrivalAirport:   first.ArrivalAirportName,
		DepartureTime:    first.DepartureTime,
		ArrivalTime:      first.ArrivalTime,
	}
	if first.BookingTime != nil {
		t.BookingTime = time.UnixMilli(*first.BookingTime)
	}
	for _, row := range rows {
		seat := ticket.Seat{
			RowID:  row.ID,
			Class:  row.FlightClass.Label(),
			Status: string(row.Status),
			Fare:   row.SeatFare,
		}
		if row.SeatNumber != nil {
			seat.SeatNumber = *row.SeatNumber
		}
		if row.PassengerName != nil {
			seat.PassengerName = *row.PassengerName
		}
		t.Seats = append(t.Seats, seat)
	}

	pdf, err := ticket.Render(t)
	if err != nil {
		return nil, "", err
	}
	return pdf, ticket.FileName(bookingID), nil
}

func (s *BookingService) publish(ctx context.Context, routingKey string, event interface{}) {
	if err := s.publisher.Publish(ctx, routingKey, event); err != nil {
		s.logger.WithError(err).WithField("routing_key", routingKey).Warn("Failed to publish booking event")
	}
}

// lookupError maps a repository lookup failure onto ErrNotFound or ErrPersistence
func lookupError(entity string, id int64, err error) error {
	if errors.Is(err, database.ErrNotFound) {
		return fmt.Errorf("%w: %s %d", ErrNotFound, entity, id)
	}
	return fmt.Errorf("%w: %v", ErrPersistence, err)
}

func roundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}
