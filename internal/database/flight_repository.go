package database

import (
	"fmt"
	"strings"
	"time"

	"github.com/airlinereservation/booking-backend/internal/models"
	"github.com/jmoiron/sqlx"
)

const flightColumns = `id, flight_number, airplane_id, departure_airport_id, arrival_airport_id,
	departure_time, arrival_time, economy_seat_fare, business_seat_fare, first_class_seat_fare,
	status, created_at, updated_at`

const flightDetailsSelect = `
	SELECT f.id, f.flight_number, f.airplane_id, f.departure_airport_id, f.arrival_airport_id,
	       f.departure_time, f.arrival_time, f.economy_seat_fare, f.business_seat_fare,
	       f.first_class_seat_fare, f.status, f.created_at, f.updated_at,
	       da.name AS departure_airport, da.code AS departure_airport_code,
	       aa.name AS arrival_airport, aa.code AS arrival_airport_code,
	       ap.name AS airplane_name
	FROM flights f
	JOIN airports da ON da.id = f.departure_airport_id
	JOIN airports aa ON aa.id = f.arrival_airport_id
	JOIN airplanes ap ON ap.id = f.airplane_id
`

// FlightRepository handles flight database operations
type FlightRepository struct {
	db DB
}

// NewFlightRepository creates a new FlightRepository
func NewFlightRepository(db DB) *FlightRepository {
	return &FlightRepository{db: db}
}

// CreateTx inserts a flight inside tx
func (r *FlightRepository) CreateTx(tx *sqlx.Tx, flight *models.Flight) error {
	query := `
		INSERT INTO flights (
			flight_number, airplane_id, departure_airport_id, arrival_airport_id,
			departure_time, arrival_time, economy_seat_fare, business_seat_fare,
			first_class_seat_fare, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`

	err := tx.QueryRowx(query,
		flight.FlightNumber, flight.AirplaneID, flight.DepartureAirportID, flight.ArrivalAirportID,
		flight.DepartureTime, flight.ArrivalTime, flight.EconomySeatFare, flight.BusinessSeatFare,
		flight.FirstClassSeatFare, flight.Status,
	).Scan(&flight.ID, &flight.CreatedAt, &flight.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create flight: %w", err)
	}
	return nil
}

// GetByID retrieves a flight by id
func (r *FlightRepository) GetByID(id int64) (*models.Flight, error) {
	return r.get(r.db, id)
}

// GetByIDTx retrieves a flight inside tx
func (r *FlightRepository) GetByIDTx(tx *sqlx.Tx, id int64) (*models.Flight, error) {
	return r.get(tx, id)
}

// ListWithDetails returns every flight with airport and airplane names, soonest first
func (r *FlightRepository) ListWithDetails() ([]models.FlightWithDetails, error) {
	flights := []models.FlightWithDetails{}
	if err := r.db.Select(&flights, flightDetailsSelect+` ORDER BY f.departure_time`); err != nil {
		return nil, fmt.Errorf("failed to fetch flights: %w", err)
	}
	return flights, nil
}

// Search filters flights by route and departure day. Zero-valued criteria are ignored.
func (r *FlightRepository) Search(criteria models.FlightSearchCriteria) ([]models.FlightWithDetails, error) {
	var conditions []string
	var args []interface{}

	if criteria.DepartureAirportID != 0 {
		args = append(args, criteria.DepartureAirportID)
		conditions = append(conditions, fmt.Sprintf("f.departure_airport_id = $%d", len(args)))
	}
	if criteria.ArrivalAirportID != 0 {
		args = append(args, criteria.ArrivalAirportID)
		conditions = append(conditions, fmt.Sprintf("f.arrival_airport_id = $%d", len(args)))
	}
	if criteria.Date != nil {
		start := time.Date(criteria.Date.Year(), criteria.Date.Month(), criteria.Date.Day(), 0, 0, 0, 0, criteria.Date.Location())
		args = append(args, start, start.AddDate(0, 0, 1))
		conditions = append(conditions, fmt.Sprintf("f.departure_time >= $%d AND f.departure_time < $%d", len(args)-1, len(args)))
	}

	query := flightDetailsSelect
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY f.departure_time"

	flights := []models.FlightWithDetails{}
	if err := r.db.Select(&flights, query, args...); err != nil {
		return nil, fmt.Errorf("failed to search flights: %w", err)
	}
	return flights, nil
}

// UpdateStatus sets the operational status of a flight
func (r *FlightRepository) UpdateStatus(id int64, status models.FlightStatus) error {
	result, err := r.db.Exec(`UPDATE flights SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("failed to update flight status: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkDeparted moves scheduled or delayed flights whose departure time has passed to departed
func (r *FlightRepository) MarkDeparted(now time.Time) (int64, error) {
	result, err := r.db.Exec(`
		UPDATE flights
		SET status = $1, updated_at = NOW()
		WHERE status IN ($2, $3) AND departure_time < $4
	`, models.FlightStatusDeparted, models.FlightStatusScheduled, models.FlightStatusDelayed, now)
	if err != nil {
		return 0, fmt.Errorf("failed to mark departed flights: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows, nil
}

func (r *FlightRepository) get(q Queryer, id int64) (*models.Flight, error) {
	flight := &models.Flight{}
	if err := q.Get(flight, `SELECT `+flightColumns+` FROM flights WHERE id = $1`, id); err != nil {
		if translateError(err) == ErrNotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch flight: %w", err)
	}
	return flight, nil
}
