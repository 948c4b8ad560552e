package database

import (
	"fmt"

	"github.com/airlinereservation/booking-backend/internal/models"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const seatRowColumns = `id, flight_id, flight_class, seat_number, status, passenger_id,
	booking_id, booking_time, created_at, updated_at`

const seatRowDetailsSelect = `
	SELECT fb.id, fb.flight_id, fb.flight_class, fb.seat_number, fb.status, fb.passenger_id,
	       fb.booking_id, fb.booking_time, fb.created_at, fb.updated_at,
	       f.flight_number, f.departure_time, f.arrival_time,
	       da.name AS departure_airport, aa.name AS arrival_airport,
	       u.name AS passenger_name, u.email AS passenger_email,
	       CASE fb.flight_class
	           WHEN 'business' THEN f.business_seat_fare
	           WHEN 'first' THEN f.first_class_seat_fare
	           ELSE f.economy_seat_fare
	       END AS seat_fare
	FROM flight_bookings fb
	JOIN flights f ON f.id = fb.flight_id
	JOIN airports da ON da.id = f.departure_airport_id
	JOIN airports aa ON aa.id = f.arrival_airport_id
	LEFT JOIN users u ON u.id = fb.passenger_id
`

// FlightBookingRepository handles the seat row ledger of every flight
type FlightBookingRepository struct {
	db DB
}

// NewFlightBookingRepository creates a new FlightBookingRepository
func NewFlightBookingRepository(db DB) *FlightBookingRepository {
	return &FlightBookingRepository{db: db}
}

// SeedSeatsTx creates count available rows for a class, numbered <prefix>1..<prefix>count
func (r *FlightBookingRepository) SeedSeatsTx(tx *sqlx.Tx, flightID int64, class models.FlightClass, count int) error {
	if count <= 0 {
		return nil
	}

	query := `
		INSERT INTO flight_bookings (flight_id, flight_class, seat_number, status)
		SELECT $1::bigint, $2::varchar, $3::text || g::text, $4::varchar
		FROM generate_series(1, $5::int) AS g
	`

	if _, err := tx.Exec(query, flightID, class, class.SeatPrefix(), models.FlightBookingStatusAvailable, count); err != nil {
		return fmt.Errorf("failed to seed %s seats: %w", class, err)
	}
	return nil
}

// LockAvailableTx selects up to limit available rows of a flight/class and locks them until tx ends.
// Rows come back in id order.
func (r *FlightBookingRepository) LockAvailableTx(tx *sqlx.Tx, flightID int64, class models.FlightClass, limit int) ([]models.FlightBooking, error) {
	rows := []models.FlightBooking{}
	query := `
		SELECT ` + seatRowColumns + `
		FROM flight_bookings
		WHERE flight_id = $1 AND flight_class = $2 AND status = $3
		ORDER BY id
		LIMIT $4
		FOR UPDATE
	`

	if err := tx.Select(&rows, query, flightID, class, models.FlightBookingStatusAvailable, limit); err != nil {
		return nil, fmt.Errorf("failed to lock available seats: %w", err)
	}
	return rows, nil
}

// ConfirmTx assigns locked available rows to a passenger under one booking reference
func (r *FlightBookingRepository) ConfirmTx(tx *sqlx.Tx, ids []int64, passengerID int64, bookingID string, bookingTime int64) ([]models.FlightBooking, error) {
	rows := []models.FlightBooking{}
	if len(ids) == 0 {
		return rows, nil
	}

	query := `
		UPDATE flight_bookings
		SET status = $1, passenger_id = $2, booking_id = $3, booking_time = $4, updated_at = NOW()
		WHERE id = ANY($5) AND status = $6
		RETURNING ` + seatRowColumns

	err := tx.Select(&rows, query,
		models.FlightBookingStatusConfirmed, passengerID, bookingID, bookingTime,
		pq.Array(ids), models.FlightBookingStatusAvailable,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to confirm seats: %w", err)
	}
	if len(rows) != len(ids) {
		return nil, fmt.Errorf("failed to confirm seats: %d of %d rows were no longer available", len(ids)-len(rows), len(ids))
	}
	return rows, nil
}

// InsertWaitingTx creates count new waiting rows for a passenger. They carry no seat number.
func (r *FlightBookingRepository) InsertWaitingTx(tx *sqlx.Tx, flightID int64, class models.FlightClass, passengerID int64, bookingID string, bookingTime int64, count int) ([]models.FlightBooking, error) {
	rows := []models.FlightBooking{}
	if count <= 0 {
		return rows, nil
	}

	query := `
		INSERT INTO flight_bookings (flight_id, flight_class, status, passenger_id, booking_id, booking_time)
		SELECT $1::bigint, $2::varchar, $3::varchar, $4::bigint, $5::varchar, $6::bigint
		FROM generate_series(1, $7::int)
		RETURNING ` + seatRowColumns

	err := tx.Select(&rows, query,
		flightID, class, models.FlightBookingStatusWaiting, passengerID, bookingID, bookingTime, count,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create waiting seats: %w", err)
	}
	return rows, nil
}

// GetByID retrieves a single seat row
func (r *FlightBookingRepository) GetByID(id int64) (*models.FlightBooking, error) {
	row := &models.FlightBooking{}
	if err := r.db.Get(row, `SELECT `+seatRowColumns+` FROM flight_bookings WHERE id = $1`, id); err != nil {
		if translateError(err) == ErrNotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch booking: %w", err)
	}
	return row, nil
}

// UpdateStatus changes the status of exactly one seat row
func (r *FlightBookingRepository) UpdateStatus(id int64, status models.FlightBookingStatus) error {
	result, err := r.db.Exec(`UPDATE flight_bookings SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
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

// ListByStatuses returns detailed rows whose status is one of statuses
func (r *FlightBookingRepository) ListByStatuses(statuses []models.FlightBookingStatus) ([]models.FlightBookingDetail, error) {
	return r.selectDetails(seatRowDetailsSelect+` WHERE fb.status = ANY($1) ORDER BY fb.id DESC`, pq.Array(statusStrings(statuses)))
}

// ListByPassenger returns every row owned by a passenger
func (r *FlightBookingRepository) ListByPassenger(passengerID int64) ([]models.FlightBookingDetail, error) {
	return r.selectDetails(seatRowDetailsSelect+` WHERE fb.passenger_id = $1 ORDER BY fb.id DESC`, passengerID)
}

// ListByFlightExcluding returns a flight's rows whose status is not one of excluded
func (r *FlightBookingRepository) ListByFlightExcluding(flightID int64, excluded []models.FlightBookingStatus) ([]models.FlightBookingDetail, error) {
	return r.selectDetails(
		seatRowDetailsSelect+` WHERE fb.flight_id = $1 AND NOT (fb.status = ANY($2)) ORDER BY fb.id`,
		flightID, pq.Array(statusStrings(excluded)),
	)
}

// ListByBookingID returns every row sharing a booking reference
func (r *FlightBookingRepository) ListByBookingID(bookingID string) ([]models.FlightBookingDetail, error) {
	return r.selectDetails(seatRowDetailsSelect+` WHERE fb.booking_id = $1 ORDER BY fb.id`, bookingID)
}

// ListByFlight returns every seat row of a flight
func (r *FlightBookingRepository) ListByFlight(flightID int64) ([]models.FlightBooking, error) {
	rows := []models.FlightBooking{}
	if err := r.db.Select(&rows, `SELECT `+seatRowColumns+` FROM flight_bookings WHERE flight_id = $1 ORDER BY id`, flightID); err != nil {
		return nil, fmt.Errorf("failed to fetch flight seats: %w", err)
	}
	return rows, nil
}

// LockByFlightTx returns every seat row of a flight, locked until tx ends
func (r *FlightBookingRepository) LockByFlightTx(tx *sqlx.Tx, flightID int64) ([]models.FlightBooking, error) {
	rows := []models.FlightBooking{}
	query := `SELECT ` + seatRowColumns + ` FROM flight_bookings WHERE flight_id = $1 ORDER BY id FOR UPDATE`
	if err := tx.Select(&rows, query, flightID); err != nil {
		return nil, fmt.Errorf("failed to lock flight seats: %w", err)
	}
	return rows, nil
}

// DeleteAvailableByFlightTx removes the unsold seat rows of a flight. Rows that were ever
// confirmed, waiting, cancelled or pending are kept.
func (r *FlightBookingRepository) DeleteAvailableByFlightTx(tx *sqlx.Tx, flightID int64) (int64, error) {
	result, err := tx.Exec(`DELETE FROM flight_bookings WHERE flight_id = $1 AND status = $2`,
		flightID, models.FlightBookingStatusAvailable)
	if err != nil {
		return 0, fmt.Errorf("failed to delete available seats: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows, nil
}

func (r *FlightBookingRepository) selectDetails(query string, args ...interface{}) ([]models.FlightBookingDetail, error) {
	rows := []models.FlightBookingDetail{}
	if err := r.db.Select(&rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to fetch bookings: %w", err)
	}
	return rows, nil
}

func statusStrings(statuses []models.FlightBookingStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
