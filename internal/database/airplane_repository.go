package database

import (
	"fmt"

	"github.com/airlinereservation/booking-backend/internal/models"
	"github.com/jmoiron/sqlx"
)

const airplaneColumns = `id, name, registration_number, economy_seats, business_seats,
	first_class_seats, total_seat, status, created_at`

// AirplaneRepository handles airplane database operations
type AirplaneRepository struct {
	db DB
}

// NewAirplaneRepository creates a new AirplaneRepository
func NewAirplaneRepository(db DB) *AirplaneRepository {
	return &AirplaneRepository{db: db}
}

// Create inserts an airplane. TotalSeat is derived from the class allocation.
func (r *AirplaneRepository) Create(airplane *models.Airplane) error {
	airplane.TotalSeat = airplane.EconomySeats + airplane.BusinessSeats + airplane.FirstClassSeats

	query := `
		INSERT INTO airplanes (
			name, registration_number, economy_seats, business_seats,
			first_class_seats, total_seat, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	err := r.db.QueryRowx(query,
		airplane.Name, airplane.RegistrationNumber, airplane.EconomySeats, airplane.BusinessSeats,
		airplane.FirstClassSeats, airplane.TotalSeat, airplane.Status,
	).Scan(&airplane.ID, &airplane.CreatedAt)
	if err != nil {
		if translateError(err) == ErrDuplicate {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create airplane: %w", err)
	}
	return nil
}

// GetByID retrieves an airplane by id
func (r *AirplaneRepository) GetByID(id int64) (*models.Airplane, error) {
	return r.get(r.db, id)
}

// GetByIDTx retrieves an airplane inside tx
func (r *AirplaneRepository) GetByIDTx(tx *sqlx.Tx, id int64) (*models.Airplane, error) {
	return r.get(tx, id)
}

// List returns all airplanes
func (r *AirplaneRepository) List() ([]models.Airplane, error) {
	airplanes := []models.Airplane{}
	if err := r.db.Select(&airplanes, `SELECT `+airplaneColumns+` FROM airplanes ORDER BY id`); err != nil {
		return nil, fmt.Errorf("failed to fetch airplanes: %w", err)
	}
	return airplanes, nil
}

func (r *AirplaneRepository) get(q Queryer, id int64) (*models.Airplane, error) {
	airplane := &models.Airplane{}
	if err := q.Get(airplane, `SELECT `+airplaneColumns+` FROM airplanes WHERE id = $1`, id); err != nil {
		if translateError(err) == ErrNotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch airplane: %w", err)
	}
	return airplane, nil
}
