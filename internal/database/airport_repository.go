package database

import (
	"fmt"

	"github.com/airlinereservation/booking-backend/internal/models"
)

// AirportRepository handles airport database operations
type AirportRepository struct {
	db DB
}

// NewAirportRepository creates a new AirportRepository
func NewAirportRepository(db DB) *AirportRepository {
	return &AirportRepository{db: db}
}

// Create inserts an airport
func (r *AirportRepository) Create(airport *models.Airport) error {
	query := `
		INSERT INTO airports (name, code, city, address, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.db.QueryRowx(query, airport.Name, airport.Code, airport.City, airport.Address, airport.Status).
		Scan(&airport.ID, &airport.CreatedAt)
	if err != nil {
		if translateError(err) == ErrDuplicate {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create airport: %w", err)
	}
	return nil
}

// GetByID retrieves an airport by id
func (r *AirportRepository) GetByID(id int64) (*models.Airport, error) {
	airport := &models.Airport{}
	err := r.db.Get(airport, `SELECT id, name, code, city, address, status, created_at FROM airports WHERE id = $1`, id)
	if err != nil {
		if translateError(err) == ErrNotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch airport: %w", err)
	}
	return airport, nil
}

// List returns all airports ordered by name
func (r *AirportRepository) List() ([]models.Airport, error) {
	airports := []models.Airport{}
	err := r.db.Select(&airports, `SELECT id, name, code, city, address, status, created_at FROM airports ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch airports: %w", err)
	}
	return airports, nil
}
