package database

import (
	"fmt"

	"github.com/airlinereservation/booking-backend/internal/models"
	"github.com/jmoiron/sqlx"
)

const userColumns = `id, name, email, password_hash, contact, street, city, pincode,
	age, gender, role, status, wallet_amount, created_at, updated_at`

// UserRepository handles user database operations
type UserRepository struct {
	db DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

// CreateUser inserts a user and fills in the generated id and timestamps
func (r *UserRepository) CreateUser(user *models.User) error {
	query := `
		INSERT INTO users (
			name, email, password_hash, contact, street, city, pincode,
			age, gender, role, status, wallet_amount
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRowx(
		query,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Contact,
		user.Street,
		user.City,
		user.Pincode,
		user.Age,
		user.Gender,
		user.Role,
		user.Status,
		user.WalletAmount,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if translateError(err) == ErrDuplicate {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetUserByID retrieves a user by id
func (r *UserRepository) GetUserByID(id int64) (*models.User, error) {
	return r.getOne(r.db, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// GetUserByEmail retrieves a user by email (case-insensitive)
func (r *UserRepository) GetUserByEmail(email string) (*models.User, error) {
	return r.getOne(r.db, `SELECT `+userColumns+` FROM users WHERE LOWER(email) = LOWER($1)`, email)
}

// GetUserForUpdateTx loads a user and locks the row until tx ends
func (r *UserRepository) GetUserForUpdateTx(tx *sqlx.Tx, id int64) (*models.User, error) {
	return r.getOne(tx, `SELECT `+userColumns+` FROM users WHERE id = $1 FOR UPDATE`, id)
}

// GetUsersByRole lists users holding a role, newest first
func (r *UserRepository) GetUsersByRole(role models.UserRole) ([]models.User, error) {
	users := []models.User{}
	query := `SELECT ` + userColumns + ` FROM users WHERE role = $1 ORDER BY id DESC`
	if err := r.db.Select(&users, query, role); err != nil {
		return nil, fmt.Errorf("failed to fetch users: %w", err)
	}
	return users, nil
}

// CountByRole counts users holding a role
func (r *UserRepository) CountByRole(role models.UserRole) (int, error) {
	var count int
	if err := r.db.Get(&count, `SELECT COUNT(*) FROM users WHERE role = $1`, role); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}

// UpdateStatus activates or deactivates a user
func (r *UserRepository) UpdateStatus(id int64, status string) error {
	return r.execOne(r.db, `UPDATE users SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
}

// UpdatePassword replaces the stored password hash for an email
func (r *UserRepository) UpdatePassword(email, passwordHash string) error {
	return r.execOne(r.db,
		`UPDATE users SET password_hash = $2, updated_at = NOW() WHERE LOWER(email) = LOWER($1)`,
		email, passwordHash)
}

// AddWalletAmount credits a wallet and returns the new balance
func (r *UserRepository) AddWalletAmount(id int64, amount float64) (float64, error) {
	var balance float64
	err := r.db.Get(&balance, `
		UPDATE users
		SET wallet_amount = wallet_amount + $2, updated_at = NOW()
		WHERE id = $1
		RETURNING wallet_amount
	`, id, amount)
	if err != nil {
		if translateError(err) == ErrNotFound {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("failed to credit wallet: %w", err)
	}
	return balance, nil
}

// SetWalletAmountTx writes a new wallet balance inside tx
func (r *UserRepository) SetWalletAmountTx(tx *sqlx.Tx, id int64, amount float64) error {
	return r.execOne(tx, `UPDATE users SET wallet_amount = $2, updated_at = NOW() WHERE id = $1`, id, amount)
}

func (r *UserRepository) getOne(q Queryer, query string, args ...interface{}) (*models.User, error) {
	user := &models.User{}
	if err := q.Get(user, query, args...); err != nil {
		if translateError(err) == ErrNotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	return user, nil
}

func (r *UserRepository) execOne(q Queryer, query string, args ...interface{}) error {
	result, err := q.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
