package database

import "fmt"

// schemaStatements creates the tables used by the service. Every statement is idempotent.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            BIGSERIAL PRIMARY KEY,
		name          VARCHAR(120) NOT NULL,
		email         VARCHAR(255) NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		contact       VARCHAR(20),
		street        VARCHAR(255),
		city          VARCHAR(120),
		pincode       VARCHAR(10),
		age           INT NOT NULL DEFAULT 0,
		gender        VARCHAR(20),
		role          VARCHAR(20) NOT NULL,
		status        VARCHAR(20) NOT NULL DEFAULT 'active',
		wallet_amount NUMERIC(12,2) NOT NULL DEFAULT 0 CHECK (wallet_amount >= 0),
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS airports (
		id         BIGSERIAL PRIMARY KEY,
		name       VARCHAR(160) NOT NULL,
		code       CHAR(3) NOT NULL UNIQUE,
		city       VARCHAR(120) NOT NULL,
		address    TEXT NOT NULL DEFAULT '',
		status     VARCHAR(20) NOT NULL DEFAULT 'active',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS airplanes (
		id                  BIGSERIAL PRIMARY KEY,
		name                VARCHAR(120) NOT NULL,
		registration_number VARCHAR(40) NOT NULL UNIQUE,
		economy_seats       INT NOT NULL DEFAULT 0,
		business_seats      INT NOT NULL DEFAULT 0,
		first_class_seats   INT NOT NULL DEFAULT 0,
		total_seat          INT NOT NULL DEFAULT 0,
		status              VARCHAR(20) NOT NULL DEFAULT 'active',
		created_at          TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS flights (
		id                    BIGSERIAL PRIMARY KEY,
		flight_number         VARCHAR(20) NOT NULL,
		airplane_id           BIGINT NOT NULL REFERENCES airplanes(id),
		departure_airport_id  BIGINT NOT NULL REFERENCES airports(id),
		arrival_airport_id    BIGINT NOT NULL REFERENCES airports(id),
		departure_time        TIMESTAMPTZ NOT NULL,
		arrival_time          TIMESTAMPTZ NOT NULL,
		economy_seat_fare     NUMERIC(12,2) NOT NULL DEFAULT 0,
		business_seat_fare    NUMERIC(12,2) NOT NULL DEFAULT 0,
		first_class_seat_fare NUMERIC(12,2) NOT NULL DEFAULT 0,
		status                VARCHAR(20) NOT NULL DEFAULT 'scheduled',
		created_at            TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at            TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS flight_bookings (
		id           BIGSERIAL PRIMARY KEY,
		flight_id    BIGINT NOT NULL REFERENCES flights(id),
		flight_class VARCHAR(20) NOT NULL,
		seat_number  VARCHAR(10),
		status       VARCHAR(20) NOT NULL DEFAULT 'available',
		passenger_id BIGINT REFERENCES users(id),
		booking_id   VARCHAR(64),
		booking_time BIGINT,
		created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_flight_bookings_pool ON flight_bookings (flight_id, flight_class, status)`,
	`CREATE INDEX IF NOT EXISTS idx_flight_bookings_booking_id ON flight_bookings (booking_id)`,
	`CREATE INDEX IF NOT EXISTS idx_flight_bookings_passenger ON flight_bookings (passenger_id)`,
	`CREATE TABLE IF NOT EXISTS password_reset_codes (
		id           BIGSERIAL PRIMARY KEY,
		email        VARCHAR(255) NOT NULL,
		otp_code     VARCHAR(10) NOT NULL,
		expires_at   TIMESTAMPTZ NOT NULL,
		attempts     INT NOT NULL DEFAULT 0,
		max_attempts INT NOT NULL DEFAULT 3,
		used         BOOLEAN NOT NULL DEFAULT FALSE,
		ip_address   VARCHAR(64),
		created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		id         UUID PRIMARY KEY,
		user_id    BIGINT NOT NULL REFERENCES users(id),
		token_hash CHAR(64) NOT NULL UNIQUE,
		ip_address VARCHAR(64),
		user_agent TEXT,
		expires_at TIMESTAMPTZ NOT NULL,
		revoked    BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS audit_logs (
		id          BIGSERIAL PRIMARY KEY,
		user_id     BIGINT,
		action      VARCHAR(64) NOT NULL,
		entity_type VARCHAR(64),
		entity_id   VARCHAR(64),
		ip_address  VARCHAR(64),
		user_agent  TEXT,
		details     JSONB,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

// EnsureSchema creates any missing tables and indexes
func EnsureSchema(db DB) error {
	for i, stmt := range schemaStatements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement %d: %w", i+1, err)
		}
	}
	return nil
}
