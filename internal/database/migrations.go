package database

import (
	"fmt"
	"log/slog"
)

func (db *DB) RunMigrations() error {
	slog.Info("Running database migrations...")

	migrations := []string{
		createUsersTable,
		createEventsTable,
		createBookingsTable,
		createBookingAuditTable,
		createBookingsUserIndex,
	}

	for i, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	slog.Info("All migrations completed successfully")
	return nil
}

const createUsersTable = `
CREATE TABLE IF NOT EXISTS users (
    id SERIAL PRIMARY KEY,
    name VARCHAR(255) NOT NULL,
    email VARCHAR(255) UNIQUE NOT NULL,
    password_hash VARCHAR(64) NOT NULL,
    role VARCHAR(20) NOT NULL DEFAULT 'user',
    api_token VARCHAR(128) UNIQUE,
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),

    CHECK (role IN ('user', 'admin'))
);`

const createEventsTable = `
CREATE TABLE IF NOT EXISTS events (
    id SERIAL PRIMARY KEY,
    title VARCHAR(500) NOT NULL,
    description TEXT NOT NULL,
    date TIMESTAMP NOT NULL,
    venue VARCHAR(500) NOT NULL,
    category VARCHAR(50) NOT NULL,
    ticket_price NUMERIC(10,2) NOT NULL CHECK (ticket_price >= 0),
    total_seats INTEGER NOT NULL CHECK (total_seats >= 1),
    available_seats INTEGER NOT NULL,
    image VARCHAR(1000) NOT NULL DEFAULT 'https://via.placeholder.com/400x300',
    created_by INTEGER REFERENCES users(id),
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),

    CHECK (category IN ('concert', 'conference', 'workshop', 'sports', 'other'))
);`

// event_id is deliberately not a foreign key: deleting an event leaves its
// bookings behind with a dangling reference, and readers render those with a
// null event summary.
const createBookingsTable = `
CREATE TABLE IF NOT EXISTS bookings (
    id SERIAL PRIMARY KEY,
    user_id INTEGER NOT NULL REFERENCES users(id),
    event_id INTEGER NOT NULL,
    number_of_tickets INTEGER NOT NULL CHECK (number_of_tickets >= 1),
    total_amount NUMERIC(10,2) NOT NULL,
    payment_status VARCHAR(20) NOT NULL DEFAULT 'pending',
    payment_order_id VARCHAR(128) UNIQUE NOT NULL,
    capture_id VARCHAR(128),
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),

    CHECK (payment_status IN ('pending', 'completed', 'failed'))
);`

const createBookingAuditTable = `
CREATE TABLE IF NOT EXISTS booking_audit (
    id SERIAL PRIMARY KEY,
    subject VARCHAR(100) NOT NULL,
    booking_id INTEGER,
    event_id INTEGER,
    payload JSONB NOT NULL,
    recorded_at TIMESTAMP NOT NULL DEFAULT NOW()
);`

const createBookingsUserIndex = `
CREATE INDEX IF NOT EXISTS idx_bookings_user_created
    ON bookings (user_id, created_at DESC);`
