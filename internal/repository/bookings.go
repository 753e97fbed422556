package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"eventbook/internal/database"
	apperrors "eventbook/internal/errors"
	"eventbook/internal/models"

	"github.com/lib/pq"
)

// ErrDuplicateOrder is returned when a booking for the same external payment
// order id already exists. Callers treat it as an idempotent replay and fetch
// the existing booking.
var ErrDuplicateOrder = errors.New("payment order already consumed by a booking")

type BookingRepository struct {
	db *database.DB
}

func NewBookingRepository(db *database.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// CreateWithSeatDecrement records the booking and takes its seats in one
// transaction. The seat check and decrement are a single conditional UPDATE,
// so two concurrent captures against the same event cannot both pass the
// availability check.
func (r *BookingRepository) CreateWithSeatDecrement(ctx context.Context, booking *models.Booking) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		UPDATE events
		SET available_seats = available_seats - $1
		WHERE id = $2 AND available_seats >= $1`,
		booking.NumberOfTickets, booking.EventID)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if affected == 0 {
		// Distinguish a vanished event from an exhausted one.
		var available int
		err := tx.QueryRowContext(ctx,
			`SELECT available_seats FROM events WHERE id = $1`,
			booking.EventID).Scan(&available)
		if err == sql.ErrNoRows {
			return apperrors.ErrEventNotFound
		}
		if err != nil {
			return err
		}
		return apperrors.ErrInsufficientSeats
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO bookings (user_id, event_id, number_of_tickets, total_amount,
		                      payment_status, payment_order_id, capture_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`,
		booking.UserID,
		booking.EventID,
		booking.NumberOfTickets,
		booking.TotalAmount,
		booking.PaymentStatus,
		booking.PaymentOrderID,
		booking.CaptureID,
	).Scan(&booking.ID, &booking.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			// The rollback undoes the decrement above.
			return ErrDuplicateOrder
		}
		return fmt.Errorf("failed to insert booking: %w", err)
	}

	return tx.Commit()
}

// GetByOrderID looks a booking up by its external payment order id
func (r *BookingRepository) GetByOrderID(ctx context.Context, orderID string) (*models.Booking, error) {
	return r.getOne(ctx, `WHERE b.payment_order_id = $1`, orderID)
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*models.Booking, error) {
	return r.getOne(ctx, `WHERE b.id = $1`, id)
}

func (r *BookingRepository) getOne(ctx context.Context, where string, arg interface{}) (*models.Booking, error) {
	query := selectBookings + where

	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings, err := scanBookings(rows)
	if err != nil {
		return nil, err
	}
	if len(bookings) == 0 {
		return nil, nil
	}
	return &bookings[0], nil
}

// ListByUser returns the user's bookings, newest first, event populated
func (r *BookingRepository) ListByUser(ctx context.Context, userID int64) ([]models.Booking, error) {
	query := selectBookings + `WHERE b.user_id = $1 ORDER BY b.created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanBookings(rows)
}

// ListAll returns every booking, newest first, event and user populated
func (r *BookingRepository) ListAll(ctx context.Context) ([]models.Booking, error) {
	query := selectBookings + `ORDER BY b.created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanBookings(rows)
}

// The event side is a LEFT JOIN: deleting an event leaves its bookings with a
// dangling reference, which readers render as a null event.
const selectBookings = `
	SELECT b.id, b.user_id, b.event_id, b.number_of_tickets, b.total_amount,
	       b.payment_status, b.payment_order_id, b.capture_id, b.created_at,
	       e.id, e.title, e.date, e.venue, e.category, e.ticket_price, e.image,
	       u.id, u.name, u.email
	FROM bookings b
	LEFT JOIN events e ON e.id = b.event_id
	JOIN users u ON u.id = b.user_id
	`

func scanBookings(rows *sql.Rows) ([]models.Booking, error) {
	var bookings []models.Booking

	for rows.Next() {
		var b models.Booking
		var eventID sql.NullInt64
		var title, venue, category, image sql.NullString
		var date sql.NullTime
		var price sql.NullFloat64
		var user models.UserSummary

		err := rows.Scan(
			&b.ID,
			&b.UserID,
			&b.EventID,
			&b.NumberOfTickets,
			&b.TotalAmount,
			&b.PaymentStatus,
			&b.PaymentOrderID,
			&b.CaptureID,
			&b.CreatedAt,
			&eventID,
			&title,
			&date,
			&venue,
			&category,
			&price,
			&image,
			&user.ID,
			&user.Name,
			&user.Email,
		)
		if err != nil {
			return nil, err
		}

		if eventID.Valid {
			b.Event = &models.EventSummary{
				ID:          eventID.Int64,
				Title:       title.String,
				Date:        date.Time,
				Venue:       venue.String,
				Category:    category.String,
				TicketPrice: price.Float64,
				Image:       image.String,
			}
		}
		b.User = &user

		bookings = append(bookings, b)
	}

	return bookings, rows.Err()
}
