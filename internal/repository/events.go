package repository

import (
	"context"
	"database/sql"

	"eventbook/internal/database"
	"eventbook/internal/models"
)

type EventRepository struct {
	db *database.DB
}

func NewEventRepository(db *database.DB) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	query := `
		INSERT INTO events (title, description, date, venue, category,
		                    ticket_price, total_seats, available_seats, image, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		event.Title,
		event.Description,
		event.Date,
		event.Venue,
		event.Category,
		event.TicketPrice,
		event.TotalSeats,
		event.AvailableSeats,
		event.Image,
		event.CreatedBy,
	).Scan(&event.ID, &event.CreatedAt)

	return err
}

func (r *EventRepository) GetByID(ctx context.Context, id int64) (*models.Event, error) {
	event := &models.Event{}
	query := `
		SELECT id, title, description, date, venue, category, ticket_price,
		       total_seats, available_seats, image, created_by, created_at
		FROM events
		WHERE id = $1`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&event.ID,
		&event.Title,
		&event.Description,
		&event.Date,
		&event.Venue,
		&event.Category,
		&event.TicketPrice,
		&event.TotalSeats,
		&event.AvailableSeats,
		&event.Image,
		&event.CreatedBy,
		&event.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return event, err
}

// List returns the whole catalog. The public contract has no pagination;
// callers cache the result instead.
func (r *EventRepository) List(ctx context.Context) ([]models.Event, error) {
	var events []models.Event
	query := `
		SELECT id, title, description, date, venue, category, ticket_price,
		       total_seats, available_seats, image, created_by, created_at
		FROM events
		ORDER BY date ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var event models.Event
		err := rows.Scan(
			&event.ID,
			&event.Title,
			&event.Description,
			&event.Date,
			&event.Venue,
			&event.Category,
			&event.TicketPrice,
			&event.TotalSeats,
			&event.AvailableSeats,
			&event.Image,
			&event.CreatedBy,
			&event.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}

	return events, rows.Err()
}

// Update overwrites every mutable field, including total_seats and
// available_seats, with no reconciliation between them. Admin edits can
// therefore break the seat invariant; that matches the documented contract.
func (r *EventRepository) Update(ctx context.Context, event *models.Event) error {
	query := `
		UPDATE events
		SET title = $1, description = $2, date = $3, venue = $4, category = $5,
		    ticket_price = $6, total_seats = $7, available_seats = $8, image = $9
		WHERE id = $10`

	_, err := r.db.ExecContext(ctx, query,
		event.Title,
		event.Description,
		event.Date,
		event.Venue,
		event.Category,
		event.TicketPrice,
		event.TotalSeats,
		event.AvailableSeats,
		event.Image,
		event.ID,
	)

	return err
}

func (r *EventRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	return err
}
