package repository

import (
	"context"

	"eventbook/internal/database"
)

// AuditRepository appends domain events to the booking_audit table. Written
// by the consumer binary, never read on a request path.
type AuditRepository struct {
	db *database.DB
}

func NewAuditRepository(db *database.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Record(ctx context.Context, subject string, bookingID, eventID *int64, payload []byte) error {
	query := `
		INSERT INTO booking_audit (subject, booking_id, event_id, payload)
		VALUES ($1, $2, $3, $4)`

	_, err := r.db.ExecContext(ctx, query, subject, bookingID, eventID, payload)
	return err
}
