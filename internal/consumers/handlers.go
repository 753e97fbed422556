package consumers

import (
	"context"
	"encoding/json"
	"log/slog"

	"eventbook/internal/models"
	"eventbook/internal/repository"

	"github.com/nats-io/stan.go"
)

// Handlers persist the domain-event audit trail. Each handler unmarshals
// just enough of the payload to extract the correlation ids and stores the
// raw JSON alongside them.
type Handlers struct {
	audit *repository.AuditRepository
}

func NewHandlers(audit *repository.AuditRepository) *Handlers {
	return &Handlers{audit: audit}
}

func (h *Handlers) HandleOrderCreated(m *stan.Msg) {
	var event models.OrderCreatedEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal order created event", "error", err)
		return
	}

	h.record(models.SubjectOrderCreated, nil, &event.EventID, m.Data)
}

func (h *Handlers) HandleBookingConfirmed(m *stan.Msg) {
	var event models.BookingConfirmedEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal booking confirmed event", "error", err)
		return
	}

	h.record(models.SubjectBookingConfirmed, &event.BookingID, &event.EventID, m.Data)
}

func (h *Handlers) HandleCaptureFailed(m *stan.Msg) {
	var event models.CaptureFailedEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal capture failed event", "error", err)
		return
	}

	h.record(models.SubjectCaptureFailed, nil, &event.EventID, m.Data)
}

func (h *Handlers) HandleEventCreated(m *stan.Msg) {
	var event models.EventCreatedEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal event created event", "error", err)
		return
	}

	h.record(models.SubjectEventCreated, nil, &event.EventID, m.Data)
}

func (h *Handlers) HandleEventDeleted(m *stan.Msg) {
	var event models.EventDeletedEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal event deleted event", "error", err)
		return
	}

	h.record(models.SubjectEventDeleted, nil, &event.EventID, m.Data)
}

func (h *Handlers) record(subject string, bookingID, eventID *int64, payload []byte) {
	if err := h.audit.Record(context.Background(), subject, bookingID, eventID, payload); err != nil {
		slog.Error("Failed to record audit entry", "error", err, "subject", subject)
	}
}
