package models

import "time"

// NATS subjects
const (
	SubjectOrderCreated     = "payment.order.created"
	SubjectCaptureFailed    = "payment.capture.failed"
	SubjectBookingConfirmed = "booking.confirmed"
	SubjectEventCreated     = "catalog.event.created"
	SubjectEventDeleted     = "catalog.event.deleted"
)

// OrderCreatedEvent is published when an external payment order is opened.
// No seats are held at this point.
type OrderCreatedEvent struct {
	OrderID         string    `json:"order_id"`
	EventID         int64     `json:"event_id"`
	UserID          int64     `json:"user_id"`
	NumberOfTickets int       `json:"number_of_tickets"`
	Amount          string    `json:"amount"`
	Timestamp       time.Time `json:"timestamp"`
}

// BookingConfirmedEvent is published after the capture succeeded and the
// seats were decremented.
type BookingConfirmedEvent struct {
	BookingID       int64     `json:"booking_id"`
	EventID         int64     `json:"event_id"`
	UserID          int64     `json:"user_id"`
	NumberOfTickets int       `json:"number_of_tickets"`
	TotalAmount     float64   `json:"total_amount"`
	OrderID         string    `json:"order_id"`
	Timestamp       time.Time `json:"timestamp"`
}

// CaptureFailedEvent is published when a capture attempt did not complete
type CaptureFailedEvent struct {
	OrderID   string    `json:"order_id"`
	EventID   int64     `json:"event_id"`
	UserID    int64     `json:"user_id"`
	Reason    string    `json:"reason"`
	Timestamp time.Time `json:"timestamp"`
}

// EventCreatedEvent is published on catalog create
type EventCreatedEvent struct {
	EventID    int64     `json:"event_id"`
	Title      string    `json:"title"`
	TotalSeats int       `json:"total_seats"`
	Timestamp  time.Time `json:"timestamp"`
}

// EventDeletedEvent is published on catalog delete
type EventDeletedEvent struct {
	EventID   int64     `json:"event_id"`
	Timestamp time.Time `json:"timestamp"`
}
