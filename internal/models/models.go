package models

import "time"

// CreateOrderRequest starts the payment flow for a number of tickets
type CreateOrderRequest struct {
	EventID         int64 `json:"eventId" binding:"required"`
	NumberOfTickets int   `json:"numberOfTickets" binding:"required,min=1"`
}

// CreateOrderResponse carries the external order id and the quoted amount,
// formatted to two decimal places.
type CreateOrderResponse struct {
	OrderID string `json:"orderId"`
	Amount  string `json:"amount"`
}

// CaptureOrderRequest completes the payment flow and books the seats
type CaptureOrderRequest struct {
	OrderID         string `json:"orderId" binding:"required"`
	EventID         int64  `json:"eventId" binding:"required"`
	NumberOfTickets int    `json:"numberOfTickets" binding:"required,min=1"`
}

// CreateEventRequest - admin-only catalog create
type CreateEventRequest struct {
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description" binding:"required"`
	Date        time.Time `json:"date" binding:"required"`
	Venue       string    `json:"venue" binding:"required"`
	Category    string    `json:"category" binding:"required"`
	TicketPrice *float64  `json:"ticketPrice" binding:"required"`
	TotalSeats  int       `json:"totalSeats" binding:"required,min=1"`
	Image       string    `json:"image"`
}

// UpdateEventRequest - admin-only catalog update. All fields are optional;
// present fields overwrite unconditionally, including totalSeats and
// availableSeats, with no invariant re-check between them.
type UpdateEventRequest struct {
	Title          *string    `json:"title"`
	Description    *string    `json:"description"`
	Date           *time.Time `json:"date"`
	Venue          *string    `json:"venue"`
	Category       *string    `json:"category"`
	TicketPrice    *float64   `json:"ticketPrice"`
	TotalSeats     *int       `json:"totalSeats"`
	AvailableSeats *int       `json:"availableSeats"`
	Image          *string    `json:"image"`
}
