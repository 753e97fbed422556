package models

import (
	"time"
)

// EventCategories is the fixed set of accepted event categories.
var EventCategories = []string{"concert", "conference", "workshop", "sports", "other"}

// ValidCategory reports whether c is one of the accepted event categories.
func ValidCategory(c string) bool {
	for _, known := range EventCategories {
		if c == known {
			return true
		}
	}
	return false
}

// User represents a registered user
type User struct {
	ID           int64     `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         string    `json:"role" db:"role"`
	APIToken     *string   `json:"-" db:"api_token"`
	IsActive     bool      `json:"isActive" db:"is_active"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == "admin"
}

// Event represents a bookable event with a fixed seat capacity.
// AvailableSeats is the only field mutated outside of admin edits, and only
// through the conditional decrement in the booking repository.
type Event struct {
	ID             int64     `json:"id" db:"id"`
	Title          string    `json:"title" db:"title"`
	Description    string    `json:"description" db:"description"`
	Date           time.Time `json:"date" db:"date"`
	Venue          string    `json:"venue" db:"venue"`
	Category       string    `json:"category" db:"category"`
	TicketPrice    float64   `json:"ticketPrice" db:"ticket_price"`
	TotalSeats     int       `json:"totalSeats" db:"total_seats"`
	AvailableSeats int       `json:"availableSeats" db:"available_seats"`
	Image          string    `json:"image" db:"image"`
	CreatedBy      *int64    `json:"createdBy" db:"created_by"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
}

// Booking is an immutable record of a completed ticket purchase. It is
// written exactly once, when the external payment capture is confirmed.
type Booking struct {
	ID              int64     `json:"id" db:"id"`
	UserID          int64     `json:"userId" db:"user_id"`
	EventID         int64     `json:"eventId" db:"event_id"`
	NumberOfTickets int       `json:"numberOfTickets" db:"number_of_tickets"`
	TotalAmount     float64   `json:"totalAmount" db:"total_amount"`
	PaymentStatus   string    `json:"paymentStatus" db:"payment_status"`
	PaymentOrderID  string    `json:"paymentOrderId" db:"payment_order_id"`
	CaptureID       *string   `json:"captureId,omitempty" db:"capture_id"`
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`

	// Populated on reads; Event is nil when the referenced event was deleted.
	Event *EventSummary `json:"event"`
	User  *UserSummary  `json:"user,omitempty"`
}

// EventSummary is the denormalized event view embedded in booking responses
type EventSummary struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Date        time.Time `json:"date"`
	Venue       string    `json:"venue"`
	Category    string    `json:"category"`
	TicketPrice float64   `json:"ticketPrice"`
	Image       string    `json:"image"`
}

// UserSummary is the name/email-only user view embedded in booking responses
type UserSummary struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
