package service

import (
	"context"

	"eventbook/internal/external"
	"eventbook/internal/messaging"
	"eventbook/internal/models"
	"eventbook/internal/repository"
	"eventbook/internal/search"
)

// EventStore is the catalog persistence contract
type EventStore interface {
	Create(ctx context.Context, event *models.Event) error
	GetByID(ctx context.Context, id int64) (*models.Event, error)
	List(ctx context.Context) ([]models.Event, error)
	Update(ctx context.Context, event *models.Event) error
	Delete(ctx context.Context, id int64) error
}

// BookingStore is the booking ledger contract. CreateWithSeatDecrement must
// perform the seat check and decrement atomically with the insert, and report
// an exhausted counter as errors.ErrInsufficientSeats.
type BookingStore interface {
	CreateWithSeatDecrement(ctx context.Context, booking *models.Booking) error
	GetByOrderID(ctx context.Context, orderID string) (*models.Booking, error)
	ListByUser(ctx context.Context, userID int64) ([]models.Booking, error)
	ListAll(ctx context.Context) ([]models.Booking, error)
}

// PaymentGateway is the slice of the external payment processor this
// workflow consumes.
type PaymentGateway interface {
	CreateOrder(ctx context.Context, amount, description, returnURL, cancelURL string) (string, error)
	CaptureOrder(ctx context.Context, orderID string) (*external.CaptureResult, error)
}

// Publisher emits domain events; failures are logged, never propagated
type Publisher interface {
	Publish(subject string, data interface{}) error
}

// EventIndexer mirrors catalog writes into the search index
type EventIndexer interface {
	IndexEvent(ctx context.Context, event *models.Event) error
	DeleteEvent(ctx context.Context, eventID int64) error
	SearchEvents(ctx context.Context, query string) ([]models.Event, error)
}

type Services struct {
	Bookings *BookingService
	Events   *EventService
}

func NewServices(repos *repository.Repositories, natsClient *messaging.NATSClient, paypalClient *external.PayPalClient, esClient *search.Client, clientURL string) *Services {
	// The search client is optional; a typed nil must not masquerade as a
	// non-nil interface value.
	var indexer EventIndexer
	if esClient != nil {
		indexer = esClient
	}

	return &Services{
		Bookings: NewBookingService(repos.Bookings, repos.Events, paypalClient, natsClient, clientURL),
		Events:   NewEventService(repos.Events, indexer, natsClient),
	}
}
