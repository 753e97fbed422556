package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	apperrors "eventbook/internal/errors"
	"eventbook/internal/external"
	"eventbook/internal/models"
	"eventbook/internal/repository"
)

// fakeStore implements EventStore and BookingStore over in-memory maps. The
// single mutex gives CreateWithSeatDecrement the same check-and-decrement
// atomicity the Postgres conditional UPDATE provides, which is what the
// concurrency tests exercise.
type fakeStore struct {
	mu          sync.Mutex
	events      map[int64]*models.Event
	bookings    map[int64]*models.Booking
	byOrder     map[string]int64
	nextEventID int64
	nextBooking int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		events:   make(map[int64]*models.Event),
		bookings: make(map[int64]*models.Booking),
		byOrder:  make(map[string]int64),
	}
}

func (s *fakeStore) addEvent(event *models.Event) *models.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextEventID++
	event.ID = s.nextEventID
	event.CreatedAt = time.Now()
	s.events[event.ID] = event
	return event
}

func (s *fakeStore) availableSeats(eventID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.events[eventID].AvailableSeats
}

func (s *fakeStore) bookingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.bookings)
}

// EventStore

func (s *fakeStore) Create(ctx context.Context, event *models.Event) error {
	s.addEvent(event)
	return nil
}

func (s *fakeStore) GetByID(ctx context.Context, id int64) (*models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	event, ok := s.events[id]
	if !ok {
		return nil, nil
	}
	copied := *event
	return &copied, nil
}

func (s *fakeStore) List(ctx context.Context) ([]models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var events []models.Event
	for _, event := range s.events {
		events = append(events, *event)
	}
	return events, nil
}

func (s *fakeStore) Update(ctx context.Context, event *models.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *event
	s.events[event.ID] = &copied
	return nil
}

func (s *fakeStore) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.events, id)
	return nil
}

// BookingStore

func (s *fakeStore) CreateWithSeatDecrement(ctx context.Context, booking *models.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byOrder[booking.PaymentOrderID]; ok {
		return repository.ErrDuplicateOrder
	}

	event, ok := s.events[booking.EventID]
	if !ok {
		return apperrors.ErrEventNotFound
	}
	if event.AvailableSeats < booking.NumberOfTickets {
		return apperrors.ErrInsufficientSeats
	}

	event.AvailableSeats -= booking.NumberOfTickets

	s.nextBooking++
	booking.ID = s.nextBooking
	booking.CreatedAt = time.Now()

	stored := *booking
	stored.Event = &models.EventSummary{
		ID:          event.ID,
		Title:       event.Title,
		TicketPrice: event.TicketPrice,
	}
	stored.User = &models.UserSummary{ID: booking.UserID}
	s.bookings[stored.ID] = &stored
	s.byOrder[stored.PaymentOrderID] = stored.ID

	return nil
}

func (s *fakeStore) GetByOrderID(ctx context.Context, orderID string) (*models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byOrder[orderID]
	if !ok {
		return nil, nil
	}
	copied := *s.bookings[id]
	return &copied, nil
}

func (s *fakeStore) ListByUser(ctx context.Context, userID int64) ([]models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var bookings []models.Booking
	for _, b := range s.bookings {
		if b.UserID == userID {
			bookings = append(bookings, *b)
		}
	}
	return bookings, nil
}

func (s *fakeStore) ListAll(ctx context.Context) ([]models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var bookings []models.Booking
	for _, b := range s.bookings {
		bookings = append(bookings, *b)
	}
	return bookings, nil
}

// fakeGateway simulates the payment processor. Orders created through it
// start out uncaptured; tests set captureStatus to control the capture
// outcome.
type fakeGateway struct {
	mu            sync.Mutex
	createCalls   int
	captureCalls  int
	lastAmount    string
	lastDesc      string
	captureStatus string
	captureID     string
	failCreate    bool
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		captureStatus: external.OrderStatusCompleted,
		captureID:     "CAP-1",
	}
}

func (g *fakeGateway) CreateOrder(ctx context.Context, amount, description, returnURL, cancelURL string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.failCreate {
		return "", fmt.Errorf("%w: boom", apperrors.ErrGateway)
	}
	g.createCalls++
	g.lastAmount = amount
	g.lastDesc = description
	return fmt.Sprintf("ORDER-%d", g.createCalls), nil
}

func (g *fakeGateway) CaptureOrder(ctx context.Context, orderID string) (*external.CaptureResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.captureCalls++
	return &external.CaptureResult{Status: g.captureStatus, CaptureID: g.captureID}, nil
}

// fakePublisher records published subjects
type fakePublisher struct {
	mu       sync.Mutex
	subjects []string
}

func (p *fakePublisher) Publish(subject string, data interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.subjects = append(p.subjects, subject)
	return nil
}

func (p *fakePublisher) published(subject string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, s := range p.subjects {
		if s == subject {
			return true
		}
	}
	return false
}
