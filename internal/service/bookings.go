package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	apperrors "eventbook/internal/errors"
	"eventbook/internal/external"
	"eventbook/internal/logger"
	"eventbook/internal/models"
	"eventbook/internal/repository"
)

// BookingService runs the two-phase booking workflow: open an external
// payment order, then (on a later request) capture it and take the seats.
// No seats are reserved between the two phases; the conditional decrement at
// capture time is the only protection against overselling.
type BookingService struct {
	bookingRepo BookingStore
	eventRepo   EventStore
	gateway     PaymentGateway
	publisher   Publisher
	clientURL   string
}

func NewBookingService(bookingRepo BookingStore, eventRepo EventStore, gateway PaymentGateway, publisher Publisher, clientURL string) *BookingService {
	return &BookingService{
		bookingRepo: bookingRepo,
		eventRepo:   eventRepo,
		gateway:     gateway,
		publisher:   publisher,
		clientURL:   clientURL,
	}
}

// InitiateBooking validates availability and opens an external payment order
// for the quoted amount. Nothing is persisted locally.
func (s *BookingService) InitiateBooking(ctx context.Context, userID, eventID int64, ticketCount int) (*models.CreateOrderResponse, error) {
	if ticketCount < 1 {
		return nil, fmt.Errorf("%w: numberOfTickets must be at least 1", apperrors.ErrValidation)
	}

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	if event == nil {
		return nil, apperrors.ErrEventNotFound
	}

	if event.AvailableSeats < ticketCount {
		return nil, apperrors.ErrInsufficientSeats
	}

	amount := formatAmount(event.TicketPrice * float64(ticketCount))
	description := fmt.Sprintf("%d ticket(s) for %s", ticketCount, event.Title)

	orderID, err := s.gateway.CreateOrder(ctx, amount, description,
		s.clientURL+"/booking-success", s.clientURL+"/booking-cancel")
	if err != nil {
		return nil, err
	}

	if err := s.publisher.Publish(models.SubjectOrderCreated, models.OrderCreatedEvent{
		OrderID:         orderID,
		EventID:         eventID,
		UserID:          userID,
		NumberOfTickets: ticketCount,
		Amount:          amount,
		Timestamp:       time.Now(),
	}); err != nil {
		logger.WithContext(ctx).Error("Failed to publish order created event",
			"error", err, "order_id", orderID)
	}

	return &models.CreateOrderResponse{OrderID: orderID, Amount: amount}, nil
}

// ConfirmBooking captures the external order and, if the gateway reports it
// completed, books the seats and writes the ledger record. A replayed order
// id returns the booking written the first time, with no second decrement.
//
// The total amount is recomputed from the event's price at capture time. If
// an admin edited the price between initiation and capture, the recorded
// amount differs from the amount charged; this mirrors the original system.
func (s *BookingService) ConfirmBooking(ctx context.Context, userID, eventID int64, ticketCount int, orderID string) (*models.Booking, error) {
	if ticketCount < 1 {
		return nil, fmt.Errorf("%w: numberOfTickets must be at least 1", apperrors.ErrValidation)
	}

	existing, err := s.bookingRepo.GetByOrderID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up order: %w", err)
	}
	if existing != nil {
		return existing, nil
	}

	capture, err := s.gateway.CaptureOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if capture.Status != external.OrderStatusCompleted {
		s.publishCaptureFailed(ctx, orderID, eventID, userID, capture.Status)
		return nil, apperrors.ErrPaymentNotCompleted
	}

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	if event == nil {
		return nil, apperrors.ErrEventNotFound
	}

	booking := &models.Booking{
		UserID:          userID,
		EventID:         eventID,
		NumberOfTickets: ticketCount,
		TotalAmount:     round2(event.TicketPrice * float64(ticketCount)),
		PaymentStatus:   "completed",
		PaymentOrderID:  orderID,
	}
	if capture.CaptureID != "" {
		booking.CaptureID = &capture.CaptureID
	}

	err = s.bookingRepo.CreateWithSeatDecrement(ctx, booking)
	if errors.Is(err, repository.ErrDuplicateOrder) {
		// Lost the race to a concurrent confirm for the same order.
		return s.bookingRepo.GetByOrderID(ctx, orderID)
	}
	if err != nil {
		return nil, err
	}

	if err := s.publisher.Publish(models.SubjectBookingConfirmed, models.BookingConfirmedEvent{
		BookingID:       booking.ID,
		EventID:         eventID,
		UserID:          userID,
		NumberOfTickets: ticketCount,
		TotalAmount:     booking.TotalAmount,
		OrderID:         orderID,
		Timestamp:       time.Now(),
	}); err != nil {
		logger.WithContext(ctx).Error("Failed to publish booking confirmed event",
			"error", err, "booking_id", booking.ID)
	}

	// Re-read for the populated event and user summaries.
	populated, err := s.bookingRepo.GetByOrderID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load booking: %w", err)
	}
	if populated == nil {
		return booking, nil
	}
	return populated, nil
}

// ListUserBookings returns the caller's bookings, newest first
func (s *BookingService) ListUserBookings(ctx context.Context, userID int64) ([]models.Booking, error) {
	bookings, err := s.bookingRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	if bookings == nil {
		bookings = []models.Booking{}
	}
	return bookings, nil
}

// ListAllBookings returns every booking, newest first. Admin only; the role
// check happens in middleware.
func (s *BookingService) ListAllBookings(ctx context.Context) ([]models.Booking, error) {
	bookings, err := s.bookingRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	if bookings == nil {
		bookings = []models.Booking{}
	}
	return bookings, nil
}

func (s *BookingService) publishCaptureFailed(ctx context.Context, orderID string, eventID, userID int64, reason string) {
	if err := s.publisher.Publish(models.SubjectCaptureFailed, models.CaptureFailedEvent{
		OrderID:   orderID,
		EventID:   eventID,
		UserID:    userID,
		Reason:    reason,
		Timestamp: time.Now(),
	}); err != nil {
		logger.WithContext(ctx).Error("Failed to publish capture failed event",
			"error", err, "order_id", orderID)
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func formatAmount(v float64) string {
	return fmt.Sprintf("%.2f", round2(v))
}
