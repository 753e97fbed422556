package service

import (
	"context"
	"fmt"
	"time"

	apperrors "eventbook/internal/errors"
	"eventbook/internal/logger"
	"eventbook/internal/models"
)

const defaultEventImage = "https://via.placeholder.com/400x300"

// EventService is plain catalog CRUD. Search-index writes are best effort;
// Postgres is the source of truth.
type EventService struct {
	eventRepo EventStore
	indexer   EventIndexer
	publisher Publisher
}

func NewEventService(eventRepo EventStore, indexer EventIndexer, publisher Publisher) *EventService {
	return &EventService{
		eventRepo: eventRepo,
		indexer:   indexer,
		publisher: publisher,
	}
}

func (s *EventService) Create(ctx context.Context, creatorID int64, req *models.CreateEventRequest) (*models.Event, error) {
	if !models.ValidCategory(req.Category) {
		return nil, fmt.Errorf("%w: unknown category %q", apperrors.ErrValidation, req.Category)
	}
	if *req.TicketPrice < 0 {
		return nil, fmt.Errorf("%w: ticketPrice must not be negative", apperrors.ErrValidation)
	}

	image := req.Image
	if image == "" {
		image = defaultEventImage
	}

	event := &models.Event{
		Title:          req.Title,
		Description:    req.Description,
		Date:           req.Date,
		Venue:          req.Venue,
		Category:       req.Category,
		TicketPrice:    *req.TicketPrice,
		TotalSeats:     req.TotalSeats,
		AvailableSeats: req.TotalSeats,
		Image:          image,
		CreatedBy:      &creatorID,
	}

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	s.indexEvent(ctx, event)

	if err := s.publisher.Publish(models.SubjectEventCreated, models.EventCreatedEvent{
		EventID:    event.ID,
		Title:      event.Title,
		TotalSeats: event.TotalSeats,
		Timestamp:  time.Now(),
	}); err != nil {
		logger.WithContext(ctx).Error("Failed to publish event created event",
			"error", err, "event_id", event.ID)
	}

	return event, nil
}

// List returns the full catalog, or a search-index hit list when a query is
// given and the index is configured.
func (s *EventService) List(ctx context.Context, query string) ([]models.Event, error) {
	if query != "" && s.indexer != nil {
		events, err := s.indexer.SearchEvents(ctx, query)
		if err == nil {
			return events, nil
		}
		// Fall back to the unfiltered catalog on index trouble.
		logger.WithContext(ctx).Error("Event search failed, serving full list",
			"error", err, "query", query)
	}

	events, err := s.eventRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	if events == nil {
		events = []models.Event{}
	}
	return events, nil
}

func (s *EventService) GetByID(ctx context.Context, id int64) (*models.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	if event == nil {
		return nil, apperrors.ErrEventNotFound
	}
	return event, nil
}

// Update overwrites whatever fields the request carries. There is no
// reconciliation between totalSeats and availableSeats; an admin edit can
// violate the seat invariant, matching the original system's contract.
func (s *EventService) Update(ctx context.Context, id int64, req *models.UpdateEventRequest) (*models.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	if event == nil {
		return nil, apperrors.ErrEventNotFound
	}

	if req.Category != nil && !models.ValidCategory(*req.Category) {
		return nil, fmt.Errorf("%w: unknown category %q", apperrors.ErrValidation, *req.Category)
	}
	if req.TicketPrice != nil && *req.TicketPrice < 0 {
		return nil, fmt.Errorf("%w: ticketPrice must not be negative", apperrors.ErrValidation)
	}

	if req.Title != nil {
		event.Title = *req.Title
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.Date != nil {
		event.Date = *req.Date
	}
	if req.Venue != nil {
		event.Venue = *req.Venue
	}
	if req.Category != nil {
		event.Category = *req.Category
	}
	if req.TicketPrice != nil {
		event.TicketPrice = *req.TicketPrice
	}
	if req.TotalSeats != nil {
		event.TotalSeats = *req.TotalSeats
	}
	if req.AvailableSeats != nil {
		event.AvailableSeats = *req.AvailableSeats
	}
	if req.Image != nil {
		event.Image = *req.Image
	}

	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}

	s.indexEvent(ctx, event)

	return event, nil
}

// Delete removes the event unconditionally. Existing bookings keep their
// dangling event reference and render with a null event.
func (s *EventService) Delete(ctx context.Context, id int64) error {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get event: %w", err)
	}
	if event == nil {
		return apperrors.ErrEventNotFound
	}

	if err := s.eventRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}

	if s.indexer != nil {
		if err := s.indexer.DeleteEvent(ctx, id); err != nil {
			logger.WithContext(ctx).Error("Failed to remove event from search index",
				"error", err, "event_id", id)
		}
	}

	if err := s.publisher.Publish(models.SubjectEventDeleted, models.EventDeletedEvent{
		EventID:   id,
		Timestamp: time.Now(),
	}); err != nil {
		logger.WithContext(ctx).Error("Failed to publish event deleted event",
			"error", err, "event_id", id)
	}

	return nil
}

func (s *EventService) indexEvent(ctx context.Context, event *models.Event) {
	if s.indexer == nil {
		return
	}
	if err := s.indexer.IndexEvent(ctx, event); err != nil {
		logger.WithContext(ctx).Error("Failed to index event",
			"error", err, "event_id", event.ID)
	}
}
