package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"eventbook/internal/cache"
	apperrors "eventbook/internal/errors"
	"eventbook/internal/models"

	"github.com/gin-gonic/gin"
)

// BookingWorkflow is the booking service surface the handlers consume
type BookingWorkflow interface {
	InitiateBooking(ctx context.Context, userID, eventID int64, ticketCount int) (*models.CreateOrderResponse, error)
	ConfirmBooking(ctx context.Context, userID, eventID int64, ticketCount int, orderID string) (*models.Booking, error)
	ListUserBookings(ctx context.Context, userID int64) ([]models.Booking, error)
	ListAllBookings(ctx context.Context) ([]models.Booking, error)
}

// Catalog is the event service surface the handlers consume
type Catalog interface {
	Create(ctx context.Context, creatorID int64, req *models.CreateEventRequest) (*models.Event, error)
	List(ctx context.Context, query string) ([]models.Event, error)
	GetByID(ctx context.Context, id int64) (*models.Event, error)
	Update(ctx context.Context, id int64, req *models.UpdateEventRequest) (*models.Event, error)
	Delete(ctx context.Context, id int64) error
}

type Handlers struct {
	bookings    BookingWorkflow
	events      Catalog
	cacheClient *cache.Client
}

func NewHandlers(bookings BookingWorkflow, events Catalog, cacheClient *cache.Client) *Handlers {
	return &Handlers{
		bookings:    bookings,
		events:      events,
		cacheClient: cacheClient,
	}
}

// respondError maps the workflow error taxonomy onto HTTP statuses. Anything
// unrecognized is a 500 with a generic body; details stay in the log.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrEventNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Event not found"})
	case errors.Is(err, apperrors.ErrBookingNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Booking not found"})
	case errors.Is(err, apperrors.ErrInsufficientSeats):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Not enough seats available"})
	case errors.Is(err, apperrors.ErrPaymentNotCompleted):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Payment not completed"})
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	case errors.Is(err, apperrors.ErrGateway):
		slog.Error("Payment gateway failure", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"message": "Payment gateway unavailable"})
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"message": "Forbidden"})
	case errors.Is(err, apperrors.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
	default:
		slog.Error("Request failed", "error", err, "path", c.Request.URL.Path)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
	}
}
