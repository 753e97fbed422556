package handlers

import (
	"errors"
	"net/http"

	apperrors "eventbook/internal/errors"
	"eventbook/internal/middleware"
	"eventbook/internal/models"

	"github.com/gin-gonic/gin"
)

// CreatePayPalOrder - POST /bookings/create-paypal-order
// Opens an external payment order for the requested tickets. No seats are
// reserved; availability is only re-checked at capture.
func (h *Handlers) CreatePayPalOrder(c *gin.Context) {
	var req models.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	userID, ok := middleware.UserIDFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	response, err := h.bookings.InitiateBooking(c.Request.Context(), userID, req.EventID, req.NumberOfTickets)
	if err != nil {
		if errors.Is(err, apperrors.ErrInsufficientSeats) {
			middleware.CountBookingRejected("insufficient_inventory")
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// CapturePayPalOrder - POST /bookings/capture-paypal-order
// Verifies the capture with the gateway, atomically decrements the seats and
// records the booking. Returns the booking with event and user populated.
func (h *Handlers) CapturePayPalOrder(c *gin.Context) {
	var req models.CaptureOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	userID, ok := middleware.UserIDFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	booking, err := h.bookings.ConfirmBooking(c.Request.Context(), userID, req.EventID, req.NumberOfTickets, req.OrderID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrInsufficientSeats):
			middleware.CountBookingRejected("insufficient_inventory")
		case errors.Is(err, apperrors.ErrPaymentNotCompleted):
			middleware.CountBookingRejected("payment_not_completed")
		}
		respondError(c, err)
		return
	}

	middleware.CountBookingConfirmed()
	c.JSON(http.StatusCreated, booking)
}

// MyBookings - GET /bookings/my-bookings
// The caller's bookings, newest first, event populated.
func (h *Handlers) MyBookings(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	bookings, err := h.bookings.ListUserBookings(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, bookings)
}

// AllBookings - GET /bookings/all (admin)
// Every booking, newest first, event and user (name/email) populated.
func (h *Handlers) AllBookings(c *gin.Context) {
	bookings, err := h.bookings.ListAllBookings(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, bookings)
}
