package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"eventbook/internal/middleware"
	"eventbook/internal/models"

	"github.com/gin-gonic/gin"
)

// ListEvents - GET /events
// Public. Returns the full catalog; an optional ?query= runs a full-text
// search when the index is configured. Unfiltered responses are served from
// cache when possible.
func (h *Handlers) ListEvents(c *gin.Context) {
	query := c.Query("query")

	if query == "" && h.cacheClient != nil {
		rawJSON, err := h.cacheClient.GetEventsListRaw(c.Request.Context())
		if err == nil {
			c.Data(http.StatusOK, "application/json", rawJSON)
			return
		}
	}

	events, err := h.events.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	if query == "" && h.cacheClient != nil {
		if err := h.cacheClient.SetEventsList(c.Request.Context(), events); err != nil {
			slog.Error("Failed to cache events list", "error", err)
		}
	}

	c.JSON(http.StatusOK, events)
}

// GetEvent - GET /events/:id
// Public.
func (h *Handlers) GetEvent(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid event id"})
		return
	}

	event, err := h.events.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, event)
}

// CreateEvent - POST /events (admin)
func (h *Handlers) CreateEvent(c *gin.Context) {
	var req models.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	userID, ok := middleware.UserIDFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	event, err := h.events.Create(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	h.invalidateEventsCache(c)
	c.JSON(http.StatusCreated, event)
}

// UpdateEvent - PUT /events/:id (admin)
// Arbitrary field overwrite; no invariant re-check between totalSeats and
// availableSeats.
func (h *Handlers) UpdateEvent(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid event id"})
		return
	}

	var req models.UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	event, err := h.events.Update(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	h.invalidateEventsCache(c)
	c.JSON(http.StatusOK, event)
}

// DeleteEvent - DELETE /events/:id (admin)
// Unconditional; existing bookings keep a dangling event reference.
func (h *Handlers) DeleteEvent(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid event id"})
		return
	}

	if err := h.events.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	h.invalidateEventsCache(c)
	c.JSON(http.StatusOK, gin.H{"message": "Event removed"})
}

func (h *Handlers) invalidateEventsCache(c *gin.Context) {
	if h.cacheClient == nil {
		return
	}
	if err := h.cacheClient.InvalidateEventsList(c.Request.Context()); err != nil {
		slog.Error("Failed to invalidate events cache", "error", err)
	}
}
