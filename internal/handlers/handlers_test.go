package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	apperrors "eventbook/internal/errors"
	"eventbook/internal/middleware"
	"eventbook/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubWorkflow satisfies BookingWorkflow with canned responses.
type stubWorkflow struct {
	initiateResp *models.CreateOrderResponse
	initiateErr  error
	confirmResp  *models.Booking
	confirmErr   error
	userBookings []models.Booking
	allBookings  []models.Booking
}

func (s *stubWorkflow) InitiateBooking(ctx context.Context, userID, eventID int64, ticketCount int) (*models.CreateOrderResponse, error) {
	return s.initiateResp, s.initiateErr
}

func (s *stubWorkflow) ConfirmBooking(ctx context.Context, userID, eventID int64, ticketCount int, orderID string) (*models.Booking, error) {
	return s.confirmResp, s.confirmErr
}

func (s *stubWorkflow) ListUserBookings(ctx context.Context, userID int64) ([]models.Booking, error) {
	return s.userBookings, nil
}

func (s *stubWorkflow) ListAllBookings(ctx context.Context) ([]models.Booking, error) {
	return s.allBookings, nil
}

// stubCatalog satisfies Catalog with canned responses.
type stubCatalog struct {
	events    []models.Event
	event     *models.Event
	err       error
	deleteErr error
}

func (s *stubCatalog) Create(ctx context.Context, creatorID int64, req *models.CreateEventRequest) (*models.Event, error) {
	return s.event, s.err
}

func (s *stubCatalog) List(ctx context.Context, query string) ([]models.Event, error) {
	return s.events, s.err
}

func (s *stubCatalog) GetByID(ctx context.Context, id int64) (*models.Event, error) {
	return s.event, s.err
}

func (s *stubCatalog) Update(ctx context.Context, id int64, req *models.UpdateEventRequest) (*models.Event, error) {
	return s.event, s.err
}

func (s *stubCatalog) Delete(ctx context.Context, id int64) error {
	return s.deleteErr
}

// asUser injects an authenticated identity, standing in for the Auth
// middleware.
func asUser(userID int64, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request = c.Request.WithContext(
			middleware.ContextWithIdentity(c.Request.Context(), userID, role))
		c.Next()
	}
}

func newTestRouter(workflow BookingWorkflow, catalog Catalog, identity gin.HandlerFunc) *gin.Engine {
	h := NewHandlers(workflow, catalog, nil)

	router := gin.New()

	events := router.Group("/events")
	{
		events.GET("", h.ListEvents)
		events.GET("/:id", h.GetEvent)
		if identity != nil {
			admin := events.Group("")
			admin.Use(identity, middleware.AdminOnly())
			{
				admin.POST("", h.CreateEvent)
				admin.PUT("/:id", h.UpdateEvent)
				admin.DELETE("/:id", h.DeleteEvent)
			}
		}
	}

	if identity != nil {
		bookings := router.Group("/bookings")
		bookings.Use(identity)
		{
			bookings.POST("/create-paypal-order", h.CreatePayPalOrder)
			bookings.POST("/capture-paypal-order", h.CapturePayPalOrder)
			bookings.GET("/my-bookings", h.MyBookings)
			bookings.GET("/all", middleware.AdminOnly(), h.AllBookings)
		}
	}

	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreatePayPalOrderHandler(t *testing.T) {
	workflow := &stubWorkflow{
		initiateResp: &models.CreateOrderResponse{OrderID: "ORDER-1", Amount: "59.97"},
	}
	router := newTestRouter(workflow, &stubCatalog{}, asUser(1, "user"))

	w := doJSON(t, router, http.MethodPost, "/bookings/create-paypal-order",
		models.CreateOrderRequest{EventID: 1, NumberOfTickets: 3})

	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.CreateOrderResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ORDER-1", resp.OrderID)
	assert.Equal(t, "59.97", resp.Amount)
}

func TestCreatePayPalOrderHandlerBadBody(t *testing.T) {
	router := newTestRouter(&stubWorkflow{}, &stubCatalog{}, asUser(1, "user"))

	w := doJSON(t, router, http.MethodPost, "/bookings/create-paypal-order",
		map[string]interface{}{"eventId": 1})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCapturePayPalOrderHandler(t *testing.T) {
	workflow := &stubWorkflow{
		confirmResp: &models.Booking{ID: 1, NumberOfTickets: 2, TotalAmount: 100, PaymentStatus: "completed"},
	}
	router := newTestRouter(workflow, &stubCatalog{}, asUser(1, "user"))

	w := doJSON(t, router, http.MethodPost, "/bookings/capture-paypal-order",
		models.CaptureOrderRequest{OrderID: "ORDER-1", EventID: 1, NumberOfTickets: 2})

	assert.Equal(t, http.StatusCreated, w.Code)

	var booking models.Booking
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &booking))
	assert.Equal(t, "completed", booking.PaymentStatus)
}

func TestHandlerErrorMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"event not found", apperrors.ErrEventNotFound, http.StatusNotFound},
		{"insufficient seats", apperrors.ErrInsufficientSeats, http.StatusBadRequest},
		{"payment not completed", apperrors.ErrPaymentNotCompleted, http.StatusBadRequest},
		{"gateway down", apperrors.ErrGateway, http.StatusBadGateway},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			workflow := &stubWorkflow{confirmErr: tc.err}
			router := newTestRouter(workflow, &stubCatalog{}, asUser(1, "user"))

			w := doJSON(t, router, http.MethodPost, "/bookings/capture-paypal-order",
				models.CaptureOrderRequest{OrderID: "ORDER-1", EventID: 1, NumberOfTickets: 2})

			assert.Equal(t, tc.wantStatus, w.Code)
		})
	}
}

func TestMyBookingsHandler(t *testing.T) {
	workflow := &stubWorkflow{userBookings: []models.Booking{{ID: 1}, {ID: 2}}}
	router := newTestRouter(workflow, &stubCatalog{}, asUser(7, "user"))

	w := doJSON(t, router, http.MethodGet, "/bookings/my-bookings", nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var bookings []models.Booking
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &bookings))
	assert.Len(t, bookings, 2)
}

func TestAllBookingsForbiddenForNonAdmin(t *testing.T) {
	router := newTestRouter(&stubWorkflow{}, &stubCatalog{}, asUser(7, "user"))

	w := doJSON(t, router, http.MethodGet, "/bookings/all", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAllBookingsAsAdmin(t *testing.T) {
	workflow := &stubWorkflow{allBookings: []models.Booking{{ID: 1}}}
	router := newTestRouter(workflow, &stubCatalog{}, asUser(1, "admin"))

	w := doJSON(t, router, http.MethodGet, "/bookings/all", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestListEventsHandler(t *testing.T) {
	catalog := &stubCatalog{events: []models.Event{{ID: 1, Title: "Jazz Night"}}}
	router := newTestRouter(&stubWorkflow{}, catalog, nil)

	w := doJSON(t, router, http.MethodGet, "/events", nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var events []models.Event
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &events))
	require.Len(t, events, 1)
	assert.Equal(t, "Jazz Night", events[0].Title)
}

func TestGetEventHandlerNotFound(t *testing.T) {
	catalog := &stubCatalog{err: apperrors.ErrEventNotFound}
	router := newTestRouter(&stubWorkflow{}, catalog, nil)

	w := doJSON(t, router, http.MethodGet, "/events/42", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetEventHandlerBadID(t *testing.T) {
	router := newTestRouter(&stubWorkflow{}, &stubCatalog{}, nil)

	w := doJSON(t, router, http.MethodGet, "/events/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateEventHandlerForbiddenForNonAdmin(t *testing.T) {
	router := newTestRouter(&stubWorkflow{}, &stubCatalog{}, asUser(7, "user"))

	w := doJSON(t, router, http.MethodPost, "/events", models.CreateEventRequest{})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCreateEventHandler(t *testing.T) {
	catalog := &stubCatalog{event: &models.Event{ID: 1, Title: "Jazz Night"}}
	router := newTestRouter(&stubWorkflow{}, catalog, asUser(1, "admin"))

	price := 19.99
	w := doJSON(t, router, http.MethodPost, "/events", models.CreateEventRequest{
		Title:       "Jazz Night",
		Description: "An evening of live jazz",
		Date:        time.Now().Add(24 * time.Hour),
		Venue:       "Blue Hall",
		Category:    "concert",
		TicketPrice: &price,
		TotalSeats:  100,
	})

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestDeleteEventHandler(t *testing.T) {
	router := newTestRouter(&stubWorkflow{}, &stubCatalog{}, asUser(1, "admin"))

	w := doJSON(t, router, http.MethodDelete, "/events/1", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Event removed"}`, w.Body.String())
}
