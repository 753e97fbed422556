package api

import (
	"fmt"
	"net/http"

	"eventbook/internal/cache"
	"eventbook/internal/config"
	"eventbook/internal/database"
	"eventbook/internal/external"
	"eventbook/internal/handlers"
	"eventbook/internal/logger"
	"eventbook/internal/messaging"
	"eventbook/internal/middleware"
	"eventbook/internal/repository"
	"eventbook/internal/search"
	"eventbook/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server wires the HTTP API together
type Server struct {
	router      *gin.Engine
	config      *config.Config
	db          *database.DB
	nats        *messaging.NATSClient
	cacheClient *cache.Client
	services    *service.Services
	repos       *repository.Repositories
}

// NewServer connects the backing stores and assembles the route table.
// Postgres is mandatory; Redis, NATS and Elasticsearch degrade to disabled
// when unreachable.
func NewServer(cfg *config.Config) *Server {
	gin.SetMode(cfg.GinMode)

	db, err := database.Connect(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	if err := db.RunMigrations(); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}

	cacheClient, err := cache.NewClient(cfg.Redis)
	if err != nil {
		logger.Get().Warn("Redis unavailable, running without cache", "error", err)
		cacheClient = nil
	}

	natsClient, err := messaging.NewNATSClient(cfg.NATS)
	if err != nil {
		logger.Get().Warn("NATS unavailable, domain events disabled", "error", err)
		natsClient = nil
	}

	var esClient *search.Client
	if cfg.Elasticsearch.Enabled {
		esClient, err = search.NewClient(cfg.Elasticsearch)
		if err != nil {
			logger.Get().Warn("Elasticsearch unavailable, search disabled", "error", err)
			esClient = nil
		}
	}

	paypalClient := external.NewPayPalClient(cfg.PayPal)

	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, natsClient, paypalClient, esClient, cfg.ClientURL)

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS())
	router.Use(middleware.Logger())
	router.Use(middleware.Metrics())

	server := &Server{
		router:      router,
		config:      cfg,
		db:          db,
		nats:        natsClient,
		cacheClient: cacheClient,
		services:    services,
		repos:       repos,
	}

	server.setupRoutes()

	return server
}

func (s *Server) setupRoutes() {
	h := handlers.NewHandlers(s.services.Bookings, s.services.Events, s.cacheClient)

	auth := middleware.Auth(s.repos.Users, s.cacheClient)

	events := s.router.Group("/events")
	{
		events.GET("", h.ListEvents)
		events.GET("/:id", h.GetEvent)

		admin := events.Group("", auth, middleware.AdminOnly())
		{
			admin.POST("", h.CreateEvent)
			admin.PUT("/:id", h.UpdateEvent)
			admin.DELETE("/:id", h.DeleteEvent)
		}
	}

	bookings := s.router.Group("/bookings", auth)
	{
		bookings.POST("/create-paypal-order", h.CreatePayPalOrder)
		bookings.POST("/capture-paypal-order", h.CapturePayPalOrder)
		bookings.GET("/my-bookings", h.MyBookings)
		bookings.GET("/all", middleware.AdminOnly(), h.AllBookings)
	}

	s.router.GET("/health", s.healthCheck)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "eventbook-api",
	})
}

// Run starts the HTTP server
func (s *Server) Run() error {
	addr := fmt.Sprintf(":%s", s.config.Port)
	return s.router.Run(addr)
}

// GetRouter exposes the router for testing
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}

// Cleanup closes the backing connections
func (s *Server) Cleanup() error {
	if s.nats != nil {
		if err := s.nats.Close(); err != nil {
			logger.Get().Error("Error closing NATS connection", "error", err)
		}
	}

	if s.cacheClient != nil {
		if err := s.cacheClient.Close(); err != nil {
			logger.Get().Error("Error closing Redis connection", "error", err)
		}
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			logger.Get().Error("Error closing database connection", "error", err)
			return err
		}
	}

	return nil
}
