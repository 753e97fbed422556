package consumers

import (
	"context"
	"log/slog"

	"eventbook/internal/config"
	"eventbook/internal/database"
	"eventbook/internal/messaging"
	"eventbook/internal/models"
	"eventbook/internal/repository"

	"github.com/nats-io/stan.go"
)

// ConsumerService subscribes to the domain-event subjects and feeds the
// audit trail.
type ConsumerService struct {
	db       *database.DB
	nats     *messaging.NATSClient
	handlers *Handlers
	subs     []stan.Subscription
}

func NewConsumerService(cfg *config.Config) (*ConsumerService, error) {
	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, err
	}

	if err := db.RunMigrations(); err != nil {
		return nil, err
	}

	natsClient, err := messaging.NewNATSClient(cfg.NATS)
	if err != nil {
		return nil, err
	}

	return &ConsumerService{
		db:       db,
		nats:     natsClient,
		handlers: NewHandlers(repository.NewAuditRepository(db)),
	}, nil
}

func (cs *ConsumerService) Start() error {
	slog.Info("Starting NATS consumers...")

	subjects := map[string]stan.MsgHandler{
		models.SubjectOrderCreated:     cs.handlers.HandleOrderCreated,
		models.SubjectBookingConfirmed: cs.handlers.HandleBookingConfirmed,
		models.SubjectCaptureFailed:    cs.handlers.HandleCaptureFailed,
		models.SubjectEventCreated:     cs.handlers.HandleEventCreated,
		models.SubjectEventDeleted:     cs.handlers.HandleEventDeleted,
	}

	for subject, handler := range subjects {
		sub, err := cs.nats.SubscribeQueue(subject, "audit", handler)
		if err != nil {
			return err
		}
		cs.subs = append(cs.subs, sub)
	}

	return nil
}

func (cs *ConsumerService) Shutdown(ctx context.Context) error {
	for _, sub := range cs.subs {
		if err := sub.Close(); err != nil {
			slog.Error("Error closing subscription", "error", err)
		}
	}

	if err := cs.nats.Close(); err != nil {
		slog.Error("Error closing NATS connection", "error", err)
	}

	return cs.db.Close()
}
