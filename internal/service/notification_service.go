package service

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/config"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/persistence"
)

// NotificationService forwards lifecycle events to the outbound redis queue.
// Delivery itself is someone else's job; this only enqueues.
type NotificationService struct {
	dispatcher events.Dispatcher
	queue      *persistence.Redis
	queueKey   string
	logger     *zap.Logger
}

// NewNotificationService constructs the service.
func NewNotificationService(dispatcher events.Dispatcher, queue *persistence.Redis, cfg config.NotificationConfig, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		queue:      queue,
		queueKey:   cfg.QueueKey,
		logger:     logger,
	}
}

// RegisterHandlers subscribes the enqueue handler to all lifecycle events.
func (s *NotificationService) RegisterHandlers() {
	if s.dispatcher == nil {
		return
	}
	for _, eventType := range []events.EventType{
		events.EventTicketCreated,
		events.EventTicketAssigned,
		events.EventTicketResolved,
		events.EventTicketClosed,
		events.EventMessageAdded,
	} {
		s.dispatcher.Subscribe(eventType, s.enqueue)
	}
}

func (s *NotificationService) enqueue(ctx context.Context, event events.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("marshal notification", zap.Error(err))
		return err
	}
	if err := s.queue.Enqueue(ctx, s.queueKey, payload); err != nil {
		s.logger.Warn("notification enqueue failed",
			zap.String("event_type", string(event.Type)),
			zap.Int64("ticket_id", event.TicketID),
			zap.Error(err),
		)
		return err
	}
	return nil
}
