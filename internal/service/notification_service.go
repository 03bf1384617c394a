package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/department-service/internal/config"
	"github.com/spec-kit/department-service/internal/events"
)

const (
	defaultPublishQueueSize = 256
	defaultPublishTimeout   = 2 * time.Second
)

// Publisher pushes an encoded event to a pub/sub channel.
type Publisher interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}

// NotificationService fans department events out to the log and, when
// configured, a Redis channel. Redis delivery happens on a background
// loop (see Run) so request handlers never wait on the broker.
type NotificationService struct {
	dispatcher     events.Dispatcher
	logger         *zap.Logger
	publisher      Publisher
	channel        string
	queue          chan events.Event
	publishTimeout time.Duration
}

// NewNotificationService creates the service. publisher may be nil.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, publisher Publisher, cfg config.RedisConfig) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		dispatcher:     dispatcher,
		logger:         logger,
		publisher:      publisher,
		channel:        cfg.Channel,
		queue:          make(chan events.Event, defaultPublishQueueSize),
		publishTimeout: defaultPublishTimeout,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	for _, t := range []events.EventType{
		events.EventDepartmentCreated,
		events.EventDepartmentUpdated,
		events.EventDepartmentDeleted,
	} {
		n.dispatcher.Subscribe(t, n.handleDepartmentChanged)
	}
}

// Run drains queued events to the publisher until ctx is cancelled.
func (n *NotificationService) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event := <-n.queue:
			if err := n.publish(ctx, event); err != nil {
				n.logger.Warn("department event publish failed",
					zap.String("event_id", event.ID),
					zap.String("channel", n.channel),
					zap.Error(err))
			}
		}
	}
}

func (n *NotificationService) handleDepartmentChanged(_ context.Context, event events.Event) error {
	n.logger.Info("department changed",
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)),
		zap.Int64("department_id", event.DepartmentID),
		zap.Any("payload", event.Payload))
	if !n.publishing() {
		return nil
	}
	select {
	case n.queue <- event:
		return nil
	default:
		return fmt.Errorf("publish queue full, dropped event %s", event.ID)
	}
}

func (n *NotificationService) publishing() bool {
	return n.publisher != nil && n.channel != ""
}

func (n *NotificationService) publish(ctx context.Context, event events.Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event %s: %w", event.ID, err)
	}
	ctx, cancel := context.WithTimeout(ctx, n.publishTimeout)
	defer cancel()
	if err := n.publisher.Publish(ctx, n.channel, body); err != nil {
		return fmt.Errorf("publish event %s: %w", event.ID, err)
	}
	return nil
}
