package events

import (
	"context"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/tecchohotel/service-booking/internal/application"
	bookingDomain "github.com/tecchohotel/service-booking/internal/domain/booking"
	"github.com/tecchohotel/service-booking/pkg/domain"
	"github.com/tecchohotel/service-booking/pkg/events"
	"github.com/tecchohotel/service-booking/pkg/kafka"
)

// LifecycleApplier moves a ledger record through its lifecycle.
type LifecycleApplier interface {
	ApplyAction(ctx context.Context, id uuid.UUID, action bookingDomain.Action) (*application.BookingDTO, error)
}

// actionsByType maps front-desk event types to lifecycle actions.
var actionsByType = map[string]bookingDomain.Action{
	events.FrontDeskGuestCheckedIn:   bookingDomain.ActionCheckIn,
	events.FrontDeskBookingCancelled: bookingDomain.ActionCancel,
}

// FrontDeskEventConsumer listens to front-desk events and applies them to
// the ledger.
type FrontDeskEventConsumer struct {
	consumer *kafka.Consumer
	ledger   LifecycleApplier
	logger   *zap.Logger
}

// NewFrontDeskEventConsumer creates a new FrontDeskEventConsumer.
func NewFrontDeskEventConsumer(
	brokers []string,
	groupID string,
	ledger LifecycleApplier,
	logger *zap.Logger,
) *FrontDeskEventConsumer {
	consumer := kafka.NewConsumer(brokers, groupID, events.TopicFrontDeskEvents, logger)
	return &FrontDeskEventConsumer{
		consumer: consumer,
		ledger:   ledger,
		logger:   logger,
	}
}

// Start begins consuming front-desk events. This blocks until the context is cancelled.
func (c *FrontDeskEventConsumer) Start(ctx context.Context) error {
	return c.consumer.Consume(ctx, c.handleMessage)
}

// Close closes the underlying Kafka consumer.
func (c *FrontDeskEventConsumer) Close() error {
	return c.consumer.Close()
}

func (c *FrontDeskEventConsumer) handleMessage(ctx context.Context, msg kafkago.Message) error {
	cloudEvent, err := kafka.ParseCloudEvent(msg.Value)
	if err != nil {
		c.logger.Error("failed to parse cloud event from front-desk topic",
			zap.Error(err),
			zap.String("raw", string(msg.Value)),
		)
		return nil
	}

	action, ok := actionsByType[cloudEvent.Type]
	if !ok {
		c.logger.Debug("ignoring unhandled front-desk event type",
			zap.String("type", cloudEvent.Type),
		)
		return nil
	}

	var evt events.FrontDeskEvent
	if err := cloudEvent.ParseData(&evt); err != nil {
		c.logger.Error("failed to parse FrontDeskEvent data",
			zap.String("type", cloudEvent.Type),
			zap.Error(err),
		)
		return nil
	}

	result, err := c.ledger.ApplyAction(ctx, evt.BookingID, action)
	if err != nil {
		if domain.CodeOf(err) == "" {
			c.logger.Error("failed to apply front-desk event",
				zap.String("booking_id", evt.BookingID.String()),
				zap.Error(err),
			)
			return err
		}
		// Unknown bookings and illegal transitions are acknowledged.
		c.logger.Warn("front-desk event rejected by ledger",
			zap.String("booking_id", evt.BookingID.String()),
			zap.String("action", string(action)),
			zap.Error(err),
		)
		return nil
	}

	c.logger.Info("front-desk event applied",
		zap.String("booking_id", evt.BookingID.String()),
		zap.String("status", result.Status),
	)
	return nil
}
