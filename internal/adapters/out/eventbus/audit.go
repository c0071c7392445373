package eventbus

import (
	"context"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill/message"

	"bitversity/internal/core/domain/model/order"
	"bitversity/internal/pkg/metrics"
)

// AuditHandler receives every decoded order event.
type AuditHandler func(ctx context.Context, ev order.Event) error

// AuditSubscriber consumes the order topic and writes a structured audit
// line per event. Undecodable messages are acked and counted as dropped so
// they never block the topic.
type AuditSubscriber struct {
	sub     message.Subscriber
	handler AuditHandler
	logger  *slog.Logger
}

// NewAuditSubscriber creates the subscriber. A nil handler only logs.
func NewAuditSubscriber(sub message.Subscriber, handler AuditHandler, logger *slog.Logger) *AuditSubscriber {
	return &AuditSubscriber{
		sub:     sub,
		handler: handler,
		logger:  logger.With("component", "order-audit"),
	}
}

// Run blocks until ctx is cancelled or the subscription closes.
func (s *AuditSubscriber) Run(ctx context.Context) error {
	messages, err := s.sub.Subscribe(ctx, Topic)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			s.consume(ctx, msg)
		}
	}
}

func (s *AuditSubscriber) consume(ctx context.Context, msg *message.Message) {
	ev, err := DecodeEvent(msg)
	if err != nil {
		s.logger.WarnContext(ctx, "dropping undecodable order event",
			"message_uuid", msg.UUID,
			"event_type", msg.Metadata.Get(MetadataEventType),
			"error", err)
		metrics.Get().EventDropped(msg.Metadata.Get(MetadataEventType))
		msg.Ack()
		return
	}

	s.logger.InfoContext(ctx, "order event",
		"event_id", ev.ID.String(),
		"event_type", ev.Type.String(),
		"order_id", ev.OrderID.String(),
		"old_status", ev.OldStatus.String(),
		"new_status", ev.NewStatus.String())

	if s.handler != nil {
		if err = s.handler(ctx, ev); err != nil {
			s.logger.WarnContext(ctx, "audit handler failed", "event_id", ev.ID.String(), "error", err)
			msg.Nack()
			return
		}
	}
	msg.Ack()
}
