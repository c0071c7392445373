package eventbus

import (
	"context"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"bitversity/internal/core/domain/model/order"
)

// NewGoChannel builds the in-process pub/sub used when no external broker
// is configured. It is both publisher and subscriber.
func NewGoChannel(logger *slog.Logger, buffer int64) *gochannel.GoChannel {
	return gochannel.NewGoChannel(
		gochannel.Config{
			OutputChannelBuffer:            buffer,
			Persistent:                     false,
			BlockPublishUntilSubscriberAck: false,
		},
		watermill.NewSlogLogger(logger),
	)
}

// Publisher implements ports.EventPublisher on top of a watermill publisher.
type Publisher struct {
	pub message.Publisher
}

func NewPublisher(pub message.Publisher) *Publisher {
	return &Publisher{pub: pub}
}

func (p *Publisher) Publish(ctx context.Context, events ...order.Event) error {
	msgs := make([]*message.Message, 0, len(events))
	for _, ev := range events {
		msg, err := NewMessage(ev)
		if err != nil {
			return err
		}
		msg.SetContext(ctx)
		msgs = append(msgs, msg)
	}
	return p.pub.Publish(Topic, msgs...)
}

func (p *Publisher) Close() error {
	return p.pub.Close()
}
