package platform

import (
	"context"

	"cloud.google.com/go/pubsub"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// PubSubBus implements MessageBus on Cloud Pub/Sub.
type PubSubBus struct {
	client *pubsub.Client
}

// NewPubSubBus connects to Pub/Sub for the given project.
func NewPubSubBus(ctx context.Context, projectID string) (*PubSubBus, error) {
	client, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		return nil, eris.Wrap(err, "creating pubsub client")
	}
	zap.L().Info("pubsub client initialized", zap.String("project", projectID))
	return &PubSubBus{client: client}, nil
}

// Publish sends one message and returns the server-assigned message ID.
func (b *PubSubBus) Publish(ctx context.Context, topic string, msg Message) (string, error) {
	result := b.client.Topic(topic).Publish(ctx, &pubsub.Message{
		Data:       msg.Data,
		Attributes: msg.Attributes,
	})
	id, err := result.Get(ctx)
	if err != nil {
		return "", eris.Wrapf(err, "publishing to topic %s", topic)
	}
	zap.L().Debug("message published",
		zap.String("topic", topic),
		zap.String("message_id", id))
	return id, nil
}

// Subscribe delivers messages from a subscription to the handler until
// the context is canceled. A handler error leaves the message unacked
// for redelivery.
func (b *PubSubBus) Subscribe(ctx context.Context, subscription string, handler func(ctx context.Context, msg Message) error) error {
	sub := b.client.Subscription(subscription)
	err := sub.Receive(ctx, func(ctx context.Context, m *pubsub.Message) {
		if err := handler(ctx, Message{Data: m.Data, Attributes: m.Attributes}); err != nil {
			zap.L().Warn("message handler failed",
				zap.String("subscription", subscription),
				zap.Error(err))
			m.Nack()
			return
		}
		m.Ack()
	})
	if err != nil {
		return eris.Wrapf(err, "receiving from subscription %s", subscription)
	}
	return nil
}

// Close releases the underlying client.
func (b *PubSubBus) Close() error {
	return b.client.Close()
}
