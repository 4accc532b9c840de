package mqtt

import (
	"context"
)

// Delivery guarantees accepted by Publish and Subscribe.
const (
	QoSAtMostOnce  = 0
	QoSAtLeastOnce = 1
)

// MessageHandler processes one message received on a subscribed topic.
type MessageHandler func(ctx context.Context, topic string, payload []byte)

// Client is a reconnecting MQTT v5 client.
type Client interface {
	// Start begins connecting in the background and returns immediately.
	// Use AwaitConnection to wait for the first connection.
	Start(ctx context.Context) error

	// Disconnect closes the connection. A configured will message is not sent.
	Disconnect(ctx context.Context)

	// Publish sends payload to topic. While the broker is unreachable it
	// waits for a reconnect until ctx is done.
	Publish(ctx context.Context, topic string, qos int, retain bool, payload []byte) error

	// Subscribe routes messages matching the topic filter to handler.
	// Subscriptions are replayed, as one batch, after every reconnect.
	Subscribe(ctx context.Context, topic string, qos int, handler MessageHandler) error

	Unsubscribe(ctx context.Context, topic string) error

	// AwaitConnection blocks until connected or ctx is done.
	AwaitConnection(ctx context.Context) error

	IsConnected() bool
}
