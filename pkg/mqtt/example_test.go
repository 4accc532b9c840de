package mqtt_test

import (
	"context"
	"fmt"
	"time"

	"github.com/autopeer-io/platecheck/pkg/log"
	"github.com/autopeer-io/platecheck/pkg/mqtt"
	"github.com/autopeer-io/platecheck/pkg/mqtt/topic"
)

// ExampleClient shows a consumer following lookup events published by platecheck.
func ExampleClient() {
	cfg := &mqtt.ClientConfig{
		BrokerURL:      "tcp://localhost:1883",
		ClientID:       "lookup-audit-001",
		KeepAlive:      60,
		ConnectTimeout: 5 * time.Second,
		CleanStart:     false,
	}

	client, err := mqtt.NewClient(cfg)
	if err != nil {
		log.Error(err, "Failed to create MQTT client")
		return
	}

	// Start returns immediately; connecting and reconnecting happen in the background.
	ctx := context.Background()
	if err := client.Start(ctx); err != nil {
		log.Error(err, "Failed to start MQTT client")
		return
	}

	topics := topic.NewTopicBuilder("platecheck/v1")
	handler := func(ctx context.Context, t string, payload []byte) {
		fmt.Printf("lookup event on %s: %s\n", t, payload)
	}

	// Subscriptions are replayed automatically after a reconnect.
	if err := client.Subscribe(ctx, topics.LookupWildcard(), 1, handler); err != nil {
		log.Error(err, "Failed to subscribe", "topic", topics.LookupWildcard())
	}

	if err := client.AwaitConnection(ctx); err != nil {
		log.Error(err, "Connection timed out")
		return
	}

	client.Disconnect(ctx)
}
