// Package notifier publishes lookup and tier events to an MQTT broker.
package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/autopeer-io/platecheck/internal/platecheck/core"
	"github.com/autopeer-io/platecheck/internal/platecheck/core/model"
	"github.com/autopeer-io/platecheck/pkg/log"
	pkgmqtt "github.com/autopeer-io/platecheck/pkg/mqtt"
	"github.com/autopeer-io/platecheck/pkg/mqtt/topic"
	"github.com/autopeer-io/platecheck/pkg/options"
)

const (
	statusOnline  = "online"
	statusOffline = "offline"

	publishTimeout = 5 * time.Second
)

type MQTTNotifier struct {
	client   pkgmqtt.Client
	clientID string
	topics   *topic.TopicBuilder
	pipeline *EventPipeline
}

var _ core.Notifier = (*MQTTNotifier)(nil)

func NewMQTTNotifier(opts *options.MqttOptions) (*MQTTNotifier, error) {
	cfg := opts.ToClientConfig()
	if cfg.ClientID == "" {
		host, _ := os.Hostname()
		cfg.ClientID = fmt.Sprintf("platecheck-%s-%d", host, os.Getpid())
	}

	topics := topic.NewTopicBuilder(opts.TopicRoot)
	// The broker marks us offline if the connection drops without a DISCONNECT.
	cfg.WillTopic = topics.Status(cfg.ClientID)
	cfg.WillPayload = []byte(statusOffline)
	cfg.WillQoS = pkgmqtt.QoSAtLeastOnce
	cfg.WillRetain = true

	client, err := pkgmqtt.NewClient(cfg)
	if err != nil {
		return nil, err
	}
	return newMQTTNotifier(client, cfg.ClientID, topics, opts.FlushInterval), nil
}

func newMQTTNotifier(client pkgmqtt.Client, clientID string, topics *topic.TopicBuilder, interval time.Duration) *MQTTNotifier {
	n := &MQTTNotifier{
		client:   client,
		clientID: clientID,
		topics:   topics,
	}
	n.pipeline = NewEventPipeline(n.publishLookup, interval, 0)
	return n
}

// Start connects to the broker and runs the event pipeline until ctx is done.
func (n *MQTTNotifier) Start(ctx context.Context) error {
	if err := n.client.Start(ctx); err != nil {
		return fmt.Errorf("failed to start mqtt client: %w", err)
	}

	go n.announce(ctx)

	err := n.pipeline.Start(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	if n.client.IsConnected() {
		if perr := n.client.Publish(shutdownCtx, n.topics.Status(n.clientID), pkgmqtt.QoSAtLeastOnce, true, []byte(statusOffline)); perr != nil {
			log.Error(perr, "Failed to publish offline status")
		}
	}
	n.client.Disconnect(shutdownCtx)
	return err
}

// announce publishes the retained online status once connected.
func (n *MQTTNotifier) announce(ctx context.Context) {
	if err := n.client.AwaitConnection(ctx); err != nil {
		return
	}
	if err := n.client.Publish(ctx, n.topics.Status(n.clientID), pkgmqtt.QoSAtLeastOnce, true, []byte(statusOnline)); err != nil {
		log.Error(err, "Failed to publish online status")
	}
}

// NotifyLookup queues the event; it is published on the next flush.
func (n *MQTTNotifier) NotifyLookup(_ context.Context, event *model.LookupEvent) error {
	if !n.pipeline.Push(event) {
		return fmt.Errorf("event %s dropped: pipeline full", event.ID)
	}
	return nil
}

// NotifyTierChange publishes immediately as a retained message, so a new
// subscriber sees the current tier.
func (n *MQTTNotifier) NotifyTierChange(ctx context.Context, change *model.TierChange) error {
	payload, err := json.Marshal(change)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	return n.client.Publish(ctx, n.topics.TierChanged(), pkgmqtt.QoSAtLeastOnce, true, payload)
}

func (n *MQTTNotifier) publishLookup(ctx context.Context, event *model.LookupEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	return n.client.Publish(ctx, n.topics.Lookup(event.Registration), pkgmqtt.QoSAtMostOnce, false, payload)
}
