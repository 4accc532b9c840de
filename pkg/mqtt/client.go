package mqtt

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/eclipse/paho.golang/autopaho"
	"github.com/eclipse/paho.golang/paho"

	"github.com/autopeer-io/platecheck/pkg/log"
)

// ErrNotStarted is returned by operations that need a broker connection
// before Start has been called.
var ErrNotStarted = errors.New("mqtt client not started")

type pahoClient struct {
	cfg *ClientConfig

	mu   sync.RWMutex
	cm   *autopaho.ConnectionManager
	subs map[string]subscription

	connected atomic.Bool
}

type subscription struct {
	qos     byte
	handler MessageHandler
}

// NewClient creates a new MQTT client implementing the Client interface.
func NewClient(cfg *ClientConfig) (Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("mqtt config is required")
	}

	setDefaultConfig(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid mqtt config: %w", err)
	}

	return &pahoClient{
		cfg:  cfg,
		subs: map[string]subscription{},
	}, nil
}

func (c *pahoClient) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cm != nil {
		return fmt.Errorf("mqtt client %q already started", c.cfg.ClientID)
	}

	log.Info("Starting MQTT Client", "broker", c.cfg.BrokerURL, "clientID", c.cfg.ClientID)

	cm, err := autopaho.NewConnection(ctx, c.connectionConfig())
	if err != nil {
		return err
	}
	c.cm = cm
	return nil
}

// connectionConfig translates ClientConfig into the autopaho equivalent.
func (c *pahoClient) connectionConfig() autopaho.ClientConfig {
	broker, _ := url.Parse(c.cfg.BrokerURL) // validated in NewClient

	cc := autopaho.ClientConfig{
		ServerUrls:                    []*url.URL{broker},
		KeepAlive:                     c.cfg.KeepAlive,
		CleanStartOnInitialConnection: c.cfg.CleanStart,
		SessionExpiryInterval:         c.cfg.SessionExpiry,
		ReconnectBackoff:              autopaho.NewConstantBackoff(c.cfg.ReconnectBackoff),
		ConnectTimeout:                c.cfg.ConnectTimeout,
		WillMessage:                   c.willMessage(),
		OnConnectionUp:                c.onConnectionUp,
		OnConnectionDown:              c.onConnectionDown,
		OnConnectError:                c.onConnectError,
		ClientConfig: paho.ClientConfig{
			ClientID:           c.cfg.ClientID,
			OnClientError:      c.onClientError,
			OnServerDisconnect: c.onServerDisconnect,
			OnPublishReceived:  []func(paho.PublishReceived) (bool, error){c.route},
		},
	}

	if c.cfg.Username != "" {
		cc.ConnectUsername = c.cfg.Username
		cc.ConnectPassword = []byte(c.cfg.Password)
	}

	if secureScheme(broker.Scheme) {
		cc.TlsCfg = &tls.Config{
			MinVersion:         tls.VersionTLS12,
			InsecureSkipVerify: c.cfg.InsecureSkipVerify,
		}
	}

	return cc
}

func (c *pahoClient) manager() (*autopaho.ConnectionManager, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.cm == nil {
		return nil, ErrNotStarted
	}
	return c.cm, nil
}

func (c *pahoClient) Disconnect(ctx context.Context) {
	cm, err := c.manager()
	if err != nil {
		return
	}
	if err := cm.Disconnect(ctx); err != nil {
		log.Debug("MQTT disconnect did not complete cleanly", "error", err)
	}
	c.connected.Store(false)
	log.Info("MQTT Client disconnected", "clientID", c.cfg.ClientID)
}

// Publish waits for a live connection, bounded by ctx, before sending.
func (c *pahoClient) Publish(ctx context.Context, topic string, qos int, retain bool, payload []byte) error {
	cm, err := c.manager()
	if err != nil {
		return err
	}

	if !c.connected.Load() {
		if err := cm.AwaitConnection(ctx); err != nil {
			return fmt.Errorf("publish to %s: broker unavailable: %w", topic, err)
		}
	}

	if _, err := cm.Publish(ctx, &paho.Publish{
		Topic:   topic,
		QoS:     byte(qos),
		Retain:  retain,
		Payload: payload,
	}); err != nil {
		return fmt.Errorf("publish to %s: %w", topic, err)
	}
	return nil
}

// Subscribe records the subscription before sending it, so a failed attempt is
// still replayed on the next connection.
func (c *pahoClient) Subscribe(ctx context.Context, topic string, qos int, handler MessageHandler) error {
	if handler == nil {
		return fmt.Errorf("subscribe to %s: handler is required", topic)
	}
	cm, err := c.manager()
	if err != nil {
		return err
	}

	c.remember(topic, subscription{qos: byte(qos), handler: handler})

	if _, err := cm.Subscribe(ctx, &paho.Subscribe{
		Subscriptions: []paho.SubscribeOptions{{Topic: topic, QoS: byte(qos)}},
	}); err != nil {
		return fmt.Errorf("subscribe to %s: %w", topic, err)
	}

	log.Info("Subscribed to topic", "topic", topic)
	return nil
}

func (c *pahoClient) Unsubscribe(ctx context.Context, topic string) error {
	cm, err := c.manager()
	if err != nil {
		return err
	}

	c.forget(topic)

	_, err = cm.Unsubscribe(ctx, &paho.Unsubscribe{Topics: []string{topic}})
	return err
}

func (c *pahoClient) AwaitConnection(ctx context.Context) error {
	cm, err := c.manager()
	if err != nil {
		return err
	}
	return cm.AwaitConnection(ctx)
}

func (c *pahoClient) IsConnected() bool {
	return c.connected.Load()
}

func (c *pahoClient) remember(topic string, s subscription) {
	c.mu.Lock()
	c.subs[topic] = s
	c.mu.Unlock()
}

func (c *pahoClient) forget(topic string) {
	c.mu.Lock()
	delete(c.subs, topic)
	c.mu.Unlock()
}

// resubscribePacket builds one SUBSCRIBE covering every remembered filter,
// or nil when there is nothing to restore.
func (c *pahoClient) resubscribePacket() *paho.Subscribe {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if len(c.subs) == 0 {
		return nil
	}

	filters := make([]string, 0, len(c.subs))
	for topic := range c.subs {
		filters = append(filters, topic)
	}
	sort.Strings(filters)

	opts := make([]paho.SubscribeOptions, 0, len(filters))
	for _, topic := range filters {
		opts = append(opts, paho.SubscribeOptions{Topic: topic, QoS: c.subs[topic].qos})
	}
	return &paho.Subscribe{Subscriptions: opts}
}

// handlersFor returns the handlers whose filter matches topic.
func (c *pahoClient) handlersFor(topic string) []MessageHandler {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []MessageHandler
	for filter, s := range c.subs {
		if topicsMatch(topicFilter(filter), topic) {
			out = append(out, s.handler)
		}
	}
	return out
}

// onConnectionUp must not block, so the replay runs on its own goroutine.
func (c *pahoClient) onConnectionUp(cm *autopaho.ConnectionManager, _ *paho.Connack) {
	c.connected.Store(true)
	log.Info("MQTT Connection established", "broker", c.cfg.BrokerURL)

	sub := c.resubscribePacket()
	if sub == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), c.cfg.ConnectTimeout)
		defer cancel()
		if _, err := cm.Subscribe(ctx, sub); err != nil {
			log.Error(err, "Failed to restore subscriptions", "count", len(sub.Subscriptions))
			return
		}
		log.Debug("Restored subscriptions", "count", len(sub.Subscriptions))
	}()
}

func (c *pahoClient) onConnectionDown() bool {
	c.connected.Store(false)
	log.Warn("MQTT Connection lost, reconnecting", "backoff", c.cfg.ReconnectBackoff)
	return true
}

func (c *pahoClient) onConnectError(err error) {
	c.connected.Store(false)
	log.Error(err, "MQTT Connection attempt failed", "broker", c.cfg.BrokerURL)
}

func (c *pahoClient) onClientError(err error) {
	log.Error(err, "MQTT Client internal error")
}

func (c *pahoClient) onServerDisconnect(d *paho.Disconnect) {
	c.connected.Store(false)
	var reason string
	if d.Properties != nil {
		reason = d.Properties.ReasonString
	}
	log.Warn("MQTT Server requested disconnect", "code", d.ReasonCode, "reason", reason)
}

// route hands an incoming message to every matching handler.
func (c *pahoClient) route(p paho.PublishReceived) (bool, error) {
	handlers := c.handlersFor(p.Packet.Topic)
	if len(handlers) == 0 {
		log.Debug("Received message on unhandled topic", "topic", p.Packet.Topic)
		return false, nil
	}
	for _, h := range handlers {
		go h(context.Background(), p.Packet.Topic, p.Packet.Payload)
	}
	return true, nil
}

func (c *pahoClient) willMessage() *paho.WillMessage {
	if c.cfg.WillTopic == "" {
		return nil
	}
	return &paho.WillMessage{
		Topic:   c.cfg.WillTopic,
		Payload: c.cfg.WillPayload,
		QoS:     c.cfg.WillQoS,
		Retain:  c.cfg.WillRetain,
	}
}

func secureScheme(scheme string) bool {
	switch strings.ToLower(scheme) {
	case "ssl", "tls", "mqtts", "wss":
		return true
	}
	return false
}

// topicsMatch reports whether topic matches filter, honouring + and # wildcards.
func topicsMatch(filter, topic string) bool {
	for {
		fseg, frest, fmore := strings.Cut(filter, "/")
		if fseg == "#" {
			return true
		}
		tseg, trest, tmore := strings.Cut(topic, "/")
		if fseg != "+" && fseg != tseg {
			return false
		}
		if !fmore || !tmore {
			// "a/#" also matches its parent "a".
			return fmore == tmore || (fmore && frest == "#")
		}
		filter, topic = frest, trest
	}
}

// topicFilter strips the $share/<group>/ prefix of a shared subscription.
func topicFilter(filter string) string {
	rest, ok := strings.CutPrefix(filter, "$share/")
	if !ok {
		return filter
	}
	if _, f, ok := strings.Cut(rest, "/"); ok {
		return f
	}
	return filter
}
