package options

import (
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/pflag"

	"github.com/autopeer-io/platecheck/pkg/mqtt"
)

var _ IOptions = (*MqttOptions)(nil)

// MqttOptions contains configuration for the lookup event publisher.
type MqttOptions struct {
	// Enabled turns on event publishing. When false no broker connection is made.
	Enabled bool `json:"enabled" mapstructure:"enabled"`

	Broker   string `json:"broker" mapstructure:"broker"`
	Username string `json:"username" mapstructure:"username"`
	Password string `json:"password" mapstructure:"password"`
	ClientID string `json:"client-id" mapstructure:"client-id"`

	KeepAlive        time.Duration `json:"keep-alive" mapstructure:"keep-alive"`
	ConnectTimeout   time.Duration `json:"connect-timeout" mapstructure:"connect-timeout"`
	ReconnectBackoff time.Duration `json:"reconnect-backoff" mapstructure:"reconnect-backoff"`
	SessionExpiry    uint32        `json:"session-expiry" mapstructure:"session-expiry"`
	CleanStart       bool          `json:"clean-start" mapstructure:"clean-start"`

	// InsecureSkipVerify disables broker certificate verification. Testing only.
	InsecureSkipVerify bool `json:"insecure-skip-verify" mapstructure:"insecure-skip-verify"`

	// TopicRoot prefixes every published topic: {TopicRoot}/lookup/{registration}.
	TopicRoot string `json:"topic-root" mapstructure:"topic-root"`

	// FlushInterval is how often buffered events are published.
	FlushInterval time.Duration `json:"flush-interval" mapstructure:"flush-interval"`
}

// NewMqttOptions creates a new MqttOptions with default values.
func NewMqttOptions() *MqttOptions {
	return &MqttOptions{
		Broker:           "tcp://localhost:1883",
		KeepAlive:        60 * time.Second,
		ConnectTimeout:   5 * time.Second,
		ReconnectBackoff: 3 * time.Second,
		SessionExpiry:    60,
		CleanStart:       true,
		TopicRoot:        "platecheck/v1",
		FlushInterval:    time.Second,
	}
}

// Validate is used to parse and validate the parameters entered by the user at
// the command line when the program starts.
func (o *MqttOptions) Validate() []error {
	if o == nil || !o.Enabled {
		return nil
	}

	errors := []error{}

	if _, err := url.Parse(o.Broker); err != nil || o.Broker == "" {
		errors = append(errors, fmt.Errorf("--mqtt.broker %q is not a valid URL", o.Broker))
	}
	if o.TopicRoot == "" {
		errors = append(errors, fmt.Errorf("--mqtt.topic-root must not be empty"))
	}
	if o.FlushInterval <= 0 {
		errors = append(errors, fmt.Errorf("--mqtt.flush-interval must be positive"))
	}
	if o.ReconnectBackoff < 0 {
		errors = append(errors, fmt.Errorf("--mqtt.reconnect-backoff must not be negative"))
	}

	return errors
}

// AddFlags adds flags for MqttOptions to the specified FlagSet.
func (o *MqttOptions) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.BoolVar(&o.Enabled, "mqtt.enabled", o.Enabled, "Publish lookup and tier events to MQTT.")
	fs.StringVar(&o.Broker, "mqtt.broker", o.Broker, "The URL of the MQTT broker.")
	fs.StringVar(&o.Username, "mqtt.username", o.Username, "The username for MQTT authentication.")
	fs.StringVar(&o.Password, "mqtt.password", o.Password, "The password for MQTT authentication.")
	fs.StringVar(&o.ClientID, "mqtt.client-id", o.ClientID, "Explicit Client ID (optional, generated from the hostname).")

	fs.DurationVar(&o.KeepAlive, "mqtt.keep-alive", o.KeepAlive, "MQTT Keep Alive interval.")
	fs.DurationVar(&o.ConnectTimeout, "mqtt.connect-timeout", o.ConnectTimeout, "Timeout for establishing MQTT connection.")
	fs.DurationVar(&o.ReconnectBackoff, "mqtt.reconnect-backoff", o.ReconnectBackoff, "Pause between broker reconnect attempts.")
	fs.Uint32Var(&o.SessionExpiry, "mqtt.session-expiry", o.SessionExpiry, "MQTT Session Expiry Interval in seconds.")
	fs.BoolVar(&o.InsecureSkipVerify, "mqtt.insecure-skip-verify", o.InsecureSkipVerify, "If true, skips the TLS certificate verification.")

	fs.StringVar(&o.TopicRoot, "mqtt.topic-root", o.TopicRoot, "Topic prefix for published events.")
	fs.DurationVar(&o.FlushInterval, "mqtt.flush-interval", o.FlushInterval, "How often buffered events are published.")
}

func (o *MqttOptions) ToClientConfig() *mqtt.ClientConfig {
	return &mqtt.ClientConfig{
		BrokerURL:          o.Broker,
		Username:           o.Username,
		Password:           o.Password,
		ClientID:           o.ClientID,
		KeepAlive:          uint16(o.KeepAlive.Seconds()),
		SessionExpiry:      o.SessionExpiry,
		ConnectTimeout:     o.ConnectTimeout,
		ReconnectBackoff:   o.ReconnectBackoff,
		CleanStart:         o.CleanStart,
		InsecureSkipVerify: o.InsecureSkipVerify,
	}
}
