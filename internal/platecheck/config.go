package platecheck

import (
	"context"
	"fmt"

	"k8s.io/utils/clock"

	"github.com/autopeer-io/platecheck/internal/platecheck/core/model"
	"github.com/autopeer-io/platecheck/internal/platecheck/core/service"
	"github.com/autopeer-io/platecheck/internal/platecheck/dvla"
	"github.com/autopeer-io/platecheck/internal/platecheck/fixture"
	"github.com/autopeer-io/platecheck/internal/platecheck/mapper"
	"github.com/autopeer-io/platecheck/internal/platecheck/notifier"
	"github.com/autopeer-io/platecheck/internal/platecheck/server"
	"github.com/autopeer-io/platecheck/internal/platecheck/source"
	"github.com/autopeer-io/platecheck/internal/platecheck/storage"
	"github.com/autopeer-io/platecheck/internal/platecheck/tier"
	"github.com/autopeer-io/platecheck/pkg/options"
)

// Config groups every option a platecheck binary can carry. Nil MQTT and S3
// groups disable those adapters; any other nil group takes its defaults.
type Config struct {
	HttpOptions    *options.HttpOptions
	DvlaOptions    *options.DvlaOptions
	FixtureOptions *options.FixtureOptions
	TierOptions    *options.TierOptions
	MqttOptions    *options.MqttOptions
	S3Options      *options.S3Options
}

// Components are the wired adapters and the core service.
type Components struct {
	Service *service.Service
	Tiers   *tier.Resolver
	Enquiry *dvla.Client

	// Notifier and Archive are nil when disabled.
	Notifier *notifier.MQTTNotifier
	Archive  *storage.MinIO
}

// NewComponents wires adapters into the core service.
func (cfg *Config) NewComponents() (*Components, error) {
	clk := clock.RealClock{}

	// 1. Data sources
	store, err := cfg.newFixtureStore(clk)
	if err != nil {
		return nil, err
	}
	dvlaOpts := cfg.DvlaOptions
	if dvlaOpts == nil {
		dvlaOpts = options.NewDvlaOptions()
	}
	enquiry := dvla.NewClient(dvlaOpts)
	live := source.NewLiveGovernmentSource(enquiry, mapper.New(clk))
	fixtures := source.NewFixtureSource(store)

	// 2. Tier state
	tiers := tier.NewResolver(cfg.newTierStore(), cfg.defaultTier())

	c := &Components{Tiers: tiers, Enquiry: enquiry}
	opts := []service.Option{service.WithClock(clk)}

	// 3. Optional adapters
	if cfg.MqttOptions != nil && cfg.MqttOptions.Enabled {
		c.Notifier, err = notifier.NewMQTTNotifier(cfg.MqttOptions)
		if err != nil {
			return nil, fmt.Errorf("failed to init notifier: %w", err)
		}
		opts = append(opts, service.WithNotifier(c.Notifier))
	}
	if cfg.S3Options != nil && cfg.S3Options.Enabled {
		c.Archive, err = storage.NewMinIO(cfg.S3Options)
		if err != nil {
			return nil, fmt.Errorf("failed to init report archive: %w", err)
		}
		opts = append(opts, service.WithArchive(c.Archive, cfg.S3Options.ShareExpiry))
	}

	// 4. Core service
	c.Service = service.New(live, fixtures, opts...)
	tiers.Subscribe(func(previous, current model.Tier) {
		c.Service.NotifyTierChange(context.Background(), previous, current)
	})

	return c, nil
}

// NewPlatecheckServer builds the daemon.
func (cfg *Config) NewPlatecheckServer() (*PlatecheckServer, error) {
	c, err := cfg.NewComponents()
	if err != nil {
		return nil, err
	}

	var background []server.Server
	if c.Notifier != nil {
		background = append(background, c.Notifier)
	}
	if cfg.TierOptions != nil && cfg.TierOptions.Watch && cfg.TierOptions.StateFile != "" {
		background = append(background, server.ServerFunc(c.Tiers.Watch))
	}

	httpOpts := cfg.HttpOptions
	if httpOpts == nil {
		httpOpts = options.NewHttpOptions()
	}
	serverConfig := &server.Config{HttpOptions: httpOpts}
	return &PlatecheckServer{
		serverManager: server.NewManager(serverConfig, c.Service, c.Tiers, c.Enquiry, background...),
		archive:       c.Archive,
	}, nil
}

func (cfg *Config) newFixtureStore(clk clock.PassiveClock) (*fixture.Store, error) {
	if cfg.FixtureOptions != nil && cfg.FixtureOptions.Path != "" {
		return fixture.NewFromFile(cfg.FixtureOptions.Path, clk)
	}
	return fixture.New(clk)
}

func (cfg *Config) newTierStore() tier.Store {
	if cfg.TierOptions != nil && cfg.TierOptions.StateFile != "" {
		return tier.NewFileStore(cfg.TierOptions.StateFile)
	}
	return tier.NewMemoryStore()
}

func (cfg *Config) defaultTier() model.Tier {
	if cfg.TierOptions == nil {
		return model.TierSilver
	}
	t, err := model.ParseTier(cfg.TierOptions.Default)
	if err != nil {
		return model.TierSilver
	}
	return t
}
