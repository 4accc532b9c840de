package server

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/autopeer-io/platecheck/internal/platecheck/server/http"
	"github.com/autopeer-io/platecheck/pkg/log"
)

// Server defines the common interface for everything the manager runs
// (the HTTP API, the event notifier, the tier watcher).
type Server interface {
	Start(ctx context.Context) error
}

// ServerFunc adapts a blocking function to Server.
type ServerFunc func(ctx context.Context) error

func (f ServerFunc) Start(ctx context.Context) error { return f(ctx) }

// Manager manages the lifecycle of all servers.
type Manager struct {
	servers []Server
}

// NewManager creates the HTTP server and adds any background servers.
func NewManager(cfg *Config, svc http.LookupService, tiers http.TierResolver, enquiry http.VehicleFetcher, background ...Server) *Manager {
	servers := []Server{http.NewServer(cfg.HttpOptions, svc, tiers, enquiry)}
	servers = append(servers, background...)

	return &Manager{servers: servers}
}

// Start launches all servers in parallel and waits for termination. The
// first failure cancels the others.
func (m *Manager) Start(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	for _, srv := range m.servers {
		g.Go(func() error {
			return srv.Start(ctx)
		})
	}

	log.Info("All servers starting...", "count", len(m.servers))
	return g.Wait()
}
