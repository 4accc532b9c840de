package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/autopeer-io/platecheck/internal/platecheck/core/gating"
	"github.com/autopeer-io/platecheck/internal/platecheck/core/model"
	"github.com/autopeer-io/platecheck/internal/platecheck/dvla"
	"github.com/autopeer-io/platecheck/pkg/log"
	"github.com/autopeer-io/platecheck/pkg/options"
	"github.com/autopeer-io/platecheck/pkg/vrm"
)

// LookupService is satisfied by *service.Service.
type LookupService interface {
	Lookup(ctx context.Context, session, input string, tier model.Tier) (*gating.Presentation, error)
	Share(ctx context.Context, input string, tier model.Tier) (string, error)
}

// TierResolver is satisfied by *tier.Resolver.
type TierResolver interface {
	Get() model.Tier
	Set(t model.Tier) error
}

// VehicleFetcher is satisfied by *dvla.Client.
type VehicleFetcher interface {
	Fetch(ctx context.Context, registration vrm.VRM) (*dvla.Vehicle, error)
}

type Server struct {
	server  *http.Server
	options *options.HttpOptions
}

func NewServer(opts *options.HttpOptions, svc LookupService, tiers TierResolver, enquiry VehicleFetcher) *Server {
	return &Server{
		server: &http.Server{
			Addr:    opts.Addr,
			Handler: NewRouter(opts, svc, tiers, enquiry),
		},
		options: opts,
	}
}

// NewRouter builds the API handler.
func NewRouter(opts *options.HttpOptions, svc LookupService, tiers TierResolver, enquiry VehicleFetcher) http.Handler {
	h := &handler{svc: svc, tiers: tiers, enquiry: enquiry}

	r := mux.NewRouter()
	r.Use(requestLogger, timeout(opts.Timeout))

	api := r.PathPrefix("/v1").Subrouter()
	api.HandleFunc("/reports/{registration}", h.getReport).Methods(http.MethodGet)
	api.HandleFunc("/reports/{registration}/share", h.shareReport).Methods(http.MethodPost)
	api.HandleFunc("/registrations/{input}", h.formatRegistration).Methods(http.MethodGet)
	api.HandleFunc("/tier", h.getTier).Methods(http.MethodGet)
	api.HandleFunc("/tier", h.putTier).Methods(http.MethodPut)

	// Thin proxy in front of the government enquiry API.
	r.HandleFunc("/api/vehicle-enquiry", h.vehicleEnquiry).Methods(http.MethodPost)

	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	return r
}

func (s *Server) Start(ctx context.Context) error {
	log.Info("Starting HTTP Server", "addr", s.server.Addr)

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.options.ShutdownTimeout)
		defer cancel()
		log.Info("Shutting down HTTP Server")
		return s.server.Shutdown(shutdownCtx)
	}
}
