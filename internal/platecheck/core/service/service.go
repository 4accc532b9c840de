package service

import (
	"context"
	"errors"
	"time"

	"k8s.io/utils/clock"

	"github.com/autopeer-io/platecheck/internal/platecheck/core"
	"github.com/autopeer-io/platecheck/internal/platecheck/core/gating"
	"github.com/autopeer-io/platecheck/internal/platecheck/core/model"
)

// ErrSuperseded is returned by ResolveLatest when a newer lookup was started
// for the same session before this one completed. Its report is dropped.
var ErrSuperseded = errors.New("lookup superseded by a newer request")

// Service implements the lookup use cases.
// It routes each lookup to a data source by tier and narrows every failure
// into a *model.ResolutionError.
type Service struct {
	live     core.DataSource
	fixtures core.DataSource
	notifier core.Notifier
	archive  core.ReportArchive

	shareExpiry time.Duration
	clock       clock.PassiveClock
	sequencer   *Sequencer
}

type Option func(*Service)

func WithNotifier(n core.Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

// WithArchive enables Share. Links expire after expiry.
func WithArchive(a core.ReportArchive, expiry time.Duration) Option {
	return func(s *Service) {
		s.archive = a
		s.shareExpiry = expiry
	}
}

func WithClock(c clock.PassiveClock) Option {
	return func(s *Service) { s.clock = c }
}

// New creates the lookup service. live serves basic, fixtures serves silver and gold.
func New(live, fixtures core.DataSource, opts ...Option) *Service {
	s := &Service{
		live:        live,
		fixtures:    fixtures,
		shareExpiry: 24 * time.Hour,
		clock:       clock.RealClock{},
		sequencer:   NewSequencer(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Resolve runs one lookup from scratch.
func (s *Service) Resolve(ctx context.Context, input string, tier model.Tier) (*model.VehicleReport, error) {
	return s.resolve(ctx, input, tier, nil)
}

// ResolveLatest is Resolve with latest-request-wins semantics per session.
func (s *Service) ResolveLatest(ctx context.Context, session, input string, tier model.Tier) (*model.VehicleReport, error) {
	token := s.sequencer.Next(session)
	defer s.sequencer.Done(session, token)

	return s.resolve(ctx, input, tier, func() bool {
		return s.sequencer.IsLatest(session, token)
	})
}

// Lookup resolves and gates a report. An empty session disables
// latest-request-wins.
func (s *Service) Lookup(ctx context.Context, session, input string, tier model.Tier) (*gating.Presentation, error) {
	var (
		report *model.VehicleReport
		err    error
	)
	if session == "" {
		report, err = s.Resolve(ctx, input, tier)
	} else {
		report, err = s.ResolveLatest(ctx, session, input, tier)
	}
	if err != nil {
		return nil, err
	}
	return gating.Present(report, tier), nil
}

func (s *Service) resolve(ctx context.Context, input string, tier model.Tier, latest func() bool) (*model.VehicleReport, error) {
	l := newLookup(s, input, tier)
	report, err := l.run(ctx)

	outcome := model.OutcomeResolved
	if err != nil {
		outcome = model.OutcomeFailed
	}
	if latest != nil && !latest() {
		outcome = model.OutcomeSuperseded
		report, err = nil, ErrSuperseded
	}

	s.record(ctx, l, outcome)
	return report, err
}

// sourceFor routes a valid tier to its data source.
func (s *Service) sourceFor(tier model.Tier) core.DataSource {
	if tier == model.TierBasic {
		return s.live
	}
	return s.fixtures
}
