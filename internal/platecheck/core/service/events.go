package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/autopeer-io/platecheck/internal/pkg/metrics"
	"github.com/autopeer-io/platecheck/internal/platecheck/core/model"
	"github.com/autopeer-io/platecheck/pkg/log"
)

// record updates metrics and hands the lookup event to the notifier.
// Lookups rejected before normalization produce no event.
func (s *Service) record(ctx context.Context, l *lookup, outcome model.LookupOutcome) {
	duration := s.clock.Since(l.start)

	var kind model.ErrorKind
	if l.err != nil && outcome == model.OutcomeFailed {
		kind = l.err.Kind
	}

	tierLabel := string(l.tier)
	if !l.tier.Valid() {
		tierLabel = "invalid"
	}
	metrics.LookupsTotal.WithLabelValues(tierLabel, string(l.source), string(outcome), string(kind)).Inc()
	if l.source != "" {
		metrics.LookupLatency.WithLabelValues(string(l.source)).Observe(duration.Seconds())
	}

	if s.notifier == nil || l.registration == "" {
		return
	}

	event := &model.LookupEvent{
		ID:           uuid.NewString(),
		Registration: l.registration.String(),
		Tier:         l.tier,
		Source:       l.source,
		Outcome:      outcome,
		ErrorKind:    kind,
		DurationMS:   duration.Milliseconds(),
		At:           s.clock.Now(),
	}
	if err := s.notifier.NotifyLookup(ctx, event); err != nil {
		log.FromContext(ctx).Error(err, "Failed to publish lookup event", "id", event.ID)
	}
}

// NotifyTierChange forwards an accepted tier change to the notifier.
// It matches tier.Listener once the clock is bound.
func (s *Service) NotifyTierChange(ctx context.Context, previous, current model.Tier) {
	if s.notifier == nil {
		return
	}
	change := &model.TierChange{Previous: previous, Current: current, At: s.clock.Now()}
	if err := s.notifier.NotifyTierChange(ctx, change); err != nil {
		log.FromContext(ctx).Error(err, "Failed to publish tier change")
	}
}
