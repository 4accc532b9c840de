package core

import (
	"context"

	"github.com/autopeer-io/platecheck/internal/platecheck/core/model"
)

// Notifier publishes lookup and tier events to downstream consumers.
// In platecheck, this is implemented by the MQTT adapter.
type Notifier interface {
	// NotifyLookup must not block the lookup that produced the event.
	NotifyLookup(ctx context.Context, event *model.LookupEvent) error

	NotifyTierChange(ctx context.Context, change *model.TierChange) error
}
