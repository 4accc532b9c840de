// Package tier holds the caller's current subscription tier.
package tier

import (
	"context"
	"sync"

	"github.com/autopeer-io/platecheck/internal/pkg/metrics"
	"github.com/autopeer-io/platecheck/internal/platecheck/core/model"
	"github.com/autopeer-io/platecheck/pkg/log"
)

// Listener is called after every accepted change.
type Listener func(previous, current model.Tier)

// Resolver reads and writes the persisted tier. Reads and writes are
// last-write-wins; there is a single writer per client.
type Resolver struct {
	store    Store
	fallback model.Tier

	mu        sync.Mutex
	listeners map[int]Listener
	nextID    int
	last      model.Tier
}

// NewResolver returns a resolver that applies fallback when the stored value
// is missing or invalid. An invalid fallback is replaced by silver.
func NewResolver(store Store, fallback model.Tier) *Resolver {
	if !fallback.Valid() {
		fallback = model.TierSilver
	}
	return &Resolver{
		store:     store,
		fallback:  fallback,
		listeners: map[int]Listener{},
	}
}

// Fallback returns the tier applied to missing or invalid state.
func (r *Resolver) Fallback() model.Tier {
	return r.fallback
}

// Get returns the persisted tier. A missing or invalid value is replaced by
// the fallback, which is written back once; later calls then read it without
// writing again.
func (r *Resolver) Get() model.Tier {
	raw, found, err := r.store.Load()
	if err != nil {
		log.Error(err, "Failed to load tier, using fallback", "fallback", r.fallback)
		return r.fallback
	}

	if found {
		if t, err := model.ParseTier(raw); err == nil {
			r.remember(t)
			return t
		}
	}

	log.Warn("Persisted tier missing or invalid, applying fallback", "stored", raw, "fallback", r.fallback)
	if err := r.store.Save(string(r.fallback)); err != nil {
		log.Error(err, "Failed to persist fallback tier")
	}
	r.remember(r.fallback)
	return r.fallback
}

// Set validates and persists t, then notifies listeners. Invalid values are
// rejected with *model.InvalidTierError and nothing is written.
func (r *Resolver) Set(t model.Tier) error {
	if !t.Valid() {
		return &model.InvalidTierError{Value: string(t)}
	}

	previous := r.current()
	if err := r.store.Save(string(t)); err != nil {
		return err
	}
	r.remember(t)

	metrics.TierChangesTotal.WithLabelValues(string(t)).Inc()
	log.Info("Subscription tier changed", "previous", previous, "current", t)
	r.notify(previous, t)
	return nil
}

// Subscribe registers fn and returns a function that removes it.
func (r *Resolver) Subscribe(fn Listener) (cancel func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.nextID
	r.nextID++
	r.listeners[id] = fn

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		delete(r.listeners, id)
	}
}

// Watch forwards external changes of a watchable store to listeners until
// ctx is done. It returns immediately for stores that cannot be watched.
func (r *Resolver) Watch(ctx context.Context) error {
	w, ok := r.store.(Watcher)
	if !ok {
		return nil
	}

	return w.Watch(ctx, func() {
		r.mu.Lock()
		previous := r.last
		r.mu.Unlock()

		current := r.Get()
		if current != previous {
			log.Info("Subscription tier changed externally", "previous", previous, "current", current)
			r.notify(previous, current)
		}
	})
}

// current reads the stored tier without applying the fallback.
func (r *Resolver) current() model.Tier {
	raw, found, err := r.store.Load()
	if err != nil || !found {
		return ""
	}
	t, err := model.ParseTier(raw)
	if err != nil {
		return ""
	}
	return t
}

func (r *Resolver) remember(t model.Tier) {
	r.mu.Lock()
	r.last = t
	r.mu.Unlock()
}

func (r *Resolver) notify(previous, current model.Tier) {
	r.mu.Lock()
	listeners := make([]Listener, 0, len(r.listeners))
	for _, l := range r.listeners {
		listeners = append(listeners, l)
	}
	r.mu.Unlock()

	for _, l := range listeners {
		l(previous, current)
	}
}
