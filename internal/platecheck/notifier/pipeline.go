package notifier

import (
	"context"
	"time"

	"github.com/autopeer-io/platecheck/internal/pkg/metrics"
	"github.com/autopeer-io/platecheck/internal/platecheck/core/model"
	"github.com/autopeer-io/platecheck/pkg/log"
)

const (
	defaultCapacity = 5000
	// maxBuffered forces a flush before the interval elapses.
	maxBuffered = 1000
)

// PublishFunc delivers one event.
type PublishFunc func(ctx context.Context, event *model.LookupEvent) error

// EventPipeline is a write-merging buffer for lookup events. Between flushes
// it keeps only the latest event per registration, so a burst of repeated
// lookups for one vehicle publishes once.
type EventPipeline struct {
	publish PublishFunc

	// inputCh is where lookups push events without blocking.
	inputCh chan *model.LookupEvent

	// buffer holds the latest event per registration.
	buffer map[string]*model.LookupEvent

	flushInterval time.Duration
}

// NewEventPipeline creates a pipeline that flushes every interval.
// capacity <= 0 selects the default queue size.
func NewEventPipeline(publish PublishFunc, interval time.Duration, capacity int) *EventPipeline {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	if interval <= 0 {
		interval = time.Second
	}
	return &EventPipeline{
		publish:       publish,
		inputCh:       make(chan *model.LookupEvent, capacity),
		buffer:        make(map[string]*model.LookupEvent),
		flushInterval: interval,
	}
}

// Start runs the flush loop until ctx is done, then publishes whatever is
// still queued.
func (p *EventPipeline) Start(ctx context.Context) error {
	ticker := time.NewTicker(p.flushInterval)
	defer ticker.Stop()

	log.Info("Lookup event pipeline started", "interval", p.flushInterval)

	for {
		select {
		case event := <-p.inputCh:
			p.buffer[event.Registration] = event
			if len(p.buffer) >= maxBuffered {
				p.flush(ctx)
			}

		case <-ticker.C:
			if len(p.buffer) > 0 {
				p.flush(ctx)
			}

		case <-ctx.Done():
			p.drain()
			p.flush(context.Background())
			log.Info("Lookup event pipeline stopped")
			return nil
		}
	}
}

// Push queues an event. It never blocks; when the queue is full the event is dropped.
func (p *EventPipeline) Push(event *model.LookupEvent) bool {
	select {
	case p.inputCh <- event:
		return true
	default:
		metrics.EventsDroppedTotal.Inc()
		log.Warn("Event pipeline full, dropping lookup event", "registration", event.Registration, "id", event.ID)
		return false
	}
}

func (p *EventPipeline) drain() {
	for {
		select {
		case event := <-p.inputCh:
			p.buffer[event.Registration] = event
		default:
			return
		}
	}
}

func (p *EventPipeline) flush(ctx context.Context) {
	count := 0
	for registration, event := range p.buffer {
		if err := p.publish(ctx, event); err != nil {
			log.Error(err, "Failed to publish lookup event", "registration", registration)
			continue
		}
		count++
	}

	p.buffer = make(map[string]*model.LookupEvent)
	log.Debug("Event pipeline flushed", "published", count)
}
