package service

import (
	"sync"
	"sync/atomic"
)

// Sequencer hands out increasing tokens per session so that only the newest
// lookup of a session delivers its result.
//
// Tokens come from one global counter: a session forgotten by Done and then
// reused can never see an old token match again.
type Sequencer struct {
	counter atomic.Uint64

	mu     sync.Mutex
	latest map[string]uint64
}

func NewSequencer() *Sequencer {
	return &Sequencer{latest: map[string]uint64{}}
}

// Next starts a lookup for session and returns its token.
func (q *Sequencer) Next(session string) uint64 {
	token := q.counter.Add(1)

	q.mu.Lock()
	defer q.mu.Unlock()
	q.latest[session] = token
	return token
}

// IsLatest reports whether token is still the newest for session.
func (q *Sequencer) IsLatest(session string, token uint64) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	v, ok := q.latest[session]
	return ok && v == token
}

// Done forgets session if token is still its newest lookup.
func (q *Sequencer) Done(session string, token uint64) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.latest[session] == token {
		delete(q.latest, session)
	}
}

// Len returns the number of sessions with a lookup in flight.
func (q *Sequencer) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.latest)
}
