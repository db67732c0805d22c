package backend

import (
	"context"
	"sync"
)

// Sequencer implements last-request-wins per key: starting a request cancels
// the previous in-flight request with the same key.
type Sequencer struct {
	mu    sync.Mutex
	next  uint64
	slots map[string]slot
}

type slot struct {
	id     uint64
	cancel context.CancelFunc
}

// Ticket identifies one request started through Begin.
type Ticket struct {
	seq *Sequencer
	key string
	id  uint64
}

func NewSequencer() *Sequencer {
	return &Sequencer{slots: make(map[string]slot)}
}

// Begin cancels any earlier request for key and returns a context for the new one.
// Callers must call Done on the ticket.
func (s *Sequencer) Begin(ctx context.Context, key string) (context.Context, *Ticket) {
	ctx, cancel := context.WithCancel(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if prev, ok := s.slots[key]; ok {
		prev.cancel()
	}
	s.next++
	s.slots[key] = slot{id: s.next, cancel: cancel}
	return ctx, &Ticket{seq: s, key: key, id: s.next}
}

// Current reports whether no newer request for the same key has started.
func (t *Ticket) Current() bool {
	t.seq.mu.Lock()
	defer t.seq.mu.Unlock()
	cur, ok := t.seq.slots[t.key]
	return ok && cur.id == t.id
}

// Done releases the ticket's context.
func (t *Ticket) Done() {
	t.seq.mu.Lock()
	defer t.seq.mu.Unlock()
	if cur, ok := t.seq.slots[t.key]; ok && cur.id == t.id {
		cur.cancel()
		delete(t.seq.slots, t.key)
	}
}

// InFlight returns the number of keys with an active request.
func (s *Sequencer) InFlight() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.slots)
}
