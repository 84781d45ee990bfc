// Package session tracks per-user lookup conversations: whether a user owes
// us a profile URL after a failed name search, and the per-user ordering of
// message handling.
package session

import "sync"

// Store holds the pending-lookup state for every user plus one serialization
// lane per user. Different users never contend; work for one user runs in
// strict arrival order.
type Store struct {
	mu      sync.Mutex
	pending map[string]string
	lanes   map[string]*lane
}

// NewStore returns an empty session store.
func NewStore() *Store {
	return &Store{
		pending: make(map[string]string),
		lanes:   make(map[string]*lane),
	}
}

// Pending returns the name whose lookup failed for this user, if any.
func (s *Store) Pending(userID string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	name, ok := s.pending[userID]
	return name, ok
}

// SetPending records that the user owes a profile URL for name. Any prior
// pending lookup for the same user is discarded; at most one exists.
func (s *Store) SetPending(userID string, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending[userID] = name
}

// ClearPending drops the user's pending lookup and reports whether one
// existed.
func (s *Store) ClearPending(userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.pending[userID]
	delete(s.pending, userID)
	return ok
}

// Dispatch queues fn on the user's lane. Functions dispatched for the same
// user run one at a time in dispatch order; separate users run concurrently.
func (s *Store) Dispatch(userID string, fn func()) {
	s.mu.Lock()
	l := s.lanes[userID]
	if l == nil {
		l = &lane{}
		s.lanes[userID] = l
	}
	s.mu.Unlock()

	l.enqueue(fn)
}

// lane is a minimal actor: a FIFO queue drained by at most one goroutine.
type lane struct {
	mu      sync.Mutex
	queue   []func()
	running bool
}

func (l *lane) enqueue(fn func()) {
	l.mu.Lock()
	l.queue = append(l.queue, fn)
	if !l.running {
		l.running = true
		go l.run()
	}
	l.mu.Unlock()
}

func (l *lane) run() {
	for {
		l.mu.Lock()
		if len(l.queue) == 0 {
			l.running = false
			l.mu.Unlock()
			return
		}
		fn := l.queue[0]
		l.queue = l.queue[1:]
		l.mu.Unlock()

		fn()
	}
}
