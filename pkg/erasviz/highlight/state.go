package highlight

import "sync"

// Snapshot is a consistent read of a State.
type Snapshot struct {
	Highlight   Set
	Scroll      ScrollState
	Transitions int
}

// State is the single highlight/scroll state shared by every chart of a view.
// Charts read projections of it; only ScrollSync and pointer handlers write.
type State struct {
	mu          sync.RWMutex
	highlight   Set
	scroll      ScrollState
	transitions int
	subs        map[*Subscription]struct{}
	closed      bool
}

// Subscription receives the latest Snapshot after every change. Intermediate
// snapshots are coalesced: a slow reader only ever sees the newest one.
type Subscription struct {
	C    <-chan Snapshot
	c    chan Snapshot
	once sync.Once
}

func NewState() *State {
	return &State{subs: make(map[*Subscription]struct{})}
}

func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *State) snapshotLocked() Snapshot {
	return Snapshot{Highlight: s.highlight, Scroll: s.scroll, Transitions: s.transitions}
}

func (s *State) Highlight() Set {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.highlight
}

// Transitions counts membership changes since the state was created.
func (s *State) Transitions() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.transitions
}

// SetHighlight replaces the highlight set. Setting an equal set is a no-op
// and returns false.
func (s *State) SetHighlight(set Set) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.highlight.Equal(set) {
		return false
	}
	s.highlight = set
	s.transitions++
	s.publishLocked()
	return true
}

// SetScroll records the latest scroll state. Subscribers are only notified
// when the value differs.
func (s *State) SetScroll(ss ScrollState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.scroll == ss {
		return
	}
	s.scroll = ss
	s.publishLocked()
}

func (s *State) Subscribe() *Subscription {
	c := make(chan Snapshot, 1)
	sub := &Subscription{C: c, c: c}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		sub.close()
		return sub
	}
	s.subs[sub] = struct{}{}
	return sub
}

func (s *State) Unsubscribe(sub *Subscription) {
	s.mu.Lock()
	_, ok := s.subs[sub]
	delete(s.subs, sub)
	s.mu.Unlock()
	if ok {
		sub.close()
	}
}

// SubscriberCount returns the number of live subscriptions.
func (s *State) SubscriberCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subs)
}

// Close releases every subscriber. Later writes are ignored.
func (s *State) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	for sub := range s.subs {
		sub.close()
	}
	s.subs = nil
}

func (s *State) publishLocked() {
	snap := s.snapshotLocked()
	for sub := range s.subs {
		select {
		case <-sub.c:
		default:
		}
		// buffer is now empty and only writers hold s.mu
		sub.c <- snap
	}
}

func (sub *Subscription) close() {
	sub.once.Do(func() { close(sub.c) })
}
