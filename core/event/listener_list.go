package event

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// ListenerList holds, per bus identity, the listeners registered directly against one event type,
// and serves the merged view that includes every ancestor type's listeners.
//
// Merged arrays are cached per bus and invalidated eagerly: a write bumps the slot generation
// of this list and of every descendant list, and a cached array is only served while its
// generation is current.
type ListenerList struct {
	parent *ListenerList

	mu       sync.RWMutex // guards slots growth and children
	slots    []*slot
	children []*ListenerList
}

type slot struct {
	mu    sync.Mutex
	tiers [priorityCount][]Listener

	gen   atomic.Uint64
	cache atomic.Pointer[snapshot]
}

type snapshot struct {
	gen       uint64
	listeners []Listener
}

func newListenerList(parent *ListenerList, capacity int) *ListenerList {
	l := &ListenerList{parent: parent}
	l.grow(capacity)
	return l
}

// Parent returns the ancestor type's list, or nil for the root list.
func (l *ListenerList) Parent() *ListenerList { return l.parent }

// Capacity returns how many bus identities the list can address without growing.
func (l *ListenerList) Capacity() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.slots)
}

// Register appends listener to the bus slot at the given tier.
func (l *ListenerList) Register(busID int, priority Priority, listener Listener) error {
	if !priority.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidPriority, int(priority))
	}

	s := l.slot(busID)
	s.mu.Lock()
	s.tiers[priority] = append(s.tiers[priority], listener)
	s.mu.Unlock()

	l.invalidate(busID)
	return nil
}

// UnregisterAll removes every occurrence of listener from the bus slot. Absent listeners are ignored.
// Arrays already handed out by Listeners are never modified.
func (l *ListenerList) UnregisterAll(busID int, listener Listener) {
	s := l.slot(busID)
	removed := false

	s.mu.Lock()
	for p, tier := range s.tiers {
		kept := make([]Listener, 0, len(tier))
		for _, existing := range tier {
			if existing == listener {
				removed = true
				continue
			}
			kept = append(kept, existing)
		}
		s.tiers[p] = kept
	}
	s.mu.Unlock()

	if removed {
		l.invalidate(busID)
	}
}

// Listeners returns the hierarchy-merged dispatch array for a bus: tiers in order, each non-empty
// tier preceded by its Priority phase marker, ancestor listeners ahead of this type's within a tier.
// The returned slice is shared and must not be modified.
func (l *ListenerList) Listeners(busID int) []Listener {
	s := l.slot(busID)
	if c := s.cache.Load(); c != nil && c.gen == s.gen.Load() {
		return c.listeners
	}

	gen := s.gen.Load()
	var merged []Listener
	for _, p := range Priorities() {
		tier := l.tier(busID, p)
		if len(tier) == 0 {
			continue
		}
		merged = append(merged, p)
		merged = append(merged, tier...)
	}

	s.cache.Store(&snapshot{gen: gen, listeners: merged})
	return merged
}

// tier returns a fresh copy of one tier, ancestors first.
func (l *ListenerList) tier(busID int, p Priority) []Listener {
	var out []Listener
	if l.parent != nil {
		out = l.parent.tier(busID, p)
	}

	s := l.slot(busID)
	s.mu.Lock()
	out = append(out, s.tiers[p]...)
	s.mu.Unlock()

	return out
}

func (l *ListenerList) invalidate(busID int) {
	l.slot(busID).gen.Add(1)

	l.mu.RLock()
	children := l.children
	l.mu.RUnlock()

	for _, c := range children {
		c.invalidate(busID)
	}
}

func (l *ListenerList) addChild(child *ListenerList) {
	l.mu.Lock()
	l.children = append(l.children, child)
	l.mu.Unlock()
}

func (l *ListenerList) slot(busID int) *slot {
	l.mu.RLock()
	if busID < len(l.slots) {
		s := l.slots[busID]
		l.mu.RUnlock()
		return s
	}
	l.mu.RUnlock()

	l.grow(busID + 1)

	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.slots[busID]
}

// grow extends per-bus storage so identities below n are addressable.
func (l *ListenerList) grow(n int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for len(l.slots) < n {
		l.slots = append(l.slots, &slot{})
	}
}
