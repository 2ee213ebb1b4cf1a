package event

import (
	"strconv"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"
)

var (
	busSeq atomic.Int64

	defaultDirectory     *Directory
	defaultDirectoryOnce sync.Once
)

// NextBusID allocates a bus identity. Identities are never reused for the life of the process.
func NextBusID() int {
	return int(busSeq.Add(1) - 1)
}

// Directory maps event types to their canonical ListenerList.
// Lists are created on first lookup, parents first, and published exactly once.
type Directory struct {
	mu       sync.RWMutex
	lists    map[*Type]*ListenerList
	capacity int

	flight singleflight.Group
}

// NewDirectory creates an empty directory. Most programs use Default.
func NewDirectory() *Directory {
	return &Directory{
		lists: make(map[*Type]*ListenerList),
	}
}

// Default returns the process-wide directory.
func Default() *Directory {
	defaultDirectoryOnce.Do(func() {
		defaultDirectory = NewDirectory()
	})
	return defaultDirectory
}

// Resolve returns the canonical list for t, creating it and its ancestors' lists when absent.
// The fast path only takes a read lock.
func (d *Directory) Resolve(t *Type) *ListenerList {
	if t == nil {
		t = Root
	}

	d.mu.RLock()
	l, ok := d.lists[t]
	d.mu.RUnlock()
	if ok {
		return l
	}

	// Computation happens outside the lock since it recurses into the parent type.
	v, _, _ := d.flight.Do(strconv.FormatUint(t.ID(), 10), func() (any, error) {
		return d.publish(t, d.compute(t)), nil
	})
	return v.(*ListenerList)
}

func (d *Directory) compute(t *Type) *ListenerList {
	d.mu.RLock()
	capacity := d.capacity
	d.mu.RUnlock()

	if t.Parent() == nil {
		return newListenerList(nil, capacity)
	}
	return newListenerList(d.Resolve(t.Parent()), capacity)
}

// publish stores l unless another list won the race, and returns the canonical one.
func (d *Directory) publish(t *Type, l *ListenerList) *ListenerList {
	d.mu.Lock()
	defer d.mu.Unlock()

	if existing, ok := d.lists[t]; ok {
		return existing
	}

	l.grow(d.capacity)
	d.lists[t] = l
	if l.parent != nil {
		l.parent.addChild(l)
	}
	return l
}

// EnsureCapacity grows every known list so bus identities below busCount are addressable.
func (d *Directory) EnsureCapacity(busCount int) {
	d.mu.Lock()
	if busCount <= d.capacity {
		d.mu.Unlock()
		return
	}
	d.capacity = busCount
	lists := make([]*ListenerList, 0, len(d.lists))
	for _, l := range d.lists {
		lists = append(lists, l)
	}
	d.mu.Unlock()

	for _, l := range lists {
		l.grow(busCount)
	}
}

// Len returns the number of published lists.
func (d *Directory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.lists)
}
