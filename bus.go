package eventbus

import (
	"fmt"
	"log/slog"
	"reflect"
	"runtime"
	"runtime/debug"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/dmitrymomot/eventbus/core/event"
	"github.com/dmitrymomot/eventbus/core/logger"
)

// Adder attaches listeners. *Bus implements it, and registrars receive one scoped to
// the registration target so that Unregister(target) removes everything they added.
type Adder interface {
	AddListener(t *event.Type, fn func(event.Event) error, opts ...ListenerOption) (*Handle, error)
}

// Handle describes an added listener. When no WithOwner option is given,
// the handle itself is the owner key to pass to Unregister.
type Handle struct {
	typ  *event.Type
	name string
}

// Type returns the event type the listener was added for.
func (h *Handle) Type() *event.Type { return h.typ }

// Name returns the listener description.
func (h *Handle) Name() string { return h.name }

// Bus is a synchronous, in-process event dispatcher.
// Every bus has its own identity and therefore its own listeners, even though all buses
// sharing a directory share the per-type listener lists.
type Bus struct {
	id          int
	trackPhases bool
	shutdown    atomic.Bool
	handler     ExceptionHandler
	logger      *slog.Logger
	directory   *event.Directory
	registrars  *Registrars

	mu     sync.RWMutex
	owners map[any]*ownerEntries
}

type ownerEntries struct {
	mu      sync.Mutex
	entries []registration
}

type registration struct {
	list  *event.ListenerList
	entry *event.Entry
}

// New creates a bus with the given options.
//
// Example:
//
//	bus := eventbus.New(
//	    eventbus.WithLogger(logger),
//	    eventbus.WithTrackPhases(false),
//	)
func New(opts ...Option) *Bus {
	b := &Bus{
		id:          event.NextBusID(),
		trackPhases: true,
		logger:      slog.Default(),
		directory:   event.Default(),
		registrars:  DefaultRegistrars(),
		owners:      make(map[any]*ownerEntries),
	}

	for _, opt := range opts {
		opt(b)
	}

	if b.handler == nil {
		b.handler = b.reportFailure
	}

	b.directory.EnsureCapacity(b.id + 1)

	return b
}

// ID returns the bus identity.
func (b *Bus) ID() int { return b.id }

// TrackPhases reports whether phase markers run during dispatch.
func (b *Bus) TrackPhases() bool { return b.trackPhases }

// IsShutdown reports whether Post is currently a no-op.
func (b *Bus) IsShutdown() bool { return b.shutdown.Load() }

// Shutdown stops future posts. Registrations and posts already dispatching are unaffected.
func (b *Bus) Shutdown() {
	b.logger.Warn("event bus shutting down - future events will not be posted",
		logger.Component("eventbus"),
		logger.BusID(b.id))
	b.shutdown.Store(true)
}

// Start resumes posting after Shutdown or WithStartShutdown.
func (b *Bus) Start() {
	b.shutdown.Store(false)
}

// AddListener registers fn for events of type t and all of its descendant types.
//
// Example:
//
//	h, err := bus.AddListener(PlayerJoin, func(evt event.Event) error {
//	    return greet(evt.(*PlayerJoinEvent))
//	}, eventbus.WithPriority(event.High))
//	...
//	bus.Unregister(h)
func (b *Bus) AddListener(t *event.Type, fn func(event.Event) error, opts ...ListenerOption) (*Handle, error) {
	return b.addListener(nil, t, fn, opts)
}

func (b *Bus) addListener(owner any, t *event.Type, fn func(event.Event) error, opts []ListenerOption) (*Handle, error) {
	if t == nil {
		return nil, ErrUnresolvedEventType
	}
	if fn == nil {
		return nil, ErrNilListener
	}

	cfg := newListenerConfig(opts)
	if !cfg.priority.Valid() {
		return nil, fmt.Errorf("%w: %s", event.ErrInvalidPriority, cfg.priority)
	}

	name := cfg.name
	if name == "" {
		name = funcName(fn)
	}

	if t == event.Root {
		b.logger.Warn("listener registered for the root event type receives every event",
			logger.Component("eventbus"),
			logger.BusID(b.id),
			logger.Listener(name),
			logger.Priority(cfg.priority.String()))
	}

	h := &Handle{typ: t, name: name}

	key := any(h)
	switch {
	case cfg.owner != nil:
		key = cfg.owner
	case owner != nil:
		key = owner
	}
	if !isComparable(key) {
		return nil, fmt.Errorf("%w: %T", ErrUncomparableOwner, key)
	}

	entry := event.NewEntry(name, cfg.priority, cfg.accept(), fn)
	list := b.directory.Resolve(t)
	if err := list.Register(b.id, cfg.priority, entry); err != nil {
		return nil, err
	}

	b.track(key, registration{list: list, entry: entry})

	return h, nil
}

func (b *Bus) track(owner any, r registration) {
	b.mu.Lock()
	oe, ok := b.owners[owner]
	if !ok {
		oe = &ownerEntries{}
		b.owners[owner] = oe
	}
	b.mu.Unlock()

	oe.mu.Lock()
	oe.entries = append(oe.entries, r)
	oe.mu.Unlock()
}

// Unregister removes every listener recorded under owner: a Handle, a WithOwner key,
// or a target passed to Register. Unknown owners are ignored.
func (b *Bus) Unregister(owner any) {
	if owner == nil || !isComparable(owner) {
		return
	}

	b.mu.Lock()
	oe, ok := b.owners[owner]
	delete(b.owners, owner)
	b.mu.Unlock()

	if !ok {
		b.logger.Debug("unregister of unknown owner ignored",
			logger.Component("eventbus"),
			logger.BusID(b.id),
			logger.Target(fmt.Sprintf("%T", owner)))
		return
	}

	oe.mu.Lock()
	entries := oe.entries
	oe.entries = nil
	oe.mu.Unlock()

	for _, r := range entries {
		r.list.UnregisterAll(b.id, r.entry)
	}
}

// IsRegistered reports whether owner currently has a registration record on this bus.
func (b *Bus) IsRegistered(owner any) bool {
	if owner == nil || !isComparable(owner) {
		return false
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.owners[owner]
	return ok
}

// Post dispatches evt synchronously to every matching listener in priority order.
// It returns true when the event is cancelable and ended canceled. Cancellation never stops
// dispatch; listeners without ReceiveCanceled are skipped by their own filter.
//
// A failing or panicking listener stops dispatch. The exception handler is called with the
// dispatch array and failing index, then the failure is returned as a *ListenerError.
// Posting on a shut down bus returns false without invoking anything.
func (b *Bus) Post(evt event.Event) (bool, error) {
	if b.shutdown.Load() {
		return false, nil
	}
	if evt == nil {
		return false, ErrNilEvent
	}

	listeners := b.directory.Resolve(evt.Type()).Listeners(b.id)

	for i, l := range listeners {
		if !b.trackPhases && event.IsPhaseMarker(l) {
			continue
		}

		if err := invoke(l, evt); err != nil {
			b.handler(b, evt, slices.Clone(listeners), i, err)
			return false, &ListenerError{
				BusID:     b.id,
				EventType: evt.Type().Name(),
				EventID:   evt.ID(),
				Index:     i,
				Listener:  describe(l),
				Err:       err,
			}
		}
	}

	return evt.Cancelable() && evt.Canceled(), nil
}

// invoke runs one listener, converting a panic into a *PanicError.
func invoke(l event.Listener, evt event.Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r, Stack: debug.Stack()}
		}
	}()
	return l.Invoke(evt)
}

func isComparable(v any) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	_ = map[any]struct{}{v: {}}
	return true
}

func funcName(fn any) string {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.IsNil() {
		return fmt.Sprintf("%T", fn)
	}
	if f := runtime.FuncForPC(v.Pointer()); f != nil {
		return f.Name()
	}
	return fmt.Sprintf("%T", fn)
}
