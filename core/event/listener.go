package event

// Listener is one slot of a dispatch array.
// Implementations stored in a ListenerList must be comparable; Entry pointers and Priority values are.
type Listener interface {
	Invoke(evt Event) error
}

// Entry binds a priority tier, an optional acceptance predicate and a callback.
// It is created once per registration and never mutated.
type Entry struct {
	name     string
	priority Priority
	accept   func(Event) bool
	invoke   func(Event) error
}

// NewEntry creates a registration entry. A nil accept admits every event.
func NewEntry(name string, priority Priority, accept func(Event) bool, invoke func(Event) error) *Entry {
	return &Entry{
		name:     name,
		priority: priority,
		accept:   accept,
		invoke:   invoke,
	}
}

// Invoke runs the callback when the predicate admits the event.
func (e *Entry) Invoke(evt Event) error {
	if e.accept != nil && !e.accept(evt) {
		return nil
	}
	return e.invoke(evt)
}

func (e *Entry) Priority() Priority { return e.priority }
func (e *Entry) Name() string       { return e.name }
func (e *Entry) String() string     { return e.name + "@" + e.priority.String() }

// IsPhaseMarker reports whether l is a tier boundary rather than a registered listener.
func IsPhaseMarker(l Listener) bool {
	_, ok := l.(Priority)
	return ok
}
