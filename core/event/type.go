package event

import "sync/atomic"

var typeSeq atomic.Uint64

// Type identifies an event type and its place in the event hierarchy.
// Listeners registered for a type also receive events of every descendant type.
//
// Types are declared once, usually as package-level variables:
//
//	var (
//	    PlayerEvent = event.NewType("PlayerEvent", nil)
//	    PlayerJoin  = event.NewType("PlayerJoin", PlayerEvent)
//	)
type Type struct {
	id     uint64
	name   string
	parent *Type
}

// Root is the base of every event hierarchy. Its listener list has no parent.
var Root = &Type{id: typeSeq.Add(1), name: "Event"}

// NewType declares an event type. A nil parent attaches the type directly to Root.
func NewType(name string, parent *Type) *Type {
	if parent == nil {
		parent = Root
	}
	return &Type{
		id:     typeSeq.Add(1),
		name:   name,
		parent: parent,
	}
}

// ID returns the process-unique numeric identity of the type.
func (t *Type) ID() uint64 { return t.id }

// Name returns the declared name.
func (t *Type) Name() string { return t.name }

// Parent returns the direct ancestor, or nil for Root.
func (t *Type) Parent() *Type { return t.parent }

func (t *Type) String() string { return t.name }

// Ancestors returns the parent chain, closest first, ending with Root.
func (t *Type) Ancestors() []*Type {
	var chain []*Type
	for p := t.parent; p != nil; p = p.parent {
		chain = append(chain, p)
	}
	return chain
}

// IsA reports whether t is other or one of its descendants.
func (t *Type) IsA(other *Type) bool {
	for c := t; c != nil; c = c.parent {
		if c == other {
			return true
		}
	}
	return false
}
