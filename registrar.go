package eventbus

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/dmitrymomot/eventbus/core/event"
	"github.com/dmitrymomot/eventbus/core/logger"
)

// StaticRegistrar adds the listeners declared for a type, independent of any instance.
type StaticRegistrar func(a Adder) error

// InstanceRegistrar adds the listeners of one instance.
type InstanceRegistrar func(instance any, a Adder) error

// Registrars is the type → registrar table consulted by Bus.Register.
// It replaces runtime discovery: subscribers declare their wiring once at startup.
type Registrars struct {
	mu         sync.RWMutex
	static     map[reflect.Type]StaticRegistrar
	instance   map[reflect.Type]InstanceRegistrar
	interfaces []reflect.Type // interface keys of instance, in registration order
	ancestors  map[reflect.Type][]reflect.Type
	chains     map[reflect.Type][]reflect.Type
}

var (
	defaultRegistrars     *Registrars
	defaultRegistrarsOnce sync.Once
)

// NewRegistrars creates an empty registrar table.
func NewRegistrars() *Registrars {
	return &Registrars{
		static:    make(map[reflect.Type]StaticRegistrar),
		instance:  make(map[reflect.Type]InstanceRegistrar),
		ancestors: make(map[reflect.Type][]reflect.Type),
		chains:    make(map[reflect.Type][]reflect.Type),
	}
}

// DefaultRegistrars returns the process-wide table used by buses without WithRegistrars.
func DefaultRegistrars() *Registrars {
	defaultRegistrarsOnce.Do(func() {
		defaultRegistrars = NewRegistrars()
	})
	return defaultRegistrars
}

// RegisterStatic sets the registrar used when t itself is passed to Bus.Register.
func (r *Registrars) RegisterStatic(t reflect.Type, fn StaticRegistrar) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.static[t] = fn
}

// RegisterInstanceFor sets the registrar used for instances of t.
// t may be an interface type; it then applies to every registered instance implementing it.
func (r *Registrars) RegisterInstanceFor(t reflect.Type, fn InstanceRegistrar) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.instance[t]; !exists && t.Kind() == reflect.Interface {
		r.interfaces = append(r.interfaces, t)
	}
	r.instance[t] = fn
	clear(r.chains)
}

// RegisterInstance is the typed form of RegisterInstanceFor.
//
// Example:
//
//	eventbus.RegisterInstance(registrars, func(p *Plugin, a eventbus.Adder) error {
//	    _, err := eventbus.Subscribe(a, PlayerJoin, p.onJoin)
//	    return err
//	})
func RegisterInstance[T any](r *Registrars, fn func(T, Adder) error) {
	r.RegisterInstanceFor(reflect.TypeFor[T](), func(instance any, a Adder) error {
		typed, ok := instance.(T)
		if !ok {
			typed, ok = embedded[T](instance)
		}
		if !ok {
			return fmt.Errorf("%w: registrar for %s got %T", ErrEventTypeMismatch, reflect.TypeFor[T](), instance)
		}
		return fn(typed, a)
	})
}

// embedded finds a value of type T among the embedded fields of instance, breadth first.
// It lets a registrar declared for an embedded base type serve the embedding type.
func embedded[T any](instance any) (T, bool) {
	var zero T
	want := reflect.TypeFor[T]()

	queue := []reflect.Value{reflect.ValueOf(instance)}
	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]

		for v.Kind() == reflect.Pointer {
			if v.IsNil() {
				break
			}
			v = v.Elem()
		}
		if v.Kind() != reflect.Struct {
			continue
		}

		for i := 0; i < v.NumField(); i++ {
			f := v.Type().Field(i)
			if !f.Anonymous || !f.IsExported() {
				continue
			}
			fv := v.Field(i)
			if f.Type == want {
				return fv.Interface().(T), true
			}
			queue = append(queue, fv)
		}
	}
	return zero, false
}

// DeclareAncestors records the types whose instance registrars also apply to t, closest first.
func (r *Registrars) DeclareAncestors(t reflect.Type, ancestors ...reflect.Type) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ancestors[t] = append(r.ancestors[t], ancestors...)
	clear(r.chains)
}

// Static returns the static registrar for t, or nil.
func (r *Registrars) Static(t reflect.Type) StaticRegistrar {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.static[t]
}

// Instance returns the instance registrar for t, or nil.
func (r *Registrars) Instance(t reflect.Type) InstanceRegistrar {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.instance[t]
}

// Chain returns t followed by its declared ancestors (transitively, breadth first) and then
// every registered interface t implements. The result is computed once per type and cached
// until the table changes.
func (r *Registrars) Chain(t reflect.Type) []reflect.Type {
	r.mu.RLock()
	chain, ok := r.chains[t]
	r.mu.RUnlock()
	if ok {
		return chain
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if chain, ok := r.chains[t]; ok {
		return chain
	}

	seen := map[reflect.Type]bool{t: true}
	chain = []reflect.Type{t}
	for i := 0; i < len(chain); i++ {
		for _, a := range r.ancestors[chain[i]] {
			if !seen[a] {
				seen[a] = true
				chain = append(chain, a)
			}
		}
	}
	for _, iface := range r.interfaces {
		if !seen[iface] && t.Implements(iface) {
			seen[iface] = true
			chain = append(chain, iface)
		}
	}

	r.chains[t] = chain
	return chain
}

// scope is the Adder handed to registrars; it records listeners under the registration target.
type scope struct {
	bus   *Bus
	owner any
}

func (s *scope) AddListener(t *event.Type, fn func(event.Event) error, opts ...ListenerOption) (*Handle, error) {
	return s.bus.addListener(s.owner, t, fn, opts)
}

// Register adds the listeners of target using the bus registrar table.
//
// A reflect.Type target uses the static registrar for that type. Any other value uses the
// instance registrars along its chain: the value's own type must have one, ancestors and
// implemented interfaces are optional. Listeners are recorded under target, so
// Unregister(target) removes them. Registering the same target twice is a no-op.
//
// A missing registrar is logged and skipped. A registrar error rolls back everything
// added for target and is returned wrapped in ErrRegistrarFailed.
func (b *Bus) Register(target any) error {
	if target == nil {
		return ErrNilTarget
	}
	if !isComparable(target) {
		return fmt.Errorf("%w: %T", ErrUncomparableOwner, target)
	}

	if !b.claim(target) {
		return nil
	}

	var err error
	var found bool
	if t, ok := target.(reflect.Type); ok {
		found, err = b.registerStatic(t)
	} else {
		found, err = b.registerInstance(target)
	}

	if err != nil {
		b.Unregister(target)
		return err
	}
	if !found {
		b.release(target)
	}
	return nil
}

func (b *Bus) registerStatic(t reflect.Type) (bool, error) {
	reg := b.registrars.Static(t)
	if reg == nil {
		b.logger.Warn("missing static event registrar",
			logger.Component("eventbus"),
			logger.BusID(b.id),
			logger.Target(t.String()))
		return false, nil
	}

	if err := reg(&scope{bus: b, owner: t}); err != nil {
		return true, fmt.Errorf("%w: %s: %w", ErrRegistrarFailed, t, err)
	}
	return true, nil
}

func (b *Bus) registerInstance(target any) (bool, error) {
	chain := b.registrars.Chain(reflect.TypeOf(target))
	s := &scope{bus: b, owner: target}

	for i, t := range chain {
		reg := b.registrars.Instance(t)
		if reg == nil {
			if i == 0 {
				b.logger.Warn("missing instance event registrar",
					logger.Component("eventbus"),
					logger.BusID(b.id),
					logger.Target(t.String()))
				return false, nil
			}
			continue
		}

		if err := reg(target, s); err != nil {
			return true, fmt.Errorf("%w: %s: %w", ErrRegistrarFailed, t, err)
		}
	}
	return true, nil
}

// claim records target as registered. It returns false when target already was.
func (b *Bus) claim(target any) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.owners[target]; ok {
		return false
	}
	b.owners[target] = &ownerEntries{}
	return true
}

func (b *Bus) release(target any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.owners, target)
}
