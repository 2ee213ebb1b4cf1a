// Package event provides the event model and the listener-list cache behind the event bus.
//
// # Core Components
//
// Type declares an event type and its parent. Types form a tree rooted at Root, and a
// listener registered for a type also receives events of every descendant type.
//
// Event is the dispatched payload. Concrete events embed *Base, which carries a UUID,
// the creation time, the cancelable and canceled flags, and the dispatch phase.
//
// Priority is the dispatch tier (Highest, High, Normal, Low, Lowest). A Priority value
// is also a Listener: placed in a dispatch array it acts as a phase marker that advances
// the event's phase when the tier begins.
//
// ListenerList stores listeners per bus identity for one event type and serves the merged,
// priority-ordered array including ancestor listeners. Merged arrays are cached and
// invalidated when a registration changes anywhere up the ancestor chain.
//
// Directory maps each Type to its canonical ListenerList, created lazily on first lookup.
//
// # Basic Usage
//
//	var (
//		PlayerEvent = event.NewType("PlayerEvent", nil)
//		PlayerJoin  = event.NewType("PlayerJoin", PlayerEvent)
//	)
//
//	busID := event.NextBusID()
//	event.Default().EnsureCapacity(busID + 1)
//
//	list := event.Default().Resolve(PlayerJoin)
//	entry := event.NewEntry("greet", event.Normal, nil, func(evt event.Event) error {
//		return nil
//	})
//	_ = list.Register(busID, event.Normal, entry)
//
//	for _, l := range list.Listeners(busID) {
//		_ = l.Invoke(evt)
//	}
//
// Most code does not use ListenerList directly; the eventbus package wraps it.
//
// # Concurrency
//
// Directory lookups take a read lock on the hot path; first-time computation runs outside
// any lock and is published under the write lock, so concurrent first lookups produce one
// canonical list. ListenerList writers never modify an array already returned by Listeners,
// so a dispatch in progress always iterates a consistent snapshot.
package event
