package event_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/eventbus/core/event"
)

func entry(name string, p event.Priority) *event.Entry {
	return event.NewEntry(name, p, nil, func(event.Event) error { return nil })
}

func register(t *testing.T, l *event.ListenerList, busID int, e *event.Entry) {
	t.Helper()
	require.NoError(t, l.Register(busID, e.Priority(), e))
}

// names renders a dispatch array, phase markers in brackets.
func names(ls []event.Listener) []string {
	out := make([]string, 0, len(ls))
	for _, l := range ls {
		switch v := l.(type) {
		case event.Priority:
			out = append(out, "["+v.String()+"]")
		case *event.Entry:
			out = append(out, v.Name())
		}
	}
	return out
}

func TestListenerList_PriorityOrder(t *testing.T) {
	t.Parallel()

	dir := event.NewDirectory()
	typ := event.NewType("Order", nil)
	list := dir.Resolve(typ)

	register(t, list, 0, entry("normal-1", event.Normal))
	register(t, list, 0, entry("low", event.Low))
	register(t, list, 0, entry("highest", event.Highest))
	register(t, list, 0, entry("normal-2", event.Normal))
	register(t, list, 0, entry("high", event.High))

	assert.Equal(t, []string{
		"[HIGHEST]", "highest",
		"[HIGH]", "high",
		"[NORMAL]", "normal-1", "normal-2",
		"[LOW]", "low",
	}, names(list.Listeners(0)))
}

func TestListenerList_HierarchyMerge(t *testing.T) {
	t.Parallel()

	dir := event.NewDirectory()
	base := event.NewType("Base", nil)
	mid := event.NewType("Mid", base)
	leaf := event.NewType("Leaf", mid)

	register(t, dir.Resolve(leaf), 0, entry("leaf-high", event.High))
	register(t, dir.Resolve(base), 0, entry("base-normal", event.Normal))
	register(t, dir.Resolve(mid), 0, entry("mid-high", event.High))
	register(t, dir.Resolve(leaf), 0, entry("leaf-normal", event.Normal))
	register(t, dir.Resolve(base), 0, entry("base-lowest", event.Lowest))
	register(t, dir.Resolve(event.Root), 0, entry("root-high", event.High))

	assert.Equal(t, []string{
		"[HIGH]", "root-high", "mid-high", "leaf-high",
		"[NORMAL]", "base-normal", "leaf-normal",
		"[LOWEST]", "base-lowest",
	}, names(dir.Resolve(leaf).Listeners(0)))

	assert.Equal(t, []string{
		"[HIGH]", "root-high", "mid-high",
		"[NORMAL]", "base-normal",
		"[LOWEST]", "base-lowest",
	}, names(dir.Resolve(mid).Listeners(0)), "descendant listeners never leak upwards")
}

func TestListenerList_InvalidatesDescendantCache(t *testing.T) {
	t.Parallel()

	dir := event.NewDirectory()
	parent := event.NewType("Parent", nil)
	child := event.NewType("Child", parent)
	childList := dir.Resolve(child)

	register(t, childList, 0, entry("child", event.Normal))
	first := childList.Listeners(0)
	assert.Equal(t, []string{"[NORMAL]", "child"}, names(first))
	assert.Equal(t, names(first), names(childList.Listeners(0)), "cached view served unchanged")

	ancestor := entry("parent", event.Highest)
	register(t, dir.Resolve(parent), 0, ancestor)
	assert.Equal(t, []string{"[HIGHEST]", "parent", "[NORMAL]", "child"}, names(childList.Listeners(0)))

	dir.Resolve(parent).UnregisterAll(0, ancestor)
	assert.Equal(t, []string{"[NORMAL]", "child"}, names(childList.Listeners(0)))

	assert.Equal(t, []string{"[NORMAL]", "child"}, names(first), "earlier snapshot is never mutated")
}

func TestListenerList_PerBusIsolation(t *testing.T) {
	t.Parallel()

	dir := event.NewDirectory()
	list := dir.Resolve(event.NewType("Isolated", nil))

	shared := entry("shared", event.Normal)
	register(t, list, 0, shared)
	register(t, list, 1, shared)
	register(t, list, 1, entry("bus1-only", event.Normal))

	list.UnregisterAll(0, shared)

	assert.Empty(t, list.Listeners(0))
	assert.Equal(t, []string{"[NORMAL]", "shared", "bus1-only"}, names(list.Listeners(1)))
	assert.Empty(t, list.Listeners(7), "untouched bus identity has no listeners")
}

func TestListenerList_UnregisterAll(t *testing.T) {
	t.Parallel()

	dir := event.NewDirectory()
	list := dir.Resolve(event.NewType("Unregister", nil))

	dup := entry("dup", event.Normal)
	keep := entry("keep", event.Normal)
	register(t, list, 0, dup)
	register(t, list, 0, keep)
	require.NoError(t, list.Register(0, event.Low, dup))

	list.UnregisterAll(0, dup)
	assert.Equal(t, []string{"[NORMAL]", "keep"}, names(list.Listeners(0)))

	list.UnregisterAll(0, entry("never-registered", event.Normal))
	assert.Equal(t, []string{"[NORMAL]", "keep"}, names(list.Listeners(0)))
}

func TestListenerList_RegisterInvalidPriority(t *testing.T) {
	t.Parallel()

	list := event.NewDirectory().Resolve(event.NewType("Invalid", nil))
	err := list.Register(0, event.Priority(10), entry("bad", event.Normal))
	require.ErrorIs(t, err, event.ErrInvalidPriority)
	assert.Empty(t, list.Listeners(0))
}

func TestListenerList_GrowsForLateBusIdentity(t *testing.T) {
	t.Parallel()

	dir := event.NewDirectory()
	list := dir.Resolve(event.NewType("Grow", nil))
	assert.Equal(t, 0, list.Capacity())

	dir.EnsureCapacity(4)
	assert.Equal(t, 4, list.Capacity())

	register(t, list, 9, entry("late", event.Normal))
	assert.GreaterOrEqual(t, list.Capacity(), 10)
	assert.Equal(t, []string{"[NORMAL]", "late"}, names(list.Listeners(9)))
}

func TestListenerList_ConcurrentReadWrite(t *testing.T) {
	t.Parallel()

	dir := event.NewDirectory()
	parent := event.NewType("ConcurrentParent", nil)
	child := event.NewType("ConcurrentChild", parent)
	childList := dir.Resolve(child)

	stable := entry("stable", event.Normal)
	register(t, childList, 0, stable)

	var g errgroup.Group
	var mu sync.Mutex
	var missing int

	for w := 0; w < 4; w++ {
		g.Go(func() error {
			for i := 0; i < 200; i++ {
				e := entry("churn", event.High)
				if err := dir.Resolve(parent).Register(0, event.High, e); err != nil {
					return err
				}
				dir.Resolve(parent).UnregisterAll(0, e)
			}
			return nil
		})
	}
	for r := 0; r < 4; r++ {
		g.Go(func() error {
			for i := 0; i < 500; i++ {
				found := false
				for _, l := range childList.Listeners(0) {
					if l == event.Listener(stable) {
						found = true
					}
				}
				if !found {
					mu.Lock()
					missing++
					mu.Unlock()
				}
			}
			return nil
		})
	}

	require.NoError(t, g.Wait())
	assert.Zero(t, missing, "a live registration must never disappear from a snapshot")
	assert.Equal(t, []string{"[NORMAL]", "stable"}, names(childList.Listeners(0)))
}
