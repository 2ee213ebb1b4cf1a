package event_test

import (
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/eventbus/core/event"
)

var (
	testPlayerEvent = event.NewType("PlayerEvent", nil)
	testPlayerJoin  = event.NewType("PlayerJoin", testPlayerEvent)
)

type PlayerJoin struct {
	*event.Base
	Name string
}

func TestNewBase(t *testing.T) {
	t.Parallel()

	before := time.Now()
	evt := &PlayerJoin{Base: event.NewBase(testPlayerJoin), Name: "steve"}

	_, err := uuid.Parse(evt.ID())
	require.NoError(t, err, "ID should be a UUID")
	assert.Same(t, testPlayerJoin, evt.Type())
	assert.False(t, evt.CreatedAt().Before(before))
	assert.False(t, evt.Cancelable())
	assert.False(t, evt.Canceled())
	assert.Nil(t, evt.GenericType())

	other := event.NewBase(testPlayerJoin)
	assert.NotEqual(t, evt.ID(), other.ID())
}

func TestNewBase_NilTypeIsRoot(t *testing.T) {
	t.Parallel()

	b := event.NewBase(nil)
	assert.Same(t, event.Root, b.Type())
	assert.Equal(t, "Event", b.Type().Name())

	g := event.NewGenericBase(nil, reflect.TypeFor[int]())
	assert.Same(t, event.Root, g.Type())
}

func TestBase_SetCanceled(t *testing.T) {
	t.Parallel()

	t.Run("cancelable event", func(t *testing.T) {
		t.Parallel()

		b := event.NewBase(testPlayerJoin, event.Cancelable())
		require.NoError(t, b.SetCanceled(true))
		assert.True(t, b.Canceled())

		require.NoError(t, b.SetCanceled(false))
		assert.False(t, b.Canceled())
	})

	t.Run("non-cancelable event", func(t *testing.T) {
		t.Parallel()

		b := event.NewBase(testPlayerJoin)
		err := b.SetCanceled(true)
		require.ErrorIs(t, err, event.ErrNotCancelable)
		assert.False(t, b.Canceled())
	})
}

func TestBase_SetPhase(t *testing.T) {
	t.Parallel()

	b := event.NewBase(testPlayerJoin)
	_, ok := b.Phase()
	assert.False(t, ok, "no phase before dispatch")

	require.NoError(t, b.SetPhase(event.High))
	p, ok := b.Phase()
	require.True(t, ok)
	assert.Equal(t, event.High, p)

	require.NoError(t, b.SetPhase(event.Low))

	assert.ErrorIs(t, b.SetPhase(event.Low), event.ErrPhaseOrder, "same phase twice")
	assert.ErrorIs(t, b.SetPhase(event.Normal), event.ErrPhaseOrder, "phase moving backwards")
	assert.ErrorIs(t, b.SetPhase(event.Priority(42)), event.ErrInvalidPriority)

	p, _ = b.Phase()
	assert.Equal(t, event.Low, p)
}

func TestNewGenericBase(t *testing.T) {
	t.Parallel()

	type Block struct{}
	b := event.NewGenericBase(testPlayerEvent, reflect.TypeFor[Block](), event.Cancelable())

	var evt event.GenericEvent = b
	assert.Equal(t, reflect.TypeFor[Block](), evt.GenericType())
	assert.True(t, evt.Cancelable())
}

func TestType_Hierarchy(t *testing.T) {
	t.Parallel()

	grandchild := event.NewType("PlayerJoinFirstTime", testPlayerJoin)

	assert.Same(t, event.Root, testPlayerEvent.Parent())
	assert.Nil(t, event.Root.Parent())
	assert.Equal(t, []*event.Type{testPlayerJoin, testPlayerEvent, event.Root}, grandchild.Ancestors())
	assert.Empty(t, event.Root.Ancestors())

	assert.True(t, grandchild.IsA(testPlayerEvent))
	assert.True(t, grandchild.IsA(event.Root))
	assert.True(t, grandchild.IsA(grandchild))
	assert.False(t, testPlayerEvent.IsA(grandchild))

	assert.NotEqual(t, testPlayerEvent.ID(), testPlayerJoin.ID())
	assert.Equal(t, "PlayerJoinFirstTime", grandchild.String())
}
