package eventbus_test

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/eventbus"
	"github.com/dmitrymomot/eventbus/core/event"
)

func TestBus_ConcurrentPostAndRegister(t *testing.T) {
	t.Parallel()

	bus := newBus(eventbus.WithTrackPhases(false))
	var stable atomic.Int64
	add(t, bus, PlayerEvent, func(event.Event) error {
		stable.Add(1)
		return nil
	}, eventbus.WithPriority(event.Highest))

	const posters, posts, churners = 8, 200, 4

	g, ctx := errgroup.WithContext(context.Background())
	for range posters {
		g.Go(func() error {
			for range posts {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				if _, err := bus.Post(newJoin("steve")); err != nil {
					return err
				}
			}
			return nil
		})
	}
	for range churners {
		g.Go(func() error {
			for range posts {
				h, err := bus.AddListener(PlayerJoin, func(event.Event) error { return nil }, eventbus.WithPriority(event.Low))
				if err != nil {
					return err
				}
				bus.Unregister(h)
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, int64(posters*posts), stable.Load(), "the stable listener sees every post")
}

func TestBus_ConcurrentBusesShareTypes(t *testing.T) {
	t.Parallel()

	const buses = 16

	counts := make([]atomic.Int64, buses)
	var g errgroup.Group
	for i := range buses {
		g.Go(func() error {
			bus := newBus()
			if _, err := bus.AddListener(PlayerJoin, func(event.Event) error {
				counts[i].Add(1)
				return nil
			}); err != nil {
				return err
			}
			for range 50 {
				if _, err := bus.Post(newJoin("steve")); err != nil {
					return err
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	for i := range counts {
		assert.Equal(t, int64(50), counts[i].Load(), "bus %d only sees its own posts", i)
	}
}
