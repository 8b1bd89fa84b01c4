package fuse_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bjaus/fuse"
)

func TestRegistry_GetCreatesOnFirstUse(t *testing.T) {
	r := fuse.NewRegistry(fuse.WithMaxFailures(1))

	c := r.Get("backend-1")
	require.NotNil(t, c)
	require.Equal(t, "backend-1", c.Name())
	require.Equal(t, fuse.Closed, c.State())

	require.Same(t, c, r.Get("backend-1"), "same name must yield the same circuit")
	require.NotSame(t, c, r.Get("backend-2"))
}

func TestRegistry_CircuitsShareOptions(t *testing.T) {
	r := fuse.NewRegistry(fuse.WithMaxFailures(1))

	c := r.Get("backend-1")

	require.ErrorIs(t, c.Do(context.Background(), func(ctx context.Context) error {
		return errTest
	}), errTest)

	require.Equal(t, fuse.Open, c.State(), "registry options apply to created circuits")
}

func TestRegistry_GetIsSafeForConcurrentUse(t *testing.T) {
	r := fuse.NewRegistry()

	const goroutines = 50

	circuits := make([]*fuse.Circuit, goroutines)
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			circuits[i] = r.Get("shared")
		}()
	}
	wg.Wait()

	for i := 1; i < goroutines; i++ {
		require.Same(t, circuits[0], circuits[i])
	}
}

func TestRegistry_Stats(t *testing.T) {
	r := fuse.NewRegistry(fuse.WithMaxFailures(1))

	require.NoError(t, r.Get("healthy").Do(context.Background(), func(ctx context.Context) error {
		return nil
	}))
	r.Get("failing").Trip()

	stats := r.Stats()
	require.Len(t, stats, 2)
	require.Equal(t, fuse.Closed, stats["healthy"].State)
	require.Equal(t, uint64(1), stats["healthy"].TotalSuccesses)
	require.Equal(t, fuse.Open, stats["failing"].State)
}

func TestRegistry_ResetClosesAllCircuits(t *testing.T) {
	r := fuse.NewRegistry(fuse.WithMaxFailures(1))

	r.Get("a").Trip()
	r.Get("b").Trip()

	r.Reset()

	for name, stats := range r.Stats() {
		require.Equal(t, fuse.Closed, stats.State, "circuit %s", name)
	}
}
