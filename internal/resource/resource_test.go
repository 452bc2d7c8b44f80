package resource

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadCachesSuccess(t *testing.T) {
	var calls atomic.Int32
	r := New(func(ctx context.Context) ([]string, error) {
		calls.Add(1)
		return []string{"a", "b"}, nil
	})
	require.Equal(t, StatusIdle, r.State().Status)

	st := r.Load(context.Background())
	require.True(t, st.Loaded())
	require.Equal(t, []string{"a", "b"}, st.Data)
	require.False(t, st.LoadedAt.IsZero())

	r.Load(context.Background())
	require.EqualValues(t, 1, calls.Load())

	r.Reload(context.Background())
	require.EqualValues(t, 2, calls.Load())
}

func TestFailedReloadDropsData(t *testing.T) {
	fail := false
	r := New(func(ctx context.Context) (int, error) {
		if fail {
			return 0, errors.New("boom")
		}
		return 42, nil
	})
	require.Equal(t, 42, r.Load(context.Background()).Data)

	fail = true
	st := r.Reload(context.Background())
	require.True(t, st.Failed())
	require.Zero(t, st.Data)
	require.EqualError(t, st.Err, "boom")

	fail = false
	st = r.Load(context.Background())
	require.True(t, st.Loaded())
	require.Equal(t, 42, st.Data)
}

func TestConcurrentReloadsShareOneFetch(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	r := New(func(ctx context.Context) (string, error) {
		calls.Add(1)
		<-release
		return "ok", nil
	})

	var wg sync.WaitGroup
	results := make([]State[string], 5)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = r.Reload(context.Background())
		}()
	}
	require.Eventually(t, func() bool { return r.State().Status == StatusLoading }, time.Second, time.Millisecond)
	time.Sleep(10 * time.Millisecond)
	close(release)
	wg.Wait()

	require.EqualValues(t, 1, calls.Load())
	for _, st := range results {
		require.Equal(t, "ok", st.Data)
	}
}

func TestReloadHonoursCallerContext(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	r := New(func(ctx context.Context) (int, error) {
		<-release
		return 1, nil
	})
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	st := r.Reload(ctx)
	require.ErrorIs(t, st.Err, context.DeadlineExceeded)
}

func TestCancelledCallerDoesNotFailSharedFetch(t *testing.T) {
	release := make(chan struct{})
	r := New(func(ctx context.Context) (string, error) {
		select {
		case <-release:
			return "ok", nil
		case <-ctx.Done():
			return "", ctx.Err()
		}
	})

	first, cancel := context.WithCancel(context.Background())
	firstDone := make(chan State[string], 1)
	go func() { firstDone <- r.Reload(first) }()
	require.Eventually(t, func() bool { return r.State().Status == StatusLoading }, time.Second, time.Millisecond)

	secondDone := make(chan State[string], 1)
	go func() { secondDone <- r.Reload(context.Background()) }()
	time.Sleep(5 * time.Millisecond)

	cancel()
	require.ErrorIs(t, (<-firstDone).Err, context.Canceled)
	close(release)

	st := <-secondDone
	require.True(t, st.Loaded(), "%v", st.Err)
	require.Equal(t, "ok", st.Data)
	require.Equal(t, StatusSuccess, r.State().Status)
}

func TestSharedFetchIsBounded(t *testing.T) {
	r := New(func(ctx context.Context) (int, error) {
		<-ctx.Done()
		return 0, ctx.Err()
	}, WithTimeout(10*time.Millisecond))

	st := r.Reload(context.Background())
	require.True(t, st.Failed())
	require.ErrorIs(t, st.Err, context.DeadlineExceeded)
	require.Equal(t, StatusError, r.State().Status)
}

func TestLoadAllIsolatesFailures(t *testing.T) {
	out := LoadAll(context.Background(),
		Task{Name: "categories", Run: func(ctx context.Context) error { return nil }},
		Task{Name: "brands", Run: func(ctx context.Context) error { return errors.New("down") }},
		Task{Name: "units", Run: func(ctx context.Context) error {
			time.Sleep(5 * time.Millisecond)
			return ctx.Err()
		}},
	)
	require.Len(t, out, 3)
	require.NoError(t, out.Err("categories"))
	require.NoError(t, out.Err("units"))
	require.EqualError(t, out.Err("brands"), "down")
	require.Equal(t, []string{"brands"}, out.Failed())
	require.EqualError(t, out.Joined(), "down")
}

func TestGroupRunsRegisteredSections(t *testing.T) {
	var g Group
	var hits atomic.Int32
	g.Add("left", func(ctx context.Context) error { hits.Add(1); return nil })
	g.Add("right", func(ctx context.Context) error { hits.Add(1); return errors.New("nope") })
	out := g.Wait(context.Background())
	require.EqualValues(t, 2, hits.Load())
	require.Equal(t, []string{"right"}, out.Failed())
}
