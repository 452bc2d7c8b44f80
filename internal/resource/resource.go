// Package resource tracks the lifecycle of remotely loaded data.
package resource

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Status is the lifecycle position of a resource.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// State is a snapshot of a resource.
type State[T any] struct {
	Status   Status
	Data     T
	Err      error
	LoadedAt time.Time
}

// Loaded reports whether data is usable.
func (s State[T]) Loaded() bool { return s.Status == StatusSuccess }

// Failed reports whether the last load failed.
func (s State[T]) Failed() bool { return s.Status == StatusError }

// Loader fetches the value of a resource.
type Loader[T any] func(ctx context.Context) (T, error)

// DefaultTimeout bounds one shared fetch.
const DefaultTimeout = 30 * time.Second

// Resource loads a value once and shares concurrent loads.
type Resource[T any] struct {
	load    Loader[T]
	group   singleflight.Group
	mu      sync.RWMutex
	state   State[T]
	now     func() time.Time
	timeout time.Duration
}

// Option configures a Resource.
type Option func(*settings)

type settings struct {
	timeout time.Duration
}

// WithTimeout bounds each shared fetch. Non-positive values keep the default.
func WithTimeout(d time.Duration) Option {
	return func(s *settings) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// New wraps a loader. The resource starts idle.
func New[T any](load Loader[T], opts ...Option) *Resource[T] {
	cfg := settings{timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Resource[T]{load: load, state: State[T]{Status: StatusIdle}, now: time.Now, timeout: cfg.timeout}
}

// State returns the current snapshot.
func (r *Resource[T]) State() State[T] {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

// Load returns the cached value after a successful load, otherwise it fetches.
func (r *Resource[T]) Load(ctx context.Context) State[T] {
	if st := r.State(); st.Status == StatusSuccess {
		return st
	}
	return r.Reload(ctx)
}

// Reload always fetches. Concurrent callers share one fetch, which outlives
// any single caller: a caller whose ctx ends gets ctx.Err() while the others
// still receive the result. A failed reload keeps no stale data.
func (r *Resource[T]) Reload(ctx context.Context) State[T] {
	shared := context.WithoutCancel(ctx)
	ch := r.group.DoChan("load", func() (any, error) {
		r.mu.Lock()
		r.state.Status = StatusLoading
		r.mu.Unlock()

		loadCtx, cancel := context.WithTimeout(shared, r.timeout)
		defer cancel()
		value, err := r.load(loadCtx)

		r.mu.Lock()
		defer r.mu.Unlock()
		if err != nil {
			var zero T
			r.state = State[T]{Status: StatusError, Data: zero, Err: err}
			return r.state, nil
		}
		r.state = State[T]{Status: StatusSuccess, Data: value, LoadedAt: r.now()}
		return r.state, nil
	})
	select {
	case res := <-ch:
		return res.Val.(State[T])
	case <-ctx.Done():
		var zero T
		return State[T]{Status: StatusError, Data: zero, Err: ctx.Err()}
	}
}

// Reset returns the resource to idle.
func (r *Resource[T]) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = State[T]{Status: StatusIdle}
}

// Task is one named section of a page.
type Task struct {
	Name string
	Run  func(ctx context.Context) error
}

// Section reports the outcome of one Task.
type Section struct {
	Name string
	Err  error
}

// Results maps section names to their outcome.
type Results map[string]Section

// Err returns the error of a named section.
func (r Results) Err(name string) error {
	return r[name].Err
}

// Failed lists the sections that returned an error.
func (r Results) Failed() []string {
	var out []string
	for name, s := range r {
		if s.Err != nil {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// Joined combines every section error.
func (r Results) Joined() error {
	var errs []error
	for _, s := range r {
		if s.Err != nil {
			errs = append(errs, s.Err)
		}
	}
	return errors.Join(errs...)
}

// LoadAll runs every task concurrently. A failing task does not cancel its
// siblings; each outcome is reported separately.
func LoadAll(ctx context.Context, tasks ...Task) Results {
	var (
		mu  sync.Mutex
		out = make(Results, len(tasks))
	)
	var g errgroup.Group
	for _, task := range tasks {
		g.Go(func() error {
			err := task.Run(ctx)
			mu.Lock()
			out[task.Name] = Section{Name: task.Name, Err: err}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// Group collects the tasks of one page before running them with LoadAll.
type Group struct {
	tasks []Task
}

// Add registers a named section.
func (g *Group) Add(name string, run func(ctx context.Context) error) {
	g.tasks = append(g.tasks, Task{Name: name, Run: run})
}

// Wait runs every registered section and reports each outcome.
func (g *Group) Wait(ctx context.Context) Results {
	return LoadAll(ctx, g.tasks...)
}
