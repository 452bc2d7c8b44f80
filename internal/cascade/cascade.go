// Package cascade coordinates chains of dependent selection fields where the
// option set of every field is fetched from the value of the field before it.
package cascade

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

var (
	// ErrUnknownField is returned when a key is not part of the form.
	ErrUnknownField = errors.New("cascade: unknown field")
	// ErrParentUnset is returned when a dependent field is given a value while its parent is empty.
	ErrParentUnset = errors.New("cascade: parent field has no value")
	// ErrClosed is returned once the form has been unmounted.
	ErrClosed = errors.New("cascade: form closed")
	// ErrDuplicateKey is returned by NewForm when two fields share a key.
	ErrDuplicateKey = errors.New("cascade: duplicate field key")
)

// Option is a single selectable entry.
type Option struct {
	ID    int64  `json:"id"`
	Label string `json:"label"`
}

// Fetcher loads the options of a field. Root fields receive a nil parent.
type Fetcher func(ctx context.Context, parent *int64) ([]Option, error)

// FieldSpec declares one field of a chain.
type FieldSpec struct {
	Key   string
	Label string
	Fetch Fetcher
}

// Chain is an ordered list of fields; every field after the first depends on
// the one immediately before it.
type Chain []FieldSpec

// Field is a point-in-time view of a field.
type Field struct {
	Key       string   `json:"key"`
	Label     string   `json:"label"`
	Value     *int64   `json:"value"`
	Options   []Option `json:"options"`
	DependsOn string   `json:"dependsOn,omitempty"`
	Loading   bool     `json:"loading"`
}

// ErrorReporter receives fetch failures after they were discarded locally.
type ErrorReporter func(field Field, err error)

// Config carries optional collaborators of a Form.
type Config struct {
	Logger  *slog.Logger
	OnError ErrorReporter
}

type field struct {
	spec    FieldSpec
	chain   []*field
	index   int
	value   *int64
	options []Option
	loading bool
	gen     uint64
	cancel  context.CancelFunc
}

func (f *field) parent() *field {
	if f.index == 0 {
		return nil
	}
	return f.chain[f.index-1]
}

func (f *field) snapshot() Field {
	out := Field{
		Key:     f.spec.Key,
		Label:   f.spec.Label,
		Value:   cloneValue(f.value),
		Options: cloneOptions(f.options),
		Loading: f.loading,
	}
	if p := f.parent(); p != nil {
		out.DependsOn = p.spec.Key
	}
	return out
}

// invalidate drops value, options and any in-flight fetch of the field.
func (f *field) invalidate() {
	f.gen++
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
	f.value = nil
	f.options = nil
	f.loading = false
}

// Form owns every chain of one host form. A Form is safe for concurrent use.
type Form struct {
	mu        sync.Mutex
	chains    [][]*field
	byKey     map[string]*field
	ctx       context.Context
	cancel    context.CancelFunc
	closed    bool
	mounted   bool
	pending   int
	idle      chan struct{}
	listeners map[int]func(Field)
	nextID    int
	logger    *slog.Logger
	onError   ErrorReporter
}

// NewForm builds a form from independent chains. Nothing is fetched until Mount.
func NewForm(cfg Config, chains ...Chain) (*Form, error) {
	ctx, cancel := context.WithCancel(context.Background())
	f := &Form{
		byKey:     make(map[string]*field),
		ctx:       ctx,
		cancel:    cancel,
		idle:      closedChan(),
		listeners: make(map[int]func(Field)),
		logger:    cfg.Logger,
		onError:   cfg.OnError,
	}
	if f.logger == nil {
		f.logger = slog.Default()
	}
	for _, specs := range chains {
		if len(specs) == 0 {
			continue
		}
		fields := make([]*field, len(specs))
		for i, spec := range specs {
			if spec.Key == "" || spec.Fetch == nil {
				cancel()
				return nil, fmt.Errorf("cascade: field %d needs a key and a fetcher", i)
			}
			if _, exists := f.byKey[spec.Key]; exists {
				cancel()
				return nil, fmt.Errorf("%w: %s", ErrDuplicateKey, spec.Key)
			}
			fields[i] = &field{spec: spec, index: i}
			f.byKey[spec.Key] = fields[i]
		}
		for _, fld := range fields {
			fld.chain = fields
		}
		f.chains = append(f.chains, fields)
	}
	return f, nil
}

// Mount fetches the options of every root field. Calling it twice is a no-op.
func (f *Form) Mount() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return ErrClosed
	}
	if f.mounted {
		return nil
	}
	f.mounted = true
	for _, chain := range f.chains {
		f.startFetch(chain[0], nil)
	}
	return nil
}

// SetFieldValue selects value on the named field, clearing every field
// downstream of it before the next field is refetched. A nil value clears the
// downstream chain without fetching.
func (f *Form) SetFieldValue(key string, value *int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return ErrClosed
	}
	fld, ok := f.byKey[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownField, key)
	}
	if sameValue(fld.value, value) {
		return nil
	}
	if p := fld.parent(); p != nil && p.value == nil && value != nil {
		return fmt.Errorf("%w: %s depends on %s", ErrParentUnset, key, p.spec.Key)
	}
	fld.value = cloneValue(value)
	f.emit(fld)

	downstream := fld.chain[fld.index+1:]
	for _, d := range downstream {
		d.invalidate()
		f.emit(d)
	}
	if value != nil && len(downstream) > 0 {
		f.startFetch(downstream[0], fld.value)
	}
	return nil
}

// Value returns the selected value of a field.
func (f *Form) Value(key string) (*int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fld, ok := f.byKey[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownField, key)
	}
	return cloneValue(fld.value), nil
}

// VisibleOptions returns the current options of a field, empty while its
// parent has no value.
func (f *Form) VisibleOptions(key string) ([]Option, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fld, ok := f.byKey[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownField, key)
	}
	if p := fld.parent(); p != nil && p.value == nil {
		return []Option{}, nil
	}
	return cloneOptions(fld.options), nil
}

// Reset clears every field and refetches only the root fields.
func (f *Form) Reset() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return ErrClosed
	}
	for _, chain := range f.chains {
		for _, fld := range chain {
			fld.invalidate()
			f.emit(fld)
		}
	}
	f.mounted = true
	for _, chain := range f.chains {
		f.startFetch(chain[0], nil)
	}
	return nil
}

// Snapshot returns every field, chain by chain, in declaration order.
func (f *Form) Snapshot() []Field {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Field, 0, len(f.byKey))
	for _, chain := range f.chains {
		for _, fld := range chain {
			out = append(out, fld.snapshot())
		}
	}
	return out
}

// Subscribe registers fn for every field change. fn runs with the form lock
// held and must not call back into the Form.
func (f *Form) Subscribe(fn func(Field)) (unsubscribe func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return func() {}
	}
	id := f.nextID
	f.nextID++
	f.listeners[id] = fn
	return func() {
		f.mu.Lock()
		delete(f.listeners, id)
		f.mu.Unlock()
	}
}

// Settle blocks until no fetch is in flight or ctx is done.
func (f *Form) Settle(ctx context.Context) error {
	f.mu.Lock()
	idle := f.idle
	f.mu.Unlock()
	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close unmounts the form: in-flight fetches are cancelled and their results
// are discarded. No listener or error reporter runs after Close returns.
func (f *Form) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.closed = true
	f.cancel()
	for _, chain := range f.chains {
		for _, fld := range chain {
			fld.gen++
			fld.cancel = nil
			fld.loading = false
		}
	}
	f.listeners = nil
}

// Closed reports whether the form was unmounted.
func (f *Form) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// startFetch must be called with f.mu held.
func (f *Form) startFetch(target *field, parent *int64) {
	if target.cancel != nil {
		target.cancel()
	}
	target.gen++
	gen := target.gen
	ctx, cancel := context.WithCancel(f.ctx)
	target.cancel = cancel
	target.loading = true
	f.emit(target)

	f.pending++
	if f.pending == 1 {
		f.idle = make(chan struct{})
	}

	parentArg := cloneValue(parent)
	fetch := target.spec.Fetch
	go func() {
		defer cancel()
		options, err := fetch(ctx, parentArg)
		f.apply(target, gen, options, err)
	}()
}

func (f *Form) apply(target *field, gen uint64, options []Option, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	defer f.done()

	if f.closed || target.gen != gen {
		f.logger.Debug("discard stale options", slog.String("field", target.spec.Key), slog.Uint64("generation", gen))
		return
	}
	target.cancel = nil
	target.loading = false
	if err != nil {
		target.options = nil
		f.logger.Warn("fetch options failed", slog.String("field", target.spec.Key), slog.Any("error", err))
		f.emit(target)
		if f.onError != nil {
			f.onError(target.snapshot(), err)
		}
		return
	}
	target.options = cloneOptions(options)
	f.emit(target)
}

// done must be called with f.mu held.
func (f *Form) done() {
	f.pending--
	if f.pending == 0 {
		close(f.idle)
	}
}

// emit must be called with f.mu held.
func (f *Form) emit(fld *field) {
	if f.closed || len(f.listeners) == 0 {
		return
	}
	snap := fld.snapshot()
	for _, fn := range f.listeners {
		fn(snap)
	}
}

func sameValue(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func cloneValue(v *int64) *int64 {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}

func cloneOptions(in []Option) []Option {
	out := make([]Option, len(in))
	copy(out, in)
	return out
}

func closedChan() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

// Int returns a pointer to v for use as a field value.
func Int(v int64) *int64 {
	return &v
}
