package cascade

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrUnknownForm is returned for tokens that were never issued, were closed,
// expired, or belong to another owner.
var ErrUnknownForm = errors.New("cascade: unknown form")

type entry struct {
	owner    string
	form     *Form
	timer    *time.Timer
	deadline time.Time
}

// Registry keeps live forms addressable by token between requests. A form is
// closed when it is released or when it sees no use for the registry TTL.
type Registry struct {
	mu     sync.Mutex
	ttl    time.Duration
	forms  map[string]*entry
	closed bool
}

// NewRegistry returns a registry whose forms expire after ttl of inactivity.
func NewRegistry(ttl time.Duration) *Registry {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Registry{ttl: ttl, forms: make(map[string]*entry)}
}

// Open registers form for owner, mounts it and returns its token.
func (r *Registry) Open(owner string, form *Form) (string, error) {
	if err := form.Mount(); err != nil {
		return "", err
	}
	token := uuid.NewString()
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		form.Close()
		return "", ErrClosed
	}
	e := &entry{owner: owner, form: form, deadline: time.Now().Add(r.ttl)}
	e.timer = time.AfterFunc(r.ttl, func() { r.expire(token, e) })
	r.forms[token] = e
	return token, nil
}

// Get returns the form of token and extends its lifetime.
func (r *Registry) Get(owner, token string) (*Form, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.forms[token]
	if !ok || e.owner != owner {
		return nil, ErrUnknownForm
	}
	e.deadline = time.Now().Add(r.ttl)
	e.timer.Reset(r.ttl)
	return e.form, nil
}

// Release closes and forgets the form of token. It reports whether the token
// was live.
func (r *Registry) Release(owner, token string) bool {
	r.mu.Lock()
	e, ok := r.forms[token]
	if !ok || e.owner != owner {
		r.mu.Unlock()
		return false
	}
	delete(r.forms, token)
	r.mu.Unlock()
	e.timer.Stop()
	e.form.Close()
	return true
}

// Len returns the number of live forms.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.forms)
}

// Close unmounts every form. Open fails afterwards.
func (r *Registry) Close() {
	r.mu.Lock()
	forms := r.forms
	r.forms = make(map[string]*entry)
	r.closed = true
	r.mu.Unlock()
	for _, e := range forms {
		e.timer.Stop()
		e.form.Close()
	}
}

func (r *Registry) expire(token string, e *entry) {
	r.mu.Lock()
	if r.forms[token] != e || time.Now().Before(e.deadline) {
		r.mu.Unlock()
		return
	}
	delete(r.forms, token)
	r.mu.Unlock()
	e.form.Close()
}
