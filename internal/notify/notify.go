// Package notify keeps transient user notifications (toasts) per audience.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Kind classifies a notification.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindWarning Kind = "warning"
	KindInfo    Kind = "info"
)

const (
	// DefaultDuration applies to every kind except errors.
	DefaultDuration = 5 * time.Second
	// ErrorDuration keeps error notifications on screen longer.
	ErrorDuration = 10 * time.Second
)

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	switch k {
	case KindSuccess, KindError, KindWarning, KindInfo:
		return true
	}
	return false
}

// DurationFor returns the auto-dismiss delay used when none is given.
func DurationFor(kind Kind) time.Duration {
	if kind == KindError {
		return ErrorDuration
	}
	return DefaultDuration
}

// Notification is a queued toast.
type Notification struct {
	ID         string        `json:"id"`
	Kind       Kind          `json:"kind"`
	Message    string        `json:"message"`
	Duration   time.Duration `json:"-"`
	DurationMS int64         `json:"durationMs"`
	CreatedAt  time.Time     `json:"createdAt"`
	ExpiresAt  time.Time     `json:"expiresAt"`
}

// Center is the process-wide notification service. Each audience (a browser
// session) gets its own ordered inbox.
type Center struct {
	mu      sync.Mutex
	inboxes map[string]*inbox
	closed  bool
	now     func() time.Time
}

type inbox struct {
	items  []Notification
	timers map[string]*time.Timer
}

// Option customises a Center.
type Option func(*Center)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(c *Center) {
		if now != nil {
			c.now = now
		}
	}
}

// NewCenter constructs a Center.
func NewCenter(opts ...Option) *Center {
	c := &Center{inboxes: make(map[string]*inbox), now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Inbox returns the handle for one audience.
func (c *Center) Inbox(audience string) *Inbox {
	return &Inbox{center: c, audience: audience}
}

// Close stops every pending timer and drops all notifications. Pushes after
// Close are ignored.
func (c *Center) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	for _, box := range c.inboxes {
		for _, timer := range box.timers {
			timer.Stop()
		}
	}
	c.inboxes = make(map[string]*inbox)
}

// Audiences returns the number of inboxes holding notifications.
func (c *Center) Audiences() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.inboxes)
}

func (c *Center) push(audience, message string, kind Kind, duration time.Duration) Notification {
	if !kind.Valid() {
		kind = KindInfo
	}
	if duration <= 0 {
		duration = DurationFor(kind)
	}
	now := c.now()
	n := Notification{
		ID:         uuid.NewString(),
		Kind:       kind,
		Message:    message,
		Duration:   duration,
		DurationMS: duration.Milliseconds(),
		CreatedAt:  now,
		ExpiresAt:  now.Add(duration),
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return n
	}
	box, ok := c.inboxes[audience]
	if !ok {
		box = &inbox{timers: make(map[string]*time.Timer)}
		c.inboxes[audience] = box
	}
	box.items = append(box.items, n)
	id := n.ID
	box.timers[id] = time.AfterFunc(duration, func() {
		c.dismiss(audience, id)
	})
	return n
}

func (c *Center) dismiss(audience, id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	box, ok := c.inboxes[audience]
	if !ok {
		return false
	}
	found := false
	for i, n := range box.items {
		if n.ID == id {
			box.items = append(box.items[:i], box.items[i+1:]...)
			found = true
			break
		}
	}
	if timer, ok := box.timers[id]; ok {
		timer.Stop()
		delete(box.timers, id)
	}
	if len(box.items) == 0 {
		delete(c.inboxes, audience)
	}
	return found
}

func (c *Center) pending(audience string) []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	box, ok := c.inboxes[audience]
	if !ok {
		return nil
	}
	now := c.now()
	out := make([]Notification, 0, len(box.items))
	for _, n := range box.items {
		if now.Before(n.ExpiresAt) {
			out = append(out, n)
		}
	}
	return out
}

// Inbox is a view on one audience of a Center. The zero value drops every push.
type Inbox struct {
	center   *Center
	audience string
}

// Push enqueues a notification. A non-positive duration selects the default
// for the kind.
func (i *Inbox) Push(message string, kind Kind, duration time.Duration) Notification {
	if i == nil || i.center == nil {
		return Notification{Kind: kind, Message: message}
	}
	return i.center.push(i.audience, message, kind, duration)
}

// Dismiss removes a notification before it expires.
func (i *Inbox) Dismiss(id string) bool {
	if i == nil || i.center == nil {
		return false
	}
	return i.center.dismiss(i.audience, id)
}

// Pending lists live notifications in display order.
func (i *Inbox) Pending() []Notification {
	if i == nil || i.center == nil {
		return nil
	}
	return i.center.pending(i.audience)
}

// Success enqueues a success notification.
func (i *Inbox) Success(message string) Notification {
	return i.Push(message, KindSuccess, 0)
}

// Error enqueues an error notification.
func (i *Inbox) Error(message string) Notification {
	return i.Push(message, KindError, 0)
}

// Warning enqueues a warning notification.
func (i *Inbox) Warning(message string) Notification {
	return i.Push(message, KindWarning, 0)
}

// Info enqueues an informational notification.
func (i *Inbox) Info(message string) Notification {
	return i.Push(message, KindInfo, 0)
}
