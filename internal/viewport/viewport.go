// Package viewport tracks the browser viewport width per session and derives
// the compact layout and sidebar state from it.
package viewport

import (
	"sync"
	"time"
)

// DefaultBreakpoint is the width below which the layout is compact.
const DefaultBreakpoint = 768

// Observer holds a viewport width and notifies subscribers when the compact
// flag flips.
type Observer struct {
	mu sync.Mutex
	// deliver orders flip notifications the same way as the flips.
	deliver    sync.Mutex
	breakpoint int
	width      int
	known      bool
	listeners  map[int]func(compact bool)
	nextID     int
}

// NewObserver returns an observer with an unknown width. A non-positive
// breakpoint selects DefaultBreakpoint.
func NewObserver(breakpoint int) *Observer {
	if breakpoint <= 0 {
		breakpoint = DefaultBreakpoint
	}
	return &Observer{breakpoint: breakpoint, listeners: make(map[int]func(bool))}
}

// Width returns the last reported width, zero when unknown.
func (o *Observer) Width() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.width
}

// IsCompact reports whether the viewport is narrower than the breakpoint.
// An unknown width is treated as wide.
func (o *Observer) IsCompact() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.compactLocked()
}

func (o *Observer) compactLocked() bool {
	return o.known && o.width < o.breakpoint
}

// SetWidth records a new width. Non-positive widths are ignored. Listeners
// run outside the state lock but one flip at a time, in flip order, so they
// must not call SetWidth themselves.
func (o *Observer) SetWidth(width int) {
	if width <= 0 {
		return
	}
	o.mu.Lock()
	before := o.compactLocked()
	o.width = width
	o.known = true
	after := o.compactLocked()
	if before == after {
		o.mu.Unlock()
		return
	}
	notify := make([]func(bool), 0, len(o.listeners))
	for _, fn := range o.listeners {
		notify = append(notify, fn)
	}
	o.deliver.Lock()
	o.mu.Unlock()
	defer o.deliver.Unlock()

	for _, fn := range notify {
		fn(after)
	}
}

// Subscribe registers fn for compact flag flips.
func (o *Observer) Subscribe(fn func(compact bool)) (unsubscribe func()) {
	o.mu.Lock()
	defer o.mu.Unlock()
	id := o.nextID
	o.nextID++
	o.listeners[id] = fn
	return func() {
		o.mu.Lock()
		delete(o.listeners, id)
		o.mu.Unlock()
	}
}

// Layout is the layout state of one session.
type Layout struct {
	observer    *Observer
	mu          sync.Mutex
	sidebarOpen bool
	touched     time.Time
	unsubscribe func()
}

// NewLayout binds a layout to an observer. The sidebar starts open unless the
// viewport is compact.
func NewLayout(observer *Observer) *Layout {
	l := &Layout{observer: observer, sidebarOpen: !observer.IsCompact()}
	l.unsubscribe = observer.Subscribe(func(compact bool) {
		l.mu.Lock()
		l.sidebarOpen = !compact
		l.mu.Unlock()
	})
	return l
}

// Observer returns the underlying observer.
func (l *Layout) Observer() *Observer { return l.observer }

// SidebarOpen reports the sidebar state.
func (l *Layout) SidebarOpen() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.sidebarOpen
}

// ToggleSidebar flips the sidebar and returns the new state.
func (l *Layout) ToggleSidebar() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sidebarOpen = !l.sidebarOpen
	return l.sidebarOpen
}

// SetSidebar forces the sidebar state.
func (l *Layout) SetSidebar(open bool) {
	l.mu.Lock()
	l.sidebarOpen = open
	l.mu.Unlock()
}

// View is the template-facing snapshot of a layout.
type View struct {
	Width       int  `json:"width"`
	Compact     bool `json:"compact"`
	SidebarOpen bool `json:"sidebarOpen"`
}

// View returns a snapshot for rendering.
func (l *Layout) View() View {
	return View{
		Width:       l.observer.Width(),
		Compact:     l.observer.IsCompact(),
		SidebarOpen: l.SidebarOpen(),
	}
}

func (l *Layout) close() {
	if l.unsubscribe != nil {
		l.unsubscribe()
	}
}

// Registry holds one layout per session.
type Registry struct {
	mu         sync.Mutex
	breakpoint int
	idle       time.Duration
	layouts    map[string]*Layout
	now        func() time.Time
}

// NewRegistry creates a registry. Layouts untouched for longer than idle are
// dropped by Sweep; a non-positive idle keeps them forever.
func NewRegistry(breakpoint int, idle time.Duration) *Registry {
	return &Registry{
		breakpoint: breakpoint,
		idle:       idle,
		layouts:    make(map[string]*Layout),
		now:        time.Now,
	}
}

// Layout returns the layout of a session, creating it on first use.
func (r *Registry) Layout(session string) *Layout {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.layouts[session]
	if !ok {
		l = NewLayout(NewObserver(r.breakpoint))
		r.layouts[session] = l
	}
	l.touched = r.now()
	return l
}

// Len returns the number of tracked sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.layouts)
}

// Forget drops the layout of a session.
func (r *Registry) Forget(session string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if l, ok := r.layouts[session]; ok {
		l.close()
		delete(r.layouts, session)
	}
}

// Sweep drops idle layouts and returns how many were removed.
func (r *Registry) Sweep() int {
	if r.idle <= 0 {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cutoff := r.now().Add(-r.idle)
	removed := 0
	for key, l := range r.layouts {
		if l.touched.Before(cutoff) {
			l.close()
			delete(r.layouts, key)
			removed++
		}
	}
	return removed
}
