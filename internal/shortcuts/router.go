// Package shortcuts routes terminal key events to listeners and binds the
// timer's keyboard shortcuts.
package shortcuts

import (
	"errors"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// ErrListenerNotFound is returned by Remove for an unknown listener.
var ErrListenerNotFound = errors.New("listener not found")

// Focus describes what owns keyboard focus when an event arrives.
type Focus int

const (
	// FocusNone means no widget captures typing.
	FocusNone Focus = iota
	// FocusTextInput is a single-line text field.
	FocusTextInput
	// FocusEditable is a multi-line or otherwise editable region.
	FocusEditable
)

// Captures reports whether typing goes to the focused widget.
func (f Focus) Captures() bool {
	return f == FocusTextInput || f == FocusEditable
}

// Event is a key press together with the focus it was delivered to.
type Event struct {
	Key    tea.KeyMsg
	Target Focus
}

// Listener handles an event and reports whether it consumed it.
type Listener func(Event) bool

// ListenerID identifies a registered listener.
type ListenerID uint64

// Router delivers key events to listeners in registration order until one
// consumes the event.
type Router struct {
	mu        sync.Mutex
	next      ListenerID
	order     []ListenerID
	listeners map[ListenerID]Listener
}

// NewRouter creates an empty router.
func NewRouter() *Router {
	return &Router{listeners: make(map[ListenerID]Listener)}
}

// Add registers l and returns its handle.
func (r *Router) Add(l Listener) ListenerID {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next++
	id := r.next
	r.listeners[id] = l
	r.order = append(r.order, id)
	return id
}

// Remove detaches a listener.
func (r *Router) Remove(id ListenerID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.listeners[id]; !ok {
		return ErrListenerNotFound
	}
	delete(r.listeners, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// Len returns the number of attached listeners.
func (r *Router) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.listeners)
}

// Dispatch delivers ev and reports whether any listener consumed it.
// Listeners run without the router lock held and may add or remove
// listeners.
func (r *Router) Dispatch(ev Event) bool {
	r.mu.Lock()
	ls := make([]Listener, 0, len(r.order))
	for _, id := range r.order {
		ls = append(ls, r.listeners[id])
	}
	r.mu.Unlock()

	for _, l := range ls {
		if l(ev) {
			return true
		}
	}
	return false
}
