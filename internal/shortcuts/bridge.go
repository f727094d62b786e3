package shortcuts

import (
	"errors"
	"sync"

	"github.com/charmbracelet/bubbles/key"
)

// Controls is the part of the timer driven by shortcuts.
type Controls interface {
	ToggleRunning() error
	Reset()
	Skip()
}

// KeyMap holds the timer shortcuts. It implements help.KeyMap.
type KeyMap struct {
	Toggle key.Binding
	Reset  key.Binding
	Skip   key.Binding
}

// DefaultKeyMap binds space, r and s in either case.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Toggle: key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "start/pause")),
		Reset:  key.NewBinding(key.WithKeys("r", "R"), key.WithHelp("r", "reset")),
		Skip:   key.NewBinding(key.WithKeys("s", "S"), key.WithHelp("s", "skip")),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Reset, k.Skip}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// BridgeOption configures a Bridge.
type BridgeOption func(*Bridge)

// WithKeyMap replaces the default bindings.
func WithKeyMap(k KeyMap) BridgeOption {
	return func(b *Bridge) { b.keys = k }
}

// WithErrorHandler receives errors returned by the controls, such as a
// start that was rejected.
func WithErrorHandler(fn func(error)) BridgeOption {
	return func(b *Bridge) { b.onError = fn }
}

// Bridge maps key events to timer controls while enabled.
type Bridge struct {
	router   *Router
	controls Controls
	keys     KeyMap
	onError  func(error)

	mu       sync.Mutex
	id       ListenerID
	attached bool
}

// NewBridge creates a detached bridge.
func NewBridge(router *Router, controls Controls, opts ...BridgeOption) *Bridge {
	b := &Bridge{
		router:   router,
		controls: controls,
		keys:     DefaultKeyMap(),
		onError:  func(error) {},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Keys returns the active bindings.
func (b *Bridge) Keys() KeyMap {
	return b.keys
}

// Enable attaches the listener. Enabling twice attaches once.
func (b *Bridge) Enable() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.attached {
		return
	}
	b.id = b.router.Add(b.handle)
	b.attached = true
}

// Disable detaches the listener from the router. A listener that is
// already gone is not an error.
func (b *Bridge) Disable() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.attached {
		return
	}
	if err := b.router.Remove(b.id); err != nil && !errors.Is(err, ErrListenerNotFound) {
		b.onError(err)
	}
	b.attached = false
	b.id = 0
}

// Enabled reports whether the listener is attached.
func (b *Bridge) Enabled() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.attached
}

func (b *Bridge) handle(ev Event) bool {
	if ev.Target.Captures() || ev.Key.Alt {
		return false
	}

	switch {
	case key.Matches(ev.Key, b.keys.Toggle):
		if err := b.controls.ToggleRunning(); err != nil {
			b.onError(err)
		}
	case key.Matches(ev.Key, b.keys.Reset):
		b.controls.Reset()
	case key.Matches(ev.Key, b.keys.Skip):
		b.controls.Skip()
	default:
		return false
	}
	return true
}
