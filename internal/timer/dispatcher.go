package timer

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/panics"
	"github.com/xvierd/tomato/internal/domain"
)

// defaultHandlerTimeout bounds each handler invocation.
const defaultHandlerTimeout = 30 * time.Second

// seenSeqs is how many delivered sequence numbers are remembered for
// deduplication.
const seenSeqs = 64

// Handler reacts to a finished session.
type Handler interface {
	HandleCompletion(ctx context.Context, c domain.Completion) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, c domain.Completion) error

// HandleCompletion calls f.
func (f HandlerFunc) HandleCompletion(ctx context.Context, c domain.Completion) error {
	return f(ctx, c)
}

type namedHandler struct {
	name    string
	handler Handler
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithDispatcherLogger sets the logger for handler failures.
func WithDispatcherLogger(logger *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) { d.logger = logger }
}

// WithHandlerTimeout bounds how long a single handler may run.
func WithHandlerTimeout(timeout time.Duration) DispatcherOption {
	return func(d *Dispatcher) { d.timeout = timeout }
}

// WithBaseContext sets the parent context for handler invocations.
func WithBaseContext(ctx context.Context) DispatcherOption {
	return func(d *Dispatcher) { d.ctx = ctx }
}

// Dispatcher fans a completion out to registered handlers. Handlers run
// concurrently in the background; Dispatch itself never blocks on them.
// A Dispatcher serves a single Timer: completions are deduplicated by Seq.
// Completions may arrive out of Seq order since the timer dispatches after
// releasing its lock.
type Dispatcher struct {
	mu       sync.Mutex
	handlers []namedHandler
	seen     map[uint64]struct{}
	recent   []uint64

	wg      conc.WaitGroup
	logger  *slog.Logger
	timeout time.Duration
	ctx     context.Context
}

// NewDispatcher creates a dispatcher with no handlers.
func NewDispatcher(opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		timeout: defaultHandlerTimeout,
		ctx:     context.Background(),
		seen:    make(map[uint64]struct{}, seenSeqs),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.logger == nil {
		d.logger = slog.New(slog.DiscardHandler)
	}
	return d
}

// Register adds a handler. The name is only used in logs.
func (d *Dispatcher) Register(name string, h Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers = append(d.handlers, namedHandler{name: name, handler: h})
}

// Dispatch delivers c to every handler. A completion whose Seq was already
// delivered is dropped; a Seq of zero is never deduplicated.
func (d *Dispatcher) Dispatch(c domain.Completion) {
	d.mu.Lock()
	if c.Seq != 0 {
		if _, dup := d.seen[c.Seq]; dup {
			d.mu.Unlock()
			d.logger.Warn("dropping duplicate completion", "seq", c.Seq)
			return
		}
		d.markSeenLocked(c.Seq)
	}
	handlers := make([]namedHandler, len(d.handlers))
	copy(handlers, d.handlers)
	d.mu.Unlock()

	for _, h := range handlers {
		d.wg.Go(func() { d.run(h, c) })
	}
}

func (d *Dispatcher) markSeenLocked(seq uint64) {
	if len(d.recent) == seenSeqs {
		delete(d.seen, d.recent[0])
		d.recent = d.recent[1:]
	}
	d.seen[seq] = struct{}{}
	d.recent = append(d.recent, seq)
}

// Wait blocks until every handler started so far has returned.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) run(h namedHandler, c domain.Completion) {
	ctx, cancel := context.WithTimeout(d.ctx, d.timeout)
	defer cancel()

	var err error
	var pc panics.Catcher
	pc.Try(func() {
		err = h.handler.HandleCompletion(ctx, c)
	})

	if r := pc.Recovered(); r != nil {
		d.logger.Error("completion handler panicked",
			"handler", h.name,
			"seq", c.Seq,
			"panic", r.String(),
		)
		return
	}
	if err != nil {
		d.logger.Error("completion handler failed",
			"handler", h.name,
			"seq", c.Seq,
			"type", string(c.Type),
			"error", err,
		)
		return
	}
	d.logger.Debug("completion handled", "handler", h.name, "seq", c.Seq)
}
