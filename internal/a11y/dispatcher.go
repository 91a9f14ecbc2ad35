// Package a11y runs queries against the focused element's text on a single
// goroutine that owns the accessibility subsystem.
package a11y

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mj1618/desktop-text/internal/phrase"
	"github.com/mj1618/desktop-text/internal/platform"
)

// DefaultPollInterval bounds how long the worker waits for native events
// before it looks at the mailbox again. It is also the upper bound on the
// latency of Stop.
const DefaultPollInterval = 10 * time.Millisecond

// State is the lifecycle state of a Dispatcher.
type State int32

const (
	StateNew State = iota
	StateRunning
	StateShuttingDown
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateNew:
		return "new"
	case StateRunning:
		return "running"
	case StateShuttingDown:
		return "shutting-down"
	case StateStopped:
		return "stopped"
	}
	return fmt.Sprintf("State(%d)", int32(s))
}

// HandlerFunc executes one request on the worker goroutine.
type HandlerFunc func(c *Context, req Request) (Response, error)

// Options configures a Dispatcher.
type Options struct {
	PollInterval time.Duration
	// Logger defaults to slog.Default().
	Logger *slog.Logger
	// Handler defaults to Handle.
	Handler HandlerFunc
}

// DefaultOptions returns the default dispatcher options.
func DefaultOptions() Options {
	return Options{PollInterval: DefaultPollInterval}
}

type job struct {
	req  Request
	resp Response
	err  error
	done chan struct{}
}

// Dispatcher confines every subsystem call to one locked OS thread and lets
// any goroutine submit requests to it synchronously.
type Dispatcher struct {
	sub     platform.Subsystem
	opts    Options
	log     *slog.Logger
	handler HandlerFunc
	ctx     *Context

	state    atomic.Int32
	mailbox  chan *job
	stopped  chan struct{}
	closeErr error

	stopOnce sync.Once
}

// New returns a dispatcher for sub. Call Start before submitting requests.
func New(sub platform.Subsystem, opts Options) *Dispatcher {
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Handler == nil {
		opts.Handler = Handle
	}
	return &Dispatcher{
		sub:     sub,
		opts:    opts,
		log:     opts.Logger,
		handler: opts.Handler,
		ctx:     newContext(sub, opts.Logger),
		mailbox: make(chan *job, 1),
		stopped: make(chan struct{}),
	}
}

// State returns the current lifecycle state.
func (d *Dispatcher) State() State {
	return State(d.state.Load())
}

// Logger returns the logger the dispatcher was configured with.
func (d *Dispatcher) Logger() *slog.Logger {
	return d.log
}

// Start launches the worker and waits until it has registered its focus
// listener.
func (d *Dispatcher) Start() error {
	if !d.state.CompareAndSwap(int32(StateNew), int32(StateRunning)) {
		return ErrAlreadyStarted
	}
	ready := make(chan error, 1)
	go d.run(ready)
	return <-ready
}

// Stop asks the worker to exit and waits for it. The worker notices the
// request after its current poll, so Stop takes at most one poll interval
// plus the time to finish the request in progress.
func (d *Dispatcher) Stop() error {
	d.stopOnce.Do(func() {
		if d.state.CompareAndSwap(int32(StateNew), int32(StateStopped)) {
			close(d.stopped)
			return
		}
		d.state.CompareAndSwap(int32(StateRunning), int32(StateShuttingDown))
	})
	<-d.stopped
	return d.closeErr
}

// Submit runs req on the worker goroutine and waits for its response.
// ctx only bounds admission: once the worker has accepted the request it
// runs to completion. Submit must not be called from a handler.
func (d *Dispatcher) Submit(ctx context.Context, req Request) (Response, error) {
	switch d.State() {
	case StateNew:
		return Response{}, ErrNotStarted
	case StateShuttingDown, StateStopped:
		return Response{}, ErrStopped
	}

	j := &job{req: req, done: make(chan struct{})}
	select {
	case d.mailbox <- j:
	case <-d.stopped:
		return Response{}, ErrStopped
	case <-ctx.Done():
		return Response{}, ctx.Err()
	}

	select {
	case <-j.done:
	case <-d.stopped:
		select {
		case <-j.done:
		default:
			return Response{}, ErrStopped
		}
	}
	return j.resp, j.err
}

func (d *Dispatcher) run(ready chan<- error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer d.finish()

	if err := d.ctx.registerListeners(); err != nil {
		ready <- err
		return
	}
	d.ctx.seedFocus()
	ready <- nil

	d.log.Debug("dispatcher started", "poll_interval", d.opts.PollInterval)
	for d.State() == StateRunning {
		if err := d.sub.Poll(d.opts.PollInterval); err != nil {
			d.log.Warn("poll accessibility events", "error", err)
		}
		d.ctx.processFocusEvents()
		d.drain()
	}
}

// drain executes every request that is waiting right now.
func (d *Dispatcher) drain() {
	for {
		select {
		case j := <-d.mailbox:
			d.execute(j)
		default:
			return
		}
	}
}

func (d *Dispatcher) execute(j *job) {
	defer close(j.done)
	defer func() {
		if r := recover(); r != nil {
			stack := debug.Stack()
			d.log.Error("request panicked", "op", j.req.Op, "panic", r, "stack", string(stack))
			j.resp, j.err = Response{}, &PanicError{Op: j.req.Op, Value: r, Stack: stack}
		}
	}()

	j.resp, j.err = d.handler(d.ctx, j.req)
	if j.err != nil && !errors.Is(j.err, phrase.ErrInvalidQuery) {
		d.log.Warn("request failed", "op", j.req.Op, "error", j.err)
	}
}

// finish runs on the worker as it exits.
func (d *Dispatcher) finish() {
	d.closeErr = d.sub.Close()
	if d.closeErr != nil {
		d.log.Warn("close accessibility subsystem", "error", d.closeErr)
	}
	d.state.Store(int32(StateStopped))
	close(d.stopped)

	for {
		select {
		case j := <-d.mailbox:
			j.err = ErrStopped
			close(j.done)
		default:
			d.log.Debug("dispatcher stopped")
			return
		}
	}
}
