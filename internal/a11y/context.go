package a11y

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/mj1618/desktop-text/internal/platform"
	"github.com/mj1618/desktop-text/internal/texttree"
)

// Context tracks the focused element. It is owned by the dispatcher's
// worker goroutine and must only be used from handlers running there.
type Context struct {
	sub     platform.Subsystem
	log     *slog.Logger
	focused platform.Accessible
	pending []platform.FocusEvent
}

func newContext(sub platform.Subsystem, log *slog.Logger) *Context {
	return &Context{sub: sub, log: log}
}

func (c *Context) registerListeners() error {
	if err := c.sub.RegisterFocusListener(c.enqueue); err != nil {
		return fmt.Errorf("register focus listener: %w", err)
	}
	return nil
}

// enqueue runs inside Subsystem.Poll. Resolving an event can call back
// into the subsystem, so that is deferred to processFocusEvents.
func (c *Context) enqueue(ev platform.FocusEvent) {
	c.pending = append(c.pending, ev)
}

// processFocusEvents applies the newest queued event and discards the rest.
func (c *Context) processFocusEvents() {
	if len(c.pending) == 0 {
		return
	}
	latest := c.pending[len(c.pending)-1]
	if skipped := len(c.pending) - 1; skipped > 0 {
		c.log.Debug("coalesced focus events", "skipped", skipped)
	}
	c.pending = c.pending[:0]
	c.updateFocus(latest)
}

// seedFocus resolves the element that was focused before any event
// arrived, when the subsystem can report it.
func (c *Context) seedFocus() {
	seeder, ok := c.sub.(platform.FocusSeeder)
	if !ok {
		return
	}
	ev, err := seeder.CurrentFocus()
	if err != nil {
		c.log.Warn("read initial focus", "error", err)
		return
	}
	if ev == nil {
		return
	}
	c.updateFocus(ev)
}

func (c *Context) updateFocus(ev platform.FocusEvent) {
	acc, err := ev.Resolve()
	if err != nil {
		c.log.Debug("focus event could not be resolved", "error", err)
		c.focused = nil
		return
	}
	if _, err := acc.Text(); err != nil {
		c.log.Debug("focused element has no text", "error", err)
		c.focused = nil
		return
	}
	c.focused = acc
	c.log.Debug("focus changed")
}

// Focused returns the focused text element, or nil.
func (c *Context) Focused() platform.Accessible {
	return c.focused
}

// FocusedText snapshots the text of the focused element. It returns nil
// without an error when nothing with text is focused.
func (c *Context) FocusedText() (*texttree.Node, error) {
	if c.focused == nil {
		return nil, nil
	}
	t, err := c.focused.Text()
	if errors.Is(err, platform.ErrNoText) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("focused text: %w", err)
	}
	return texttree.Build(t)
}
