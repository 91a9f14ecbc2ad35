//go:build darwin && cgo

package darwin

import (
	"time"

	"github.com/mj1618/desktop-text/internal/platform"
)

// Subsystem watches the system-wide focused element. AX focus
// notifications are per application, so instead of an observer per app the
// focused element is compared after every run loop pass and a change is
// reported as a focus event.
type Subsystem struct {
	listener func(platform.FocusEvent)
	last     *element
}

// NewSubsystem returns a subsystem bound to the calling thread's run loop.
func NewSubsystem() *Subsystem {
	return &Subsystem{}
}

func (s *Subsystem) RegisterFocusListener(fn func(platform.FocusEvent)) error {
	s.listener = fn
	return nil
}

func (s *Subsystem) Poll(timeout time.Duration) error {
	runLoop(timeout.Seconds())
	current := focusedElement()
	if current.equal(s.last) {
		return nil
	}
	s.last = current
	if s.listener == nil {
		return nil
	}
	if current == nil {
		s.listener(platform.FocusLost{})
		return nil
	}
	s.listener(current)
	return nil
}

func (s *Subsystem) CurrentFocus() (platform.FocusEvent, error) {
	s.last = focusedElement()
	if s.last == nil {
		return nil, nil
	}
	return s.last, nil
}

func (s *Subsystem) Close() error {
	s.listener = nil
	s.last = nil
	return nil
}
