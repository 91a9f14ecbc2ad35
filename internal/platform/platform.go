package platform

import (
	"errors"
	"time"
)

// ErrNoText is returned when an accessible object exposes no text interface.
var ErrNoText = errors.New("object does not expose text")

// ErrNothingFocused is returned by FocusLost.Resolve.
var ErrNothingFocused = errors.New("nothing focused")

// Subsystem is the native accessibility service. Every method, and every
// method of the objects it hands out, must be called from the single
// goroutine that owns it (see a11y.Dispatcher).
type Subsystem interface {
	// RegisterFocusListener installs fn as the focus-change callback.
	// fn is only ever invoked from inside Poll.
	RegisterFocusListener(fn func(FocusEvent)) error

	// Poll processes pending native events for at most timeout and returns.
	Poll(timeout time.Duration) error

	// Close deregisters listeners and releases the connection.
	Close() error
}

// FocusSeeder is implemented by subsystems that can report the element
// focused before any focus event has been delivered.
type FocusSeeder interface {
	// CurrentFocus returns nil when nothing is focused.
	CurrentFocus() (FocusEvent, error)
}

// FocusEvent is a raw focus notification.
type FocusEvent interface {
	// Resolve returns the accessible object that received focus.
	Resolve() (Accessible, error)
}

// FocusLost reports that focus moved to no element at all. Subsystems that
// detect focus by polling emit it so listeners drop the previous element.
type FocusLost struct{}

func (FocusLost) Resolve() (Accessible, error) { return nil, ErrNothingFocused }

// Accessible is a platform-owned reference to a UI element. It stays valid
// only as long as the element exists.
type Accessible interface {
	// Text returns the text interface of the element, or ErrNoText.
	Text() (Text, error)
	IsEditable() (bool, error)
}

// Text is the text interface of an accessible object. Offsets count
// characters (runes) in Content.
type Text interface {
	Content() (string, error)
	// CaretOffset returns the caret position; negative means no caret.
	CaretOffset() (int, error)
	SetCaretOffset(offset int) error
	CharacterExtents(offset int) (BoundingBox, error)
	SetSelection(start, end int) error
	// Embedded resolves the object embedded at the placeholder character
	// at charIndex to its text interface.
	Embedded(charIndex int) (Text, error)
}

// EmbeddedObjectChar marks the position of an embedded object in Content.
const EmbeddedObjectChar = '\uFFFC'

// Inputter simulates pointer and keyboard input.
type Inputter interface {
	Drag(fromX, fromY, toX, toY int) error
	TypeText(text string, delayMs int) error
	KeyCombo(keys []string) error
}
