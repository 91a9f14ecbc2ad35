// Package platformtest provides in-memory implementations of the platform
// interfaces for tests.
package platformtest

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/mj1618/desktop-text/internal/platform"
)

// Text is an in-memory platform.Text. Character i is laid out on a single
// line starting at Origin, CharWidth wide and LineHeight tall.
type Text struct {
	Value    string
	Caret    int
	Children map[int]*Text

	Origin     platform.Point
	CharWidth  int
	LineHeight int

	// Selection is the last range passed to SetSelection.
	Selection  [2]int
	Selections int

	// Err, when set, is returned by every call.
	Err error
}

// NewText returns a text object with the given content and caret. A
// negative caret means the object does not hold the caret.
func NewText(value string, caret int) *Text {
	return &Text{Value: value, Caret: caret, CharWidth: 10, LineHeight: 20}
}

// Compose builds a hypertext object from strings and embedded *Text parts.
// Each *Text is represented by an embedded object character.
func Compose(caret int, parts ...interface{}) *Text {
	t := NewText("", caret)
	var b strings.Builder
	n := 0
	for _, p := range parts {
		switch v := p.(type) {
		case string:
			b.WriteString(v)
			n += len([]rune(v))
		case *Text:
			if t.Children == nil {
				t.Children = make(map[int]*Text)
			}
			t.Children[n] = v
			b.WriteRune(platform.EmbeddedObjectChar)
			n++
		default:
			panic(fmt.Sprintf("platformtest: unsupported part %T", p))
		}
	}
	t.Value = b.String()
	return t
}

func (t *Text) Content() (string, error) {
	if t.Err != nil {
		return "", t.Err
	}
	return t.Value, nil
}

func (t *Text) CaretOffset() (int, error) {
	if t.Err != nil {
		return 0, t.Err
	}
	return t.Caret, nil
}

func (t *Text) SetCaretOffset(offset int) error {
	if t.Err != nil {
		return t.Err
	}
	if offset < 0 || offset > len([]rune(t.Value)) {
		return fmt.Errorf("caret offset %d out of range", offset)
	}
	t.Caret = offset
	return nil
}

func (t *Text) CharacterExtents(offset int) (platform.BoundingBox, error) {
	if t.Err != nil {
		return platform.BoundingBox{}, t.Err
	}
	return platform.BoundingBox{
		X:      t.Origin.X + offset*t.CharWidth,
		Y:      t.Origin.Y,
		Width:  t.CharWidth,
		Height: t.LineHeight,
	}, nil
}

func (t *Text) SetSelection(start, end int) error {
	if t.Err != nil {
		return t.Err
	}
	t.Selection = [2]int{start, end}
	t.Selections++
	return nil
}

func (t *Text) Embedded(charIndex int) (platform.Text, error) {
	if t.Err != nil {
		return nil, t.Err
	}
	child, ok := t.Children[charIndex]
	if !ok {
		return nil, fmt.Errorf("no embedded object at %d", charIndex)
	}
	return child, nil
}

// Accessible is an in-memory platform.Accessible.
type Accessible struct {
	Content  *Text
	Editable bool
	Err      error
}

func (a *Accessible) Text() (platform.Text, error) {
	if a.Err != nil {
		return nil, a.Err
	}
	if a.Content == nil {
		return nil, platform.ErrNoText
	}
	return a.Content, nil
}

func (a *Accessible) IsEditable() (bool, error) {
	if a.Err != nil {
		return false, a.Err
	}
	return a.Editable, nil
}

// FocusEvent resolves to Target, or fails with Err.
type FocusEvent struct {
	Target *Accessible
	Err    error
}

func (e FocusEvent) Resolve() (platform.Accessible, error) {
	if e.Err != nil {
		return nil, e.Err
	}
	if e.Target == nil {
		return nil, errors.New("focus event has no source")
	}
	return e.Target, nil
}

// Subsystem is an in-memory platform.Subsystem. Events passed to Emit are
// delivered to the listener during the next Poll.
type Subsystem struct {
	// Initial is reported by CurrentFocus.
	Initial platform.FocusEvent

	// OnPoll, when set, runs at the start of every Poll.
	OnPoll func()

	mu       sync.Mutex
	listener func(platform.FocusEvent)
	queued   []platform.FocusEvent
	wake     chan struct{}
	polls    int
	closed   bool
}

// NewSubsystem returns an empty subsystem.
func NewSubsystem() *Subsystem {
	return &Subsystem{wake: make(chan struct{}, 1)}
}

func (s *Subsystem) RegisterFocusListener(fn func(platform.FocusEvent)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listener = fn
	return nil
}

// Emit queues a focus event. Safe to call from any goroutine.
func (s *Subsystem) Emit(ev platform.FocusEvent) {
	s.mu.Lock()
	s.queued = append(s.queued, ev)
	s.mu.Unlock()
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Focus emits a focus event for target.
func (s *Subsystem) Focus(target *Accessible) {
	s.Emit(FocusEvent{Target: target})
}

func (s *Subsystem) Poll(timeout time.Duration) error {
	if s.OnPoll != nil {
		s.OnPoll()
	}
	timer := time.NewTimer(timeout)
	select {
	case <-s.wake:
		timer.Stop()
	case <-timer.C:
	}

	s.mu.Lock()
	s.polls++
	events := s.queued
	s.queued = nil
	listener := s.listener
	s.mu.Unlock()

	if listener != nil {
		for _, ev := range events {
			listener(ev)
		}
	}
	return nil
}

func (s *Subsystem) CurrentFocus() (platform.FocusEvent, error) {
	return s.Initial, nil
}

func (s *Subsystem) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.listener = nil
	return nil
}

// Polls returns the number of completed polls.
func (s *Subsystem) Polls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.polls
}

// Closed reports whether Close was called.
func (s *Subsystem) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Drag is a recorded pointer drag.
type Drag struct {
	From, To platform.Point
}

// Inputter records injected input.
type Inputter struct {
	mu    sync.Mutex
	Drags []Drag
	Typed []string
	Keys  [][]string
	Err   error

	// OnType, when set, is called with every typed string so a test can
	// apply it to a Text.
	OnType func(text string)
}

func (in *Inputter) Drag(fromX, fromY, toX, toY int) error {
	in.mu.Lock()
	defer in.mu.Unlock()
	if in.Err != nil {
		return in.Err
	}
	in.Drags = append(in.Drags, Drag{From: platform.Point{X: fromX, Y: fromY}, To: platform.Point{X: toX, Y: toY}})
	return nil
}

func (in *Inputter) TypeText(text string, delayMs int) error {
	in.mu.Lock()
	if in.Err != nil {
		in.mu.Unlock()
		return in.Err
	}
	in.Typed = append(in.Typed, text)
	onType := in.OnType
	in.mu.Unlock()
	if onType != nil {
		onType(text)
	}
	return nil
}

func (in *Inputter) KeyCombo(keys []string) error {
	in.mu.Lock()
	defer in.mu.Unlock()
	if in.Err != nil {
		return in.Err
	}
	in.Keys = append(in.Keys, keys)
	return nil
}
