package a11y

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	"github.com/mj1618/desktop-text/internal/phrase"
	"github.com/mj1618/desktop-text/internal/platform"
)

// Controller combines the query functions with simulated input for the
// operations that cannot be done through the accessibility API alone.
type Controller struct {
	d           *Dispatcher
	input       platform.Inputter
	log         *slog.Logger
	typeDelayMs int
}

// NewController returns a controller that injects input through in.
func NewController(d *Dispatcher, in platform.Inputter, typeDelayMs int) *Controller {
	return &Controller{d: d, input: in, log: d.Logger(), typeDelayMs: typeDelayMs}
}

// Dispatcher returns the dispatcher the controller submits to.
func (c *Controller) Dispatcher() *Dispatcher { return c.d }

// SelectText selects the text matching q, dragging the pointer across it
// when the application does not support native selection of that range.
// It returns nil when nothing was selected.
func (c *Controller) SelectText(ctx context.Context, q phrase.TextQuery) (*Selection, error) {
	sel, err := SelectText(ctx, c.d, q)
	if err != nil || sel == nil {
		return nil, err
	}
	if sel.Selected {
		return sel, nil
	}
	if !sel.HasPoints() {
		c.log.Info("cannot select text without screen coordinates", "query", q.String())
		return nil, nil
	}
	if c.input == nil {
		return nil, ErrNoInput
	}
	from, to := sel.StartPoint, sel.EndPoint
	if err := c.input.Drag(from.X, from.Y, to.X, to.Y); err != nil {
		return nil, fmt.Errorf("drag select: %w", err)
	}
	sel.Selected, sel.Dragged = true, true
	return sel, nil
}

// ReplaceText replaces the text matching q with replacement, following the
// capitalisation of the replaced text, then puts the caret back where it
// was relative to the surrounding text. An empty replacement deletes the
// match and the whitespace before it. It returns nil when nothing was
// replaced.
func (c *Controller) ReplaceText(ctx context.Context, q phrase.TextQuery, replacement string) (*Selection, error) {
	if c.input == nil {
		return nil, ErrNoInput
	}
	saved, hasSaved, err := GetCursorOffset(ctx, c.d)
	if err != nil {
		return nil, err
	}
	sel, err := c.SelectText(ctx, q)
	if err != nil || sel == nil {
		return nil, err
	}

	if replacement != "" {
		if err := c.input.TypeText(MatchCase(replacement, sel.Text), c.typeDelayMs); err != nil {
			return nil, fmt.Errorf("type replacement: %w", err)
		}
	} else {
		for i := 0; i < 2; i++ {
			if err := c.input.KeyCombo([]string{"backspace"}); err != nil {
				return nil, fmt.Errorf("delete selection: %w", err)
			}
		}
	}

	if !hasSaved {
		return sel, nil
	}
	switch {
	case saved <= sel.Start:
		_, err = SetCursorOffset(ctx, c.d, saved)
	case saved <= sel.End:
		// The caret was inside the replaced text.
	default:
		after, known, cerr := GetCursorOffset(ctx, c.d)
		if cerr != nil {
			return sel, cerr
		}
		if known {
			_, err = SetCursorOffset(ctx, c.d, saved+after-sel.End)
		}
	}
	return sel, err
}

// MatchCase lowercases s, then upper-cases it when like is all upper case,
// or capitalises it when like starts with a capital.
func MatchCase(s, like string) string {
	s = strings.ToLower(s)
	switch {
	case isUpper(like):
		return strings.ToUpper(s)
	case startsUpper(like) && s != "":
		r := []rune(s)
		r[0] = unicode.ToUpper(r[0])
		return string(r)
	}
	return s
}

// isUpper reports whether like has at least one cased letter and no lower
// case ones.
func isUpper(like string) bool {
	cased := false
	for _, r := range like {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			cased = true
		}
	}
	return cased
}

func startsUpper(like string) bool {
	for _, r := range like {
		return unicode.IsUpper(r)
	}
	return false
}
