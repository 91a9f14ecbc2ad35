package a11y

import (
	"context"

	"github.com/mj1618/desktop-text/internal/phrase"
)

// GetCursorOffset returns the caret offset in the focused text. ok is false
// when nothing is focused or the caret is unknown.
func GetCursorOffset(ctx context.Context, d *Dispatcher) (offset int, ok bool, err error) {
	resp, err := d.Submit(ctx, Request{Op: OpGetCursor})
	return resp.Offset, resp.Found, err
}

// SetCursorOffset moves the caret. It returns false when nothing is focused.
func SetCursorOffset(ctx context.Context, d *Dispatcher, offset int) (bool, error) {
	resp, err := d.Submit(ctx, Request{Op: OpSetCursor, Offset: offset})
	return resp.Found, err
}

// MoveCursor moves the caret to one boundary of the text matching q.
func MoveCursor(ctx context.Context, d *Dispatcher, q phrase.TextQuery, b Boundary) (bool, error) {
	if err := q.Validate(); err != nil {
		return false, err
	}
	resp, err := d.Submit(ctx, Request{Op: OpMoveCursor, Query: q, Boundary: b})
	return resp.Found, err
}

// GetTextInfo returns the text matching q, or nil when there is none.
func GetTextInfo(ctx context.Context, d *Dispatcher, q phrase.TextQuery) (*TextInfo, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	resp, err := d.Submit(ctx, Request{Op: OpTextInfo, Query: q})
	if err != nil || !resp.Found {
		return nil, err
	}
	return &resp.Info, nil
}

// Selection is the outcome of SelectText.
type Selection struct {
	// Selected is false when the range could not be selected natively and
	// the caller has to drag between the points in TextInfo.
	Selected bool `yaml:"selected" json:"selected"`
	// Dragged is set by Controller when it selected the range by dragging.
	Dragged  bool `yaml:"dragged,omitempty" json:"dragged,omitempty"`
	TextInfo `yaml:",inline"`
}

// SelectText selects the text matching q. It returns nil when there is no
// match.
func SelectText(ctx context.Context, d *Dispatcher, q phrase.TextQuery) (*Selection, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	resp, err := d.Submit(ctx, Request{Op: OpSelect, Query: q})
	if err != nil || !resp.Found {
		return nil, err
	}
	return &Selection{Selected: resp.Selected, TextInfo: resp.Info}, nil
}

// IsEditableFocused reports whether the focused element accepts text input.
func IsEditableFocused(ctx context.Context, d *Dispatcher) (bool, error) {
	resp, err := d.Submit(ctx, Request{Op: OpIsEditable})
	return resp.Editable, err
}
