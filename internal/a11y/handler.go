package a11y

import (
	"errors"
	"fmt"

	"github.com/mj1618/desktop-text/internal/phrase"
	"github.com/mj1618/desktop-text/internal/texttree"
)

// Handle executes req against the focused element. It is the default
// HandlerFunc.
func Handle(c *Context, req Request) (Response, error) {
	switch req.Op {
	case OpGetCursor:
		return c.getCursor()
	case OpSetCursor:
		return c.setCursor(req.Offset)
	case OpMoveCursor:
		return c.moveCursor(req.Query, req.Boundary)
	case OpTextInfo:
		return c.textInfo(req.Query)
	case OpSelect:
		return c.selectText(req.Query)
	case OpIsEditable:
		return c.isEditable()
	}
	return Response{}, fmt.Errorf("%w: %s", ErrUnknownOp, req.Op)
}

func (c *Context) focusedTree() (*texttree.Node, error) {
	tree, err := c.FocusedText()
	if err != nil {
		return nil, err
	}
	if tree == nil {
		c.log.Info("nothing focused")
	}
	return tree, nil
}

func (c *Context) getCursor() (Response, error) {
	tree, err := c.focusedTree()
	if tree == nil {
		return Response{}, err
	}
	offset, ok := tree.Cursor()
	if !ok {
		c.log.Info("cursor position unknown")
		return Response{}, nil
	}
	return Response{Found: true, Offset: offset}, nil
}

func (c *Context) setCursor(offset int) (Response, error) {
	tree, err := c.focusedTree()
	if tree == nil {
		return Response{}, err
	}
	if err := tree.SetCursor(offset); err != nil {
		return Response{}, fmt.Errorf("set cursor to %d: %w", offset, err)
	}
	return Response{Found: true, Offset: offset}, nil
}

// resolve finds q in the focused text. A nil tree means the query could
// not be resolved and has already been logged.
func (c *Context) resolve(q phrase.TextQuery) (*texttree.Node, phrase.Range, error) {
	m, err := phrase.Compile(q)
	if err != nil {
		return nil, phrase.Range{}, err
	}
	tree, err := c.focusedTree()
	if tree == nil {
		return nil, phrase.Range{}, err
	}
	cursor, ok := tree.Cursor()
	if !ok {
		cursor = phrase.NoCursor
	}
	r, found, err := m.Find(tree.ExpandedText(), cursor)
	if err != nil {
		return nil, phrase.Range{}, err
	}
	if !found {
		if q.FromCursor() && !ok {
			c.log.Info("cursor position unknown", "query", q.String())
		} else {
			c.log.Info("text not found", "query", q.String())
		}
		return nil, phrase.Range{}, nil
	}
	return tree, r, nil
}

func (c *Context) moveCursor(q phrase.TextQuery, b Boundary) (Response, error) {
	tree, r, err := c.resolve(q)
	if tree == nil {
		return Response{}, err
	}
	offset := r.Start
	if b == BoundaryEnd {
		offset = r.End
	}
	if err := tree.SetCursor(offset); err != nil {
		return Response{}, fmt.Errorf("move cursor to %d: %w", offset, err)
	}
	return Response{Found: true, Offset: offset}, nil
}

func (c *Context) textInfo(q phrase.TextQuery) (Response, error) {
	tree, r, err := c.resolve(q)
	if tree == nil {
		return Response{}, err
	}
	info, err := c.describe(tree, r)
	if err != nil {
		return Response{}, err
	}
	return Response{Found: true, Info: info}, nil
}

// describe builds the TextInfo for r. The start point is the left middle of
// the first character, the end point the right middle of the last one.
func (c *Context) describe(tree *texttree.Node, r phrase.Range) (TextInfo, error) {
	info := TextInfo{Start: r.Start, End: r.End, Text: tree.Slice(r.Start, r.End)}
	startBox, err := tree.BoundingBox(r.Start)
	if err != nil {
		return TextInfo{}, fmt.Errorf("bounding box at %d: %w", r.Start, err)
	}
	last := r.End - 1
	if last < r.Start {
		last = r.Start
	}
	endBox, err := tree.BoundingBox(last)
	if err != nil {
		return TextInfo{}, fmt.Errorf("bounding box at %d: %w", last, err)
	}
	if startBox.Offscreen() || endBox.Offscreen() {
		c.log.Info("text is off screen", "start", startBox.String(), "end", endBox.String())
		return info, nil
	}
	start, end := startBox.LeftMiddle(), endBox.RightMiddle()
	info.StartPoint, info.EndPoint = &start, &end
	return info, nil
}

func (c *Context) selectText(q phrase.TextQuery) (Response, error) {
	tree, r, err := c.resolve(q)
	if tree == nil {
		return Response{}, err
	}
	err = tree.SelectRange(r.Start, r.End)
	if err == nil {
		return Response{Found: true, Selected: true, Info: TextInfo{Start: r.Start, End: r.End, Text: tree.Slice(r.Start, r.End)}}, nil
	}
	if !errors.Is(err, texttree.ErrUnsupportedSelection) {
		return Response{}, fmt.Errorf("select %d..%d: %w", r.Start, r.End, err)
	}
	c.log.Debug("native selection unsupported, reporting coordinates", "start", r.Start, "end", r.End)
	info, err := c.describe(tree, r)
	if err != nil {
		return Response{}, err
	}
	return Response{Found: true, Info: info}, nil
}

func (c *Context) isEditable() (Response, error) {
	if c.focused == nil {
		return Response{}, nil
	}
	editable, err := c.focused.IsEditable()
	if err != nil {
		return Response{}, fmt.Errorf("read editable state: %w", err)
	}
	return Response{Found: true, Editable: editable}, nil
}
