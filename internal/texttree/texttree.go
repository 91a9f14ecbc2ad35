// Package texttree flattens a hypertext object and its embedded objects
// into a single delimiter-annotated text with a tracked caret.
//
// A tree is a snapshot: mutations (SetCursor, SelectRange) go straight to
// the native objects and are not reflected in the tree that issued them.
package texttree

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/mj1618/desktop-text/internal/platform"
)

// Delimiter is appended to the text of every leaf in the expanded text.
const Delimiter = '\u00A6'

var (
	// ErrUnsupportedSelection is returned when a range cannot be selected
	// through a single native object. Cross-object selection is broken or
	// missing in several browsers.
	ErrUnsupportedSelection = errors.New("selection spans multiple objects")

	// ErrOffsetOutOfRange is returned for offsets outside the expanded text.
	ErrOffsetOutOfRange = errors.New("offset out of range")
)

// Piece is either a *Leaf or a *Node.
type Piece interface {
	// ExpandedText returns the flattened text including delimiters.
	ExpandedText() string
	// Len returns the length of ExpandedText in characters.
	Len() int
	// Cursor returns the caret offset within ExpandedText, if known.
	Cursor() (int, bool)
	SetCursor(offset int) error
	BoundingBox(offset int) (platform.BoundingBox, error)

	dropCursor()
}

// Leaf is a plain run of characters [start, end) of one native text object.
type Leaf struct {
	text      platform.Text
	expanded  string
	length    int
	start     int
	end       int
	cursor    int
	hasCursor bool
}

// newLeaf copies runes[start:end]. A caret at end belongs to the leaf only
// when no embedded object follows; otherwise the object claims it.
func newLeaf(text platform.Text, runes []rune, start, end, caret int) *Leaf {
	l := &Leaf{
		text:     text,
		expanded: string(runes[start:end]) + string(Delimiter),
		length:   end - start + 1,
		start:    start,
		end:      end,
	}
	if caret >= start && (caret < end || caret == end && end == len(runes)) {
		l.cursor = caret - start
		l.hasCursor = true
	}
	return l
}

func (l *Leaf) ExpandedText() string { return l.expanded }
func (l *Leaf) Len() int             { return l.length }
func (l *Leaf) String() string       { return l.expanded }

func (l *Leaf) Cursor() (int, bool) { return l.cursor, l.hasCursor }

func (l *Leaf) dropCursor() { l.cursor, l.hasCursor = 0, false }

// ParentOffset converts an offset within the leaf to an offset within the
// native text object that owns it.
func (l *Leaf) ParentOffset(offset int) int { return l.start + offset }

func (l *Leaf) SetCursor(offset int) error {
	if offset < 0 || offset >= l.length {
		return fmt.Errorf("leaf cursor %d: %w", offset, ErrOffsetOutOfRange)
	}
	return l.text.SetCaretOffset(l.ParentOffset(offset))
}

func (l *Leaf) BoundingBox(offset int) (platform.BoundingBox, error) {
	if offset < 0 || offset >= l.length {
		return platform.BoundingBox{}, fmt.Errorf("leaf bounding box %d: %w", offset, ErrOffsetOutOfRange)
	}
	return l.text.CharacterExtents(l.ParentOffset(offset))
}

// Node is a native text object whose children are its plain runs and the
// trees of its embedded objects, in document order.
type Node struct {
	text      platform.Text
	children  []Piece
	expanded  string
	length    int
	cursor    int
	hasCursor bool
}

// Build snapshots t and every text object embedded in it.
func Build(t platform.Text) (*Node, error) {
	return build(t, true)
}

// build flattens t. mayHaveCursor is false for embedded objects whose
// placeholder is not at the parent's caret: Chrome reports a caret of 0
// instead of -1 for those.
func build(t platform.Text, mayHaveCursor bool) (*Node, error) {
	content, err := t.Content()
	if err != nil {
		return nil, fmt.Errorf("read text: %w", err)
	}
	caret, err := t.CaretOffset()
	if err != nil {
		return nil, fmt.Errorf("read caret: %w", err)
	}

	runes := []rune(content)
	var placeholders []int
	for i, r := range runes {
		if r == platform.EmbeddedObjectChar {
			placeholders = append(placeholders, i)
		}
	}

	n := &Node{text: t}
	if len(placeholders) == 0 {
		n.children = append(n.children, newLeaf(t, runes, 0, len(runes), caret))
	} else if placeholders[0] > 0 {
		n.children = append(n.children, newLeaf(t, runes, 0, placeholders[0], caret))
	}
	for i, idx := range placeholders {
		embedded, err := t.Embedded(idx)
		if err != nil {
			return nil, fmt.Errorf("resolve embedded object at %d: %w", idx, err)
		}
		atCaret := caret >= 0 && caret == idx
		child, err := build(embedded, atCaret)
		if err != nil {
			return nil, err
		}
		if _, ok := child.Cursor(); atCaret && !ok {
			// The caret sits on the placeholder but the object does not
			// report one of its own.
			child.cursor, child.hasCursor = 0, true
		}
		n.children = append(n.children, child)

		end := len(runes)
		if i+1 < len(placeholders) {
			end = placeholders[i+1]
		}
		if end > idx+1 {
			n.children = append(n.children, newLeaf(t, runes, idx+1, end, caret))
		}
	}

	var b strings.Builder
	for _, child := range n.children {
		b.WriteString(child.ExpandedText())
		n.length += child.Len()
	}
	n.expanded = b.String()

	if mayHaveCursor {
		offset := 0
		for _, child := range n.children {
			if c, ok := child.Cursor(); ok && !n.hasCursor {
				n.cursor = offset + c
				n.hasCursor = true
			} else {
				// Only the first caret counts.
				child.dropCursor()
			}
			offset += child.Len()
		}
	} else {
		n.dropCursor()
	}
	return n, nil
}

func (n *Node) ExpandedText() string { return n.expanded }
func (n *Node) Len() int             { return n.length }
func (n *Node) Cursor() (int, bool)  { return n.cursor, n.hasCursor }

// Children returns the leaves and embedded nodes of n.
func (n *Node) Children() []Piece { return n.children }

func (n *Node) dropCursor() {
	n.cursor, n.hasCursor = 0, false
	for _, child := range n.children {
		child.dropCursor()
	}
}

func (n *Node) String() string {
	parts := make([]string, len(n.children))
	for i, child := range n.children {
		parts[i] = fmt.Sprint(child)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// Slice returns the expanded text in [start, end).
func (n *Node) Slice(start, end int) string {
	if start < 0 {
		start = 0
	}
	if end > n.length {
		end = n.length
	}
	if start >= end {
		return ""
	}
	// Skip to the start rune without allocating the whole text.
	s := n.expanded
	for i := 0; i < start; i++ {
		_, size := utf8.DecodeRuneInString(s)
		s = s[size:]
	}
	cut := 0
	for i := 0; i < end-start; i++ {
		_, size := utf8.DecodeRuneInString(s[cut:])
		cut += size
	}
	return s[:cut]
}

// locate returns the child holding offset and the offset within it.
func (n *Node) locate(offset int) (Piece, int, error) {
	if offset < 0 {
		return nil, 0, fmt.Errorf("offset %d: %w", offset, ErrOffsetOutOfRange)
	}
	for _, child := range n.children {
		if offset < child.Len() {
			return child, offset, nil
		}
		offset -= child.Len()
	}
	return nil, 0, fmt.Errorf("offset past end of text: %w", ErrOffsetOutOfRange)
}

// SetCursor moves the native caret to offset in the expanded text.
func (n *Node) SetCursor(offset int) error {
	child, childOffset, err := n.locate(offset)
	if err != nil {
		return err
	}
	return child.SetCursor(childOffset)
}

// BoundingBox returns the screen extents of the character at offset.
func (n *Node) BoundingBox(offset int) (platform.BoundingBox, error) {
	child, childOffset, err := n.locate(offset)
	if err != nil {
		return platform.BoundingBox{}, err
	}
	return child.BoundingBox(childOffset)
}

// SelectRange selects [start, end) of the expanded text. Only ranges that
// map onto a single native object are supported; anything else returns
// ErrUnsupportedSelection.
func (n *Node) SelectRange(start, end int) error {
	startChild, startOffset, err := n.locate(start)
	if err != nil {
		return err
	}
	endChild, endOffset, err := n.locate(end)
	if err != nil {
		return err
	}
	if startChild == endChild {
		if node, ok := startChild.(*Node); ok {
			return node.SelectRange(startOffset, endOffset)
		}
	}
	startLeaf, ok := startChild.(*Leaf)
	if !ok {
		return ErrUnsupportedSelection
	}
	endLeaf, ok := endChild.(*Leaf)
	if !ok {
		return ErrUnsupportedSelection
	}
	return n.text.SetSelection(startLeaf.ParentOffset(startOffset), endLeaf.ParentOffset(endOffset))
}
