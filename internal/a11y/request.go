package a11y

import (
	"fmt"
	"strings"

	"github.com/mj1618/desktop-text/internal/phrase"
	"github.com/mj1618/desktop-text/internal/platform"
)

// Op identifies the operation a Request asks for.
type Op int

const (
	OpGetCursor Op = iota + 1
	OpSetCursor
	OpMoveCursor
	OpTextInfo
	OpSelect
	OpIsEditable
)

var opNames = map[Op]string{
	OpGetCursor:  "get-cursor",
	OpSetCursor:  "set-cursor",
	OpMoveCursor: "move-cursor",
	OpTextInfo:   "text-info",
	OpSelect:     "select",
	OpIsEditable: "is-editable",
}

func (o Op) String() string {
	if name, ok := opNames[o]; ok {
		return name
	}
	return fmt.Sprintf("Op(%d)", int(o))
}

// Boundary picks one end of a matched range.
type Boundary int

const (
	BoundaryStart Boundary = iota
	BoundaryEnd
)

func (b Boundary) String() string {
	if b == BoundaryEnd {
		return "end"
	}
	return "start"
}

// ParseBoundary parses "start" or "end".
func ParseBoundary(s string) (Boundary, error) {
	switch strings.ToLower(s) {
	case "start", "":
		return BoundaryStart, nil
	case "end":
		return BoundaryEnd, nil
	}
	return 0, fmt.Errorf("invalid boundary %q: use start or end", s)
}

// Request is a unit of work for the worker goroutine.
type Request struct {
	Op Op
	// Query is used by OpMoveCursor, OpTextInfo and OpSelect.
	Query    phrase.TextQuery
	Boundary Boundary
	// Offset is the new caret position for OpSetCursor.
	Offset int
}

// Response is the typed result of a Request. Found is false when nothing
// is focused, the caret is unknown, or the query matched nothing.
type Response struct {
	Found    bool
	Offset   int
	Info     TextInfo
	Selected bool
	Editable bool
}

// TextInfo describes a matched range of the focused text. The points are
// nil when either end lies off screen.
type TextInfo struct {
	Start      int             `yaml:"start"                 json:"start"`
	End        int             `yaml:"end"                   json:"end"`
	Text       string          `yaml:"text"                  json:"text"`
	StartPoint *platform.Point `yaml:"start_point,omitempty" json:"start_point,omitempty"`
	EndPoint   *platform.Point `yaml:"end_point,omitempty"   json:"end_point,omitempty"`
}

// HasPoints reports whether both screen points are available.
func (t TextInfo) HasPoints() bool {
	return t.StartPoint != nil && t.EndPoint != nil
}
