package texttree

import (
	"errors"
	"testing"
	"unicode/utf8"

	"github.com/mj1618/desktop-text/internal/platform"
	"github.com/mj1618/desktop-text/internal/platform/platformtest"
)

func mustBuild(t *testing.T, text platform.Text) *Node {
	t.Helper()
	n, err := Build(text)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return n
}

func countLeafCursors(p Piece) int {
	switch v := p.(type) {
	case *Leaf:
		if _, ok := v.Cursor(); ok {
			return 1
		}
		return 0
	case *Node:
		total := 0
		for _, child := range v.Children() {
			total += countLeafCursors(child)
		}
		return total
	}
	return 0
}

func checkLengths(t *testing.T, n *Node) {
	t.Helper()
	sum := 0
	for _, child := range n.Children() {
		sum += child.Len()
		if sub, ok := child.(*Node); ok {
			checkLengths(t, sub)
		}
	}
	if sum != n.Len() {
		t.Errorf("Len() = %d, children sum to %d", n.Len(), sum)
	}
	if got := utf8.RuneCountInString(n.ExpandedText()); got != n.Len() {
		t.Errorf("Len() = %d, expanded text has %d runes", n.Len(), got)
	}
}

func TestBuild_PlainText(t *testing.T) {
	n := mustBuild(t, platformtest.NewText("dog elephant tiger", 4))

	if got, want := n.ExpandedText(), "dog elephant tiger¦"; got != want {
		t.Errorf("ExpandedText = %q, want %q", got, want)
	}
	if n.Len() != 19 {
		t.Errorf("Len = %d, want 19", n.Len())
	}
	if len(n.Children()) != 1 {
		t.Fatalf("expected 1 child, got %d", len(n.Children()))
	}
	if _, ok := n.Children()[0].(*Leaf); !ok {
		t.Errorf("expected leaf child, got %T", n.Children()[0])
	}
	if c, ok := n.Cursor(); !ok || c != 4 {
		t.Errorf("Cursor = (%d, %v), want (4, true)", c, ok)
	}
	if countLeafCursors(n) != 1 {
		t.Errorf("expected exactly one leaf with a cursor, got %d", countLeafCursors(n))
	}
	checkLengths(t, n)
}

func TestBuild_Cursor(t *testing.T) {
	tests := []struct {
		name   string
		caret  int
		want   int
		wantOK bool
	}{
		{"absent", -1, 0, false},
		{"start", 0, 0, true},
		{"middle", 7, 7, true},
		{"end", 18, 18, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := mustBuild(t, platformtest.NewText("dog elephant tiger", tt.caret))
			got, ok := n.Cursor()
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("Cursor = (%d, %v), want (%d, %v)", got, ok, tt.want, tt.wantOK)
			}
			if countLeafCursors(n) > 1 {
				t.Errorf("more than one leaf reports a cursor")
			}
		})
	}
}

func TestBuild_EmptyText(t *testing.T) {
	n := mustBuild(t, platformtest.NewText("", 0))
	if n.ExpandedText() != "¦" {
		t.Errorf("ExpandedText = %q, want delimiter only", n.ExpandedText())
	}
	if c, ok := n.Cursor(); !ok || c != 0 {
		t.Errorf("Cursor = (%d, %v), want (0, true)", c, ok)
	}
}

func TestBuild_EmbeddedCursorInChild(t *testing.T) {
	child := platformtest.NewText("world", 2)
	parent := platformtest.Compose(6, "Hello ", child, "!")

	n := mustBuild(t, parent)
	if got, want := n.ExpandedText(), "Hello ¦world¦!¦"; got != want {
		t.Errorf("ExpandedText = %q, want %q", got, want)
	}
	if len(n.Children()) != 3 {
		t.Fatalf("expected 3 children, got %d", len(n.Children()))
	}
	if _, ok := n.Children()[1].(*Node); !ok {
		t.Errorf("expected embedded node, got %T", n.Children()[1])
	}
	if c, ok := n.Cursor(); !ok || c != 9 {
		t.Errorf("Cursor = (%d, %v), want (9, true)", c, ok)
	}
	if countLeafCursors(n) != 1 {
		t.Errorf("expected exactly one leaf with a cursor, got %d", countLeafCursors(n))
	}
	checkLengths(t, n)
}

func TestBuild_IgnoresSpuriousChildCaret(t *testing.T) {
	// Children that do not hold the caret still report offset 0.
	child := platformtest.NewText("world", 0)
	parent := platformtest.Compose(2, "Hello ", child, "!")

	n := mustBuild(t, parent)
	if c, ok := n.Cursor(); !ok || c != 2 {
		t.Errorf("Cursor = (%d, %v), want (2, true)", c, ok)
	}
	if _, ok := n.Children()[1].Cursor(); ok {
		t.Error("embedded child should not report a cursor")
	}
	if countLeafCursors(n) != 1 {
		t.Errorf("expected exactly one leaf with a cursor, got %d", countLeafCursors(n))
	}
}

func TestBuild_CaretOnPlaceholderWithoutChildCaret(t *testing.T) {
	child := platformtest.NewText("world", -1)
	parent := platformtest.Compose(6, "Hello ", child, "!")

	n := mustBuild(t, parent)
	if c, ok := n.Cursor(); !ok || c != 7 {
		t.Errorf("Cursor = (%d, %v), want (7, true)", c, ok)
	}
	// The caret belongs to the embedded object, not the delimiter of the
	// leaf before it.
	if _, ok := n.Children()[0].Cursor(); ok {
		t.Error("leaf before the placeholder should not hold the caret")
	}
	if c, ok := n.Children()[1].Cursor(); !ok || c != 0 {
		t.Errorf("embedded Cursor = (%d, %v), want (0, true)", c, ok)
	}
	if countLeafCursors(n) != 1 {
		t.Errorf("expected exactly one leaf with a cursor, got %d", countLeafCursors(n))
	}
}

func TestBuild_MultipleAndNestedEmbeds(t *testing.T) {
	grandchild := platformtest.NewText("deep", 3)
	first := platformtest.Compose(0, grandchild, " end")
	second := platformtest.NewText("two", -1)
	parent := platformtest.Compose(0, first, " and ", second)

	n := mustBuild(t, parent)
	if got, want := n.ExpandedText(), "deep¦ end¦ and ¦two¦"; got != want {
		t.Errorf("ExpandedText = %q, want %q", got, want)
	}
	if len(n.Children()) != 3 {
		t.Fatalf("expected 3 children (node, leaf, node), got %d", len(n.Children()))
	}
	if c, ok := n.Cursor(); !ok || c != 3 {
		t.Errorf("Cursor = (%d, %v), want (3, true)", c, ok)
	}
	checkLengths(t, n)
}

func TestBuild_Errors(t *testing.T) {
	boom := errors.New("boom")

	broken := platformtest.NewText("text", 0)
	broken.Err = boom
	if _, err := Build(broken); !errors.Is(err, boom) {
		t.Errorf("expected wrapped boom, got %v", err)
	}

	// Placeholder with no resolvable object.
	orphan := platformtest.NewText("a\uFFFCb", 0)
	if _, err := Build(orphan); err == nil {
		t.Error("expected error for unresolvable embedded object")
	}
}

func TestNode_SetCursor(t *testing.T) {
	child := platformtest.NewText("world", -1)
	parent := platformtest.Compose(0, "Hello ", child, "!")
	n := mustBuild(t, parent)

	if err := n.SetCursor(3); err != nil {
		t.Fatal(err)
	}
	if parent.Caret != 3 {
		t.Errorf("parent caret = %d, want 3", parent.Caret)
	}

	if err := n.SetCursor(9); err != nil {
		t.Fatal(err)
	}
	if child.Caret != 2 {
		t.Errorf("child caret = %d, want 2", child.Caret)
	}

	// First character of the trailing leaf maps back past the placeholder.
	if err := n.SetCursor(13); err != nil {
		t.Fatal(err)
	}
	if parent.Caret != 7 {
		t.Errorf("parent caret = %d, want 7", parent.Caret)
	}

	if err := n.SetCursor(n.Len()); !errors.Is(err, ErrOffsetOutOfRange) {
		t.Errorf("expected ErrOffsetOutOfRange, got %v", err)
	}
	if err := n.SetCursor(-1); !errors.Is(err, ErrOffsetOutOfRange) {
		t.Errorf("expected ErrOffsetOutOfRange, got %v", err)
	}
}

func TestNode_SetCursorAtEndOfText(t *testing.T) {
	text := platformtest.NewText("dog", 0)
	n := mustBuild(t, text)
	// The delimiter position maps to the end of the run.
	if err := n.SetCursor(3); err != nil {
		t.Fatal(err)
	}
	if text.Caret != 3 {
		t.Errorf("caret = %d, want 3", text.Caret)
	}
}

func TestNode_BoundingBox(t *testing.T) {
	child := platformtest.NewText("world", -1)
	child.Origin = platform.Point{X: 100, Y: 40}
	parent := platformtest.Compose(0, "Hello ", child, "!")
	n := mustBuild(t, parent)

	box, err := n.BoundingBox(4)
	if err != nil {
		t.Fatal(err)
	}
	if box != (platform.BoundingBox{X: 40, Y: 0, Width: 10, Height: 20}) {
		t.Errorf("BoundingBox(4) = %v", box)
	}

	box, err = n.BoundingBox(8)
	if err != nil {
		t.Fatal(err)
	}
	if box != (platform.BoundingBox{X: 110, Y: 40, Width: 10, Height: 20}) {
		t.Errorf("BoundingBox(8) = %v", box)
	}

	if _, err := n.BoundingBox(100); !errors.Is(err, ErrOffsetOutOfRange) {
		t.Errorf("expected ErrOffsetOutOfRange, got %v", err)
	}
}

func TestNode_SelectRange(t *testing.T) {
	t.Run("single leaf", func(t *testing.T) {
		text := platformtest.NewText("dog elephant tiger", 0)
		n := mustBuild(t, text)
		if err := n.SelectRange(4, 12); err != nil {
			t.Fatal(err)
		}
		if text.Selection != [2]int{4, 12} {
			t.Errorf("Selection = %v, want [4 12]", text.Selection)
		}
	})

	t.Run("inside embedded object", func(t *testing.T) {
		child := platformtest.NewText("world", -1)
		parent := platformtest.Compose(0, "Hello ", child, "!")
		n := mustBuild(t, parent)
		if err := n.SelectRange(8, 11); err != nil {
			t.Fatal(err)
		}
		if child.Selection != [2]int{1, 4} {
			t.Errorf("child Selection = %v, want [1 4]", child.Selection)
		}
		if parent.Selections != 0 {
			t.Error("parent should not be selected")
		}
	})

	t.Run("across sibling leaves", func(t *testing.T) {
		child := platformtest.NewText("world", -1)
		parent := platformtest.Compose(0, "Hello ", child, "!?")
		n := mustBuild(t, parent)
		// "llo " ... "!" spans leaf, object, leaf of the same native text.
		if err := n.SelectRange(2, 14); err != nil {
			t.Fatal(err)
		}
		if parent.Selection != [2]int{2, 8} {
			t.Errorf("parent Selection = %v, want [2 8]", parent.Selection)
		}
	})

	t.Run("leaf into embedded object", func(t *testing.T) {
		child := platformtest.NewText("world", -1)
		parent := platformtest.Compose(0, "Hello ", child, "!")
		n := mustBuild(t, parent)
		if err := n.SelectRange(2, 9); !errors.Is(err, ErrUnsupportedSelection) {
			t.Errorf("expected ErrUnsupportedSelection, got %v", err)
		}
	})
}

func TestNode_Slice(t *testing.T) {
	n := mustBuild(t, platformtest.NewText("héllo wörld", 0))
	if got := n.Slice(6, 11); got != "wörld" {
		t.Errorf("Slice(6, 11) = %q, want %q", got, "wörld")
	}
	if got := n.Slice(0, 5); got != "héllo" {
		t.Errorf("Slice(0, 5) = %q, want %q", got, "héllo")
	}
	if got := n.Slice(5, 5); got != "" {
		t.Errorf("Slice(5, 5) = %q, want empty", got)
	}
	if got := n.Slice(6, 100); got != "wörld¦" {
		t.Errorf("Slice(6, 100) = %q, want %q", got, "wörld¦")
	}
}

func TestNode_String(t *testing.T) {
	child := platformtest.NewText("b", -1)
	n := mustBuild(t, platformtest.Compose(-1, "a", child, "c"))
	if got, want := n.String(), "(a¦, (b¦), c¦)"; got != want {
		t.Errorf("String = %q, want %q", got, want)
	}
}
