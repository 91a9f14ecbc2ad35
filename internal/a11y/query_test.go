package a11y

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/mj1618/desktop-text/internal/phrase"
	"github.com/mj1618/desktop-text/internal/platform"
	"github.com/mj1618/desktop-text/internal/platform/platformtest"
	"github.com/mj1618/desktop-text/internal/texttree"
)

const animals = "dog elephant tiger"

var animalsQuery = phrase.Full("elephant")

// animalsText lays "dog elephant tiger" out at (100, 50) with 10px wide,
// 20px tall characters.
func animalsText(caret int) *platformtest.Text {
	text := platformtest.NewText(animals, caret)
	text.Origin = platform.Point{X: 100, Y: 50}
	return text
}

func focusedOn(t *testing.T, text *platformtest.Text) *Dispatcher {
	t.Helper()
	d, _ := withFocus(t, &platformtest.Accessible{Content: text, Editable: true})
	return d
}

func TestGetTextInfo(t *testing.T) {
	tests := []struct {
		name   string
		caret  int
		query  phrase.TextQuery
		want   string
		start  int
		end    int
		startP platform.Point
		endP   platform.Point
	}{
		{"full phrase", -1, phrase.Full("elephant"), "elephant", 4, 12, platform.Point{X: 140, Y: 60}, platform.Point{X: 220, Y: 60}},
		{"range", -1, phrase.Between("dog", "tiger"), "dog elephant tiger", 0, 18, platform.Point{X: 100, Y: 60}, platform.Point{X: 280, Y: 60}},
		{"through from caret", 0, phrase.Through("elephant"), "dog elephant", 0, 12, platform.Point{X: 100, Y: 60}, platform.Point{X: 220, Y: 60}},
		{"through to caret", 18, phrase.Through("elephant"), "elephant tiger", 4, 18, platform.Point{X: 140, Y: 60}, platform.Point{X: 280, Y: 60}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := focusedOn(t, animalsText(tt.caret))
			info, err := GetTextInfo(context.Background(), d, tt.query)
			if err != nil {
				t.Fatalf("GetTextInfo: %v", err)
			}
			if info == nil {
				t.Fatal("expected a match")
			}
			if info.Text != tt.want || info.Start != tt.start || info.End != tt.end {
				t.Errorf("got %q [%d,%d), want %q [%d,%d)", info.Text, info.Start, info.End, tt.want, tt.start, tt.end)
			}
			if !info.HasPoints() {
				t.Fatal("expected screen points")
			}
			if *info.StartPoint != tt.startP || *info.EndPoint != tt.endP {
				t.Errorf("points %+v -> %+v, want %+v -> %+v", *info.StartPoint, *info.EndPoint, tt.startP, tt.endP)
			}
		})
	}
}

func TestGetTextInfo_Idempotent(t *testing.T) {
	d := focusedOn(t, animalsText(0))
	first, err := GetTextInfo(context.Background(), d, animalsQuery)
	if err != nil {
		t.Fatal(err)
	}
	second, err := GetTextInfo(context.Background(), d, animalsQuery)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("results differ: %+v vs %+v", first, second)
	}
}

func TestGetTextInfo_Offscreen(t *testing.T) {
	text := animalsText(0)
	text.Origin = platform.Point{X: -500, Y: 40}
	d := focusedOn(t, text)

	info, err := GetTextInfo(context.Background(), d, animalsQuery)
	if err != nil || info == nil {
		t.Fatalf("GetTextInfo: info=%v err=%v", info, err)
	}
	if info.Text != "elephant" {
		t.Errorf("text = %q", info.Text)
	}
	if info.StartPoint != nil || info.EndPoint != nil {
		t.Errorf("expected no points for off-screen text, got %v %v", info.StartPoint, info.EndPoint)
	}
}

func TestGetTextInfo_Absent(t *testing.T) {
	tests := []struct {
		name  string
		caret int
		query phrase.TextQuery
	}{
		{"not found", 0, phrase.Full("zebra")},
		{"through without caret", -1, phrase.Through("elephant")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := focusedOn(t, animalsText(tt.caret))
			info, err := GetTextInfo(context.Background(), d, tt.query)
			if err != nil || info != nil {
				t.Errorf("got info=%v err=%v, want absent", info, err)
			}
		})
	}
}

func TestQueries_RejectInvalidQuery(t *testing.T) {
	// Validation happens before the dispatcher is involved.
	d := New(platformtest.NewSubsystem(), testOptions())
	bad := phrase.TextQuery{FullPhrase: "dog", StartPhrase: "cat", EndPhrase: "tiger"}
	ctx := context.Background()

	if _, err := MoveCursor(ctx, d, bad, BoundaryStart); !errors.Is(err, phrase.ErrInvalidQuery) {
		t.Errorf("MoveCursor: expected ErrInvalidQuery, got %v", err)
	}
	if _, err := GetTextInfo(ctx, d, bad); !errors.Is(err, phrase.ErrInvalidQuery) {
		t.Errorf("GetTextInfo: expected ErrInvalidQuery, got %v", err)
	}
	if _, err := SelectText(ctx, d, bad); !errors.Is(err, phrase.ErrInvalidQuery) {
		t.Errorf("SelectText: expected ErrInvalidQuery, got %v", err)
	}
}

func TestSetCursorOffset(t *testing.T) {
	text := animalsText(0)
	d := focusedOn(t, text)
	ctx := context.Background()

	ok, err := SetCursorOffset(ctx, d, 7)
	if err != nil || !ok {
		t.Fatalf("SetCursorOffset: ok=%v err=%v", ok, err)
	}
	if text.Caret != 7 {
		t.Errorf("caret = %d, want 7", text.Caret)
	}
	if offset, _, _ := GetCursorOffset(ctx, d); offset != 7 {
		t.Errorf("GetCursorOffset = %d, want 7", offset)
	}

	if _, err := SetCursorOffset(ctx, d, 500); !errors.Is(err, texttree.ErrOffsetOutOfRange) {
		t.Errorf("expected ErrOffsetOutOfRange, got %v", err)
	}
}

func TestGetCursorOffset_Embedded(t *testing.T) {
	child := platformtest.NewText("elephant", 2)
	root := platformtest.Compose(4, "dog ", child, " tiger")
	d := focusedOn(t, root)

	offset, ok, err := GetCursorOffset(context.Background(), d)
	if err != nil || !ok {
		t.Fatalf("GetCursorOffset: ok=%v err=%v", ok, err)
	}
	// "dog " plus its delimiter, then two characters into the child.
	if offset != 7 {
		t.Errorf("offset = %d, want 7", offset)
	}
}

func TestMoveCursor(t *testing.T) {
	tests := []struct {
		boundary Boundary
		want     int
	}{
		{BoundaryStart, 4},
		{BoundaryEnd, 12},
	}
	for _, tt := range tests {
		t.Run(tt.boundary.String(), func(t *testing.T) {
			text := animalsText(0)
			d := focusedOn(t, text)
			ok, err := MoveCursor(context.Background(), d, animalsQuery, tt.boundary)
			if err != nil || !ok {
				t.Fatalf("MoveCursor: ok=%v err=%v", ok, err)
			}
			if text.Caret != tt.want {
				t.Errorf("caret = %d, want %d", text.Caret, tt.want)
			}
		})
	}
}

func TestMoveCursor_NotFoundLeavesCaret(t *testing.T) {
	text := animalsText(3)
	d := focusedOn(t, text)
	ok, err := MoveCursor(context.Background(), d, phrase.Full("zebra"), BoundaryEnd)
	if err != nil || ok {
		t.Fatalf("MoveCursor: ok=%v err=%v, want not found", ok, err)
	}
	if text.Caret != 3 {
		t.Errorf("caret moved to %d", text.Caret)
	}
}

func TestSelectText_Native(t *testing.T) {
	text := animalsText(0)
	d := focusedOn(t, text)

	sel, err := SelectText(context.Background(), d, animalsQuery)
	if err != nil || sel == nil {
		t.Fatalf("SelectText: sel=%v err=%v", sel, err)
	}
	if !sel.Selected {
		t.Fatal("expected native selection")
	}
	if text.Selection != [2]int{4, 12} {
		t.Errorf("native selection = %v, want [4 12]", text.Selection)
	}
	if sel.Text != "elephant" {
		t.Errorf("text = %q", sel.Text)
	}
}

func TestSelectText_AcrossEmbeddedObject(t *testing.T) {
	child := platformtest.NewText("elephant", -1)
	child.Origin = platform.Point{X: 150, Y: 50}
	root := platformtest.Compose(0, "dog ", child, " tiger")
	root.Origin = platform.Point{X: 100, Y: 50}
	d := focusedOn(t, root)
	ctx := context.Background()

	// Both ends in the root's own text: one native call with root offsets.
	sel, err := SelectText(ctx, d, phrase.Between("dog", "tiger"))
	if err != nil || sel == nil || !sel.Selected {
		t.Fatalf("SelectText: sel=%+v err=%v", sel, err)
	}
	if root.Selection != [2]int{0, 11} {
		t.Errorf("root selection = %v, want [0 11]", root.Selection)
	}

	// One end inside the embedded object: coordinates for a drag instead.
	sel, err = SelectText(ctx, d, phrase.Full("dog elephant"))
	if err != nil || sel == nil {
		t.Fatalf("SelectText: sel=%+v err=%v", sel, err)
	}
	if sel.Selected {
		t.Fatal("expected no native selection across objects")
	}
	if !sel.HasPoints() {
		t.Fatal("expected drag coordinates")
	}
	if *sel.StartPoint != (platform.Point{X: 100, Y: 60}) {
		t.Errorf("start point = %+v", *sel.StartPoint)
	}
	// The last character, "t", is the eighth of the child.
	if *sel.EndPoint != (platform.Point{X: 230, Y: 60}) {
		t.Errorf("end point = %+v", *sel.EndPoint)
	}
	if root.Selections != 1 || child.Selections != 0 {
		t.Errorf("unexpected native selections: root %d, child %d", root.Selections, child.Selections)
	}
}

func TestSelectText_InsideEmbeddedObject(t *testing.T) {
	child := platformtest.NewText("big elephant", -1)
	root := platformtest.Compose(0, "dog ", child, " tiger")
	d := focusedOn(t, root)

	sel, err := SelectText(context.Background(), d, animalsQuery)
	if err != nil || sel == nil || !sel.Selected {
		t.Fatalf("SelectText: sel=%+v err=%v", sel, err)
	}
	if child.Selection != [2]int{4, 12} {
		t.Errorf("child selection = %v, want [4 12]", child.Selection)
	}
	if root.Selections != 0 {
		t.Errorf("root was selected %d times", root.Selections)
	}
}

func TestIsEditableFocused(t *testing.T) {
	for _, editable := range []bool{true, false} {
		d, _ := withFocus(t, &platformtest.Accessible{Content: animalsText(0), Editable: editable})
		got, err := IsEditableFocused(context.Background(), d)
		if err != nil {
			t.Fatalf("IsEditableFocused: %v", err)
		}
		if got != editable {
			t.Errorf("IsEditableFocused = %v, want %v", got, editable)
		}
	}
}

func TestParseBoundary(t *testing.T) {
	tests := []struct {
		in      string
		want    Boundary
		wantErr bool
	}{
		{"start", BoundaryStart, false},
		{"END", BoundaryEnd, false},
		{"", BoundaryStart, false},
		{"middle", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseBoundary(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseBoundary(%q) error = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseBoundary(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
