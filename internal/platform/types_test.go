package platform

import (
	"errors"
	"testing"
)

func TestBoundingBox_Points(t *testing.T) {
	b := BoundingBox{X: 100, Y: 50, Width: 8, Height: 17}
	if got := b.LeftMiddle(); got != (Point{100, 58}) {
		t.Errorf("LeftMiddle = %+v, want {100 58}", got)
	}
	if got := b.RightMiddle(); got != (Point{108, 58}) {
		t.Errorf("RightMiddle = %+v, want {108 58}", got)
	}
}

func TestBoundingBox_Offscreen(t *testing.T) {
	tests := []struct {
		box  BoundingBox
		want bool
	}{
		{BoundingBox{0, 0, 10, 10}, false},
		{BoundingBox{5, 7, 1, 1}, false},
		{BoundingBox{-1, 7, 1, 1}, true},
		{BoundingBox{5, -20, 1, 1}, true},
	}
	for _, tt := range tests {
		if got := tt.box.Offscreen(); got != tt.want {
			t.Errorf("%v.Offscreen() = %v, want %v", tt.box, got, tt.want)
		}
	}
}

func TestFocusLost_Resolve(t *testing.T) {
	acc, err := FocusLost{}.Resolve()
	if acc != nil || !errors.Is(err, ErrNothingFocused) {
		t.Errorf("Resolve = %v, %v; want nil, ErrNothingFocused", acc, err)
	}
}
