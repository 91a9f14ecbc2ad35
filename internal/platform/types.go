package platform

import "fmt"

// BoundingBox is a screen rectangle.
type BoundingBox struct {
	X, Y, Width, Height int
}

func (b BoundingBox) String() string {
	return fmt.Sprintf("x=%d, y=%d, width=%d, height=%d", b.X, b.Y, b.Width, b.Height)
}

// Offscreen reports whether the box has a negative origin. Some web
// applications report such boxes for clipped or virtualized text.
func (b BoundingBox) Offscreen() bool {
	return b.X < 0 || b.Y < 0
}

// LeftMiddle returns the point on the left edge at half height.
func (b BoundingBox) LeftMiddle() Point {
	return Point{X: b.X, Y: b.Y + b.Height/2}
}

// RightMiddle returns the point on the right edge at half height.
func (b BoundingBox) RightMiddle() Point {
	return Point{X: b.X + b.Width, Y: b.Y + b.Height/2}
}

// Point is a screen coordinate.
type Point struct {
	X int `yaml:"x" json:"x"`
	Y int `yaml:"y" json:"y"`
}
