package geometry

import (
	"math"
)

// Hit tolerances in display pixels. Text and icon targets use an
// axis-aligned tolerance box around the anchor rather than a circle,
// which makes small targets easier to hit than their visual size.
const (
	TextHitRadius = 50.0
	IconHitRadius = 30.0
	BoxHitMargin  = 30.0
)

// Segment is a line segment between two points.
type Segment struct {
	A Point2D
	B Point2D
}

// WithinTolerance reports whether p lies inside the axis-aligned
// tolerance box of the given radius centered on anchor.
func WithinTolerance(anchor, p Point2D, radius float64) bool {
	return math.Abs(p.X-anchor.X) <= radius && math.Abs(p.Y-anchor.Y) <= radius
}

// SegmentBounds returns the min/max-normalized bounding box of the two
// endpoints expanded by the margin. Endpoints are stored as drawn, so
// start is not necessarily the top-left corner.
func SegmentBounds(a, b Point2D, margin float64) Rect {
	minX := math.Min(a.X, b.X)
	minY := math.Min(a.Y, b.Y)
	maxX := math.Max(a.X, b.X)
	maxY := math.Max(a.Y, b.Y)
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}.Expand(margin)
}

// Direction returns the unit vector from start to end. A zero-length
// segment degrades to the horizontal direction so downstream rotation
// math never divides by zero.
func Direction(start, end Point2D) Point2D {
	d := end.Sub(start)
	length := math.Hypot(d.X, d.Y)
	if length == 0 {
		return Point2D{X: 1, Y: 0}
	}
	return Point2D{X: d.X / length, Y: d.Y / length}
}

// PerpendicularCaps returns the two end-cap segments of the given
// length, centered on start and end respectively and perpendicular to
// the start-to-end direction. These are the measurement "tick" caps.
func PerpendicularCaps(start, end Point2D, length float64) (Segment, Segment) {
	dir := Direction(start, end)
	perp := Point2D{X: -dir.Y, Y: dir.X}
	half := perp.Scale(length / 2)

	startCap := Segment{A: start.Sub(half), B: start.Add(half)}
	endCap := Segment{A: end.Sub(half), B: end.Add(half)}
	return startCap, endCap
}

// LabelPlacement returns the rotation angle in degrees and the midpoint
// for a label attached to the segment. The angle is normalized into
// (-90, 90] so label text is never rendered upside down. A zero-length
// segment yields angle 0.
func LabelPlacement(start, end Point2D) (angleDeg float64, mid Point2D) {
	mid = Point2D{X: (start.X + end.X) / 2, Y: (start.Y + end.Y) / 2}
	if start == end {
		return 0, mid
	}

	angleDeg = math.Atan2(end.Y-start.Y, end.X-start.X) * 180 / math.Pi
	for angleDeg <= -90 {
		angleDeg += 180
	}
	for angleDeg > 90 {
		angleDeg -= 180
	}
	return angleDeg, mid
}
