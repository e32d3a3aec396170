// Package annotation provides the annotation data model and the mutable
// store that owns one image's annotation set during an editing session.
package annotation

import (
	"github.com/google/uuid"

	"stylemark/pkg/geometry"
)

// Kind discriminates the annotation types so hit-testing, rendering and
// store addressing can switch exhaustively instead of type-asserting.
type Kind int

const (
	KindPath Kind = iota
	KindText
	KindIcon
	KindRect
	KindMeasurement
	KindComparison
)

func (k Kind) String() string {
	switch k {
	case KindPath:
		return "path"
	case KindText:
		return "text"
	case KindIcon:
		return "icon"
	case KindRect:
		return "rect"
	case KindMeasurement:
		return "measurement"
	case KindComparison:
		return "comparison"
	default:
		return "unknown"
	}
}

// IconKind selects the glyph drawn for an icon annotation.
type IconKind string

const (
	IconTick  IconKind = "tick"
	IconCross IconKind = "cross"
)

// Path is a freehand stroke. Once committed it is only replaced whole,
// never edited point by point.
type Path struct {
	ID     string             `json:"id"`
	Points []geometry.Point2D `json:"points"`
	Color  string             `json:"color"`
}

// Text is a label rendered as a rounded chip centered on its anchor.
type Text struct {
	ID      string           `json:"id"`
	Content string           `json:"content"`
	Anchor  geometry.Point2D `json:"anchor"`
	Color   string           `json:"color"`
}

// Icon is a tick or cross glyph centered on its anchor.
type Icon struct {
	ID     string           `json:"id"`
	Kind   IconKind         `json:"kind"`
	Anchor geometry.Point2D `json:"anchor"`
}

// Rect is an outlined rectangle. Start and end are opposite corners
// stored exactly as drawn; consumers normalize with min/max.
type Rect struct {
	ID    string           `json:"id"`
	Start geometry.Point2D `json:"start"`
	End   geometry.Point2D `json:"end"`
	Color string           `json:"color"`
}

// Measurement is a calibrated line with perpendicular end caps and a
// value chip rotated to follow the line.
type Measurement struct {
	ID    string           `json:"id"`
	Start geometry.Point2D `json:"start"`
	End   geometry.Point2D `json:"end"`
	Value string           `json:"value"`
}

// Comparison is a measurement carrying a current and a target value,
// rendered with a wider "current -> target" chip.
type Comparison struct {
	ID      string           `json:"id"`
	Start   geometry.Point2D `json:"start"`
	End     geometry.Point2D `json:"end"`
	Current string           `json:"current"`
	Target  string           `json:"target"`
}

// NewID returns a process-unique annotation id. IDs are stable for the
// annotation's lifetime and never reused after deletion.
func NewID() string {
	return uuid.NewString()
}

// Hit reports whether the point falls inside the text chip's tolerance box.
func (t Text) Hit(p geometry.Point2D) bool {
	return geometry.WithinTolerance(t.Anchor, p, geometry.TextHitRadius)
}

// Hit reports whether the point falls inside the icon's tolerance box.
func (i Icon) Hit(p geometry.Point2D) bool {
	return geometry.WithinTolerance(i.Anchor, p, geometry.IconHitRadius)
}

// Hit reports whether the point falls inside the rectangle's expanded bounds.
func (r Rect) Hit(p geometry.Point2D) bool {
	return geometry.SegmentBounds(r.Start, r.End, geometry.BoxHitMargin).Contains(p)
}

// Hit reports whether the point falls inside the measurement's expanded bounds.
// Zero-length measurements still register via the margin.
func (m Measurement) Hit(p geometry.Point2D) bool {
	return geometry.SegmentBounds(m.Start, m.End, geometry.BoxHitMargin).Contains(p)
}

// Hit reports whether the point falls inside the comparison's expanded bounds.
func (c Comparison) Hit(p geometry.Point2D) bool {
	return geometry.SegmentBounds(c.Start, c.End, geometry.BoxHitMargin).Contains(p)
}
