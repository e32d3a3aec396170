package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestWithinTolerance(t *testing.T) {
	anchor := Point2D{X: 100, Y: 100}

	assert.True(t, WithinTolerance(anchor, Point2D{X: 100, Y: 100}, TextHitRadius))
	assert.True(t, WithinTolerance(anchor, Point2D{X: 150, Y: 150}, TextHitRadius), "box corner is inside")
	assert.True(t, WithinTolerance(anchor, Point2D{X: 50, Y: 100}, TextHitRadius))
	assert.False(t, WithinTolerance(anchor, Point2D{X: 151, Y: 100}, TextHitRadius))
	assert.False(t, WithinTolerance(anchor, Point2D{X: 100, Y: 131}, IconHitRadius))
}

func TestSegmentBounds(t *testing.T) {
	// Endpoints in reverse order must give the same box.
	a := Point2D{X: 200, Y: 50}
	b := Point2D{X: 100, Y: 150}

	r1 := SegmentBounds(a, b, BoxHitMargin)
	r2 := SegmentBounds(b, a, BoxHitMargin)
	assert.Equal(t, r1, r2)

	assert.Equal(t, 70.0, r1.X)
	assert.Equal(t, 20.0, r1.Y)
	assert.Equal(t, 160.0, r1.Width)
	assert.Equal(t, 160.0, r1.Height)

	assert.True(t, r1.Contains(Point2D{X: 71, Y: 21}))
	assert.False(t, r1.Contains(Point2D{X: 69, Y: 100}))
}

func TestSegmentBoundsZeroLength(t *testing.T) {
	p := Point2D{X: 40, Y: 40}
	r := SegmentBounds(p, p, BoxHitMargin)

	// Degenerate segments still get a hittable box from the margin.
	assert.True(t, r.Contains(Point2D{X: 40, Y: 69}))
	assert.False(t, r.Contains(Point2D{X: 40, Y: 71}))
}

func TestDirectionZeroLength(t *testing.T) {
	p := Point2D{X: 5, Y: 5}
	assert.Equal(t, Point2D{X: 1, Y: 0}, Direction(p, p))
}

func TestPerpendicularCaps(t *testing.T) {
	start := Point2D{X: 0, Y: 0}
	end := Point2D{X: 100, Y: 0}

	startCap, endCap := PerpendicularCaps(start, end, 20)

	// Horizontal line gets vertical caps centered on the endpoints.
	assert.InDelta(t, 0.0, startCap.A.X, 1e-9)
	assert.InDelta(t, 10.0, startCap.A.Y, 1e-9)
	assert.InDelta(t, -10.0, startCap.B.Y, 1e-9)

	assert.InDelta(t, 100.0, endCap.A.X, 1e-9)
	assert.InDelta(t, 20.0, endCap.A.Distance(endCap.B), 1e-9)
}

func TestPerpendicularCapsAlwaysPerpendicular(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		start := Point2D{
			X: rapid.Float64Range(-1000, 1000).Draw(t, "sx"),
			Y: rapid.Float64Range(-1000, 1000).Draw(t, "sy"),
		}
		end := Point2D{
			X: rapid.Float64Range(-1000, 1000).Draw(t, "ex"),
			Y: rapid.Float64Range(-1000, 1000).Draw(t, "ey"),
		}
		if start == end {
			return
		}

		startCap, endCap := PerpendicularCaps(start, end, 20)

		dir := end.Sub(start)
		capDir := startCap.B.Sub(startCap.A)
		dot := dir.X*capDir.X + dir.Y*capDir.Y
		require.InDelta(t, 0.0, dot/start.Distance(end), 1e-6, "cap not perpendicular")

		require.InDelta(t, 20.0, startCap.A.Distance(startCap.B), 1e-9)
		require.InDelta(t, 20.0, endCap.A.Distance(endCap.B), 1e-9)
	})
}

func TestLabelPlacement(t *testing.T) {
	tests := []struct {
		name      string
		start     Point2D
		end       Point2D
		wantAngle float64
	}{
		{"horizontal", Point2D{0, 0}, Point2D{100, 0}, 0},
		{"diagonal down-right", Point2D{0, 0}, Point2D{100, 100}, 45},
		{"vertical down", Point2D{0, 0}, Point2D{0, 100}, 90},
		{"right to left", Point2D{100, 0}, Point2D{0, 0}, 0},
		{"up-left flips readable", Point2D{0, 0}, Point2D{-10, -10}, 45},
		{"vertical up normalizes", Point2D{0, 100}, Point2D{0, 0}, 90},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			angle, mid := LabelPlacement(tt.start, tt.end)
			assert.InDelta(t, tt.wantAngle, angle, 1e-9)
			assert.InDelta(t, (tt.start.X+tt.end.X)/2, mid.X, 1e-9)
			assert.InDelta(t, (tt.start.Y+tt.end.Y)/2, mid.Y, 1e-9)
		})
	}
}

func TestLabelPlacementZeroLength(t *testing.T) {
	angle, mid := LabelPlacement(Point2D{X: 7, Y: 9}, Point2D{X: 7, Y: 9})
	assert.Equal(t, 0.0, angle)
	assert.Equal(t, Point2D{X: 7, Y: 9}, mid)
}

func TestLabelPlacementRange(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		start := Point2D{
			X: rapid.Float64Range(-1e4, 1e4).Draw(t, "sx"),
			Y: rapid.Float64Range(-1e4, 1e4).Draw(t, "sy"),
		}
		end := Point2D{
			X: rapid.Float64Range(-1e4, 1e4).Draw(t, "ex"),
			Y: rapid.Float64Range(-1e4, 1e4).Draw(t, "ey"),
		}

		angle, _ := LabelPlacement(start, end)
		require.Greater(t, angle, -90.0)
		require.LessOrEqual(t, angle, 90.0)

		// The normalized angle keeps the line's slope modulo 180 degrees.
		if start != end {
			raw := math.Atan2(end.Y-start.Y, end.X-start.X) * 180 / math.Pi
			diff := math.Mod(raw-angle, 180)
			if diff < 0 {
				diff += 180
			}
			require.True(t, diff < 1e-6 || diff > 180-1e-6, "angle %v not congruent to %v", angle, raw)
		}
	})
}
