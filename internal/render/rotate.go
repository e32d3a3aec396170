package render

import (
	"image"
	"math"

	"gonum.org/v1/gonum/mat"
)

// rotationMatrix builds the 2x2 rotation matrix for the angle in degrees.
func rotationMatrix(angleDeg float64) *mat.Dense {
	rad := angleDeg * math.Pi / 180
	cos := math.Cos(rad)
	sin := math.Sin(rad)
	return mat.NewDense(2, 2, []float64{
		cos, -sin,
		sin, cos,
	})
}

// blitRotated draws the sprite onto dst rotated by angleDeg around the
// sprite's center, which lands on (cx, cy). Destination pixels are
// inverse-mapped back into the sprite with nearest-neighbor sampling so
// the rotated image has no holes.
func blitRotated(dst *image.RGBA, sprite *image.RGBA, cx, cy int, angleDeg float64) {
	sb := sprite.Bounds()
	sw := sb.Dx()
	sh := sb.Dy()
	if sw == 0 || sh == 0 {
		return
	}

	// Inverse of a rotation is its transpose.
	var inv mat.Dense
	inv.CloneFrom(rotationMatrix(angleDeg).T())

	// Conservative destination footprint: the sprite's half-diagonal.
	radius := int(math.Ceil(math.Hypot(float64(sw), float64(sh)) / 2))

	db := dst.Bounds()
	scx := float64(sw) / 2
	scy := float64(sh) / 2

	for dy := -radius; dy <= radius; dy++ {
		py := cy + dy
		if py < db.Min.Y || py >= db.Max.Y {
			continue
		}
		for dx := -radius; dx <= radius; dx++ {
			px := cx + dx
			if px < db.Min.X || px >= db.Max.X {
				continue
			}
			src := mat.NewVecDense(2, []float64{float64(dx), float64(dy)})
			var mapped mat.VecDense
			mapped.MulVec(&inv, src)

			sx := int(math.Floor(mapped.AtVec(0) + scx))
			sy := int(math.Floor(mapped.AtVec(1) + scy))
			if sx < 0 || sx >= sw || sy < 0 || sy >= sh {
				continue
			}
			c := sprite.RGBAAt(sb.Min.X+sx, sb.Min.Y+sy)
			if c.A == 0 {
				continue
			}
			dst.SetRGBA(px, py, c)
		}
	}
}
