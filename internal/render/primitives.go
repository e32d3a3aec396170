package render

import (
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// drawLine draws a thick line between two points using Bresenham's algorithm.
func drawLine(output *image.RGBA, x1, y1, x2, y2 int, col color.RGBA, thickness int) {
	bounds := output.Bounds()

	dx := x2 - x1
	dy := y2 - y1
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}

	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy

	for {
		// Draw thick point
		for t := -thickness / 2; t <= thickness/2; t++ {
			for s := -thickness / 2; s <= thickness/2; s++ {
				px, py := x1+s, y1+t
				if px >= bounds.Min.X && px < bounds.Max.X && py >= bounds.Min.Y && py < bounds.Max.Y {
					output.Set(px, py, col)
				}
			}
		}

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// drawRectOutline draws a rectangle outline of the given thickness. The
// rectangle is normalized so either corner ordering works.
func drawRectOutline(output *image.RGBA, x1, y1, x2, y2 int, col color.RGBA, thickness int) {
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	if y1 > y2 {
		y1, y2 = y2, y1
	}

	bounds := output.Bounds()
	for t := 0; t < thickness; t++ {
		// Top and bottom edges
		for x := x1; x <= x2; x++ {
			if x >= bounds.Min.X && x < bounds.Max.X {
				if y1+t >= bounds.Min.Y && y1+t < bounds.Max.Y {
					output.Set(x, y1+t, col)
				}
				if y2-t >= bounds.Min.Y && y2-t < bounds.Max.Y {
					output.Set(x, y2-t, col)
				}
			}
		}
		// Left and right edges
		for y := y1; y <= y2; y++ {
			if y >= bounds.Min.Y && y < bounds.Max.Y {
				if x1+t >= bounds.Min.X && x1+t < bounds.Max.X {
					output.Set(x1+t, y, col)
				}
				if x2-t >= bounds.Min.X && x2-t < bounds.Max.X {
					output.Set(x2-t, y, col)
				}
			}
		}
	}
}

// fillRoundedRect fills a rectangle with rounded corners of the given radius.
func fillRoundedRect(output *image.RGBA, x1, y1, x2, y2 int, col color.RGBA, radius int) {
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	if y1 > y2 {
		y1, y2 = y2, y1
	}

	bounds := output.Bounds()
	r2 := radius * radius
	for y := y1; y <= y2; y++ {
		if y < bounds.Min.Y || y >= bounds.Max.Y {
			continue
		}
		for x := x1; x <= x2; x++ {
			if x < bounds.Min.X || x >= bounds.Max.X {
				continue
			}
			// Corner cut: distance check against the corner circle centers.
			cx, cy := x, y
			if x < x1+radius && y < y1+radius {
				cx, cy = x1+radius, y1+radius
			} else if x > x2-radius && y < y1+radius {
				cx, cy = x2-radius, y1+radius
			} else if x < x1+radius && y > y2-radius {
				cx, cy = x1+radius, y2-radius
			} else if x > x2-radius && y > y2-radius {
				cx, cy = x2-radius, y2-radius
			}
			ddx := x - cx
			ddy := y - cy
			if ddx*ddx+ddy*ddy > r2 {
				continue
			}
			output.Set(x, y, col)
		}
	}
}

var chipFace = basicfont.Face7x13

// measureText returns the pixel width of the string in the chip font.
func measureText(s string) int {
	d := &font.Drawer{Face: chipFace}
	return d.MeasureString(s).Ceil()
}

// drawText draws the string centered on (cx, cy).
func drawText(output *image.RGBA, s string, cx, cy int, col color.RGBA) {
	width := measureText(s)
	metrics := chipFace.Metrics()
	d := &font.Drawer{
		Dst:  output,
		Src:  image.NewUniform(col),
		Face: chipFace,
	}
	baseline := cy + (metrics.Ascent.Ceil()-metrics.Descent.Ceil())/2
	d.Dot = fixed.P(cx-width/2, baseline)
	d.DrawString(s)
}

// drawTick draws a check-mark glyph centered on (cx, cy).
func drawTick(output *image.RGBA, cx, cy int, col color.RGBA, size, thickness int) {
	// Short arm down-right, long arm up-right.
	drawLine(output, cx-size, cy, cx-size/3, cy+size*2/3, col, thickness)
	drawLine(output, cx-size/3, cy+size*2/3, cx+size, cy-size*2/3, col, thickness)
}

// drawCross draws an X glyph centered on (cx, cy).
func drawCross(output *image.RGBA, cx, cy int, col color.RGBA, size, thickness int) {
	drawLine(output, cx-size, cy-size, cx+size, cy+size, col, thickness)
	drawLine(output, cx-size, cy+size, cx+size, cy-size, col, thickness)
}
