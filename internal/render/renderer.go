// Package render rasterizes annotation sets onto RGBA images, both for
// the live editing canvas and for the flattened thumbnail written at
// save time. The same back-to-front pass serves both so what the user
// sees while editing is exactly what the thumbnail captures.
package render

import (
	"image"
	"image/color"

	"stylemark/internal/annotation"
	"stylemark/pkg/colorutil"
	"stylemark/pkg/geometry"
)

// Renderer holds the stroke styling shared by all annotation kinds.
type Renderer struct {
	// StrokeWidth is the line thickness in pixels for paths, rectangles
	// and measurement lines.
	StrokeWidth int
	// CapLength is the full length of the perpendicular end caps drawn
	// on measurement and comparison lines.
	CapLength float64
	// IconSize is the half-extent of tick and cross glyphs.
	IconSize int
}

// New returns a renderer with the default annotation styling.
func New() *Renderer {
	return &Renderer{
		StrokeWidth: 3,
		CapLength:   20,
		IconSize:    14,
	}
}

// Render draws the committed set and then the in-progress pending set
// (which may be nil) onto dst. Kinds are layered back to front: paths,
// text chips, icons, rectangles, measurements, comparisons.
func (r *Renderer) Render(dst *image.RGBA, set, pending *annotation.Set) {
	r.renderSet(dst, set)
	if pending != nil {
		r.renderSet(dst, pending)
	}
}

func (r *Renderer) renderSet(dst *image.RGBA, set *annotation.Set) {
	if set == nil {
		return
	}
	for i := range set.Paths {
		r.drawPath(dst, &set.Paths[i])
	}
	for i := range set.Texts {
		r.drawLabel(dst, &set.Texts[i])
	}
	for i := range set.Icons {
		r.drawIcon(dst, &set.Icons[i])
	}
	for i := range set.Rects {
		r.drawRect(dst, &set.Rects[i])
	}
	for i := range set.Measurements {
		r.drawMeasurement(dst, &set.Measurements[i])
	}
	for i := range set.Comparisons {
		r.drawComparison(dst, &set.Comparisons[i])
	}
}

func (r *Renderer) drawPath(dst *image.RGBA, p *annotation.Path) {
	col := colorutil.FromHex(p.Color)
	if len(p.Points) == 1 {
		pt := p.Points[0]
		drawLine(dst, int(pt.X), int(pt.Y), int(pt.X), int(pt.Y), col, r.StrokeWidth)
		return
	}
	for i := 1; i < len(p.Points); i++ {
		a := p.Points[i-1]
		b := p.Points[i]
		drawLine(dst, int(a.X), int(a.Y), int(b.X), int(b.Y), col, r.StrokeWidth)
	}
}

func (r *Renderer) drawRect(dst *image.RGBA, rect *annotation.Rect) {
	col := colorutil.FromHex(rect.Color)
	drawRectOutline(dst,
		int(rect.Start.X), int(rect.Start.Y),
		int(rect.End.X), int(rect.End.Y),
		col, r.StrokeWidth)
}

func (r *Renderer) drawIcon(dst *image.RGBA, ic *annotation.Icon) {
	cx, cy := int(ic.Anchor.X), int(ic.Anchor.Y)
	switch ic.Kind {
	case annotation.IconCross:
		drawCross(dst, cx, cy, colorutil.Red, r.IconSize, r.StrokeWidth)
	default:
		drawTick(dst, cx, cy, colorutil.Green, r.IconSize, r.StrokeWidth)
	}
}

func (r *Renderer) drawLabel(dst *image.RGBA, t *annotation.Text) {
	if t.Content == "" {
		return
	}
	col := colorutil.FromHex(t.Color)
	sprite := r.chipSprite(t.Content, col)
	b := sprite.Bounds()
	x := int(t.Anchor.X) - b.Dx()/2
	y := int(t.Anchor.Y) - b.Dy()/2
	blit(dst, sprite, x, y)
}

// drawMeasuredLine draws the shared line-with-caps body of measurement
// and comparison annotations, then the rotated value chip at the
// midpoint. An empty caption skips the chip.
func (r *Renderer) drawMeasuredLine(dst *image.RGBA, start, end geometry.Point2D, caption string) {
	col := colorutil.Red

	drawLine(dst, int(start.X), int(start.Y), int(end.X), int(end.Y), col, r.StrokeWidth)

	startCap, endCap := geometry.PerpendicularCaps(start, end, r.CapLength)
	drawLine(dst, int(startCap.A.X), int(startCap.A.Y), int(startCap.B.X), int(startCap.B.Y), col, r.StrokeWidth)
	drawLine(dst, int(endCap.A.X), int(endCap.A.Y), int(endCap.B.X), int(endCap.B.Y), col, r.StrokeWidth)

	if caption == "" {
		return
	}
	angle, mid := geometry.LabelPlacement(start, end)
	sprite := r.chipSprite(caption, col)
	blitRotated(dst, sprite, int(mid.X), int(mid.Y), angle)
}

func (r *Renderer) drawMeasurement(dst *image.RGBA, m *annotation.Measurement) {
	r.drawMeasuredLine(dst, m.Start, m.End, m.Value)
}

func (r *Renderer) drawComparison(dst *image.RGBA, c *annotation.Comparison) {
	caption := ""
	if c.Current != "" && c.Target != "" {
		caption = c.Current + " -> " + c.Target
	}
	r.drawMeasuredLine(dst, c.Start, c.End, caption)
}

// chipSprite rasterizes a rounded label chip with white text on the
// given background into its own image, so it can be blitted straight or
// rotated.
func (r *Renderer) chipSprite(text string, bg color.RGBA) *image.RGBA {
	const padX, padY, radius = 10, 6, 6

	w := measureText(text) + 2*padX
	h := chipFace.Metrics().Height.Ceil() + 2*padY
	sprite := image.NewRGBA(image.Rect(0, 0, w, h))

	fillRoundedRect(sprite, 0, 0, w-1, h-1, bg, radius)
	drawText(sprite, text, w/2, h/2, colorutil.White)
	return sprite
}

// blit copies the sprite onto dst at (x, y), skipping transparent pixels.
func blit(dst *image.RGBA, sprite *image.RGBA, x, y int) {
	b := sprite.Bounds()
	db := dst.Bounds()
	for sy := b.Min.Y; sy < b.Max.Y; sy++ {
		for sx := b.Min.X; sx < b.Max.X; sx++ {
			c := sprite.RGBAAt(sx, sy)
			if c.A == 0 {
				continue
			}
			px := x + sx - b.Min.X
			py := y + sy - b.Min.Y
			if px < db.Min.X || px >= db.Max.X || py < db.Min.Y || py >= db.Max.Y {
				continue
			}
			dst.SetRGBA(px, py, c)
		}
	}
}
