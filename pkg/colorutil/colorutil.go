// Package colorutil provides shared color utilities for the StyleMark application.
package colorutil

import (
	"fmt"
	"image/color"
	"strings"
)

// Common annotation colors.
var (
	Black   = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	White   = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Red     = color.RGBA{R: 230, G: 57, B: 70, A: 255}
	Green   = color.RGBA{R: 42, G: 157, B: 80, A: 255}
	Blue    = color.RGBA{R: 38, G: 84, B: 220, A: 255}
	Yellow  = color.RGBA{R: 255, G: 200, B: 0, A: 255}
	Magenta = color.RGBA{R: 255, G: 0, B: 255, A: 255}
)

// Palette is the stroke color palette offered by the annotator toolbar.
var Palette = []color.RGBA{Red, Green, Blue, Yellow, Magenta, Black, White}

// ToHex formats a color as a #rrggbb string, the form annotations are
// serialized with.
func ToHex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// FromHex parses a #rrggbb (or rrggbb) string. Unparseable input falls
// back to Red so a corrupt color field never breaks rendering.
func FromHex(s string) color.RGBA {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return Red
	}
	var r, g, b uint8
	if _, err := fmt.Sscanf(s, "%02x%02x%02x", &r, &g, &b); err != nil {
		return Red
	}
	return color.RGBA{R: r, G: g, B: b, A: 255}
}
