package render

import (
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"

	xdraw "golang.org/x/image/draw"

	"stylemark/internal/annotation"
)

// RenderError reports a failure while flattening or encoding the
// annotated image. Stage names the step that failed.
type RenderError struct {
	Stage string
	Err   error
}

func (e *RenderError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("render failed at %s", e.Stage)
	}
	return fmt.Sprintf("render failed at %s: %v", e.Stage, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// Flatten composites the photo and its annotation set into a new RGBA
// image at the photo's native resolution.
func Flatten(photo image.Image, set *annotation.Set, r *Renderer) (*image.RGBA, error) {
	if photo == nil {
		return nil, &RenderError{Stage: "flatten", Err: fmt.Errorf("no photo loaded")}
	}
	bounds := photo.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return nil, &RenderError{Stage: "flatten", Err: fmt.Errorf("photo has zero size")}
	}
	if r == nil {
		r = New()
	}

	out := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(out, out.Bounds(), photo, bounds.Min, draw.Src)
	r.Render(out, set, nil)
	return out, nil
}

// EncodeThumbnail scales the flattened image down so its longest side
// is at most maxDim and writes it as PNG. Images already within the
// bound are encoded unscaled.
func EncodeThumbnail(w io.Writer, flat *image.RGBA, maxDim int) error {
	if flat == nil {
		return &RenderError{Stage: "encode", Err: fmt.Errorf("nil image")}
	}

	out := image.Image(flat)
	fw := flat.Bounds().Dx()
	fh := flat.Bounds().Dy()
	if maxDim > 0 && (fw > maxDim || fh > maxDim) {
		scale := float64(maxDim) / float64(fw)
		if fh > fw {
			scale = float64(maxDim) / float64(fh)
		}
		tw := int(float64(fw) * scale)
		th := int(float64(fh) * scale)
		if tw < 1 {
			tw = 1
		}
		if th < 1 {
			th = 1
		}
		scaled := image.NewRGBA(image.Rect(0, 0, tw, th))
		xdraw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), flat, flat.Bounds(), xdraw.Src, nil)
		out = scaled
	}

	if err := png.Encode(w, out); err != nil {
		return &RenderError{Stage: "encode", Err: err}
	}
	return nil
}
