package render

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stylemark/internal/annotation"
	"stylemark/pkg/geometry"
)

func testPhoto(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 255
	}
	return img
}

func TestFlattenNilPhoto(t *testing.T) {
	_, err := Flatten(nil, annotation.NewSet(), New())

	var rerr *RenderError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, "flatten", rerr.Stage)
}

func TestFlattenZeroSizePhoto(t *testing.T) {
	_, err := Flatten(image.NewRGBA(image.Rect(0, 0, 0, 0)), annotation.NewSet(), New())

	var rerr *RenderError
	require.ErrorAs(t, err, &rerr)
}

func TestFlattenPreservesSize(t *testing.T) {
	flat, err := Flatten(testPhoto(320, 240), annotation.NewSet(), New())
	require.NoError(t, err)
	assert.Equal(t, 320, flat.Bounds().Dx())
	assert.Equal(t, 240, flat.Bounds().Dy())
}

func TestFlattenDrawsAnnotations(t *testing.T) {
	set := &annotation.Set{
		Paths: []annotation.Path{{
			ID:     "p1",
			Points: []geometry.Point2D{{X: 10, Y: 100}, {X: 300, Y: 100}},
			Color:  "#e63946",
		}},
	}

	flat, err := Flatten(testPhoto(320, 240), set, New())
	require.NoError(t, err)

	// The stroke midpoint carries the path color instead of black.
	c := flat.RGBAAt(150, 100)
	assert.Equal(t, color.RGBA{R: 230, G: 57, B: 70, A: 255}, c)

	// Away from the stroke the photo is untouched.
	assert.Equal(t, uint8(0), flat.RGBAAt(150, 200).R)
}

func TestFlattenZeroLengthMeasurement(t *testing.T) {
	set := &annotation.Set{
		Measurements: []annotation.Measurement{{
			ID:    "m1",
			Start: geometry.Point2D{X: 50, Y: 50},
			End:   geometry.Point2D{X: 50, Y: 50},
			Value: "0 cm",
		}},
	}

	// Degenerate geometry must render without panicking.
	flat, err := Flatten(testPhoto(200, 200), set, New())
	require.NoError(t, err)
	require.NotNil(t, flat)
}

func TestFlattenAllKinds(t *testing.T) {
	set := &annotation.Set{
		Paths:        []annotation.Path{{ID: "p", Points: []geometry.Point2D{{X: 5, Y: 5}, {X: 50, Y: 50}}, Color: "#e63946"}},
		Texts:        []annotation.Text{{ID: "t", Content: "hem", Anchor: geometry.Point2D{X: 200, Y: 60}, Color: "#2a9d50"}},
		Icons:        []annotation.Icon{{ID: "i", Kind: annotation.IconCross, Anchor: geometry.Point2D{X: 300, Y: 60}}},
		Rects:        []annotation.Rect{{ID: "r", Start: geometry.Point2D{X: 20, Y: 120}, End: geometry.Point2D{X: 120, Y: 200}, Color: "#2654dc"}},
		Measurements: []annotation.Measurement{{ID: "m", Start: geometry.Point2D{X: 150, Y: 150}, End: geometry.Point2D{X: 350, Y: 250}, Value: "42 cm"}},
		Comparisons:  []annotation.Comparison{{ID: "c", Start: geometry.Point2D{X: 30, Y: 280}, End: geometry.Point2D{X: 330, Y: 280}, Current: "44 cm", Target: "42 cm"}},
	}

	flat, err := Flatten(testPhoto(400, 320), set, New())
	require.NoError(t, err)
	require.NotNil(t, flat)
}

func TestRenderLayerOrder(t *testing.T) {
	// A text chip, a rectangle edge and a measurement line all cross
	// (50, 50). Kinds stack back to front: paths, texts, icons,
	// rectangles, measurements, comparisons.
	text := annotation.Text{ID: "t", Content: "hem", Anchor: geometry.Point2D{X: 50, Y: 50}, Color: "#2654dc"}
	rect := annotation.Rect{ID: "r", Start: geometry.Point2D{X: 20, Y: 50}, End: geometry.Point2D{X: 80, Y: 80}, Color: "#2a9d50"}
	meas := annotation.Measurement{ID: "m", Start: geometry.Point2D{X: 20, Y: 50}, End: geometry.Point2D{X: 80, Y: 50}, Value: ""}

	dst := testPhoto(100, 100)
	New().Render(dst, &annotation.Set{Texts: []annotation.Text{text}, Rects: []annotation.Rect{rect}}, nil)
	assert.Equal(t, color.RGBA{R: 42, G: 157, B: 80, A: 255}, dst.RGBAAt(50, 50),
		"rectangle stroke covers the text chip")

	dst = testPhoto(100, 100)
	New().Render(dst, &annotation.Set{
		Texts:        []annotation.Text{text},
		Rects:        []annotation.Rect{rect},
		Measurements: []annotation.Measurement{meas},
	}, nil)
	assert.Equal(t, color.RGBA{R: 230, G: 57, B: 70, A: 255}, dst.RGBAAt(50, 50),
		"measurement line covers the rectangle")
}

func TestRenderPendingOnTop(t *testing.T) {
	dst := testPhoto(100, 100)
	pending := &annotation.Set{
		Paths: []annotation.Path{{Points: []geometry.Point2D{{X: 10, Y: 50}, {X: 90, Y: 50}}, Color: "#ffc800"}},
	}

	New().Render(dst, annotation.NewSet(), pending)
	assert.Equal(t, color.RGBA{R: 255, G: 200, B: 0, A: 255}, dst.RGBAAt(50, 50))
}

func TestEncodeThumbnailScalesDown(t *testing.T) {
	flat, err := Flatten(testPhoto(800, 400), annotation.NewSet(), New())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, EncodeThumbnail(&buf, flat, 200))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 200, img.Bounds().Dx())
	assert.Equal(t, 100, img.Bounds().Dy())
}

func TestEncodeThumbnailKeepsSmallImages(t *testing.T) {
	flat, err := Flatten(testPhoto(100, 80), annotation.NewSet(), New())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, EncodeThumbnail(&buf, flat, 200))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 100, img.Bounds().Dx())
}

func TestEncodeThumbnailNil(t *testing.T) {
	var buf bytes.Buffer
	err := EncodeThumbnail(&buf, nil, 200)

	var rerr *RenderError
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, "encode", rerr.Stage)
}

func TestRenderErrorUnwrap(t *testing.T) {
	inner := errors.New("disk full")
	err := &RenderError{Stage: "write", Err: inner}

	assert.ErrorIs(t, err, inner)
	assert.Contains(t, err.Error(), "write")
	assert.Contains(t, err.Error(), "disk full")
}
