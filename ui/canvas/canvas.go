// Package canvas provides the annotation canvas: the photo with its
// annotations rendered on top, translating pointer events into gestures.
package canvas

import (
	"image"
	"image/draw"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"stylemark/internal/annotation"
	"stylemark/internal/gesture"
	"stylemark/internal/render"
	"stylemark/pkg/geometry"
)

const (
	minZoom  = 0.25
	maxZoom  = 8.0
	zoomStep = 1.25
)

// AnnotatorCanvas displays the photo with annotations composited on top
// and feeds pointer events to the gesture machine in image coordinates.
type AnnotatorCanvas struct {
	widget.BaseWidget

	photo    image.Image
	store    *annotation.Store
	machine  *gesture.Machine
	renderer *render.Renderer

	raster  *fynecanvas.Raster
	content *pointerContent
	scroll  *container.Scroll
	zoom    float64
	imgSize fyne.Size
}

// NewAnnotatorCanvas creates a canvas bound to a session's store,
// machine and renderer.
func NewAnnotatorCanvas(photo image.Image, store *annotation.Store, machine *gesture.Machine, renderer *render.Renderer) *AnnotatorCanvas {
	ac := &AnnotatorCanvas{
		photo:    photo,
		store:    store,
		machine:  machine,
		renderer: renderer,
		zoom:     1.0,
	}

	ac.raster = fynecanvas.NewRaster(ac.draw)
	ac.raster.ScaleMode = fynecanvas.ImageScalePixels

	ac.content = newPointerContent(ac, ac.raster)
	ac.scroll = container.NewScroll(ac.content)
	ac.scroll.Direction = container.ScrollBoth

	ac.updateContentSize()

	// Repaint whenever the store mutates or an in-progress shape moves.
	store.On(annotation.EventChanged, ac.Refresh)
	machine.OnChange(ac.Refresh)

	ac.ExtendBaseWidget(ac)
	return ac
}

// Container returns the scrollable canvas for embedding in layouts.
func (ac *AnnotatorCanvas) Container() fyne.CanvasObject {
	return ac.scroll
}

// SetZoom sets the zoom level, clamped to the supported range.
func (ac *AnnotatorCanvas) SetZoom(zoom float64) {
	if zoom < minZoom {
		zoom = minZoom
	}
	if zoom > maxZoom {
		zoom = maxZoom
	}
	ac.zoom = zoom
	ac.updateContentSize()
}

// Zoom returns the current zoom level.
func (ac *AnnotatorCanvas) Zoom() float64 {
	return ac.zoom
}

// ZoomIn increases the zoom level.
func (ac *AnnotatorCanvas) ZoomIn() {
	ac.SetZoom(ac.zoom * zoomStep)
}

// ZoomOut decreases the zoom level.
func (ac *AnnotatorCanvas) ZoomOut() {
	ac.SetZoom(ac.zoom / zoomStep)
}

// FitToView adjusts zoom so the whole photo fits the visible area.
func (ac *AnnotatorCanvas) FitToView() {
	bounds := ac.photo.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return
	}
	viewSize := ac.scroll.Size()
	if viewSize.Width <= 0 || viewSize.Height <= 0 {
		return
	}

	zoomX := float64(viewSize.Width) / float64(bounds.Dx())
	zoomY := float64(viewSize.Height) / float64(bounds.Dy())
	zoom := zoomX
	if zoomY < zoomX {
		zoom = zoomY
	}
	ac.SetZoom(zoom * 0.95) // Leave a small margin
}

// Refresh repaints the canvas.
func (ac *AnnotatorCanvas) Refresh() {
	ac.raster.Refresh()
}

// toImage converts a widget-relative pointer position to image coordinates.
func (ac *AnnotatorCanvas) toImage(pos fyne.Position) geometry.Point2D {
	return geometry.Point2D{
		X: float64(pos.X) / ac.zoom,
		Y: float64(pos.Y) / ac.zoom,
	}
}

func (ac *AnnotatorCanvas) updateContentSize() {
	bounds := ac.photo.Bounds()
	width := float32(float64(bounds.Dx()) * ac.zoom)
	height := float32(float64(bounds.Dy()) * ac.zoom)
	ac.imgSize = fyne.NewSize(width, height)

	ac.raster.SetMinSize(ac.imgSize)
	ac.raster.Resize(ac.imgSize)
	if ac.content != nil {
		ac.content.Resize(ac.imgSize)
		ac.content.Refresh()
	}
	ac.raster.Refresh()
	if ac.scroll != nil {
		ac.scroll.Refresh()
	}
}

// draw is the raster drawing function: photo first, then committed
// annotations, then the in-progress shape.
func (ac *AnnotatorCanvas) draw(w, h int) image.Image {
	bounds := ac.photo.Bounds()
	output := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(output, output.Bounds(), ac.photo, bounds.Min, draw.Src)

	ac.renderer.Render(output, ac.store.Current(), ac.machine.Pending())
	return output
}

// CreateRenderer implements fyne.Widget.
func (ac *AnnotatorCanvas) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(ac.scroll)
}

// pointerContent wraps the raster to receive pointer events.
type pointerContent struct {
	widget.BaseWidget
	canvas *AnnotatorCanvas
	raster *fynecanvas.Raster
}

var _ desktop.Mouseable = (*pointerContent)(nil)
var _ fyne.Draggable = (*pointerContent)(nil)

func newPointerContent(ac *AnnotatorCanvas, raster *fynecanvas.Raster) *pointerContent {
	pc := &pointerContent{canvas: ac, raster: raster}
	pc.ExtendBaseWidget(pc)
	return pc
}

func (pc *pointerContent) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(pc.raster)
}

func (pc *pointerContent) MinSize() fyne.Size {
	return pc.raster.MinSize()
}

// MouseDown begins a gesture at the press point.
func (pc *pointerContent) MouseDown(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary {
		return
	}
	pc.canvas.machine.PressStart(pc.canvas.toImage(ev.Position))
}

// MouseUp completes the gesture.
func (pc *pointerContent) MouseUp(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary {
		return
	}
	pc.canvas.machine.PressEnd()
}

// Dragged extends the gesture as the pointer moves with the button held.
func (pc *pointerContent) Dragged(ev *fyne.DragEvent) {
	pc.canvas.machine.PressMove(pc.canvas.toImage(ev.Position))
}

func (pc *pointerContent) DragEnd() {}

// Scrolled zooms with the mouse wheel.
func (pc *pointerContent) Scrolled(ev *fyne.ScrollEvent) {
	if ev.Scrolled.DY > 0 {
		pc.canvas.ZoomIn()
	} else if ev.Scrolled.DY < 0 {
		pc.canvas.ZoomOut()
	}
}
