// Package gesture interprets a pointer stream according to the active
// tool mode, creating, dragging and deleting annotations in the store.
// The pointer stream is abstracted as PressStart/PressMove/PressEnd so
// the machine is tested without a real UI event source.
package gesture

import (
	"stylemark/internal/annotation"
	"stylemark/pkg/geometry"
)

// Mode is the active tool governing gesture interpretation. Exactly one
// mode is active at a time.
type Mode int

const (
	ModeDraw Mode = iota
	ModeText
	ModeTick
	ModeCross
	ModeRectangle
	ModeMeasure
	ModeCompare
	ModeSelect
	ModeDelete
)

func (m Mode) String() string {
	switch m {
	case ModeDraw:
		return "draw"
	case ModeText:
		return "text"
	case ModeTick:
		return "tick"
	case ModeCross:
		return "cross"
	case ModeRectangle:
		return "rectangle"
	case ModeMeasure:
		return "measure"
	case ModeCompare:
		return "compare"
	case ModeSelect:
		return "select"
	case ModeDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Prompter captures values for shapes that need user input before they
// commit. Implementations call done exactly once; ok=false or empty
// values discard the pending shape silently.
type Prompter interface {
	TextPrompt(done func(value string, ok bool))
	MeasurePrompt(done func(value string, ok bool))
	ComparePrompt(done func(current, target string, ok bool))
}

// selection records which annotation a drag gesture has grabbed and the
// last observed pointer position used to compute incremental deltas.
// It exists only during an active drag.
type selection struct {
	kind annotation.Kind
	id   string
	last geometry.Point2D
}

// Machine dispatches press/move/release events per the active mode.
type Machine struct {
	store    *annotation.Store
	prompter Prompter

	mode    Mode
	color   string
	pressed bool

	// In-progress, uncommitted shapes.
	path *annotation.Path
	rect *annotation.Rect
	meas *annotation.Measurement
	comp *annotation.Comparison

	drag *selection

	onChange func() // repaint hook for in-progress redraws
}

// New creates a machine bound to the store. The prompter may be nil, in
// which case text, measure and compare gestures discard their shapes.
func New(store *annotation.Store, prompter Prompter) *Machine {
	return &Machine{
		store:    store,
		prompter: prompter,
		mode:     ModeDraw,
		color:    "#e63946",
	}
}

// OnChange registers a hook invoked whenever an in-progress shape
// changes, so the host can repaint between store mutations.
func (m *Machine) OnChange(fn func()) {
	m.onChange = fn
}

func (m *Machine) notify() {
	if m.onChange != nil {
		m.onChange()
	}
}

// Mode returns the active tool mode.
func (m *Machine) Mode() Mode {
	return m.mode
}

// SetMode switches the active tool. Any in-progress shape is discarded;
// nothing is committed implicitly on a mode switch.
func (m *Machine) SetMode(mode Mode) {
	m.discardPending()
	m.pressed = false
	m.drag = nil
	m.mode = mode
	m.notify()
}

// SetColor sets the stroke color (#rrggbb) applied to new shapes.
func (m *Machine) SetColor(hex string) {
	m.color = hex
}

// Color returns the active stroke color.
func (m *Machine) Color() string {
	return m.color
}

func (m *Machine) discardPending() {
	m.path = nil
	m.rect = nil
	m.meas = nil
	m.comp = nil
}

// Pending returns the uncommitted in-progress shape as a throwaway set
// so the renderer can draw it on top of the committed annotations.
// Returns nil when nothing is in progress.
func (m *Machine) Pending() *annotation.Set {
	switch {
	case m.path != nil:
		return &annotation.Set{Paths: []annotation.Path{*m.path}}
	case m.rect != nil:
		return &annotation.Set{Rects: []annotation.Rect{*m.rect}}
	case m.meas != nil:
		return &annotation.Set{Measurements: []annotation.Measurement{*m.meas}}
	case m.comp != nil:
		return &annotation.Set{Comparisons: []annotation.Comparison{*m.comp}}
	}
	return nil
}

// Dragging reports whether a drag session is active.
func (m *Machine) Dragging() bool {
	return m.drag != nil
}

// PressStart begins a gesture at the point.
func (m *Machine) PressStart(p geometry.Point2D) {
	m.pressed = true

	switch m.mode {
	case ModeDraw:
		m.path = &annotation.Path{Points: []geometry.Point2D{p}, Color: m.color}
	case ModeRectangle:
		m.rect = &annotation.Rect{Start: p, End: p, Color: m.color}
	case ModeMeasure:
		m.meas = &annotation.Measurement{Start: p, End: p}
	case ModeCompare:
		m.comp = &annotation.Comparison{Start: p, End: p}
	case ModeText:
		m.promptText(p)
	case ModeTick:
		// Icon modes are the only ones that mutate on press.
		m.store.AddIcon(annotation.Icon{Kind: annotation.IconTick, Anchor: p})
	case ModeCross:
		m.store.AddIcon(annotation.Icon{Kind: annotation.IconCross, Anchor: p})
	case ModeSelect:
		if kind, id, ok := m.store.FirstHit(p); ok {
			// One snapshot per drag: every subsequent move shares it.
			m.store.PushSnapshot()
			m.drag = &selection{kind: kind, id: id, last: p}
		}
	case ModeDelete:
		m.store.RemoveFirstAt(p)
	}
	m.notify()
}

// PressMove extends the gesture to the point. Moves without a matching
// press are ignored.
func (m *Machine) PressMove(p geometry.Point2D) {
	if !m.pressed {
		return
	}

	switch m.mode {
	case ModeDraw:
		if m.path != nil {
			m.path.Points = append(m.path.Points, p)
		}
	case ModeRectangle:
		if m.rect != nil {
			m.rect.End = p
		}
	case ModeMeasure:
		if m.meas != nil {
			m.meas.End = p
		}
	case ModeCompare:
		if m.comp != nil {
			m.comp.End = p
		}
	case ModeSelect:
		if m.drag != nil {
			// Deltas are re-based on every move, not accumulated from
			// the press point, so translation is lossless across events.
			delta := p.Sub(m.drag.last)
			m.store.Translate(m.drag.kind, m.drag.id, delta)
			m.drag.last = p
		}
	}
	m.notify()
}

// PressEnd completes the gesture, committing or prompting per mode.
func (m *Machine) PressEnd() {
	if !m.pressed {
		return
	}
	m.pressed = false

	switch m.mode {
	case ModeDraw:
		if m.path != nil {
			m.store.AddPath(*m.path)
			m.path = nil
		}
	case ModeRectangle:
		if m.rect != nil {
			m.store.AddRect(*m.rect)
			m.rect = nil
		}
	case ModeMeasure:
		if m.meas != nil {
			m.promptMeasure()
		}
	case ModeCompare:
		if m.comp != nil {
			m.promptCompare()
		}
	case ModeSelect:
		// Release clears the selection without further mutation.
		m.drag = nil
	}
	m.notify()
}

func (m *Machine) promptText(anchor geometry.Point2D) {
	if m.prompter == nil {
		return
	}
	color := m.color
	m.prompter.TextPrompt(func(value string, ok bool) {
		if ok && value != "" {
			m.store.AddText(annotation.Text{Content: value, Anchor: anchor, Color: color})
		}
		m.notify()
	})
}

func (m *Machine) promptMeasure() {
	pending := m.meas
	m.meas = nil
	if m.prompter == nil {
		return
	}
	m.prompter.MeasurePrompt(func(value string, ok bool) {
		// An empty value at confirmation time discards the shape; this
		// is expected flow, never surfaced as an error.
		if ok && value != "" {
			pending.Value = value
			m.store.AddMeasurement(*pending)
		}
		m.notify()
	})
}

func (m *Machine) promptCompare() {
	pending := m.comp
	m.comp = nil
	if m.prompter == nil {
		return
	}
	m.prompter.ComparePrompt(func(current, target string, ok bool) {
		if ok && current != "" && target != "" {
			pending.Current = current
			pending.Target = target
			m.store.AddComparison(*pending)
		}
		m.notify()
	})
}
