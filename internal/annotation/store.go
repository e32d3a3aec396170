package annotation

import (
	"sync"

	"stylemark/pkg/geometry"
)

// maxHistory caps the undo stack. The oldest snapshot is evicted when
// the cap is reached, so very long sessions stay bounded.
const maxHistory = 100

// EventType identifies store change events.
type EventType int

const (
	EventChanged EventType = iota // any mutation of the annotation set
	EventDirty                    // dirty flag transitioned
	EventHistory                  // undo stack grew or shrank
)

// Listener is called after the store mutates.
type Listener func()

// Store is the canonical owner of one image's annotation set for the
// duration of an editing session, together with its undo history and
// dirty flag. All operations are safe for concurrent use, though the
// host delivers events on a single UI thread.
type Store struct {
	mu        sync.RWMutex
	set       *Set
	history   []*Set
	dirty     bool
	listeners map[EventType][]Listener
}

// NewStore creates a store seeded from the initial set, or empty when
// initial is nil. History and the dirty flag start cleared.
func NewStore(initial *Set) *Store {
	return &Store{
		set:       initial.Clone(),
		listeners: make(map[EventType][]Listener),
	}
}

// On registers a listener for the event type.
func (s *Store) On(event EventType, fn Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], fn)
}

func (s *Store) emit(event EventType) {
	s.mu.RLock()
	fns := s.listeners[event]
	s.mu.RUnlock()
	for _, fn := range fns {
		fn()
	}
}

// Current returns the live annotation set for rendering. Callers must
// treat it as read-only; all mutation goes through store operations.
func (s *Store) Current() *Set {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.set
}

// Snapshot returns a deep copy of the current set.
func (s *Store) Snapshot() *Set {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.set.Clone()
}

// pushHistoryLocked records the pre-mutation state. Caller holds mu.
func (s *Store) pushHistoryLocked() {
	if len(s.history) >= maxHistory {
		s.history = append(s.history[:0], s.history[1:]...)
	}
	s.history = append(s.history, s.set.Clone())
}

// PushSnapshot records the current state as one undoable step without
// mutating anything. The gesture layer calls this once at drag start so
// a whole drag undoes as a single action.
func (s *Store) PushSnapshot() {
	s.mu.Lock()
	s.pushHistoryLocked()
	s.mu.Unlock()
	s.emit(EventHistory)
}

// AddPath appends a freehand stroke, assigning an id if absent, and
// returns the id.
func (s *Store) AddPath(p Path) string {
	if p.ID == "" {
		p.ID = NewID()
	}
	s.mu.Lock()
	s.pushHistoryLocked()
	p.Points = append([]geometry.Point2D(nil), p.Points...)
	s.set.Paths = append(s.set.Paths, p)
	s.dirty = true
	s.mu.Unlock()
	s.notifyMutation()
	return p.ID
}

// AddText appends a text annotation and returns its id.
func (s *Store) AddText(t Text) string {
	if t.ID == "" {
		t.ID = NewID()
	}
	s.mu.Lock()
	s.pushHistoryLocked()
	s.set.Texts = append(s.set.Texts, t)
	s.dirty = true
	s.mu.Unlock()
	s.notifyMutation()
	return t.ID
}

// AddIcon appends an icon annotation and returns its id.
func (s *Store) AddIcon(i Icon) string {
	if i.ID == "" {
		i.ID = NewID()
	}
	s.mu.Lock()
	s.pushHistoryLocked()
	s.set.Icons = append(s.set.Icons, i)
	s.dirty = true
	s.mu.Unlock()
	s.notifyMutation()
	return i.ID
}

// AddRect appends a rectangle annotation and returns its id.
func (s *Store) AddRect(r Rect) string {
	if r.ID == "" {
		r.ID = NewID()
	}
	s.mu.Lock()
	s.pushHistoryLocked()
	s.set.Rects = append(s.set.Rects, r)
	s.dirty = true
	s.mu.Unlock()
	s.notifyMutation()
	return r.ID
}

// AddMeasurement appends a measurement annotation and returns its id.
func (s *Store) AddMeasurement(m Measurement) string {
	if m.ID == "" {
		m.ID = NewID()
	}
	s.mu.Lock()
	s.pushHistoryLocked()
	s.set.Measurements = append(s.set.Measurements, m)
	s.dirty = true
	s.mu.Unlock()
	s.notifyMutation()
	return m.ID
}

// AddComparison appends a comparison annotation and returns its id.
func (s *Store) AddComparison(c Comparison) string {
	if c.ID == "" {
		c.ID = NewID()
	}
	s.mu.Lock()
	s.pushHistoryLocked()
	s.set.Comparisons = append(s.set.Comparisons, c)
	s.dirty = true
	s.mu.Unlock()
	s.notifyMutation()
	return c.ID
}

// Translate shifts the addressed annotation by delta without recording
// history; the continuous-move phase of a drag shares the single
// snapshot taken at drag start. Unknown ids are silent no-ops.
func (s *Store) Translate(kind Kind, id string, delta geometry.Point2D) bool {
	s.mu.Lock()
	ok := s.set.translate(kind, id, delta)
	if ok {
		s.dirty = true
	}
	s.mu.Unlock()
	if ok {
		s.notifyMutation()
	}
	return ok
}

// Remove deletes the addressed annotation as one undoable step. Unknown
// ids are silent no-ops and push no history.
func (s *Store) Remove(kind Kind, id string) bool {
	s.mu.Lock()
	pre := s.set.Clone()
	if !s.set.remove(kind, id) {
		s.mu.Unlock()
		return false
	}
	if len(s.history) >= maxHistory {
		s.history = append(s.history[:0], s.history[1:]...)
	}
	s.history = append(s.history, pre)
	s.dirty = true
	s.mu.Unlock()
	s.notifyMutation()
	return true
}

// RemoveFirstAt deletes the first annotation touched at the point,
// probing in priority order, and stops after one removal so a delete
// tap only ever removes a single object.
func (s *Store) RemoveFirstAt(p geometry.Point2D) (Kind, string, bool) {
	s.mu.Lock()
	kind, id, ok := s.set.FirstHit(p)
	if !ok {
		s.mu.Unlock()
		return 0, "", false
	}
	s.pushHistoryLocked()
	s.set.remove(kind, id)
	s.dirty = true
	s.mu.Unlock()
	s.notifyMutation()
	return kind, id, true
}

// FirstHit probes collections in priority order for a hit at p.
func (s *Store) FirstHit(p geometry.Point2D) (Kind, string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.set.FirstHit(p)
}

// ClearAll empties every collection as a single undoable action.
func (s *Store) ClearAll() {
	s.mu.Lock()
	s.pushHistoryLocked()
	thumb := s.set.Thumbnail
	s.set = NewSet()
	s.set.Thumbnail = thumb
	s.dirty = true
	s.mu.Unlock()
	s.notifyMutation()
}

// Undo pops the newest snapshot and restores all collections wholesale.
// It is a no-op, not an error, when the stack is empty.
func (s *Store) Undo() bool {
	s.mu.Lock()
	if len(s.history) == 0 {
		s.mu.Unlock()
		return false
	}
	s.set = s.history[len(s.history)-1]
	s.history = s.history[:len(s.history)-1]
	s.dirty = true
	s.mu.Unlock()
	s.notifyMutation()
	return true
}

// CanUndo reports whether the undo stack is non-empty.
func (s *Store) CanUndo() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.history) > 0
}

// HistoryDepth returns the number of undoable steps.
func (s *Store) HistoryDepth() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.history)
}

// IsDirty reports whether any mutation occurred since the last save.
func (s *Store) IsDirty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dirty
}

// MarkSaved clears the dirty flag after a successful save.
func (s *Store) MarkSaved() {
	s.mu.Lock()
	s.dirty = false
	s.mu.Unlock()
	s.emit(EventDirty)
}

func (s *Store) notifyMutation() {
	s.emit(EventChanged)
	s.emit(EventDirty)
	s.emit(EventHistory)
}
