// Package app provides application lifecycle management, configuration, and events.
package app

import (
	"os"
	"sync"

	"stylemark/internal/annotation"
	"stylemark/internal/photo"
	"stylemark/internal/upload"
)

// State holds the application state: the open photo, its annotation
// sidecar and the scanned upload target.
type State struct {
	mu sync.RWMutex

	// photo under annotation, nil until one is opened.
	photo *photo.Photo

	// target is the scanned upload destination, nil until a QR target
	// has been scanned this run.
	target *upload.Target

	// lastSaved is the most recently saved annotation set.
	lastSaved *annotation.Set

	// Event listeners
	listeners map[EventType][]EventListener
}

// EventType identifies different application events.
type EventType int

const (
	EventPhotoOpened EventType = iota
	EventTargetScanned
	EventSetSaved
	EventUploadComplete
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// NewState creates a new application state.
func NewState() *State {
	return &State{
		listeners: make(map[EventType][]EventListener),
	}
}

// On registers an event listener for the specified event type.
func (s *State) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *State) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// SidecarPath returns the annotation sidecar file for a photo path.
func SidecarPath(photoPath string) string {
	return photoPath + ".marks.json"
}

// OpenPhoto loads a photo and any existing annotation sidecar next to
// it. A missing sidecar yields an empty set, never an error.
func (s *State) OpenPhoto(path string) (*annotation.Set, error) {
	p, err := photo.Load(path)
	if err != nil {
		return nil, err
	}

	set := annotation.NewSet()
	sidecar := SidecarPath(path)
	if _, statErr := os.Stat(sidecar); statErr == nil {
		loaded, loadErr := annotation.LoadSet(sidecar)
		if loadErr != nil {
			return nil, loadErr
		}
		set = loaded
	}

	s.mu.Lock()
	s.photo = p
	s.mu.Unlock()

	s.Emit(EventPhotoOpened, p)
	return set, nil
}

// CurrentPhoto returns the open photo, or nil when none is open.
func (s *State) CurrentPhoto() *photo.Photo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.photo
}

// SetTarget stores a freshly scanned upload target.
func (s *State) SetTarget(t upload.Target) {
	s.mu.Lock()
	s.target = &t
	s.mu.Unlock()
	s.Emit(EventTargetScanned, t)
}

// CurrentTarget returns the scanned target, or false when none exists.
func (s *State) CurrentTarget() (upload.Target, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.target == nil {
		return upload.Target{}, false
	}
	return *s.target, true
}

// RecordSave persists the set to the photo's sidecar and records it as
// the last saved state.
func (s *State) RecordSave(set *annotation.Set) error {
	s.mu.RLock()
	p := s.photo
	s.mu.RUnlock()

	if p != nil {
		if err := set.Save(SidecarPath(p.Path)); err != nil {
			return err
		}
	}

	s.mu.Lock()
	s.lastSaved = set
	s.mu.Unlock()

	s.Emit(EventSetSaved, set)
	return nil
}

// LastSavedSet returns the most recently saved annotation set, or nil
// when nothing has been saved this run.
func (s *State) LastSavedSet() *annotation.Set {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastSaved
}
