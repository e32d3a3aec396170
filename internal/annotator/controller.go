// Package annotator coordinates one photo-annotation session: it owns
// the store, the gesture machine and the renderer, and runs the save
// and cancel flows against the host callbacks.
package annotator

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	"stylemark/internal/annotation"
	"stylemark/internal/gesture"
	"stylemark/internal/photo"
	"stylemark/internal/render"
)

var (
	// ErrSessionClosed is returned by operations on a finished session.
	ErrSessionClosed = errors.New("annotator: session closed")
	// ErrSaveInFlight is returned when a save is requested while a
	// previous save is still running.
	ErrSaveInFlight = errors.New("annotator: save already in progress")
)

// Callbacks are the host hooks a session reports through. OnSave
// receives the final set after the thumbnail is written; OnClose fires
// exactly once whether the session ends by save or by cancel.
type Callbacks struct {
	OnSave  func(*annotation.Set) error
	OnClose func()
}

// Options tune a session.
type Options struct {
	// ThumbnailDir is where flattened thumbnails are written. Empty
	// means alongside the photo.
	ThumbnailDir string
	// MaxThumbnailDim bounds the thumbnail's longest side in pixels.
	// Zero keeps the photo's native resolution.
	MaxThumbnailDim int
}

// Session is one annotation editing session over a single photo.
type Session struct {
	mu sync.Mutex

	log      zerolog.Logger
	photo    *photo.Photo
	store    *annotation.Store
	machine  *gesture.Machine
	renderer *render.Renderer

	callbacks Callbacks
	opts      Options

	saving bool
	closed bool
}

// Open starts a session over the photo, seeded with any previously
// saved annotations (initial may be nil).
func Open(log zerolog.Logger, p *photo.Photo, initial *annotation.Set, prompter gesture.Prompter, cb Callbacks, opts Options) *Session {
	store := annotation.NewStore(initial)
	s := &Session{
		log:       log.With().Str("photo", p.Path).Logger(),
		photo:     p,
		store:     store,
		machine:   gesture.New(store, prompter),
		renderer:  render.New(),
		callbacks: cb,
		opts:      opts,
	}
	s.log.Info().Int("annotations", store.Current().Count()).Msg("annotation session opened")
	return s
}

// Store exposes the session's annotation store for canvas binding.
func (s *Session) Store() *annotation.Store {
	return s.store
}

// Machine exposes the session's gesture machine for canvas binding.
func (s *Session) Machine() *gesture.Machine {
	return s.machine
}

// Renderer exposes the session's renderer for canvas binding.
func (s *Session) Renderer() *render.Renderer {
	return s.renderer
}

// Photo returns the photo under annotation.
func (s *Session) Photo() *photo.Photo {
	return s.photo
}

// SetMode switches the active tool.
func (s *Session) SetMode(mode gesture.Mode) {
	s.machine.SetMode(mode)
}

// Undo reverts the most recent committed action. Returns false when
// there is nothing to undo.
func (s *Session) Undo() bool {
	return s.store.Undo()
}

// ClearAll removes every annotation as one undoable step. The host
// confirms with the user before calling this.
func (s *Session) ClearAll() {
	s.store.ClearAll()
}

// Save flattens the photo with its annotations, writes the thumbnail,
// hands the final set to the host and ends the session. A clean session
// (no changes since open or last save) is a no-op: nothing is written
// and the session stays open. Only one save may run at a time.
func (s *Session) Save() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	if s.saving {
		s.mu.Unlock()
		return ErrSaveInFlight
	}
	if !s.store.IsDirty() {
		s.mu.Unlock()
		s.log.Debug().Msg("no changes to save")
		return nil
	}
	s.saving = true
	s.mu.Unlock()

	err := s.save()

	s.mu.Lock()
	s.saving = false
	if err == nil {
		s.closed = true
	}
	s.mu.Unlock()

	if err != nil {
		s.log.Error().Err(err).Msg("save failed")
		return err
	}
	s.fireClose()
	return nil
}

func (s *Session) save() error {
	set := s.store.Snapshot()

	flat, err := render.Flatten(s.photo.Image, set, s.renderer)
	if err != nil {
		return err
	}

	thumbPath := s.thumbnailPath()
	f, err := os.Create(thumbPath)
	if err != nil {
		return &render.RenderError{Stage: "write", Err: err}
	}
	if err := render.EncodeThumbnail(f, flat, s.opts.MaxThumbnailDim); err != nil {
		f.Close()
		os.Remove(thumbPath)
		return err
	}
	if err := f.Close(); err != nil {
		return &render.RenderError{Stage: "write", Err: err}
	}

	set.Thumbnail = thumbPath
	if s.callbacks.OnSave != nil {
		if err := s.callbacks.OnSave(set); err != nil {
			return fmt.Errorf("save callback: %w", err)
		}
	}
	s.store.MarkSaved()
	s.log.Info().Str("thumbnail", thumbPath).Int("annotations", set.Count()).Msg("annotations saved")
	return nil
}

func (s *Session) thumbnailPath() string {
	base := s.photo.Path
	name := filepath.Base(base[:len(base)-len(filepath.Ext(base))]) + ".annotated.png"
	if s.opts.ThumbnailDir != "" {
		return filepath.Join(s.opts.ThumbnailDir, name)
	}
	return filepath.Join(filepath.Dir(base), name)
}

// Cancel ends the session discarding all unsaved changes.
func (s *Session) Cancel() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()
	s.log.Info().Msg("session cancelled")
	s.fireClose()
}

// Closed reports whether the session has ended.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Session) fireClose() {
	if s.callbacks.OnClose != nil {
		s.callbacks.OnClose()
	}
}
