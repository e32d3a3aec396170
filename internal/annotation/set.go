package annotation

import (
	"encoding/json"
	"fmt"
	"os"

	"stylemark/pkg/geometry"
)

// Set is the complete collection of annotations for one image plus the
// flattened thumbnail reference produced at save time. It is the unit
// of persistence and the unit exchanged with the host.
type Set struct {
	Paths        []Path        `json:"paths,omitempty"`
	Texts        []Text        `json:"texts,omitempty"`
	Icons        []Icon        `json:"icons,omitempty"`
	Rects        []Rect        `json:"rectangles,omitempty"`
	Measurements []Measurement `json:"measurements,omitempty"`
	Comparisons  []Comparison  `json:"comparisons,omitempty"`

	// Thumbnail references the flattened raster written on save.
	Thumbnail string `json:"thumbnail,omitempty"`
}

// NewSet returns an empty annotation set.
func NewSet() *Set {
	return &Set{}
}

// Clone returns a deep copy of the set. Snapshots for the undo history
// are clones so later mutations never leak into recorded states.
func (s *Set) Clone() *Set {
	if s == nil {
		return NewSet()
	}
	dup := &Set{
		Texts:        append([]Text(nil), s.Texts...),
		Icons:        append([]Icon(nil), s.Icons...),
		Rects:        append([]Rect(nil), s.Rects...),
		Measurements: append([]Measurement(nil), s.Measurements...),
		Comparisons:  append([]Comparison(nil), s.Comparisons...),
		Thumbnail:    s.Thumbnail,
	}
	if s.Paths != nil {
		dup.Paths = make([]Path, len(s.Paths))
		for i, p := range s.Paths {
			dup.Paths[i] = p
			dup.Paths[i].Points = append([]geometry.Point2D(nil), p.Points...)
		}
	}
	return dup
}

// Count returns the total number of annotations of all kinds.
func (s *Set) Count() int {
	return len(s.Paths) + len(s.Texts) + len(s.Icons) +
		len(s.Rects) + len(s.Measurements) + len(s.Comparisons)
}

// IsEmpty reports whether the set holds no annotations.
func (s *Set) IsEmpty() bool {
	return s.Count() == 0
}

// FirstHit probes the addressable collections in the fixed priority
// order text > icon > rectangle > measurement > comparison and returns
// the first annotation containing the point. Freehand paths are not
// addressable targets.
func (s *Set) FirstHit(p geometry.Point2D) (Kind, string, bool) {
	for _, t := range s.Texts {
		if t.Hit(p) {
			return KindText, t.ID, true
		}
	}
	for _, i := range s.Icons {
		if i.Hit(p) {
			return KindIcon, i.ID, true
		}
	}
	for _, r := range s.Rects {
		if r.Hit(p) {
			return KindRect, r.ID, true
		}
	}
	for _, m := range s.Measurements {
		if m.Hit(p) {
			return KindMeasurement, m.ID, true
		}
	}
	for _, c := range s.Comparisons {
		if c.Hit(p) {
			return KindComparison, c.ID, true
		}
	}
	return 0, "", false
}

// translate shifts the addressed annotation by delta. It reports whether
// the id was found; unknown ids are silent no-ops for the caller.
func (s *Set) translate(kind Kind, id string, delta geometry.Point2D) bool {
	switch kind {
	case KindPath:
		for i := range s.Paths {
			if s.Paths[i].ID == id {
				pts := s.Paths[i].Points
				for j := range pts {
					pts[j] = pts[j].Add(delta)
				}
				return true
			}
		}
	case KindText:
		for i := range s.Texts {
			if s.Texts[i].ID == id {
				s.Texts[i].Anchor = s.Texts[i].Anchor.Add(delta)
				return true
			}
		}
	case KindIcon:
		for i := range s.Icons {
			if s.Icons[i].ID == id {
				s.Icons[i].Anchor = s.Icons[i].Anchor.Add(delta)
				return true
			}
		}
	case KindRect:
		for i := range s.Rects {
			if s.Rects[i].ID == id {
				s.Rects[i].Start = s.Rects[i].Start.Add(delta)
				s.Rects[i].End = s.Rects[i].End.Add(delta)
				return true
			}
		}
	case KindMeasurement:
		for i := range s.Measurements {
			if s.Measurements[i].ID == id {
				s.Measurements[i].Start = s.Measurements[i].Start.Add(delta)
				s.Measurements[i].End = s.Measurements[i].End.Add(delta)
				return true
			}
		}
	case KindComparison:
		for i := range s.Comparisons {
			if s.Comparisons[i].ID == id {
				s.Comparisons[i].Start = s.Comparisons[i].Start.Add(delta)
				s.Comparisons[i].End = s.Comparisons[i].End.Add(delta)
				return true
			}
		}
	}
	return false
}

// remove deletes the addressed annotation. It reports whether the id was found.
func (s *Set) remove(kind Kind, id string) bool {
	switch kind {
	case KindPath:
		for i := range s.Paths {
			if s.Paths[i].ID == id {
				s.Paths = append(s.Paths[:i], s.Paths[i+1:]...)
				return true
			}
		}
	case KindText:
		for i := range s.Texts {
			if s.Texts[i].ID == id {
				s.Texts = append(s.Texts[:i], s.Texts[i+1:]...)
				return true
			}
		}
	case KindIcon:
		for i := range s.Icons {
			if s.Icons[i].ID == id {
				s.Icons = append(s.Icons[:i], s.Icons[i+1:]...)
				return true
			}
		}
	case KindRect:
		for i := range s.Rects {
			if s.Rects[i].ID == id {
				s.Rects = append(s.Rects[:i], s.Rects[i+1:]...)
				return true
			}
		}
	case KindMeasurement:
		for i := range s.Measurements {
			if s.Measurements[i].ID == id {
				s.Measurements = append(s.Measurements[:i], s.Measurements[i+1:]...)
				return true
			}
		}
	case KindComparison:
		for i := range s.Comparisons {
			if s.Comparisons[i].ID == id {
				s.Comparisons = append(s.Comparisons[:i], s.Comparisons[i+1:]...)
				return true
			}
		}
	}
	return false
}

// LoadSet reads an annotation set from a JSON file. Absent collection
// fields decode as empty collections, never as an error.
func LoadSet(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read annotation set: %w", err)
	}

	var set Set
	if err := json.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("failed to decode annotation set: %w", err)
	}
	return &set, nil
}

// Save writes the set to a JSON file.
func (s *Set) Save(path string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
