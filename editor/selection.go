package editor

import (
	"slices"

	"github.com/go-gl/mathgl/mgl32"

	"batch-render/scene"
)

// Selection tracks the selected entities.
type Selection struct {
	Entities []*scene.Entity
	// Active is the last selected entity.
	Active *scene.Entity
}

func NewSelection() *Selection {
	return &Selection{}
}

func (s *Selection) Clear() {
	s.Entities = s.Entities[:0]
	s.Active = nil
}

// SelectSingle selects e, clearing the previous selection.
func (s *Selection) SelectSingle(e *scene.Entity) {
	s.Clear()
	s.Entities = append(s.Entities, e)
	s.Active = e
}

// Toggle adds e or removes it if already selected.
func (s *Selection) Toggle(e *scene.Entity) {
	if s.IsSelected(e) {
		s.Remove(e)
		return
	}
	s.Entities = append(s.Entities, e)
	s.Active = e
}

func (s *Selection) Remove(e *scene.Entity) {
	s.Entities = slices.DeleteFunc(s.Entities, func(x *scene.Entity) bool { return x == e })
	if s.Active == e {
		s.Active = nil
		if n := len(s.Entities); n > 0 {
			s.Active = s.Entities[n-1]
		}
	}
}

func (s *Selection) IsSelected(e *scene.Entity) bool {
	return slices.Contains(s.Entities, e)
}

// Center returns the average translation of the selection.
func (s *Selection) Center() mgl32.Vec3 {
	if len(s.Entities) == 0 {
		return mgl32.Vec3{}
	}
	var sum mgl32.Vec3
	for _, e := range s.Entities {
		sum = sum.Add(e.Transform.Translation)
	}
	return sum.Mul(1 / float32(len(s.Entities)))
}

func (s *Selection) HasSelection() bool { return len(s.Entities) > 0 }
