package editor

import (
	"github.com/go-gl/mathgl/mgl32"

	"batch-render/core"
	"batch-render/scene"
)

// Command represents an undoable editor action
type Command interface {
	Execute()
	Undo()
	Description() string
}

// History manages undo/redo stacks
type History struct {
	undoStack []Command
	redoStack []Command
	maxDepth  int
}

// NewHistory creates a new history with the given max undo depth
func NewHistory(maxDepth int) *History {
	return &History{
		undoStack: make([]Command, 0, maxDepth),
		redoStack: make([]Command, 0, maxDepth),
		maxDepth:  maxDepth,
	}
}

// Do executes a command and pushes it to the undo stack
func (h *History) Do(cmd Command) {
	cmd.Execute()
	h.undoStack = append(h.undoStack, cmd)
	if len(h.undoStack) > h.maxDepth {
		h.undoStack = h.undoStack[1:]
	}
	// a new action invalidates anything undone
	h.redoStack = h.redoStack[:0]
}

// Undo reverts the last action
func (h *History) Undo() bool {
	if len(h.undoStack) == 0 {
		return false
	}
	cmd := h.undoStack[len(h.undoStack)-1]
	h.undoStack = h.undoStack[:len(h.undoStack)-1]
	cmd.Undo()
	h.redoStack = append(h.redoStack, cmd)
	return true
}

// Redo reapplies the last undone action
func (h *History) Redo() bool {
	if len(h.redoStack) == 0 {
		return false
	}
	cmd := h.redoStack[len(h.redoStack)-1]
	h.redoStack = h.redoStack[:len(h.redoStack)-1]
	cmd.Execute()
	h.undoStack = append(h.undoStack, cmd)
	return true
}

func (h *History) CanUndo() bool { return len(h.undoStack) > 0 }
func (h *History) CanRedo() bool { return len(h.redoStack) > 0 }

func (h *History) Clear() {
	h.undoStack = h.undoStack[:0]
	h.redoStack = h.redoStack[:0]
}

// --- Concrete Commands ---

// TransformCommand replaces an entity's whole transform.
type TransformCommand struct {
	Entity       *scene.Entity
	OldTransform core.Transform
	NewTransform core.Transform
	desc         string
}

func NewTransformCommand(e *scene.Entity, newTransform core.Transform, desc string) *TransformCommand {
	return &TransformCommand{
		Entity:       e,
		OldTransform: e.Transform,
		NewTransform: newTransform,
		desc:         desc,
	}
}

func (c *TransformCommand) Execute()            { c.Entity.Transform = c.NewTransform }
func (c *TransformCommand) Undo()               { c.Entity.Transform = c.OldTransform }
func (c *TransformCommand) Description() string { return c.desc }

// NewMoveCommand translates e by delta.
func NewMoveCommand(e *scene.Entity, delta mgl32.Vec3) *TransformCommand {
	t := e.Transform
	t.Translation = t.Translation.Add(delta)
	return NewTransformCommand(e, t, "Move "+e.Tag)
}

// DeleteEntityCommand removes an entity; Undo puts the same entity back.
type DeleteEntityCommand struct {
	Scene  *scene.Scene
	Entity *scene.Entity
}

func NewDeleteEntityCommand(s *scene.Scene, e *scene.Entity) *DeleteEntityCommand {
	return &DeleteEntityCommand{Scene: s, Entity: e}
}

func (c *DeleteEntityCommand) Execute()            { c.Scene.DestroyEntity(c.Entity) }
func (c *DeleteEntityCommand) Undo()               { c.Scene.RestoreEntity(c.Entity) }
func (c *DeleteEntityCommand) Description() string { return "Delete " + c.Entity.Tag }

// DuplicateEntityCommand copies Original on first Execute and re-adds the
// same copy on redo.
type DuplicateEntityCommand struct {
	Scene     *scene.Scene
	Original  *scene.Entity
	Duplicate *scene.Entity
}

func NewDuplicateEntityCommand(s *scene.Scene, original *scene.Entity) *DuplicateEntityCommand {
	return &DuplicateEntityCommand{Scene: s, Original: original}
}

func (c *DuplicateEntityCommand) Execute() {
	if c.Duplicate == nil {
		c.Duplicate = c.Scene.DuplicateEntity(c.Original)
		return
	}
	c.Scene.RestoreEntity(c.Duplicate)
}

func (c *DuplicateEntityCommand) Undo()               { c.Scene.DestroyEntity(c.Duplicate) }
func (c *DuplicateEntityCommand) Description() string { return "Duplicate " + c.Original.Tag }
