// Package editor holds the interactive scene tooling used by the demo:
// orbit camera controls, ray picking of sphere entities, selection and an
// undo history over scene edits.
package editor

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"batch-render/camera"
	"batch-render/core"
	"batch-render/scene"
)

// LineDrawer is the part of the 3D renderer selection outlines need.
type LineDrawer interface {
	DrawLine(p0, p1 mgl32.Vec3, color mgl32.Vec4, entityID int32)
}

// SelectionColor outlines selected entities.
var SelectionColor = mgl32.Vec4{1, 0.6, 0.1, 1}

// NudgeStep is how far the arrow keys move the selection.
const NudgeStep = 0.5

// Editor is the top-level editor state machine
type Editor struct {
	Selection *Selection
	History   *History
	Input     *InputManager
	Scene     *scene.Scene
	Camera    *camera.EditorCamera

	// Status info
	StatusText string
}

func New(window Window, s *scene.Scene, cam *camera.EditorCamera) *Editor {
	return &Editor{
		Selection:  NewSelection(),
		History:    NewHistory(100),
		Input:      NewInputManager(window),
		Scene:      s,
		Camera:     cam,
		StatusText: "Ready",
	}
}

// SetScene switches to s and drops the selection and history, which refer
// to the old scene's entities.
func (e *Editor) SetScene(s *scene.Scene) {
	e.Scene = s
	e.Selection.Clear()
	e.History.Clear()
	e.StatusText = "Scene loaded"
}

// Update processes one frame of editor logic for a viewport of the given size.
func (e *Editor) Update(width, height int) {
	e.Input.Update()

	e.handleShortcuts()
	e.handleCameraControls()
	e.handleMouseSelection(width, height)

	e.Input.EndFrame()
}

func (e *Editor) handleShortcuts() {
	in := e.Input
	switch {
	case in.IsShiftShortcut(core.KeyZ):
		if e.History.Redo() {
			e.StatusText = "Redo"
		}
	case in.IsShortcut(core.KeyZ):
		if e.History.Undo() {
			e.StatusText = "Undo"
		}
	case in.IsKeyPressed(core.KeyDelete):
		e.deleteSelected()
	case in.ShiftDown && in.IsKeyPressed(core.KeyD):
		e.duplicateSelected()
	case in.IsKeyPressed(core.KeyF) && e.Selection.HasSelection():
		e.Camera.SetFocalPoint(e.Selection.Center())
		e.StatusText = "Focus"
	}

	var nudge mgl32.Vec3
	if in.IsKeyPressed(core.KeyUp) {
		nudge[1] += NudgeStep
	}
	if in.IsKeyPressed(core.KeyDown) {
		nudge[1] -= NudgeStep
	}
	if in.IsKeyPressed(core.KeyRight) {
		nudge[0] += NudgeStep
	}
	if in.IsKeyPressed(core.KeyLeft) {
		nudge[0] -= NudgeStep
	}
	if nudge != (mgl32.Vec3{}) {
		for _, ent := range e.Selection.Entities {
			e.History.Do(NewMoveCommand(ent, nudge))
		}
	}
}

// handleCameraControls: right drag orbits, middle drag pans, the wheel
// zooms (faster with shift).
func (e *Editor) handleCameraControls() {
	in := e.Input
	if in.ScrollDelta != 0 {
		speed := float32(1)
		if in.ShiftDown {
			speed = 5
		}
		e.Camera.Zoom(float32(in.ScrollDelta) * speed)
	}

	dx := float32(in.MouseDeltaX)
	dy := float32(in.MouseDeltaY)
	switch {
	case in.IsMouseDown(core.MouseButtonMiddle):
		e.Camera.Pan(dx*0.0015, dy*0.0015)
	case in.IsMouseDown(core.MouseButtonRight):
		e.Camera.Orbit(-dx*0.005, dy*0.005)
	}
}

func (e *Editor) handleMouseSelection(width, height int) {
	if !e.Input.IsMousePressed(core.MouseButtonLeft) || width <= 0 || height <= 0 {
		return
	}
	ray := ScreenToRay(float32(e.Input.MouseX), float32(e.Input.MouseY),
		float32(width), float32(height), e.Camera)

	hit := RaycastScene(ray, e.Scene)
	switch {
	case hit.Hit && e.Input.ShiftDown:
		e.Selection.Toggle(hit.Entity)
		e.StatusText = fmt.Sprintf("Selected: %s", hit.Entity.Tag)
	case hit.Hit:
		e.Selection.SelectSingle(hit.Entity)
		e.StatusText = fmt.Sprintf("Selected: %s", hit.Entity.Tag)
	case !e.Input.ShiftDown:
		e.Selection.Clear()
		e.StatusText = "Selection cleared"
	}
}

func (e *Editor) deleteSelected() {
	if !e.Selection.HasSelection() {
		return
	}
	for _, ent := range e.Selection.Entities {
		e.History.Do(NewDeleteEntityCommand(e.Scene, ent))
	}
	e.Selection.Clear()
	e.StatusText = "Deleted"
}

func (e *Editor) duplicateSelected() {
	if !e.Selection.HasSelection() {
		return
	}
	for _, ent := range e.Selection.Entities {
		e.History.Do(NewDuplicateEntityCommand(e.Scene, ent))
	}
	e.StatusText = "Duplicated"
}

// DrawSelection outlines the bounding box of every selected sphere.
func (e *Editor) DrawSelection(lines LineDrawer) {
	for _, ent := range e.Selection.Entities {
		if ent.Sphere == nil {
			continue
		}
		center, r := SphereBounds(ent)
		drawBox(lines, center.Sub(mgl32.Vec3{r, r, r}), center.Add(mgl32.Vec3{r, r, r}), SelectionColor, ent.ID)
	}
}

// boxEdges index the corners built in drawBox: bit 0 is x, bit 1 y, bit 2 z.
var boxEdges = [12][2]int{
	{0, 1}, {1, 3}, {3, 2}, {2, 0}, // min z
	{4, 5}, {5, 7}, {7, 6}, {6, 4}, // max z
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}

func drawBox(lines LineDrawer, lo, hi mgl32.Vec3, color mgl32.Vec4, entityID int32) {
	var c [8]mgl32.Vec3
	for i := range c {
		c[i] = lo
		if i&1 != 0 {
			c[i][0] = hi[0]
		}
		if i&2 != 0 {
			c[i][1] = hi[1]
		}
		if i&4 != 0 {
			c[i][2] = hi[2]
		}
	}
	for _, edge := range boxEdges {
		lines.DrawLine(c[edge[0]], c[edge[1]], color, entityID)
	}
}
