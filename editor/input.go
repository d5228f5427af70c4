package editor

import "batch-render/core"

// Window is the part of core.Window the input manager polls.
type Window interface {
	IsMouseButtonPressed(button int) bool
	IsKeyPressed(key int) bool
	GetCursorPos() (float64, float64)
}

// InputManager tracks mouse and keyboard state for the editor.
type InputManager struct {
	// Mouse state
	MouseX, MouseY           float64
	MouseDeltaX, MouseDeltaY float64
	lastMouseX, lastMouseY   float64
	ScrollDelta              float64

	mouseButtons     [8]bool
	mouseButtonsPrev [8]bool

	keys     map[int]bool
	keysPrev map[int]bool

	// Modifiers
	ShiftDown bool
	CtrlDown  bool

	window     Window
	firstFrame bool
}

// polledKeys are the keys the editor and demo react to.
var polledKeys = []int{
	core.KeyEscape, core.KeyTab, core.KeyDelete,
	core.KeyUp, core.KeyDown, core.KeyLeft, core.KeyRight,
	core.KeyD, core.KeyF, core.KeyP, core.KeyR, core.KeyZ,
	core.KeyF5, core.KeyF9,
}

func NewInputManager(window Window) *InputManager {
	return &InputManager{
		keys:       make(map[int]bool, len(polledKeys)),
		keysPrev:   make(map[int]bool, len(polledKeys)),
		window:     window,
		firstFrame: true,
	}
}

// OnScroll accumulates wheel offsets until EndFrame. Install it as the
// window's scroll callback.
func (im *InputManager) OnScroll(_, yoff float64) { im.ScrollDelta += yoff }

// Update should be called once per frame before any query.
func (im *InputManager) Update() {
	x, y := im.window.GetCursorPos()
	if im.firstFrame {
		im.lastMouseX, im.lastMouseY = x, y
		im.firstFrame = false
	}
	im.MouseDeltaX = x - im.lastMouseX
	im.MouseDeltaY = y - im.lastMouseY
	im.lastMouseX, im.lastMouseY = x, y
	im.MouseX, im.MouseY = x, y

	im.mouseButtonsPrev = im.mouseButtons
	for _, b := range []int{core.MouseButtonLeft, core.MouseButtonRight, core.MouseButtonMiddle} {
		im.mouseButtons[b] = im.window.IsMouseButtonPressed(b)
	}

	im.ShiftDown = im.window.IsKeyPressed(core.KeyLeftShift) || im.window.IsKeyPressed(core.KeyRightShift)
	im.CtrlDown = im.window.IsKeyPressed(core.KeyLeftControl) || im.window.IsKeyPressed(core.KeyRightControl)

	im.keys, im.keysPrev = im.keysPrev, im.keys
	for _, k := range polledKeys {
		im.keys[k] = im.window.IsKeyPressed(k)
	}
}

// EndFrame clears per-frame state.
func (im *InputManager) EndFrame() {
	im.ScrollDelta = 0
}

// --- Mouse Queries ---

func (im *InputManager) IsMouseDown(button int) bool {
	if button < 0 || button >= len(im.mouseButtons) {
		return false
	}
	return im.mouseButtons[button]
}

func (im *InputManager) IsMousePressed(button int) bool {
	if button < 0 || button >= len(im.mouseButtons) {
		return false
	}
	return im.mouseButtons[button] && !im.mouseButtonsPrev[button]
}

// --- Key Queries ---

func (im *InputManager) IsKeyDown(key int) bool { return im.keys[key] }

// IsKeyPressed is true on the first frame a polled key is down.
func (im *InputManager) IsKeyPressed(key int) bool {
	return im.keys[key] && !im.keysPrev[key]
}

// IsShortcut checks for a Ctrl+key press.
func (im *InputManager) IsShortcut(key int) bool {
	return im.CtrlDown && im.IsKeyPressed(key)
}

// IsShiftShortcut checks for a Ctrl+Shift+key press.
func (im *InputManager) IsShiftShortcut(key int) bool {
	return im.CtrlDown && im.ShiftDown && im.IsKeyPressed(key)
}
