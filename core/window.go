package core

import (
	"fmt"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"

	"batch-render/config"
)

func init() {
	// GLFW and the GL context must stay on the main thread.
	runtime.LockOSThread()
}

type Window struct {
	Handle *glfw.Window
	Width  int
	Height int
	Title  string

	onResize func(width, height int)
}

// NewWindow opens a window with a current OpenGL 4.1 core context.
func NewWindow(cfg config.Window) (*Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize GLFW: %w", err)
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, boolToInt(cfg.Resizable))

	handle, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("failed to create window: %w", err)
	}
	handle.MakeContextCurrent()
	if cfg.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	w := &Window{
		Handle: handle,
		Width:  cfg.Width,
		Height: cfg.Height,
		Title:  cfg.Title,
	}
	handle.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		w.Width = width
		w.Height = height
		if w.onResize != nil {
			w.onResize(width, height)
		}
	})
	return w, nil
}

// OnResize is called with the new framebuffer size.
func (w *Window) OnResize(fn func(width, height int)) { w.onResize = fn }

func (w *Window) ShouldClose() bool { return w.Handle.ShouldClose() }

func (w *Window) Close() { w.Handle.SetShouldClose(true) }

func (w *Window) PollEvents() { glfw.PollEvents() }

func (w *Window) SwapBuffers() { w.Handle.SwapBuffers() }

func (w *Window) GetFramebufferSize() (int, int) { return w.Handle.GetFramebufferSize() }

func (w *Window) SetTitle(title string) {
	w.Handle.SetTitle(title)
	w.Title = title
}

// Time is seconds since the window was created.
func (w *Window) Time() float64 { return glfw.GetTime() }

func (w *Window) IsKeyPressed(key int) bool {
	return w.Handle.GetKey(glfw.Key(key)) == glfw.Press
}

func (w *Window) IsMouseButtonPressed(button int) bool {
	return w.Handle.GetMouseButton(glfw.MouseButton(button)) == glfw.Press
}

func (w *Window) GetCursorPos() (float64, float64) { return w.Handle.GetCursorPos() }

// ScrollCallback is the type for scroll event handlers
type ScrollCallback func(xoff, yoff float64)

func (w *Window) SetScrollCallback(cb ScrollCallback) {
	w.Handle.SetScrollCallback(func(_ *glfw.Window, xoff, yoff float64) {
		cb(xoff, yoff)
	})
}

func (w *Window) Destroy() {
	w.Handle.Destroy()
	glfw.Terminate()
}

func boolToInt(b bool) int {
	if b {
		return glfw.True
	}
	return glfw.False
}

const (
	KeyEscape       = int(glfw.KeyEscape)
	KeySpace        = int(glfw.KeySpace)
	KeyLeftShift    = int(glfw.KeyLeftShift)
	KeyRightShift   = int(glfw.KeyRightShift)
	KeyLeftControl  = int(glfw.KeyLeftControl)
	KeyRightControl = int(glfw.KeyRightControl)
	KeyLeftAlt      = int(glfw.KeyLeftAlt)
	KeyDelete       = int(glfw.KeyDelete)
	KeyTab          = int(glfw.KeyTab)
	KeyUp           = int(glfw.KeyUp)
	KeyDown         = int(glfw.KeyDown)
	KeyLeft         = int(glfw.KeyLeft)
	KeyRight        = int(glfw.KeyRight)
	KeyD            = int(glfw.KeyD)
	KeyF            = int(glfw.KeyF)
	KeyP            = int(glfw.KeyP)
	KeyR            = int(glfw.KeyR)
	KeyZ            = int(glfw.KeyZ)
	KeyF5           = int(glfw.KeyF5)
	KeyF9           = int(glfw.KeyF9)

	MouseButtonLeft   = int(glfw.MouseButtonLeft)
	MouseButtonRight  = int(glfw.MouseButtonRight)
	MouseButtonMiddle = int(glfw.MouseButtonMiddle)
)
