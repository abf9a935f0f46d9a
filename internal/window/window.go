// Package window opens a GLFW window with an OpenGL 4.1 core context and
// translates its callbacks into core events.
package window

import (
	"fmt"
	"log/slog"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"

	"pbr-viewer/core"
	"pbr-viewer/render"
)

func init() {
	// GLFW and GL calls must stay on the main thread.
	runtime.LockOSThread()
}

type Config struct {
	Width     int
	Height    int
	Title     string
	Resizable bool
	VSync     bool
}

func DefaultConfig() Config {
	return Config{
		Width:     800,
		Height:    600,
		Title:     "PBR Viewer",
		Resizable: true,
		VSync:     true,
	}
}

type Window struct {
	handle *glfw.Window
	events []core.Event
}

func New(cfg Config) (*Window, error) {
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

	w := &Window{handle: handle}
	w.installCallbacks()

	fbw, fbh := handle.GetFramebufferSize()
	render.Logger().Info("window: created",
		slog.Int("width", cfg.Width),
		slog.Int("height", cfg.Height),
		slog.Int("framebuffer_width", fbw),
		slog.Int("framebuffer_height", fbh))
	return w, nil
}

func (w *Window) installCallbacks() {
	w.handle.SetMouseButtonCallback(func(win *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
		if button != glfw.MouseButtonLeft {
			return
		}
		x, y := w.cursor()
		switch action {
		case glfw.Press:
			w.push(core.Event{Kind: core.EventPointerDown, X: x, Y: y})
		case glfw.Release:
			w.push(core.Event{Kind: core.EventPointerUp, X: x, Y: y})
		}
	})

	w.handle.SetCursorPosCallback(func(win *glfw.Window, xpos, ypos float64) {
		sx, sy := win.GetContentScale()
		w.push(core.Event{Kind: core.EventPointerMove, X: float32(xpos) * sx, Y: float32(ypos) * sy})
	})

	w.handle.SetCursorEnterCallback(func(win *glfw.Window, entered bool) {
		if !entered {
			w.push(core.Event{Kind: core.EventPointerLeave})
		}
	})

	w.handle.SetKeyCallback(func(win *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if action == glfw.Press || action == glfw.Repeat {
			w.push(core.Event{Kind: core.EventKeyDown, Key: core.Key(key)})
		}
	})

	w.handle.SetFramebufferSizeCallback(func(win *glfw.Window, width, height int) {
		w.push(core.Event{Kind: core.EventResize, Width: width, Height: height})
	})
}

func (w *Window) push(e core.Event) {
	w.events = append(w.events, e)
}

func (w *Window) cursor() (float32, float32) {
	x, y := w.handle.GetCursorPos()
	sx, sy := w.handle.GetContentScale()
	return float32(x) * sx, float32(y) * sy
}

// PollEvents processes pending window events and returns them in arrival
// order. The returned slice is only valid until the next call.
func (w *Window) PollEvents() []core.Event {
	w.events = w.events[:0]
	glfw.PollEvents()
	return w.events
}

func (w *Window) ShouldClose() bool {
	return w.handle.ShouldClose()
}

func (w *Window) SetShouldClose(v bool) {
	w.handle.SetShouldClose(v)
}

func (w *Window) SwapBuffers() {
	w.handle.SwapBuffers()
}

// FramebufferSize returns the drawable size in device pixels.
func (w *Window) FramebufferSize() (int, int) {
	return w.handle.GetFramebufferSize()
}

// ContentScale is the ratio between device pixels and screen coordinates.
func (w *Window) ContentScale() float32 {
	sx, _ := w.handle.GetContentScale()
	return sx
}

func (w *Window) SetTitle(title string) {
	w.handle.SetTitle(title)
}

func (w *Window) Destroy() {
	w.handle.Destroy()
	glfw.Terminate()
}

func boolToInt(b bool) int {
	if b {
		return glfw.True
	}
	return glfw.False
}
