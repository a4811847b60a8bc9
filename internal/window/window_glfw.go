package window

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/tinyrange/hellosquare/internal/gl"
)

type contextHint struct {
	hint  glfw.Hint
	value int
}

// contextHints returns the hints for an OpenGL 3.3 core context. macOS only
// hands out core contexts that are forward compatible.
func contextHints(goos string) []contextHint {
	hints := []contextHint{
		{glfw.ContextVersionMajor, 3},
		{glfw.ContextVersionMinor, 3},
		{glfw.OpenGLProfile, glfw.OpenGLCoreProfile},
	}
	if goos == "darwin" {
		hints = append(hints, contextHint{glfw.OpenGLForwardCompatible, glfw.True})
	}
	return hints
}

var glfwKeys = map[Key]glfw.Key{
	KeyEscape: glfw.KeyEscape,
}

// The GLFW calls made by New. Tests replace them to drive the failure paths
// without a display.
var (
	glfwInit      = glfw.Init
	glfwTerminate = glfw.Terminate

	glfwApplyHints = func(hints []contextHint) {
		glfw.DefaultWindowHints()
		for _, h := range hints {
			glfw.WindowHint(h.hint, h.value)
		}
	}

	glfwCreateWindow = func(width, height int, title string) (*glfw.Window, error) {
		return glfw.CreateWindow(width, height, title, nil, nil)
	}
)

func keyStateFromAction(action glfw.Action) KeyState {
	switch action {
	case glfw.Press:
		return KeyStateDown
	case glfw.Repeat:
		return KeyStateRepeated
	default:
		return KeyStateUp
	}
}

type glfwWindow struct {
	win      *glfw.Window
	onResize func(width, height int)
}

// New initializes GLFW, creates a window with an OpenGL 3.3 core context and
// makes the context current on the calling thread. The caller must be locked
// to the main OS thread.
func New(title string, width, height int) (Window, error) {
	if err := glfwInit(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPlatformInit, err)
	}

	glfwApplyHints(contextHints(runtime.GOOS))

	win, err := glfwCreateWindow(width, height, title)
	if err == nil && win == nil {
		err = errors.New("no window returned")
	}
	if err != nil {
		glfwTerminate()
		return nil, fmt.Errorf("%w: %v", ErrWindowCreation, err)
	}
	win.MakeContextCurrent()

	w := &glfwWindow{win: win}
	win.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		if w.onResize != nil {
			w.onResize(width, height)
		}
	})
	return w, nil
}

func (w *glfwWindow) GL() (gl.OpenGL, error) {
	return gl.Load(glfw.GetProcAddress)
}

func (w *glfwWindow) Close() {
	if w.win == nil {
		return
	}
	w.win.Destroy()
	w.win = nil
	glfwTerminate()
}

func (w *glfwWindow) ShouldClose() bool {
	if w.win == nil {
		return true
	}
	return w.win.ShouldClose()
}

func (w *glfwWindow) SetShouldClose(value bool) {
	if w.win != nil {
		w.win.SetShouldClose(value)
	}
}

func (w *glfwWindow) Poll() {
	glfw.PollEvents()
}

func (w *glfwWindow) Swap() {
	if w.win != nil {
		w.win.SwapBuffers()
	}
}

func (w *glfwWindow) BackingSize() (int, int) {
	if w.win == nil {
		return 0, 0
	}
	return w.win.GetFramebufferSize()
}

func (w *glfwWindow) Scale() float32 {
	if w.win == nil {
		return 1
	}
	x, _ := w.win.GetContentScale()
	return x
}

func (w *glfwWindow) GetKeyState(key Key) KeyState {
	k, ok := glfwKeys[key]
	if !ok || w.win == nil {
		return KeyStateUp
	}
	return keyStateFromAction(w.win.GetKey(k))
}

func (w *glfwWindow) SetFramebufferSizeCallback(f func(width, height int)) {
	w.onResize = f
}
