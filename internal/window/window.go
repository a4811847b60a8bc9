package window

import (
	"errors"

	"github.com/tinyrange/hellosquare/internal/gl"
)

var (
	// ErrPlatformInit is returned by New when the windowing subsystem cannot start.
	ErrPlatformInit = errors.New("window: platform init failed")
	// ErrWindowCreation is returned by New when the window or its context cannot be created.
	ErrWindowCreation = errors.New("window: create window failed")
)

// Window is a single OS window with a current OpenGL context.
//
// Every method must be called from the thread that created the window.
type Window interface {
	// GL resolves the OpenGL entry points for this window's context.
	GL() (gl.OpenGL, error)

	// Close destroys the window and shuts down the windowing subsystem. It is
	// safe to call more than once.
	Close()

	ShouldClose() bool
	SetShouldClose(value bool)

	// Poll dispatches pending window-system events without blocking.
	Poll()

	// Swap presents the back buffer.
	Swap()

	// BackingSize returns the framebuffer size in pixels.
	BackingSize() (width, height int)
	Scale() float32
	GetKeyState(key Key) KeyState

	// SetFramebufferSizeCallback registers f to run from Poll whenever the
	// framebuffer is resized. A later call replaces the earlier callback.
	SetFramebufferSizeCallback(f func(width, height int))
}
