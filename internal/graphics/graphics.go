package graphics

import (
	"image"

	glpkg "github.com/tinyrange/hellosquare/internal/gl"
	"github.com/tinyrange/hellosquare/internal/window"
)

// Color is an RGBA color with components in [0, 1].
type Color [4]float32

var (
	ColorBlack = Color{0, 0, 0, 1}

	// DefaultClearColor is the steel blue every frame starts from.
	DefaultClearColor = Color{0.3, 0.5, 0.7, 1.0}
)

// LoopState tracks the frame loop's progress towards shutdown.
type LoopState int

const (
	// Frames are being drawn.
	StateRunning LoopState = iota
	// A close was observed at the top of an iteration; no further frame starts.
	// Loop passes through this state on its way out, so State reports it
	// only until the deferred Close runs. Transitions are logged at debug
	// level.
	StateClosePending
	// Loop has returned and the window is closed.
	StateTerminated
)

func (s LoopState) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateClosePending:
		return "close-pending"
	case StateTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

type Frame interface {
	// DrawMesh binds program and the mesh's vertex array and issues one
	// indexed triangle draw.
	DrawMesh(program uint32, m Mesh)

	// RequestClose sets the close flag. The current frame still completes.
	RequestClose()

	Screenshot() (image.Image, error)
}

type Window interface {
	// Return the platform-specific window implementation.
	PlatformWindow() window.Window

	GL() glpkg.OpenGL

	// NewMesh uploads g. The mesh is released when the window closes.
	NewMesh(g Geometry) (Mesh, error)

	// NewProgram builds a shader program. The program is released when the
	// window closes.
	NewProgram(vertexSrc, fragmentSrc string) (uint32, error)

	SetClearColor(c Color)

	State() LoopState

	// Call f for each frame until the window is asked to close or f returns
	// an error. The window is closed when Loop returns.
	Loop(func(f Frame) error) error

	// Close releases GPU objects and the platform window. Safe to call more
	// than once.
	Close()
}
