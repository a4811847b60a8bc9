package graphics

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"unsafe"

	glpkg "github.com/tinyrange/hellosquare/internal/gl"
	"github.com/tinyrange/hellosquare/internal/window"
)

type glWindow struct {
	platform window.Window
	gl       glpkg.OpenGL

	clearColor Color
	state      LoopState

	meshes   []*Mesh
	programs []uint32
	closed   bool
}

type glFrame struct {
	w *glWindow
}

// New opens a window with an OpenGL 3.3 core context and loads the GL entry
// points. The platform window is closed again if loading fails.
func New(title string, width, height int) (Window, error) {
	platform, err := window.New(title, width, height)
	if err != nil {
		return nil, err
	}
	w, err := newWithPlatform(platform)
	if err != nil {
		return nil, fmt.Errorf("load OpenGL: %w", err)
	}
	return w, nil
}

func newWithPlatform(platform window.Window) (*glWindow, error) {
	gl, err := platform.GL()
	if err != nil {
		platform.Close()
		return nil, err
	}

	w := &glWindow{
		platform:   platform,
		gl:         gl,
		clearColor: DefaultClearColor,
		state:      StateRunning,
	}

	w.resize(platform.BackingSize())
	platform.SetFramebufferSizeCallback(w.resize)

	return w, nil
}

// resize maps normalized device coordinates onto the whole framebuffer.
func (w *glWindow) resize(width, height int) {
	w.gl.Viewport(0, 0, int32(width), int32(height))
}

func (w *glWindow) PlatformWindow() window.Window {
	return w.platform
}

func (w *glWindow) GL() glpkg.OpenGL {
	return w.gl
}

func (w *glWindow) NewMesh(g Geometry) (Mesh, error) {
	m, err := Upload(w.gl, g)
	if err != nil {
		return Mesh{}, err
	}
	w.meshes = append(w.meshes, &m)
	return m, nil
}

func (w *glWindow) NewProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	program, err := BuildProgram(w.gl, vertexSrc, fragmentSrc)
	if err != nil {
		return 0, err
	}
	w.programs = append(w.programs, program)
	return program, nil
}

func (w *glWindow) SetClearColor(c Color) {
	w.clearColor = c
}

func (w *glWindow) State() LoopState {
	return w.state
}

func (w *glWindow) setState(s LoopState) {
	if s == w.state {
		return
	}
	slog.Debug("Loop state", "from", w.state, "to", s)
	w.state = s
}

func (w *glWindow) Loop(step func(f Frame) error) error {
	defer w.Close()

	frame := glFrame{w: w}
	for {
		if w.platform.ShouldClose() {
			w.setState(StateClosePending)
			return nil
		}

		w.processInput()
		w.prepareFrame()

		if err := step(frame); err != nil {
			return err
		}

		w.platform.Swap()
		w.platform.Poll()
	}
}

func (w *glWindow) processInput() {
	if w.platform.GetKeyState(window.KeyEscape).IsDown() {
		w.platform.SetShouldClose(true)
	}
}

func (w *glWindow) prepareFrame() {
	w.gl.ClearColor(w.clearColor[0], w.clearColor[1], w.clearColor[2], w.clearColor[3])
	w.gl.Clear(glpkg.ColorBufferBit)
}

func (w *glWindow) Close() {
	if w.closed {
		return
	}
	w.closed = true

	for _, m := range w.meshes {
		m.Delete(w.gl)
	}
	w.meshes = nil
	for _, p := range w.programs {
		w.gl.DeleteProgram(p)
	}
	w.programs = nil

	w.platform.Close()
	w.setState(StateTerminated)
}

func (f glFrame) DrawMesh(program uint32, m Mesh) {
	f.w.gl.UseProgram(program)
	f.w.gl.BindVertexArray(m.VAO)
	f.w.gl.DrawElements(glpkg.Triangles, m.IndexCount, glpkg.UnsignedInt, 0)
}

func (f glFrame) RequestClose() {
	f.w.platform.SetShouldClose(true)
}

// Screenshot implements Frame.
func (f glFrame) Screenshot() (image.Image, error) {
	bw, bh := f.w.platform.BackingSize()
	if bw <= 0 || bh <= 0 {
		return nil, errors.New("screenshot: framebuffer has no area")
	}
	img := image.NewRGBA(image.Rect(0, 0, bw, bh))
	f.w.gl.PixelStorei(glpkg.PackAlignment, 1)
	f.w.gl.ReadPixels(0, 0, int32(bw), int32(bh), glpkg.RGBA, glpkg.UnsignedByte, unsafe.Pointer(&img.Pix[0]))
	flipRows(img)
	return img, nil
}

// flipRows mirrors img top to bottom in place. GL returns rows bottom first.
func flipRows(img *image.RGBA) {
	h := img.Rect.Dy()
	tmp := make([]byte, img.Stride)
	for top, bottom := 0, h-1; top < bottom; top, bottom = top+1, bottom-1 {
		a := img.Pix[top*img.Stride : (top+1)*img.Stride]
		b := img.Pix[bottom*img.Stride : (bottom+1)*img.Stride]
		copy(tmp, a)
		copy(a, b)
		copy(b, tmp)
	}
}
