package graphics

import (
	"fmt"
	"strings"
	"unsafe"

	glpkg "github.com/tinyrange/hellosquare/internal/gl"
	"github.com/tinyrange/hellosquare/internal/window"
)

type call struct {
	name string
	args []any
}

func (c call) String() string {
	return fmt.Sprintf("%s%v", c.name, c.args)
}

// fakeGL records every call and hands out increasing object names.
type fakeGL struct {
	calls  []call
	nextID uint32

	// Compile status per shader stage; missing stages compile.
	failStage  map[uint32]string
	failLink   string
	shaderType map[uint32]uint32

	buffers map[uint32][]byte
	bound   map[uint32]uint32

	pixel [4]byte
}

func newFakeGL() *fakeGL {
	return &fakeGL{
		failStage:  map[uint32]string{},
		shaderType: map[uint32]uint32{},
		buffers:    map[uint32][]byte{},
		bound:      map[uint32]uint32{},
	}
}

func (g *fakeGL) record(name string, args ...any) {
	g.calls = append(g.calls, call{name: name, args: args})
}

func (g *fakeGL) gen() uint32 {
	g.nextID++
	return g.nextID
}

func (g *fakeGL) named(name string) []call {
	var out []call
	for _, c := range g.calls {
		if c.name == name {
			out = append(out, c)
		}
	}
	return out
}

func (g *fakeGL) count(name string) int {
	return len(g.named(name))
}

func (g *fakeGL) names() []string {
	out := make([]string, len(g.calls))
	for i, c := range g.calls {
		out[i] = c.name
	}
	return out
}

func (g *fakeGL) reset() {
	g.calls = nil
}

func (g *fakeGL) ClearColor(r, gr, b, a float32) { g.record("ClearColor", r, gr, b, a) }
func (g *fakeGL) Clear(mask uint32)              { g.record("Clear", mask) }
func (g *fakeGL) Viewport(x, y, w, h int32)      { g.record("Viewport", x, y, w, h) }
func (g *fakeGL) PixelStorei(pname uint32, param int32) {
	g.record("PixelStorei", pname, param)
}

func (g *fakeGL) ReadPixels(x, y, w, h int32, format, xtype uint32, pixels unsafe.Pointer) {
	g.record("ReadPixels", x, y, w, h, format, xtype)
	// Fill the bottom row (first in GL order) with g.pixel.
	row := unsafe.Slice((*byte)(pixels), int(w)*4)
	for i := 0; i < int(w); i++ {
		copy(row[i*4:], g.pixel[:])
	}
}

func (g *fakeGL) GetString(name uint32) string {
	switch name {
	case glpkg.Vendor:
		return "fake"
	case glpkg.Version:
		return "3.3 fake"
	}
	return ""
}

func (g *fakeGL) GenBuffers(n int32, buffers *uint32) {
	*buffers = g.gen()
	g.record("GenBuffers", n, *buffers)
}

func (g *fakeGL) DeleteBuffers(n int32, buffers *uint32) { g.record("DeleteBuffers", n, *buffers) }

func (g *fakeGL) BindBuffer(target, buffer uint32) {
	g.bound[target] = buffer
	g.record("BindBuffer", target, buffer)
}

func (g *fakeGL) BufferData(target uint32, size int, data unsafe.Pointer, usage uint32) {
	g.buffers[g.bound[target]] = append([]byte(nil), unsafe.Slice((*byte)(data), size)...)
	g.record("BufferData", target, size, usage)
}

func (g *fakeGL) GenVertexArrays(n int32, arrays *uint32) {
	*arrays = g.gen()
	g.record("GenVertexArrays", n, *arrays)
}

func (g *fakeGL) DeleteVertexArrays(n int32, arrays *uint32) {
	g.record("DeleteVertexArrays", n, *arrays)
}

func (g *fakeGL) BindVertexArray(array uint32) { g.record("BindVertexArray", array) }

func (g *fakeGL) VertexAttribPointer(index uint32, size int32, xtype uint32, normalized bool, stride int32, offset uintptr) {
	g.record("VertexAttribPointer", index, size, xtype, normalized, stride, offset)
}

func (g *fakeGL) EnableVertexAttribArray(index uint32) { g.record("EnableVertexAttribArray", index) }

func (g *fakeGL) CreateShader(xtype uint32) uint32 {
	id := g.gen()
	g.shaderType[id] = xtype
	g.record("CreateShader", xtype)
	return id
}

func (g *fakeGL) ShaderSource(shader uint32, source string) {
	g.record("ShaderSource", shader)
	if strings.Contains(source, "syntax error") {
		g.failStage[g.shaderType[shader]] = "0:1(1): error: syntax error, unexpected IDENTIFIER"
	}
}

func (g *fakeGL) CompileShader(shader uint32) { g.record("CompileShader", shader) }

func (g *fakeGL) GetShaderiv(shader, pname uint32, params *int32) {
	g.record("GetShaderiv", shader, pname)
	if pname == glpkg.CompileStatus {
		*params = 1
		if _, failed := g.failStage[g.shaderType[shader]]; failed {
			*params = 0
		}
	}
}

func (g *fakeGL) GetShaderInfoLog(shader uint32, maxLength int32) string {
	g.record("GetShaderInfoLog", shader, maxLength)
	return truncate(g.failStage[g.shaderType[shader]], maxLength)
}

func (g *fakeGL) DeleteShader(shader uint32) { g.record("DeleteShader", shader) }

func (g *fakeGL) CreateProgram() uint32 {
	id := g.gen()
	g.record("CreateProgram", id)
	return id
}

func (g *fakeGL) AttachShader(program, shader uint32) { g.record("AttachShader", program, shader) }
func (g *fakeGL) LinkProgram(program uint32)          { g.record("LinkProgram", program) }

func (g *fakeGL) GetProgramiv(program, pname uint32, params *int32) {
	g.record("GetProgramiv", program, pname)
	if pname == glpkg.LinkStatus {
		*params = 1
		if g.failLink != "" {
			*params = 0
		}
	}
}

func (g *fakeGL) GetProgramInfoLog(program uint32, maxLength int32) string {
	g.record("GetProgramInfoLog", program, maxLength)
	return truncate(g.failLink, maxLength)
}

func (g *fakeGL) UseProgram(program uint32)    { g.record("UseProgram", program) }
func (g *fakeGL) DeleteProgram(program uint32) { g.record("DeleteProgram", program) }

func (g *fakeGL) DrawElements(mode uint32, count int32, xtype uint32, offset uintptr) {
	g.record("DrawElements", mode, count, xtype, offset)
}

func truncate(s string, n int32) string {
	if int32(len(s)) > n {
		return s[:n]
	}
	return s
}

// fakePlatform stands in for the GLFW window.
type fakePlatform struct {
	gl     *fakeGL
	glErr  error
	width  int
	height int
	close  bool
	closed int
	swaps  int
	polls  int
	keys   map[window.Key]window.KeyState
	resize func(width, height int)
	onPoll func(p *fakePlatform)
	onSwap func(p *fakePlatform)
}

func newFakePlatform() *fakePlatform {
	return &fakePlatform{
		gl:     newFakeGL(),
		width:  800,
		height: 600,
		keys:   map[window.Key]window.KeyState{},
	}
}

func (p *fakePlatform) GL() (glpkg.OpenGL, error) {
	if p.glErr != nil {
		return nil, p.glErr
	}
	return p.gl, nil
}

func (p *fakePlatform) Close()                  { p.closed++ }
func (p *fakePlatform) ShouldClose() bool       { return p.close }
func (p *fakePlatform) SetShouldClose(v bool)   { p.close = v }
func (p *fakePlatform) Scale() float32          { return 1 }
func (p *fakePlatform) BackingSize() (int, int) { return p.width, p.height }

func (p *fakePlatform) Poll() {
	p.polls++
	if p.onPoll != nil {
		p.onPoll(p)
	}
}

func (p *fakePlatform) Swap() {
	p.swaps++
	if p.onSwap != nil {
		p.onSwap(p)
	}
}

func (p *fakePlatform) GetKeyState(key window.Key) window.KeyState {
	if s, ok := p.keys[key]; ok {
		return s
	}
	return window.KeyStateUp
}

func (p *fakePlatform) SetFramebufferSizeCallback(f func(width, height int)) {
	p.resize = f
}

// fireResize behaves like the window system delivering a resize during Poll.
func (p *fakePlatform) fireResize(width, height int) {
	p.width, p.height = width, height
	if p.resize != nil {
		p.resize(width, height)
	}
}
