package gl

import (
	"errors"
	"fmt"
	"strings"
	"unsafe"

	"github.com/ebitengine/purego"
)

const (
	// ColorBufferBit is a mask used with Clear to clear the color buffer.
	ColorBufferBit = 0x00004000

	// PackAlignment specifies the row alignment used by ReadPixels (PixelStorei).
	PackAlignment = 0x0D05

	// RGBA is a pixel format representing red/green/blue/alpha.
	RGBA = 0x1908

	// UnsignedByte is a pixel data type indicating 8-bit unsigned values.
	UnsignedByte = 0x1401
	// UnsignedInt is an index type for 32-bit unsigned indices.
	UnsignedInt = 0x1405
	// Float is the 32-bit floating point attribute type.
	Float = 0x1406

	// Triangles draws every three vertices as an independent triangle.
	Triangles = 0x0004

	// Buffer binding targets.
	ArrayBuffer        = 0x8892
	ElementArrayBuffer = 0x8893

	// StaticDraw hints that buffer contents are written once and drawn many times.
	StaticDraw = 0x88E4

	// Shader stages.
	FragmentShader = 0x8B30
	VertexShader   = 0x8B31

	// Shader and program object parameters.
	CompileStatus = 0x8B81
	LinkStatus    = 0x8B82
	InfoLogLength = 0x8B84

	// GetString parameters.
	//
	// Vendor returns the company responsible for the GL implementation.
	Vendor = 0x1F00
	// Renderer returns the name of the renderer.
	Renderer = 0x1F01
	// Version returns the GL version string of the current context.
	Version = 0x1F02
)

// ErrFunctionLoad is returned by Load when one or more entry points cannot be
// resolved for the current context.
var ErrFunctionLoad = errors.New("gl: failed to load entry points")

// OpenGL describes the subset of the OpenGL 3.3 core profile used by this
// program.
//
// All methods operate on the context that is current for the calling thread.
type OpenGL interface {
	// ClearColor sets the clear color used by Clear when clearing the color buffer.
	ClearColor(r, g, b, a float32)

	// Clear clears buffers to preset values (e.g., ColorBufferBit).
	Clear(mask uint32)

	// Viewport sets the affine transformation of x and y from normalized device
	// coordinates to window coordinates.
	Viewport(x, y, width, height int32)

	// PixelStorei sets pixel storage modes (e.g., PackAlignment).
	PixelStorei(pname uint32, param int32)

	// ReadPixels reads a block of pixels from the framebuffer into client memory.
	ReadPixels(x, y, width, height int32, format, xtype uint32, pixels unsafe.Pointer)

	// GetString returns a string describing a GL property for the current context.
	GetString(name uint32) string

	GenBuffers(n int32, buffers *uint32)
	DeleteBuffers(n int32, buffers *uint32)
	BindBuffer(target, buffer uint32)

	// BufferData creates and initializes the data store of the buffer bound to target.
	BufferData(target uint32, size int, data unsafe.Pointer, usage uint32)

	GenVertexArrays(n int32, arrays *uint32)
	DeleteVertexArrays(n int32, arrays *uint32)
	BindVertexArray(array uint32)

	// VertexAttribPointer records the layout of attribute index against the
	// buffer currently bound to ArrayBuffer. offset is a byte offset into that
	// buffer.
	VertexAttribPointer(index uint32, size int32, xtype uint32, normalized bool, stride int32, offset uintptr)
	EnableVertexAttribArray(index uint32)

	CreateShader(xtype uint32) uint32
	ShaderSource(shader uint32, source string)
	CompileShader(shader uint32)
	GetShaderiv(shader, pname uint32, params *int32)

	// GetShaderInfoLog returns at most maxLength bytes of the shader's info log.
	GetShaderInfoLog(shader uint32, maxLength int32) string
	DeleteShader(shader uint32)

	CreateProgram() uint32
	AttachShader(program, shader uint32)
	LinkProgram(program uint32)
	GetProgramiv(program, pname uint32, params *int32)

	// GetProgramInfoLog returns at most maxLength bytes of the program's info log.
	GetProgramInfoLog(program uint32, maxLength int32) string
	UseProgram(program uint32)
	DeleteProgram(program uint32)

	// DrawElements renders primitives from the element buffer bound to the
	// current vertex array. offset is a byte offset into that buffer.
	DrawElements(mode uint32, count int32, xtype uint32, offset uintptr)
}

type openGL struct {
	clearColor  func(float32, float32, float32, float32)
	clear       func(uint32)
	viewport    func(int32, int32, int32, int32)
	pixelStorei func(uint32, int32)
	readPixels  func(int32, int32, int32, int32, uint32, uint32, unsafe.Pointer)
	getString   func(uint32) *byte

	// Buffer operations
	genBuffers    func(int32, *uint32)
	deleteBuffers func(int32, *uint32)
	bindBuffer    func(uint32, uint32)
	bufferData    func(uint32, int, unsafe.Pointer, uint32)

	// VAO operations
	genVertexArrays         func(int32, *uint32)
	deleteVertexArrays      func(int32, *uint32)
	bindVertexArray         func(uint32)
	vertexAttribPointer     func(uint32, int32, uint32, bool, int32, uintptr)
	enableVertexAttribArray func(uint32)

	// Shader operations
	createShader     func(uint32) uint32
	shaderSource     func(uint32, int32, **byte, *int32)
	compileShader    func(uint32)
	getShaderiv      func(uint32, uint32, *int32)
	getShaderInfoLog func(uint32, int32, *int32, *byte)
	deleteShader     func(uint32)

	// Program operations
	createProgram     func() uint32
	attachShader      func(uint32, uint32)
	linkProgram       func(uint32)
	getProgramiv      func(uint32, uint32, *int32)
	getProgramInfoLog func(uint32, int32, *int32, *byte)
	useProgram        func(uint32)
	deleteProgram     func(uint32)

	// Drawing
	drawElements func(uint32, int32, uint32, uintptr)
}

func (gl *openGL) ClearColor(r, g, b, a float32) {
	gl.clearColor(r, g, b, a)
}

func (gl *openGL) Clear(mask uint32) {
	gl.clear(mask)
}

func (gl *openGL) Viewport(x, y, width, height int32) {
	gl.viewport(x, y, width, height)
}

func (gl *openGL) PixelStorei(pname uint32, param int32) {
	gl.pixelStorei(pname, param)
}

func (gl *openGL) ReadPixels(x, y, width, height int32, format, xtype uint32, pixels unsafe.Pointer) {
	gl.readPixels(x, y, width, height, format, xtype, pixels)
}

func (gl *openGL) GetString(name uint32) string {
	return gostring(gl.getString(name))
}

func (gl *openGL) GenBuffers(n int32, buffers *uint32) {
	gl.genBuffers(n, buffers)
}

func (gl *openGL) DeleteBuffers(n int32, buffers *uint32) {
	gl.deleteBuffers(n, buffers)
}

func (gl *openGL) BindBuffer(target, buffer uint32) {
	gl.bindBuffer(target, buffer)
}

func (gl *openGL) BufferData(target uint32, size int, data unsafe.Pointer, usage uint32) {
	gl.bufferData(target, size, data, usage)
}

func (gl *openGL) GenVertexArrays(n int32, arrays *uint32) {
	gl.genVertexArrays(n, arrays)
}

func (gl *openGL) DeleteVertexArrays(n int32, arrays *uint32) {
	gl.deleteVertexArrays(n, arrays)
}

func (gl *openGL) BindVertexArray(array uint32) {
	gl.bindVertexArray(array)
}

func (gl *openGL) VertexAttribPointer(index uint32, size int32, xtype uint32, normalized bool, stride int32, offset uintptr) {
	gl.vertexAttribPointer(index, size, xtype, normalized, stride, offset)
}

func (gl *openGL) EnableVertexAttribArray(index uint32) {
	gl.enableVertexAttribArray(index)
}

func (gl *openGL) CreateShader(xtype uint32) uint32 {
	return gl.createShader(xtype)
}

func (gl *openGL) ShaderSource(shader uint32, source string) {
	// The length is passed explicitly, so the source needs no terminator but
	// the pointer must still be valid for an empty string.
	src := append([]byte(source), 0)
	srcPtr := &src[0]
	length := int32(len(source))
	gl.shaderSource(shader, 1, &srcPtr, &length)
}

func (gl *openGL) CompileShader(shader uint32) {
	gl.compileShader(shader)
}

func (gl *openGL) GetShaderiv(shader, pname uint32, params *int32) {
	gl.getShaderiv(shader, pname, params)
}

func (gl *openGL) GetShaderInfoLog(shader uint32, maxLength int32) string {
	var length int32
	gl.getShaderiv(shader, InfoLogLength, &length)
	return readInfoLog(length, maxLength, func(size int32, written *int32, buf *byte) {
		gl.getShaderInfoLog(shader, size, written, buf)
	})
}

func (gl *openGL) DeleteShader(shader uint32) {
	gl.deleteShader(shader)
}

func (gl *openGL) CreateProgram() uint32 {
	return gl.createProgram()
}

func (gl *openGL) AttachShader(program, shader uint32) {
	gl.attachShader(program, shader)
}

func (gl *openGL) LinkProgram(program uint32) {
	gl.linkProgram(program)
}

func (gl *openGL) GetProgramiv(program, pname uint32, params *int32) {
	gl.getProgramiv(program, pname, params)
}

func (gl *openGL) GetProgramInfoLog(program uint32, maxLength int32) string {
	var length int32
	gl.getProgramiv(program, InfoLogLength, &length)
	return readInfoLog(length, maxLength, func(size int32, written *int32, buf *byte) {
		gl.getProgramInfoLog(program, size, written, buf)
	})
}

func (gl *openGL) UseProgram(program uint32) {
	gl.useProgram(program)
}

func (gl *openGL) DeleteProgram(program uint32) {
	gl.deleteProgram(program)
}

func (gl *openGL) DrawElements(mode uint32, count int32, xtype uint32, offset uintptr) {
	gl.drawElements(mode, count, xtype, offset)
}

// readInfoLog allocates min(length, maxLength) bytes and lets fetch fill them.
// length includes the terminating NUL reported by the driver.
func readInfoLog(length, maxLength int32, fetch func(size int32, written *int32, buf *byte)) string {
	if length > maxLength {
		length = maxLength
	}
	if length <= 0 {
		return ""
	}
	buf := make([]byte, length)
	var written int32
	fetch(length, &written, &buf[0])
	if written < 0 || written > length {
		written = length
	}
	return strings.TrimRight(string(buf[:written]), "\x00")
}

// Load resolves every entry point through getProcAddress and binds it with
// purego. A context must be current on the calling thread.
//
// If any symbol is missing nothing is bound and the returned error wraps
// ErrFunctionLoad and names every missing symbol.
func Load(getProcAddress func(name string) unsafe.Pointer) (OpenGL, error) {
	gl := &openGL{}
	entries := []struct {
		dst  any
		name string
	}{
		{&gl.clearColor, "glClearColor"},
		{&gl.clear, "glClear"},
		{&gl.viewport, "glViewport"},
		{&gl.pixelStorei, "glPixelStorei"},
		{&gl.readPixels, "glReadPixels"},
		{&gl.getString, "glGetString"},

		{&gl.genBuffers, "glGenBuffers"},
		{&gl.deleteBuffers, "glDeleteBuffers"},
		{&gl.bindBuffer, "glBindBuffer"},
		{&gl.bufferData, "glBufferData"},

		{&gl.genVertexArrays, "glGenVertexArrays"},
		{&gl.deleteVertexArrays, "glDeleteVertexArrays"},
		{&gl.bindVertexArray, "glBindVertexArray"},
		{&gl.vertexAttribPointer, "glVertexAttribPointer"},
		{&gl.enableVertexAttribArray, "glEnableVertexAttribArray"},

		{&gl.createShader, "glCreateShader"},
		{&gl.shaderSource, "glShaderSource"},
		{&gl.compileShader, "glCompileShader"},
		{&gl.getShaderiv, "glGetShaderiv"},
		{&gl.getShaderInfoLog, "glGetShaderInfoLog"},
		{&gl.deleteShader, "glDeleteShader"},

		{&gl.createProgram, "glCreateProgram"},
		{&gl.attachShader, "glAttachShader"},
		{&gl.linkProgram, "glLinkProgram"},
		{&gl.getProgramiv, "glGetProgramiv"},
		{&gl.getProgramInfoLog, "glGetProgramInfoLog"},
		{&gl.useProgram, "glUseProgram"},
		{&gl.deleteProgram, "glDeleteProgram"},

		{&gl.drawElements, "glDrawElements"},
	}

	addrs := make([]uintptr, len(entries))
	var missing []string
	for i, e := range entries {
		addrs[i] = uintptr(getProcAddress(e.name))
		if addrs[i] == 0 {
			missing = append(missing, e.name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrFunctionLoad, strings.Join(missing, ", "))
	}

	for i, e := range entries {
		purego.RegisterFunc(e.dst, addrs[i])
	}
	return gl, nil
}

func gostring(ptr *byte) string {
	if ptr == nil {
		return ""
	}
	var bytes []byte
	for p := ptr; *p != 0; p = (*byte)(unsafe.Pointer(uintptr(unsafe.Pointer(p)) + 1)) {
		bytes = append(bytes, *p)
	}
	return string(bytes)
}
