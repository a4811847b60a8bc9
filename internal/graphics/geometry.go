package graphics

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
	glpkg "github.com/tinyrange/hellosquare/internal/gl"
)

// Vertex attribute layout shared by every mesh: slot 0 holds three tightly
// packed float32 position components.
const (
	PositionAttrib     = 0
	PositionComponents = 3
	PositionStride     = PositionComponents * 4
	PositionOffset     = 0
)

var ErrInvalidGeometry = errors.New("graphics: invalid geometry")

// Geometry is an indexed triangle list. It is treated as immutable once built.
type Geometry struct {
	Positions []mgl32.Vec3
	Indices   []uint32
}

// Quad returns the unit quad centred on the origin, split into two triangles.
func Quad() Geometry {
	return Geometry{
		Positions: []mgl32.Vec3{
			{-0.5, -0.5, 0.0},
			{0.5, -0.5, 0.0},
			{0.5, 0.5, 0.0},
			{-0.5, 0.5, 0.0},
		},
		Indices: []uint32{
			0, 1, 2,
			2, 3, 0,
		},
	}
}

// Validate checks that g describes whole triangles over its own vertices.
func (g Geometry) Validate() error {
	if len(g.Positions) == 0 {
		return fmt.Errorf("%w: no positions", ErrInvalidGeometry)
	}
	if len(g.Indices) == 0 || len(g.Indices)%3 != 0 {
		return fmt.Errorf("%w: %d indices is not a whole number of triangles", ErrInvalidGeometry, len(g.Indices))
	}
	for i, idx := range g.Indices {
		if int(idx) >= len(g.Positions) {
			return fmt.Errorf("%w: index %d at %d out of range for %d vertices", ErrInvalidGeometry, idx, i, len(g.Positions))
		}
	}
	return nil
}

// vertexData flattens the positions into the layout described by
// PositionStride.
func (g Geometry) vertexData() []float32 {
	data := make([]float32, 0, len(g.Positions)*PositionComponents)
	for _, p := range g.Positions {
		data = append(data, p.X(), p.Y(), p.Z())
	}
	return data
}

// Mesh holds the GPU objects created by Upload.
type Mesh struct {
	VAO uint32
	VBO uint32
	EBO uint32

	IndexCount int32
}

// Upload creates a vertex array, a vertex buffer and an index buffer for g.
// The buffers are static. No vertex array is left bound on return.
func Upload(gl glpkg.OpenGL, g Geometry) (Mesh, error) {
	if err := g.Validate(); err != nil {
		return Mesh{}, err
	}

	vertices := g.vertexData()

	var m Mesh
	gl.GenVertexArrays(1, &m.VAO)
	gl.BindVertexArray(m.VAO)

	gl.GenBuffers(1, &m.VBO)
	gl.BindBuffer(glpkg.ArrayBuffer, m.VBO)
	gl.BufferData(glpkg.ArrayBuffer, len(vertices)*4, unsafe.Pointer(&vertices[0]), glpkg.StaticDraw)

	gl.GenBuffers(1, &m.EBO)
	gl.BindBuffer(glpkg.ElementArrayBuffer, m.EBO)
	gl.BufferData(glpkg.ElementArrayBuffer, len(g.Indices)*4, unsafe.Pointer(&g.Indices[0]), glpkg.StaticDraw)

	gl.VertexAttribPointer(PositionAttrib, PositionComponents, glpkg.Float, false, PositionStride, PositionOffset)
	gl.EnableVertexAttribArray(PositionAttrib)

	gl.BindVertexArray(0)

	m.IndexCount = int32(len(g.Indices))
	return m, nil
}

// Delete releases the mesh's GPU objects.
func (m *Mesh) Delete(gl glpkg.OpenGL) {
	if m.EBO != 0 {
		gl.DeleteBuffers(1, &m.EBO)
		m.EBO = 0
	}
	if m.VBO != 0 {
		gl.DeleteBuffers(1, &m.VBO)
		m.VBO = 0
	}
	if m.VAO != 0 {
		gl.DeleteVertexArrays(1, &m.VAO)
		m.VAO = 0
	}
	m.IndexCount = 0
}
