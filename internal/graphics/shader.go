package graphics

import (
	_ "embed"
	"fmt"

	glpkg "github.com/tinyrange/hellosquare/internal/gl"
)

// MaxInfoLogLength bounds the diagnostic text kept from a failed compile or link.
const MaxInfoLogLength = 512

var (
	//go:embed shaders/quad.vert
	QuadVertexShader string

	//go:embed shaders/quad.frag
	QuadFragmentShader string
)

// ShaderError reports a failed compile or link. Stage is "vertex",
// "fragment" or "program".
type ShaderError struct {
	Stage string
	Log   string
}

func (e *ShaderError) Error() string {
	if e.Stage == "program" {
		return fmt.Sprintf("program linking failed: %s", e.Log)
	}
	return fmt.Sprintf("%s shader compilation failed: %s", e.Stage, e.Log)
}

func compileShader(gl glpkg.OpenGL, xtype uint32, stage, source string) (uint32, error) {
	shader := gl.CreateShader(xtype)
	gl.ShaderSource(shader, source)
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, glpkg.CompileStatus, &status)
	if status == 0 {
		log := gl.GetShaderInfoLog(shader, MaxInfoLogLength)
		gl.DeleteShader(shader)
		return 0, &ShaderError{Stage: stage, Log: log}
	}
	return shader, nil
}

// BuildProgram compiles both stages and links them into a program. The
// intermediate shader objects are deleted on every path. A failed compile or
// link returns a *ShaderError and no program.
func BuildProgram(gl glpkg.OpenGL, vertexSrc, fragmentSrc string) (uint32, error) {
	vertexShader, err := compileShader(gl, glpkg.VertexShader, "vertex", vertexSrc)
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(vertexShader)

	fragmentShader, err := compileShader(gl, glpkg.FragmentShader, "fragment", fragmentSrc)
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(fragmentShader)

	program := gl.CreateProgram()
	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, glpkg.LinkStatus, &status)
	if status == 0 {
		log := gl.GetProgramInfoLog(program, MaxInfoLogLength)
		gl.DeleteProgram(program)
		return 0, &ShaderError{Stage: "program", Log: log}
	}

	return program, nil
}
