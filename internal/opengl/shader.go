package opengl

import (
	"fmt"
	"strings"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

type shaderSource struct {
	vert, frag string
}

// Shader is a linked GL program. Uniform writes go through
// glProgramUniform, so they do not require the program to be bound.
type Shader struct {
	name      string
	program   uint32
	locations map[string]int32
}

func newShader(name string, src shaderSource) (*Shader, error) {
	prog, err := newProgram(src.vert, src.frag)
	if err != nil {
		return nil, fmt.Errorf("shader %q: %w", name, err)
	}
	return &Shader{name: name, program: prog, locations: make(map[string]int32)}, nil
}

func (s *Shader) Name() string { return s.name }
func (s *Shader) Bind()        { gl.UseProgram(s.program) }
func (s *Shader) Unbind()      { gl.UseProgram(0) }

// location caches lookups. Unknown names resolve to -1, which GL ignores.
func (s *Shader) location(name string) int32 {
	if loc, ok := s.locations[name]; ok {
		return loc
	}
	loc := gl.GetUniformLocation(s.program, gl.Str(name+"\x00"))
	s.locations[name] = loc
	return loc
}

func (s *Shader) SetInt(name string, v int32) {
	gl.ProgramUniform1i(s.program, s.location(name), v)
}

func (s *Shader) SetIntArray(name string, v []int32) {
	if len(v) == 0 {
		return
	}
	gl.ProgramUniform1iv(s.program, s.location(name), int32(len(v)), &v[0])
}

func (s *Shader) SetFloat(name string, v float32) {
	gl.ProgramUniform1f(s.program, s.location(name), v)
}

func (s *Shader) SetFloat3(name string, v mgl32.Vec3) {
	gl.ProgramUniform3f(s.program, s.location(name), v[0], v[1], v[2])
}

func (s *Shader) SetFloat3Array(name string, v []mgl32.Vec3) {
	if len(v) == 0 {
		return
	}
	gl.ProgramUniform3fv(s.program, s.location(name), int32(len(v)), &v[0][0])
}

func (s *Shader) SetFloat4(name string, v mgl32.Vec4) {
	gl.ProgramUniform4f(s.program, s.location(name), v[0], v[1], v[2], v[3])
}

func (s *Shader) SetMat4(name string, m mgl32.Mat4) {
	gl.ProgramUniformMatrix4fv(s.program, s.location(name), 1, false, &m[0])
}

// Destroy frees the GL program and zeroes its ID.
func (s *Shader) Destroy() {
	if s.program != 0 {
		gl.DeleteProgram(s.program)
		s.program = 0
	}
}

// ── Program helpers ───────────────────────────────────────────────────────────

func newProgram(vertSrc, fragSrc string) (uint32, error) {
	vert, err := compileShader(vertSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, fmt.Errorf("vertex: %w", err)
	}
	frag, err := compileShader(fragSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vert)
		return 0, fmt.Errorf("fragment: %w", err)
	}

	prog := gl.CreateProgram()
	gl.AttachShader(prog, vert)
	gl.AttachShader(prog, frag)
	gl.LinkProgram(prog)
	gl.DeleteShader(vert)
	gl.DeleteShader(frag)

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetProgramInfoLog(prog, logLen, nil, gl.Str(log))
		gl.DeleteProgram(prog)
		return 0, fmt.Errorf("link failed: %v", log)
	}
	return prog, nil
}

func compileShader(src string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csrc, free := gl.Strs(src)
	gl.ShaderSource(shader, 1, csrc, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetShaderInfoLog(shader, logLen, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("compile failed: %v", log)
	}
	return shader, nil
}
