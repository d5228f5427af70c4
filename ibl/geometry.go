package ibl

import (
	"unsafe"

	"batch-render/gfx"
)

// cubeVertices is a 2x2x2 cube around the origin: position, normal, uv.
var cubeVertices = []float32{
	// back face
	-1, -1, -1, 0, 0, -1, 0, 0,
	1, 1, -1, 0, 0, -1, 1, 1,
	1, -1, -1, 0, 0, -1, 1, 0,
	1, 1, -1, 0, 0, -1, 1, 1,
	-1, -1, -1, 0, 0, -1, 0, 0,
	-1, 1, -1, 0, 0, -1, 0, 1,
	// front face
	-1, -1, 1, 0, 0, 1, 0, 0,
	1, -1, 1, 0, 0, 1, 1, 0,
	1, 1, 1, 0, 0, 1, 1, 1,
	1, 1, 1, 0, 0, 1, 1, 1,
	-1, 1, 1, 0, 0, 1, 0, 1,
	-1, -1, 1, 0, 0, 1, 0, 0,
	// left face
	-1, 1, 1, -1, 0, 0, 1, 0,
	-1, 1, -1, -1, 0, 0, 1, 1,
	-1, -1, -1, -1, 0, 0, 0, 1,
	-1, -1, -1, -1, 0, 0, 0, 1,
	-1, -1, 1, -1, 0, 0, 0, 0,
	-1, 1, 1, -1, 0, 0, 1, 0,
	// right face
	1, 1, 1, 1, 0, 0, 1, 0,
	1, -1, -1, 1, 0, 0, 0, 1,
	1, 1, -1, 1, 0, 0, 1, 1,
	1, -1, -1, 1, 0, 0, 0, 1,
	1, 1, 1, 1, 0, 0, 1, 0,
	1, -1, 1, 1, 0, 0, 0, 0,
	// bottom face
	-1, -1, -1, 0, -1, 0, 0, 1,
	1, -1, -1, 0, -1, 0, 1, 1,
	1, -1, 1, 0, -1, 0, 1, 0,
	1, -1, 1, 0, -1, 0, 1, 0,
	-1, -1, 1, 0, -1, 0, 0, 0,
	-1, -1, -1, 0, -1, 0, 0, 1,
	// top face
	-1, 1, -1, 0, 1, 0, 0, 1,
	1, 1, 1, 0, 1, 0, 1, 0,
	1, 1, -1, 0, 1, 0, 1, 1,
	1, 1, 1, 0, 1, 0, 1, 0,
	-1, 1, -1, 0, 1, 0, 0, 1,
	-1, 1, 1, 0, 1, 0, 0, 0,
}

// quadVertices covers clip space: position, uv.
var quadVertices = []float32{
	-1, 1, 0, 0, 1,
	-1, -1, 0, 0, 0,
	1, 1, 0, 1, 1,

	-1, -1, 0, 0, 0,
	1, 1, 0, 1, 1,
	1, -1, 0, 1, 0,
}

const (
	CubeVertexCount = 36
	QuadVertexCount = 6
)

var (
	cubeLayout = gfx.NewBufferLayout(
		gfx.BufferElement{Type: gfx.Float3, Name: "aPos"},
		gfx.BufferElement{Type: gfx.Float3, Name: "aNormal"},
		gfx.BufferElement{Type: gfx.Float2, Name: "aTexCoord"},
	)
	quadLayout = gfx.NewBufferLayout(
		gfx.BufferElement{Type: gfx.Float3, Name: "aPos"},
		gfx.BufferElement{Type: gfx.Float2, Name: "aTexCoord"},
	)
)

// Mesh is a static, non-indexed vertex array drawn with DrawArrays.
type Mesh struct {
	VA          gfx.VertexArray
	VB          gfx.VertexBuffer
	VertexCount int
}

func (m *Mesh) Draw(cmd gfx.Commands) {
	cmd.DrawArrays(m.VA, m.VertexCount)
}

func (m *Mesh) Destroy() {
	m.VA.Destroy()
	m.VB.Destroy()
}

// NewCube uploads the capture and background cube.
func NewCube(f gfx.Factory) *Mesh {
	return newMesh(f, cubeVertices, cubeLayout, CubeVertexCount)
}

// NewQuad uploads the full-screen quad used for the BRDF lookup pass.
func NewQuad(f gfx.Factory) *Mesh {
	return newMesh(f, quadVertices, quadLayout, QuadVertexCount)
}

func newMesh(f gfx.Factory, verts []float32, layout gfx.BufferLayout, count int) *Mesh {
	vb := f.NewStaticVertexBuffer(floatBytes(verts))
	vb.SetLayout(layout)
	va := f.NewVertexArray()
	va.AddVertexBuffer(vb)
	return &Mesh{VA: va, VB: vb, VertexCount: count}
}

func floatBytes(f []float32) []byte {
	if len(f) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&f[0])), len(f)*4)
}
