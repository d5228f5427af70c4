// Package gfx defines the GPU resource contracts the batch renderers and the
// IBL pipeline are written against. One backend implements them at a time.
package gfx

import "github.com/go-gl/mathgl/mgl32"

// API selects the graphics backend.
type API int

const (
	APINone API = iota
	APIOpenGL
)

func (a API) String() string {
	switch a {
	case APINone:
		return "None"
	case APIOpenGL:
		return "OpenGL"
	default:
		return "Unknown"
	}
}

// Factory creates GPU resources. Creation must happen on the thread that
// owns the graphics context.
type Factory interface {
	NewTexture2D(spec TextureSpecification) (Texture2D, error)
	NewTextureCube(spec TextureSpecification) (TextureCube, error)

	// NewVertexBuffer allocates a dynamic buffer of size bytes.
	NewVertexBuffer(size int) VertexBuffer
	// NewStaticVertexBuffer uploads data once into an immutable buffer.
	NewStaticVertexBuffer(data []byte) VertexBuffer
	// NewIndexBuffer allocates room for capacity 32-bit indices.
	NewIndexBuffer(capacity int) IndexBuffer
	NewVertexArray() VertexArray

	// NewShader builds one of the named programs (ShaderQuad, ...).
	NewShader(name string) (Shader, error)
	NewFrameBuffer(spec FramebufferSpecification) (FrameBuffer, error)
}

// Commands issues state changes and draws against the bound resources.
type Commands interface {
	SetViewport(x, y, width, height int)
	SetClearColor(color mgl32.Vec4)
	Clear()
	SetDepthTest(enabled bool)
	SetLineWidth(width float32)

	// DrawIndexed draws indexCount indices of va's index buffer as triangles.
	DrawIndexed(va VertexArray, indexCount int)
	// DrawLines draws vertexCount vertices as a line list.
	DrawLines(va VertexArray, vertexCount int)
	// DrawArrays draws vertexCount vertices as a triangle list.
	DrawArrays(va VertexArray, vertexCount int)
}

// Device is a complete backend.
type Device interface {
	Factory
	Commands
	API() API
}
