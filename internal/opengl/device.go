// Package opengl implements gfx.Device on an OpenGL 4.1 core context.
// Every call must happen on the goroutine that owns the GLFW context.
package opengl

import (
	"fmt"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"batch-render/gfx"
	"batch-render/internal/logger"
)

// Device is the OpenGL gfx.Device. Shader programs are built from the
// sources registered in shaderSources.
type Device struct {
	log     *zap.Logger
	version string
}

// NewDevice initialises the GL function pointers.
// Must be called after the GLFW window context is made current.
func NewDevice(log *zap.Logger) (*Device, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	d := &Device{
		log:     logger.Or(log).Named("opengl"),
		version: gl.GoStr(gl.GetString(gl.VERSION)),
	}
	d.log.Info("OpenGL context",
		zap.String("version", d.version),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
		zap.String("glsl", gl.GoStr(gl.GetString(gl.SHADING_LANGUAGE_VERSION))),
	)

	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LEQUAL)
	gl.Enable(gl.LINE_SMOOTH)
	gl.Enable(gl.TEXTURE_CUBE_MAP_SEAMLESS)
	return d, nil
}

func (d *Device) API() gfx.API { return gfx.APIOpenGL }

// Version is the GL_VERSION string reported by the driver.
func (d *Device) Version() string { return d.version }

// ── Factory ───────────────────────────────────────────────────────────────────

func (d *Device) NewTexture2D(spec gfx.TextureSpecification) (gfx.Texture2D, error) {
	return newTexture2D(spec)
}

func (d *Device) NewTextureCube(spec gfx.TextureSpecification) (gfx.TextureCube, error) {
	return newTextureCube(spec)
}

func (d *Device) NewVertexBuffer(size int) gfx.VertexBuffer {
	return newVertexBuffer(size, nil)
}

func (d *Device) NewStaticVertexBuffer(data []byte) gfx.VertexBuffer {
	return newVertexBuffer(len(data), data)
}

func (d *Device) NewIndexBuffer(capacity int) gfx.IndexBuffer {
	return newIndexBuffer(capacity)
}

func (d *Device) NewVertexArray() gfx.VertexArray {
	return newVertexArray()
}

func (d *Device) NewShader(name string) (gfx.Shader, error) {
	src, ok := shaderSources[name]
	if !ok {
		return nil, fmt.Errorf("shader %q: no source", name)
	}
	s, err := newShader(name, src)
	if err != nil {
		d.log.Error("shader build failed", zap.String("shader", name), zap.Error(err))
		return nil, err
	}
	d.log.Debug("shader built", zap.String("shader", name), zap.Uint32("program", s.program))
	return s, nil
}

func (d *Device) NewFrameBuffer(spec gfx.FramebufferSpecification) (gfx.FrameBuffer, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return newFrameBuffer(spec)
}

// ── Commands ──────────────────────────────────────────────────────────────────

func (d *Device) SetViewport(x, y, width, height int) {
	gl.Viewport(int32(x), int32(y), int32(width), int32(height))
}

func (d *Device) SetClearColor(c mgl32.Vec4) {
	gl.ClearColor(c[0], c[1], c[2], c[3])
}

func (d *Device) Clear() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

func (d *Device) SetDepthTest(enabled bool) {
	if enabled {
		gl.Enable(gl.DEPTH_TEST)
	} else {
		gl.Disable(gl.DEPTH_TEST)
	}
}

// SetLineWidth is clamped by core profile drivers; most only honour 1.0.
func (d *Device) SetLineWidth(width float32) {
	gl.LineWidth(width)
}

func (d *Device) DrawIndexed(va gfx.VertexArray, indexCount int) {
	if indexCount <= 0 {
		return
	}
	va.(*VertexArray).bind()
	gl.DrawElements(gl.TRIANGLES, int32(indexCount), gl.UNSIGNED_INT, nil)
}

func (d *Device) DrawLines(va gfx.VertexArray, vertexCount int) {
	if vertexCount <= 0 {
		return
	}
	va.(*VertexArray).bind()
	gl.DrawArrays(gl.LINES, 0, int32(vertexCount))
}

func (d *Device) DrawArrays(va gfx.VertexArray, vertexCount int) {
	if vertexCount <= 0 {
		return
	}
	va.(*VertexArray).bind()
	gl.DrawArrays(gl.TRIANGLES, 0, int32(vertexCount))
}
