package opengl

import (
	"fmt"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"batch-render/gfx"
)

// maxFramebufferSize bounds Resize; larger requests are ignored.
const maxFramebufferSize = 8192

// FrameBuffer owns one texture per color attachment and an optional
// depth-stencil renderbuffer.
type FrameBuffer struct {
	FBO      uint32
	colors   []uint32
	depthRBO uint32
	spec     gfx.FramebufferSpecification
}

func newFrameBuffer(spec gfx.FramebufferSpecification) (*FrameBuffer, error) {
	fb := &FrameBuffer{spec: spec}
	if err := fb.invalidate(); err != nil {
		fb.Destroy()
		return nil, err
	}
	return fb, nil
}

// invalidate (re)creates every attachment at the current size.
func (fb *FrameBuffer) invalidate() error {
	fb.release()

	w, h := int32(fb.spec.Width), int32(fb.spec.Height)
	gl.GenFramebuffers(1, &fb.FBO)
	gl.BindFramebuffer(gl.FRAMEBUFFER, fb.FBO)

	var drawBuffers []uint32
	for _, f := range fb.spec.Attachments {
		if f.IsDepth() {
			gl.GenRenderbuffers(1, &fb.depthRBO)
			gl.BindRenderbuffer(gl.RENDERBUFFER, fb.depthRBO)
			gl.RenderbufferStorage(gl.RENDERBUFFER, uint32(formatFor(f).internal), w, h)
			gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.DEPTH_STENCIL_ATTACHMENT, gl.RENDERBUFFER, fb.depthRBO)
			gl.BindRenderbuffer(gl.RENDERBUFFER, 0)
			continue
		}

		glf := formatFor(f)
		var tex uint32
		gl.GenTextures(1, &tex)
		gl.BindTexture(gl.TEXTURE_2D, tex)
		gl.TexImage2D(gl.TEXTURE_2D, 0, glf.internal, w, h, 0, glf.format, glf.xtype, nil)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)

		attachment := gl.COLOR_ATTACHMENT0 + uint32(len(fb.colors))
		gl.FramebufferTexture2D(gl.FRAMEBUFFER, attachment, gl.TEXTURE_2D, tex, 0)
		fb.colors = append(fb.colors, tex)
		drawBuffers = append(drawBuffers, attachment)
	}
	gl.BindTexture(gl.TEXTURE_2D, 0)

	switch {
	case len(drawBuffers) > 0:
		gl.DrawBuffers(int32(len(drawBuffers)), &drawBuffers[0])
		gl.ReadBuffer(gl.COLOR_ATTACHMENT0)
	default:
		gl.DrawBuffer(gl.NONE)
		gl.ReadBuffer(gl.NONE)
	}

	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	if status != gl.FRAMEBUFFER_COMPLETE {
		return fmt.Errorf("framebuffer incomplete: status=0x%X", status)
	}
	return nil
}

// Bind makes the framebuffer the render target and sets the viewport to it.
func (fb *FrameBuffer) Bind() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, fb.FBO)
	gl.Viewport(0, 0, int32(fb.spec.Width), int32(fb.spec.Height))
}

func (fb *FrameBuffer) Unbind() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
}

// Resize recreates the attachments. Zero, negative or oversized
// dimensions and no-op resizes are ignored.
func (fb *FrameBuffer) Resize(width, height int) {
	if width <= 0 || height <= 0 || width > maxFramebufferSize || height > maxFramebufferSize {
		return
	}
	if width == fb.spec.Width && height == fb.spec.Height {
		return
	}
	fb.spec.Width, fb.spec.Height = width, height
	if err := fb.invalidate(); err != nil {
		panic(fmt.Sprintf("opengl: resize %dx%d: %v", width, height, err))
	}
}

func (fb *FrameBuffer) Width() int                                  { return fb.spec.Width }
func (fb *FrameBuffer) Height() int                                 { return fb.spec.Height }
func (fb *FrameBuffer) Specification() gfx.FramebufferSpecification { return fb.spec }

// ColorAttachmentID returns 0 for an index without a color attachment.
func (fb *FrameBuffer) ColorAttachmentID(index int) uint32 {
	if index < 0 || index >= len(fb.colors) {
		return 0
	}
	return fb.colors[index]
}

func (fb *FrameBuffer) release() {
	if len(fb.colors) > 0 {
		gl.DeleteTextures(int32(len(fb.colors)), &fb.colors[0])
		fb.colors = fb.colors[:0]
	}
	if fb.depthRBO != 0 {
		gl.DeleteRenderbuffers(1, &fb.depthRBO)
		fb.depthRBO = 0
	}
	if fb.FBO != 0 {
		gl.DeleteFramebuffers(1, &fb.FBO)
		fb.FBO = 0
	}
}

// Destroy frees GPU resources.
func (fb *FrameBuffer) Destroy() { fb.release() }
