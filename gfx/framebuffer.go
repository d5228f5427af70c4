package gfx

import "fmt"

// FramebufferSpecification lists attachments in order. Color formats become
// color attachments 0..n, at most one depth format may be present.
type FramebufferSpecification struct {
	Width       int
	Height      int
	Attachments []ImageFormat
}

// Validate checks dimensions and attachment formats.
func (s FramebufferSpecification) Validate() error {
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("framebuffer size %dx%d", s.Width, s.Height)
	}
	depth := 0
	for _, a := range s.Attachments {
		switch {
		case a.IsDepth():
			depth++
		case a == FormatNone:
			return fmt.Errorf("framebuffer attachment format %s", a)
		}
	}
	if depth > 1 {
		return fmt.Errorf("framebuffer has %d depth attachments", depth)
	}
	return nil
}

type FrameBuffer interface {
	// Bind makes the framebuffer the render target and sets the viewport
	// to its size.
	Bind()
	Unbind()
	// Resize reallocates all attachments. Non-positive sizes are ignored.
	Resize(width, height int)
	Width() int
	Height() int
	Specification() FramebufferSpecification
	ColorAttachmentID(index int) uint32
	Destroy()
}
