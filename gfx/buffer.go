package gfx

import "fmt"

// ShaderDataType is the type of one vertex attribute.
type ShaderDataType int

const (
	ShaderDataNone ShaderDataType = iota
	Float
	Float2
	Float3
	Float4
	Mat3
	Mat4
	Int
	Int2
	Int3
	Int4
	Bool
)

// Size in bytes.
func (t ShaderDataType) Size() int {
	switch t {
	case Float, Int:
		return 4
	case Float2, Int2:
		return 8
	case Float3, Int3:
		return 12
	case Float4, Int4:
		return 16
	case Mat3:
		return 4 * 3 * 3
	case Mat4:
		return 4 * 4 * 4
	case Bool:
		return 1
	}
	panic(fmt.Sprintf("gfx: unknown shader data type %d", int(t)))
}

func (t ShaderDataType) ComponentCount() int {
	switch t {
	case Float, Int, Bool:
		return 1
	case Float2, Int2:
		return 2
	case Float3, Int3, Mat3:
		return 3
	case Float4, Int4, Mat4:
		return 4
	}
	panic(fmt.Sprintf("gfx: unknown shader data type %d", int(t)))
}

// IsInteger attributes are passed to shaders without float conversion.
func (t ShaderDataType) IsInteger() bool {
	switch t {
	case Int, Int2, Int3, Int4, Bool:
		return true
	}
	return false
}

type BufferElement struct {
	Type       ShaderDataType
	Name       string
	Normalized bool
	Offset     int
}

// BufferLayout is an interleaved vertex layout with computed offsets.
type BufferLayout struct {
	elements []BufferElement
	stride   int
}

func NewBufferLayout(elements ...BufferElement) BufferLayout {
	l := BufferLayout{elements: make([]BufferElement, len(elements))}
	offset := 0
	for i, e := range elements {
		e.Offset = offset
		offset += e.Type.Size()
		l.elements[i] = e
	}
	l.stride = offset
	return l
}

func (l BufferLayout) Elements() []BufferElement { return l.elements }
func (l BufferLayout) Stride() int               { return l.stride }

type VertexBuffer interface {
	// SetData replaces the leading len(data) bytes of the buffer.
	SetData(data []byte)
	SetLayout(layout BufferLayout)
	Layout() BufferLayout
	// Size is the allocated capacity in bytes.
	Size() int
	Destroy()
}

type IndexBuffer interface {
	// SetData uploads indices from the start of the buffer and sets Count.
	SetData(indices []uint32)
	Count() int
	Capacity() int
	Destroy()
}

type VertexArray interface {
	// AddVertexBuffer binds vb's attributes after any already added.
	// vb must have a layout.
	AddVertexBuffer(vb VertexBuffer)
	SetIndexBuffer(ib IndexBuffer)
	IndexBuffer() IndexBuffer
	Destroy()
}
