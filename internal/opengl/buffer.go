package opengl

import (
	"unsafe"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"batch-render/gfx"
)

// VertexBuffer is a GL_ARRAY_BUFFER. Dynamic buffers are allocated once
// with GL_DYNAMIC_DRAW and refilled through BufferSubData.
type VertexBuffer struct {
	ID     uint32
	size   int
	layout gfx.BufferLayout
}

func newVertexBuffer(size int, data []byte) *VertexBuffer {
	vb := &VertexBuffer{size: size}
	gl.GenBuffers(1, &vb.ID)
	gl.BindBuffer(gl.ARRAY_BUFFER, vb.ID)
	if len(data) > 0 {
		gl.BufferData(gl.ARRAY_BUFFER, len(data), gl.Ptr(data), gl.STATIC_DRAW)
	} else {
		gl.BufferData(gl.ARRAY_BUFFER, size, nil, gl.DYNAMIC_DRAW)
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return vb
}

// SetData overwrites the front of the buffer. Bytes past Size are dropped.
func (vb *VertexBuffer) SetData(data []byte) {
	n := min(len(data), vb.size)
	if n == 0 {
		return
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, vb.ID)
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, n, gl.Ptr(data))
}

func (vb *VertexBuffer) SetLayout(l gfx.BufferLayout) { vb.layout = l }
func (vb *VertexBuffer) Layout() gfx.BufferLayout     { return vb.layout }
func (vb *VertexBuffer) Size() int                    { return vb.size }

func (vb *VertexBuffer) Destroy() {
	if vb.ID != 0 {
		gl.DeleteBuffers(1, &vb.ID)
		vb.ID = 0
	}
}

// IndexBuffer is a GL_ELEMENT_ARRAY_BUFFER of uint32 indices.
type IndexBuffer struct {
	ID       uint32
	capacity int
	count    int
}

func newIndexBuffer(capacity int) *IndexBuffer {
	ib := &IndexBuffer{capacity: capacity}
	gl.GenBuffers(1, &ib.ID)
	// Element buffers bind through a VAO; use ARRAY_BUFFER so allocation
	// does not disturb whichever VAO is current.
	gl.BindBuffer(gl.ARRAY_BUFFER, ib.ID)
	gl.BufferData(gl.ARRAY_BUFFER, capacity*4, nil, gl.DYNAMIC_DRAW)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return ib
}

func (ib *IndexBuffer) SetData(indices []uint32) {
	n := min(len(indices), ib.capacity)
	ib.count = n
	if n == 0 {
		return
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, ib.ID)
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, n*4, unsafe.Pointer(&indices[0]))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}

func (ib *IndexBuffer) Count() int    { return ib.count }
func (ib *IndexBuffer) Capacity() int { return ib.capacity }

func (ib *IndexBuffer) Destroy() {
	if ib.ID != 0 {
		gl.DeleteBuffers(1, &ib.ID)
		ib.ID = 0
	}
}

// VertexArray records attribute bindings for its vertex buffers. Attribute
// locations are assigned in the order layouts are added.
type VertexArray struct {
	ID          uint32
	attribIndex uint32
	buffers     []*VertexBuffer
	indexBuffer gfx.IndexBuffer
}

func newVertexArray() *VertexArray {
	va := &VertexArray{}
	gl.GenVertexArrays(1, &va.ID)
	return va
}

func (va *VertexArray) bind() { gl.BindVertexArray(va.ID) }

// AddVertexBuffer panics when the buffer has no layout.
func (va *VertexArray) AddVertexBuffer(b gfx.VertexBuffer) {
	vb := b.(*VertexBuffer)
	layout := vb.Layout()
	if len(layout.Elements()) == 0 {
		panic("opengl: vertex buffer has no layout")
	}

	gl.BindVertexArray(va.ID)
	gl.BindBuffer(gl.ARRAY_BUFFER, vb.ID)
	stride := int32(layout.Stride())
	for _, e := range layout.Elements() {
		switch e.Type {
		case gfx.Mat3, gfx.Mat4:
			// One vec3/vec4 attribute per column.
			n := e.Type.ComponentCount()
			for col := 0; col < n; col++ {
				off := e.Offset + col*n*4
				gl.EnableVertexAttribArray(va.attribIndex)
				gl.VertexAttribPointer(va.attribIndex, int32(n), gl.FLOAT, e.Normalized, stride, gl.PtrOffset(off))
				va.attribIndex++
			}
		default:
			gl.EnableVertexAttribArray(va.attribIndex)
			if e.Type.IsInteger() {
				gl.VertexAttribIPointer(va.attribIndex, int32(e.Type.ComponentCount()), glBaseType(e.Type), stride, gl.PtrOffset(e.Offset))
			} else {
				gl.VertexAttribPointer(va.attribIndex, int32(e.Type.ComponentCount()), gl.FLOAT, e.Normalized, stride, gl.PtrOffset(e.Offset))
			}
			va.attribIndex++
		}
	}
	gl.BindVertexArray(0)
	va.buffers = append(va.buffers, vb)
}

func (va *VertexArray) SetIndexBuffer(ib gfx.IndexBuffer) {
	gl.BindVertexArray(va.ID)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, ib.(*IndexBuffer).ID)
	gl.BindVertexArray(0)
	va.indexBuffer = ib
}

func (va *VertexArray) IndexBuffer() gfx.IndexBuffer { return va.indexBuffer }

// Destroy frees the VAO only; buffers are owned by whoever created them.
func (va *VertexArray) Destroy() {
	if va.ID != 0 {
		gl.DeleteVertexArrays(1, &va.ID)
		va.ID = 0
	}
}

func glBaseType(t gfx.ShaderDataType) uint32 {
	if t == gfx.Bool {
		return gl.UNSIGNED_BYTE
	}
	return gl.INT
}
