package renderer2d

import (
	"github.com/go-gl/mathgl/mgl32"

	"batch-render/gfx"
)

// QuadVertex is one corner of a batched quad. TexIndex is the slot in the
// quad texture table, stored as float for the sampler array lookup.
type QuadVertex struct {
	Position     mgl32.Vec3
	Color        mgl32.Vec4
	TexCoord     mgl32.Vec2
	TexIndex     float32
	TilingFactor float32
	EntityID     int32
}

type CircleVertex struct {
	WorldPosition mgl32.Vec3
	// LocalPosition spans [-1, 1] across the quad.
	LocalPosition mgl32.Vec3
	Color         mgl32.Vec4
	Thickness     float32
	Fade          float32
	EntityID      int32
}

type LineVertex struct {
	Position mgl32.Vec3
	Color    mgl32.Vec4
	EntityID int32
}

var (
	quadLayout = gfx.NewBufferLayout(
		gfx.BufferElement{Type: gfx.Float3, Name: "a_Position"},
		gfx.BufferElement{Type: gfx.Float4, Name: "a_Color"},
		gfx.BufferElement{Type: gfx.Float2, Name: "a_TexCoord"},
		gfx.BufferElement{Type: gfx.Float, Name: "a_TexIndex"},
		gfx.BufferElement{Type: gfx.Float, Name: "a_TilingFactor"},
		gfx.BufferElement{Type: gfx.Int, Name: "a_EntityID"},
	)
	circleLayout = gfx.NewBufferLayout(
		gfx.BufferElement{Type: gfx.Float3, Name: "a_WorldPosition"},
		gfx.BufferElement{Type: gfx.Float3, Name: "a_LocalPosition"},
		gfx.BufferElement{Type: gfx.Float4, Name: "a_Color"},
		gfx.BufferElement{Type: gfx.Float, Name: "a_Thickness"},
		gfx.BufferElement{Type: gfx.Float, Name: "a_Fade"},
		gfx.BufferElement{Type: gfx.Int, Name: "a_EntityID"},
	)
	lineLayout = gfx.NewBufferLayout(
		gfx.BufferElement{Type: gfx.Float3, Name: "a_Position"},
		gfx.BufferElement{Type: gfx.Float4, Name: "a_Color"},
		gfx.BufferElement{Type: gfx.Int, Name: "a_EntityID"},
	)
)

// Unit quad corners, counter-clockwise from bottom left.
var quadVertexPositions = [4]mgl32.Vec4{
	{-0.5, -0.5, 0, 1},
	{0.5, -0.5, 0, 1},
	{0.5, 0.5, 0, 1},
	{-0.5, 0.5, 0, 1},
}

var quadTexCoords = [4]mgl32.Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}}

// quadIndices fills the shared quad/circle index pattern 0,1,2 2,3,0 for
// count indices.
func quadIndices(count int) []uint32 {
	indices := make([]uint32, count)
	var offset uint32
	for i := 0; i+6 <= count; i += 6 {
		indices[i+0] = offset + 0
		indices[i+1] = offset + 1
		indices[i+2] = offset + 2

		indices[i+3] = offset + 2
		indices[i+4] = offset + 3
		indices[i+5] = offset + 0

		offset += 4
	}
	return indices
}
