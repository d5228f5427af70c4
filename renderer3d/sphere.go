package renderer3d

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"batch-render/batch"
	"batch-render/gfx"
)

type SphereVertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	TexCoord mgl32.Vec2
	EntityID int32
}

type LineVertex struct {
	Position mgl32.Vec3
	Color    mgl32.Vec4
	EntityID int32
}

var (
	sphereLayout = gfx.NewBufferLayout(
		gfx.BufferElement{Type: gfx.Float3, Name: "a_Position"},
		gfx.BufferElement{Type: gfx.Float3, Name: "a_Normal"},
		gfx.BufferElement{Type: gfx.Float2, Name: "a_TexCoord"},
		gfx.BufferElement{Type: gfx.Int, Name: "a_EntityID"},
	)
	lineLayout = gfx.NewBufferLayout(
		gfx.BufferElement{Type: gfx.Float3, Name: "a_Position"},
		gfx.BufferElement{Type: gfx.Float4, Name: "a_Color"},
		gfx.BufferElement{Type: gfx.Int, Name: "a_EntityID"},
	)
)

// SphereVertexCount is the number of vertices in a segX by segY UV sphere.
// The seam column and both pole rows are duplicated for texture coordinates.
func SphereVertexCount(segX, segY int) int { return (segX + 1) * (segY + 1) }

func SphereIndexCount(segX, segY int) int { return segX * segY * 6 }

// appendSphere writes a unit UV sphere. Indices are relative to the vertices
// already in verts. Callers check capacity first.
func appendSphere(verts *batch.Arena[SphereVertex], indices *batch.Arena[uint32], segX, segY int, entityID int32) {
	base := uint32(verts.Len())

	for x := 0; x <= segX; x++ {
		for y := 0; y <= segY; y++ {
			sx := float64(x) / float64(segX)
			sy := float64(y) / float64(segY)
			p := mgl32.Vec3{
				float32(math.Cos(sx*2*math.Pi) * math.Sin(sy*math.Pi)),
				float32(math.Cos(sy * math.Pi)),
				float32(math.Sin(sx*2*math.Pi) * math.Sin(sy*math.Pi)),
			}
			verts.Push(SphereVertex{
				Position: p,
				Normal:   p,
				TexCoord: mgl32.Vec2{float32(sx), float32(sy)},
				EntityID: entityID,
			})
		}
	}

	// vertices were emitted column by column, segY+1 per column
	stride := uint32(segY + 1)
	for col := 0; col < segX; col++ {
		for row := 0; row < segY; row++ {
			i0 := base + uint32(col)*stride + uint32(row)
			i1 := base + uint32(col+1)*stride + uint32(row)
			indices.Push(i0)
			indices.Push(i1)
			indices.Push(i1 + 1)
			indices.Push(i0)
			indices.Push(i1 + 1)
			indices.Push(i0 + 1)
		}
	}
}
