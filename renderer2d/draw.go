package renderer2d

import (
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"batch-render/gfx"
)

func quadTransform(position mgl32.Vec3, size mgl32.Vec2) mgl32.Mat4 {
	return mgl32.Translate3D(position.X(), position.Y(), position.Z()).
		Mul4(mgl32.Scale3D(size.X(), size.Y(), 1))
}

func rotatedQuadTransform(position mgl32.Vec3, size mgl32.Vec2, rotation float32) mgl32.Mat4 {
	return mgl32.Translate3D(position.X(), position.Y(), position.Z()).
		Mul4(mgl32.HomogRotate3DZ(rotation)).
		Mul4(mgl32.Scale3D(size.X(), size.Y(), 1))
}

// ── Quads ────────────────────────────────────────────────────────────────────

// DrawQuad draws a flat-colored axis-aligned quad centred on position.
func (r *Renderer) DrawQuad(position mgl32.Vec3, size mgl32.Vec2, color mgl32.Vec4) {
	r.DrawQuadTransform(quadTransform(position, size), color, NoEntity)
}

// DrawTexturedQuad draws an axis-aligned quad sampling tex, tinted by tint.
func (r *Renderer) DrawTexturedQuad(position mgl32.Vec3, size mgl32.Vec2, tex gfx.Texture2D, tilingFactor float32, tint mgl32.Vec4) {
	r.DrawTexturedQuadTransform(quadTransform(position, size), tex, tilingFactor, tint, NoEntity)
}

// DrawRotatedQuad rotates about Z by rotation radians.
func (r *Renderer) DrawRotatedQuad(position mgl32.Vec3, size mgl32.Vec2, rotation float32, color mgl32.Vec4) {
	r.DrawQuadTransform(rotatedQuadTransform(position, size, rotation), color, NoEntity)
}

func (r *Renderer) DrawRotatedTexturedQuad(position mgl32.Vec3, size mgl32.Vec2, rotation float32, tex gfx.Texture2D, tilingFactor float32, tint mgl32.Vec4) {
	r.DrawTexturedQuadTransform(rotatedQuadTransform(position, size, rotation), tex, tilingFactor, tint, NoEntity)
}

// DrawQuadTransform draws the unit quad through transform using the white
// texture in slot 0.
func (r *Renderer) DrawQuadTransform(transform mgl32.Mat4, color mgl32.Vec4, entityID int32) {
	r.ensureQuadCapacity()
	r.writeQuad(transform, color, 0, 1, entityID)
}

// DrawTexturedQuadTransform resolves tex to a slot, flushing first when the
// slot table is full. A nil texture draws with white.
func (r *Renderer) DrawTexturedQuadTransform(transform mgl32.Mat4, tex gfx.Texture2D, tilingFactor float32, tint mgl32.Vec4, entityID int32) {
	r.ensureQuadCapacity()
	slot := r.textureSlot(tex)
	r.writeQuad(transform, tint, slot, tilingFactor, entityID)
}

// DrawSprite takes the texture path when the sprite has one.
func (r *Renderer) DrawSprite(transform mgl32.Mat4, sprite Sprite, entityID int32) {
	if sprite.Texture != nil {
		tiling := sprite.TilingFactor
		if tiling == 0 {
			tiling = 1
		}
		r.DrawTexturedQuadTransform(transform, sprite.Texture, tiling, sprite.Color, entityID)
		return
	}
	r.DrawQuadTransform(transform, sprite.Color, entityID)
}

func (r *Renderer) ensureQuadCapacity() {
	if r.quadIndexCount+6 > r.maxIndices || !r.quads.Fits(4) {
		r.log.Debug("quad batch full", zap.Int("indices", r.quadIndexCount))
		r.NextBatch()
	}
}

func (r *Renderer) writeQuad(transform mgl32.Mat4, color mgl32.Vec4, slot, tilingFactor float32, entityID int32) {
	for i := range quadVertexPositions {
		v := r.quads.Next()
		v.Position = transform.Mul4x1(quadVertexPositions[i]).Vec3()
		v.Color = color
		v.TexCoord = quadTexCoords[i]
		v.TexIndex = slot
		v.TilingFactor = tilingFactor
		v.EntityID = entityID
	}
	r.quadIndexCount += 6
	r.stats.QuadCount++
}

// textureSlot returns the sampler index for tex, binding it to the next free
// slot if this batch has not seen it yet. Textures are matched by renderer
// ID, so the white texture always resolves to slot 0.
func (r *Renderer) textureSlot(tex gfx.Texture2D) float32 {
	if tex == nil {
		return 0
	}
	for i := 0; i < r.slotIndex; i++ {
		if gfx.SameTexture(r.slots[i], tex) {
			return float32(i)
		}
	}

	if r.slotIndex >= r.maxSlots {
		r.log.Debug("texture slots full", zap.Int("slots", r.maxSlots))
		r.NextBatch()
	}
	slot := r.slotIndex
	r.slots[slot] = tex
	r.slotIndex++
	return float32(slot)
}

// ── Circles ──────────────────────────────────────────────────────────────────

// DrawCircle fills the unit quad through transform with a ring of the given
// thickness (1 = filled disc) and edge fade.
func (r *Renderer) DrawCircle(transform mgl32.Mat4, color mgl32.Vec4, thickness, fade float32, entityID int32) {
	if r.circleIndexCount+6 > r.maxIndices || !r.circles.Fits(4) {
		r.log.Debug("circle batch full", zap.Int("indices", r.circleIndexCount))
		r.NextBatch()
	}

	for i := range quadVertexPositions {
		v := r.circles.Next()
		v.WorldPosition = transform.Mul4x1(quadVertexPositions[i]).Vec3()
		v.LocalPosition = quadVertexPositions[i].Vec3().Mul(2)
		v.Color = color
		v.Thickness = thickness
		v.Fade = fade
		v.EntityID = entityID
	}
	r.circleIndexCount += 6
	r.stats.QuadCount++
}

// ── Lines ────────────────────────────────────────────────────────────────────

func (r *Renderer) DrawLine(p0, p1 mgl32.Vec3, color mgl32.Vec4, entityID int32) {
	if !r.lines.Fits(2) {
		r.log.Debug("line batch full", zap.Int("vertices", r.lines.Len()))
		r.NextBatch()
	}
	r.lines.Push(LineVertex{Position: p0, Color: color, EntityID: entityID})
	r.lines.Push(LineVertex{Position: p1, Color: color, EntityID: entityID})
}

// DrawRect outlines an axis-aligned rectangle centred on position.
func (r *Renderer) DrawRect(position mgl32.Vec3, size mgl32.Vec2, color mgl32.Vec4, entityID int32) {
	hx, hy := size.X()*0.5, size.Y()*0.5
	p0 := mgl32.Vec3{position.X() - hx, position.Y() - hy, position.Z()}
	p1 := mgl32.Vec3{position.X() + hx, position.Y() - hy, position.Z()}
	p2 := mgl32.Vec3{position.X() + hx, position.Y() + hy, position.Z()}
	p3 := mgl32.Vec3{position.X() - hx, position.Y() + hy, position.Z()}

	r.DrawLine(p0, p1, color, entityID)
	r.DrawLine(p1, p2, color, entityID)
	r.DrawLine(p2, p3, color, entityID)
	r.DrawLine(p3, p0, color, entityID)
}

// DrawRectTransform outlines the unit quad through transform.
func (r *Renderer) DrawRectTransform(transform mgl32.Mat4, color mgl32.Vec4, entityID int32) {
	var p [4]mgl32.Vec3
	for i := range quadVertexPositions {
		p[i] = transform.Mul4x1(quadVertexPositions[i]).Vec3()
	}
	for i := range p {
		r.DrawLine(p[i], p[(i+1)%4], color, entityID)
	}
}
