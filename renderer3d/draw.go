package renderer3d

import (
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"batch-render/camera"
	"batch-render/materials"
)

var groundColor = mgl32.Vec4{0.8, 0.8, 0.8, 0.8}

func sphereTransform(position mgl32.Vec3, radius float32) mgl32.Mat4 {
	return mgl32.Translate3D(position.X(), position.Y(), position.Z()).
		Mul4(mgl32.Scale3D(radius, radius, radius))
}

// ── Spheres ──────────────────────────────────────────────────────────────────

// DrawSphere draws a sphere of the given radius with an analytic material.
func (r *Renderer) DrawSphere(position mgl32.Vec3, radius float32, mat materials.PbrMaterial, light LightParams, entityID int32) {
	r.DrawSphereTransform(sphereTransform(position, radius), mat, light, entityID)
}

func (r *Renderer) DrawTexturedSphere(position mgl32.Vec3, radius float32, tex materials.PbrMaterialTexture, light LightParams, entityID int32) {
	r.DrawTexturedSphereTransform(sphereTransform(position, radius), tex, light, entityID)
}

// DrawSphereComponent uses tex only when all five maps are present and
// falls back to mat otherwise.
func (r *Renderer) DrawSphereComponent(transform mgl32.Mat4, mat materials.PbrMaterial, tex materials.PbrMaterialTexture, light LightParams, entityID int32) {
	if tex.IsComplete() {
		r.DrawTexturedSphereTransform(transform, tex, light, entityID)
		return
	}
	r.DrawSphereTransform(transform, mat, light, entityID)
}

func (r *Renderer) DrawSphereTransform(transform mgl32.Mat4, mat materials.PbrMaterial, light LightParams, entityID int32) {
	if !r.beginSphere(transform, light, entityID) {
		return
	}
	s := r.sphereShader
	s.SetInt("u_UseTexture", 0)
	s.SetFloat3("u_Albedo", mat.Albedo)
	s.SetFloat("u_Metallic", mat.Metallic)
	s.SetFloat("u_Roughness", mat.Roughness)
	s.SetFloat("u_Ao", mat.Ao)
	r.endSphere()
}

// DrawTexturedSphereTransform samples all five maps. A set with any map
// missing draws with the default analytic material instead.
func (r *Renderer) DrawTexturedSphereTransform(transform mgl32.Mat4, tex materials.PbrMaterialTexture, light LightParams, entityID int32) {
	if !tex.IsComplete() {
		r.DrawSphereTransform(transform, materials.NewPbrMaterial(), light, entityID)
		return
	}
	if !r.beginSphere(transform, light, entityID) {
		return
	}
	r.sphereShader.SetInt("u_UseTexture", 1)
	r.maps = tex.Maps()
	r.endSphere()
}

// beginSphere makes room for one mesh, writes it and the per-draw uniforms
// shared by both material kinds.
func (r *Renderer) beginSphere(transform mgl32.Mat4, light LightParams, entityID int32) bool {
	nv, ni := SphereVertexCount(r.segX, r.segY), SphereIndexCount(r.segX, r.segY)
	if !r.sphereVerts.Fits(nv) || !r.sphereIndices.Fits(ni) {
		r.log.Debug("sphere batch full", zap.Int("indices", r.sphereIndices.Len()))
		r.NextBatch()
	}
	if !r.sphereVerts.Fits(nv) || !r.sphereIndices.Fits(ni) {
		r.log.Error("sphere mesh exceeds batch capacity",
			zap.Int("vertices", nv), zap.Int("indices", ni))
		return false
	}
	appendSphere(r.sphereVerts, r.sphereIndices, r.segX, r.segY, entityID)

	s := r.sphereShader
	s.Bind()
	s.SetMat4("u_ModelMatrix", transform)
	s.SetMat4("u_NormalMatrix", transform.Mat3().Inv().Transpose().Mat4())
	r.setLights(light)
	return true
}

// endSphere flushes immediately, so each sphere is its own draw call.
func (r *Renderer) endSphere() {
	r.stats.SphereCount++
	r.NextBatch()
}

func (r *Renderer) setLights(light LightParams) {
	n := light.PointLightCount()
	if n > MaxPointLights {
		r.log.Debug("point lights truncated", zap.Int("lights", n), zap.Int("max", MaxPointLights))
		n = MaxPointLights
	}
	s := r.sphereShader
	s.SetInt("u_PointLightNum", int32(n))
	if n > 0 {
		s.SetFloat3Array("u_PointLightPositions", light.PointLightPositions[:n])
		s.SetFloat3Array("u_PointLightColors", light.PointLightColors[:n])
	}
	s.SetFloat3("u_DirectionalLightDirection", light.DirectionalLightDirection)
	s.SetFloat3("u_DirectionalLightColor", light.DirectionalLightColor)
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

// DrawGroundPlane draws a rows by cols grid of lines on y = 0, centred on
// the origin, spacing units apart.
func (r *Renderer) DrawGroundPlane(rows, cols int, spacing float32) {
	halfR := float32(rows/2) * spacing
	halfC := float32(cols/2) * spacing
	for i := 0; i < rows; i++ {
		x := float32(i-rows/2) * spacing
		r.DrawLine(mgl32.Vec3{x, 0, -halfC}, mgl32.Vec3{x, 0, halfC}, groundColor, -1)
	}
	for j := 0; j < cols; j++ {
		z := float32(j-cols/2) * spacing
		r.DrawLine(mgl32.Vec3{-halfR, 0, z}, mgl32.Vec3{halfR, 0, z}, groundColor, -1)
	}
}

// ── Background ───────────────────────────────────────────────────────────────

// DrawIBLBackground renders the environment cube map around the camera.
// It does not touch the batches or the statistics.
func (r *Renderer) DrawIBLBackground(view camera.View) {
	if r.ibl == nil {
		return
	}
	s := r.backgroundShader
	s.Bind()
	s.SetMat4("projection", view.Projection())
	s.SetMat4("view", view.ViewMatrix())
	s.SetInt("environmentMap", 0)
	r.ibl.EnvCubeMap.Bind(0)
	r.background.Draw(r.device)
}
