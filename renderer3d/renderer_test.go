package renderer3d

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"batch-render/batch"
	"batch-render/camera"
	"batch-render/config"
	"batch-render/gfx"
	"batch-render/gfx/gfxtest"
	"batch-render/ibl"
	"batch-render/materials"
)

func newIBLSet(t *testing.T, dev *gfxtest.Device) *ibl.Set {
	t.Helper()
	cube := func() gfx.TextureCube {
		c, err := dev.NewTextureCube(gfx.TextureSpecification{Width: 4, Height: 4, Format: gfx.FormatRGB16F})
		require.NoError(t, err)
		return c
	}
	return &ibl.Set{
		EnvCubeMap:    cube(),
		IrradianceMap: cube(),
		PrefilterMap:  cube(),
		BrdfLUT:       gfxtest.NewTexture2D(dev, 4, 4),
	}
}

func newTestRenderer(t *testing.T) (*Renderer, *gfxtest.Device, *ibl.Set) {
	t.Helper()
	dev := gfxtest.NewDevice()
	set := newIBLSet(t, dev)
	r, err := New(dev, config.Default().Renderer3D, set, nil)
	require.NoError(t, err)

	r.BeginScene(camera.FromTransform(mgl32.Ident4(), mgl32.Translate3D(0, 0, 5)))
	dev.Reset()
	return r, dev, set
}

func fullTextureSet(dev *gfxtest.Device) materials.PbrMaterialTexture {
	var tex materials.PbrMaterialTexture
	for i := 0; i < materials.MapCount; i++ {
		tex.SetMap(i, gfxtest.NewTexture2D(dev, 2, 2))
	}
	return tex
}

func TestSphereMesh(t *testing.T) {
	verts := batch.NewArena[SphereVertex](SphereVertexCount(64, 64))
	indices := batch.NewArena[uint32](SphereIndexCount(64, 64))
	appendSphere(verts, indices, 64, 64, 9)

	require.Equal(t, 4225, verts.Len())
	require.Equal(t, 24576, indices.Len())

	v := verts.Slice()
	// x=0, y=0 is the north pole
	assert.InDeltaSlice(t, []float32{0, 1, 0}, v[0].Position[:], 1e-6)
	assert.Equal(t, mgl32.Vec2{0, 0}, v[0].TexCoord)
	assert.Equal(t, int32(9), v[0].EntityID)
	// last vertex is the south pole on the seam column
	assert.InDeltaSlice(t, []float32{0, -1, 0}, v[4224].Position[:], 1e-6)
	assert.Equal(t, mgl32.Vec2{1, 1}, v[4224].TexCoord)

	for i, p := range v {
		if l := p.Position.Len(); l < 0.9999 || l > 1.0001 {
			t.Fatalf("vertex %d: expected unit length, got %v", i, l)
		}
		if p.Position != p.Normal {
			t.Fatalf("vertex %d: normal %v differs from position %v", i, p.Normal, p.Position)
		}
	}

	assert.Equal(t, []uint32{0, 65, 66, 0, 66, 1}, indices.Slice()[:6])
	for i, idx := range indices.Slice() {
		if idx >= 4225 {
			t.Fatalf("index %d: %d out of range", i, idx)
		}
	}
}

func TestSphereMeshAppendsAfterExisting(t *testing.T) {
	verts := batch.NewArena[SphereVertex](2 * SphereVertexCount(4, 3))
	indices := batch.NewArena[uint32](2 * SphereIndexCount(4, 3))
	appendSphere(verts, indices, 4, 3, 0)
	appendSphere(verts, indices, 4, 3, 0)

	second := indices.Slice()[SphereIndexCount(4, 3):]
	assert.Equal(t, uint32(SphereVertexCount(4, 3)), second[0])
}

func TestEachSphereIsOneDrawCall(t *testing.T) {
	r, dev, _ := newTestRenderer(t)
	mat := materials.NewPbrMaterial()

	for i := 0; i < 5; i++ {
		before := r.Stats().DrawCalls
		r.DrawSphere(mgl32.Vec3{float32(i), 0, 0}, 0.5, mat, LightParams{}, int32(i))
		if got := r.Stats().DrawCalls - before; got != 1 {
			t.Errorf("sphere %d: expected 1 draw call, got %d", i, got)
		}
	}
	r.EndScene()

	assert.Equal(t, Statistics{DrawCalls: 5, SphereCount: 5}, r.Stats())
	require.Len(t, dev.DrawCalls, 5)
	for _, c := range dev.DrawCalls {
		assert.Equal(t, gfxtest.DrawIndexed, c.Kind)
		assert.Equal(t, 24576, c.Count)
	}
}

func TestSphereUploadsExactBytes(t *testing.T) {
	r, dev, _ := newTestRenderer(t)
	r.DrawSphere(mgl32.Vec3{}, 1, materials.NewPbrMaterial(), LightParams{}, 0)

	require.Len(t, dev.Uploads, 2)
	assert.Equal(t, 4225*36, dev.Uploads[0].Bytes)
	assert.Equal(t, 24576*4, dev.Uploads[1].Bytes)
}

func TestAnalyticSphereUniforms(t *testing.T) {
	r, dev, set := newTestRenderer(t)
	mat := materials.PbrMaterial{Albedo: mgl32.Vec3{0.5, 0, 0}, Metallic: 0.9, Roughness: 0.2, Ao: 1}
	light := LightParams{
		PointLightPositions: []mgl32.Vec3{{1, 2, 3}, {4, 5, 6}},
		PointLightColors:    []mgl32.Vec3{{300, 300, 300}, {150, 150, 150}},
	}
	transform := mgl32.Translate3D(1, 2, 3).Mul4(mgl32.Scale3D(2, 2, 2))
	r.DrawSphereTransform(transform, mat, light, 4)

	u := dev.Shaders[gfx.ShaderSphere].Uniforms
	assert.Equal(t, int32(0), u["u_UseTexture"])
	assert.Equal(t, mat.Albedo, u["u_Albedo"])
	assert.Equal(t, float32(0.9), u["u_Metallic"])
	assert.Equal(t, float32(0.2), u["u_Roughness"])
	assert.Equal(t, transform, u["u_ModelMatrix"])
	assert.Equal(t, int32(2), u["u_PointLightNum"])
	assert.Equal(t, light.PointLightPositions, u["u_PointLightPositions"])

	normal := u["u_NormalMatrix"].(mgl32.Mat4)
	assert.True(t, normal.ApproxEqualThreshold(mgl32.Scale3D(0.5, 0.5, 0.5), 1e-6), "got %v", normal)

	call := dev.DrawCalls[0]
	assert.Equal(t, gfx.ShaderSphere, call.Shader)
	assert.Equal(t, set.IrradianceMap.RendererID(), call.Textures[0])
	assert.Equal(t, set.PrefilterMap.RendererID(), call.Textures[1])
	assert.Equal(t, set.BrdfLUT.RendererID(), call.Textures[2])
	_, bound := call.Textures[3]
	assert.False(t, bound, "analytic sphere must not bind material maps")
}

func TestTexturedSphereBindsMaps(t *testing.T) {
	r, dev, _ := newTestRenderer(t)
	tex := fullTextureSet(dev)
	r.DrawSphereComponent(mgl32.Ident4(), materials.NewPbrMaterial(), tex, LightParams{}, 1)

	assert.Equal(t, int32(1), dev.Shaders[gfx.ShaderSphere].Uniforms["u_UseTexture"])
	call := dev.DrawCalls[0]
	for i, m := range tex.Maps() {
		if got := call.Textures[3+i]; got != m.RendererID() {
			t.Errorf("unit %d: expected texture %d, got %d", 3+i, m.RendererID(), got)
		}
	}
}

func TestIncompleteTextureFallsBack(t *testing.T) {
	r, dev, _ := newTestRenderer(t)
	tex := fullTextureSet(dev)
	tex.AoMap = nil

	mat := materials.PbrMaterial{Albedo: mgl32.Vec3{0, 1, 0}, Roughness: 0.5, Ao: 1}
	r.DrawSphereComponent(mgl32.Ident4(), mat, tex, LightParams{}, 1)

	u := dev.Shaders[gfx.ShaderSphere].Uniforms
	assert.Equal(t, int32(0), u["u_UseTexture"])
	assert.Equal(t, mat.Albedo, u["u_Albedo"])
}

func TestTexturedSphereRequiresCompleteSet(t *testing.T) {
	r, dev, _ := newTestRenderer(t)
	tex := fullTextureSet(dev)
	tex.NormalMap = nil
	r.DrawTexturedSphereTransform(mgl32.Ident4(), tex, LightParams{}, 1)

	u := dev.Shaders[gfx.ShaderSphere].Uniforms
	assert.Equal(t, int32(0), u["u_UseTexture"])
	assert.Equal(t, materials.NewPbrMaterial().Albedo, u["u_Albedo"])
	require.Len(t, dev.DrawCalls, 1)
	assert.Equal(t, 1, r.Stats().SphereCount)
}

func TestNewShaderFailureReleasesBuffers(t *testing.T) {
	for _, name := range []string{gfx.ShaderSphere, gfx.ShaderLine3D, gfx.ShaderIBLBackground} {
		dev := gfxtest.NewDevice()
		dev.FailShader = name
		_, err := New(dev, config.Default().Renderer3D, nil, nil)
		require.Error(t, err, name)
		assert.Empty(t, dev.Live(), name)
	}
}

func TestDestroyReleasesEverything(t *testing.T) {
	dev := gfxtest.NewDevice()
	r, err := New(dev, config.Default().Renderer3D, nil, nil)
	require.NoError(t, err)
	r.Destroy()
	assert.Empty(t, dev.Live())
}

func TestSamplerUnits(t *testing.T) {
	dev := gfxtest.NewDevice()
	_, err := New(dev, config.Default().Renderer3D, nil, nil)
	require.NoError(t, err)

	u := dev.Shaders[gfx.ShaderSphere].Uniforms
	want := map[string]int32{
		"irradianceMap": 0, "prefilterMap": 1, "brdfLUT": 2,
		"u_AlbedoMap": 3, "u_NormalMap": 4, "u_MetallicMap": 5, "u_RoughnessMap": 6, "u_AoMap": 7,
	}
	for name, unit := range want {
		assert.Equal(t, unit, u[name], name)
	}
}

func TestNewRejectsOversizedSphere(t *testing.T) {
	cfg := config.Default().Renderer3D
	cfg.MaxIndices = 1000
	_, err := New(gfxtest.NewDevice(), cfg, nil, nil)
	assert.Error(t, err)
}

func TestBeginSceneUniforms(t *testing.T) {
	dev := gfxtest.NewDevice()
	r, err := New(dev, config.Default().Renderer3D, nil, nil)
	require.NoError(t, err)

	view := camera.FromTransform(mgl32.Perspective(1, 1, 0.1, 100), mgl32.Translate3D(1, 2, 3))
	r.BeginScene(view)
	for _, name := range []string{gfx.ShaderSphere, gfx.ShaderLine3D} {
		u := dev.Shaders[name].Uniforms
		assert.Equal(t, view.ViewProjection(), u["u_ViewProjection"], name)
		assert.Equal(t, mgl32.Vec3{1, 2, 3}, u["u_CamPos"], name)
	}
}

func TestEditorSceneDrawsBackground(t *testing.T) {
	r, dev, set := newTestRenderer(t)
	view := camera.FromTransform(mgl32.Perspective(1, 1, 0.1, 100), mgl32.Translate3D(0, 0, 3))
	r.BeginEditorScene(view)

	require.Len(t, dev.DrawCalls, 1)
	bg := dev.DrawCalls[0]
	assert.Equal(t, gfx.ShaderIBLBackground, bg.Shader)
	assert.Equal(t, gfxtest.DrawArrays, bg.Kind)
	assert.Equal(t, ibl.CubeVertexCount, bg.Count)
	assert.False(t, bg.DepthTest)
	assert.Equal(t, set.EnvCubeMap.RendererID(), bg.Textures[0])
	assert.True(t, dev.DepthTest)

	u := dev.Shaders[gfx.ShaderIBLBackground].Uniforms
	assert.Equal(t, int32(0), u["environmentMap"])
	assert.Equal(t, view.ViewMatrix(), u["view"])
	assert.Equal(t, 0, r.Stats().DrawCalls)
}

func TestGroundPlane(t *testing.T) {
	r, dev, _ := newTestRenderer(t)
	r.DrawGroundPlane(15, 15, 1)

	verts := r.lines.Slice()
	require.Len(t, verts, 60)
	assert.Equal(t, mgl32.Vec3{-7, 0, -7}, verts[0].Position)
	assert.Equal(t, mgl32.Vec3{-7, 0, 7}, verts[1].Position)
	assert.Equal(t, mgl32.Vec3{-7, 0, -7}, verts[30].Position)
	assert.Equal(t, mgl32.Vec3{7, 0, -7}, verts[31].Position)
	assert.Equal(t, mgl32.Vec4{0.8, 0.8, 0.8, 0.8}, verts[0].Color)

	r.EndScene()
	require.Len(t, dev.DrawCalls, 1)
	assert.Equal(t, gfxtest.DrawLines, dev.DrawCalls[0].Kind)
	assert.Equal(t, 60, dev.DrawCalls[0].Count)
	assert.Equal(t, float32(2), dev.DrawCalls[0].LineWidth)
}

func TestLineOverflow(t *testing.T) {
	cfg := config.Default().Renderer3D
	cfg.SphereSegmentsX, cfg.SphereSegmentsY = 3, 2
	cfg.MaxVertices = 12
	dev := gfxtest.NewDevice()
	r, err := New(dev, cfg, nil, nil)
	require.NoError(t, err)

	for i := 0; i < 7; i++ {
		r.DrawLine(mgl32.Vec3{}, mgl32.Vec3{1, 1, 1}, mgl32.Vec4{1, 1, 1, 1}, -1)
	}
	r.EndScene()

	var counts []int
	for _, c := range dev.DrawCalls {
		counts = append(counts, c.Count)
	}
	assert.Equal(t, []int{12, 2}, counts)
}

func TestEmptyFlushAndStatsReset(t *testing.T) {
	r, dev, _ := newTestRenderer(t)
	r.StartBatch()
	r.Flush()
	assert.Empty(t, dev.DrawCalls)

	r.DrawSphere(mgl32.Vec3{}, 1, materials.NewPbrMaterial(), LightParams{}, 0)
	r.ResetStats()
	assert.Equal(t, Statistics{}, r.Stats())

	r.DrawSphere(mgl32.Vec3{}, 1, materials.NewPbrMaterial(), LightParams{}, 0)
	assert.Equal(t, Statistics{DrawCalls: 1, SphereCount: 1}, r.Stats())
}

func TestPointLightCount(t *testing.T) {
	l := LightParams{
		PointLightPositions: make([]mgl32.Vec3, 3),
		PointLightColors:    make([]mgl32.Vec3, 2),
	}
	assert.Equal(t, 2, l.PointLightCount())
}
