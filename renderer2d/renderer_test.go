package renderer2d

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"batch-render/camera"
	"batch-render/config"
	"batch-render/gfx"
	"batch-render/gfx/gfxtest"
)

var red = mgl32.Vec4{1, 0, 0, 1}

func newTestRenderer(t *testing.T, maxQuads int) (*Renderer, *gfxtest.Device) {
	t.Helper()
	cfg := config.Default().Renderer2D
	if maxQuads > 0 {
		cfg.MaxQuads = maxQuads
	}
	dev := gfxtest.NewDevice()
	r, err := New(dev, cfg, nil)
	require.NoError(t, err)

	r.BeginScene(camera.FromTransform(mgl32.Ident4(), mgl32.Ident4()))
	dev.Reset()
	return r, dev
}

func drawCounts(calls []gfxtest.DrawCall) []int {
	out := make([]int, len(calls))
	for i, c := range calls {
		out[i] = c.Count
	}
	return out
}

func TestQuadIndexPattern(t *testing.T) {
	got := quadIndices(12)
	want := []uint32{0, 1, 2, 2, 3, 0, 4, 5, 6, 6, 7, 4}
	assert.Equal(t, want, got)
}

func TestNewInitialisesSamplers(t *testing.T) {
	dev := gfxtest.NewDevice()
	_, err := New(dev, config.Default().Renderer2D, nil)
	require.NoError(t, err)

	samplers, ok := dev.Shaders[gfx.ShaderQuad].Uniforms["u_Textures"].([]int32)
	require.True(t, ok)
	require.Len(t, samplers, 32)
	for i, s := range samplers {
		if s != int32(i) {
			t.Errorf("u_Textures[%d]: expected %d, got %d", i, i, s)
		}
	}

	require.Len(t, dev.Textures2D, 1)
	assert.Equal(t, []byte{0xff, 0xff, 0xff, 0xff}, dev.Textures2D[0].Data)
}

func TestNewShaderFailure(t *testing.T) {
	dev := gfxtest.NewDevice()
	dev.FailShader = gfx.ShaderCircle
	_, err := New(dev, config.Default().Renderer2D, nil)
	assert.Error(t, err)
	assert.Empty(t, dev.Live(), "buffers created before the failing shader")
}

func TestDestroyReleasesEverything(t *testing.T) {
	dev := gfxtest.NewDevice()
	r, err := New(dev, config.Default().Renderer2D, nil)
	require.NoError(t, err)
	r.Destroy()
	assert.Empty(t, dev.Live())
}

func TestBeginSceneBindsViewProjection(t *testing.T) {
	dev := gfxtest.NewDevice()
	r, err := New(dev, config.Default().Renderer2D, nil)
	require.NoError(t, err)

	proj := mgl32.Ortho(-2, 2, -1, 1, -1, 1)
	view := camera.FromTransform(proj, mgl32.Translate3D(1, 0, 0))
	r.BeginScene(view)

	for _, name := range []string{gfx.ShaderQuad, gfx.ShaderCircle, gfx.ShaderLine2D} {
		got, ok := dev.Shaders[name].Uniforms["u_ViewProjection"].(mgl32.Mat4)
		require.True(t, ok, name)
		assert.True(t, got.ApproxEqual(view.ViewProjection()), name)
	}
}

func TestSingleBatchProducesOneDraw(t *testing.T) {
	r, dev := newTestRenderer(t, 0)
	for i := 0; i < 100; i++ {
		r.DrawQuad(mgl32.Vec3{float32(i), 0, 0}, mgl32.Vec2{1, 1}, red)
	}
	r.EndScene()

	require.Len(t, dev.DrawCalls, 1)
	assert.Equal(t, gfxtest.DrawIndexed, dev.DrawCalls[0].Kind)
	assert.Equal(t, 600, dev.DrawCalls[0].Count)

	require.Len(t, dev.Uploads, 1)
	if dev.Uploads[0].Bytes != 100*4*48 {
		t.Errorf("upload: expected %d bytes, got %d", 100*4*48, dev.Uploads[0].Bytes)
	}
}

func TestOverflowSplitsBatches(t *testing.T) {
	const maxQuads = 10
	maxIndices := maxQuads * 6

	tests := []struct {
		quads int
		draws int
	}{
		{1, 1},
		{10, 1},
		{11, 2},
		{25, 3},
		{30, 3},
		{31, 4},
	}
	for _, tt := range tests {
		r, dev := newTestRenderer(t, maxQuads)
		for i := 0; i < tt.quads; i++ {
			r.DrawQuad(mgl32.Vec3{}, mgl32.Vec2{1, 1}, red)
		}
		r.EndScene()

		want := (tt.quads*6 + maxIndices - 1) / maxIndices
		assert.Equal(t, want, tt.draws)
		if len(dev.DrawCalls) != tt.draws {
			t.Errorf("%d quads: expected %d draws, got %d", tt.quads, tt.draws, len(dev.DrawCalls))
		}
		total := 0
		for _, c := range dev.DrawCalls {
			total += c.Count
		}
		if total != tt.quads*6 {
			t.Errorf("%d quads: expected %d indices, got %d", tt.quads, tt.quads*6, total)
		}
	}
}

func TestTwentyThousandAndOneQuads(t *testing.T) {
	r, dev := newTestRenderer(t, 20000)
	for i := 0; i < 20001; i++ {
		r.DrawQuad(mgl32.Vec3{}, mgl32.Vec2{1, 1}, red)
	}
	r.EndScene()

	assert.Equal(t, []int{120000, 6}, drawCounts(dev.DrawCalls))
	assert.Equal(t, 2, r.Stats().DrawCalls)
	assert.Equal(t, 20001, r.Stats().QuadCount)
}

func TestThreeDistinctTextures(t *testing.T) {
	r, dev := newTestRenderer(t, 0)
	a := gfxtest.NewTexture2D(dev, 4, 4)
	b := gfxtest.NewTexture2D(dev, 4, 4)
	c := gfxtest.NewTexture2D(dev, 4, 4)

	for _, tex := range []gfx.Texture2D{a, b, c} {
		r.DrawTexturedQuadTransform(mgl32.Ident4(), tex, 1, mgl32.Vec4{1, 1, 1, 1}, 7)
	}
	r.EndScene()

	require.Len(t, dev.DrawCalls, 1)
	want := map[int]uint32{
		0: r.WhiteTexture().RendererID(),
		1: a.RendererID(),
		2: b.RendererID(),
		3: c.RendererID(),
	}
	assert.Equal(t, want, dev.DrawCalls[0].Textures)
	assert.Equal(t, 3, r.Stats().QuadCount)
	assert.Equal(t, gfx.ShaderQuad, dev.DrawCalls[0].Shader)
}

func TestSameTextureReusesSlot(t *testing.T) {
	r, dev := newTestRenderer(t, 0)
	a := gfxtest.NewTexture2D(dev, 4, 4)

	r.DrawTexturedQuadTransform(mgl32.Ident4(), a, 1, red, NoEntity)
	r.DrawTexturedQuadTransform(mgl32.Ident4(), a, 1, red, NoEntity)

	verts := r.quads.Slice()
	require.Len(t, verts, 8)
	assert.Equal(t, float32(1), verts[0].TexIndex)
	assert.Equal(t, float32(1), verts[4].TexIndex)
	assert.Equal(t, 2, r.slotIndex)
}

func TestExplicitWhiteUsesSlotZero(t *testing.T) {
	r, _ := newTestRenderer(t, 0)
	r.DrawTexturedQuadTransform(mgl32.Ident4(), r.WhiteTexture(), 1, red, NoEntity)

	assert.Equal(t, float32(0), r.quads.Slice()[0].TexIndex)
	assert.Equal(t, 1, r.slotIndex)
}

func TestSlotExhaustionFlushes(t *testing.T) {
	r, dev := newTestRenderer(t, 0)

	textures := make([]*gfxtest.Texture2D, 32)
	for i := range textures {
		textures[i] = gfxtest.NewTexture2D(dev, 1, 1)
	}
	for i := 0; i < 31; i++ {
		r.DrawTexturedQuadTransform(mgl32.Ident4(), textures[i], 1, red, NoEntity)
	}
	assert.Empty(t, dev.DrawCalls, "31 textures must fit in one batch")

	for i, v := range r.quads.Slice() {
		if want := float32(i/4 + 1); v.TexIndex != want {
			t.Errorf("vertex %d: expected slot %v, got %v", i, want, v.TexIndex)
		}
	}

	r.DrawTexturedQuadTransform(mgl32.Ident4(), textures[31], 1, red, NoEntity)
	require.Len(t, dev.DrawCalls, 1)
	assert.Len(t, dev.DrawCalls[0].Textures, 32)
	assert.Equal(t, 31*6, dev.DrawCalls[0].Count)

	assert.Equal(t, float32(1), r.quads.Slice()[0].TexIndex)
	r.EndScene()
	assert.Equal(t, []int{31 * 6, 6}, drawCounts(dev.DrawCalls))
}

func TestEmptyFlushIsNoop(t *testing.T) {
	r, dev := newTestRenderer(t, 0)
	r.StartBatch()
	r.Flush()
	r.EndScene()

	assert.Empty(t, dev.DrawCalls)
	assert.Empty(t, dev.Uploads)
	assert.Equal(t, 0, r.Stats().DrawCalls)
}

func TestFlushOrderAndLineWidth(t *testing.T) {
	r, dev := newTestRenderer(t, 0)
	r.DrawLine(mgl32.Vec3{}, mgl32.Vec3{1, 0, 0}, red, NoEntity)
	r.DrawCircle(mgl32.Ident4(), red, 1, 0.005, NoEntity)
	r.DrawQuad(mgl32.Vec3{}, mgl32.Vec2{1, 1}, red)
	r.EndScene()

	require.Len(t, dev.DrawCalls, 3)
	assert.Equal(t, gfx.ShaderQuad, dev.DrawCalls[0].Shader)
	assert.Equal(t, gfx.ShaderCircle, dev.DrawCalls[1].Shader)
	assert.Equal(t, gfx.ShaderLine2D, dev.DrawCalls[2].Shader)

	lines := dev.DrawCalls[2]
	assert.Equal(t, gfxtest.DrawLines, lines.Kind)
	assert.Equal(t, 2, lines.Count)
	assert.Equal(t, float32(2), lines.LineWidth)

	// circles share the quad counter
	assert.Equal(t, 2, r.Stats().QuadCount)
}

func TestCircleLocalPosition(t *testing.T) {
	r, _ := newTestRenderer(t, 0)
	r.DrawCircle(mgl32.Scale3D(4, 4, 1), red, 0.5, 0.01, 3)

	verts := r.circles.Slice()
	require.Len(t, verts, 4)
	assert.Equal(t, mgl32.Vec3{-1, -1, 0}, verts[0].LocalPosition)
	assert.Equal(t, mgl32.Vec3{1, 1, 0}, verts[2].LocalPosition)
	assert.Equal(t, mgl32.Vec3{2, 2, 0}, verts[2].WorldPosition)
	assert.Equal(t, int32(3), verts[0].EntityID)
}

func TestCircleOverflow(t *testing.T) {
	r, dev := newTestRenderer(t, 2)
	for i := 0; i < 3; i++ {
		r.DrawCircle(mgl32.Ident4(), red, 1, 0, NoEntity)
	}
	r.EndScene()
	assert.Equal(t, []int{12, 6}, drawCounts(dev.DrawCalls))
}

func TestDrawRect(t *testing.T) {
	r, dev := newTestRenderer(t, 0)
	r.DrawRect(mgl32.Vec3{0, 0, 0}, mgl32.Vec2{2, 4}, red, NoEntity)

	verts := r.lines.Slice()
	require.Len(t, verts, 8)
	assert.Equal(t, mgl32.Vec3{-1, -2, 0}, verts[0].Position)
	assert.Equal(t, mgl32.Vec3{1, -2, 0}, verts[1].Position)
	assert.Equal(t, mgl32.Vec3{-1, -2, 0}, verts[7].Position)

	r.DrawRectTransform(mgl32.Ident4(), red, NoEntity)
	r.EndScene()
	require.Len(t, dev.DrawCalls, 1)
	assert.Equal(t, 16, dev.DrawCalls[0].Count)
}

func TestRotatedQuad(t *testing.T) {
	r, _ := newTestRenderer(t, 0)
	r.DrawRotatedQuad(mgl32.Vec3{}, mgl32.Vec2{2, 2}, mgl32.DegToRad(90), red)

	// bottom-left corner (-1,-1) rotated a quarter turn lands at (1,-1)
	got := r.quads.Slice()[0].Position
	assert.InDeltaSlice(t, []float32{1, -1, 0}, got[:], 1e-5)
}

func TestDrawSprite(t *testing.T) {
	r, dev := newTestRenderer(t, 0)
	tex := gfxtest.NewTexture2D(dev, 2, 2)

	r.DrawSprite(mgl32.Ident4(), Sprite{Color: red}, 1)
	r.DrawSprite(mgl32.Ident4(), Sprite{Color: red, Texture: tex}, 2)

	verts := r.quads.Slice()
	require.Len(t, verts, 8)
	assert.Equal(t, float32(0), verts[0].TexIndex)
	assert.Equal(t, float32(1), verts[4].TexIndex)
	assert.Equal(t, float32(1), verts[4].TilingFactor)
	assert.Equal(t, int32(2), verts[4].EntityID)
}

func TestStatsAccumulateUntilReset(t *testing.T) {
	r, _ := newTestRenderer(t, 0)
	view := camera.FromTransform(mgl32.Ident4(), mgl32.Ident4())

	for frame := 0; frame < 3; frame++ {
		r.BeginScene(view)
		r.DrawQuad(mgl32.Vec3{}, mgl32.Vec2{1, 1}, red)
		r.EndScene()
	}
	assert.Equal(t, Statistics{DrawCalls: 3, QuadCount: 3}, r.Stats())
	assert.Equal(t, 12, r.Stats().TotalVertexCount())

	r.ResetStats()
	assert.Equal(t, Statistics{}, r.Stats())

	r.BeginScene(view)
	r.DrawQuad(mgl32.Vec3{}, mgl32.Vec2{1, 1}, red)
	r.EndScene()
	assert.Equal(t, Statistics{DrawCalls: 1, QuadCount: 1}, r.Stats())
}
