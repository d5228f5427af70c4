package ibl

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"batch-render/config"
	"batch-render/gfx"
	"batch-render/gfx/gfxtest"
)

func runPipeline(t *testing.T) (*Set, *gfxtest.Device, *gfxtest.Texture2D) {
	t.Helper()
	dev := gfxtest.NewDevice()
	hdr, err := dev.NewTexture2D(gfx.TextureSpecification{Width: 64, Height: 32, Format: gfx.FormatRGB16F})
	require.NoError(t, err)

	set, err := Precompute(dev, hdr, config.Default().IBL, nil)
	require.NoError(t, err)
	return set, dev, hdr.(*gfxtest.Texture2D)
}

func TestOutputDimensions(t *testing.T) {
	set, _, _ := runPipeline(t)

	assert.Equal(t, 512, set.EnvCubeMap.Width())
	assert.Equal(t, 512, set.EnvCubeMap.Height())
	assert.Equal(t, 32, set.IrradianceMap.Width())
	assert.Equal(t, 128, set.PrefilterMap.Width())
	assert.Equal(t, 5, set.PrefilterMap.MipLevels())
	assert.Equal(t, 512, set.BrdfLUT.Width())
	assert.Equal(t, 512, set.BrdfLUT.Height())

	env := set.EnvCubeMap.(*gfxtest.TextureCube)
	if !env.Mipmapped {
		t.Errorf("environment cube: expected mipmaps generated")
	}
	assert.Equal(t, 10, env.MipLevels())
}

func TestFaceCopies(t *testing.T) {
	set, dev, _ := runPipeline(t)

	perTexture := map[uint32][]gfxtest.FaceCopy{}
	for _, c := range dev.Copies {
		perTexture[c.TextureID] = append(perTexture[c.TextureID], c)
	}

	env := perTexture[set.EnvCubeMap.RendererID()]
	require.Len(t, env, 6)
	for face, c := range env {
		assert.Equal(t, face, c.Face)
		assert.Equal(t, 0, c.Level)
		assert.Equal(t, 512, c.Width)
	}

	irr := perTexture[set.IrradianceMap.RendererID()]
	require.Len(t, irr, 6)
	assert.Equal(t, 32, irr[5].Width)

	pre := perTexture[set.PrefilterMap.RendererID()]
	require.Len(t, pre, 30)
	for i, c := range pre {
		mip := i / 6
		if c.Level != mip || c.Face != i%6 {
			t.Errorf("prefilter copy %d: expected face %d mip %d, got face %d mip %d", i, i%6, mip, c.Face, c.Level)
		}
		if want := 128 >> mip; c.Width != want || c.Height != want {
			t.Errorf("prefilter copy %d: expected %dx%d, got %dx%d", i, want, want, c.Width, c.Height)
		}
	}

	lut := perTexture[set.BrdfLUT.RendererID()]
	require.Len(t, lut, 1)
	assert.Equal(t, 512, lut[0].Width)
}

func TestPassOrderAndDraws(t *testing.T) {
	_, dev, _ := runPipeline(t)

	var order []string
	for _, c := range dev.DrawCalls {
		if len(order) == 0 || order[len(order)-1] != c.Shader {
			order = append(order, c.Shader)
		}
	}
	assert.Equal(t, []string{
		gfx.ShaderEquirectToCube,
		gfx.ShaderIrradiance,
		gfx.ShaderPrefilter,
		gfx.ShaderBRDF,
	}, order)

	assert.Len(t, dev.DrawsWith(gfx.ShaderEquirectToCube), 6)
	assert.Len(t, dev.DrawsWith(gfx.ShaderIrradiance), 6)
	assert.Len(t, dev.DrawsWith(gfx.ShaderPrefilter), 30)

	brdf := dev.DrawsWith(gfx.ShaderBRDF)
	require.Len(t, brdf, 1)
	assert.Equal(t, QuadVertexCount, brdf[0].Count)
	for _, c := range dev.DrawsWith(gfx.ShaderIrradiance) {
		assert.Equal(t, gfxtest.DrawArrays, c.Kind)
		assert.Equal(t, CubeVertexCount, c.Count)
	}
	assert.Equal(t, 6+6+30+1, dev.Clears)
}

func TestSamplersAndUniforms(t *testing.T) {
	set, dev, hdr := runPipeline(t)

	eq := dev.Shaders[gfx.ShaderEquirectToCube]
	assert.Equal(t, int32(1), eq.Uniforms["equirectangularMap"])
	assert.Equal(t, CaptureProjection(), eq.Uniforms["projection"])
	assert.Equal(t, 6, eq.Writes["view"])
	assert.Equal(t, hdr.RendererID(), dev.DrawsWith(gfx.ShaderEquirectToCube)[0].Textures[1])

	irr := dev.DrawsWith(gfx.ShaderIrradiance)
	assert.Equal(t, set.EnvCubeMap.RendererID(), irr[0].Textures[1])

	pre := dev.Shaders[gfx.ShaderPrefilter]
	assert.Equal(t, int32(1), pre.Uniforms["environmentMap"])
	assert.Equal(t, float32(1), pre.Uniforms["roughness"])
	assert.Equal(t, 5, pre.Writes["roughness"])
}

func TestFramebufferResizes(t *testing.T) {
	_, dev, _ := runPipeline(t)
	require.Len(t, dev.FrameBuffers, 1)

	fb := dev.FrameBuffers[0]
	assert.Equal(t, [][2]int{
		{512, 512},
		{32, 32},
		{128, 128}, {64, 64}, {32, 32}, {16, 16}, {8, 8},
		{512, 512},
	}, fb.Resizes)
	assert.Equal(t, []gfx.ImageFormat{gfx.FormatRGB16F, gfx.FormatDepth24Stencil8}, fb.Specification().Attachments)
}

func TestMissingHDR(t *testing.T) {
	_, err := Precompute(gfxtest.NewDevice(), nil, config.Default().IBL, nil)
	assert.Error(t, err)
}

func TestShaderFailureAborts(t *testing.T) {
	dev := gfxtest.NewDevice()
	dev.FailShader = gfx.ShaderPrefilter
	hdr := gfxtest.NewTexture2D(dev, 2, 1)

	_, err := Precompute(dev, hdr, config.Default().IBL, nil)
	require.Error(t, err)
	assert.Empty(t, dev.DrawsWith(gfx.ShaderBRDF))
}

func TestShaderFailureReleasesPartialSet(t *testing.T) {
	for _, name := range []string{gfx.ShaderEquirectToCube, gfx.ShaderIrradiance, gfx.ShaderPrefilter, gfx.ShaderBRDF} {
		dev := gfxtest.NewDevice()
		dev.FailShader = name
		hdr := gfxtest.NewTexture2D(dev, 2, 1)

		set, err := Precompute(dev, hdr, config.Default().IBL, nil)
		require.Error(t, err, name)
		assert.Nil(t, set)
		// only the caller's HDR texture survives
		if live := dev.Live(); !assert.ObjectsAreEqual([]string{"texture2d"}, live) {
			t.Errorf("%s: expected only the HDR texture live, got %v", name, live)
		}
	}
}

func TestSetDestroyReleasesEverything(t *testing.T) {
	set, dev, _ := runPipeline(t)
	set.Destroy()
	assert.Equal(t, []string{"texture2d"}, dev.Live())

	// partially filled sets are safe to destroy
	(&Set{}).Destroy()
}

func TestCaptureViews(t *testing.T) {
	views := CaptureViews()
	dirs := []mgl32.Vec3{{1, 0, 0}, {-1, 0, 0}, {0, 1, 0}, {0, -1, 0}, {0, 0, 1}, {0, 0, -1}}

	for i, v := range views {
		// a view matrix maps its look direction onto -Z
		got := v.Mul4x1(dirs[i].Vec4(0)).Vec3()
		for j, want := range [3]float32{0, 0, -1} {
			if d := got[j] - want; d > 1e-5 || d < -1e-5 {
				t.Errorf("view %d: expected look direction on -Z, got %v", i, got)
				break
			}
		}
	}

	proj := CaptureProjection()
	// 90 degree fov on a square target gives a unit focal length
	assert.InDelta(t, 1.0, float64(proj[0]), 1e-5)
	assert.InDelta(t, 1.0, float64(proj[5]), 1e-5)
}

func TestMipSize(t *testing.T) {
	assert.Equal(t, 128, MipSize(128, 0))
	assert.Equal(t, 8, MipSize(128, 4))
	assert.Equal(t, 1, MipSize(4, 5))
}

func TestGeometry(t *testing.T) {
	assert.Len(t, cubeVertices, CubeVertexCount*8)
	assert.Len(t, quadVertices, QuadVertexCount*5)
	assert.Equal(t, 32, cubeLayout.Stride())
	assert.Equal(t, 20, quadLayout.Stride())

	dev := gfxtest.NewDevice()
	cube := NewCube(dev)
	vb := cube.VB.(*gfxtest.VertexBuffer)
	assert.Equal(t, CubeVertexCount*32, len(vb.Data))
}
