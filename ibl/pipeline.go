// Package ibl turns one equirectangular HDR texture into the image-based
// lighting inputs of the PBR sphere shader. It runs once at startup.
package ibl

import (
	"errors"
	"fmt"
	"math/bits"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"batch-render/config"
	"batch-render/gfx"
	"batch-render/internal/logger"
)

// Cache names of the pipeline outputs.
const (
	EnvCubeMapName     = "EnvCubeMap"
	IrradianceMapName  = "IrradianceMap"
	PrefilterMapName   = "PrefilterMap"
	BrdfLUTTextureName = "BrdfLUTTexture"
)

// Set holds the four precomputed textures. They are read-only once
// Precompute returns.
type Set struct {
	EnvCubeMap    gfx.TextureCube
	IrradianceMap gfx.TextureCube
	PrefilterMap  gfx.TextureCube
	BrdfLUT       gfx.Texture2D
}

// Destroy releases every texture in the set. Unset members are skipped.
func (s *Set) Destroy() {
	for _, t := range []gfx.Texture{s.EnvCubeMap, s.IrradianceMap, s.PrefilterMap, s.BrdfLUT} {
		if t != nil {
			t.Destroy()
		}
	}
}

// CaptureProjection is a 90 degree square frustum, one cube face wide.
func CaptureProjection() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(90), 1, 0.1, 10)
}

// CaptureViews look from the origin along +X, -X, +Y, -Y, +Z, -Z, in cube
// face order.
func CaptureViews() [6]mgl32.Mat4 {
	eye := mgl32.Vec3{}
	return [6]mgl32.Mat4{
		mgl32.LookAtV(eye, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, -1, 0}),
		mgl32.LookAtV(eye, mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, -1, 0}),
		mgl32.LookAtV(eye, mgl32.Vec3{0, 1, 0}, mgl32.Vec3{0, 0, 1}),
		mgl32.LookAtV(eye, mgl32.Vec3{0, -1, 0}, mgl32.Vec3{0, 0, -1}),
		mgl32.LookAtV(eye, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{0, -1, 0}),
		mgl32.LookAtV(eye, mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, -1, 0}),
	}
}

// MipSize is the edge length of mip level of a base-sized texture.
func MipSize(base, level int) int {
	if s := base >> level; s > 0 {
		return s
	}
	return 1
}

type pipeline struct {
	dev   gfx.Device
	cfg   config.IBL
	log   *zap.Logger
	cube  *Mesh
	quad  *Mesh
	fb    gfx.FrameBuffer
	views [6]mgl32.Mat4
	proj  mgl32.Mat4
}

// Precompute renders the environment, irradiance and prefilter cube maps and
// the BRDF lookup texture from hdr. Passes run in that order; each one
// samples the output of the environment pass.
func Precompute(device gfx.Device, hdr gfx.Texture2D, cfg config.IBL, log *zap.Logger) (*Set, error) {
	if hdr == nil {
		return nil, errors.New("ibl: no HDR environment texture")
	}
	p := &pipeline{
		dev:   device,
		cfg:   cfg,
		log:   logger.Or(log).Named("ibl"),
		views: CaptureViews(),
		proj:  CaptureProjection(),
	}

	fb, err := device.NewFrameBuffer(gfx.FramebufferSpecification{
		Width:       cfg.EnvironmentSize,
		Height:      cfg.EnvironmentSize,
		Attachments: []gfx.ImageFormat{gfx.FormatRGB16F, gfx.FormatDepth24Stencil8},
	})
	if err != nil {
		return nil, fmt.Errorf("ibl: capture framebuffer: %w", err)
	}
	p.fb = fb
	p.cube = NewCube(device)
	p.quad = NewQuad(device)
	defer func() {
		p.fb.Destroy()
		p.cube.Destroy()
		p.quad.Destroy()
	}()

	set := &Set{}
	if err := p.run(set, hdr); err != nil {
		set.Destroy()
		return nil, err
	}
	p.log.Info("IBL precomputed",
		zap.Int("environment", cfg.EnvironmentSize),
		zap.Int("irradiance", cfg.IrradianceSize),
		zap.Int("prefilter", cfg.PrefilterSize),
		zap.Int("prefilter_mips", cfg.PrefilterMips),
		zap.Int("brdf", cfg.BRDFSize))
	return set, nil
}

func (p *pipeline) run(set *Set, hdr gfx.Texture2D) error {
	var err error
	if set.EnvCubeMap, err = p.environment(hdr); err != nil {
		return err
	}
	if set.IrradianceMap, err = p.irradiance(set.EnvCubeMap); err != nil {
		return err
	}
	if set.PrefilterMap, err = p.prefilter(set.EnvCubeMap); err != nil {
		return err
	}
	set.BrdfLUT, err = p.brdf()
	return err
}

func (p *pipeline) shader(name string) (gfx.Shader, error) {
	s, err := p.dev.NewShader(name)
	if err != nil {
		return nil, fmt.Errorf("ibl: %w", err)
	}
	return s, nil
}

func (p *pipeline) newCube(size, mips int) (gfx.TextureCube, error) {
	cube, err := p.dev.NewTextureCube(gfx.TextureSpecification{
		Width:        size,
		Height:       size,
		Format:       gfx.FormatRGB16F,
		MipLevels:    mips,
		GenerateMips: mips > 1,
	})
	if err != nil {
		return nil, fmt.Errorf("ibl: cube map %dx%d: %w", size, size, err)
	}
	return cube, nil
}

// captureFaces renders the cube once per face into the bound framebuffer
// and copies each result into dst at level.
func (p *pipeline) captureFaces(s gfx.Shader, dst gfx.TextureCube, level int) {
	for face, view := range p.views {
		s.SetMat4("view", view)
		p.dev.Clear()
		p.cube.Draw(p.dev)
		dst.CopyFaceFromFrameBuffer(p.fb, face, level)
	}
}

// ── Passes ───────────────────────────────────────────────────────────────────

func (p *pipeline) environment(hdr gfx.Texture2D) (gfx.TextureCube, error) {
	size := p.cfg.EnvironmentSize
	s, err := p.shader(gfx.ShaderEquirectToCube)
	if err != nil {
		return nil, err
	}
	defer s.Destroy()

	env, err := p.newCube(size, bits.Len(uint(size)))
	if err != nil {
		return nil, err
	}

	s.Bind()
	s.SetInt("equirectangularMap", 1)
	s.SetMat4("projection", p.proj)
	hdr.Bind(1)

	p.fb.Resize(size, size)
	p.fb.Bind()
	p.captureFaces(s, env, 0)
	p.fb.Unbind()

	// the convolution passes sample lower mips to avoid bright-dot artifacts
	env.GenerateMipmaps()
	return env, nil
}

func (p *pipeline) irradiance(env gfx.TextureCube) (gfx.TextureCube, error) {
	size := p.cfg.IrradianceSize
	s, err := p.shader(gfx.ShaderIrradiance)
	if err != nil {
		return nil, err
	}
	defer s.Destroy()

	irr, err := p.newCube(size, 1)
	if err != nil {
		return nil, err
	}

	s.Bind()
	s.SetInt("environmentMap", 1)
	s.SetMat4("projection", p.proj)
	env.Bind(1)

	p.fb.Resize(size, size)
	p.fb.Bind()
	p.captureFaces(s, irr, 0)
	p.fb.Unbind()
	return irr, nil
}

func (p *pipeline) prefilter(env gfx.TextureCube) (gfx.TextureCube, error) {
	base, mips := p.cfg.PrefilterSize, p.cfg.PrefilterMips
	s, err := p.shader(gfx.ShaderPrefilter)
	if err != nil {
		return nil, err
	}
	defer s.Destroy()

	pre, err := p.newCube(base, mips)
	if err != nil {
		return nil, err
	}

	s.Bind()
	s.SetInt("environmentMap", 1)
	s.SetMat4("projection", p.proj)
	env.Bind(1)

	for mip := 0; mip < mips; mip++ {
		size := MipSize(base, mip)
		p.fb.Resize(size, size)
		p.fb.Bind()

		roughness := float32(0)
		if mips > 1 {
			roughness = float32(mip) / float32(mips-1)
		}
		s.SetFloat("roughness", roughness)
		p.captureFaces(s, pre, mip)
	}
	p.fb.Unbind()
	return pre, nil
}

func (p *pipeline) brdf() (gfx.Texture2D, error) {
	size := p.cfg.BRDFSize
	s, err := p.shader(gfx.ShaderBRDF)
	if err != nil {
		return nil, err
	}
	defer s.Destroy()

	lut, err := p.dev.NewTexture2D(gfx.TextureSpecification{Width: size, Height: size, Format: gfx.FormatRGB16F})
	if err != nil {
		return nil, fmt.Errorf("ibl: brdf lut: %w", err)
	}

	s.Bind()
	p.fb.Resize(size, size)
	p.fb.Bind()
	p.dev.Clear()
	p.quad.Draw(p.dev)
	lut.CopyFromFrameBuffer(p.fb, 0)
	p.fb.Unbind()
	return lut, nil
}
