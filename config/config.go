// Package config loads the YAML run configuration for the renderer and demo.
package config

import (
	"errors"
	"fmt"
	"math/bits"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid config")

type Config struct {
	Window     Window     `yaml:"window"`
	Renderer2D Renderer2D `yaml:"renderer2d"`
	Renderer3D Renderer3D `yaml:"renderer3d"`
	IBL        IBL        `yaml:"ibl"`
	Assets     Assets     `yaml:"assets"`
	Log        Log        `yaml:"log"`
}

type Window struct {
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	Title     string `yaml:"title"`
	Resizable bool   `yaml:"resizable"`
	VSync     bool   `yaml:"vsync"`
}

type Renderer2D struct {
	MaxQuads        int     `yaml:"max_quads"`
	MaxTextureSlots int     `yaml:"max_texture_slots"`
	LineWidth       float32 `yaml:"line_width"`
}

// MaxVertices is four per quad.
func (r Renderer2D) MaxVertices() int { return r.MaxQuads * 4 }

// MaxIndices is six per quad.
func (r Renderer2D) MaxIndices() int { return r.MaxQuads * 6 }

type Renderer3D struct {
	MaxVertices     int     `yaml:"max_vertices"`
	MaxIndices      int     `yaml:"max_indices"`
	SphereSegmentsX int     `yaml:"sphere_segments_x"`
	SphereSegmentsY int     `yaml:"sphere_segments_y"`
	LineWidth       float32 `yaml:"line_width"`
}

type IBL struct {
	EnvironmentSize int    `yaml:"environment_size"`
	IrradianceSize  int    `yaml:"irradiance_size"`
	PrefilterSize   int    `yaml:"prefilter_size"`
	PrefilterMips   int    `yaml:"prefilter_mips"`
	BRDFSize        int    `yaml:"brdf_size"`
	HDRTexture      string `yaml:"hdr_texture"`
}

// Assets describes what the resource cache preloads, relative to Root:
// textures/pbr/<material>/, textures/<name>.png and textures/hdr/<name>.hdr.
type Assets struct {
	Root        string   `yaml:"root"`
	Materials   []string `yaml:"materials"`
	Textures    []string `yaml:"textures"`
	HDRTextures []string `yaml:"hdr_textures"`
	// MaterialPresets is a .gltf/.glb file under Root whose materials are
	// registered as analytic presets. Empty disables it.
	MaterialPresets string `yaml:"material_presets"`
	Workers         int    `yaml:"workers"`
}

type Log struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// Default returns the stock configuration the demo runs with.
func Default() Config {
	return Config{
		Window: Window{
			Width:     1280,
			Height:    720,
			Title:     "batch-render",
			Resizable: true,
			VSync:     true,
		},
		Renderer2D: Renderer2D{
			MaxQuads:        20000,
			MaxTextureSlots: 32,
			LineWidth:       2.0,
		},
		Renderer3D: Renderer3D{
			MaxVertices:     100000,
			MaxIndices:      100000,
			SphereSegmentsX: 64,
			SphereSegmentsY: 64,
			LineWidth:       2.0,
		},
		IBL: IBL{
			EnvironmentSize: 512,
			IrradianceSize:  32,
			PrefilterSize:   128,
			PrefilterMips:   5,
			BRDFSize:        512,
			HDRTexture:      "christmas_photo_studio_03_8k",
		},
		Assets: Assets{
			Root:            "assets",
			Materials:       []string{"rusted_iron", "gold", "grass", "plastic", "wall"},
			Textures:        []string{"Checkerboard", "ChernoLogo"},
			HDRTextures:     []string{"christmas_photo_studio_03_8k"},
			MaterialPresets: "materials/presets.gltf",
			Workers:         4,
		},
		Log: Log{Level: "info"},
	}
}

// Load reads a YAML file on top of Default and validates the result.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %q: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes YAML on top of Default and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks capacities and resolutions against what the renderers
// and the IBL pipeline can hold.
func (c Config) Validate() error {
	r2 := c.Renderer2D
	if r2.MaxQuads <= 0 {
		return fmt.Errorf("%w: renderer2d.max_quads must be positive", ErrInvalid)
	}
	if r2.MaxTextureSlots < 2 || r2.MaxTextureSlots > 32 {
		return fmt.Errorf("%w: renderer2d.max_texture_slots must be in [2, 32], got %d", ErrInvalid, r2.MaxTextureSlots)
	}

	r3 := c.Renderer3D
	if r3.MaxVertices <= 0 || r3.MaxIndices <= 0 {
		return fmt.Errorf("%w: renderer3d capacities must be positive", ErrInvalid)
	}
	if r3.SphereSegmentsX < 3 || r3.SphereSegmentsY < 2 {
		return fmt.Errorf("%w: sphere needs at least 3x2 segments", ErrInvalid)
	}
	sphereVerts := (r3.SphereSegmentsX + 1) * (r3.SphereSegmentsY + 1)
	sphereIdx := r3.SphereSegmentsX * r3.SphereSegmentsY * 6
	if sphereVerts > r3.MaxVertices || sphereIdx > r3.MaxIndices {
		return fmt.Errorf("%w: one sphere (%d vertices, %d indices) exceeds renderer3d capacity", ErrInvalid, sphereVerts, sphereIdx)
	}

	ibl := c.IBL
	for name, v := range map[string]int{
		"environment_size": ibl.EnvironmentSize,
		"irradiance_size":  ibl.IrradianceSize,
		"prefilter_size":   ibl.PrefilterSize,
		"brdf_size":        ibl.BRDFSize,
	} {
		if v <= 0 {
			return fmt.Errorf("%w: ibl.%s must be positive", ErrInvalid, name)
		}
	}
	maxMips := bits.Len(uint(ibl.PrefilterSize))
	if ibl.PrefilterMips < 1 || ibl.PrefilterMips > maxMips {
		return fmt.Errorf("%w: ibl.prefilter_mips must be in [1, %d], got %d", ErrInvalid, maxMips, ibl.PrefilterMips)
	}

	if c.Assets.Workers <= 0 {
		return fmt.Errorf("%w: assets.workers must be positive", ErrInvalid)
	}
	return nil
}
