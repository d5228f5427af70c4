package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 80000, cfg.Renderer2D.MaxVertices())
	assert.Equal(t, 120000, cfg.Renderer2D.MaxIndices())
	assert.Equal(t, []string{"rusted_iron", "gold", "grass", "plastic", "wall"}, cfg.Assets.Materials)
	assert.Equal(t, "materials/presets.gltf", cfg.Assets.MaterialPresets)
}

func TestParseOverlaysDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
renderer2d:
  max_quads: 10
ibl:
  environment_size: 256
assets:
  materials: [gold]
  material_presets: ""
`))
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.Renderer2D.MaxQuads)
	assert.Equal(t, 32, cfg.Renderer2D.MaxTextureSlots)
	assert.Equal(t, 256, cfg.IBL.EnvironmentSize)
	assert.Equal(t, 32, cfg.IBL.IrradianceSize)
	assert.Equal(t, []string{"gold"}, cfg.Assets.Materials)
	assert.Empty(t, cfg.Assets.MaterialPresets)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero quads", func(c *Config) { c.Renderer2D.MaxQuads = 0 }},
		{"too many slots", func(c *Config) { c.Renderer2D.MaxTextureSlots = 33 }},
		{"sphere exceeds indices", func(c *Config) { c.Renderer3D.MaxIndices = 1000 }},
		{"too few segments", func(c *Config) { c.Renderer3D.SphereSegmentsX = 2 }},
		{"prefilter mips", func(c *Config) { c.IBL.PrefilterMips = 9 }},
		{"no brdf", func(c *Config) { c.IBL.BRDFSize = 0 }},
		{"no workers", func(c *Config) { c.Assets.Workers = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalid)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "render.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: debug\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestParseMalformed(t *testing.T) {
	_, err := Parse([]byte("renderer2d: [oops"))
	assert.Error(t, err)
}
