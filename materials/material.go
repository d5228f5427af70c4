package materials

import (
	"github.com/go-gl/mathgl/mgl32"

	"batch-render/gfx"
)

// PbrMaterial is the analytic metallic-roughness material, used whenever a
// texture set is missing or incomplete.
type PbrMaterial struct {
	Name      string     `yaml:"name,omitempty"`
	Albedo    mgl32.Vec3 `yaml:"albedo"`    // linear base color
	Metallic  float32    `yaml:"metallic"`  // 0 = dielectric, 1 = metal
	Roughness float32    `yaml:"roughness"` // 0 = mirror, 1 = fully rough
	Ao        float32    `yaml:"ao"`        // ambient occlusion multiplier
}

// NewPbrMaterial returns a white, non-metallic, fully rough material.
func NewPbrMaterial() PbrMaterial {
	return PbrMaterial{
		Albedo:    mgl32.Vec3{1, 1, 1},
		Metallic:  0,
		Roughness: 1,
		Ao:        1,
	}
}

// Map indices into a texture set, in file and sampler order.
const (
	AlbedoMap = iota
	NormalMap
	MetallicMap
	RoughnessMap
	AoMap
	MapCount
)

// MapFiles are the fixed file names inside a material directory.
var MapFiles = [MapCount]string{"albedo.png", "normal.png", "metallic.png", "roughness.png", "ao.png"}

// PbrMaterialTexture is a texture-backed material. Any map may be nil.
type PbrMaterialTexture struct {
	Name string
	// Dir is the directory the maps were loaded from.
	Dir string

	AlbedoMap    gfx.Texture2D
	NormalMap    gfx.Texture2D
	MetallicMap  gfx.Texture2D
	RoughnessMap gfx.Texture2D
	AoMap        gfx.Texture2D
}

// IsComplete reports whether all five maps are present. Incomplete sets
// are never blended with the analytic material.
func (m PbrMaterialTexture) IsComplete() bool {
	for _, t := range m.Maps() {
		if t == nil {
			return false
		}
	}
	return true
}

// Maps returns the five maps in AlbedoMap..AoMap order.
func (m PbrMaterialTexture) Maps() [MapCount]gfx.Texture2D {
	return [MapCount]gfx.Texture2D{m.AlbedoMap, m.NormalMap, m.MetallicMap, m.RoughnessMap, m.AoMap}
}

// SetMap assigns the map at index i.
func (m *PbrMaterialTexture) SetMap(i int, t gfx.Texture2D) {
	switch i {
	case AlbedoMap:
		m.AlbedoMap = t
	case NormalMap:
		m.NormalMap = t
	case MetallicMap:
		m.MetallicMap = t
	case RoughnessMap:
		m.RoughnessMap = t
	case AoMap:
		m.AoMap = t
	}
}
