package materials

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
)

// LoadGLTF reads the metallic-roughness factors of every material in a
// .gltf or .glb file as analytic presets, keyed by material name. Textures
// referenced by the file are ignored.
func LoadGLTF(path string) (map[string]PbrMaterial, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("gltf open %q: %w", path, err)
	}
	return FromGLTF(doc), nil
}

// FromGLTF converts the materials of an already decoded document. Unnamed
// materials are keyed "material_<index>".
func FromGLTF(doc *gltf.Document) map[string]PbrMaterial {
	out := make(map[string]PbrMaterial, len(doc.Materials))
	for i, gm := range doc.Materials {
		if gm == nil {
			continue
		}
		mat := NewPbrMaterial()
		mat.Name = gm.Name
		if mat.Name == "" {
			mat.Name = fmt.Sprintf("material_%d", i)
		}

		if pbr := gm.PBRMetallicRoughness; pbr != nil {
			cf := pbr.BaseColorFactorOrDefault()
			mat.Albedo = mgl32.Vec3{float32(cf[0]), float32(cf[1]), float32(cf[2])}
			mat.Metallic = float32(pbr.MetallicFactorOrDefault())
			mat.Roughness = float32(pbr.RoughnessFactorOrDefault())
		}
		// occlusion strength scales AO the same way the map would
		if gm.OcclusionTexture != nil {
			mat.Ao = float32(gm.OcclusionTexture.StrengthOrDefault())
		}
		out[mat.Name] = mat
	}
	return out
}
