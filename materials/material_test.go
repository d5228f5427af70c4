package materials

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"batch-render/gfx/gfxtest"
)

func TestNewPbrMaterialDefaults(t *testing.T) {
	m := NewPbrMaterial()
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, m.Albedo)
	assert.Equal(t, float32(0), m.Metallic)
	assert.Equal(t, float32(1), m.Roughness)
	assert.Equal(t, float32(1), m.Ao)
}

func TestPbrMaterialTextureIsComplete(t *testing.T) {
	d := gfxtest.NewDevice()
	var m PbrMaterialTexture
	assert.False(t, m.IsComplete())

	for i := 0; i < MapCount-1; i++ {
		m.SetMap(i, gfxtest.NewTexture2D(d, 1, 1))
	}
	if m.IsComplete() {
		t.Errorf("IsComplete: expected false with ao missing, got true")
	}

	m.SetMap(AoMap, gfxtest.NewTexture2D(d, 1, 1))
	assert.True(t, m.IsComplete())

	maps := m.Maps()
	assert.Same(t, m.AlbedoMap, maps[AlbedoMap])
	assert.Same(t, m.AoMap, maps[AoMap])
}

func TestFromGLTF(t *testing.T) {
	doc := &gltf.Document{Materials: []*gltf.Material{
		{
			Name: "gold",
			PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
				BaseColorFactor: &[4]float64{1, 0.75, 0.3, 1},
				MetallicFactor:  gltf.Float(1),
				RoughnessFactor: gltf.Float(0.25),
			},
		},
		{},
	}}

	got := FromGLTF(doc)
	require.Len(t, got, 2)

	gold := got["gold"]
	assert.True(t, gold.Albedo.ApproxEqual(mgl32.Vec3{1, 0.75, 0.3}))
	assert.Equal(t, float32(1), gold.Metallic)
	assert.Equal(t, float32(0.25), gold.Roughness)
	assert.Equal(t, float32(1), gold.Ao)

	unnamed, ok := got["material_1"]
	require.True(t, ok)
	assert.Equal(t, NewPbrMaterial().Albedo, unnamed.Albedo)
}
