package main

import (
	"maps"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"batch-render/gfx"
	"batch-render/materials"
	"batch-render/renderer"
	"batch-render/renderer2d"
	"batch-render/renderer3d"
	"batch-render/scene"
)

func TestSampleSunHitsKeys(t *testing.T) {
	for _, k := range sunKeys {
		got := sampleSun(k.t)
		if !got.color.ApproxEqual(k.color) {
			t.Errorf("t=%v color: expected %v, got %v", k.t, k.color, got.color)
		}
	}
}

func TestSampleSunWraps(t *testing.T) {
	// halfway between dawn (0.78) and noon (1.0)
	got := sampleSun(0.89)
	last, first := sunKeys[len(sunKeys)-1], sunKeys[0]
	assert.InDelta(t, (last.intensity+first.intensity)/2, got.intensity, 1e-4)
}

func TestDayNightUpdateWraps(t *testing.T) {
	dn := NewDayNight()
	dn.Speed = 10
	dn.Update(25)
	assert.InDelta(t, 0.5, dn.Time, 1e-5)

	dn.Active = false
	dn.Update(5)
	assert.InDelta(t, 0.5, dn.Time, 1e-5)
}

func TestSunDirection(t *testing.T) {
	dawn, dusk := sunDirection(0), sunDirection(0.5)
	assert.InDeltaSlice(t, []float32{0, -1, 0}, dawn[:], 1e-5)
	assert.InDeltaSlice(t, []float32{0, 1, 0}, dusk[:], 1e-5)
}

func TestDayNightApply(t *testing.T) {
	dn := NewDayNight()
	light := scene.NewDirectionalLight()
	dn.Apply(light)
	assert.True(t, light.Color.ApproxEqual(sunKeys[0].color.Mul(sunKeys[0].intensity*dn.Strength)))
}

func TestTitleStatsOncePerInterval(t *testing.T) {
	ts := NewTitleStats("demo")
	s := renderer.Stats{
		Renderer2D: renderer2d.Statistics{DrawCalls: 2, QuadCount: 10},
		Renderer3D: renderer3d.Statistics{DrawCalls: 3, SphereCount: 3},
	}

	_, ok := ts.Frame(0.5, s)
	assert.False(t, ok)
	text, ok := ts.Frame(0.5, s)
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(text, "demo | 2 fps"), text)
	assert.Contains(t, text, "draws 5 | quads 10 | spheres 3")
}

type fakeTextures struct {
	names   []string
	presets map[string]materials.PbrMaterial
}

func (f fakeTextures) Lookup2DTexture(string) (gfx.Texture2D, bool) { return nil, false }
func (f fakeTextures) LookupPbrTexture(name string) (materials.PbrMaterialTexture, bool) {
	return materials.PbrMaterialTexture{Name: name}, true
}
func (f fakeTextures) MaterialNames() []string { return f.names }
func (f fakeTextures) PresetNames() []string {
	return slices.Sorted(maps.Keys(f.presets))
}
func (f fakeTextures) LookupMaterial(name string) (materials.PbrMaterial, bool) {
	m, ok := f.presets[name]
	return m, ok
}

func TestShowcaseEntities(t *testing.T) {
	show := NewShowcase(fakeTextures{names: []string{"gold", "wall"}})

	spheres := 0
	for _, e := range show.Scene.Entities() {
		if e.Sphere != nil {
			spheres++
		}
	}
	assert.Equal(t, gridRows*gridCols+2, spheres)

	show = NewShowcase(fakeTextures{presets: map[string]materials.PbrMaterial{
		"chrome": {Name: "chrome", Metallic: 1, Roughness: 0.1},
	}})
	var preset *scene.Entity
	for _, e := range show.Scene.Entities() {
		if e.Tag == "Preset chrome" {
			preset = e
		}
	}
	require.NotNil(t, preset)
	assert.Equal(t, float32(1), preset.Sphere.Material.Metallic)
	assert.Nil(t, preset.Sphere.Texture.AlbedoMap)
	assert.Len(t, show.Lights, 4)
	require.NotNil(t, show.Scene.PrimaryCamera())

	lp := show.Scene.GetLightParams()
	assert.Equal(t, 4, lp.PointLightCount())

	before := show.Lights[0].Transform.Translation
	show.Animate(1)
	assert.NotEqual(t, before, show.Lights[0].Transform.Translation)
}

func TestShowcaseRebind(t *testing.T) {
	show := NewShowcase(fakeTextures{})
	s := scene.New()
	sun := s.CreateEntity("Sun")
	sun.DirectionalLight = scene.NewDirectionalLight()

	show.Rebind(s)
	assert.Same(t, sun, show.Sun)
	assert.Empty(t, show.Lights)
	assert.Nil(t, show.Logo)
	show.Animate(1)
}
