// Package resources owns the textures, PBR texture sets and IBL outputs
// shared by the renderers. A Cache is filled once during startup and is
// read-only afterwards, so lookups take no locks.
package resources

import (
	"fmt"
	"maps"
	"slices"

	"go.uber.org/zap"

	"batch-render/gfx"
	"batch-render/ibl"
	"batch-render/internal/logger"
	"batch-render/materials"
)

type Cache struct {
	log        *zap.Logger
	textures2D map[string]gfx.Texture2D
	cubes      map[string]gfx.TextureCube
	pbr        map[string]materials.PbrMaterialTexture
	presets    map[string]materials.PbrMaterial
}

func NewCache(log *zap.Logger) *Cache {
	return &Cache{
		log:        logger.Or(log).Named("resources"),
		textures2D: make(map[string]gfx.Texture2D),
		cubes:      make(map[string]gfx.TextureCube),
		pbr:        make(map[string]materials.PbrMaterialTexture),
		presets:    make(map[string]materials.PbrMaterial),
	}
}

// ── Registration ─────────────────────────────────────────────────────────────

func (c *Cache) Register2DTexture(name string, t gfx.Texture2D) { c.textures2D[name] = t }

func (c *Cache) RegisterCubeTexture(name string, t gfx.TextureCube) { c.cubes[name] = t }

func (c *Cache) RegisterPbrTexture(name string, m materials.PbrMaterialTexture) { c.pbr[name] = m }

func (c *Cache) RegisterMaterial(name string, m materials.PbrMaterial) { c.presets[name] = m }

// RegisterIBL stores the pipeline outputs under their well-known names.
func (c *Cache) RegisterIBL(set *ibl.Set) {
	c.RegisterCubeTexture(ibl.EnvCubeMapName, set.EnvCubeMap)
	c.RegisterCubeTexture(ibl.IrradianceMapName, set.IrradianceMap)
	c.RegisterCubeTexture(ibl.PrefilterMapName, set.PrefilterMap)
	c.Register2DTexture(ibl.BrdfLUTTextureName, set.BrdfLUT)
}

// ── Lookup ───────────────────────────────────────────────────────────────────

func (c *Cache) Lookup2DTexture(name string) (gfx.Texture2D, bool) {
	t, ok := c.textures2D[name]
	return t, ok
}

func (c *Cache) LookupCubeTexture(name string) (gfx.TextureCube, bool) {
	t, ok := c.cubes[name]
	return t, ok
}

func (c *Cache) LookupPbrTexture(name string) (materials.PbrMaterialTexture, bool) {
	m, ok := c.pbr[name]
	return m, ok
}

func (c *Cache) LookupMaterial(name string) (materials.PbrMaterial, bool) {
	m, ok := c.presets[name]
	return m, ok
}

// Get2DTexture returns nil and logs when name is not cached.
func (c *Cache) Get2DTexture(name string) gfx.Texture2D {
	t, ok := c.textures2D[name]
	if !ok {
		c.log.Error("2D texture not found", zap.String("name", name))
	}
	return t
}

// GetCubeTexture returns nil and logs when name is not cached.
func (c *Cache) GetCubeTexture(name string) gfx.TextureCube {
	t, ok := c.cubes[name]
	if !ok {
		c.log.Error("cube texture not found", zap.String("name", name))
	}
	return t
}

// GetPbrTexture returns an empty, incomplete set and logs when name is not
// cached.
func (c *Cache) GetPbrTexture(name string) materials.PbrMaterialTexture {
	m, ok := c.pbr[name]
	if !ok {
		c.log.Error("PBR texture set not found", zap.String("name", name))
	}
	return m
}

// GetMaterial returns the default material and logs when name is not a
// registered preset.
func (c *Cache) GetMaterial(name string) materials.PbrMaterial {
	m, ok := c.presets[name]
	if !ok {
		c.log.Error("material preset not found", zap.String("name", name))
		return materials.NewPbrMaterial()
	}
	return m
}

// IBL assembles the registered pipeline outputs.
func (c *Cache) IBL() (*ibl.Set, error) {
	set := &ibl.Set{}
	var ok [4]bool
	set.EnvCubeMap, ok[0] = c.LookupCubeTexture(ibl.EnvCubeMapName)
	set.IrradianceMap, ok[1] = c.LookupCubeTexture(ibl.IrradianceMapName)
	set.PrefilterMap, ok[2] = c.LookupCubeTexture(ibl.PrefilterMapName)
	set.BrdfLUT, ok[3] = c.Lookup2DTexture(ibl.BrdfLUTTextureName)
	for i, name := range []string{ibl.EnvCubeMapName, ibl.IrradianceMapName, ibl.PrefilterMapName, ibl.BrdfLUTTextureName} {
		if !ok[i] {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
	}
	return set, nil
}

func (c *Cache) TextureNames() []string { return slices.Sorted(maps.Keys(c.textures2D)) }

func (c *Cache) MaterialNames() []string { return slices.Sorted(maps.Keys(c.pbr)) }

func (c *Cache) PresetNames() []string { return slices.Sorted(maps.Keys(c.presets)) }

// Destroy releases every cached texture. Lookups are invalid afterwards.
func (c *Cache) Destroy() {
	for _, t := range c.textures2D {
		if t != nil {
			t.Destroy()
		}
	}
	for _, t := range c.cubes {
		if t != nil {
			t.Destroy()
		}
	}
	for _, m := range c.pbr {
		for _, t := range m.Maps() {
			if t != nil {
				t.Destroy()
			}
		}
	}
	clear(c.textures2D)
	clear(c.cubes)
	clear(c.pbr)
}
