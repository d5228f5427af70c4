package resources

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"batch-render/config"
	"batch-render/gfx"
	"batch-render/materials"
)

// Asset paths relative to config.Assets.Root.
func MaterialDir(root, name string) string { return filepath.Join(root, "textures", "pbr", name) }
func TexturePath(root, name string) string { return filepath.Join(root, "textures", name+".png") }
func HDRPath(root, name string) string     { return filepath.Join(root, "textures", "hdr", name+".hdr") }
func PresetPath(root, file string) string  { return filepath.Join(root, file) }

type decodedMaterial struct {
	name   string
	dir    string
	images [materials.MapCount]*Image
}

type decodedTexture struct {
	name  string
	image *Image
}

// Load decodes every configured asset in parallel, then uploads and
// registers them on the calling goroutine, which must own the GPU context.
//
// A file that fails to decode is logged and leaves its entry empty; the
// other loads carry on. Only ctx cancellation aborts Load.
func Load(ctx context.Context, device gfx.Factory, cfg config.Assets, log *zap.Logger) (*Cache, error) {
	c := NewCache(log)
	workers := max(cfg.Workers, 1)
	sem := semaphore.NewWeighted(int64(workers))

	decode := func(path string) *Image {
		if err := sem.Acquire(ctx, 1); err != nil {
			return nil
		}
		defer sem.Release(1)
		img, err := LoadImage(path)
		if err != nil {
			c.log.Error("image decode failed", zap.String("path", path), zap.Error(err))
			return nil
		}
		return img
	}

	// ── Decode ──────────────────────────────────────────────────────────────

	// one task per material, joined below
	mats := make([]decodedMaterial, len(cfg.Materials))
	g, gctx := errgroup.WithContext(ctx)
	for i, name := range cfg.Materials {
		g.Go(func() error {
			m := decodedMaterial{name: name, dir: MaterialDir(cfg.Root, name)}
			for j, file := range materials.MapFiles {
				if err := gctx.Err(); err != nil {
					return err
				}
				m.images[j] = decode(filepath.Join(m.dir, file))
			}
			mats[i] = m
			return nil
		})
	}

	// presets are parsed alongside the materials and registered after the join
	var presets map[string]materials.PbrMaterial
	if cfg.MaterialPresets != "" {
		g.Go(func() error {
			path := PresetPath(cfg.Root, cfg.MaterialPresets)
			var err error
			presets, err = materials.LoadGLTF(path)
			switch {
			case errors.Is(err, fs.ErrNotExist):
				c.log.Warn("no material presets", zap.String("path", path))
			case err != nil:
				c.log.Error("material presets load failed", zap.String("path", path), zap.Error(err))
			}
			return nil
		})
	}

	// standalone textures go through the worker pool
	var singles []decodedTexture
	var paths []string
	for _, name := range cfg.Textures {
		singles = append(singles, decodedTexture{name: name})
		paths = append(paths, TexturePath(cfg.Root, name))
	}
	for _, name := range cfg.HDRTextures {
		singles = append(singles, decodedTexture{name: name})
		paths = append(paths, HDRPath(cfg.Root, name))
	}

	pool := worker.NewDynamicWorkerPool(workers, 256, 1*time.Second)
	defer pool.Stop()
	var wg sync.WaitGroup
	for i := range singles {
		wg.Add(1)
		pool.SubmitTask(worker.Task{
			ID: i,
			Do: func() (any, error) {
				defer wg.Done()
				singles[i].image = decode(paths[i])
				return nil, nil
			},
		})
	}

	matErr := g.Wait()
	wg.Wait()
	if matErr != nil {
		return nil, matErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// ── Upload and register ─────────────────────────────────────────────────

	for i := range mats {
		m := &mats[i]
		set := materials.PbrMaterialTexture{Name: m.name, Dir: m.dir}
		for j, img := range m.images {
			if img == nil {
				continue
			}
			tex, err := img.Upload(device)
			if err != nil {
				c.log.Error("texture upload failed", zap.String("material", m.name),
					zap.String("map", materials.MapFiles[j]), zap.Error(err))
			} else {
				set.SetMap(j, tex)
			}
			m.images[j] = nil
		}
		if !set.IsComplete() {
			c.log.Warn("PBR texture set incomplete", zap.String("material", m.name))
		}
		c.RegisterPbrTexture(m.name, set)
	}

	for name, m := range presets {
		c.RegisterMaterial(name, m)
	}

	for i := range singles {
		s := &singles[i]
		if s.image == nil {
			c.Register2DTexture(s.name, nil)
			continue
		}
		tex, err := s.image.Upload(device)
		s.image = nil
		if err != nil {
			c.log.Error("texture upload failed", zap.String("texture", s.name), zap.Error(err))
		}
		c.Register2DTexture(s.name, tex)
	}

	c.log.Info("assets loaded",
		zap.Int("materials", len(mats)),
		zap.Int("presets", len(presets)),
		zap.Int("textures", len(singles)))
	return c, nil
}
