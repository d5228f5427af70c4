// Package renderer wires the resource cache, the IBL pipeline and both batch
// renderers onto one gfx.Device.
package renderer

import (
	"context"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"batch-render/config"
	"batch-render/gfx"
	"batch-render/ibl"
	"batch-render/internal/logger"
	"batch-render/internal/opengl"
	"batch-render/renderer2d"
	"batch-render/renderer3d"
	"batch-render/resources"
)

// NewDevice creates the backend for api. Any API other than OpenGL is a
// programming error and panics.
func NewDevice(api gfx.API, log *zap.Logger) (gfx.Device, error) {
	switch api {
	case gfx.APIOpenGL:
		return opengl.NewDevice(log)
	}
	panic(fmt.Sprintf("renderer: unsupported graphics API %s", api))
}

// Stats is the per-frame statistics of both batch renderers.
type Stats struct {
	Renderer2D renderer2d.Statistics
	Renderer3D renderer3d.Statistics
}

// DrawCalls is the total over both renderers.
func (s Stats) DrawCalls() int { return s.Renderer2D.DrawCalls + s.Renderer3D.DrawCalls }

// RenderEngine owns everything built on the device. Build it with New after
// the GPU context is current and use it from that goroutine only.
type RenderEngine struct {
	device gfx.Device
	log    *zap.Logger

	Cache      *resources.Cache
	IBL        *ibl.Set
	Renderer2D *renderer2d.Renderer
	Renderer3D *renderer3d.Renderer

	width, height int
}

// New preloads assets, runs the IBL precompute on the configured HDR and
// creates the 2D and 3D renderers, in that order. A missing HDR texture
// disables image based lighting; every other failure is returned.
func New(ctx context.Context, device gfx.Device, cfg config.Config, log *zap.Logger) (*RenderEngine, error) {
	log = logger.Or(log).Named("renderer")
	e := &RenderEngine{device: device, log: log}

	cache, err := resources.Load(ctx, device, cfg.Assets, log)
	if err != nil {
		return nil, fmt.Errorf("preload assets: %w", err)
	}
	e.Cache = cache

	if hdr, ok := cache.Lookup2DTexture(cfg.IBL.HDRTexture); ok && hdr != nil {
		set, err := ibl.Precompute(device, hdr, cfg.IBL, log)
		if err != nil {
			e.Destroy()
			return nil, fmt.Errorf("IBL precompute: %w", err)
		}
		cache.RegisterIBL(set)
		e.IBL = set
	} else {
		log.Warn("HDR environment missing, image based lighting disabled",
			zap.String("texture", cfg.IBL.HDRTexture))
	}

	e.Renderer2D, err = renderer2d.New(device, cfg.Renderer2D, log)
	if err != nil {
		e.Destroy()
		return nil, fmt.Errorf("renderer2d: %w", err)
	}
	e.Renderer3D, err = renderer3d.New(device, cfg.Renderer3D, e.IBL, log)
	if err != nil {
		e.Destroy()
		return nil, fmt.Errorf("renderer3d: %w", err)
	}

	e.Resize(cfg.Window.Width, cfg.Window.Height)
	log.Info("render engine initialized",
		zap.Stringer("api", device.API()),
		zap.Bool("ibl", e.IBL != nil),
		zap.Strings("textures", cache.TextureNames()),
		zap.Strings("materials", cache.MaterialNames()),
	)
	return e, nil
}

func (e *RenderEngine) Device() gfx.Device { return e.device }

// Resize sets the viewport. Zero sizes (a minimised window) are ignored.
func (e *RenderEngine) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	e.width, e.height = width, height
	e.device.SetViewport(0, 0, width, height)
}

func (e *RenderEngine) Size() (int, int) { return e.width, e.height }

// BeginFrame rebinds the default viewport and clears it.
func (e *RenderEngine) BeginFrame(clear mgl32.Vec4) {
	e.device.SetViewport(0, 0, e.width, e.height)
	e.device.SetClearColor(clear)
	e.device.Clear()
}

func (e *RenderEngine) Stats() Stats {
	return Stats{Renderer2D: e.Renderer2D.Stats(), Renderer3D: e.Renderer3D.Stats()}
}

func (e *RenderEngine) ResetStats() {
	e.Renderer2D.ResetStats()
	e.Renderer3D.ResetStats()
}

// Destroy releases the renderers and every cached texture, IBL maps included.
func (e *RenderEngine) Destroy() {
	if e.Renderer3D != nil {
		e.Renderer3D.Destroy()
		e.Renderer3D = nil
	}
	if e.Renderer2D != nil {
		e.Renderer2D.Destroy()
		e.Renderer2D = nil
	}
	if e.Cache != nil {
		e.Cache.Destroy()
		e.Cache = nil
	} else if e.IBL != nil {
		e.IBL.Destroy()
	}
	e.IBL = nil
}
