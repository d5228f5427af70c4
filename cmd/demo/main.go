// Command demo opens a window and renders a PBR sphere showcase with the
// batch renderers: an editor orbit camera, image based lighting, point
// lights, a day/night sun, a ground grid and a 2D overlay.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image/color"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"batch-render/camera"
	"batch-render/config"
	"batch-render/core"
	"batch-render/editor"
	"batch-render/gfx"
	"batch-render/internal/logger"
	"batch-render/renderer"
	"batch-render/resources"
	"batch-render/scene"
)

func main() {
	configPath := flag.String("config", "", "YAML run configuration (defaults when empty)")
	scenePath := flag.String("scene", "scene.yaml", "scene file written by F5 and read by F9")
	flag.Parse()

	if err := run(*configPath, *scenePath); err != nil {
		logger.Log.Error("demo failed", zap.Error(err))
		logger.Sync()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger.Sync()
}

func run(configPath, scenePath string) error {
	cfg := config.Default()
	if configPath != "" {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			return err
		}
	}
	if err := logger.Init(cfg.Log.Level, cfg.Log.Development); err != nil {
		return err
	}
	log := logger.Log.Named("demo")

	window, err := core.NewWindow(cfg.Window)
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}
	defer window.Destroy()

	device, err := renderer.NewDevice(gfx.APIOpenGL, logger.Log)
	if err != nil {
		return fmt.Errorf("create device: %w", err)
	}
	engine, err := renderer.New(context.Background(), device, cfg, logger.Log)
	if err != nil {
		return fmt.Errorf("create render engine: %w", err)
	}
	defer engine.Destroy()

	// ── Scene setup ───────────────────────────────────────────────────────────

	checker := resources.CheckerImage(256, color.RGBA{200, 200, 200, 255}, color.RGBA{90, 90, 90, 255})
	if _, err := engine.Cache.EnsureTexture(device, "Checkerboard", checker); err != nil {
		log.Warn("checkerboard fallback failed", zap.Error(err))
	}
	show := NewShowcase(engine.Cache)

	width, height := window.GetFramebufferSize()
	editorCam := camera.NewEditorCamera(45, float32(width)/float32(max(height, 1)), 0.1, 1000)
	editorCam.Distance = 30
	overlay := camera.NewOrthographicCamera(0, float32(width), 0, float32(height))

	resize := func(w, h int) {
		if w == 0 || h == 0 {
			return
		}
		engine.Resize(w, h)
		editorCam.SetViewportSize(float32(w), float32(h))
		overlay.SetProjection(0, float32(w), 0, float32(h))
		show.Scene.OnViewportResize(uint32(w), uint32(h))
	}
	resize(width, height)
	window.OnResize(resize)

	ed := editor.New(window, show.Scene, editorCam)
	window.SetScrollCallback(ed.Input.OnScroll)
	dayNight := NewDayNight()
	title := NewTitleStats(cfg.Window.Title)

	runtime := false
	in := ed.Input

	log.Info("scene ready",
		zap.Int("entities", len(show.Scene.Entities())),
		zap.Int("point_lights", len(show.Lights)),
	)

	// ── Frame loop ────────────────────────────────────────────────────────────

	last := window.Time()
	for !window.ShouldClose() {
		now := window.Time()
		dt := now - last
		last = now

		w, h := engine.Size()
		ed.Update(w, h)

		if in.IsKeyDown(core.KeyEscape) {
			window.Close()
		}
		if in.IsKeyPressed(core.KeyTab) {
			runtime = !runtime
			log.Info("view mode", zap.Bool("runtime", runtime))
		}
		if in.IsKeyPressed(core.KeyP) {
			dayNight.Active = !dayNight.Active
		}
		if in.IsKeyPressed(core.KeyF5) {
			if err := scene.NewSerializer(show.Scene, engine.Cache).Serialize(scenePath); err != nil {
				log.Error("scene save failed", zap.String("path", scenePath), zap.Error(err))
			} else {
				log.Info("scene saved", zap.String("path", scenePath))
			}
		}
		if in.IsKeyPressed(core.KeyF9) {
			if loaded := loadScene(log, engine, scenePath); loaded != nil {
				show.Rebind(loaded)
				ed.SetScene(loaded)
				loaded.OnViewportResize(uint32(w), uint32(h))
			}
		}

		dayNight.Update(float32(dt))
		if show.Sun != nil {
			dayNight.Apply(show.Sun.DirectionalLight)
		}
		show.Animate(float32(now))

		engine.ResetStats()
		engine.BeginFrame(dayNight.ClearColor())

		if runtime {
			show.Scene.OnUpdateRuntime(engine.Renderer2D, engine.Renderer3D)
		} else {
			show.Scene.OnUpdateEditor(engine.Renderer2D, engine.Renderer3D, editorCam)
			if ed.Selection.HasSelection() {
				engine.Renderer3D.BeginScene(editorCam)
				ed.DrawSelection(engine.Renderer3D)
				engine.Renderer3D.EndScene()
			}
		}
		drawOverlay(engine, overlay, dayNight)

		if text, ok := title.Frame(dt, engine.Stats()); ok {
			window.SetTitle(text)
		}
		window.SwapBuffers()
		window.PollEvents()
	}
	return nil
}

// loadScene reads path into a fresh scene, resolving textures through the
// engine cache. It returns nil when nothing could be loaded.
func loadScene(log *zap.Logger, engine *renderer.RenderEngine, path string) *scene.Scene {
	s := scene.New()
	err := scene.NewSerializer(s, engine.Cache).Deserialize(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		log.Warn("no saved scene", zap.String("path", path))
		return nil
	case err != nil:
		log.Error("scene load failed", zap.String("path", path), zap.Error(err))
		return nil
	}
	log.Info("scene loaded", zap.String("path", path), zap.Int("entities", len(s.Entities())))
	return s
}

// drawOverlay draws a screen-space panel: the day/night position as a
// bar and the loaded logo texture.
func drawOverlay(engine *renderer.RenderEngine, overlay *camera.OrthographicCamera, dn *DayNight) {
	r2 := engine.Renderer2D
	r2.BeginScene(overlay)

	const x, y, w, h = 20, 20, 200, 12
	r2.DrawQuad(mgl32.Vec3{x + w/2, y + h/2, 0}, mgl32.Vec2{w, h}, mgl32.Vec4{0.1, 0.1, 0.1, 0.8})
	r2.DrawQuad(mgl32.Vec3{x + w*dn.Time/2, y + h/2, 0.1}, mgl32.Vec2{w * dn.Time, h}, core.ColorYellow)
	r2.DrawRect(mgl32.Vec3{x + w/2, y + h/2, 0.2}, mgl32.Vec2{w, h}, core.ColorWhite, -1)

	if logo, ok := engine.Cache.Lookup2DTexture("ChernoLogo"); ok && logo != nil {
		r2.DrawTexturedQuad(mgl32.Vec3{x + 32, y + h + 48, 0}, mgl32.Vec2{64, 64}, logo, 1, core.ColorWhite)
	}
	r2.EndScene()
}
