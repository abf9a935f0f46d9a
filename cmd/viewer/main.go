package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"pbr-viewer/app"
	"pbr-viewer/config"
	"pbr-viewer/core"
	"pbr-viewer/internal/opengl"
	"pbr-viewer/internal/softgl"
	"pbr-viewer/internal/window"
	"pbr-viewer/render"
)

func main() {
	configFile := flag.String("config", "", "Path to a YAML config file")
	writeConfig := flag.String("write-config", "", "Write the resolved configuration to this path and exit")
	width := flag.Int("width", 0, "Window or image width (default 800)")
	height := flag.Int("height", 0, "Window or image height (default 600)")
	assetDir := flag.String("assets", "", "Directory holding the environment maps (default assets)")
	mesh := flag.String("mesh", "", "glTF or OBJ model drawn instead of the sphere")
	lighting := flag.String("lighting", "", "Lighting mode: brdf or ibl")
	tone := flag.String("tone", "", "Tone mapping: aces or reinhard")
	headless := flag.Bool("headless", false, "Render one frame in software and exit")
	out := flag.String("out", "frame.png", "Headless output image (.png or .webp)")
	verbose := flag.Bool("v", false, "Enable debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	render.SetLogger(logger)

	cfg := config.Default()
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fatal(logger, "loading config", err)
		}
	}
	if err := cfg.Resolve(config.Flags{
		Width:    *width,
		Height:   *height,
		AssetDir: *assetDir,
		Mesh:     *mesh,
		Lighting: *lighting,
		Tone:     *tone,
	}); err != nil {
		fatal(logger, "resolving config", err)
	}

	if *writeConfig != "" {
		if err := config.Save(*writeConfig, cfg); err != nil {
			fatal(logger, "writing config", err)
		}
		return
	}

	var err error
	if *headless {
		err = runHeadless(cfg, *out)
	} else {
		err = runWindow(cfg, logger)
	}
	if err != nil {
		fatal(logger, "viewer", err)
	}
}

func fatal(logger *slog.Logger, msg string, err error) {
	logger.Error(msg, slog.Any("err", err))
	os.Exit(1)
}

func runHeadless(cfg config.Config, out string) error {
	dev := softgl.New(cfg.Width, cfg.Height)
	ctx := render.NewContext(dev)
	ctx.ResetViewport(cfg.Width, cfg.Height)

	a := app.New(ctx, cfg, app.WithProgress(os.Stderr))
	defer a.Close()
	if err := a.Init(); err != nil {
		return err
	}
	a.WaitForAssets()

	start := time.Now()
	a.Render()
	render.Logger().Info("frame rendered", slog.Duration("elapsed", time.Since(start)), slog.String("out", out))
	return saveImage(out, dev.Image())
}

func runWindow(cfg config.Config, logger *slog.Logger) error {
	wcfg := window.DefaultConfig()
	wcfg.Width, wcfg.Height = cfg.Width, cfg.Height
	win, err := window.New(wcfg)
	if err != nil {
		return err
	}
	defer win.Destroy()

	dev, err := opengl.New()
	if err != nil {
		return err
	}
	defer dev.Release()
	ctx := render.NewContext(dev)

	shots := 0
	a := app.New(ctx, cfg, app.WithScreenshot(func() {
		shots++
		w, h := win.FramebufferSize()
		path := fmt.Sprintf("screenshot-%03d.png", shots)
		if err := saveImage(path, dev.ReadPixels(w, h)); err != nil {
			logger.Warn("screenshot failed", slog.Any("err", err))
			return
		}
		logger.Info("screenshot saved", slog.String("path", path))
	}))
	defer a.Close()
	if err := a.Init(); err != nil {
		return err
	}
	fbw, fbh := win.FramebufferSize()
	ctx.ResetViewport(fbw, fbh)

	for !win.ShouldClose() {
		for _, e := range win.PollEvents() {
			if e.Kind == core.EventKeyDown && e.Key == core.KeyEscape {
				win.SetShouldClose(true)
				continue
			}
			a.HandleEvent(e)
		}
		a.Update()
		a.Render()
		win.SwapBuffers()
	}
	return nil
}
