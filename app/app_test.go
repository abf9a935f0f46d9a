package app

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"pbr-viewer/config"
	"pbr-viewer/core"
	"pbr-viewer/internal/softgl"
	"pbr-viewer/render"
	"pbr-viewer/scene"
	"pbr-viewer/shading"
)

func newTestApp(t *testing.T, cfg config.Config, opts ...Option) (*App, *softgl.Device) {
	t.Helper()
	dev := softgl.New(48, 36)
	ctx := render.NewContext(dev)
	ctx.ResetViewport(48, 36)

	opts = append([]Option{WithGeometry(scene.CreateSphere(1, 16, 8))}, opts...)
	a := New(ctx, cfg, opts...)
	t.Cleanup(a.Close)
	if err := a.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	return a, dev
}

func writeImage(t *testing.T, path string, w, h int, c color.NRGBA) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func TestBRDFWithoutLightIsBlack(t *testing.T) {
	cfg := config.Default()
	cfg.Settings.SelectLighting(shading.LightingBRDF)
	for i := range cfg.Settings.Lights {
		cfg.Settings.Lights[i].Intensity = 0
	}
	a, dev := newTestApp(t, cfg)

	a.Render()

	covered := 0
	for y := 0; y < 36; y++ {
		for x := 0; x < 48; x++ {
			c, ok := dev.Pixel(x, y)
			if !ok {
				continue
			}
			covered++
			if c.X != 0 || c.Y != 0 || c.Z != 0 {
				t.Fatalf("pixel (%d,%d) = %+v, want black", x, y, c)
			}
		}
	}
	if covered == 0 {
		t.Fatal("no sphere pixels drawn")
	}
}

func TestBRDFLitCenter(t *testing.T) {
	cfg := config.Default()
	cfg.Settings.SelectLighting(shading.LightingBRDF)
	a, dev := newTestApp(t, cfg)

	a.Render()

	c, ok := dev.Pixel(24, 18)
	if !ok {
		t.Fatal("center sphere not drawn")
	}
	if !c.IsFinite() || c.X+c.Y+c.Z <= 0 {
		t.Errorf("center = %+v, want lit", c)
	}
	if got := a.Uniforms()["uMode.mode"]; got != render.Int(0) {
		t.Errorf("uMode.mode = %v", got)
	}
	if got := a.Uniforms()[render.LightKey(3, "intensity")]; got != render.Float(0.5) {
		t.Errorf("light 3 intensity = %v", got)
	}
}

func TestIBLWithEnvironment(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	writeImage(t, filepath.Join(dir, config.DefaultDiffuseMap), 16, 8, color.NRGBA{R: 128, G: 128, B: 128, A: 64})
	writeImage(t, filepath.Join(dir, config.DefaultSpecularMap), 32, 32, color.NRGBA{R: 200, G: 180, B: 160, A: 32})
	writeImage(t, filepath.Join(dir, config.DefaultBRDFLUT), 8, 8, color.NRGBA{R: 200, G: 20, A: 255})
	if err := cfg.Resolve(config.Flags{AssetDir: dir}); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	a, dev := newTestApp(t, cfg)

	a.Render()
	if _, ok := a.Uniforms()[UniformDiffuse]; ok {
		t.Fatal("textures bound before loading finished")
	}
	center, _ := dev.Pixel(24, 18)
	if center.X != 0 || center.Y != 0 || center.Z != 0 {
		t.Errorf("IBL without maps = %+v, want black", center)
	}

	a.WaitForAssets()
	a.Render()
	for _, name := range []string{UniformDiffuse, UniformSpecular, UniformBRDFLUT} {
		if _, ok := a.Uniforms()[name].(render.TextureRef); !ok {
			t.Errorf("%s not bound", name)
		}
	}

	center, ok := dev.Pixel(24, 18)
	if !ok {
		t.Fatal("center sphere not drawn")
	}
	if !center.IsFinite() || center.X <= 0 {
		t.Errorf("IBL center = %+v, want lit", center)
	}
	if a.Uniforms()["uMode.mode"] != render.Int(1) || a.Uniforms()["uMode.tone"] != render.Int(0) {
		t.Errorf("modes = %v/%v", a.Uniforms()["uMode.mode"], a.Uniforms()["uMode.tone"])
	}
}

func writeEnvironment(t *testing.T, cfg *config.Config) {
	t.Helper()
	dir := t.TempDir()
	writeImage(t, filepath.Join(dir, config.DefaultDiffuseMap), 16, 8, color.NRGBA{R: 128, G: 128, B: 128, A: 64})
	writeImage(t, filepath.Join(dir, config.DefaultSpecularMap), 32, 32, color.NRGBA{R: 200, G: 180, B: 160, A: 32})
	writeImage(t, filepath.Join(dir, config.DefaultBRDFLUT), 8, 8, color.NRGBA{R: 200, G: 20, A: 255})
	if err := cfg.Resolve(config.Flags{AssetDir: dir}); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
}

func TestSwitchBRDFToIBL(t *testing.T) {
	cfg := config.Default()
	cfg.Settings.SelectLighting(shading.LightingBRDF)
	writeEnvironment(t, &cfg)
	store := config.NewStore(cfg.Settings)
	a, dev := newTestApp(t, cfg, WithSettings(store))
	a.WaitForAssets()

	a.Render()
	brdf, _ := dev.Pixel(24, 18)

	a.HandleEvent(core.Event{Kind: core.EventKeyDown, Key: core.KeyI})
	a.Render()
	if a.Uniforms()["uMode.mode"] != render.Int(1) {
		t.Fatalf("uMode.mode = %v after I", a.Uniforms()["uMode.mode"])
	}
	for _, name := range []string{UniformDiffuse, UniformSpecular, UniformBRDFLUT} {
		if _, ok := a.Uniforms()[name].(render.TextureRef); !ok {
			t.Fatalf("%s not bound", name)
		}
	}

	covered := 0
	for y := 0; y < 36; y++ {
		for x := 0; x < 48; x++ {
			c, ok := dev.Pixel(x, y)
			if !ok {
				continue
			}
			covered++
			if !c.IsFinite() {
				t.Fatalf("pixel (%d,%d) = %+v, not finite", x, y, c)
			}
		}
	}
	if covered == 0 {
		t.Fatal("no sphere pixels drawn")
	}
	if ibl, _ := dev.Pixel(24, 18); ibl == brdf || ibl.X <= 0 {
		t.Errorf("IBL center = %+v, BRDF center = %+v", ibl, brdf)
	}
}

func TestUniformsRebuiltEachFrame(t *testing.T) {
	a, _ := newTestApp(t, config.Default())
	a.Render()
	first := a.Uniforms()
	first["stale"] = render.Float(1)
	a.Render()
	if _, ok := a.Uniforms()["stale"]; ok {
		t.Error("uniform table carried over from the previous frame")
	}
}

func TestMissingAssetsAreNotFatal(t *testing.T) {
	cfg := config.Default()
	if err := cfg.Resolve(config.Flags{AssetDir: t.TempDir()}); err != nil {
		t.Fatal(err)
	}
	a, _ := newTestApp(t, cfg)
	a.WaitForAssets()
	a.Render()
	if _, ok := a.Uniforms()[UniformSpecular]; ok {
		t.Error("missing texture bound")
	}
}

func TestFrustumCulling(t *testing.T) {
	a, _ := newTestApp(t, config.Default())
	a.Render()
	if a.DrawnCells() != 25 {
		t.Errorf("drawn = %d, want the whole grid", a.DrawnCells())
	}

	for i := 0; i < 30; i++ {
		a.HandleEvent(core.Event{Kind: core.EventKeyDown, Key: core.KeyUp})
	}
	a.Render()
	if n := a.DrawnCells(); n == 0 || n >= 25 {
		t.Errorf("drawn = %d after zooming in", n)
	}
}

func TestResize(t *testing.T) {
	a, dev := newTestApp(t, config.Default())
	a.Resize(800, 600, 2)
	if vp := a.Context().Viewport(); vp.Width != 1600 || vp.Height != 1200 {
		t.Errorf("viewport = %+v, want 1600x1200", vp)
	}
	if w, h := dev.Size(); w != 1600 || h != 1200 {
		t.Errorf("device size = %dx%d", w, h)
	}

	a.HandleEvent(core.Event{Kind: core.EventResize, Width: 40, Height: 20})
	if a.Context().AspectRatio() != 2 {
		t.Errorf("aspect = %v, want 2", a.Context().AspectRatio())
	}
}

func TestHotkeys(t *testing.T) {
	store := config.NewStore(config.DefaultSettings())
	shots := 0
	a, _ := newTestApp(t, config.Default(), WithSettings(store), WithScreenshot(func() { shots++ }))

	for _, k := range []core.Key{core.KeyB, core.KeyR} {
		if !a.HandleEvent(core.Event{Kind: core.EventKeyDown, Key: k}) {
			t.Errorf("key %d not handled", k)
		}
	}
	s := store.Snapshot()
	if s.Lighting() != shading.LightingBRDF || s.ToneMapping() != shading.ToneReinhard {
		t.Errorf("settings = %+v", s)
	}
	if s.IBL || s.ACES {
		t.Error("radio pair not exclusive")
	}

	a.HandleEvent(core.Event{Kind: core.EventKeyDown, Key: core.KeyP})
	a.Render()
	a.Render()
	if shots != 1 {
		t.Errorf("screenshots = %d, want 1", shots)
	}
	if a.Uniforms()["uMode.tone"] != render.Int(1) {
		t.Errorf("uMode.tone = %v", a.Uniforms()["uMode.tone"])
	}

	a.HandleEvent(core.Event{Kind: core.EventKeyDown, Key: core.KeyI})
	a.HandleEvent(core.Event{Kind: core.EventKeyDown, Key: core.KeyA})
	if s := store.Snapshot(); s.Lighting() != shading.LightingIBL || s.ToneMapping() != shading.ToneACES {
		t.Errorf("settings = %+v", s)
	}
}

type fixedSource struct{ s config.Settings }

func (f fixedSource) Snapshot() config.Settings { return f.s }

func TestHotkeysNeedUpdatableSource(t *testing.T) {
	a, _ := newTestApp(t, config.Default(), WithSettings(fixedSource{config.DefaultSettings()}))
	if a.HandleEvent(core.Event{Kind: core.EventKeyDown, Key: core.KeyB}) {
		t.Error("B handled by read-only source")
	}
}

func TestCameraEvents(t *testing.T) {
	a, _ := newTestApp(t, config.Default())
	cam := a.Camera()
	if cam.Radius() != CameraRadius {
		t.Fatalf("radius = %v", cam.Radius())
	}

	a.HandleEvent(core.Event{Kind: core.EventPointerDown, X: 10, Y: 10})
	a.HandleEvent(core.Event{Kind: core.EventPointerMove, X: 110, Y: 10})
	a.HandleEvent(core.Event{Kind: core.EventPointerLeave})
	if cam.State() != scene.CameraIdle {
		t.Errorf("state = %v after leave", cam.State())
	}
	if cam.Azimuth() == 0 {
		t.Error("drag did not rotate")
	}

	a.HandleEvent(core.Event{Kind: core.EventKeyDown, Key: core.KeyW})
	if cam.Radius() >= CameraRadius {
		t.Errorf("radius = %v after zoom in", cam.Radius())
	}

	a.Render()
	want := render.Vec3(cam.Position())
	if a.Uniforms()["uCameraFrag.position"] != want || a.Uniforms()["uCamera.position"] != want {
		t.Error("camera position uniforms out of date")
	}
}

func TestInitErrors(t *testing.T) {
	cfg := config.Default()
	cfg.Mesh = filepath.Join(t.TempDir(), "missing.glb")
	a := New(render.NewContext(softgl.New(4, 4)), cfg)
	t.Cleanup(a.Close)
	if err := a.Init(); err == nil {
		t.Error("missing mesh: expected error")
	}

	b := New(render.NewContext(softgl.New(4, 4)), config.Default(), WithGeometry(&scene.Geometry{}))
	t.Cleanup(b.Close)
	if err := b.Init(); err == nil {
		t.Error("empty geometry: expected error")
	}
}
