// Package app is the sphere-grid viewer: it owns the render context, the
// camera and the lights, and turns the current settings into one draw per
// grid cell every frame.
package app

import (
	"fmt"
	"io"
	"log/slog"
	"maps"

	"pbr-viewer/assets"
	"pbr-viewer/config"
	"pbr-viewer/core"
	"pbr-viewer/math"
	"pbr-viewer/render"
	"pbr-viewer/scene"
	"pbr-viewer/shading"
)

// Uniform names of the environment textures. They double as loader keys.
const (
	UniformDiffuse  = "uTextureDiffuse"
	UniformSpecular = "uTextureSpecular"
	UniformBRDFLUT  = "uTexturePreIntBRDF"
)

// CameraRadius is the initial distance from the grid center.
const CameraRadius = 18

// LightPositions are the world-space light positions.
var LightPositions = [config.NumLights]math.Vec3{
	{X: 8, Y: 0, Z: 9},
	{X: -3, Y: 0, Z: 5},
	{X: 1, Y: 0, Z: 17},
	{X: 1, Y: 0, Z: 17},
}

type Option func(*App)

// WithSettings replaces the store built from the configuration. Hotkeys only
// edit settings when src also implements Update like *config.Store.
func WithSettings(src config.Source) Option {
	return func(a *App) { a.settings = src }
}

// WithGeometry draws g in every cell instead of the default sphere or the
// configured mesh.
func WithGeometry(g *scene.Geometry) Option {
	return func(a *App) { a.geometry = g }
}

// WithProgress shows asset loading progress on w.
func WithProgress(w io.Writer) Option {
	return func(a *App) { a.progress = w }
}

// WithScreenshot is called after a frame is rendered if the screenshot key
// was pressed since the previous frame.
func WithScreenshot(fn func()) Option {
	return func(a *App) { a.onScreenshot = fn }
}

type settingsUpdater interface {
	Update(func(*config.Settings)) error
}

type App struct {
	ctx      *render.Context
	cfg      config.Config
	settings config.Source
	progress io.Writer

	camera   *scene.OrbitCamera
	lights   [config.NumLights]*scene.PointLight
	material scene.Material
	geometry *scene.Geometry
	grid     scene.Grid

	mesh     *render.Mesh
	program  *render.Program
	loader   *assets.Loader
	textures render.Uniforms // environment refs, filled as loads finish
	uniforms render.Uniforms // last frame

	drawn int

	onScreenshot   func()
	wantScreenshot bool
	closed         bool
}

// New builds the application state. No GPU resources are created until Init.
func New(ctx *render.Context, cfg config.Config, opts ...Option) *App {
	a := &App{
		ctx:      ctx,
		cfg:      cfg,
		camera:   scene.NewOrbitCamera(0, 0, CameraRadius),
		material: scene.DefaultMaterial(),
		textures: make(render.Uniforms),
	}
	for i := range a.lights {
		a.lights[i] = scene.NewPointLight(LightPositions[i])
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.settings == nil {
		a.settings = config.NewStore(cfg.Settings)
	}
	return a
}

// Init uploads the geometry, compiles the shader and starts loading the
// environment textures. Geometry and shader failures are fatal; textures
// arrive later through Update.
func (a *App) Init() error {
	if a.geometry == nil {
		g, err := a.loadGeometry()
		if err != nil {
			return err
		}
		a.geometry = g
	}
	a.grid = scene.NewGrid(a.geometry.Radius)

	mesh, err := a.ctx.UploadGeometry(a.geometry)
	if err != nil {
		return fmt.Errorf("app: upload geometry: %w", err)
	}
	a.mesh = mesh

	vs, fs := shading.Sources(config.NumLights)
	program, err := a.ctx.CompileProgram(render.ProgramSource{Name: "pbr", Vertex: vs, Fragment: fs})
	if err != nil {
		return fmt.Errorf("app: compile shader: %w", err)
	}
	a.program = program

	a.loader = assets.NewLoader(assets.Options{
		MaxDimension: a.cfg.MaxTextureSize,
		Progress:     a.progress,
	})
	var reqs []assets.Request
	for _, r := range []assets.Request{
		{Key: UniformDiffuse, Path: a.cfg.DiffuseMap},
		{Key: UniformSpecular, Path: a.cfg.SpecularMap},
		{Key: UniformBRDFLUT, Path: a.cfg.BRDFLUT},
	} {
		if r.Path != "" {
			reqs = append(reqs, r)
		}
	}
	a.loader.Load(reqs...)

	render.Logger().Info("app: initialized",
		slog.String("geometry", a.geometry.Name),
		slog.Int("vertices", len(a.geometry.Vertices)),
		slog.Int("textures", len(reqs)))
	return nil
}

func (a *App) loadGeometry() (*scene.Geometry, error) {
	if a.cfg.Mesh == "" {
		return scene.DefaultSphere(), nil
	}
	g, err := scene.LoadGeometry(a.cfg.Mesh)
	if err != nil {
		return nil, fmt.Errorf("app: load mesh: %w", err)
	}
	return g, nil
}

// Update uploads the textures that finished loading since the last call.
func (a *App) Update() {
	if a.loader == nil {
		return
	}
	a.upload(a.loader.Poll())
}

// WaitForAssets blocks until every texture request has completed and
// uploads the results.
func (a *App) WaitForAssets() {
	if a.loader == nil {
		return
	}
	a.upload(a.loader.Wait())
}

func (a *App) upload(results []assets.Result) {
	for _, r := range results {
		if r.Err != nil {
			continue
		}
		tex, err := a.ctx.UploadTexture(render.NewPixelBuffer(r.Image), render.EnvironmentSampler())
		if err != nil {
			render.Logger().Warn("app: texture upload failed", slog.String("uniform", r.Key), slog.Any("err", err))
			continue
		}
		a.textures[r.Key] = tex.Ref()
	}
}

// Render draws one frame of the grid with the current settings.
func (a *App) Render() {
	s := a.settings.Snapshot()

	a.ctx.Clear()
	a.ctx.SetDepthTest(true)

	a.material.SetAlbedoRGB(s.Albedo[0], s.Albedo[1], s.Albedo[2])
	for i, l := range a.lights {
		l.SetIntensity(s.Lights[i].Intensity)
		l.SetColorRGB(s.Lights[i].Color[0], s.Lights[i].Color[1], s.Lights[i].Color[2])
	}

	u := make(render.Uniforms, len(a.textures)+16)
	maps.Copy(u, a.textures)
	a.uniforms = u
	u["uMaterial.albedo"] = render.Vec3(a.material.Albedo.RGB())
	viewProj := a.camera.ViewProjection(a.ctx.AspectRatio())
	u["uCamera.WS_to_CS"] = render.Mat4(viewProj)
	eye := render.Vec3(a.camera.Position())
	u["uCamera.position"] = eye
	u["uCameraFrag.position"] = eye
	for i, l := range a.lights {
		u[render.LightKey(i, "color")] = render.Vec3(l.Color.RGB())
		u[render.LightKey(i, "intensity")] = render.Float(l.Intensity)
		u[render.LightKey(i, "positionWS")] = render.Vec3(l.PositionWS)
	}
	u["uMode.mode"] = render.Int(s.Lighting())
	u["uMode.tone"] = render.Int(s.ToneMapping())

	frustum := scene.FrustumFromViewProjection(viewProj)
	a.drawn = 0
	for _, cell := range a.grid.Cells() {
		if !frustum.ContainsSphere(cell.Translation, a.geometry.Radius) {
			continue
		}
		a.drawn++
		u["uModel.LS_to_WS"] = render.Mat4(cell.Model())
		u["uMaterial.roughness"] = render.Float(cell.Roughness)
		u["uMaterial.metalness"] = render.Float(cell.Metalness)
		a.ctx.Draw(a.mesh, a.program, u)
	}

	if a.wantScreenshot {
		a.wantScreenshot = false
		if a.onScreenshot != nil {
			a.onScreenshot()
		}
	}
}

// Resize takes the logical surface size and its device pixel ratio.
func (a *App) Resize(width, height int, scale float32) {
	w, h := core.DeviceSize(width, height, scale)
	a.ctx.ResetViewport(w, h)
}

// HandleEvent applies hotkeys, forwards the rest to the camera and reports
// whether the event was used.
func (a *App) HandleEvent(e core.Event) bool {
	switch e.Kind {
	case core.EventResize:
		a.ctx.ResetViewport(e.Width, e.Height)
		return true
	case core.EventKeyDown:
		if a.hotkey(e.Key) {
			return true
		}
	}
	return a.camera.HandleEvent(e)
}

func (a *App) hotkey(key core.Key) bool {
	var edit func(*config.Settings)
	switch key {
	case core.KeyB:
		edit = func(s *config.Settings) { s.SelectLighting(shading.LightingBRDF) }
	case core.KeyI:
		edit = func(s *config.Settings) { s.SelectLighting(shading.LightingIBL) }
	case core.KeyR:
		edit = func(s *config.Settings) { s.SelectToneMapping(shading.ToneReinhard) }
	case core.KeyA:
		edit = func(s *config.Settings) { s.SelectToneMapping(shading.ToneACES) }
	case core.KeyP:
		a.wantScreenshot = true
		return true
	default:
		return false
	}

	up, ok := a.settings.(settingsUpdater)
	if !ok {
		return false
	}
	if err := up.Update(edit); err != nil {
		render.Logger().Warn("app: settings update rejected", slog.Any("err", err))
	}
	return true
}

// DrawnCells is the number of grid cells that passed frustum culling in the
// last frame.
func (a *App) DrawnCells() int {
	return a.drawn
}

func (a *App) Camera() *scene.OrbitCamera {
	return a.camera
}

// Uniforms returns the table built for the last frame, or nil before the
// first Render.
func (a *App) Uniforms() render.Uniforms {
	return a.uniforms
}

func (a *App) Context() *render.Context {
	return a.ctx
}

// Close stops pending loads and releases every GPU resource.
func (a *App) Close() {
	if a.closed {
		return
	}
	a.closed = true
	if a.loader != nil {
		a.loader.Close()
	}
	a.ctx.Close()
}
