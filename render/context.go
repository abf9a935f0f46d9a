package render

import (
	"errors"
	"fmt"
	"log/slog"

	"pbr-viewer/core"
	"pbr-viewer/scene"
)

// Context owns a Device and every resource created through it. It is not
// safe for concurrent use: create, draw and close from the render goroutine.
type Context struct {
	dev        Device
	dispatcher Dispatcher
	binding    bindingState

	viewport   core.Viewport
	clearColor core.Color
	depthTest  bool

	meshes   []*Mesh
	programs []*Program
	textures []*Texture
	closed   bool
}

func NewContext(dev Device) *Context {
	c := &Context{
		dev:        dev,
		clearColor: core.ColorBlack,
	}
	c.dispatcher = Dispatcher{dev: dev, state: &c.binding}
	return c
}

// Device returns the underlying device.
func (c *Context) Device() Device {
	return c.dev
}

// UploadGeometry creates the vertex and index buffers for g. Attribute slot
// 0 is the position, 1 the normal and 2 the texture coordinate.
func (c *Context) UploadGeometry(g *scene.Geometry) (*Mesh, error) {
	if err := g.Validate(); err != nil {
		return nil, &ResourceCreationError{Resource: "mesh", Reason: "invalid geometry", Err: err}
	}
	id, err := c.dev.CreateMesh(g.Vertices, g.Indices)
	if err != nil {
		var rce *ResourceCreationError
		if errors.As(err, &rce) {
			return nil, err
		}
		return nil, &ResourceCreationError{Resource: "mesh", Reason: "device rejected buffers", Err: err}
	}

	m := &Mesh{
		Name:        g.Name,
		VertexCount: len(g.Vertices),
		IndexCount:  int32(len(g.Indices)),
		Radius:      g.Radius,
		id:          id,
		ctx:         c,
	}
	c.meshes = append(c.meshes, m)
	Logger().Debug("render: mesh uploaded",
		slog.String("name", g.Name),
		slog.Int("vertices", m.VertexCount),
		slog.Int("indices", int(m.IndexCount)))
	return m, nil
}

// CompileProgram compiles and links src and captures its uniform table.
// On failure the returned error is a *ShaderCompileError or *ShaderLinkError
// and no program exists.
func (c *Context) CompileProgram(src ProgramSource) (*Program, error) {
	id, uniforms, err := c.dev.CreateProgram(src.Vertex, src.Fragment)
	if err != nil {
		var ce *ShaderCompileError
		var le *ShaderLinkError
		switch {
		case errors.As(err, &ce):
			ce.Program = src.Name
		case errors.As(err, &le):
			le.Program = src.Name
		default:
			err = &ShaderLinkError{Program: src.Name, Log: err.Error()}
		}
		return nil, err
	}

	p := newProgram(src.Name, id, c, uniforms)

	// Samplers keep the unit of their rank for the program's whole life.
	c.useProgram(p)
	for unit, s := range p.samplers {
		c.dev.SetInt(s.Location, int32(unit))
	}

	c.programs = append(c.programs, p)
	Logger().Info("render: program linked",
		slog.String("name", src.Name),
		slog.Int("uniforms", len(p.uniforms)),
		slog.Int("samplers", len(p.samplers)))
	return p, nil
}

// UploadTexture validates pix against the device limits and uploads it.
// Texture failures are recoverable: callers omit the uniform that would
// have referenced the texture.
func (c *Context) UploadTexture(pix PixelBuffer, cfg SamplerConfig) (*Texture, error) {
	if err := pix.Validate(); err != nil {
		return nil, &ResourceCreationError{Resource: "texture", Reason: "invalid pixel buffer", Err: err}
	}
	if limit := c.dev.MaxTextureSize(); pix.Width > limit || pix.Height > limit {
		return nil, &ResourceCreationError{
			Resource: "texture",
			Reason:   fmt.Sprintf("%dx%d exceeds the device limit of %d", pix.Width, pix.Height, limit),
		}
	}
	if cfg.FlipY {
		pix = pix.FlippedY()
	}

	id, err := c.dev.CreateTexture(pix, cfg)
	if err != nil {
		return nil, &ResourceCreationError{Resource: "texture", Reason: "device rejected upload", Err: err}
	}
	// Creating a texture disturbs the binding of the device's active unit.
	c.binding.resetUnits()

	t := &Texture{
		Width:   pix.Width,
		Height:  pix.Height,
		Format:  pix.Format,
		Sampler: cfg,
		id:      id,
		ctx:     c,
	}
	c.textures = append(c.textures, t)
	Logger().Debug("render: texture uploaded",
		slog.Int("width", t.Width),
		slog.Int("height", t.Height),
		slog.String("format", t.Format.String()))
	return t, nil
}

// Draw binds the program, dispatches u and issues the indexed draw.
// A dispatch failure is a programming error and panics.
func (c *Context) Draw(m *Mesh, p *Program, u Uniforms) {
	if c.closed {
		panic("render: Draw on a closed Context")
	}
	if m.ctx != c || p.ctx != c {
		panic("render: resource belongs to another Context")
	}

	c.useProgram(p)
	if err := c.dispatcher.Dispatch(p, u); err != nil {
		panic(fmt.Errorf("render: draw %q: %w", p.Name, err))
	}
	c.dev.DrawIndexed(m.id, m.IndexCount)
}

func (c *Context) useProgram(p *Program) {
	if c.binding.program == p.id {
		return
	}
	c.dev.UseProgram(p.id)
	c.binding.program = p.id
}

// ResetViewport must be called whenever the drawable size changes. width and
// height are device pixels.
func (c *Context) ResetViewport(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	c.viewport = core.Viewport{Width: int32(width), Height: int32(height)}
	c.dev.SetViewport(0, 0, c.viewport.Width, c.viewport.Height)
}

func (c *Context) Viewport() core.Viewport {
	return c.viewport
}

// AspectRatio is the drawable width over height.
func (c *Context) AspectRatio() float32 {
	return c.viewport.AspectRatio()
}

func (c *Context) SetClearColor(color core.Color) {
	c.clearColor = color
	c.dev.SetClearColor(color)
}

func (c *Context) ClearColor() core.Color {
	return c.clearColor
}

// Clear clears color and depth.
func (c *Context) Clear() {
	c.dev.Clear()
}

func (c *Context) SetDepthTest(enabled bool) {
	if c.depthTest == enabled {
		return
	}
	c.depthTest = enabled
	c.dev.SetDepthTest(enabled)
}

func (c *Context) DepthTest() bool {
	return c.depthTest
}

// Close deletes every mesh, program and texture created through c. It is
// safe to call more than once.
func (c *Context) Close() {
	if c.closed {
		return
	}
	c.closed = true
	for _, m := range c.meshes {
		c.dev.DeleteMesh(m.id)
		m.id = 0
	}
	for _, p := range c.programs {
		c.dev.DeleteProgram(p.id)
		p.id = 0
	}
	for _, t := range c.textures {
		c.dev.DeleteTexture(t.id)
		t.id = 0
	}
	c.meshes, c.programs, c.textures = nil, nil, nil
	c.binding.reset()
	Logger().Debug("render: context closed")
}
