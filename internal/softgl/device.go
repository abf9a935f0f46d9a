// Package softgl implements render.Device as a software rasterizer. It
// understands enough GLSL to reflect a program's uniforms and runs a
// shading.Pipeline in place of the shader bodies, which makes the render
// layer testable and usable without a GPU.
package softgl

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"strconv"
	"strings"

	"pbr-viewer/core"
	"pbr-viewer/math"
	"pbr-viewer/render"
	"pbr-viewer/shading"
)

type mesh struct {
	vertices []core.Vertex
	indices  []uint32
}

type program struct {
	uniforms []render.UniformInfo
	byName   map[string]render.UniformInfo
	arrays   map[string]int

	floats map[int32]float32
	ints   map[int32]int32
	vec3s  map[int32]math.Vec3
	mat4s  map[int32]math.Mat4
}

// Device renders into an in-memory color and depth buffer sized to the
// viewport.
type Device struct {
	pipeline shading.Pipeline

	maxTextureSize  int
	maxTextureUnits int

	nextID   uint32
	meshes   map[uint32]*mesh
	programs map[uint32]*program
	textures map[uint32]*texture
	units    []uint32
	current  *program

	viewport   [4]int32
	width      int
	height     int
	color      []math.Vec4
	depth      []float32
	written    []bool
	clearColor core.Color
	depthTest  bool
}

var _ render.Device = (*Device)(nil)

type Option func(*Device)

// WithPipeline replaces the shading.Reference pipeline.
func WithPipeline(p shading.Pipeline) Option {
	return func(d *Device) { d.pipeline = p }
}

// WithLimits overrides the reported texture size and unit limits.
func WithLimits(maxTextureSize, maxTextureUnits int) Option {
	return func(d *Device) {
		d.maxTextureSize = maxTextureSize
		d.maxTextureUnits = maxTextureUnits
	}
}

func New(width, height int, opts ...Option) *Device {
	d := &Device{
		pipeline:        shading.Reference,
		maxTextureSize:  8192,
		maxTextureUnits: 16,
		meshes:          make(map[uint32]*mesh),
		programs:        make(map[uint32]*program),
		textures:        make(map[uint32]*texture),
		clearColor:      core.ColorBlack,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.units = make([]uint32, d.maxTextureUnits)
	d.SetViewport(0, 0, int32(width), int32(height))
	d.Clear()
	return d
}

func (d *Device) id() uint32 {
	d.nextID++
	return d.nextID
}

func (d *Device) MaxTextureSize() int  { return d.maxTextureSize }
func (d *Device) MaxTextureUnits() int { return d.maxTextureUnits }

func (d *Device) CreateMesh(vertices []core.Vertex, indices []uint32) (uint32, error) {
	for i, idx := range indices {
		if int(idx) >= len(vertices) {
			return 0, fmt.Errorf("index %d out of range", i)
		}
	}
	m := &mesh{
		vertices: append([]core.Vertex(nil), vertices...),
		indices:  append([]uint32(nil), indices...),
	}
	id := d.id()
	d.meshes[id] = m
	return id, nil
}

func (d *Device) DeleteMesh(id uint32) { delete(d.meshes, id) }

func (d *Device) CreateProgram(vertex, fragment string) (uint32, []render.UniformInfo, error) {
	vs, err := parseShader(vertex)
	if err != nil {
		return 0, nil, &render.ShaderCompileError{Stage: render.StageVertex, Log: err.Error()}
	}
	fs, err := parseShader(fragment)
	if err != nil {
		return 0, nil, &render.ShaderCompileError{Stage: render.StageFragment, Log: err.Error()}
	}
	uniforms, err := link(vs, fs)
	if err != nil {
		return 0, nil, &render.ShaderLinkError{Log: err.Error()}
	}

	p := &program{
		uniforms: uniforms,
		byName:   make(map[string]render.UniformInfo, len(uniforms)),
		arrays:   make(map[string]int),
		floats:   make(map[int32]float32),
		ints:     make(map[int32]int32),
		vec3s:    make(map[int32]math.Vec3),
		mat4s:    make(map[int32]math.Mat4),
	}
	for _, u := range uniforms {
		p.byName[u.Name] = u
		if base, idx, ok := arrayElement(u.Name); ok && idx+1 > p.arrays[base] {
			p.arrays[base] = idx + 1
		}
	}

	id := d.id()
	d.programs[id] = p
	render.Logger().Debug("softgl: program created", slog.Int("uniforms", len(uniforms)))
	return id, uniforms, nil
}

// arrayElement splits "base[i].field" or "base[i]" into base and i.
func arrayElement(name string) (string, int, bool) {
	open := strings.IndexByte(name, '[')
	end := strings.IndexByte(name, ']')
	if open <= 0 || end < open {
		return "", 0, false
	}
	idx, err := strconv.Atoi(name[open+1 : end])
	if err != nil {
		return "", 0, false
	}
	return name[:open], idx, true
}

func (d *Device) DeleteProgram(id uint32) {
	if p, ok := d.programs[id]; ok && p == d.current {
		d.current = nil
	}
	delete(d.programs, id)
}

func (d *Device) CreateTexture(pix render.PixelBuffer, cfg render.SamplerConfig) (uint32, error) {
	if err := pix.Validate(); err != nil {
		return 0, err
	}
	t := &texture{
		width:  pix.Width,
		height: pix.Height,
		bpp:    pix.Format.BytesPerPixel(),
		pix:    append([]byte(nil), pix.Pix...),
		cfg:    cfg,
	}
	id := d.id()
	d.textures[id] = t
	return id, nil
}

func (d *Device) DeleteTexture(id uint32) {
	delete(d.textures, id)
	for unit, bound := range d.units {
		if bound == id {
			d.units[unit] = 0
		}
	}
}

func (d *Device) UseProgram(id uint32) { d.current = d.programs[id] }

func (d *Device) SetFloat(loc int32, v float32) {
	if d.current != nil {
		d.current.floats[loc] = v
	}
}

func (d *Device) SetInt(loc int32, v int32) {
	if d.current != nil {
		d.current.ints[loc] = v
	}
}

func (d *Device) SetVec3(loc int32, v math.Vec3) {
	if d.current != nil {
		d.current.vec3s[loc] = v
	}
}

func (d *Device) SetMat4(loc int32, m math.Mat4) {
	if d.current != nil {
		d.current.mat4s[loc] = m
	}
}

func (d *Device) BindTexture(unit int, id uint32) {
	if unit >= 0 && unit < len(d.units) {
		d.units[unit] = id
	}
}

// SetViewport resizes the color and depth buffers when the size changes.
func (d *Device) SetViewport(x, y, width, height int32) {
	d.viewport = [4]int32{x, y, width, height}
	w, h := int(x+width), int(y+height)
	if w == d.width && h == d.height {
		return
	}
	d.width, d.height = w, h
	d.color = make([]math.Vec4, w*h)
	d.depth = make([]float32, w*h)
	d.written = make([]bool, w*h)
	d.Clear()
}

func (d *Device) SetClearColor(c core.Color) { d.clearColor = c }

func (d *Device) Clear() {
	cc := math.Vec4{X: d.clearColor.R, Y: d.clearColor.G, Z: d.clearColor.B, W: d.clearColor.A}
	for i := range d.color {
		d.color[i] = cc
		d.depth[i] = 1
		d.written[i] = false
	}
}

func (d *Device) SetDepthTest(enabled bool) { d.depthTest = enabled }

// Size returns the color buffer size.
func (d *Device) Size() (int, int) {
	return d.width, d.height
}

// Pixel returns the unclamped fragment color at (x, y), top row first, and
// whether any fragment was written there since the last Clear.
func (d *Device) Pixel(x, y int) (math.Vec4, bool) {
	if x < 0 || y < 0 || x >= d.width || y >= d.height {
		return math.Vec4{}, false
	}
	i := y*d.width + x
	return d.color[i], d.written[i]
}

// Image returns the color buffer clamped to 8 bits, top row first.
func (d *Device) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, d.width, d.height))
	for y := 0; y < d.height; y++ {
		for x := 0; x < d.width; x++ {
			c := d.color[y*d.width+x]
			img.SetNRGBA(x, y, color.NRGBA{R: to8(c.X), G: to8(c.Y), B: to8(c.Z), A: to8(c.W)})
		}
	}
	return img
}

func to8(v float32) uint8 {
	if !(v > 0) {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}

// uniformView exposes the values of the current program to the pipeline.
type uniformView struct {
	d *Device
	p *program
}

func (u uniformView) loc(name string) (int32, bool) {
	info, ok := u.p.byName[name]
	return info.Location, ok
}

func (u uniformView) Float(name string) float32 {
	l, _ := u.loc(name)
	return u.p.floats[l]
}

func (u uniformView) Int(name string) int32 {
	l, _ := u.loc(name)
	return u.p.ints[l]
}

func (u uniformView) Vec3(name string) math.Vec3 {
	l, _ := u.loc(name)
	return u.p.vec3s[l]
}

func (u uniformView) Mat4(name string) math.Mat4 {
	l, _ := u.loc(name)
	return u.p.mat4s[l]
}

// Texture resolves a sampler through its unit, as the GPU does.
func (u uniformView) Texture(name string) shading.Sampler {
	l, ok := u.loc(name)
	if !ok {
		return nil
	}
	unit := int(u.p.ints[l])
	if unit < 0 || unit >= len(u.d.units) {
		return nil
	}
	t, ok := u.d.textures[u.d.units[unit]]
	if !ok {
		return nil
	}
	return t
}

func (u uniformView) ArrayLen(name string) int {
	return u.p.arrays[name]
}
