package render

import (
	"errors"
	"fmt"
	"strings"

	"pbr-viewer/core"
	"pbr-viewer/math"
)

// fakeDevice records every call and parses nothing: the uniform table of a
// program is whatever the test puts in nextUniforms.
type fakeDevice struct {
	nextID uint32

	nextUniforms []UniformInfo
	compileErr   error
	meshErr      error
	textureErr   error
	maxUnits     int
	maxSize      int

	meshes   map[uint32]bool
	programs map[uint32]bool
	textures map[uint32]PixelBuffer

	calls    []string
	floats   map[int32]float32
	ints     map[int32]int32
	vec3s    map[int32]math.Vec3
	mat4s    map[int32]math.Mat4
	bound    map[int]uint32
	draws    int
	viewport [4]int32
	depth    bool
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{
		maxUnits: 16,
		maxSize:  4096,
		meshes:   make(map[uint32]bool),
		programs: make(map[uint32]bool),
		textures: make(map[uint32]PixelBuffer),
		floats:   make(map[int32]float32),
		ints:     make(map[int32]int32),
		vec3s:    make(map[int32]math.Vec3),
		mat4s:    make(map[int32]math.Mat4),
		bound:    make(map[int]uint32),
	}
}

func (d *fakeDevice) id() uint32 {
	d.nextID++
	return d.nextID
}

func (d *fakeDevice) record(format string, args ...any) {
	d.calls = append(d.calls, fmt.Sprintf(format, args...))
}

func (d *fakeDevice) count(prefix string) int {
	n := 0
	for _, c := range d.calls {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

func (d *fakeDevice) CreateMesh(vertices []core.Vertex, indices []uint32) (uint32, error) {
	if d.meshErr != nil {
		return 0, d.meshErr
	}
	id := d.id()
	d.meshes[id] = true
	return id, nil
}

func (d *fakeDevice) DeleteMesh(id uint32) { delete(d.meshes, id) }

func (d *fakeDevice) CreateProgram(vertex, fragment string) (uint32, []UniformInfo, error) {
	if d.compileErr != nil {
		return 0, nil, d.compileErr
	}
	id := d.id()
	d.programs[id] = true
	return id, d.nextUniforms, nil
}

func (d *fakeDevice) DeleteProgram(id uint32) { delete(d.programs, id) }

func (d *fakeDevice) CreateTexture(pix PixelBuffer, cfg SamplerConfig) (uint32, error) {
	if d.textureErr != nil {
		return 0, d.textureErr
	}
	id := d.id()
	d.textures[id] = pix
	return id, nil
}

func (d *fakeDevice) DeleteTexture(id uint32) { delete(d.textures, id) }

func (d *fakeDevice) MaxTextureSize() int  { return d.maxSize }
func (d *fakeDevice) MaxTextureUnits() int { return d.maxUnits }

func (d *fakeDevice) UseProgram(id uint32) { d.record("use %d", id) }

func (d *fakeDevice) SetFloat(loc int32, v float32) {
	d.record("float %d", loc)
	d.floats[loc] = v
}

func (d *fakeDevice) SetInt(loc int32, v int32) {
	d.record("int %d", loc)
	d.ints[loc] = v
}

func (d *fakeDevice) SetVec3(loc int32, v math.Vec3) {
	d.record("vec3 %d", loc)
	d.vec3s[loc] = v
}

func (d *fakeDevice) SetMat4(loc int32, m math.Mat4) {
	d.record("mat4 %d", loc)
	d.mat4s[loc] = m
}

func (d *fakeDevice) BindTexture(unit int, id uint32) {
	d.record("bind %d %d", unit, id)
	d.bound[unit] = id
}

func (d *fakeDevice) DrawIndexed(mesh uint32, count int32) {
	d.record("draw %d %d", mesh, count)
	d.draws++
}

func (d *fakeDevice) SetViewport(x, y, w, h int32) { d.viewport = [4]int32{x, y, w, h} }
func (d *fakeDevice) SetClearColor(c core.Color)   { d.record("clearcolor") }
func (d *fakeDevice) Clear()                       { d.record("clear") }
func (d *fakeDevice) SetDepthTest(enabled bool)    { d.depth = enabled }

var errDeviceLost = errors.New("device lost")
