// Package opengl implements render.Device on an OpenGL 4.1 core context.
// Every method must run on the goroutine that made the context current.
package opengl

import (
	"fmt"
	"image"
	"log/slog"
	"strings"
	"unsafe"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"pbr-viewer/core"
	"pbr-viewer/math"
	"pbr-viewer/render"
)

// gpuMesh holds the OpenGL buffer objects for an uploaded mesh.
type gpuMesh struct {
	VAO uint32
	VBO uint32
	EBO uint32
}

type Device struct {
	meshes map[uint32]*gpuMesh
	nextID uint32

	maxTextureSize  int
	maxTextureUnits int
}

var _ render.Device = (*Device)(nil)

// New loads the GL function pointers and queries the device limits.
func New() (*Device, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	var maxSize, maxUnits int32
	gl.GetIntegerv(gl.MAX_TEXTURE_SIZE, &maxSize)
	gl.GetIntegerv(gl.MAX_TEXTURE_IMAGE_UNITS, &maxUnits)

	render.Logger().Info("opengl: device ready",
		slog.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		slog.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
		slog.Int("max_texture_size", int(maxSize)),
		slog.Int("max_texture_units", int(maxUnits)))

	gl.DepthFunc(gl.LESS)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)

	return &Device{
		meshes:          make(map[uint32]*gpuMesh),
		maxTextureSize:  int(maxSize),
		maxTextureUnits: int(maxUnits),
	}, nil
}

func (d *Device) MaxTextureSize() int  { return d.maxTextureSize }
func (d *Device) MaxTextureUnits() int { return d.maxTextureUnits }

// ── Meshes ────────────────────────────────────────────────────────────────────

func (d *Device) CreateMesh(vertices []core.Vertex, indices []uint32) (uint32, error) {
	stride := int32(unsafe.Sizeof(core.Vertex{}))
	gpu := &gpuMesh{}

	// Drain stale errors so the check below only sees this upload.
	for gl.GetError() != gl.NO_ERROR {
	}

	gl.GenVertexArrays(1, &gpu.VAO)
	gl.GenBuffers(1, &gpu.VBO)
	gl.GenBuffers(1, &gpu.EBO)
	gl.BindVertexArray(gpu.VAO)

	gl.BindBuffer(gl.ARRAY_BUFFER, gpu.VBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*int(stride), gl.Ptr(vertices), gl.STATIC_DRAW)

	var v core.Vertex
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, gl.PtrOffset(int(unsafe.Offsetof(v.Position))))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, stride, gl.PtrOffset(int(unsafe.Offsetof(v.Normal))))
	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointer(2, 2, gl.FLOAT, false, stride, gl.PtrOffset(int(unsafe.Offsetof(v.UV))))

	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, gpu.EBO)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, gl.Ptr(indices), gl.STATIC_DRAW)

	gl.BindVertexArray(0)

	if code := gl.GetError(); code != gl.NO_ERROR {
		d.deleteBuffers(gpu)
		return 0, fmt.Errorf("buffer upload: GL error 0x%x", code)
	}

	d.nextID++
	d.meshes[d.nextID] = gpu
	return d.nextID, nil
}

func (d *Device) DeleteMesh(id uint32) {
	if gpu, ok := d.meshes[id]; ok {
		d.deleteBuffers(gpu)
		delete(d.meshes, id)
	}
}

func (d *Device) deleteBuffers(gpu *gpuMesh) {
	gl.DeleteVertexArrays(1, &gpu.VAO)
	gl.DeleteBuffers(1, &gpu.VBO)
	gl.DeleteBuffers(1, &gpu.EBO)
}

func (d *Device) DrawIndexed(mesh uint32, indexCount int32) {
	gpu, ok := d.meshes[mesh]
	if !ok {
		return
	}
	gl.BindVertexArray(gpu.VAO)
	gl.DrawElements(gl.TRIANGLES, indexCount, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
}

// ── Uniforms and bindings ─────────────────────────────────────────────────────

func (d *Device) UseProgram(id uint32) { gl.UseProgram(id) }

func (d *Device) SetFloat(loc int32, v float32) { gl.Uniform1f(loc, v) }

func (d *Device) SetInt(loc int32, v int32) { gl.Uniform1i(loc, v) }

func (d *Device) SetVec3(loc int32, v math.Vec3) { gl.Uniform3f(loc, v.X, v.Y, v.Z) }

// SetMat4 uploads with transpose=false: the row-vector layout of math.Mat4
// is already the column-major layout GLSL expects for M * v.
func (d *Device) SetMat4(loc int32, m math.Mat4) {
	gl.UniformMatrix4fv(loc, 1, false, (*float32)(unsafe.Pointer(&m[0][0])))
}

func (d *Device) BindTexture(unit int, id uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
	gl.BindTexture(gl.TEXTURE_2D, id)
}

// ── Frame state ───────────────────────────────────────────────────────────────

func (d *Device) SetViewport(x, y, width, height int32) {
	gl.Viewport(x, y, width, height)
}

func (d *Device) SetClearColor(c core.Color) {
	gl.ClearColor(c.R, c.G, c.B, c.A)
}

func (d *Device) Clear() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

func (d *Device) SetDepthTest(enabled bool) {
	if enabled {
		gl.Enable(gl.DEPTH_TEST)
	} else {
		gl.Disable(gl.DEPTH_TEST)
	}
}

// ReadPixels copies the default framebuffer into an image, top row first.
func (d *Device) ReadPixels(width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	if width <= 0 || height <= 0 {
		return img
	}
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&img.Pix[0]))

	// GL rows start at the bottom.
	stride := img.Stride
	tmp := make([]byte, stride)
	for y := 0; y < height/2; y++ {
		top := img.Pix[y*stride : (y+1)*stride]
		bottom := img.Pix[(height-1-y)*stride : (height-y)*stride]
		copy(tmp, top)
		copy(top, bottom)
		copy(bottom, tmp)
	}
	return img
}

// Release deletes any meshes that are still alive.
func (d *Device) Release() {
	for id := range d.meshes {
		d.DeleteMesh(id)
	}
}

func glString(s string) string {
	if strings.HasSuffix(s, "\x00") {
		return s
	}
	return s + "\x00"
}
