package render

import (
	"pbr-viewer/core"
	"pbr-viewer/math"
)

// UniformInfo describes one active uniform of a linked program. Struct
// members and array elements are flattened to their full names, e.g.
// "uLights[0].color".
type UniformInfo struct {
	Name     string
	Location int32
	Type     UniformType
}

// Device is the graphics API beneath a Context. Implementations hold no
// binding state of their own that the Context relies on: the Context tracks
// the current program and per-unit textures and only calls UseProgram and
// BindTexture when they change.
//
// All methods must be called from the goroutine that owns the device.
type Device interface {
	CreateMesh(vertices []core.Vertex, indices []uint32) (uint32, error)
	DeleteMesh(id uint32)

	// CreateProgram compiles and links both stages. It returns a
	// *ShaderCompileError or *ShaderLinkError on failure, after deleting any
	// partially created objects.
	CreateProgram(vertex, fragment string) (uint32, []UniformInfo, error)
	DeleteProgram(id uint32)

	CreateTexture(pix PixelBuffer, cfg SamplerConfig) (uint32, error)
	DeleteTexture(id uint32)

	MaxTextureSize() int
	MaxTextureUnits() int

	UseProgram(id uint32)
	SetFloat(location int32, v float32)
	SetInt(location int32, v int32)
	SetVec3(location int32, v math.Vec3)
	SetMat4(location int32, m math.Mat4)
	BindTexture(unit int, id uint32)

	DrawIndexed(mesh uint32, indexCount int32)

	SetViewport(x, y, width, height int32)
	SetClearColor(c core.Color)
	Clear()
	SetDepthTest(enabled bool)
}
