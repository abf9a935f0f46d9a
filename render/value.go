package render

import (
	"fmt"

	"pbr-viewer/math"
)

// Value is a uniform value. The set of implementations is closed: Float,
// Int, Vec3, Mat4 and TextureRef.
type Value interface {
	// Kind reports the GLSL type family the value can be bound to.
	Kind() UniformType
	isValue()
}

type Float float32

type Int int32

type Vec3 math.Vec3

type Mat4 math.Mat4

// TextureRef refers to a texture owned by a Context. The dispatcher binds it
// to the texture unit reserved for the sampler it is assigned to.
type TextureRef struct {
	Texture *Texture
}

func (Float) Kind() UniformType      { return UniformFloat }
func (Int) Kind() UniformType        { return UniformInt }
func (Vec3) Kind() UniformType       { return UniformVec3 }
func (Mat4) Kind() UniformType       { return UniformMat4 }
func (TextureRef) Kind() UniformType { return UniformSampler2D }

func (Float) isValue()      {}
func (Int) isValue()        {}
func (Vec3) isValue()       {}
func (Mat4) isValue()       {}
func (TextureRef) isValue() {}

// Uniforms maps uniform names, including struct fields and array elements
// such as "uLights[2].color", to values for one draw call.
type Uniforms map[string]Value

// ArrayKey builds the name of a field of a struct array element.
func ArrayKey(base string, index int, field string) string {
	return fmt.Sprintf("%s[%d].%s", base, index, field)
}

// LightKey names one field of the uLights array.
func LightKey(index int, field string) string {
	return ArrayKey("uLights", index, field)
}

// UniformType is the GLSL type of an active uniform.
type UniformType int

const (
	UniformUnsupported UniformType = iota
	UniformFloat
	UniformInt
	UniformBool
	UniformVec3
	UniformMat4
	UniformSampler2D
)

func (t UniformType) String() string {
	switch t {
	case UniformFloat:
		return "float"
	case UniformInt:
		return "int"
	case UniformBool:
		return "bool"
	case UniformVec3:
		return "vec3"
	case UniformMat4:
		return "mat4"
	case UniformSampler2D:
		return "sampler2D"
	default:
		return "unsupported"
	}
}

// accepts reports whether a value of kind k may be bound to a uniform of type t.
func (t UniformType) accepts(k UniformType) bool {
	if t == UniformBool {
		return k == UniformInt
	}
	return t == k && t != UniformUnsupported
}

func (v Vec3) vec() math.Vec3 { return math.Vec3(v) }

func (m Mat4) mat() math.Mat4 { return math.Mat4(m) }
