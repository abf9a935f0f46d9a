package shading

import (
	"fmt"

	"pbr-viewer/core"
	"pbr-viewer/math"
)

// Uniforms is the read side of a bound uniform table. Undeclared or unset
// names read as zero values; an unbound sampler reads as nil.
type Uniforms interface {
	Float(name string) float32
	Int(name string) int32
	Vec3(name string) math.Vec3
	Mat4(name string) math.Mat4
	Texture(name string) Sampler
	// ArrayLen returns the declared size of a uniform array, 0 if absent.
	ArrayLen(name string) int
}

// Varyings are interpolated from the vertex stage to the fragment stage.
type Varyings struct {
	PositionWS math.Vec3
	NormalWS   math.Vec3
}

// Lerp3 interpolates with barycentric weights.
func Lerp3(a, b, c Varyings, w0, w1, w2 float32) Varyings {
	return Varyings{
		PositionWS: a.PositionWS.Mul(w0).Add(b.PositionWS.Mul(w1)).Add(c.PositionWS.Mul(w2)),
		NormalWS:   a.NormalWS.Mul(w0).Add(b.NormalWS.Mul(w1)).Add(c.NormalWS.Mul(w2)),
	}
}

// Pipeline is a CPU program: a vertex stage returning the clip-space
// position and a fragment stage returning display-encoded RGBA.
type Pipeline struct {
	Vertex   func(u Uniforms, v core.Vertex) (math.Vec4, Varyings)
	Fragment func(u Uniforms, in Varyings) math.Vec4
}

// Reference mirrors the GLSL returned by Sources.
var Reference = Pipeline{
	Vertex:   vertexMain,
	Fragment: fragmentMain,
}

func vertexMain(u Uniforms, v core.Vertex) (math.Vec4, Varyings) {
	model := u.Mat4("uModel.LS_to_WS")
	positionWS := v.Position.ToVec4(1).MulMat(model)
	out := Varyings{
		PositionWS: positionWS.ToVec3(),
		NormalWS:   model.MulDirection(v.Normal).Normalize(),
	}
	return positionWS.MulMat(u.Mat4("uCamera.WS_to_CS")), out
}

// lightKey names one field of the lights array.
func lightKey(index int, field string) string {
	return fmt.Sprintf("uLights[%d].%s", index, field)
}

func fragmentMain(u Uniforms, in Varyings) math.Vec4 {
	s := Surface{
		PositionWS: in.PositionWS,
		N:          in.NormalWS.Normalize(),
		V:          u.Vec3("uCameraFrag.position").Sub(in.PositionWS).Normalize(),
		Albedo:     SRGBToLinear(u.Vec3("uMaterial.albedo")),
		Roughness:  math.Clamp(u.Float("uMaterial.roughness"), MinRoughness, 1),
		Metalness:  math.Clamp(u.Float("uMaterial.metalness"), 0, 1),
	}

	var color math.Vec3
	if LightingMode(u.Int("uMode.mode")) == LightingIBL {
		color = ImageBasedLighting(s, Environment{
			Diffuse:  u.Texture("uTextureDiffuse"),
			Specular: u.Texture("uTextureSpecular"),
			BRDFLUT:  u.Texture("uTexturePreIntBRDF"),
		})
	} else {
		n := u.ArrayLen("uLights")
		lights := make([]Light, n)
		for i := range lights {
			lights[i] = Light{
				Color:      u.Vec3(lightKey(i, "color")),
				Intensity:  u.Float(lightKey(i, "intensity")),
				PositionWS: u.Vec3(lightKey(i, "positionWS")),
			}
		}
		color = DirectLighting(s, lights)
	}

	color = color.Map(func(c float32) float32 { return math.Max(c, 0) })
	color = ToneMapping(u.Int("uMode.tone")).Apply(color)
	return LinearToSRGB(color).ToVec4(1)
}
