package shading

import "pbr-viewer/math"

// SpecularLevels is the index of the roughest level in the prefiltered
// specular atlas; the atlas holds SpecularLevels+1 levels.
const SpecularLevels = 5

// Sampler is a bound 2D texture. Sample returns filtered RGBA in [0, 1].
type Sampler interface {
	Sample(uv math.Vec2) math.Vec4
}

func sample(s Sampler, uv math.Vec2) math.Vec4 {
	if s == nil {
		return math.Vec4{}
	}
	return s.Sample(uv)
}

// EquirectUV maps a unit direction to equirectangular coordinates.
func EquirectUV(dir math.Vec3) math.Vec2 {
	return math.Vec2{
		X: math.Atan2(dir.Z, dir.X)/(2*math.Pi) + 0.5,
		Y: math.Asin(dir.Y)/math.Pi + 0.5,
	}
}

// DecodeRGBM expands an RGBM8 texel to linear HDR radiance.
func DecodeRGBM(rgbm math.Vec4) math.Vec3 {
	return rgbm.ToVec3().Mul(6 * rgbm.W)
}

// SpecularAtlasUV moves uv into the region of the given level: level l spans
// [0, 2^-l] horizontally and starts at 1-2^-l vertically with height 2^-(l+1).
func SpecularAtlasUV(uv math.Vec2, level float32) math.Vec2 {
	scale := math.Pow(2, -level)
	return math.Vec2{
		X: uv.X * scale,
		Y: 1 - scale + uv.Y*scale*0.5,
	}
}

// SampleSpecular blends the two atlas levels around roughness*SpecularLevels.
func SampleSpecular(atlas Sampler, R math.Vec3, roughness float32) math.Vec3 {
	uv := EquirectUV(R)
	level := roughness * SpecularLevels
	lo, hi := math.Floor(level), math.Ceil(level)
	a := DecodeRGBM(sample(atlas, SpecularAtlasUV(uv, lo)))
	b := DecodeRGBM(sample(atlas, SpecularAtlasUV(uv, hi)))
	return a.Lerp(b, level-lo)
}

// Environment holds the three IBL lookups. Any of them may be nil, in which
// case it contributes black.
type Environment struct {
	Diffuse  Sampler
	Specular Sampler
	BRDFLUT  Sampler
}

// ImageBasedLighting is the split-sum approximation: diffuse irradiance plus
// prefiltered radiance scaled by the (scale, bias) pair from the BRDF LUT.
func ImageBasedLighting(s Surface, env Environment) math.Vec3 {
	f0 := BaseReflectance(s.Albedo, s.Metalness)
	NdV := math.Max(s.N.Dot(s.V), 0)

	F := FresnelSchlick(NdV, f0)
	kd := math.Vec3One.Sub(F).Mul(1 - s.Metalness)
	irradiance := DecodeRGBM(sample(env.Diffuse, EquirectUV(s.N)))

	R := s.V.Negate().Reflect(s.N)
	prefiltered := SampleSpecular(env.Specular, R, s.Roughness)
	brdf := sample(env.BRDFLUT, math.Vec2{X: NdV, Y: s.Roughness})
	specular := prefiltered.MulVec(f0.Mul(brdf.X).Add(math.Splat3(brdf.Y)))

	return kd.MulVec(s.Albedo).MulVec(irradiance).Add(specular)
}
