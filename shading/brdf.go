package shading

import "pbr-viewer/math"

const (
	// MinRoughness keeps the GGX lobe from collapsing to a Dirac peak.
	MinRoughness = 0.01

	dielectricF0 = 0.04
	epsilon      = 1e-4
)

// DistributionGGX is the Trowbridge-Reitz normal distribution with
// alpha = roughness.
func DistributionGGX(NdH, roughness float32) float32 {
	a2 := roughness * roughness
	d := NdH*NdH*(a2-1) + 1
	return a2 / (math.Pi * d * d)
}

func GeometrySchlickGGX(NdX, k float32) float32 {
	return NdX / (NdX*(1-k) + k)
}

// GeometrySmith combines the view and light shadowing terms with the
// direct-lighting remap k = (roughness+1)^2 / 8.
func GeometrySmith(NdV, NdL, roughness float32) float32 {
	r := roughness + 1
	k := r * r / 8
	return GeometrySchlickGGX(NdV, k) * GeometrySchlickGGX(NdL, k)
}

func FresnelSchlick(cosTheta float32, f0 math.Vec3) math.Vec3 {
	f := math.Pow(1-math.Clamp(cosTheta, 0, 1), 5)
	return f0.Add(math.Vec3One.Sub(f0).Mul(f))
}

// BaseReflectance is F0: 4% for dielectrics, the albedo for metals.
func BaseReflectance(albedo math.Vec3, metalness float32) math.Vec3 {
	return math.Splat3(dielectricF0).Lerp(albedo, metalness)
}

// Light is a point light as seen by the shader: Color is display-encoded.
type Light struct {
	Color      math.Vec3
	Intensity  float32
	PositionWS math.Vec3
}

// Surface is the shading point. Albedo is already linear.
type Surface struct {
	PositionWS math.Vec3
	N, V       math.Vec3
	Albedo     math.Vec3
	Roughness  float32
	Metalness  float32
}

// DirectLighting accumulates the Cook-Torrance response to every light with
// inverse-square falloff.
func DirectLighting(s Surface, lights []Light) math.Vec3 {
	f0 := BaseReflectance(s.Albedo, s.Metalness)
	NdV := math.Max(s.N.Dot(s.V), 0)

	accu := math.Vec3Zero
	for _, light := range lights {
		toLight := light.PositionWS.Sub(s.PositionWS)
		dist2 := math.Max(toLight.Dot(toLight), epsilon)
		L := toLight.Mul(1 / math.Sqrt(dist2))
		H := s.V.Add(L).Normalize()

		NdL := math.Max(s.N.Dot(L), 0)
		NdH := math.Max(s.N.Dot(H), 0)
		HdV := math.Max(H.Dot(s.V), 0)

		F := FresnelSchlick(HdV, f0)
		D := DistributionGGX(NdH, s.Roughness)
		G := GeometrySmith(NdV, NdL, s.Roughness)
		specular := F.Mul(D * G / math.Max(4*NdV*NdL, epsilon))

		kd := math.Vec3One.Sub(F).Mul(1 - s.Metalness)
		diffuse := kd.MulVec(s.Albedo).Mul(1 / math.Pi)

		radiance := SRGBToLinear(light.Color).Mul(light.Intensity / dist2)
		accu = accu.Add(diffuse.Add(specular).MulVec(radiance).Mul(NdL))
	}
	return accu
}
