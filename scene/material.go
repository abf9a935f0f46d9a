package scene

import (
	"pbr-viewer/core"
	"pbr-viewer/math"
)

// Material is the metallic-roughness surface description consumed by the
// PBR shader. Albedo is display-encoded.
type Material struct {
	Albedo    core.Color
	Roughness float32 // 0 = perfectly smooth, 1 = fully rough
	Metalness float32 // 0 = dielectric, 1 = fully metallic
}

// DefaultMaterial returns a white, half-rough dielectric.
func DefaultMaterial() Material {
	return Material{
		Albedo:    core.ColorWhite,
		Roughness: 0.5,
	}
}

func (m *Material) SetAlbedoRGB(r, g, b uint8) {
	m.Albedo = core.ColorRGB8(r, g, b)
}

func (m *Material) SetRoughness(r float32) {
	m.Roughness = math.Clamp(r, 0, 1)
}

func (m *Material) SetMetalness(v float32) {
	m.Metalness = math.Clamp(v, 0, 1)
}
