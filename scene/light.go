package scene

import (
	"pbr-viewer/core"
	"pbr-viewer/math"
)

// PointLight emits from a single world-space position. Color is
// display-encoded; the shader linearizes it.
type PointLight struct {
	PositionWS math.Vec3
	Color      core.Color
	Intensity  float32
}

func NewPointLight(position math.Vec3) *PointLight {
	return &PointLight{
		PositionWS: position,
		Color:      core.ColorWhite,
		Intensity:  1,
	}
}

func (l *PointLight) SetPosition(x, y, z float32) {
	l.PositionWS = math.Vec3{X: x, Y: y, Z: z}
}

// SetColorRGB sets the color from 0-255 channels.
func (l *PointLight) SetColorRGB(r, g, b uint8) {
	l.Color = core.ColorRGB8(r, g, b)
}

// SetIntensity clamps negative values to zero.
func (l *PointLight) SetIntensity(intensity float32) {
	l.Intensity = math.Max(intensity, 0)
}
