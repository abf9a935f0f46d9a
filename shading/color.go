// Package shading holds the physically-based shading model: the GLSL
// program drawn by the GPU device and a Go mirror of the same math that the
// software device executes and tests assert against.
package shading

import "pbr-viewer/math"

// SRGBToLinearChannel decodes one display-encoded channel (three.js constants).
func SRGBToLinearChannel(c float32) float32 {
	if c <= 0.04045 {
		return c * 0.0773993808
	}
	return math.Pow(c*0.9478672986+0.0521327014, 2.4)
}

// LinearToSRGBChannel encodes one linear channel for display.
func LinearToSRGBChannel(c float32) float32 {
	if c <= 0.0031308 {
		return c * 12.92
	}
	return math.Pow(c, 1.0/2.4)*1.055 - 0.055
}

func SRGBToLinear(c math.Vec3) math.Vec3 {
	return c.Map(SRGBToLinearChannel)
}

func LinearToSRGB(c math.Vec3) math.Vec3 {
	return c.Map(LinearToSRGBChannel)
}
