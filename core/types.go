package core

import (
	"pbr-viewer/math"
)

// Color is an RGBA color with float channels in [0, 1]. Whether it is
// display-encoded or linear depends on where it is used.
type Color struct {
	R, G, B, A float32
}

var (
	ColorWhite = Color{1, 1, 1, 1}
	ColorBlack = Color{0, 0, 0, 1}
	ColorRed   = Color{1, 0, 0, 1}
	ColorGreen = Color{0, 1, 0, 1}
	ColorBlue  = Color{0, 0, 1, 1}
)

// ColorRGB8 converts 0-255 channels to a color.
func ColorRGB8(r, g, b uint8) Color {
	return Color{R: float32(r) / 255, G: float32(g) / 255, B: float32(b) / 255, A: 1}
}

func (c Color) RGB() math.Vec3 {
	return math.Vec3{X: c.R, Y: c.G, Z: c.B}
}

// Vertex is the interleaved layout uploaded to the GPU: attribute slot 0 is
// Position, 1 is Normal, 2 is UV.
type Vertex struct {
	Position math.Vec3
	Normal   math.Vec3
	UV       math.Vec2
}

// Viewport is expressed in device pixels.
type Viewport struct {
	X, Y, Width, Height int32
}

func (v Viewport) AspectRatio() float32 {
	if v.Height <= 0 {
		return 1
	}
	return float32(v.Width) / float32(v.Height)
}
