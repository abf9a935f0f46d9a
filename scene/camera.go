package scene

import (
	"pbr-viewer/core"
	"pbr-viewer/math"
)

// CameraState is the interaction state of an OrbitCamera.
type CameraState int

const (
	CameraIdle CameraState = iota
	CameraDragging
)

func (s CameraState) String() string {
	if s == CameraDragging {
		return "Dragging"
	}
	return "Idle"
}

const (
	CameraFovY = math.Pi / 4
	CameraNear = 0.1
	CameraFar  = 100

	// ElevationLimit keeps the camera strictly inside the open interval
	// (-pi/2, pi/2) so the look-at basis never degenerates.
	ElevationLimit = math.Pi/2 - 0.01
	MinRadius      = 0.5
)

// OrbitCamera orbits a fixed pivot on a sphere described by azimuth,
// elevation and radius. Clamps are applied when the state changes, so the
// matrices it builds are always valid.
type OrbitCamera struct {
	azimuth   float32
	elevation float32
	radius    float32

	Pivot       math.Vec3
	Sensitivity float32 // radians per device pixel
	ZoomStep    float32

	state        CameraState
	lastX, lastY float32
}

func NewOrbitCamera(azimuth, elevation, radius float32) *OrbitCamera {
	c := &OrbitCamera{
		Pivot:       math.Vec3Zero,
		Sensitivity: 0.005,
		ZoomStep:    0.5,
	}
	c.setElevation(elevation)
	c.setRadius(radius)
	c.azimuth = azimuth
	return c
}

func (c *OrbitCamera) Azimuth() float32   { return c.azimuth }
func (c *OrbitCamera) Elevation() float32 { return c.elevation }
func (c *OrbitCamera) Radius() float32    { return c.radius }

func (c *OrbitCamera) State() CameraState {
	return c.state
}

func (c *OrbitCamera) PointerDown(x, y float32) {
	c.state = CameraDragging
	c.lastX, c.lastY = x, y
}

func (c *OrbitCamera) PointerMove(x, y float32) {
	if c.state != CameraDragging {
		return
	}
	dx, dy := x-c.lastX, y-c.lastY
	c.lastX, c.lastY = x, y

	c.azimuth += dx * c.Sensitivity
	c.setElevation(c.elevation + dy*c.Sensitivity)
}

func (c *OrbitCamera) PointerUp() {
	c.state = CameraIdle
}

func (c *OrbitCamera) PointerLeave() {
	c.state = CameraIdle
}

// KeyDown zooms regardless of the drag state. It reports whether the key was used.
func (c *OrbitCamera) KeyDown(key core.Key) bool {
	switch key {
	case core.KeyUp, core.KeyW, core.KeyEqual, core.KeyKPAdd:
		c.setRadius(c.radius - c.ZoomStep)
	case core.KeyDown, core.KeyS, core.KeyMinus, core.KeyKPSub:
		c.setRadius(c.radius + c.ZoomStep)
	default:
		return false
	}
	return true
}

// HandleEvent routes an input event and reports whether the camera consumed it.
func (c *OrbitCamera) HandleEvent(e core.Event) bool {
	switch e.Kind {
	case core.EventPointerDown:
		c.PointerDown(e.X, e.Y)
	case core.EventPointerMove:
		if c.state != CameraDragging {
			return false
		}
		c.PointerMove(e.X, e.Y)
	case core.EventPointerUp:
		c.PointerUp()
	case core.EventPointerLeave:
		c.PointerLeave()
	case core.EventKeyDown:
		return c.KeyDown(e.Key)
	default:
		return false
	}
	return true
}

// Position returns the eye position in world space.
func (c *OrbitCamera) Position() math.Vec3 {
	cosEl := math.Cos(c.elevation)
	offset := math.Vec3{
		X: c.radius * cosEl * math.Sin(c.azimuth),
		Y: c.radius * math.Sin(c.elevation),
		Z: c.radius * cosEl * math.Cos(c.azimuth),
	}
	return c.Pivot.Add(offset)
}

func (c *OrbitCamera) ComputeView() math.Mat4 {
	return math.Mat4LookAt(c.Position(), c.Pivot, math.Vec3Up)
}

func (c *OrbitCamera) ComputeProjection(aspect float32) math.Mat4 {
	if aspect <= 0 {
		aspect = 1
	}
	return math.Mat4Perspective(CameraFovY, aspect, CameraNear, CameraFar)
}

// ViewProjection is the world-to-clip transform (view first, row vectors).
func (c *OrbitCamera) ViewProjection(aspect float32) math.Mat4 {
	return c.ComputeView().Mul(c.ComputeProjection(aspect))
}

func (c *OrbitCamera) setElevation(e float32) {
	c.elevation = math.Clamp(e, -ElevationLimit, ElevationLimit)
}

func (c *OrbitCamera) setRadius(r float32) {
	c.radius = math.Max(r, MinRadius)
}
