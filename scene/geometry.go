package scene

import (
	"errors"
	"fmt"
	stdmath "math"

	"pbr-viewer/core"
	"pbr-viewer/math"
)

// Geometry is an indexed triangle list. Radius is the bounding radius around
// the local origin and is used to lay instances out in the grid.
type Geometry struct {
	Name     string
	Vertices []core.Vertex
	Indices  []uint32
	Radius   float32
}

// Validate checks that the geometry describes at least one triangle and that
// every index refers to an existing vertex.
func (g *Geometry) Validate() error {
	if g == nil {
		return errors.New("nil geometry")
	}
	if len(g.Vertices) == 0 {
		return errors.New("no vertices")
	}
	if len(g.Indices) == 0 || len(g.Indices)%3 != 0 {
		return fmt.Errorf("index count %d is not a positive multiple of 3", len(g.Indices))
	}
	for i, idx := range g.Indices {
		if int(idx) >= len(g.Vertices) {
			return fmt.Errorf("index %d references vertex %d of %d", i, idx, len(g.Vertices))
		}
	}
	return nil
}

// CreateSphere generates a UV-sphere
func CreateSphere(radius float32, segments, rings int) *Geometry {
	if segments < 3 {
		segments = 3
	}
	if rings < 2 {
		rings = 2
	}

	vertices := make([]core.Vertex, 0, (rings+1)*(segments+1))
	indices := make([]uint32, 0, rings*segments*6)

	for ring := 0; ring <= rings; ring++ {
		phi := float64(ring) * stdmath.Pi / float64(rings)
		sinPhi := float32(stdmath.Sin(phi))
		cosPhi := float32(stdmath.Cos(phi))

		for seg := 0; seg <= segments; seg++ {
			theta := float64(seg) * 2.0 * stdmath.Pi / float64(segments)
			sinTheta := float32(stdmath.Sin(theta))
			cosTheta := float32(stdmath.Cos(theta))

			normal := math.Vec3{X: sinPhi * cosTheta, Y: cosPhi, Z: sinPhi * sinTheta}
			vertices = append(vertices, core.Vertex{
				Position: normal.Mul(radius),
				Normal:   normal,
				UV:       math.Vec2{X: float32(seg) / float32(segments), Y: float32(ring) / float32(rings)},
			})
		}
	}

	// Counter-clockwise seen from outside.
	for ring := 0; ring < rings; ring++ {
		for seg := 0; seg < segments; seg++ {
			current := uint32(ring*(segments+1) + seg)
			next := current + uint32(segments+1)

			indices = append(indices, current, current+1, next)
			indices = append(indices, current+1, next+1, next)
		}
	}

	return &Geometry{
		Name:     "Sphere",
		Vertices: vertices,
		Indices:  indices,
		Radius:   radius,
	}
}

// DefaultSphere is the unit sphere drawn in every grid cell.
func DefaultSphere() *Geometry {
	return CreateSphere(1, 64, 32)
}

func boundingRadius(vertices []core.Vertex) float32 {
	var r float32
	for _, v := range vertices {
		r = math.Max(r, v.Position.Length())
	}
	return r
}
