package scene

import "pbr-viewer/math"

// Plane is the half-space Normal·p + D >= 0.
type Plane struct {
	Normal math.Vec3
	D      float32
}

// DistanceTo returns the signed distance, positive on the inside.
func (p Plane) DistanceTo(pt math.Vec3) float32 {
	return p.Normal.Dot(pt) + p.D
}

// Frustum holds the six clip planes of a view frustum: left, right, bottom,
// top, near and far.
type Frustum struct {
	Planes [6]Plane
}

// FrustumFromViewProjection extracts the planes of a world-to-clip matrix
// (Gribb/Hartmann). With row vectors, clip.x is the dot product of the
// point with column 0 of vp, so the planes come from columns.
func FrustumFromViewProjection(vp math.Mat4) Frustum {
	col := func(i int) math.Vec4 {
		return math.Vec4{X: vp[0][i], Y: vp[1][i], Z: vp[2][i], W: vp[3][i]}
	}
	cx, cy, cz, cw := col(0), col(1), col(2), col(3)

	var f Frustum
	f.Planes[0] = planeFrom(cw.Add(cx))
	f.Planes[1] = planeFrom(cw.Add(cx.Mul(-1)))
	f.Planes[2] = planeFrom(cw.Add(cy))
	f.Planes[3] = planeFrom(cw.Add(cy.Mul(-1)))
	f.Planes[4] = planeFrom(cw.Add(cz))
	f.Planes[5] = planeFrom(cw.Add(cz.Mul(-1)))
	return f
}

func planeFrom(v math.Vec4) Plane {
	n := v.ToVec3()
	l := n.Length()
	if l == 0 {
		return Plane{}
	}
	return Plane{Normal: n.Mul(1 / l), D: v.W / l}
}

// ContainsSphere reports false only if the sphere lies entirely outside one
// of the planes.
func (f *Frustum) ContainsSphere(center math.Vec3, radius float32) bool {
	for _, p := range f.Planes {
		if p.DistanceTo(center) < -radius {
			return false
		}
	}
	return true
}
