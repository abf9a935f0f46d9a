package softgl

import (
	"pbr-viewer/math"
	"pbr-viewer/shading"
)

// minW rejects triangles touching or behind the eye plane. There is no
// near-plane clipping.
const minW = 1e-6

type clipVertex struct {
	// x, y in buffer pixels with rows growing downward, z as window depth.
	x, y, z float32
	invW    float32
	out     shading.Varyings
	ok      bool
}

// DrawIndexed runs the pipeline over indexCount indices of the mesh with the
// current program's uniforms. Both windings are drawn.
func (d *Device) DrawIndexed(id uint32, indexCount int32) {
	m, ok := d.meshes[id]
	if !ok || d.current == nil {
		return
	}
	n := int(indexCount)
	if n > len(m.indices) {
		n = len(m.indices)
	}

	u := uniformView{d: d, p: d.current}
	cache := make(map[uint32]clipVertex)
	shade := func(idx uint32) clipVertex {
		if cv, ok := cache[idx]; ok {
			return cv
		}
		cv := d.project(d.pipeline.Vertex(u, m.vertices[idx]))
		cache[idx] = cv
		return cv
	}

	for i := 0; i+2 < n; i += 3 {
		a, b, c := shade(m.indices[i]), shade(m.indices[i+1]), shade(m.indices[i+2])
		if !a.ok || !b.ok || !c.ok {
			continue
		}
		d.triangle(u, a, b, c)
	}
}

func (d *Device) project(clip math.Vec4, out shading.Varyings) clipVertex {
	if !(clip.W > minW) || !clip.IsFinite() {
		return clipVertex{}
	}
	invW := 1 / clip.W
	nx, ny, nz := clip.X*invW, clip.Y*invW, clip.Z*invW
	vx, vy, vw, vh := float32(d.viewport[0]), float32(d.viewport[1]), float32(d.viewport[2]), float32(d.viewport[3])
	glY := vy + (ny+1)*0.5*vh
	return clipVertex{
		x:    vx + (nx+1)*0.5*vw,
		y:    float32(d.height) - glY,
		z:    (nz + 1) * 0.5,
		invW: invW,
		out:  out,
		ok:   true,
	}
}

func (d *Device) triangle(u uniformView, a, b, c clipVertex) {
	area := edge(a, b, c.x, c.y)
	if area > -1e-12 && area < 1e-12 {
		return
	}

	left := int(d.viewport[0])
	right := int(d.viewport[0] + d.viewport[2])
	top := d.height - int(d.viewport[1]+d.viewport[3])
	bottom := d.height - int(d.viewport[1])

	minX := clampInt(int(math.Floor(min3(a.x, b.x, c.x))), left, right)
	maxX := clampInt(int(math.Ceil(max3(a.x, b.x, c.x))), left, right)
	minY := clampInt(int(math.Floor(min3(a.y, b.y, c.y))), top, bottom)
	maxY := clampInt(int(math.Ceil(max3(a.y, b.y, c.y))), top, bottom)

	invArea := 1 / area
	for py := minY; py < maxY; py++ {
		sy := float32(py) + 0.5
		for px := minX; px < maxX; px++ {
			sx := float32(px) + 0.5
			w0 := edge(b, c, sx, sy) * invArea
			w1 := edge(c, a, sx, sy) * invArea
			w2 := edge(a, b, sx, sy) * invArea
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}

			z := w0*a.z + w1*b.z + w2*c.z
			if z < 0 || z > 1 {
				continue
			}
			i := py*d.width + px
			if d.depthTest && !(z < d.depth[i]) {
				continue
			}

			// Perspective-correct weights.
			p0, p1, p2 := w0*a.invW, w1*b.invW, w2*c.invW
			sum := p0 + p1 + p2
			in := shading.Lerp3(a.out, b.out, c.out, p0/sum, p1/sum, p2/sum)

			d.color[i] = d.pipeline.Fragment(u, in)
			d.written[i] = true
			if d.depthTest {
				d.depth[i] = z
			}
		}
	}
}

func edge(a, b clipVertex, x, y float32) float32 {
	return (b.x-a.x)*(y-a.y) - (b.y-a.y)*(x-a.x)
}

func min3(a, b, c float32) float32 {
	return math.Min(a, math.Min(b, c))
}

func max3(a, b, c float32) float32 {
	return math.Max(a, math.Max(b, c))
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
