package softgl

import (
	"pbr-viewer/math"
	"pbr-viewer/render"
)

// texture follows GL addressing: uv (0, 0) is the first uploaded row and
// texel centers sit at half-integer coordinates.
type texture struct {
	width  int
	height int
	bpp    int
	pix    []byte
	cfg    render.SamplerConfig
}

func (t *texture) Sample(uv math.Vec2) math.Vec4 {
	if t.cfg.Filter == render.FilterNearest {
		x := int(math.Floor(uv.X * float32(t.width)))
		y := int(math.Floor(uv.Y * float32(t.height)))
		return t.texel(x, y)
	}

	fx := uv.X*float32(t.width) - 0.5
	fy := uv.Y*float32(t.height) - 0.5
	x0 := math.Floor(fx)
	y0 := math.Floor(fy)
	tx := fx - x0
	ty := fy - y0
	ix, iy := int(x0), int(y0)

	c00 := t.texel(ix, iy)
	c10 := t.texel(ix+1, iy)
	c01 := t.texel(ix, iy+1)
	c11 := t.texel(ix+1, iy+1)
	top := c00.Lerp(c10, tx)
	bottom := c01.Lerp(c11, tx)
	return top.Lerp(bottom, ty)
}

func (t *texture) texel(x, y int) math.Vec4 {
	x = t.address(x, t.width)
	y = t.address(y, t.height)
	i := (y*t.width + x) * t.bpp
	c := math.Vec4{
		X: float32(t.pix[i]) / 255,
		Y: float32(t.pix[i+1]) / 255,
		Z: float32(t.pix[i+2]) / 255,
		W: 1,
	}
	if t.bpp == 4 {
		c.W = float32(t.pix[i+3]) / 255
	}
	return c
}

func (t *texture) address(i, n int) int {
	if t.cfg.Wrap == render.WrapRepeat {
		i %= n
		if i < 0 {
			i += n
		}
		return i
	}
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
