package render

import (
	"fmt"
	"image"
)

type PixelFormat int

const (
	FormatRGBA8 PixelFormat = iota
	FormatRGB8
)

func (f PixelFormat) String() string {
	switch f {
	case FormatRGBA8:
		return "RGBA8"
	case FormatRGB8:
		return "RGB8"
	default:
		return fmt.Sprintf("PixelFormat(%d)", int(f))
	}
}

// BytesPerPixel returns 0 for unknown formats.
func (f PixelFormat) BytesPerPixel() int {
	switch f {
	case FormatRGBA8:
		return 4
	case FormatRGB8:
		return 3
	default:
		return 0
	}
}

// PixelBuffer is tightly packed 8-bit pixel data, first row first.
type PixelBuffer struct {
	Width  int
	Height int
	Format PixelFormat
	Pix    []byte
}

// NewPixelBuffer copies an NRGBA image. Non-premultiplied data keeps the RGBM
// multiplier in alpha intact.
func NewPixelBuffer(img *image.NRGBA) PixelBuffer {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	pix := make([]byte, w*h*4)
	for y := 0; y < h; y++ {
		off := img.PixOffset(b.Min.X, b.Min.Y+y)
		copy(pix[y*w*4:(y+1)*w*4], img.Pix[off:off+w*4])
	}
	return PixelBuffer{Width: w, Height: h, Format: FormatRGBA8, Pix: pix}
}

// Validate checks that the buffer size matches its dimensions and format.
func (p PixelBuffer) Validate() error {
	bpp := p.Format.BytesPerPixel()
	if bpp == 0 {
		return fmt.Errorf("unsupported format %v", p.Format)
	}
	if p.Width <= 0 || p.Height <= 0 {
		return fmt.Errorf("invalid size %dx%d", p.Width, p.Height)
	}
	if len(p.Pix) != p.Width*p.Height*bpp {
		return fmt.Errorf("%d bytes for %dx%d %v", len(p.Pix), p.Width, p.Height, p.Format)
	}
	return nil
}

// FlippedY returns a copy with the row order reversed.
func (p PixelBuffer) FlippedY() PixelBuffer {
	stride := p.Width * p.Format.BytesPerPixel()
	out := p
	out.Pix = make([]byte, len(p.Pix))
	for y := 0; y < p.Height; y++ {
		copy(out.Pix[y*stride:(y+1)*stride], p.Pix[(p.Height-1-y)*stride:(p.Height-y)*stride])
	}
	return out
}

type Filter int

const (
	FilterLinear Filter = iota
	FilterNearest
)

type Wrap int

const (
	WrapClamp Wrap = iota
	WrapRepeat
)

// SamplerConfig is fixed at texture creation.
type SamplerConfig struct {
	Filter Filter
	Wrap   Wrap
	// FlipY uploads the last row first so v = 1 samples the top of the image.
	FlipY bool
}

// EnvironmentSampler is used for the RGBM environment maps and the BRDF LUT.
func EnvironmentSampler() SamplerConfig {
	return SamplerConfig{Filter: FilterLinear, Wrap: WrapClamp, FlipY: true}
}

// Texture is a GPU texture owned by the Context that created it.
type Texture struct {
	Width   int
	Height  int
	Format  PixelFormat
	Sampler SamplerConfig

	id  uint32
	ctx *Context
}

// Ref wraps the texture as a uniform value.
func (t *Texture) Ref() TextureRef {
	return TextureRef{Texture: t}
}

// Mesh is an uploaded Geometry.
type Mesh struct {
	Name        string
	VertexCount int
	IndexCount  int32
	Radius      float32

	id  uint32
	ctx *Context
}
