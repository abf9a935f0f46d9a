package opengl

import (
	"fmt"
	"unsafe"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"pbr-viewer/render"
)

// CreateTexture uploads pix to a new 2D texture. Rows are uploaded in buffer
// order; any flipping has already been applied by the caller.
func (d *Device) CreateTexture(pix render.PixelBuffer, cfg render.SamplerConfig) (uint32, error) {
	var internalFormat int32
	var format uint32
	switch pix.Format {
	case render.FormatRGBA8:
		internalFormat, format = gl.RGBA8, gl.RGBA
	case render.FormatRGB8:
		internalFormat, format = gl.RGB8, gl.RGB
	default:
		return 0, fmt.Errorf("unsupported format %v", pix.Format)
	}

	for gl.GetError() != gl.NO_ERROR {
	}

	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)

	wrap := int32(gl.CLAMP_TO_EDGE)
	if cfg.Wrap == render.WrapRepeat {
		wrap = gl.REPEAT
	}
	filter := int32(gl.LINEAR)
	if cfg.Filter == render.FilterNearest {
		filter = gl.NEAREST
	}
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, wrap)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, wrap)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, filter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, filter)

	gl.TexImage2D(
		gl.TEXTURE_2D,
		0,
		internalFormat,
		int32(pix.Width),
		int32(pix.Height),
		0,
		format,
		gl.UNSIGNED_BYTE,
		unsafe.Pointer(&pix.Pix[0]),
	)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	if code := gl.GetError(); code != gl.NO_ERROR {
		gl.DeleteTextures(1, &id)
		return 0, fmt.Errorf("texture upload: GL error 0x%x", code)
	}
	return id, nil
}

func (d *Device) DeleteTexture(id uint32) {
	if id == 0 {
		return
	}
	gl.DeleteTextures(1, &id)
}
