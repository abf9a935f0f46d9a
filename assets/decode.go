package assets

import (
	"bufio"
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"

	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/draw"
	"golang.org/x/image/webp"
)

var (
	pngMagic  = []byte("\x89PNG\r\n\x1a\n")
	jpegMagic = []byte{0xff, 0xd8, 0xff}
)

// Decode reads a PNG, JPEG, WebP or TGA image into non-premultiplied RGBA.
// The format is chosen from the leading bytes and anything unrecognised is
// read as TGA, which has no signature. tga registers an empty magic with the
// image package, so image.Decode must not be used here.
// RGBM data relies on alpha being left untouched, which holds for PNG since
// the decoder already returns NRGBA.
func Decode(r io.Reader) (*image.NRGBA, string, error) {
	br := bufio.NewReader(r)
	head, _ := br.Peek(12)

	var (
		img    image.Image
		format string
		err    error
	)
	switch {
	case bytes.HasPrefix(head, pngMagic):
		format = "png"
		img, err = png.Decode(br)
	case bytes.HasPrefix(head, jpegMagic):
		format = "jpeg"
		img, err = jpeg.Decode(br)
	case len(head) == 12 && string(head[:4]) == "RIFF" && string(head[8:]) == "WEBP":
		format = "webp"
		img, err = webp.Decode(br)
	default:
		format = "tga"
		img, err = tga.Decode(br)
	}
	if err != nil {
		return nil, "", err
	}
	return ToNRGBA(img), format, nil
}

// DecodeFile decodes the image at path and, when maxDimension > 0, scales it
// down so neither side exceeds maxDimension.
func DecodeFile(path string, maxDimension int) (*image.NRGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("assets: open %s: %w", path, err)
	}
	defer f.Close()

	img, _, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("assets: decode %s: %w", path, err)
	}
	return Downscale(img, maxDimension), nil
}

// ToNRGBA returns src unchanged if it already is an NRGBA image with a zero
// origin, otherwise a converted copy.
func ToNRGBA(src image.Image) *image.NRGBA {
	if n, ok := src.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) {
		return n
	}
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}

// Downscale keeps the aspect ratio. Images already within maxDimension, or
// maxDimension <= 0, are returned as is.
func Downscale(img *image.NRGBA, maxDimension int) *image.NRGBA {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	if maxDimension <= 0 || (w <= maxDimension && h <= maxDimension) {
		return img
	}
	nw, nh := maxDimension, maxDimension
	if w >= h {
		nh = max(1, h*maxDimension/w)
	} else {
		nw = max(1, w*maxDimension/h)
	}
	dst := image.NewNRGBA(image.Rect(0, 0, nw, nh))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}
