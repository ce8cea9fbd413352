package chafa

import (
	"image"

	"golang.org/x/image/draw"
)

// MaxImageDimension bounds the width and height of a pixel buffer.
const MaxImageDimension = 65535

// Pixels is a host-owned pixel buffer. It is borrowed by the native library
// for the duration of one call and never retained.
type Pixels struct {
	Data   []byte
	Type   PixelType
	Width  int
	Height int
	// RowStride is the distance in bytes between rows. Zero means packed
	// rows of Width*Type.BytesPerPixel() bytes.
	RowStride int
}

// Stride returns the effective row stride.
func (p Pixels) Stride() int {
	if p.RowStride == 0 {
		return p.Width * p.Type.BytesPerPixel()
	}
	return p.RowStride
}

// RequiredLen returns the number of bytes the geometry addresses: every
// full row except the last, plus the pixels of the last row.
func (p Pixels) RequiredLen() int {
	return (p.Height-1)*p.Stride() + p.Width*p.Type.BytesPerPixel()
}

// Validate checks the declared geometry against the buffer. It returns
// ErrInvalidArgument for malformed geometry and ErrBufferTooSmall when Data
// is shorter than the geometry requires.
func (p Pixels) Validate() error {
	if p.Type >= PixelTypeMax {
		return invalidf("pixel type %d out of range", uint32(p.Type))
	}
	if p.Width < 1 || p.Width > MaxImageDimension {
		return invalidf("pixel width %d outside [1,%d]", p.Width, MaxImageDimension)
	}
	if p.Height < 1 || p.Height > MaxImageDimension {
		return invalidf("pixel height %d outside [1,%d]", p.Height, MaxImageDimension)
	}
	if p.RowStride < 0 || p.RowStride > MaxImageDimension*4 {
		return invalidf("row stride %d out of range", p.RowStride)
	}
	rowBytes := p.Width * p.Type.BytesPerPixel()
	if p.RowStride != 0 && p.RowStride < rowBytes {
		return invalidf("row stride %d shorter than row of %d bytes", p.RowStride, rowBytes)
	}
	if need := p.RequiredLen(); len(p.Data) < need {
		return invalidBuffer(len(p.Data), need)
	}
	return nil
}

// PixelsFromImage converts img to a packed RGBA8Unassociated buffer. Images
// larger than MaxImageDimension on either side are scaled down, keeping the
// aspect ratio.
func PixelsFromImage(img image.Image) (Pixels, error) {
	if img == nil {
		return Pixels{}, invalidf("nil image")
	}
	b := img.Bounds()
	if b.Empty() {
		return Pixels{}, invalidf("empty image %v", b)
	}

	w, h := b.Dx(), b.Dy()
	if w > MaxImageDimension || h > MaxImageDimension {
		scale := float64(MaxImageDimension) / float64(max(w, h))
		w = max(int(float64(w)*scale), 1)
		h = max(int(float64(h)*scale), 1)
		dst := image.NewNRGBA(image.Rect(0, 0, w, h))
		draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
		return nrgbaPixels(dst), nil
	}

	if src, ok := img.(*image.NRGBA); ok && src.Stride == 4*w {
		data := make([]byte, 4*w*h)
		copy(data, src.Pix)
		return Pixels{Data: data, Type: PixelRGBA8Unassociated, Width: w, Height: h}, nil
	}

	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Copy(dst, image.Point{}, img, b, draw.Src, nil)
	return nrgbaPixels(dst), nil
}

func nrgbaPixels(img *image.NRGBA) Pixels {
	b := img.Bounds()
	return Pixels{Data: img.Pix, Type: PixelRGBA8Unassociated, Width: b.Dx(), Height: b.Dy(), RowStride: img.Stride}
}
