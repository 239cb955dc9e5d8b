package stdimg

import (
	"image"

	xdraw "golang.org/x/image/draw"
)

// Resize resamples src to w x h. Defaults to draw.BiLinear when interp is nil.
func Resize(src *PixelBuffer, w, h int, interp xdraw.Interpolator) *PixelBuffer {
	if src == nil {
		return nil
	}
	if w == src.Width() && h == src.Height() {
		return src.Clone()
	}
	if w <= 0 || h <= 0 {
		return NewPixelBuffer(w, h)
	}
	if interp == nil {
		interp = xdraw.BiLinear
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	if src.Width() > 0 && src.Height() > 0 {
		interp.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	}
	return fromRGBA(dst)
}

// fromRGBA copies premultiplied RGBA samples, which are already the colour
// over black.
func fromRGBA(src *image.RGBA) *PixelBuffer {
	b := src.Bounds()
	out := NewPixelBuffer(b.Dx(), b.Dy())
	for y := 0; y < b.Dy(); y++ {
		si := src.PixOffset(b.Min.X, b.Min.Y+y)
		di := y * out.Stride
		for x := 0; x < b.Dx(); x++ {
			out.Pix[di+0] = src.Pix[si+2]
			out.Pix[di+1] = src.Pix[si+1]
			out.Pix[di+2] = src.Pix[si+0]
			si += 4
			di += 3
		}
	}
	return out
}
