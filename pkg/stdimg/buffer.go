package stdimg

import (
	"image"
	"image/color"
)

// PixelBuffer is an in-memory 3-channel, 8-bit raster. Transforms never
// modify a buffer they receive; they always return a new one.
type PixelBuffer struct {
	// Pix holds the image's pixels, in B, G, R order. The pixel at
	// (x, y) starts at Pix[(y-Rect.Min.Y)*Stride + (x-Rect.Min.X)*3].
	Pix []uint8
	// Stride is the Pix stride (in bytes) between vertically adjacent pixels.
	Stride int
	// Rect is the image's bounds.
	Rect image.Rectangle
}

// NewPixelBuffer returns a black buffer of w columns by h rows.
func NewPixelBuffer(w, h int) *PixelBuffer {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return &PixelBuffer{
		Pix:    make([]uint8, w*h*3),
		Stride: w * 3,
		Rect:   image.Rect(0, 0, w, h),
	}
}

// FromImage converts any image.Image into a PixelBuffer anchored at (0,0).
// Alpha is discarded: pixels are composited as if on black.
func FromImage(src image.Image) *PixelBuffer {
	if src == nil {
		return nil
	}
	if p, ok := src.(*PixelBuffer); ok {
		return p.Clone()
	}
	if rgba, ok := src.(*image.RGBA); ok {
		return fromRGBA(rgba)
	}
	b := src.Bounds()
	out := NewPixelBuffer(b.Dx(), b.Dy())
	idx := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			// premultiplied 16-bit values; >>8 gives the colour over black
			r, g, b_, _ := src.At(x, y).RGBA()
			out.Pix[idx+0] = uint8(b_ >> 8)
			out.Pix[idx+1] = uint8(g >> 8)
			out.Pix[idx+2] = uint8(r >> 8)
			idx += 3
		}
	}
	return out
}

func (p *PixelBuffer) ColorModel() color.Model { return color.RGBAModel }

func (p *PixelBuffer) Bounds() image.Rectangle { return p.Rect }

func (p *PixelBuffer) At(x, y int) color.Color {
	return p.RGBAAt(x, y)
}

func (p *PixelBuffer) RGBAAt(x, y int) color.RGBA {
	if !(image.Point{x, y}.In(p.Rect)) {
		return color.RGBA{}
	}
	i := p.PixOffset(x, y)
	s := p.Pix[i : i+3 : i+3]
	return color.RGBA{s[2], s[1], s[0], 255}
}

// PixOffset returns the index of the first element of Pix that corresponds to
// the pixel at (x, y).
func (p *PixelBuffer) PixOffset(x, y int) int {
	return (y-p.Rect.Min.Y)*p.Stride + (x-p.Rect.Min.X)*3
}

// Width is the number of columns.
func (p *PixelBuffer) Width() int { return p.Rect.Dx() }

// Height is the number of rows.
func (p *PixelBuffer) Height() int { return p.Rect.Dy() }

// Clone returns a deep copy normalized to a (0,0) origin and tight stride.
func (p *PixelBuffer) Clone() *PixelBuffer {
	if p == nil {
		return nil
	}
	w, h := p.Width(), p.Height()
	out := NewPixelBuffer(w, h)
	for y := 0; y < h; y++ {
		si := p.PixOffset(p.Rect.Min.X, p.Rect.Min.Y+y)
		copy(out.Pix[y*out.Stride:(y+1)*out.Stride], p.Pix[si:si+w*3])
	}
	return out
}

// Equal reports whether both buffers have the same size and pixel values.
func (p *PixelBuffer) Equal(o *PixelBuffer) bool {
	if p == nil || o == nil {
		return p == o
	}
	if p.Width() != o.Width() || p.Height() != o.Height() {
		return false
	}
	w := p.Width() * 3
	for y := 0; y < p.Height(); y++ {
		pi := p.PixOffset(p.Rect.Min.X, p.Rect.Min.Y+y)
		oi := o.PixOffset(o.Rect.Min.X, o.Rect.Min.Y+y)
		a := p.Pix[pi : pi+w]
		b := o.Pix[oi : oi+w]
		for k := range a {
			if a[k] != b[k] {
				return false
			}
		}
	}
	return true
}

// mapSamples builds a new buffer by applying f to every channel sample.
// The output always has a tight stride and (0,0) origin.
func mapSamples(src *PixelBuffer, f func(v uint8) uint8) *PixelBuffer {
	w, h := src.Width(), src.Height()
	out := NewPixelBuffer(w, h)
	for y := 0; y < h; y++ {
		si := src.PixOffset(src.Rect.Min.X, src.Rect.Min.Y+y)
		row := src.Pix[si : si+w*3]
		dst := out.Pix[y*out.Stride : (y+1)*out.Stride]
		for k, v := range row {
			dst[k] = f(v)
		}
	}
	return out
}

// clampInt clamps v to [lo,hi]
func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// clampFloatToUint8 rounds v to the nearest integer and clamps it to [0,255].
func clampFloatToUint8(v float64) uint8 {
	if v != v || v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}
