package stdimg

// Rec.601 luma weights in 14-bit fixed point; they sum to 1<<14 so a gray
// pixel maps to itself.
const (
	lumaShift = 14
	lumaR     = 4899
	lumaG     = 9617
	lumaB     = 1868
)

// Luma returns the rounded Rec.601 luma of a BGR triple.
func Luma(b, g, r uint8) uint8 {
	return uint8((uint32(r)*lumaR + uint32(g)*lumaG + uint32(b)*lumaB + 1<<(lumaShift-1)) >> lumaShift)
}

// Grayscale sets all three channels of every pixel to its luma. The result
// stays 3-channel.
func Grayscale(src *PixelBuffer) *PixelBuffer {
	if src == nil {
		return nil
	}
	w, h := src.Width(), src.Height()
	out := NewPixelBuffer(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := src.PixOffset(src.Rect.Min.X+x, src.Rect.Min.Y+y)
			l := Luma(src.Pix[i+0], src.Pix[i+1], src.Pix[i+2])
			o := out.PixOffset(x, y)
			out.Pix[o+0] = l
			out.Pix[o+1] = l
			out.Pix[o+2] = l
		}
	}
	return out
}
