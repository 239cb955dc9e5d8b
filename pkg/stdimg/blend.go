package stdimg

import (
	"math"

	apperrors "github.com/Fepozopo/imgarith/pkg/errors"
)

// Blend returns round(alpha*a + (1-alpha)*b) per channel. When b's size
// differs from a's, b is first resampled to a's size.
func Blend(a, b *PixelBuffer, alpha float64) *PixelBuffer {
	if a == nil || b == nil {
		return nil
	}
	w, h := a.Width(), a.Height()
	if b.Width() != w || b.Height() != h {
		b = Resize(b, w, h, nil)
	}
	beta := 1 - alpha
	out := NewPixelBuffer(w, h)
	for y := 0; y < h; y++ {
		ai := a.PixOffset(a.Rect.Min.X, a.Rect.Min.Y+y)
		bi := b.PixOffset(b.Rect.Min.X, b.Rect.Min.Y+y)
		di := y * out.Stride
		for k := 0; k < w*3; k++ {
			v := alpha*float64(a.Pix[ai+k]) + beta*float64(b.Pix[bi+k])
			out.Pix[di+k] = clampFloatToUint8(v)
		}
	}
	return out
}

func validateBlend(other *PixelBuffer, alpha float64) error {
	if other == nil {
		return apperrors.Validation("blend", "image", nil, apperrors.ErrNilBuffer)
	}
	if math.IsNaN(alpha) || alpha < 0 || alpha > 1 {
		return apperrors.Validation("blend", "alpha", alpha, apperrors.ErrOutOfRange)
	}
	return nil
}
