package stdimg

import (
	"math"

	apperrors "github.com/Fepozopo/imgarith/pkg/errors"
)

const (
	MinBrightnessDelta = -100
	MaxBrightnessDelta = 100
)

// Brightness adds delta to every channel sample, clamping to [0,255].
// No gamma correction is applied. delta==0 returns an identical copy.
func Brightness(src *PixelBuffer, delta int) *PixelBuffer {
	if src == nil {
		return nil
	}
	var lut [256]uint8
	for v := range lut {
		lut[v] = uint8(clampInt(v+delta, 0, 255))
	}
	return mapSamples(src, func(v uint8) uint8 { return lut[v] })
}

// Contrast multiplies every channel sample by factor, rounding and clamping
// to [0,255]. Non-positive factors are allowed and yield a black image;
// the product is not taken as an absolute value.
func Contrast(src *PixelBuffer, factor float64) *PixelBuffer {
	if src == nil {
		return nil
	}
	var lut [256]uint8
	for v := range lut {
		lut[v] = clampFloatToUint8(float64(v) * factor)
	}
	return mapSamples(src, func(v uint8) uint8 { return lut[v] })
}

func validateBrightness(delta int) error {
	if delta < MinBrightnessDelta || delta > MaxBrightnessDelta {
		return apperrors.Validation("brightness", "delta", delta, apperrors.ErrOutOfRange)
	}
	return nil
}

func validateContrast(factor float64) error {
	if math.IsNaN(factor) || math.IsInf(factor, 0) {
		return apperrors.Validation("contrast", "factor", factor, apperrors.ErrOutOfRange)
	}
	return nil
}
