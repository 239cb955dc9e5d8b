package stdimg

import (
	"strconv"
	"strings"

	apperrors "github.com/Fepozopo/imgarith/pkg/errors"
)

// ThresholdStrategy selects which side of the threshold receives the high value.
type ThresholdStrategy int

const (
	ThreshBinary    ThresholdStrategy = iota // v > low -> high, else 0
	ThreshBinaryInv                          // v > low -> 0, else high
)

func (s ThresholdStrategy) String() string {
	switch s {
	case ThreshBinary:
		return "binary"
	case ThreshBinaryInv:
		return "binary-inverse"
	}
	return "ThresholdStrategy(" + strconv.Itoa(int(s)) + ")"
}

// ParseThresholdStrategy accepts "binary" and "binary-inverse" (also "binary-inv", "inverse").
func ParseThresholdStrategy(s string) (ThresholdStrategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "binary":
		return ThreshBinary, nil
	case "binary-inverse", "binary-inv", "binary_inv", "inverse":
		return ThreshBinaryInv, nil
	}
	return 0, apperrors.Validation("threshold", "strategy", s, apperrors.ErrUnknownValue)
}

// Threshold maps every channel sample independently to either high or 0.
func Threshold(src *PixelBuffer, low, high uint8, strategy ThresholdStrategy) *PixelBuffer {
	if src == nil {
		return nil
	}
	above, below := high, uint8(0)
	if strategy == ThreshBinaryInv {
		above, below = 0, high
	}
	return mapSamples(src, func(v uint8) uint8 {
		if v > low {
			return above
		}
		return below
	})
}

func validateThreshold(low, high int, strategy ThresholdStrategy) error {
	if low < 0 || low > 255 {
		return apperrors.Validation("threshold", "low", low, apperrors.ErrOutOfRange)
	}
	if high < 0 || high > 255 {
		return apperrors.Validation("threshold", "high", high, apperrors.ErrOutOfRange)
	}
	if strategy != ThreshBinary && strategy != ThreshBinaryInv {
		return apperrors.Validation("threshold", "strategy", strategy, apperrors.ErrUnknownValue)
	}
	return nil
}
