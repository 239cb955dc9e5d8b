package stdimg

import (
	"fmt"
	"strconv"
	"strings"

	apperrors "github.com/Fepozopo/imgarith/pkg/errors"
)

// BorderMode selects how the padded region is filled.
type BorderMode int

const (
	BorderConstant BorderMode = iota // black
	BorderReplicate                  // aaa|abcd|ddd
	BorderReflect                    // cba|abcd|dcb
)

func (m BorderMode) String() string {
	switch m {
	case BorderConstant:
		return "constant"
	case BorderReplicate:
		return "replicate"
	case BorderReflect:
		return "reflect"
	}
	return "BorderMode(" + strconv.Itoa(int(m)) + ")"
}

// ParseBorderMode accepts "constant", "replicate" or "reflect" (case-insensitive).
func ParseBorderMode(s string) (BorderMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "constant":
		return BorderConstant, nil
	case "replicate":
		return BorderReplicate, nil
	case "reflect":
		return BorderReflect, nil
	}
	return 0, apperrors.Validation("pad", "border", s, apperrors.ErrUnknownValue)
}

// Limits on padding input. A padded image may hold at most MaxPaddedPixels.
const (
	MaxPadding      = 1 << 15
	MaxRatioTerm    = 1 << 15
	MaxPaddedPixels = 1 << 28
)

// AspectRatio is a target width:height ratio.
type AspectRatio struct {
	W, H int
}

func (r AspectRatio) String() string { return fmt.Sprintf("%d:%d", r.W, r.H) }

// ParseAspectRatio accepts "w:h", "square" (1:1) or "none"/"" (nil ratio).
func ParseAspectRatio(s string) (*AspectRatio, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "", "none":
		return nil, nil
	case "square":
		return &AspectRatio{W: 1, H: 1}, nil
	}
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return nil, apperrors.Validation("pad", "ratio", s, apperrors.ErrUnknownValue)
	}
	w, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return nil, apperrors.Validation("pad", "ratio", s, err)
	}
	h, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return nil, apperrors.Validation("pad", "ratio", s, err)
	}
	r := &AspectRatio{W: w, H: h}
	if err := r.validate(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r AspectRatio) validate() error {
	if r.W <= 0 || r.H <= 0 || r.W > MaxRatioTerm || r.H > MaxRatioTerm {
		return apperrors.Validation("pad", "ratio", r.String(), apperrors.ErrOutOfRange)
	}
	return nil
}

// PaddingSpec is the fully resolved amount of padding on each side.
type PaddingSpec struct {
	Top, Bottom, Left, Right int
	Mode                     BorderMode
	Ratio                    *AspectRatio
}

// ResolvePadding computes the per-side padding for an image of w columns by
// h rows. Without a ratio, padY goes on top and bottom and padX on left and
// right. With a ratio, the axis that is too short is padded up to the ratio
// (split evenly, remainder on the bottom/right) and replaces the base padding
// for that axis only.
func ResolvePadding(w, h, padY, padX int, mode BorderMode, ratio *AspectRatio) PaddingSpec {
	spec := PaddingSpec{Top: padY, Bottom: padY, Left: padX, Right: padX, Mode: mode, Ratio: ratio}
	if ratio == nil || w <= 0 || h <= 0 {
		return spec
	}
	// compare w/h with W/H exactly; floors never undershoot the image
	if w*ratio.H < h*ratio.W {
		extra := h*ratio.W/ratio.H - w
		spec.Left = extra / 2
		spec.Right = extra - spec.Left
	} else {
		extra := w*ratio.H/ratio.W - h
		spec.Top = extra / 2
		spec.Bottom = extra - spec.Top
	}
	return spec
}

// Pad returns a new buffer enlarged by spec, filling the border per spec.Mode.
func Pad(src *PixelBuffer, spec PaddingSpec) *PixelBuffer {
	if src == nil {
		return nil
	}
	w, h := src.Width(), src.Height()
	outW := w + spec.Left + spec.Right
	outH := h + spec.Top + spec.Bottom
	out := NewPixelBuffer(outW, outH)
	if w == 0 || h == 0 {
		// nothing to replicate or reflect; border stays black
		return out
	}
	for y := 0; y < outH; y++ {
		sy, okY := borderIndex(y-spec.Top, h, spec.Mode)
		for x := 0; x < outW; x++ {
			sx, okX := borderIndex(x-spec.Left, w, spec.Mode)
			if !okX || !okY {
				continue
			}
			si := src.PixOffset(src.Rect.Min.X+sx, src.Rect.Min.Y+sy)
			di := out.PixOffset(x, y)
			copy(out.Pix[di:di+3], src.Pix[si:si+3])
		}
	}
	return out
}

// borderIndex maps coordinate p onto [0,n) for the given mode. ok is false
// when p falls outside the image under BorderConstant.
func borderIndex(p, n int, mode BorderMode) (int, bool) {
	if p >= 0 && p < n {
		return p, true
	}
	switch mode {
	case BorderReplicate:
		return clampInt(p, 0, n-1), true
	case BorderReflect:
		period := 2 * n
		p %= period
		if p < 0 {
			p += period
		}
		if p >= n {
			p = period - 1 - p
		}
		return p, true
	}
	return 0, false
}

func validatePad(src *PixelBuffer, padY, padX int, mode BorderMode, ratio *AspectRatio) error {
	if padY < 0 || padY > MaxPadding {
		return apperrors.Validation("pad", "pad_y", padY, apperrors.ErrOutOfRange)
	}
	if padX < 0 || padX > MaxPadding {
		return apperrors.Validation("pad", "pad_x", padX, apperrors.ErrOutOfRange)
	}
	if ratio != nil {
		if err := ratio.validate(); err != nil {
			return err
		}
		if src.Width() == 0 || src.Height() == 0 {
			return apperrors.Validation("pad", "size", fmt.Sprintf("%dx%d", src.Width(), src.Height()), apperrors.ErrOutOfRange)
		}
	}
	spec := ResolvePadding(src.Width(), src.Height(), padY, padX, mode, ratio)
	outW := src.Width() + spec.Left + spec.Right
	outH := src.Height() + spec.Top + spec.Bottom
	if spec.Top < 0 || spec.Bottom < 0 || spec.Left < 0 || spec.Right < 0 ||
		outW < 0 || outH < 0 || (outH > 0 && outW > MaxPaddedPixels/outH) {
		return apperrors.Validation("pad", "size", fmt.Sprintf("%dx%d", outW, outH), apperrors.ErrOutOfRange)
	}
	return nil
}
