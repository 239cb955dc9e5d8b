package stdimg

import (
	"fmt"
	"strconv"

	apperrors "github.com/Fepozopo/imgarith/pkg/errors"
)

// Command is one transform request. The set of implementations is closed:
// BrightnessCmd, ContrastCmd, GrayscaleCmd, PadCmd, ThresholdCmd, BlendCmd.
type Command interface {
	// Name is the registry name of the operation (see Commands).
	Name() string
	command()
}

type BrightnessCmd struct {
	Delta int
}

type ContrastCmd struct {
	Factor float64
}

type GrayscaleCmd struct{}

// PadCmd carries the base padding; a non-nil Ratio overrides the base
// padding on the axis that has to grow.
type PadCmd struct {
	PadY, PadX int
	Mode       BorderMode
	Ratio      *AspectRatio
}

type ThresholdCmd struct {
	Low, High int
	Strategy  ThresholdStrategy
}

// BlendCmd blends the current image with Other, weighting the current image by Alpha.
type BlendCmd struct {
	Other *PixelBuffer
	Alpha float64
}

func (BrightnessCmd) Name() string { return "brightness" }
func (ContrastCmd) Name() string   { return "contrast" }
func (GrayscaleCmd) Name() string  { return "grayscale" }
func (PadCmd) Name() string        { return "pad" }
func (ThresholdCmd) Name() string  { return "threshold" }
func (BlendCmd) Name() string      { return "blend" }

func (BrightnessCmd) command() {}
func (ContrastCmd) command()   {}
func (GrayscaleCmd) command()  {}
func (PadCmd) command()        {}
func (ThresholdCmd) command()  {}
func (BlendCmd) command()      {}

// Validate checks cmd's parameters against src without running the transform.
func Validate(src *PixelBuffer, cmd Command) error {
	if src == nil {
		return apperrors.New(apperrors.CategoryValidation, "apply", apperrors.ErrNilBuffer)
	}
	switch c := cmd.(type) {
	case BrightnessCmd:
		return validateBrightness(c.Delta)
	case ContrastCmd:
		return validateContrast(c.Factor)
	case GrayscaleCmd:
		return nil
	case PadCmd:
		if c.Mode != BorderConstant && c.Mode != BorderReplicate && c.Mode != BorderReflect {
			return apperrors.Validation("pad", "border", c.Mode, apperrors.ErrUnknownValue)
		}
		return validatePad(src, c.PadY, c.PadX, c.Mode, c.Ratio)
	case ThresholdCmd:
		return validateThreshold(c.Low, c.High, c.Strategy)
	case BlendCmd:
		return validateBlend(c.Other, c.Alpha)
	case nil:
		return apperrors.New(apperrors.CategoryValidation, "apply", fmt.Errorf("nil command: %w", apperrors.ErrUnknownValue))
	}
	return apperrors.New(apperrors.CategoryValidation, cmd.Name(), apperrors.ErrUnknownValue)
}

// Apply validates cmd, runs it against src and returns the new buffer along
// with the human-readable log entry describing what was done. src is never
// modified.
func Apply(src *PixelBuffer, cmd Command) (*PixelBuffer, string, error) {
	if err := Validate(src, cmd); err != nil {
		return nil, "", err
	}
	switch c := cmd.(type) {
	case BrightnessCmd:
		return Brightness(src, c.Delta), fmt.Sprintf("brightness %+d", c.Delta), nil
	case ContrastCmd:
		return Contrast(src, c.Factor), "contrast x" + formatFloat(c.Factor), nil
	case GrayscaleCmd:
		return Grayscale(src), "converted to grayscale", nil
	case PadCmd:
		spec := ResolvePadding(src.Width(), src.Height(), c.PadY, c.PadX, c.Mode, c.Ratio)
		ratio := "none"
		if c.Ratio != nil {
			ratio = c.Ratio.String()
		}
		entry := fmt.Sprintf("padded Top/Bottom:%dpx Left/Right:%dpx (%s) ratio %s", spec.Top, spec.Left, spec.Mode, ratio)
		return Pad(src, spec), entry, nil
	case ThresholdCmd:
		return Threshold(src, uint8(c.Low), uint8(c.High), c.Strategy), fmt.Sprintf("thresholding (%s)", c.Strategy), nil
	case BlendCmd:
		return Blend(src, c.Other, c.Alpha), "blended with alpha=" + formatFloat(c.Alpha), nil
	}
	// unreachable: Validate rejects unknown commands
	return nil, "", apperrors.New(apperrors.CategoryValidation, cmd.Name(), apperrors.ErrUnknownValue)
}

// ParseCommand builds a Command from a registry name and normalized textual
// arguments, in the order given by the command's ArgSpec list. open loads
// path arguments (the secondary image of blend).
func ParseCommand(name string, args []string, open func(path string) (*PixelBuffer, error)) (Command, error) {
	spec, ok := Lookup(name)
	if !ok {
		return nil, apperrors.New(apperrors.CategoryInput, name, fmt.Errorf("unsupported command: %w", apperrors.ErrUnknownValue))
	}
	// pad missing optional args with their defaults
	vals := make([]string, len(spec.Args))
	for i, a := range spec.Args {
		if i < len(args) && args[i] != "" {
			vals[i] = args[i]
		} else {
			vals[i] = a.Default
		}
		if vals[i] == "" && a.Required {
			return nil, apperrors.New(apperrors.CategoryInput, name, fmt.Errorf("missing required parameter: %s", a.Name))
		}
	}

	switch name {
	case "brightness":
		delta, err := strconv.Atoi(vals[0])
		if err != nil {
			return nil, inputErr(name, "delta", err)
		}
		return BrightnessCmd{Delta: delta}, nil

	case "contrast":
		f, err := strconv.ParseFloat(vals[0], 64)
		if err != nil {
			return nil, inputErr(name, "factor", err)
		}
		return ContrastCmd{Factor: f}, nil

	case "grayscale":
		return GrayscaleCmd{}, nil

	case "pad":
		padY, err := strconv.Atoi(vals[0])
		if err != nil {
			return nil, inputErr(name, "pad_y", err)
		}
		padX, err := strconv.Atoi(vals[1])
		if err != nil {
			return nil, inputErr(name, "pad_x", err)
		}
		mode, err := ParseBorderMode(vals[2])
		if err != nil {
			return nil, err
		}
		ratio, err := ParseAspectRatio(vals[3])
		if err != nil {
			return nil, err
		}
		return PadCmd{PadY: padY, PadX: padX, Mode: mode, Ratio: ratio}, nil

	case "threshold":
		strategy, err := ParseThresholdStrategy(vals[0])
		if err != nil {
			return nil, err
		}
		low, err := strconv.Atoi(vals[1])
		if err != nil {
			return nil, inputErr(name, "low", err)
		}
		high, err := strconv.Atoi(vals[2])
		if err != nil {
			return nil, inputErr(name, "high", err)
		}
		return ThresholdCmd{Low: low, High: high, Strategy: strategy}, nil

	case "blend":
		if open == nil {
			return nil, apperrors.New(apperrors.CategoryInput, name, fmt.Errorf("no image loader for %q", vals[0]))
		}
		other, err := open(vals[0])
		if err != nil {
			return nil, err
		}
		alpha, err := strconv.ParseFloat(vals[1], 64)
		if err != nil {
			return nil, inputErr(name, "alpha", err)
		}
		return BlendCmd{Other: other, Alpha: alpha}, nil
	}
	return nil, apperrors.New(apperrors.CategoryInput, name, fmt.Errorf("unsupported command: %w", apperrors.ErrUnknownValue))
}

func inputErr(op, param string, err error) error {
	return apperrors.New(apperrors.CategoryInput, op, fmt.Errorf("invalid %s: %w", param, err))
}

// formatFloat prints v the short way but always with a decimal point (1 -> "1.0").
func formatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			return s
		}
	}
	return s + ".0"
}
