// Package stdimg: authoritative registry of editor commands.
//
// This file mirrors the commands understood by ParseCommand and Apply in
// pkg/stdimg/engine.go. Keep this list up-to-date when you add or modify
// commands so callers (CLI, help text, validation) read a single source of
// truth.

package stdimg

// ArgSpec describes a single argument for a command. Min and Max are
// enforced by the CLI's argument normalization when set.
type ArgSpec struct {
	Name        string // human name
	Type        string // "int", "float", "enum", "ratio", "path"
	Required    bool
	Default     string // textual default
	Description string
	Min         *float64
	Max         *float64
	Options     []string // accepted values for "enum"
}

// CommandSpec defines a single command and its expected arguments.
type CommandSpec struct {
	Name        string
	Args        []ArgSpec
	Usage       string // short usage string
	Description string // brief description
}

func bound(v float64) *float64 { return &v }

// Commands is the authoritative list of commands implemented by the engine,
// in menu order.
var Commands = []CommandSpec{
	{
		Name: "brightness",
		Args: []ArgSpec{
			{Name: "delta", Type: "int", Required: true, Description: "value added to every channel", Min: bound(MinBrightnessDelta), Max: bound(MaxBrightnessDelta)},
		},
		Usage:       "brightness <delta>",
		Description: "Adjust brightness (-100 to 100).",
	},
	{
		Name: "contrast",
		Args: []ArgSpec{
			{Name: "factor", Type: "float", Required: true, Default: "", Description: "contrast multiplier (e.g. 1.2)"},
		},
		Usage:       "contrast <factor>",
		Description: "Multiply every channel by a factor.",
	},
	{
		Name:        "grayscale",
		Args:        []ArgSpec{},
		Usage:       "grayscale",
		Description: "Convert to grayscale (Rec.601 luma).",
	},
	{
		Name: "pad",
		Args: []ArgSpec{
			{Name: "pad_y", Type: "int", Required: true, Description: "top/bottom padding in pixels", Min: bound(0), Max: bound(MaxPadding)},
			{Name: "pad_x", Type: "int", Required: true, Description: "left/right padding in pixels", Min: bound(0), Max: bound(MaxPadding)},
			{Name: "border", Type: "enum", Default: "constant", Description: "border type", Options: []string{"constant", "reflect", "replicate"}},
			{Name: "ratio", Type: "ratio", Default: "none", Description: "target ratio: square, 4:3, custom w:h or none"},
		},
		Usage:       "pad <pad_y> <pad_x> [border] [ratio]",
		Description: "Add padding, optionally growing to a target aspect ratio.",
	},
	{
		Name: "threshold",
		Args: []ArgSpec{
			{Name: "strategy", Type: "enum", Default: "binary", Description: "threshold strategy", Options: []string{"binary", "binary-inverse"}},
			{Name: "low", Type: "int", Default: "127", Description: "threshold value", Min: bound(0), Max: bound(255)},
			{Name: "high", Type: "int", Default: "255", Description: "value assigned when the condition holds", Min: bound(0), Max: bound(255)},
		},
		Usage:       "threshold [strategy] [low] [high]",
		Description: "Binary or inverse-binary thresholding per channel.",
	},
	{
		Name: "blend",
		Args: []ArgSpec{
			{Name: "path", Type: "path", Required: true, Description: "path to the second image"},
			{Name: "alpha", Type: "float", Default: "0.5", Description: "weight of the current image (0 - 1)", Min: bound(0), Max: bound(1)},
		},
		Usage:       "blend <path> [alpha]",
		Description: "Blend with another image (resized to match).",
	},
}

// Lookup returns the CommandSpec registered under name.
func Lookup(name string) (CommandSpec, bool) {
	for _, c := range Commands {
		if c.Name == name {
			return c, true
		}
	}
	return CommandSpec{}, false
}
