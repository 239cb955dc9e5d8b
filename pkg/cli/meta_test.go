package cli

import (
	"errors"
	"strings"
	"testing"

	apperrors "github.com/Fepozopo/imgarith/pkg/errors"
	"github.com/Fepozopo/imgarith/pkg/stdimg"
)

func TestNormalizeArgs(t *testing.T) {
	store := NewMetaStore(stdimg.Commands)
	cases := []struct {
		cmd  string
		in   []string
		want []string
	}{
		{"brightness", []string{" -20 "}, []string{"-20"}},
		{"contrast", []string{"1.50"}, []string{"1.5"}},
		{"grayscale", nil, []string{}},
		{"pad", []string{"4", "6", "Mirror", "Square"}, []string{"4", "6", "reflect", "1:1"}},
		{"pad", []string{"4", "6"}, []string{"4", "6", "", ""}},
		{"pad", []string{"0", "0", "replicate", "none"}, []string{"0", "0", "replicate", "none"}},
		{"threshold", []string{"inverse", "100", ""}, []string{"binary-inverse", "100", ""}},
		{"blend", []string{"other.png", "0.25"}, []string{"other.png", "0.25"}},
	}
	for _, c := range cases {
		got, err := NormalizeArgs(store, c.cmd, c.in)
		if err != nil {
			t.Fatalf("%s %q: unexpected error %v", c.cmd, c.in, err)
		}
		if strings.Join(got, ",") != strings.Join(c.want, ",") || len(got) != len(c.want) {
			t.Fatalf("%s %q: got %q, want %q", c.cmd, c.in, got, c.want)
		}
	}
}

func TestNormalizeArgsRejects(t *testing.T) {
	store := NewMetaStore(stdimg.Commands)
	cases := []struct {
		cmd     string
		in      []string
		wantErr error
	}{
		{"brightness", []string{"101"}, apperrors.ErrOutOfRange},
		{"brightness", []string{"-101"}, apperrors.ErrOutOfRange},
		{"threshold", []string{"binary", "256"}, apperrors.ErrOutOfRange},
		{"blend", []string{"x.png", "1.5"}, apperrors.ErrOutOfRange},
		{"pad", []string{"-1", "0"}, apperrors.ErrOutOfRange},
		{"pad", []string{"40000", "0"}, apperrors.ErrOutOfRange},
		{"pad", []string{"0", "0", "constant", "1:99999"}, apperrors.ErrOutOfRange},
		{"pad", []string{"1", "1", "wrap"}, apperrors.ErrUnknownValue},
		{"pad", []string{"1", "1", "constant", "0:3"}, apperrors.ErrOutOfRange},
		{"sharpen", nil, apperrors.ErrUnknownValue},
	}
	for _, c := range cases {
		_, err := NormalizeArgs(store, c.cmd, c.in)
		if !errors.Is(err, c.wantErr) {
			t.Fatalf("%s %q: expected %v, got %v", c.cmd, c.in, c.wantErr, err)
		}
		if !apperrors.IsCategory(err, apperrors.CategoryInput) {
			t.Fatalf("%s %q: expected input category, got %v", c.cmd, c.in, err)
		}
	}
	if _, err := NormalizeArgs(store, "contrast", []string{"abc"}); err == nil {
		t.Fatalf("expected parse error for non-numeric factor")
	}
	if _, err := NormalizeArgs(store, "blend", nil); err == nil || !strings.Contains(err.Error(), "missing required parameter: path") {
		t.Fatalf("expected missing path error, got %v", err)
	}
}

func TestNormalizedArgsParse(t *testing.T) {
	store := NewMetaStore(stdimg.Commands)
	args, err := NormalizeArgs(store, "pad", []string{"2", "3", "replicate", "4:3"})
	if err != nil {
		t.Fatalf("normalize failed: %v", err)
	}
	cmd, err := stdimg.ParseCommand("pad", args, nil)
	if err != nil {
		t.Fatalf("ParseCommand failed: %v", err)
	}
	pc, ok := cmd.(stdimg.PadCmd)
	if !ok || pc.PadY != 2 || pc.PadX != 3 || pc.Mode != stdimg.BorderReplicate || pc.Ratio == nil || *pc.Ratio != (stdimg.AspectRatio{W: 4, H: 3}) {
		t.Fatalf("unexpected command %#v", cmd)
	}
}

func TestResolve(t *testing.T) {
	store := NewMetaStore(stdimg.Commands)
	for in, want := range map[string]string{"1": "brightness", "6": "blend", "GRAY": "grayscale", "th": "threshold", "pad": "pad"} {
		got, err := store.Resolve(in)
		if err != nil || got != want {
			t.Fatalf("Resolve(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	for _, in := range []string{"", "0", "7", "b", "nope"} {
		if _, err := store.Resolve(in); err == nil {
			t.Fatalf("Resolve(%q) should fail", in)
		}
	}
}

func TestTooltipListsParameters(t *testing.T) {
	spec, _ := stdimg.Lookup("threshold")
	tip := GenerateTooltip(spec)
	for _, want := range []string{"strategy", "binary|binary-inverse", "default: 127"} {
		if !strings.Contains(tip, want) {
			t.Fatalf("tooltip missing %q: %s", want, tip)
		}
	}
	g, _ := stdimg.Lookup("grayscale")
	if !strings.HasSuffix(GenerateTooltip(g), "(no parameters)") {
		t.Fatalf("unexpected grayscale tooltip: %s", GenerateTooltip(g))
	}
}

func TestGetCommandHelp(t *testing.T) {
	store := NewMetaStore(stdimg.Commands)
	tip, rules, err := store.GetCommandHelp("pad")
	if err != nil {
		t.Fatalf("GetCommandHelp failed: %v", err)
	}
	if !strings.Contains(tip, "pad_y") {
		t.Fatalf("tooltip missing pad_y: %s", tip)
	}
	py := rules["pad_y"]
	if py.Type != ParamTypeInt || !py.Required || py.Max == nil || *py.Max != stdimg.MaxPadding {
		t.Fatalf("unexpected pad_y rule %+v", py)
	}
	if r := rules["ratio"]; r.Type != ParamTypeRatio || r.Example != "none" {
		t.Fatalf("unexpected ratio rule %+v", r)
	}
	if _, _, err := store.GetCommandHelp("sharpen"); err == nil {
		t.Fatalf("unknown command should fail")
	}
}
