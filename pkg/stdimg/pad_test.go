package stdimg

import (
	"errors"
	"slices"
	"testing"

	apperrors "github.com/Fepozopo/imgarith/pkg/errors"
)

// row3 builds a 3x1 image whose blue channel is 10, 20, 30 left to right.
func row3() *PixelBuffer {
	img := NewPixelBuffer(3, 1)
	for x := 0; x < 3; x++ {
		img.Pix[img.PixOffset(x, 0)] = uint8(10 * (x + 1))
	}
	return img
}

func blueRow(img *PixelBuffer, y int) []uint8 {
	out := make([]uint8, img.Width())
	for x := range out {
		out[x] = img.Pix[img.PixOffset(x, y)]
	}
	return out
}

func TestPadNoRatioGrowsBySymmetricAmounts(t *testing.T) {
	src := makeGradient(8, 6)
	for _, mode := range []BorderMode{BorderConstant, BorderReplicate, BorderReflect} {
		spec := ResolvePadding(src.Width(), src.Height(), 5, 3, mode, nil)
		out := Pad(src, spec)
		if out.Height() != src.Height()+10 || out.Width() != src.Width()+6 {
			t.Fatalf("%s: got %dx%d, want %dx%d", mode, out.Width(), out.Height(), src.Width()+6, src.Height()+10)
		}
		// interior is copied verbatim
		if pixelAt(out, 3, 5) != pixelAt(src, 0, 0) || pixelAt(out, 10, 10) != pixelAt(src, 7, 5) {
			t.Fatalf("%s: interior not preserved", mode)
		}
	}
}

func TestPadBorderModes(t *testing.T) {
	src := row3()
	cases := []struct {
		mode BorderMode
		want []uint8
	}{
		{BorderConstant, []uint8{0, 0, 10, 20, 30, 0, 0}},
		{BorderReplicate, []uint8{10, 10, 10, 20, 30, 30, 30}},
		{BorderReflect, []uint8{20, 10, 10, 20, 30, 30, 20}},
	}
	for _, c := range cases {
		out := Pad(src, PaddingSpec{Left: 2, Right: 2, Mode: c.mode})
		if got := blueRow(out, 0); !slices.Equal(got, c.want) {
			t.Fatalf("%s: got %v want %v", c.mode, got, c.want)
		}
	}
}

func TestPadReflectWiderThanImage(t *testing.T) {
	out := Pad(row3(), PaddingSpec{Left: 5, Right: 0, Mode: BorderReflect})
	want := []uint8{20, 30, 30, 20, 10, 10, 20, 30}
	if got := blueRow(out, 0); !slices.Equal(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestPadVerticalReplicate(t *testing.T) {
	out := Pad(row3(), PaddingSpec{Top: 1, Bottom: 2, Mode: BorderReplicate})
	if out.Height() != 4 {
		t.Fatalf("expected 4 rows, got %d", out.Height())
	}
	for y := 0; y < 4; y++ {
		if got := blueRow(out, y); !slices.Equal(got, []uint8{10, 20, 30}) {
			t.Fatalf("row %d: got %v", y, got)
		}
	}
}

func TestResolvePaddingRatio(t *testing.T) {
	// 100 wide x 50 tall is too wide for 1:1: grow height to 100.
	spec := ResolvePadding(100, 50, 7, 9, BorderConstant, &AspectRatio{1, 1})
	if spec.Top != 25 || spec.Bottom != 25 {
		t.Fatalf("landscape->square: top/bottom = %d/%d", spec.Top, spec.Bottom)
	}
	if spec.Left != 9 || spec.Right != 9 {
		t.Fatalf("landscape->square should keep base pad_x, got %d/%d", spec.Left, spec.Right)
	}

	// 30 wide x 60 tall is too narrow for 2:1: width -> 120, extra 90.
	spec = ResolvePadding(30, 60, 4, 0, BorderConstant, &AspectRatio{2, 1})
	if spec.Left != 45 || spec.Right != 45 || spec.Top != 4 || spec.Bottom != 4 {
		t.Fatalf("portrait->2:1: got %+v", spec)
	}

	// odd extra goes to the right
	spec = ResolvePadding(10, 11, 0, 0, BorderConstant, &AspectRatio{1, 1})
	if spec.Left != 0 || spec.Right != 1 {
		t.Fatalf("odd extra: got left=%d right=%d", spec.Left, spec.Right)
	}

	// already at the ratio: 6/4 == 3:2 needs no extra rows
	spec = ResolvePadding(6, 4, 2, 2, BorderConstant, &AspectRatio{3, 2})
	if spec.Top != 0 || spec.Bottom != 0 || spec.Left != 2 {
		t.Fatalf("exact ratio: got %+v", spec)
	}
}

func TestPadRatioProducesTargetShape(t *testing.T) {
	src := makeGradient(40, 20)
	out, _, err := Apply(src, PadCmd{Mode: BorderReflect, Ratio: &AspectRatio{1, 1}})
	if err != nil {
		t.Fatalf("apply pad failed: %v", err)
	}
	if out.Width() != 40 || out.Height() != 40 {
		t.Fatalf("expected 40x40, got %dx%d", out.Width(), out.Height())
	}
	saveTestOutput(t, "pad_test_out.png", out)
}

func TestParseBorderModeAndRatio(t *testing.T) {
	if m, err := ParseBorderMode("Reflect"); err != nil || m != BorderReflect {
		t.Fatalf("ParseBorderMode(Reflect) = %v, %v", m, err)
	}
	if _, err := ParseBorderMode("wrap"); !errors.Is(err, apperrors.ErrUnknownValue) {
		t.Fatalf("expected ErrUnknownValue for wrap, got %v", err)
	}
	if r, err := ParseAspectRatio("none"); err != nil || r != nil {
		t.Fatalf("none should parse to nil ratio, got %v, %v", r, err)
	}
	if r, err := ParseAspectRatio("square"); err != nil || *r != (AspectRatio{1, 1}) {
		t.Fatalf("square should parse to 1:1, got %v, %v", r, err)
	}
	if r, err := ParseAspectRatio("16:9"); err != nil || *r != (AspectRatio{16, 9}) {
		t.Fatalf("16:9 parse failed: %v, %v", r, err)
	}
	for _, bad := range []string{"0:1", "4", "a:b", "-1:2", "32769:1", "1:4611686018427387904"} {
		if _, err := ParseAspectRatio(bad); err == nil {
			t.Fatalf("ParseAspectRatio(%q) should fail", bad)
		}
	}
}

func TestPadValidation(t *testing.T) {
	src := makeGradient(2, 2)
	if _, _, err := Apply(src, PadCmd{PadY: -1}); !apperrors.IsCategory(err, apperrors.CategoryValidation) {
		t.Fatalf("negative padding should be a validation error, got %v", err)
	}
	if _, _, err := Apply(src, PadCmd{Mode: BorderMode(7)}); err == nil {
		t.Fatalf("unknown border mode should be rejected")
	}
	empty := NewPixelBuffer(0, 4)
	if _, _, err := Apply(empty, PadCmd{Ratio: &AspectRatio{1, 1}}); err == nil {
		t.Fatalf("ratio on empty buffer should be rejected")
	}
}

func TestPadRejectsOversizedRequests(t *testing.T) {
	src := makeGradient(4, 3)
	cases := []PadCmd{
		{PadY: 1 << 62},
		{PadX: MaxPadding + 1},
		{Ratio: &AspectRatio{W: 1 << 62, H: 1}},
		{Ratio: &AspectRatio{W: 1, H: 1 << 62}},
		// each side within limits, but the result exceeds the pixel budget
		{PadY: MaxPadding, PadX: MaxPadding},
	}
	for _, cmd := range cases {
		out, entry, err := Apply(src, cmd)
		if !errors.Is(err, apperrors.ErrOutOfRange) {
			t.Fatalf("%+v: expected ErrOutOfRange, got %v", cmd, err)
		}
		if out != nil || entry != "" {
			t.Fatalf("%+v: rejected pad produced output %v %q", cmd, out, entry)
		}
	}

	// the largest ratio term still resolves to non-negative sides
	spec := ResolvePadding(4, 3, 0, 0, BorderConstant, &AspectRatio{W: MaxRatioTerm, H: 1})
	if spec.Left < 0 || spec.Right < 0 || spec.Top < 0 || spec.Bottom < 0 {
		t.Fatalf("negative padding resolved: %+v", spec)
	}
	if _, _, err := Apply(src, PadCmd{PadY: MaxPadding}); err != nil {
		t.Fatalf("padding at the limit should be accepted: %v", err)
	}
}
