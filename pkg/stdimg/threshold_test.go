package stdimg

import "testing"

func TestThresholdBinary(t *testing.T) {
	src := makeSolidBuffer(1, 1, 127, 128, 0)
	out := Threshold(src, 127, 255, ThreshBinary)
	if got := pixelAt(out, 0, 0); got != [3]uint8{0, 255, 0} {
		t.Fatalf("binary: got %v", got)
	}
	inv := Threshold(src, 127, 200, ThreshBinaryInv)
	if got := pixelAt(inv, 0, 0); got != [3]uint8{200, 0, 200} {
		t.Fatalf("binary-inverse: got %v", got)
	}
}

func TestThresholdOnlyTwoValues(t *testing.T) {
	src := makeGradient(16, 16)
	for _, s := range []ThresholdStrategy{ThreshBinary, ThreshBinaryInv} {
		out := Threshold(src, 90, 180, s)
		for i, v := range out.Pix {
			if v != 0 && v != 180 {
				t.Fatalf("%s: sample %d has intermediate value %d", s, i, v)
			}
		}
	}
}

func TestParseThresholdStrategy(t *testing.T) {
	cases := map[string]ThresholdStrategy{
		"binary":         ThreshBinary,
		"BINARY":         ThreshBinary,
		"binary-inverse": ThreshBinaryInv,
		"binary-inv":     ThreshBinaryInv,
	}
	for in, want := range cases {
		got, err := ParseThresholdStrategy(in)
		if err != nil || got != want {
			t.Fatalf("ParseThresholdStrategy(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseThresholdStrategy("otsu"); err == nil {
		t.Fatalf("unknown strategy should be rejected")
	}
}

func TestThresholdValidation(t *testing.T) {
	if err := validateThreshold(0, 255, ThreshBinary); err != nil {
		t.Fatalf("bounds 0/255 should be valid: %v", err)
	}
	if err := validateThreshold(256, 255, ThreshBinary); err == nil {
		t.Fatalf("low=256 should be rejected")
	}
	if err := validateThreshold(10, -1, ThreshBinary); err == nil {
		t.Fatalf("high=-1 should be rejected")
	}
	if err := validateThreshold(10, 20, ThresholdStrategy(9)); err == nil {
		t.Fatalf("unknown strategy value should be rejected")
	}
}
