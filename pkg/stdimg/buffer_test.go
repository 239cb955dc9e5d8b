package stdimg

import (
	"image"
	"image/color"
	"testing"
)

func TestFromImageChannelOrder(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	src.Set(0, 0, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	src.Set(1, 0, color.NRGBA{R: 200, G: 100, B: 0, A: 255})
	buf := FromImage(src)
	if buf.Width() != 2 || buf.Height() != 1 {
		t.Fatalf("unexpected size %dx%d", buf.Width(), buf.Height())
	}
	if got := pixelAt(buf, 0, 0); got != [3]uint8{30, 20, 10} {
		t.Fatalf("expected BGR order {30 20 10}, got %v", got)
	}
	if c := buf.RGBAAt(1, 0); c != (color.RGBA{200, 100, 0, 255}) {
		t.Fatalf("RGBAAt returned %v", c)
	}
	if c := buf.RGBAAt(5, 5); c != (color.RGBA{}) {
		t.Fatalf("out-of-bounds RGBAAt should be zero, got %v", c)
	}
}

func TestFromImageOffsetBounds(t *testing.T) {
	src := image.NewRGBA(image.Rect(3, 4, 5, 6))
	src.Set(3, 4, color.RGBA{1, 2, 3, 255})
	buf := FromImage(src)
	if buf.Bounds() != image.Rect(0, 0, 2, 2) {
		t.Fatalf("expected zero-origin bounds, got %v", buf.Bounds())
	}
	if got := pixelAt(buf, 0, 0); got != [3]uint8{3, 2, 1} {
		t.Fatalf("unexpected first pixel %v", got)
	}
}

func TestCloneAndEqual(t *testing.T) {
	a := makeGradient(5, 4)
	b := a.Clone()
	if !a.Equal(b) {
		t.Fatalf("clone should equal source")
	}
	b.Pix[7]++
	if a.Equal(b) {
		t.Fatalf("modified clone should differ")
	}
	if a.Equal(makeGradient(4, 5)) {
		t.Fatalf("buffers of different size must not be equal")
	}
}

func TestCloneOfSubImageStride(t *testing.T) {
	a := makeGradient(4, 4)
	sub := &PixelBuffer{Pix: a.Pix, Stride: a.Stride, Rect: image.Rect(1, 1, 3, 3)}
	c := sub.Clone()
	if c.Stride != 6 || c.Width() != 2 {
		t.Fatalf("unexpected clone geometry stride=%d w=%d", c.Stride, c.Width())
	}
	if pixelAt(c, 0, 0) != pixelAt(a, 1, 1) {
		t.Fatalf("clone did not copy from sub-image origin")
	}
}
