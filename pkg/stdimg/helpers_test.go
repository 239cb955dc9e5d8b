package stdimg

import (
	"image/png"
	"os"
	"testing"
)

func makeSolidBuffer(w, h int, b, g, r uint8) *PixelBuffer {
	img := NewPixelBuffer(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := img.PixOffset(x, y)
			img.Pix[i+0] = b
			img.Pix[i+1] = g
			img.Pix[i+2] = r
		}
	}
	return img
}

// makeGradient returns a buffer whose samples cover the full 0..255 range.
func makeGradient(w, h int) *PixelBuffer {
	img := NewPixelBuffer(w, h)
	for i := range img.Pix {
		img.Pix[i] = uint8((i * 37) % 256)
	}
	return img
}

func pixelAt(img *PixelBuffer, x, y int) [3]uint8 {
	i := img.PixOffset(x, y)
	return [3]uint8{img.Pix[i], img.Pix[i+1], img.Pix[i+2]}
}

// saveTestOutput dumps img for manual inspection when IMGARITH_SAVE_TEST_OUTPUT=1.
func saveTestOutput(t *testing.T, name string, img *PixelBuffer) {
	t.Helper()
	if os.Getenv("IMGARITH_SAVE_TEST_OUTPUT") != "1" {
		return
	}
	f, err := os.Create(name)
	if err != nil {
		t.Logf("could not save %s: %v", name, err)
		return
	}
	defer f.Close()
	png.Encode(f, img)
}
