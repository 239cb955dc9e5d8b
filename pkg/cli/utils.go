package cli

import (
	"bufio"
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	apperrors "github.com/Fepozopo/imgarith/pkg/errors"
	"github.com/Fepozopo/imgarith/pkg/stdimg"
)

// Prompter reads whole lines of user input. A single reader is shared by the
// whole session so no buffered input is lost between prompts.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
	// selectFile is invoked when the user types "/" at a path prompt.
	selectFile func(startDir string) (string, error)
}

// NewPrompter returns a Prompter reading from r and echoing prompts to w.
func NewPrompter(r io.Reader, w io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(r), out: w, selectFile: SelectFileWithFzf}
}

// PromptLine displays a prompt and reads a full line of input from the user.
// The returned string is trimmed of surrounding whitespace (including the newline).
// A final line without a trailing newline is still returned; io.EOF is only
// reported when nothing was read.
func (p *Prompter) PromptLine(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)
	line, err := p.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// PromptPath reads a full line and treats a single "/" as a request to pick
// a file with fzf. If fzf is unavailable or the selection is cancelled the
// prompt is shown again. Reading the whole line keeps paths with spaces intact.
func (p *Prompter) PromptPath(prompt string) (string, error) {
	input, err := p.PromptLine(prompt)
	if err != nil {
		return "", err
	}
	if input != "/" || p.selectFile == nil {
		return input, nil
	}
	sel, selErr := p.selectFile(".")
	if selErr == nil && sel != "" {
		fmt.Fprintf(p.out, " [fzf] %s\n", sel)
		return sel, nil
	}
	return p.PromptLine(prompt)
}

// LoadImage reads and decodes an image file into a PixelBuffer. Supports
// PNG, JPEG, GIF, BMP, TIFF and WebP by content sniffing. Failures are
// reported with the load category.
func LoadImage(path string) (*stdimg.PixelBuffer, string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, "", apperrors.Wrap(apperrors.CategoryLoad, "load", err)
	}
	img, format, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, "", apperrors.Wrap(apperrors.CategoryLoad, "load", fmt.Errorf("decode %s: %w", path, err))
	}
	return stdimg.FromImage(img), format, nil
}

// OpenImage is LoadImage without the format, for use as a stdimg path loader.
func OpenImage(path string) (*stdimg.PixelBuffer, error) {
	buf, _, err := LoadImage(path)
	return buf, err
}

// SaveImage encodes buf to path using the format inferred from the filename
// extension: .png, .jpg/.jpeg, .gif, .bmp, .tif/.tiff. Anything else is PNG.
func SaveImage(path string, buf *stdimg.PixelBuffer, jpegQuality int) (err error) {
	if buf == nil {
		return apperrors.New(apperrors.CategorySave, "save", apperrors.ErrNilBuffer)
	}
	f, err := os.Create(path)
	if err != nil {
		return apperrors.Wrap(apperrors.CategorySave, "save", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = apperrors.Wrap(apperrors.CategorySave, "save", cerr)
		}
	}()
	if err := encodeImage(f, buf, formatFromPath(path), jpegQuality); err != nil {
		return apperrors.Wrap(apperrors.CategorySave, "save", err)
	}
	return nil
}

func formatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return "jpeg"
	case ".gif":
		return "gif"
	case ".bmp":
		return "bmp"
	case ".tif", ".tiff":
		return "tiff"
	default:
		return "png"
	}
}

func encodeImage(w io.Writer, img image.Image, format string, jpegQuality int) error {
	switch format {
	case "jpeg":
		return jpeg.Encode(w, img, &jpeg.Options{Quality: jpegQuality})
	case "gif":
		return gif.Encode(w, img, nil)
	case "bmp":
		return bmp.Encode(w, img)
	case "tiff":
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return png.Encode(w, img)
	}
}

// GetImageInfo returns a short info string for a buffer.
func GetImageInfo(buf *stdimg.PixelBuffer, format string) (string, error) {
	if buf == nil {
		return "", fmt.Errorf("nil image")
	}
	if format == "" {
		format = "unknown"
	}
	return fmt.Sprintf("Format: %s, Width: %d, Height: %d", strings.ToUpper(format), buf.Width(), buf.Height()), nil
}
