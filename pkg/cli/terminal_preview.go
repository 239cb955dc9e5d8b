package cli

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"
	"os"
	"os/exec"
	"strings"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/Fepozopo/imgarith/pkg/stdimg"
)

// Previewer shows a before/after pair to the user. It never affects the
// editing session.
type Previewer interface {
	Preview(before, after *stdimg.PixelBuffer, title string) error
}

// TerminalPreviewer renders previews inline using the kitty graphics
// protocol, the iTerm2 OSC 1337 inline-image sequence, or an external sixel
// or chafa renderer, picked from terminal hints in the environment.
type TerminalPreviewer struct {
	out     io.Writer
	backend string // forced backend, "" for auto-detection
	debug   bool
}

// NewTerminalPreviewer writes escape sequences to out (stdout when nil).
func NewTerminalPreviewer(out io.Writer, cfg Config) *TerminalPreviewer {
	if out == nil {
		out = os.Stdout
	}
	return &TerminalPreviewer{out: out, backend: cfg.PreviewBackend, debug: cfg.PreviewDebug}
}

func (p *TerminalPreviewer) debugf(format string, args ...interface{}) {
	if p.debug {
		fmt.Fprintf(os.Stderr, "imgarith-preview: "+format+"\n", args...)
	}
}

// Preview composes a labelled side-by-side panel and sends it to the terminal.
func (p *TerminalPreviewer) Preview(before, after *stdimg.PixelBuffer, title string) error {
	panel := composePanel(before, after, title)
	if panel == nil {
		return fmt.Errorf("nil image")
	}
	return p.PreviewImage(panel)
}

// PreviewImage PNG-encodes img and previews it in the terminal.
func (p *TerminalPreviewer) PreviewImage(img image.Image) error {
	if img == nil {
		return fmt.Errorf("nil image")
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("png encode failed: %w", err)
	}
	return p.previewBytes(buf.Bytes(), computePreviewSize(img))
}

const (
	panelMaxSide = 480 // each half is downscaled to fit this box
	panelGap     = 8
	labelHeight  = 18
)

var (
	panelBackground = color.RGBA{32, 32, 32, 255}
	panelLabel      = color.RGBA{230, 230, 230, 255}
)

// composePanel draws before and after next to each other with "Previous" and
// "Edited" captions, plus the title in the top caption row when given.
func composePanel(before, after *stdimg.PixelBuffer, title string) *image.RGBA {
	if before == nil || after == nil {
		return nil
	}
	left := fitWithin(before, panelMaxSide)
	right := fitWithin(after, panelMaxSide)
	lb, rb := left.Bounds(), right.Bounds()

	top := 0
	if title != "" {
		top = labelHeight
	}
	w := lb.Dx() + panelGap + rb.Dx()
	h := top + max(lb.Dy(), rb.Dy()) + labelHeight
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(out, out.Bounds(), image.NewUniform(panelBackground), image.Point{}, draw.Src)
	draw.Draw(out, lb.Add(image.Pt(0, top)), left, lb.Min, draw.Src)
	draw.Draw(out, rb.Add(image.Pt(lb.Dx()+panelGap, top)), right, rb.Min, draw.Src)

	if title != "" {
		drawLabel(out, title, 2, labelHeight-5)
	}
	base := h - 5
	drawLabel(out, "Previous", 2, base)
	drawLabel(out, "Edited", lb.Dx()+panelGap+2, base)
	return out
}

// fitWithin downscales src so neither side exceeds limit. Images already
// small enough are returned as is.
func fitWithin(src *stdimg.PixelBuffer, limit int) image.Image {
	w, h := src.Width(), src.Height()
	if w <= limit && h <= limit {
		return src
	}
	scale := math.Min(float64(limit)/float64(w), float64(limit)/float64(h))
	dw := max(1, int(math.Round(float64(w)*scale)))
	dh := max(1, int(math.Round(float64(h)*scale)))
	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst
}

func drawLabel(dst draw.Image, text string, x, baseline int) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(panelLabel),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, baseline),
	}
	d.DrawString(text)
}

func isKitty() bool {
	// KITTY_WINDOW_ID is set by kitty itself; ghostty exposes kitty
	// compatible graphics and advertises it through TERM.
	if os.Getenv("KITTY_WINDOW_ID") != "" {
		return true
	}
	term := strings.ToLower(os.Getenv("TERM"))
	if strings.Contains(term, "kitty") || strings.Contains(term, "ghostty") {
		return true
	}
	return os.Getenv("KONSOLE_VERSION") != ""
}

// isInlineImageCapable detects terminals implementing the iTerm2-style
// inline-image OSC: WezTerm, Warp, Tabby, VSCode's terminal, Hyper and others.
func isInlineImageCapable() bool {
	switch os.Getenv("TERM_PROGRAM") {
	case "iTerm.app", "WezTerm", "Warp", "Hyper", "vscode", "VSCode", "Tabby", "Bobcat":
		return true
	}
	term := strings.ToLower(os.Getenv("TERM"))
	if strings.Contains(term, "wezterm") || strings.Contains(term, "warp") || strings.Contains(term, "tabby") ||
		strings.Contains(term, "vscode") {
		return true
	}
	return os.Getenv("ITERM_SESSION_ID") != ""
}

// isSixelCapable is a heuristic; SIXEL_PREVIEW=1 forces it.
func isSixelCapable() bool {
	if os.Getenv("SIXEL_PREVIEW") == "1" {
		return true
	}
	term := strings.ToLower(os.Getenv("TERM"))
	if strings.Contains(term, "foot") || strings.Contains(term, "mlterm") {
		return true
	}
	return os.Getenv("WT_SESSION") != ""
}

// hasChafa reports whether the external 'chafa' binary is available in PATH.
func hasChafa() bool {
	if os.Getenv("NO_CHAFA") == "1" {
		return false
	}
	_, err := exec.LookPath("chafa")
	return err == nil
}

// PreviewSupported returns true if the running environment likely supports
// a terminal preview.
func PreviewSupported() bool {
	return isKitty() || isInlineImageCapable() || isSixelCapable() || hasChafa()
}

// postImageNewlines returns how many lines to advance after an image so the
// prompt appears directly under it.
func postImageNewlines(requestedRows int) int {
	switch {
	case requestedRows <= 0:
		return 1
	case requestedRows <= 2:
		return 1
	case requestedRows <= 6:
		return 2
	case requestedRows <= 20:
		return 3
	}
	return 4
}

// PreviewSize conveys a target placement for terminal preview backends.
type PreviewSize struct {
	Cols        int // terminal character columns
	Rows        int // terminal character rows
	PixelWidth  int // approximate pixel width (Cols * cellWidth)
	PixelHeight int // approximate pixel height (Rows * cellHeight)
}

// computePreviewSize maps an image's pixel dimensions into terminal cells,
// preserving aspect ratio and never scaling up.
func computePreviewSize(img image.Image) PreviewSize {
	w := img.Bounds().Dx()
	h := img.Bounds().Dy()

	const charW = 8
	const charH = 16
	const minCols = 6
	const minRows = 3
	const maxCols = 120
	const maxRows = 40

	scale := 1.0
	if w > 0 && h > 0 {
		scale = math.Min(1.0, math.Min(float64(maxCols*charW)/float64(w), float64(maxRows*charH)/float64(h)))
	}
	cols := clampCells(int(math.Round(float64(w)*scale/charW)), minCols, maxCols)
	rows := clampCells(int(math.Round(float64(h)*scale/charH)), minRows, maxRows)

	return PreviewSize{
		Cols:        cols,
		Rows:        rows,
		PixelWidth:  cols * charW,
		PixelHeight: rows * charH,
	}
}

func clampCells(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// previewBytes sends PNG bytes via the forced backend first, then in the
// order inline, kitty, sixel, chafa.
func (p *TerminalPreviewer) previewBytes(blob []byte, size PreviewSize) error {
	if len(blob) == 0 {
		return fmt.Errorf("empty image blob")
	}

	if p.backend != "" {
		p.debugf("PREVIEW_BACKEND override: %s", p.backend)
		var err error
		switch p.backend {
		case "kitty":
			err = p.sendKittyImage(blob, size)
		case "inline", "iterm", "wezterm":
			err = p.sendInlineImage(blob, size)
		case "sixel":
			err = p.sendSixelImage(blob, size)
		case "chafa":
			err = p.sendChafaImage(blob, size)
		default:
			err = fmt.Errorf("unknown backend %q", p.backend)
		}
		if err == nil {
			return nil
		}
		p.debugf("override %s failed: %v", p.backend, err)
	}

	type backend struct {
		name   string
		usable func() bool
		send   func([]byte, PreviewSize) error
	}
	order := []backend{
		{"inline", isInlineImageCapable, p.sendInlineImage},
		{"kitty", isKitty, p.sendKittyImage},
		{"sixel", isSixelCapable, p.sendSixelImage},
		{"chafa", hasChafa, p.sendChafaImage},
	}
	var firstErr error
	for _, b := range order {
		if !b.usable() {
			continue
		}
		p.debugf("attempting %s protocol", b.name)
		err := b.send(blob, size)
		if err == nil {
			return nil
		}
		p.debugf("%s protocol failed: %v", b.name, err)
		if firstErr == nil {
			firstErr = fmt.Errorf("%s preview failed: %w", b.name, err)
		}
	}
	if firstErr != nil {
		return firstErr
	}
	return fmt.Errorf("no preview protocol matched")
}

func (p *TerminalPreviewer) advance(rows int) {
	for i := 0; i < postImageNewlines(rows); i++ {
		fmt.Fprintln(p.out)
	}
}

// sendKittyImage transmits PNG data with the kitty graphics protocol in
// base64 chunks of at most 4096 bytes. Only the first chunk carries the
// control keys: a=T transmit+display, f=100 PNG, q=2 suppress responses,
// c/r placement in cells.
func (p *TerminalPreviewer) sendKittyImage(data []byte, size PreviewSize) error {
	if len(data) == 0 {
		return fmt.Errorf("no data")
	}
	enc := base64.StdEncoding.EncodeToString(data)
	const chunkSize = 4096

	for pos := 0; pos < len(enc); pos += chunkSize {
		end := min(pos+chunkSize, len(enc))
		more := "0"
		if end < len(enc) {
			more = "1"
		}
		var seq string
		if pos == 0 {
			seq = fmt.Sprintf("\x1b_Ga=T,f=100,t=d,q=2,c=%d,r=%d,m=%s;%s\x1b\\", size.Cols, size.Rows, more, enc[pos:end])
		} else {
			seq = "\x1b_Gm=" + more + ";" + enc[pos:end] + "\x1b\\"
		}
		if _, err := io.WriteString(p.out, seq); err != nil {
			return err
		}
	}
	p.advance(size.Rows)
	return nil
}

// sendInlineImage emits the iTerm2-style inline image OSC 1337 sequence.
func (p *TerminalPreviewer) sendInlineImage(data []byte, size PreviewSize) error {
	if len(data) == 0 {
		return fmt.Errorf("no data")
	}
	enc := base64.StdEncoding.EncodeToString(data)
	meta := fmt.Sprintf("size=%d;", len(data))
	if size.PixelWidth > 0 && size.PixelHeight > 0 {
		meta += fmt.Sprintf("width=%dpx;height=%dpx;", size.PixelWidth, size.PixelHeight)
	}
	seq := "\x1b]1337;File=name=preview.png;inline=1;" + meta + ":" + enc + "\a"
	n, err := io.WriteString(p.out, seq)
	p.debugf("wrote %d bytes for inline image (err=%v)", n, err)
	p.advance(0)
	return err
}

// sendSixelImage pipes the PNG through img2sixel, falling back to chafa.
func (p *TerminalPreviewer) sendSixelImage(data []byte, size PreviewSize) error {
	if len(data) == 0 {
		return fmt.Errorf("no data")
	}
	cmd := exec.Command("img2sixel", "-")
	cmd.Stdin = bytes.NewReader(data)
	cmd.Stdout = p.out
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		p.debugf("img2sixel failed: %v", err)
		return p.sendChafaImage(data, size)
	}
	p.advance(0)
	return nil
}

// sendChafaImage renders the PNG with chafa using block symbols.
// CHAFA_FILL and CHAFA_SYMBOLS override the defaults.
func (p *TerminalPreviewer) sendChafaImage(data []byte, size PreviewSize) error {
	if len(data) == 0 {
		return fmt.Errorf("no data")
	}
	if !hasChafa() {
		return fmt.Errorf("chafa not available")
	}
	fill, symbols := "block", "block"
	if f := os.Getenv("CHAFA_FILL"); f != "" {
		fill = f
	}
	if s := os.Getenv("CHAFA_SYMBOLS"); s != "" {
		symbols = s
	}
	args := []string{"--fill=" + fill, "--symbols=" + symbols, "-s", fmt.Sprintf("%dx%d", size.Cols, size.Rows), "-"}
	cmd := exec.Command("chafa", args...)
	cmd.Stdin = bytes.NewReader(data)
	cmd.Stdout = p.out
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("chafa failed: %w", err)
	}
	p.advance(size.Rows)
	return nil
}
