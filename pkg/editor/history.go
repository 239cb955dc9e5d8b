package editor

import (
	apperrors "github.com/Fepozopo/imgarith/pkg/errors"
	"github.com/Fepozopo/imgarith/pkg/stdimg"
)

// History is a stack of buffer snapshots. The bottom entry is the image the
// session started from and is never popped.
type History struct {
	stack []*stdimg.PixelBuffer
}

// NewHistory returns a history whose only entry is base.
func NewHistory(base *stdimg.PixelBuffer) *History {
	return &History{stack: []*stdimg.PixelBuffer{base}}
}

// Push makes buf the current entry.
func (h *History) Push(buf *stdimg.PixelBuffer) {
	h.stack = append(h.stack, buf)
}

// Pop discards the current entry. It returns ErrNothingToUndo and leaves the
// stack untouched when only the base entry remains.
func (h *History) Pop() error {
	if len(h.stack) <= 1 {
		return apperrors.New(apperrors.CategoryHistory, "undo", apperrors.ErrNothingToUndo)
	}
	last := len(h.stack) - 1
	h.stack[last] = nil
	h.stack = h.stack[:last]
	return nil
}

// Current returns the top entry.
func (h *History) Current() (*stdimg.PixelBuffer, error) {
	if len(h.stack) == 0 {
		return nil, apperrors.New(apperrors.CategoryHistory, "current", apperrors.ErrEmptyHistory)
	}
	return h.stack[len(h.stack)-1], nil
}

// Depth is the number of entries, base included.
func (h *History) Depth() int { return len(h.stack) }
