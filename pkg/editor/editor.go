// Package editor binds the stdimg transforms to an undo history and an
// operation log. One Editor is one editing session.
package editor

import (
	"io"
	"log/slog"
	"sync"

	apperrors "github.com/Fepozopo/imgarith/pkg/errors"
	"github.com/Fepozopo/imgarith/pkg/stdimg"
)

// Editor owns the history and log of a session. All methods are safe for
// concurrent use; sessions never share buffers.
type Editor struct {
	mu      sync.Mutex
	history *History
	log     OperationLog
	logger  *slog.Logger
}

// Option configures an Editor.
type Option func(*Editor)

// WithLogger routes apply/undo diagnostics to l.
func WithLogger(l *slog.Logger) Option {
	return func(e *Editor) {
		if l != nil {
			e.logger = l
		}
	}
}

// New starts a session from the loaded image.
func New(base *stdimg.PixelBuffer, opts ...Option) (*Editor, error) {
	if base == nil {
		return nil, apperrors.New(apperrors.CategoryLoad, "new", apperrors.ErrNilBuffer)
	}
	e := &Editor{
		history: NewHistory(base),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Apply runs cmd against the current image. On success the result becomes
// the current image, a log entry is appended and the result is returned.
// On error neither the history nor the log changes.
func (e *Editor) Apply(cmd stdimg.Command) (*stdimg.PixelBuffer, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	cur, err := e.history.Current()
	if err != nil {
		return nil, err
	}
	out, entry, err := stdimg.Apply(cur, cmd)
	if err != nil {
		e.logger.Debug("editor.apply.rejected", "error", err.Error())
		return nil, err
	}
	e.history.Push(out)
	e.log.Append(entry)
	e.logger.Debug("editor.apply",
		"op", cmd.Name(),
		"entry", entry,
		"depth", e.history.Depth(),
		"width", out.Width(),
		"height", out.Height(),
	)
	return out, nil
}

// Undo drops the current image. It returns an error wrapping
// ErrNothingToUndo when only the original image remains.
func (e *Editor) Undo() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.history.Pop(); err != nil {
		e.logger.Debug("editor.undo.refused", "depth", e.history.Depth())
		return err
	}
	e.logger.Debug("editor.undo", "depth", e.history.Depth())
	return nil
}

// Export returns the current image for saving.
func (e *Editor) Export() (*stdimg.PixelBuffer, error) {
	return e.Current()
}

// Current returns the current image.
func (e *Editor) Current() (*stdimg.PixelBuffer, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.Current()
}

// Log returns a copy of the operation log.
func (e *Editor) Log() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.log.Entries()
}

// Depth returns the history depth, the original image included.
func (e *Editor) Depth() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.Depth()
}
