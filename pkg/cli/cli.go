package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/Fepozopo/imgarith/pkg/editor"
	apperrors "github.com/Fepozopo/imgarith/pkg/errors"
	"github.com/Fepozopo/imgarith/pkg/stdimg"
)

// Session is one interactive editing run: the loaded image, its editor and
// the collaborators used to talk to the user.
type Session struct {
	cfg      Config
	store    *MetaStore
	prompter *Prompter
	out      io.Writer
	errOut   io.Writer
	logger   *slog.Logger
	preview  Previewer // nil disables previews
	updater  *Updater

	// selectCommand picks an operation interactively; errors fall back to
	// the numbered menu.
	selectCommand func([]stdimg.CommandSpec) (string, error)

	ed     *editor.Editor
	path   string
	format string
}

// NewSession wires a session reading commands from in and writing to out.
func NewSession(cfg Config, in io.Reader, out, errOut io.Writer) *Session {
	p := NewPrompter(in, out)
	s := &Session{
		cfg:           cfg,
		store:         NewMetaStore(stdimg.Commands),
		prompter:      p,
		out:           out,
		errOut:        errOut,
		logger:        cfg.Logger(errOut),
		selectCommand: SelectCommandWithFzf,
		updater:       NewUpdater(cfg, p, out),
	}
	if cfg.Preview && (cfg.PreviewBackend != "" || PreviewSupported()) {
		s.preview = NewTerminalPreviewer(out, cfg)
	}
	return s
}

func (s *Session) usage() {
	fmt.Fprintln(s.out, "Commands available:")
	fmt.Fprintln(s.out, "  /  - select and apply an operation")
	fmt.Fprintln(s.out, "  z  - undo last operation")
	fmt.Fprintln(s.out, "  l  - view history of operations")
	fmt.Fprintln(s.out, "  o  - open another image")
	fmt.Fprintln(s.out, "  s  - save current image")
	fmt.Fprintln(s.out, "  u  - check for updates")
	fmt.Fprintln(s.out, "  h  - show this help message")
	fmt.Fprintln(s.out, "  q  - save and exit")
}

// Open loads path and starts a new editing session on it, discarding any
// previous history and log.
func (s *Session) Open(path string) error {
	buf, format, err := LoadImage(path)
	if err != nil {
		return err
	}
	ed, err := editor.New(buf, editor.WithLogger(s.logger))
	if err != nil {
		return err
	}
	s.ed, s.path, s.format = ed, path, format
	s.logger.Debug("session.open", "path", path, "format", format, "width", buf.Width(), "height", buf.Height())
	if info, ierr := GetImageInfo(buf, format); ierr == nil {
		fmt.Fprintln(s.out, info)
	}
	return nil
}

// Run executes the command loop until the user quits or input ends.
func (s *Session) Run(ctx context.Context) error {
	fmt.Fprintln(s.out, "Image Arithmetic Editor")
	if s.ed == nil {
		for {
			path, err := s.prompter.PromptPath("Enter the path to the image: ")
			if err != nil {
				return err
			}
			if err := s.Open(path); err != nil {
				fmt.Fprintf(s.errOut, "failed to load image: %v\n", err)
				continue
			}
			break
		}
	}
	s.usage()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		line, err := s.prompter.PromptLine("> ")
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if line == "" {
			continue
		}
		switch line[0] {
		case '/':
			s.applyInteractive()
		case 'z':
			s.undo()
		case 'l':
			s.printLog("\n=== History of Operations ===", func(i int, e string) string {
				return fmt.Sprintf("%d. %s", i+1, e)
			})
		case 'o':
			path, perr := s.prompter.PromptPath("Enter path to image to open (leave empty to cancel): ")
			if perr != nil || path == "" {
				fmt.Fprintln(s.out, "open cancelled")
				continue
			}
			if err := s.Open(path); err != nil {
				fmt.Fprintf(s.errOut, "failed to read image %s: %v\n", path, err)
				continue
			}
			fmt.Fprintf(s.out, "Opened %s\n", path)
		case 's':
			s.save()
		case 'u':
			if err := s.updater.CheckForUpdates(ctx); err != nil {
				fmt.Fprintf(s.errOut, "update check error: %v\n", err)
			}
		case 'h':
			s.usage()
		case 'q':
			s.quit()
			return nil
		default:
			fmt.Fprintln(s.out, "Invalid option.")
		}
	}
}

func (s *Session) undo() {
	if err := s.ed.Undo(); err != nil {
		if errors.Is(err, apperrors.ErrNothingToUndo) {
			fmt.Fprintln(s.out, "Nothing to undo.")
			return
		}
		fmt.Fprintf(s.errOut, "undo error: %v\n", err)
		return
	}
	fmt.Fprintln(s.out, "Undone last operation")
}

func (s *Session) printLog(header string, format func(int, string) string) {
	fmt.Fprintln(s.out, header)
	for i, e := range s.ed.Log() {
		fmt.Fprintln(s.out, format(i, e))
	}
}

func (s *Session) save() bool {
	name, err := s.prompter.PromptLine("Enter filename (e.g., output.jpg): ")
	if err != nil || name == "" {
		fmt.Fprintln(s.out, "no filename provided")
		return false
	}
	cur, err := s.ed.Export()
	if err != nil {
		fmt.Fprintf(s.errOut, "failed to write image: %v\n", err)
		return false
	}
	if err := SaveImage(name, cur, s.cfg.JPEGQuality); err != nil {
		fmt.Fprintf(s.errOut, "failed to write image: %v\n", err)
		return false
	}
	s.logger.Debug("session.save", "path", name, "depth", s.ed.Depth())
	fmt.Fprintf(s.out, "Saved to %s\n", name)
	return true
}

func (s *Session) quit() {
	answer, err := s.prompter.PromptLine("Save the final image? (y/n): ")
	if err == nil && strings.EqualFold(answer, "y") {
		s.save()
	}
	s.printLog("\n=== Final Operation Log ===", func(_ int, e string) string {
		return "- " + e
	})
	fmt.Fprintln(s.out, "Exiting...")
}

// chooseCommand asks for an operation, through fzf when available and a
// numbered menu otherwise.
func (s *Session) chooseCommand() (string, bool) {
	if s.selectCommand != nil {
		if name, err := s.selectCommand(s.store.Commands); err == nil {
			if _, ok := s.store.Get(name); ok {
				return name, true
			}
		}
	}
	fmt.Fprintln(s.out, "Operations:")
	for i, c := range s.store.Commands {
		fmt.Fprintf(s.out, "  %d) %s - %s\n", i+1, c.Name, c.Description)
	}
	sel, err := s.prompter.PromptLine("Enter number or operation name (leave empty to cancel): ")
	if err != nil || sel == "" {
		fmt.Fprintln(s.out, "selection cancelled")
		return "", false
	}
	name, err := s.store.Resolve(sel)
	if err != nil {
		fmt.Fprintln(s.out, err)
		return "", false
	}
	return name, true
}

func (s *Session) applyInteractive() {
	name, ok := s.chooseCommand()
	if !ok {
		return
	}
	spec, _ := s.store.Get(name)
	tooltip, rules, err := s.store.GetCommandHelp(name)
	if err != nil {
		fmt.Fprintln(s.errOut, err)
		return
	}
	fmt.Fprintln(s.out, "\n"+tooltip+"\n")

	raw := make([]string, len(spec.Args))
	for i, a := range spec.Args {
		v, err := s.promptArg(a, rules[a.Name])
		if err != nil {
			fmt.Fprintf(s.errOut, "input error: %v\n", err)
			return
		}
		raw[i] = v
	}
	if err := s.ApplyArgs(name, raw); err != nil {
		fmt.Fprintf(s.errOut, "Invalid input: %v\n", err)
	}
}

// ApplyArgs validates textual arguments for the named operation, applies it
// and previews the result.
func (s *Session) ApplyArgs(name string, raw []string) error {
	args, err := NormalizeArgs(s.store, name, raw)
	if err != nil {
		return err
	}
	cmd, err := stdimg.ParseCommand(name, args, OpenImage)
	if err != nil {
		return err
	}
	before, err := s.ed.Current()
	if err != nil {
		return err
	}
	after, err := s.ed.Apply(cmd)
	if err != nil {
		return err
	}
	log := s.ed.Log()
	entry := log[len(log)-1]
	fmt.Fprintf(s.out, "Applied %s\n", entry)
	if s.preview != nil {
		if perr := s.preview.Preview(before, after, entry); perr != nil {
			s.logger.Debug("session.preview.failed", "error", perr.Error())
		}
	}
	if info, ierr := GetImageInfo(after, s.format); ierr == nil {
		fmt.Fprintln(s.out, info)
	}
	return nil
}

func (s *Session) promptArg(a stdimg.ArgSpec, vr ValidationRule) (string, error) {
	label := a.Name
	if vr.Example != "" {
		label += " [" + vr.Example + "]"
	}
	switch a.Type {
	case "enum":
		return s.promptChoice(a.Name, a.Options)
	case "ratio":
		return s.promptRatio()
	case "path":
		return s.prompter.PromptPath(fmt.Sprintf("%s (enter a path or '/' to use fzf): ", label))
	}
	switch {
	case vr.Min != nil && vr.Max != nil:
		label += fmt.Sprintf(" (%v - %v)", *vr.Min, *vr.Max)
	case vr.Min != nil:
		label += fmt.Sprintf(" (>= %v)", *vr.Min)
	}
	return s.prompter.PromptLine(label + ": ")
}

// promptChoice lists options by number; the answer may be a number or a name.
// An empty answer keeps the default.
func (s *Session) promptChoice(name string, options []string) (string, error) {
	fmt.Fprintf(s.out, "Choose the %s:\n", name)
	for i, o := range options {
		fmt.Fprintf(s.out, "%d. %s\n", i+1, o)
	}
	v, err := s.prompter.PromptLine("> ")
	if err != nil {
		return "", err
	}
	if idx, perr := strconv.Atoi(v); perr == nil {
		if idx < 1 || idx > len(options) {
			return "", fmt.Errorf("invalid option %d: %w", idx, apperrors.ErrUnknownValue)
		}
		return options[idx-1], nil
	}
	return v, nil
}

var ratioPresets = []string{"square", "4:3", "custom", "none"}

func (s *Session) promptRatio() (string, error) {
	fmt.Fprintln(s.out, "Choose the target ratio:")
	for i, o := range ratioPresets {
		fmt.Fprintf(s.out, "%d. %s\n", i+1, o)
	}
	v, err := s.prompter.PromptLine("> ")
	if err != nil {
		return "", err
	}
	switch strings.ToLower(v) {
	case "", "4", "none":
		return "none", nil
	case "1", "square":
		return "square", nil
	case "2", "4:3":
		return "4:3", nil
	case "3", "custom":
		w, err := s.prompter.PromptLine("Enter width ratio: ")
		if err != nil {
			return "", err
		}
		h, err := s.prompter.PromptLine("Enter height ratio: ")
		if err != nil {
			return "", err
		}
		return w + ":" + h, nil
	}
	// w:h typed directly
	return v, nil
}

// RunCLI is the program entry point: it loads configuration, opens the
// image named on the command line (if any) and runs the session.
func RunCLI() int {
	cfg, err := LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		return 2
	}
	s := NewSession(cfg, os.Stdin, os.Stdout, os.Stderr)
	if len(os.Args) >= 2 {
		if err := s.Open(os.Args[1]); err != nil {
			fmt.Fprintf(os.Stderr, "failed to read image %s: %v\n", os.Args[1], err)
			return 1
		}
	}
	if err := s.Run(context.Background()); err != nil && !errors.Is(err, io.EOF) {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}
