package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds runtime settings read from the environment and optional
// .env files.
type Config struct {
	JPEGQuality    int    // IMGARITH_JPEG_QUALITY, 1..100
	Preview        bool   // IMGARITH_PREVIEW
	PreviewBackend string // PREVIEW_BACKEND: kitty, inline, sixel, chafa or empty
	PreviewDebug   bool   // PREVIEW_DEBUG
	Debug          bool   // IMGARITH_DEBUG enables debug-level structured logs
	UpdateRepo     string // IMGARITH_UPDATE_REPO, owner/name on GitHub
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		JPEGQuality: 92,
		Preview:     true,
		UpdateRepo:  "Fepozopo/imgarith",
	}
}

// LoadConfig loads the given .env files (".env" when none are given) into
// the process environment, then builds a Config from it. Missing files are
// ignored; variables already set in the environment take precedence.
func LoadConfig(paths ...string) (Config, error) {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("load %s: %w", p, err)
		}
	}

	cfg := DefaultConfig()
	if v := os.Getenv("IMGARITH_JPEG_QUALITY"); v != "" {
		q, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return Config{}, fmt.Errorf("IMGARITH_JPEG_QUALITY: %w", err)
		}
		cfg.JPEGQuality = q
	}
	if v := os.Getenv("IMGARITH_PREVIEW"); v != "" {
		b, err := parseBoolLike(v)
		if err != nil {
			return Config{}, fmt.Errorf("IMGARITH_PREVIEW: %w", err)
		}
		cfg.Preview = b
	}
	cfg.PreviewBackend = strings.ToLower(strings.TrimSpace(os.Getenv("PREVIEW_BACKEND")))
	if v := os.Getenv("PREVIEW_DEBUG"); v != "" {
		cfg.PreviewDebug, _ = parseBoolLike(v)
	}
	if v := os.Getenv("IMGARITH_DEBUG"); v != "" {
		cfg.Debug, _ = parseBoolLike(v)
	}
	if v := strings.TrimSpace(os.Getenv("IMGARITH_UPDATE_REPO")); v != "" {
		cfg.UpdateRepo = v
	}
	return cfg, Validate(cfg)
}

// Validate returns an error if the configuration is inconsistent.
func Validate(c Config) error {
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		return fmt.Errorf("config: JPEG quality must be between 1 and 100, got %d", c.JPEGQuality)
	}
	switch c.PreviewBackend {
	case "", "kitty", "inline", "iterm", "wezterm", "sixel", "chafa":
	default:
		return fmt.Errorf("config: unknown PREVIEW_BACKEND %q", c.PreviewBackend)
	}
	if !strings.Contains(c.UpdateRepo, "/") {
		return fmt.Errorf("config: update repo must be owner/name, got %q", c.UpdateRepo)
	}
	return nil
}

// Logger returns the structured logger for the session: debug level to
// stderr when Debug is set, otherwise warnings only.
func (c Config) Logger(w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	level := slog.LevelWarn
	if c.Debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// parseBoolLike accepts common truthy/falsy forms.
func parseBoolLike(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "t", "true", "y", "yes", "on":
		return true, nil
	case "0", "f", "false", "n", "no", "off":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean: %q", s)
	}
}
