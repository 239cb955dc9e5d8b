package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"regexp"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/blang/semver"
	"github.com/rhysd/go-github-selfupdate/selfupdate"
)

// Updater checks GitHub releases of Repo and replaces the running binary.
type Updater struct {
	Repo    string // owner/name
	APIBase string // defaults to https://api.github.com
	Client  *http.Client
	Current string // running version

	prompter *Prompter
	out      io.Writer
}

// NewUpdater builds an Updater for cfg.UpdateRepo that asks for confirmation
// through p.
func NewUpdater(cfg Config, p *Prompter, out io.Writer) *Updater {
	return &Updater{
		Repo:     cfg.UpdateRepo,
		APIBase:  "https://api.github.com",
		Client:   &http.Client{Timeout: 10 * time.Second},
		Current:  Version,
		prompter: p,
		out:      out,
	}
}

type ghRelease struct {
	TagName    string `json:"tag_name"`
	Name       string `json:"name"`
	Draft      bool   `json:"draft"`
	Prerelease bool   `json:"prerelease"`
	Assets     []struct {
		Name               string `json:"name"`
		BrowserDownloadURL string `json:"browser_download_url"`
	} `json:"assets"`
}

var semverRe = regexp.MustCompile(`v?\d+\.\d+\.\d+(-[0-9A-Za-z.-]+)?(\+[0-9A-Za-z.-]+)?`)

// DetectLatest queries the releases API and returns the highest published,
// non-prerelease semver release. It returns (nil, false, nil) when nothing
// usable is found.
func (u *Updater) DetectLatest(ctx context.Context) (*selfupdate.Release, bool, error) {
	apiURL := fmt.Sprintf("%s/repos/%s/releases", strings.TrimRight(u.APIBase, "/"), u.Repo)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, false, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	resp, err := u.Client.Do(req)
	if err != nil {
		return nil, false, fmt.Errorf("github API request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, false, fmt.Errorf("failed reading github response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, false, fmt.Errorf("github API returned status %d: %s", resp.StatusCode, string(body))
	}
	var releases []ghRelease
	if err := json.Unmarshal(body, &releases); err != nil {
		return nil, false, fmt.Errorf("failed to decode github releases: %w", err)
	}
	rel := pickLatest(releases)
	return rel, rel != nil, nil
}

func pickLatest(releases []ghRelease) *selfupdate.Release {
	type candidate struct {
		ver      semver.Version
		assetURL string
	}
	var candidates []candidate
	for _, r := range releases {
		if r.Draft || r.Prerelease {
			continue
		}
		match := semverRe.FindString(r.TagName)
		if match == "" {
			match = semverRe.FindString(r.Name)
		}
		if match == "" {
			continue
		}
		v, err := semver.Parse(strings.TrimPrefix(match, "v"))
		if err != nil {
			continue
		}
		candidates = append(candidates, candidate{ver: v, assetURL: pickAsset(r)})
	}
	if len(candidates) == 0 {
		return nil
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].ver.GT(candidates[j].ver)
	})
	return &selfupdate.Release{Version: candidates[0].ver, AssetURL: candidates[0].assetURL}
}

// pickAsset prefers assets that look like platform binaries, else the first.
func pickAsset(r ghRelease) string {
	url := ""
	for _, a := range r.Assets {
		n := strings.ToLower(a.Name)
		for _, hint := range []string{"darwin", "linux", "windows", "amd64", "arm64"} {
			if strings.Contains(n, hint) {
				return a.BrowserDownloadURL
			}
		}
		if url == "" {
			url = a.BrowserDownloadURL
		}
	}
	return url
}

// CheckForUpdates reports the latest release and, after confirmation,
// installs it and restarts the process.
func (u *Updater) CheckForUpdates(ctx context.Context) error {
	fmt.Fprintf(u.out, "Current version: %s\n", u.Current)
	latest, found, err := u.DetectLatest(ctx)
	if err != nil {
		return fmt.Errorf("update check failed: %w", err)
	}
	if !found {
		fmt.Fprintf(u.out, "No releases found for %s.\n", u.Repo)
		return nil
	}
	fmt.Fprintf(u.out, "Latest version: %s\n", latest.Version)

	currentVer, perr := semver.Parse(strings.TrimPrefix(u.Current, "v"))
	if perr != nil {
		fmt.Fprintf(u.out, "warning: could not parse current version %q: %v\n", u.Current, perr)
	} else if latest.Version.LTE(currentVer) {
		fmt.Fprintf(u.out, "You are already running the latest version: %s.\n", currentVer)
		return nil
	}

	if latest.AssetURL == "" {
		fmt.Fprintf(u.out, "A new version (%s) is available but there is no downloadable asset.\n", latest.Version)
		return nil
	}

	answer, err := u.prompter.PromptLine(fmt.Sprintf("A new version (%s) is available. Update now? (y/N): ", latest.Version))
	if err != nil {
		return fmt.Errorf("failed reading input: %w", err)
	}
	answer = strings.ToLower(answer)
	if answer != "y" && answer != "yes" {
		fmt.Fprintln(u.out, "Update cancelled.")
		return nil
	}

	fmt.Fprintln(u.out, "Updating...")
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("could not locate executable: %w", err)
	}
	if err := selfupdate.UpdateTo(latest.AssetURL, exe); err != nil {
		return fmt.Errorf("update failed: %w", err)
	}

	// Exec only returns on error; then start the new binary as a child.
	argv := append([]string{exe}, os.Args[1:]...)
	if err := syscall.Exec(exe, argv, os.Environ()); err != nil {
		cmd := exec.Command(exe, os.Args[1:]...)
		cmd.Stdin = os.Stdin
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		if startErr := cmd.Start(); startErr != nil {
			fmt.Fprintf(u.out, "Updated to version %s, but failed to restart automatically: %v\n", latest.Version, startErr)
			fmt.Fprintln(u.out, "Please restart the application manually.")
			return nil
		}
		os.Exit(0)
	}
	return nil
}
