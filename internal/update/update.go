// Package update implements the best-effort new-release notice printed
// after a successful run. Results are cached on disk so the GitHub
// releases API is hit at most once every 12 hours.
package update

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	semver "github.com/Masterminds/semver/v3"
)

const checkInterval = 12 * time.Hour

type CheckResult struct {
	CurrentVersion  string
	LatestVersion   string
	ReleaseURL      string
	UpdateAvailable bool
}

type cachedRelease struct {
	CheckedAt     time.Time `json:"checked_at"`
	LatestVersion string    `json:"latest_version"`
	ReleaseURL    string    `json:"release_url"`
}

type githubRelease struct {
	TagName string `json:"tag_name"`
	HTMLURL string `json:"html_url"`
}

// DefaultStatePath returns the cache file location under the user cache
// directory.
func DefaultStatePath() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil || strings.TrimSpace(cacheDir) == "" {
		cacheDir = ".cache"
	}

	targetDir := filepath.Join(cacheDir, "pr-bump")
	if mkErr := os.MkdirAll(targetDir, 0o755); mkErr != nil {
		return "", fmt.Errorf("create update cache directory: %w", mkErr)
	}

	return filepath.Join(targetDir, "update-check.json"), nil
}

// CheckForUpdate compares the running version against the latest GitHub
// release of repo. Dev builds and unparsable versions skip the check
// silently. Network failures fall back to the cached result when one
// exists.
func CheckForUpdate(ctx context.Context, statePath, currentVersion, repo string) (*CheckResult, error) {
	currentVersion = strings.TrimPrefix(strings.TrimSpace(currentVersion), "v")
	if currentVersion == "" || strings.EqualFold(currentVersion, "dev") {
		return nil, nil
	}

	current, err := semver.NewVersion(currentVersion)
	if err != nil {
		return nil, nil
	}

	cached := readCache(statePath)
	if cached != nil && time.Since(cached.CheckedAt) < checkInterval {
		return resultAgainst(current, cached), nil
	}

	release, err := fetchLatestRelease(ctx, repo)
	if err != nil {
		if cached != nil {
			return resultAgainst(current, cached), nil
		}
		return nil, err
	}

	next := cachedRelease{
		CheckedAt:     time.Now().UTC(),
		LatestVersion: strings.TrimPrefix(strings.TrimSpace(release.TagName), "v"),
		ReleaseURL:    release.HTMLURL,
	}
	_ = writeCache(statePath, next)

	return resultAgainst(current, &next), nil
}

func fetchLatestRelease(ctx context.Context, repo string) (*githubRelease, error) {
	url := fmt.Sprintf("https://api.github.com/repos/%s/releases/latest", strings.TrimSpace(repo))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", "pr-bump-update-check")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("github releases api returned status %d", resp.StatusCode)
	}

	var release githubRelease
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return nil, err
	}
	if strings.TrimSpace(release.TagName) == "" {
		return nil, fmt.Errorf("github release tag is empty")
	}

	return &release, nil
}

// resultAgainst returns an update notice when the cached release is
// newer than the running version, nil otherwise.
func resultAgainst(current *semver.Version, cached *cachedRelease) *CheckResult {
	latest, err := semver.NewVersion(cached.LatestVersion)
	if err != nil {
		return nil
	}
	if !latest.GreaterThan(current) {
		return nil
	}

	return &CheckResult{
		CurrentVersion:  current.Original(),
		LatestVersion:   latest.Original(),
		ReleaseURL:      cached.ReleaseURL,
		UpdateAvailable: true,
	}
}

func readCache(path string) *cachedRelease {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	var c cachedRelease
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil
	}

	return &c
}

func writeCache(path string, c cachedRelease) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	payload, err := json.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, payload, 0o644)
}
