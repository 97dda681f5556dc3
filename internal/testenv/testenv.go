// Package testenv provides isolated test environments for CLI-level
// tests: a temp working tree seeded with manifest files, plus the
// environment variables the command layer reads (restored on cleanup).
//
// Usage:
//
//	env := testenv.New(t,
//		testenv.WithFile("package.json", `{"version": "1.2.3"}`),
//		testenv.WithGitHub(server.URL),
//	)
//	env.WorkDir // temp working tree
package testenv

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/schmitthub/pr-bump/internal/config"
)

// Env is an isolated working tree plus optional parsed config.
type Env struct {
	WorkDir string
	Config  *config.FileConfig
}

// Option configures an Env during construction.
type Option func(t *testing.T, e *Env)

// WithFile seeds a file (relative to the working tree) before the test
// runs.
func WithFile(name, content string) Option {
	return func(t *testing.T, e *Env) {
		t.Helper()
		path := filepath.Join(e.WorkDir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("testenv: creating dir for %s: %v", name, err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("testenv: writing %s: %v", name, err)
		}
	}
}

// WithGitHub points the CLI at a fake GitHub API server and installs
// placeholder credentials.
func WithGitHub(apiURL string) Option {
	return func(t *testing.T, e *Env) {
		t.Helper()
		t.Setenv("PR_BUMP_API_URL", apiURL)
		t.Setenv("GITHUB_TOKEN", "test-token")
		t.Setenv("GITHUB_REPOSITORY", "acme/widget")
	}
}

// WithEnv sets an arbitrary environment variable for the test.
func WithEnv(name, value string) Option {
	return func(t *testing.T, e *Env) {
		t.Helper()
		t.Setenv(name, value)
	}
}

// WithConfig parses a YAML config string and attaches it to the Env.
func WithConfig(yaml string) Option {
	return func(t *testing.T, e *Env) {
		t.Helper()
		cfg, err := config.FromString(yaml)
		if err != nil {
			t.Fatalf("testenv: creating config: %v", err)
		}
		e.Config = &cfg
	}
}

// New creates an isolated test environment. It:
//  1. Creates a temp working tree and sets PR_BUMP_WORKDIR to it
//  2. Applies any options (seed files, env vars, config)
func New(t *testing.T, opts ...Option) *Env {
	t.Helper()

	// Resolve symlinks on the base temp dir so paths match os.Getwd()
	// after chdir (macOS: /var → /private/var).
	base, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatalf("testenv: resolving temp dir symlinks: %v", err)
	}

	env := &Env{WorkDir: base}
	t.Setenv("PR_BUMP_WORKDIR", base)

	for _, opt := range opts {
		opt(t, env)
	}

	return env
}
