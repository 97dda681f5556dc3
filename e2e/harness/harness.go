// Package harness runs the CLI in-process for end-to-end tests and
// hosts a fake GitHub API server.
package harness

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/schmitthub/pr-bump/internal/cmd"
)

// Harness executes CLI commands through the full cmd.NewRootCmd Cobra
// pipeline.
type Harness struct {
	T *testing.T
}

// RunResult holds the outcome of a CLI command execution.
type RunResult struct {
	ExitCode int
	Err      error
}

// Run executes a CLI command in-process.
func (h *Harness) Run(args ...string) *RunResult {
	h.T.Helper()

	rootCmd := cmd.NewRootCmd("test", "test")
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()

	exitCode := 0
	if err != nil {
		exitCode = 1
	}

	return &RunResult{ExitCode: exitCode, Err: err}
}

// Commit records one file commit the fake server received.
type Commit struct {
	Path    string
	Branch  string
	Message string
	Content string
}

// FakeGitHub serves the pull request and contents endpoints for the
// acme/widget repository.
type FakeGitHub struct {
	T *testing.T

	Labels   []string
	Head     string
	Base     string
	Contents map[string]string // "ref/path" -> file text
	Commits  []Commit

	server *httptest.Server
}

// NewFakeGitHub starts the fake server. It is shut down on test cleanup.
func NewFakeGitHub(t *testing.T) *FakeGitHub {
	f := &FakeGitHub{
		T:        t,
		Head:     "feature/bump",
		Base:     "main",
		Contents: make(map[string]string),
	}

	f.server = httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(f.server.Close)

	return f
}

// URL is the base API URL of the fake server.
func (f *FakeGitHub) URL() string { return f.server.URL }

// Put stores file text for a ref.
func (f *FakeGitHub) Put(ref, path, text string) {
	f.Contents[ref+"/"+path] = text
}

func (f *FakeGitHub) handle(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/repos/acme/widget/pulls/"):
		fmt.Fprint(w, f.pullJSON())
	case r.Method == http.MethodGet && r.URL.Path == "/repos/acme/widget/pulls":
		fmt.Fprintf(w, `[%s]`, f.pullJSON())
	case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/repos/acme/widget/contents/"):
		f.serveContents(w, r)
	case r.Method == http.MethodPut && strings.HasPrefix(r.URL.Path, "/repos/acme/widget/contents/"):
		f.serveCommit(w, r)
	default:
		f.T.Errorf("fake github: unexpected request %s %s", r.Method, r.URL)
		http.Error(w, "unexpected", http.StatusTeapot)
	}
}

func (f *FakeGitHub) pullJSON() string {
	labels := make([]string, 0, len(f.Labels))
	for _, l := range f.Labels {
		labels = append(labels, fmt.Sprintf(`{"name": %q}`, l))
	}
	return fmt.Sprintf(`{"number": 42, "head": {"ref": %q}, "base": {"ref": %q}, "labels": [%s]}`,
		f.Head, f.Base, strings.Join(labels, ","))
}

func (f *FakeGitHub) serveContents(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/repos/acme/widget/contents/")
	ref := r.URL.Query().Get("ref")

	text, ok := f.Contents[ref+"/"+path]
	if !ok {
		http.NotFound(w, r)
		return
	}

	fmt.Fprintf(w, `{"content": %q, "encoding": "base64", "sha": "sha-of-%s"}`,
		base64.StdEncoding.EncodeToString([]byte(text)), ref)
}

func (f *FakeGitHub) serveCommit(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/repos/acme/widget/contents/")

	var body struct {
		Message string `json:"message"`
		Content string `json:"content"`
		Branch  string `json:"branch"`
		SHA     string `json:"sha"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		f.T.Errorf("fake github: decode commit body: %v", err)
		http.Error(w, "bad body", http.StatusBadRequest)
		return
	}

	decoded, err := base64.StdEncoding.DecodeString(body.Content)
	if err != nil {
		f.T.Errorf("fake github: decode commit content: %v", err)
		http.Error(w, "bad content", http.StatusBadRequest)
		return
	}

	f.Commits = append(f.Commits, Commit{
		Path:    path,
		Branch:  body.Branch,
		Message: body.Message,
		Content: string(decoded),
	})
	f.Contents[body.Branch+"/"+path] = string(decoded)

	w.WriteHeader(http.StatusCreated)
	fmt.Fprint(w, `{}`)
}
