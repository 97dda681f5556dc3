// Package github is a minimal client for the few GitHub REST endpoints
// this tool needs: pull request metadata, file contents at a ref, and
// file commits to a branch.
package github

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// DefaultBaseURL is the public GitHub API endpoint. GitHub Actions
// exposes it as GITHUB_API_URL, which also covers GitHub Enterprise.
const DefaultBaseURL = "https://api.github.com"

// ErrNotFound reports a missing resource, such as a file that does not
// exist at the requested ref.
var ErrNotFound = errors.New("github: resource not found")

// Client talks to the GitHub REST API for a single repository.
type Client struct {
	baseURL    string
	token      string
	repository string // "owner/name"
	httpClient *http.Client
}

// NewClient builds a client for the given repository. An empty baseURL
// falls back to the public API endpoint.
func NewClient(token, repository, baseURL string) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		repository: repository,
		httpClient: http.DefaultClient,
	}
}

// PullRequest is the subset of PR metadata the bump run needs.
type PullRequest struct {
	Number     int
	HeadBranch string
	BaseBranch string
	Labels     []string
}

// FileInfo is a file's text content plus the blob SHA required to
// commit an update on top of it.
type FileInfo struct {
	Text string
	SHA  string
}

type pullResponse struct {
	Number int `json:"number"`
	Head   struct {
		Ref string `json:"ref"`
	} `json:"head"`
	Base struct {
		Ref string `json:"ref"`
	} `json:"base"`
	Labels []struct {
		Name string `json:"name"`
	} `json:"labels"`
}

type contentsResponse struct {
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
	SHA      string `json:"sha"`
}

// PullRequest fetches metadata and labels for the given PR number.
func (c *Client) PullRequest(ctx context.Context, number int) (PullRequest, error) {
	path := fmt.Sprintf("/repos/%s/pulls/%d", c.repository, number)

	var resp pullResponse
	if err := c.get(ctx, path, &resp); err != nil {
		return PullRequest{}, fmt.Errorf("fetch pull request #%d: %w", number, err)
	}

	return toPullRequest(resp), nil
}

// PullRequestForBranch finds the open pull request whose head is the
// given branch. Returns ErrNotFound when no open PR exists for it.
func (c *Client) PullRequestForBranch(ctx context.Context, branch string) (PullRequest, error) {
	owner := c.repository
	if i := strings.IndexByte(owner, '/'); i >= 0 {
		owner = owner[:i]
	}
	path := fmt.Sprintf("/repos/%s/pulls?state=open&head=%s", c.repository, url.QueryEscape(owner+":"+branch))

	var resp []pullResponse
	if err := c.get(ctx, path, &resp); err != nil {
		return PullRequest{}, fmt.Errorf("find pull request for branch %s: %w", branch, err)
	}
	if len(resp) == 0 {
		return PullRequest{}, fmt.Errorf("find pull request for branch %s: %w", branch, ErrNotFound)
	}

	return toPullRequest(resp[0]), nil
}

// FileContent fetches a file's decoded text and blob SHA at a ref.
// A missing path maps to ErrNotFound.
func (c *Client) FileContent(ctx context.Context, path, ref string) (FileInfo, error) {
	endpoint := fmt.Sprintf("/repos/%s/contents/%s?ref=%s", c.repository, escapePath(path), url.QueryEscape(ref))

	var resp contentsResponse
	if err := c.get(ctx, endpoint, &resp); err != nil {
		return FileInfo{}, fmt.Errorf("fetch %s at %s: %w", path, ref, err)
	}

	text, err := decodeContent(resp)
	if err != nil {
		return FileInfo{}, fmt.Errorf("fetch %s at %s: %w", path, ref, err)
	}

	return FileInfo{Text: text, SHA: resp.SHA}, nil
}

// UpdateFile commits new content for a file on a branch. sha must be the
// blob SHA of the file's current content on that branch.
func (c *Client) UpdateFile(ctx context.Context, path, branch, message, content, sha string) error {
	endpoint := fmt.Sprintf("/repos/%s/contents/%s", c.repository, escapePath(path))

	payload, err := json.Marshal(map[string]string{
		"message": message,
		"content": base64.StdEncoding.EncodeToString([]byte(content)),
		"branch":  branch,
		"sha":     sha,
	})
	if err != nil {
		return fmt.Errorf("encode commit payload: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPut, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("commit %s: %w", path, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("commit %s: %w", path, err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return fmt.Errorf("commit %s: %w", path, err)
	}

	return nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return err
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", "pr-bump")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return req, nil
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("github api returned status %d", resp.StatusCode)
	}
	return nil
}

func decodeContent(resp contentsResponse) (string, error) {
	if resp.Encoding != "base64" {
		return resp.Content, nil
	}

	// The contents API wraps base64 payloads in newlines.
	compact := strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' {
			return -1
		}
		return r
	}, resp.Content)

	raw, err := base64.StdEncoding.DecodeString(compact)
	if err != nil {
		return "", fmt.Errorf("decode file content: %w", err)
	}

	return string(raw), nil
}

func toPullRequest(resp pullResponse) PullRequest {
	labels := make([]string, 0, len(resp.Labels))
	for _, label := range resp.Labels {
		labels = append(labels, label.Name)
	}

	return PullRequest{
		Number:     resp.Number,
		HeadBranch: resp.Head.Ref,
		BaseBranch: resp.Base.Ref,
		Labels:     labels,
	}
}

func escapePath(path string) string {
	parts := strings.Split(path, "/")
	for i, part := range parts {
		parts[i] = url.PathEscape(part)
	}
	return strings.Join(parts, "/")
}
