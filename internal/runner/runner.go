// Package runner orchestrates a bump run: it resolves the pull request,
// derives the increment class from its labels, and walks the requested
// manifest files one at a time, rewriting and committing each.
package runner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/schmitthub/pr-bump/internal/github"
	"github.com/schmitthub/pr-bump/internal/gitutil"
	"github.com/schmitthub/pr-bump/internal/manifest"
	"github.com/schmitthub/pr-bump/internal/version"
)

// DefaultCommitMessage is the commit message template. {class} and
// {version} are replaced per file.
const DefaultCommitMessage = "chore({class}): bump version to {version}"

// Options configures a single run.
type Options struct {
	PRNumber      int // 0 discovers the PR from the local checkout branch
	Files         []string
	WorkDir       string
	DryRun        bool
	Labels        version.LabelNames
	CommitMessage string
}

// FileResult records what happened to one manifest file.
type FileResult struct {
	Path       string
	NewVersion string // empty when the file was skipped
	Reason     string // skip reason, empty for bumped files
}

// Summary is the outcome of a run across all files.
type Summary struct {
	PullRequest github.PullRequest
	Class       version.IncrementClass
	Bumped      []FileResult
	Skipped     []FileResult
}

// Runner holds the collaborators a run needs. The filesystem is
// injected so tests can run against an in-memory tree.
type Runner struct {
	fs     afero.Fs
	client *github.Client
	log    *zap.Logger

	// branchFunc discovers the checked-out branch; overridable in tests.
	branchFunc func(dir string) (string, error)
}

func New(fs afero.Fs, client *github.Client, log *zap.Logger) *Runner {
	return &Runner{
		fs:         fs,
		client:     client,
		log:        log,
		branchFunc: gitutil.CurrentBranch,
	}
}

// Run processes each requested file sequentially, in the supplied
// order. Warnings (unsupported format, no trunk baseline) and the
// already-incremented signal skip the file; anything else aborts the
// run. Files committed before a later failure stay committed.
func (r *Runner) Run(ctx context.Context, opts Options) (Summary, error) {
	if opts.CommitMessage == "" {
		opts.CommitMessage = DefaultCommitMessage
	}
	if opts.Labels == (version.LabelNames{}) {
		opts.Labels = version.DefaultLabelNames()
	}

	pr, err := r.findPullRequest(ctx, opts)
	if err != nil {
		return Summary{}, err
	}

	class := version.FromLabels(pr.Labels, opts.Labels)
	r.log.Info("resolved pull request",
		zap.Int("number", pr.Number),
		zap.String("head", pr.HeadBranch),
		zap.String("base", pr.BaseBranch),
		zap.Stringer("increment", class),
	)

	summary := Summary{PullRequest: pr, Class: class}

	for _, path := range opts.Files {
		next, err := r.processFile(ctx, pr, class, opts, path)
		switch {
		case err == nil:
			summary.Bumped = append(summary.Bumped, FileResult{Path: path, NewVersion: next.String()})
		case errors.Is(err, version.ErrAlreadyIncremented):
			r.log.Info("version already incremented, skipping", zap.String("file", path))
			summary.Skipped = append(summary.Skipped, FileResult{Path: path, Reason: "already incremented"})
		case errors.Is(err, manifest.ErrUnsupportedFormat):
			r.log.Warn("unsupported manifest format, skipping", zap.String("file", path))
			summary.Skipped = append(summary.Skipped, FileResult{Path: path, Reason: "unsupported format"})
		case errors.Is(err, github.ErrNotFound):
			r.log.Warn("file has no trunk baseline yet, skipping", zap.String("file", path), zap.String("trunk", pr.BaseBranch))
			summary.Skipped = append(summary.Skipped, FileResult{Path: path, Reason: "no trunk baseline"})
		default:
			return summary, fmt.Errorf("%s: %w", path, err)
		}
	}

	return summary, nil
}

func (r *Runner) findPullRequest(ctx context.Context, opts Options) (github.PullRequest, error) {
	if opts.PRNumber > 0 {
		return r.client.PullRequest(ctx, opts.PRNumber)
	}

	branch, err := r.branchFunc(opts.WorkDir)
	if err != nil {
		return github.PullRequest{}, err
	}

	r.log.Debug("discovered checkout branch", zap.String("branch", branch))
	return r.client.PullRequestForBranch(ctx, branch)
}

func (r *Runner) processFile(ctx context.Context, pr github.PullRequest, class version.IncrementClass, opts Options, path string) (version.Version, error) {
	format := manifest.Detect(path)
	if format == manifest.FormatUnknown {
		return version.Version{}, manifest.ErrUnsupportedFormat
	}

	localPath := filepath.Join(opts.WorkDir, path)
	raw, err := afero.ReadFile(r.fs, localPath)
	if err != nil {
		if os.IsNotExist(err) {
			return version.Version{}, fmt.Errorf("local file missing: %w", err)
		}
		return version.Version{}, fmt.Errorf("read local file: %w", err)
	}
	localText := string(raw)

	branchRaw, err := manifest.Extract(format, localText)
	if err != nil {
		return version.Version{}, fmt.Errorf("branch manifest: %w", err)
	}

	trunk, err := r.client.FileContent(ctx, path, pr.BaseBranch)
	if err != nil {
		return version.Version{}, err
	}

	trunkRaw, err := manifest.Extract(format, trunk.Text)
	if err != nil {
		return version.Version{}, fmt.Errorf("trunk manifest: %w", err)
	}

	trunkVersion, err := version.Parse(trunkRaw)
	if err != nil {
		return version.Version{}, fmt.Errorf("trunk version: %w", err)
	}
	branchVersion, err := version.Parse(branchRaw)
	if err != nil {
		return version.Version{}, fmt.Errorf("branch version: %w", err)
	}

	next, err := version.Resolve(trunkVersion, branchVersion, class)
	if err != nil {
		return version.Version{}, err
	}

	newText, err := manifest.Apply(format, localText, branchRaw, next.String())
	if err != nil {
		return version.Version{}, err
	}

	message := commitMessage(opts.CommitMessage, class, next)

	if opts.DryRun {
		r.log.Info("dry run, not writing",
			zap.String("file", path),
			zap.String("from", branchRaw),
			zap.String("to", next.String()),
		)
		return next, nil
	}

	if err := afero.WriteFile(r.fs, localPath, []byte(newText), 0o644); err != nil {
		return version.Version{}, fmt.Errorf("write local file: %w", err)
	}

	// The commit needs the blob SHA of the file as it currently exists
	// on the PR branch.
	head, err := r.client.FileContent(ctx, path, pr.HeadBranch)
	if err != nil {
		// Deliberately not wrapped: a missing blob on the head branch is
		// a hard failure, unlike the trunk-side not-found skip.
		return version.Version{}, fmt.Errorf("fetch head blob: %v", err)
	}

	if err := r.client.UpdateFile(ctx, path, pr.HeadBranch, message, newText, head.SHA); err != nil {
		return version.Version{}, err
	}

	r.log.Info("bumped version",
		zap.String("file", path),
		zap.String("from", branchRaw),
		zap.String("to", next.String()),
	)

	return next, nil
}

func commitMessage(template string, class version.IncrementClass, next version.Version) string {
	return strings.NewReplacer(
		"{class}", class.String(),
		"{version}", next.String(),
	).Replace(template)
}
