package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/schmitthub/pr-bump/internal/github"
	"github.com/schmitthub/pr-bump/internal/logging"
	"github.com/schmitthub/pr-bump/internal/runner"
	"github.com/schmitthub/pr-bump/internal/version"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Bump manifest versions for the pull request and commit back",
		RunE:  runBump,
	}

	cmd.Flags().StringVar(&rootOpts.Token, "token", "", "GitHub token (defaults to GITHUB_TOKEN)")
	cmd.Flags().StringVar(&rootOpts.Repository, "repository", "", "Repository as owner/name (defaults to GITHUB_REPOSITORY)")
	cmd.Flags().IntVar(&rootOpts.PRNumber, "pr", 0, "Pull request number (0 discovers it from the checked-out branch)")
	cmd.Flags().StringVar(&rootOpts.Files, "files", "", "Comma-separated manifest files to bump")
	cmd.Flags().StringVar(&rootOpts.WorkDir, "workdir", "", "Directory holding the checked-out PR branch")
	cmd.Flags().StringVar(&rootOpts.APIURL, "api-url", "", "GitHub API endpoint (defaults to GITHUB_API_URL)")
	cmd.Flags().StringVar(&rootOpts.CommitMessage, "commit-message", "", "Commit message template; {class} and {version} are substituted")
	cmd.Flags().BoolVar(&rootOpts.DryRun, "dry-run", false, "Resolve and report without writing or committing")
	cmd.Flags().StringVar(&rootOpts.LabelMajor, "label-major", "", "PR label requesting a major bump")
	cmd.Flags().StringVar(&rootOpts.LabelMinor, "label-minor", "", "PR label requesting a minor bump")
	cmd.Flags().StringVar(&rootOpts.LabelPatch, "label-patch", "", "PR label requesting a patch bump")

	return cmd
}

func runBump(cmd *cobra.Command, _ []string) error {
	opts, err := mergedOptions(cmd)
	if err != nil {
		return err
	}

	if opts.Repository == "" {
		return fmt.Errorf("repository is required (set --repository or GITHUB_REPOSITORY)")
	}
	files := splitFiles(opts.Files)
	if len(files) == 0 {
		return fmt.Errorf("no files to bump (set --files or PR_BUMP_FILES)")
	}

	log, err := logging.New(opts.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	if !opts.DryRun {
		if err := confirmCommit(cmd, opts.Yes, opts.Repository, files); err != nil {
			return err
		}
	}

	client := github.NewClient(opts.Token, opts.Repository, opts.APIURL)
	r := runner.New(afero.NewOsFs(), client, log)

	summary, err := r.Run(cmd.Context(), runner.Options{
		PRNumber: opts.PRNumber,
		Files:    files,
		WorkDir:  opts.WorkDir,
		DryRun:   opts.DryRun,
		Labels: version.LabelNames{
			Major: opts.LabelMajor,
			Minor: opts.LabelMinor,
			Patch: opts.LabelPatch,
		},
		CommitMessage: opts.CommitMessage,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, file := range summary.Bumped {
		if opts.DryRun {
			fmt.Fprintf(out, "Would bump %s to %s (%s)\n", file.Path, file.NewVersion, summary.Class)
			continue
		}
		fmt.Fprintf(out, "Bumped %s to %s (%s)\n", file.Path, file.NewVersion, summary.Class)
	}
	for _, file := range summary.Skipped {
		fmt.Fprintf(out, "Skipped %s: %s\n", file.Path, file.Reason)
	}

	return nil
}

func splitFiles(raw string) []string {
	parts := strings.Split(raw, ",")
	files := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			files = append(files, trimmed)
		}
	}
	return files
}
