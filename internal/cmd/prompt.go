package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// confirmCommit asks before pushing commits to the PR branch. CI
// environments pass --yes (or run non-interactively and fail fast here
// rather than hang).
func confirmCommit(cmd *cobra.Command, yes bool, repository string, files []string) error {
	if yes {
		return nil
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "This will commit version bumps to the pull request branch of %s:\n", repository)
	for _, file := range files {
		fmt.Fprintf(cmd.ErrOrStderr(), "  %s\n", file)
	}
	fmt.Fprint(cmd.ErrOrStderr(), "Continue? [y/N]: ")

	reader := bufio.NewReader(cmd.InOrStdin())
	input, err := reader.ReadString('\n')
	if err != nil && len(input) == 0 {
		return fmt.Errorf("commit aborted (no confirmation provided; use --yes to skip prompts)")
	}

	answer := strings.ToLower(strings.TrimSpace(input))
	if answer != "y" && answer != "yes" {
		return fmt.Errorf("commit aborted")
	}

	return nil
}
