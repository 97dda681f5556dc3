// Package gitutil reads the little state this tool needs from a local
// git checkout.
package gitutil

import (
	"fmt"

	git "github.com/go-git/go-git/v5"
)

// CurrentBranch returns the short branch name the checkout at dir has
// checked out. Used to discover the pull request when no PR number was
// supplied. Detached HEAD states (common with actions/checkout on a
// merge ref) are reported as errors so the caller can ask for an
// explicit PR number instead.
func CurrentBranch(dir string) (string, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", fmt.Errorf("open git repository at %s: %w", dir, err)
	}

	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("read HEAD: %w", err)
	}

	if !head.Name().IsBranch() {
		return "", fmt.Errorf("HEAD is detached at %s; pass an explicit pull request number", head.Hash())
	}

	return head.Name().Short(), nil
}
