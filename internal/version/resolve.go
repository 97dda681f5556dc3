package version

import "errors"

// ErrAlreadyIncremented signals that the branch version already reflects
// the requested bump relative to trunk. It is a skip signal for re-runs,
// not a failure.
var ErrAlreadyIncremented = errors.New("branch version already reflects the requested increment")

// Resolve decides the next version given the version recorded on trunk,
// the version currently on the PR branch, and the requested increment
// class. The action may run several times against the same PR, so the
// resolution must be idempotent in effect:
//
//   - trunk == branch: no bump happened yet, increment the branch version.
//   - trunk ahead of branch: trunk moved since the branch was cut; the
//     branch value is stale, increment trunk instead.
//   - branch exactly one requested step ahead of trunk: the bump was
//     already applied, return ErrAlreadyIncremented.
//   - any other divergence: re-baseline to trunk and increment that.
//     This is the permissive policy; rejecting unexplained divergence
//     would fail re-runs after unrelated version edits on the branch.
func Resolve(trunk, branch Version, class IncrementClass) (Version, error) {
	switch {
	case trunk == branch:
		return branch.Bump(class), nil
	case trunk.Compare(branch) > 0:
		return trunk.Bump(class), nil
	case branch == trunk.Bump(class):
		return Version{}, ErrAlreadyIncremented
	default:
		return trunk.Bump(class), nil
	}
}
