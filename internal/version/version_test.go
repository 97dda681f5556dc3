package version

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    Version
		wantErr bool
	}{
		{name: "plain triple", raw: "1.2.3", want: Version{1, 2, 3}},
		{name: "zeros", raw: "0.0.0", want: Version{0, 0, 0}},
		{name: "large components", raw: "10.20.30", want: Version{10, 20, 30}},
		{name: "two components", raw: "1.2", wantErr: true},
		{name: "four components", raw: "1.2.3.4", wantErr: true},
		{name: "non numeric", raw: "1.2.x", wantErr: true},
		{name: "negative component", raw: "1.-2.3", wantErr: true},
		{name: "v prefix", raw: "v1.2.3", wantErr: true},
		{name: "pre-release", raw: "1.2.3-rc.1", wantErr: true},
		{name: "empty", raw: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.raw)
			if tt.wantErr {
				var invalid *InvalidVersionError
				require.ErrorAs(t, err, &invalid)
				assert.Equal(t, tt.raw, invalid.Raw)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBump(t *testing.T) {
	base := Version{1, 2, 3}

	assert.Equal(t, Version{2, 0, 0}, base.Bump(Major))
	assert.Equal(t, Version{1, 3, 0}, base.Bump(Minor))
	assert.Equal(t, Version{1, 2, 4}, base.Bump(Patch))
}

func TestCompare(t *testing.T) {
	tests := []struct {
		name string
		a, b Version
		want int
	}{
		{name: "equal", a: Version{1, 2, 3}, b: Version{1, 2, 3}, want: 0},
		{name: "major wins", a: Version{2, 0, 0}, b: Version{1, 9, 9}, want: 1},
		{name: "minor wins", a: Version{1, 3, 0}, b: Version{1, 2, 9}, want: 1},
		{name: "patch wins", a: Version{1, 2, 4}, b: Version{1, 2, 3}, want: 1},
		{name: "lower", a: Version{0, 9, 9}, b: Version{1, 0, 0}, want: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Compare(tt.b))
			assert.Equal(t, -tt.want, tt.b.Compare(tt.a))
		})
	}
}

func TestString(t *testing.T) {
	assert.Equal(t, "1.2.3", Version{1, 2, 3}.String())
	assert.Equal(t, "0.0.0", Version{}.String())
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name               string
		trunk, branch      string
		class              IncrementClass
		want               string
		alreadyIncremented bool
	}{
		{name: "equal major", trunk: "1.2.3", branch: "1.2.3", class: Major, want: "2.0.0"},
		{name: "equal minor", trunk: "1.2.3", branch: "1.2.3", class: Minor, want: "1.3.0"},
		{name: "equal patch", trunk: "1.2.3", branch: "1.2.3", class: Patch, want: "1.2.4"},
		{name: "already bumped patch", trunk: "1.2.3", branch: "1.2.4", class: Patch, alreadyIncremented: true},
		{name: "already bumped minor", trunk: "1.2.3", branch: "1.3.0", class: Minor, alreadyIncremented: true},
		{name: "already bumped major", trunk: "1.2.3", branch: "2.0.0", class: Major, alreadyIncremented: true},
		{name: "trunk advanced", trunk: "2.0.0", branch: "1.2.3", class: Patch, want: "2.0.1"},
		{name: "trunk advanced major", trunk: "3.1.0", branch: "1.2.3", class: Major, want: "4.0.0"},
		{name: "branch ahead wrong dimension", trunk: "1.2.3", branch: "1.3.0", class: Patch, want: "1.2.4"},
		{name: "branch ahead too far", trunk: "1.2.3", branch: "1.2.9", class: Patch, want: "1.2.4"},
		{name: "branch ahead dirty patch on minor bump", trunk: "1.2.3", branch: "1.3.1", class: Minor, want: "1.3.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trunk, err := Parse(tt.trunk)
			require.NoError(t, err)
			branch, err := Parse(tt.branch)
			require.NoError(t, err)

			got, err := Resolve(trunk, branch, tt.class)
			if tt.alreadyIncremented {
				require.ErrorIs(t, err, ErrAlreadyIncremented)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestResolveEqualAlwaysBumps(t *testing.T) {
	// Equal trunk/branch is never treated as already incremented, even
	// when both sit one step past some older baseline.
	v := Version{4, 5, 6}
	for _, class := range []IncrementClass{Major, Minor, Patch} {
		got, err := Resolve(v, v, class)
		require.NoError(t, err)
		assert.Equal(t, v.Bump(class), got)
	}
}

func TestFromLabels(t *testing.T) {
	names := DefaultLabelNames()

	tests := []struct {
		name   string
		labels []string
		want   IncrementClass
	}{
		{name: "no labels", labels: nil, want: Patch},
		{name: "unrecognized only", labels: []string{"bug", "docs"}, want: Patch},
		{name: "major", labels: []string{"major"}, want: Major},
		{name: "minor", labels: []string{"minor"}, want: Minor},
		{name: "patch explicit", labels: []string{"patch"}, want: Patch},
		{name: "major beats minor regardless of order", labels: []string{"minor", "major"}, want: Major},
		{name: "major first", labels: []string{"major", "minor", "patch"}, want: Major},
		{name: "minor beats patch regardless of order", labels: []string{"patch", "minor"}, want: Minor},
		{name: "mixed with noise", labels: []string{"enhancement", "minor", "help wanted"}, want: Minor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FromLabels(tt.labels, names))
		})
	}
}

func TestFromLabelsCustomNames(t *testing.T) {
	names := LabelNames{Major: "semver:major", Minor: "semver:minor", Patch: "semver:patch"}

	assert.Equal(t, Major, FromLabels([]string{"semver:major"}, names))
	// Default names are not recognized under a custom mapping.
	assert.Equal(t, Patch, FromLabels([]string{"major"}, names))
}

func TestInvalidVersionErrorIsNotAlreadyIncremented(t *testing.T) {
	_, err := Parse("1.2")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrAlreadyIncremented))
}
