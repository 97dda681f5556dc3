package update

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestCache(t *testing.T, latest string, checkedAt time.Time) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "update-check.json")
	payload, err := json.Marshal(cachedRelease{
		CheckedAt:     checkedAt,
		LatestVersion: latest,
		ReleaseURL:    "https://example.com/release",
	})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, payload, 0o644))

	return path
}

func TestCheckForUpdateSkipsDevBuilds(t *testing.T) {
	for _, v := range []string{"", "DEV", "dev", "not-a-version"} {
		result, err := CheckForUpdate(context.Background(), "", v, "schmitthub/pr-bump")
		require.NoError(t, err)
		assert.Nil(t, result)
	}
}

func TestCheckForUpdateUsesFreshCache(t *testing.T) {
	path := writeTestCache(t, "2.0.0", time.Now().UTC())

	result, err := CheckForUpdate(context.Background(), path, "1.0.0", "schmitthub/pr-bump")
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.UpdateAvailable)
	assert.Equal(t, "2.0.0", result.LatestVersion)
	assert.Equal(t, "https://example.com/release", result.ReleaseURL)
}

func TestCheckForUpdateFreshCacheAlreadyLatest(t *testing.T) {
	path := writeTestCache(t, "1.0.0", time.Now().UTC())

	result, err := CheckForUpdate(context.Background(), path, "1.0.0", "schmitthub/pr-bump")
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestCheckForUpdateCacheFreshJustInsideWindow(t *testing.T) {
	path := writeTestCache(t, "2.0.0", time.Now().UTC().Add(-11*time.Hour))

	result, err := CheckForUpdate(context.Background(), path, "1.0.0", "schmitthub/pr-bump")
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "2.0.0", result.LatestVersion)
	assert.Equal(t, "https://example.com/release", result.ReleaseURL)
}

func TestCacheRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "update-check.json")

	want := cachedRelease{
		CheckedAt:     time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		LatestVersion: "1.2.3",
		ReleaseURL:    "https://example.com/v1.2.3",
	}
	require.NoError(t, writeCache(path, want))

	got := readCache(path)
	require.NotNil(t, got)
	assert.Equal(t, want, *got)
}

func TestReadCacheMissingOrCorrupt(t *testing.T) {
	assert.Nil(t, readCache(filepath.Join(t.TempDir(), "nope.json")))

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	assert.Nil(t, readCache(path))
}
