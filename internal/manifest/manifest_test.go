package manifest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const packageJSON = `{
  "name": "demo-app",
  "version": "1.2.3",
  "dependencies": {
    "left-pad": "1.2.3"
  }
}
`

const pomXML = `<?xml version="1.0" encoding="UTF-8"?>
<project>
  <groupId>com.example</groupId>
  <artifactId>demo-app</artifactId>
  <version>1.2.3</version>
  <dependencies>
    <dependency>
      <groupId>org.example</groupId>
      <artifactId>lib</artifactId>
      <version>1.2.3</version>
    </dependency>
  </dependencies>
</project>
`

const gradleProperties = `group=com.example
version=1.2.3
description=demo 1.2.3 build
`

func TestDetect(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{path: "package.json", want: FormatPackageJSON},
		{path: "sub/dir/package.json", want: FormatPackageJSON},
		{path: "pom.xml", want: FormatPOM},
		{path: "module/pom.xml", want: FormatPOM},
		{path: "build.gradle", want: FormatGradle},
		{path: "build.gradle.kts", want: FormatGradle},
		{path: "gradle.properties", want: FormatGradle},
		{path: "README.md", want: FormatUnknown},
		{path: "Makefile", want: FormatUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, Detect(tt.path))
		})
	}
}

func TestExtract(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		text   string
		want   string
	}{
		{name: "package.json", format: FormatPackageJSON, text: packageJSON, want: "1.2.3"},
		{name: "pom", format: FormatPOM, text: pomXML, want: "1.2.3"},
		{name: "gradle", format: FormatGradle, text: gradleProperties, want: "1.2.3"},
		{name: "gradle quoted", format: FormatGradle, text: "version = '2.0.1'\n", want: "2.0.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Extract(tt.format, tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractMissingVersion(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		text   string
	}{
		{name: "json without version", format: FormatPackageJSON, text: `{"name": "demo"}`},
		{name: "json empty version", format: FormatPackageJSON, text: `{"version": ""}`},
		{name: "pom without version", format: FormatPOM, text: "<project></project>"},
		{name: "gradle without version", format: FormatGradle, text: "group=com.example\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Extract(tt.format, tt.text)
			require.ErrorIs(t, err, ErrVersionFieldMissing)
		})
	}
}

func TestExtractMalformedJSON(t *testing.T) {
	_, err := Extract(FormatPackageJSON, "{not json")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrVersionFieldMissing)
}

func TestExtractUnsupportedFormat(t *testing.T) {
	_, err := Extract(FormatUnknown, "anything")
	require.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = Apply(FormatUnknown, "anything", "1.0.0", "1.0.1")
	require.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestApplyPackageJSON(t *testing.T) {
	got, err := Apply(FormatPackageJSON, packageJSON, "1.2.3", "1.3.0")
	require.NoError(t, err)

	assert.Contains(t, got, `"version": "1.3.0"`)
	// The dependency pinned to the same version is untouched.
	assert.Contains(t, got, `"left-pad": "1.2.3"`)
}

func TestApplyPackageJSONNestedVersionBeforeTopLevel(t *testing.T) {
	// A nested version member appearing earlier in the document must not
	// shadow the package version.
	doc := `{
  "name": "demo-app",
  "publishConfig": {
    "version": "1.2.3"
  },
  "version": "1.2.3"
}
`
	got, err := Apply(FormatPackageJSON, doc, "1.2.3", "1.3.0")
	require.NoError(t, err)

	assert.Equal(t, 1, strings.Count(got, `"1.3.0"`))
	assert.Contains(t, got, "\"publishConfig\": {\n    \"version\": \"1.2.3\"")

	extracted, err := Extract(FormatPackageJSON, got)
	require.NoError(t, err)
	assert.Equal(t, "1.3.0", extracted)
}

func TestApplyPackageJSONMinified(t *testing.T) {
	got, err := Apply(FormatPackageJSON, `{"dependencies":{"version":"1.2.3"},"version":"1.2.3"}`, "1.2.3", "2.0.0")
	require.NoError(t, err)
	assert.Equal(t, `{"dependencies":{"version":"1.2.3"},"version":"2.0.0"}`, got)
}

func TestApplyPOMFirstMatchOnly(t *testing.T) {
	got, err := Apply(FormatPOM, pomXML, "1.2.3", "2.0.0")
	require.NoError(t, err)

	assert.Contains(t, got, "<version>2.0.0</version>")
	// Only the project version changes; the dependency keeps its own.
	assert.Equal(t, 1, strings.Count(got, "<version>2.0.0</version>"))
	assert.Equal(t, 1, strings.Count(got, "<version>1.2.3</version>"))
}

func TestApplyGradleLeavesUnrelatedText(t *testing.T) {
	got, err := Apply(FormatGradle, gradleProperties, "1.2.3", "1.2.4")
	require.NoError(t, err)

	assert.Contains(t, got, "version=1.2.4")
	// The version string inside the description is not an assignment and
	// must survive untouched.
	assert.Contains(t, got, "description=demo 1.2.3 build")
}

func TestApplyMismatchedOldVersion(t *testing.T) {
	_, err := Apply(FormatPOM, pomXML, "9.9.9", "10.0.0")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrVersionFieldMissing)
}

func TestApplyMissingToken(t *testing.T) {
	_, err := Apply(FormatPOM, "<project></project>", "1.2.3", "1.2.4")
	require.ErrorIs(t, err, ErrVersionFieldMissing)

	_, err = Apply(FormatPackageJSON, `{"name": "demo"}`, "1.2.3", "1.2.4")
	require.ErrorIs(t, err, ErrVersionFieldMissing)
}

func TestPOMRoundTrip(t *testing.T) {
	// Extracting from the rewriter's own output recovers the new version.
	rewritten, err := Apply(FormatPOM, pomXML, "1.2.3", "1.3.0")
	require.NoError(t, err)

	got, err := Extract(FormatPOM, rewritten)
	require.NoError(t, err)
	assert.Equal(t, "1.3.0", got)
}
