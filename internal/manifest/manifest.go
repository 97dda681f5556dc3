// Package manifest locates and rewrites the version token inside
// supported project manifest files. Files are treated as text: the
// version is found by a targeted pattern and replaced at the exact
// matched span only, so identical substrings elsewhere in the document
// are never touched.
package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// Format identifies how the version token is laid out in a manifest.
type Format int

const (
	FormatUnknown Format = iota
	FormatPackageJSON
	FormatPOM
	FormatGradle
)

func (f Format) String() string {
	switch f {
	case FormatPackageJSON:
		return "package.json"
	case FormatPOM:
		return "pom"
	case FormatGradle:
		return "gradle"
	default:
		return "unknown"
	}
}

var (
	// ErrVersionFieldMissing reports a manifest without a recognizable
	// version token.
	ErrVersionFieldMissing = errors.New("version field not found in manifest")

	// ErrUnsupportedFormat reports a file extension this tool does not
	// know how to rewrite. Callers skip such files and keep going.
	ErrUnsupportedFormat = errors.New("unsupported manifest format")
)

var (
	pomVersionPattern    = regexp.MustCompile(`<version>([0-9][0-9.]*)</version>`)
	gradleVersionPattern = regexp.MustCompile(`(?m)^(\s*version\s*=\s*['"]?)([0-9][0-9.]*)`)
)

// Detect maps a file name to its manifest format.
func Detect(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatPackageJSON
	case ".xml":
		return FormatPOM
	case ".gradle", ".kts", ".properties":
		return FormatGradle
	default:
		return FormatUnknown
	}
}

// Extract returns the raw version string recorded in the manifest text.
// The returned value is not validated here; strict parsing belongs to
// the version package.
func Extract(format Format, text string) (string, error) {
	switch format {
	case FormatPackageJSON:
		return extractJSON(text)
	case FormatPOM:
		return extractPattern(pomVersionPattern, text)
	case FormatGradle:
		return extractPattern(gradleVersionPattern, text)
	default:
		return "", ErrUnsupportedFormat
	}
}

// Apply returns a copy of text with the manifest's version token changed
// from oldVersion to newVersion. Only the first matched token is
// rewritten, at its exact span. Apply fails when the token found in text
// does not match oldVersion, which would indicate the caller extracted
// from different content.
func Apply(format Format, text, oldVersion, newVersion string) (string, error) {
	switch format {
	case FormatPackageJSON:
		return applyJSON(text, oldVersion, newVersion)
	case FormatPOM:
		return applySpan(pomVersionPattern, text, oldVersion, newVersion)
	case FormatGradle:
		return applySpan(gradleVersionPattern, text, oldVersion, newVersion)
	default:
		return "", ErrUnsupportedFormat
	}
}

// extractJSON parses the document and reads the top-level version field.
// Parsing (rather than pattern matching) keeps nested version fields,
// such as dependency entries, from being mistaken for the package
// version.
func extractJSON(text string) (string, error) {
	var doc struct {
		Version *string `json:"version"`
	}
	if err := json.Unmarshal([]byte(text), &doc); err != nil {
		return "", fmt.Errorf("parse manifest JSON: %w", err)
	}
	if doc.Version == nil || *doc.Version == "" {
		return "", ErrVersionFieldMissing
	}
	return *doc.Version, nil
}

// applyJSON splices the new value into the top-level version member
// instead of re-serializing the document, which in Go would shuffle key
// order and ruin diffs.
func applyJSON(text, oldVersion, newVersion string) (string, error) {
	start, end, err := topLevelVersionSpan(text)
	if err != nil {
		return "", err
	}

	if got := text[start:end]; got != oldVersion {
		return "", fmt.Errorf("manifest version %q does not match expected %q", got, oldVersion)
	}

	return text[:start] + newVersion + text[end:], nil
}

// topLevelVersionSpan walks the document tokens and returns the byte
// span of the top-level version member's string value. Nested version
// keys (dependencies, publishConfig) are passed over, matching what
// extractJSON reads.
func topLevelVersionSpan(text string) (int, int, error) {
	dec := json.NewDecoder(strings.NewReader(text))

	tok, err := dec.Token()
	if err != nil {
		return 0, 0, fmt.Errorf("parse manifest JSON: %w", err)
	}
	if tok != json.Delim('{') {
		return 0, 0, ErrVersionFieldMissing
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return 0, 0, fmt.Errorf("parse manifest JSON: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return 0, 0, ErrVersionFieldMissing
		}
		keyEnd := int(dec.InputOffset())

		if key != "version" {
			if err := skipValue(dec); err != nil {
				return 0, 0, fmt.Errorf("parse manifest JSON: %w", err)
			}
			continue
		}

		valTok, err := dec.Token()
		if err != nil {
			return 0, 0, fmt.Errorf("parse manifest JSON: %w", err)
		}
		if _, ok := valTok.(string); !ok {
			return 0, 0, ErrVersionFieldMissing
		}
		valEnd := int(dec.InputOffset())

		// The value token ends at its closing quote; the opening quote
		// is the first one after the key's colon.
		open := strings.IndexByte(text[keyEnd:valEnd], '"')
		if open < 0 {
			return 0, 0, ErrVersionFieldMissing
		}
		return keyEnd + open + 1, valEnd - 1, nil
	}

	return 0, 0, ErrVersionFieldMissing
}

// skipValue consumes one complete member value, descending through
// nested objects and arrays.
func skipValue(dec *json.Decoder) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}

	delim, ok := tok.(json.Delim)
	if !ok || (delim != '{' && delim != '[') {
		return nil
	}

	depth := 1
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		if d, ok := tok.(json.Delim); ok {
			switch d {
			case '{', '[':
				depth++
			case '}', ']':
				depth--
			}
		}
	}

	return nil
}

func applySpan(pattern *regexp.Regexp, text, oldVersion, newVersion string) (string, error) {
	loc := pattern.FindStringSubmatchIndex(text)
	if loc == nil {
		return "", ErrVersionFieldMissing
	}

	// The version value is the last capture group of both patterns.
	n := len(loc)
	start, end := loc[n-2], loc[n-1]
	if got := text[start:end]; got != oldVersion {
		return "", fmt.Errorf("manifest version %q does not match expected %q", got, oldVersion)
	}

	return text[:start] + newVersion + text[end:], nil
}

func extractPattern(pattern *regexp.Regexp, text string) (string, error) {
	m := pattern.FindStringSubmatch(text)
	if m == nil {
		return "", ErrVersionFieldMissing
	}
	return m[len(m)-1], nil
}
