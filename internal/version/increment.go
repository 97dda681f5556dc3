package version

// IncrementClass is the requested bump granularity, derived from the
// labels attached to a pull request.
type IncrementClass int

const (
	Patch IncrementClass = iota
	Minor
	Major
)

func (c IncrementClass) String() string {
	switch c {
	case Major:
		return "major"
	case Minor:
		return "minor"
	default:
		return "patch"
	}
}

// LabelNames maps increment classes to the PR label names that request
// them.
type LabelNames struct {
	Major string
	Minor string
	Patch string
}

// DefaultLabelNames are used when no custom label mapping is configured.
func DefaultLabelNames() LabelNames {
	return LabelNames{Major: "major", Minor: "minor", Patch: "patch"}
}

// FromLabels reduces a PR's label set to a single increment class. When
// several increment labels are present, major beats minor beats patch no
// matter the label order. No recognized label defaults to patch.
func FromLabels(labels []string, names LabelNames) IncrementClass {
	class := Patch
	for _, label := range labels {
		switch label {
		case names.Major:
			return Major
		case names.Minor:
			class = Minor
		}
	}
	return class
}
