package diag

// Severity orders diagnostics. Passes report skipped nodes as SevInfo; only
// contract violations reach SevError.
type Severity uint8

const (
	SevInfo Severity = iota
	SevWarning
	SevError
)

var severityNames = [...]string{
	SevInfo:    "info",
	SevWarning: "warning",
	SevError:   "error",
}

func (s Severity) String() string {
	if int(s) < len(severityNames) {
		return severityNames[s]
	}
	return "unknown"
}

// AtLeast reports whether s is min or more severe.
func (s Severity) AtLeast(min Severity) bool {
	return s >= min
}

// Filter returns the diagnostics of at least min severity. The result is a
// fresh slice; items is left untouched.
func Filter(items []Diagnostic, min Severity) []Diagnostic {
	out := make([]Diagnostic, 0, len(items))
	for _, d := range items {
		if d.Severity.AtLeast(min) {
			out = append(out, d)
		}
	}
	return out
}
