package diag

// Severity orders diagnostics from informational to fatal; comparisons like
// Severity >= SevError rely on the order.
type Severity uint8

const (
	// SevInfo describes what a stage did, e.g. a dangling reference left as is.
	SevInfo Severity = iota
	// SevWarning flags output the user should review.
	SevWarning
	// SevError makes the manifest fail to load.
	SevError
)

var severityNames = [...]struct{ upper, lower string }{
	SevInfo:    {"INFO", "info"},
	SevWarning: {"WARNING", "warning"},
	SevError:   {"ERROR", "error"},
}

func (s Severity) String() string {
	if int(s) < len(severityNames) {
		return severityNames[s].upper
	}
	return "UNKNOWN"
}

// Label is the lower-case form used in rendered diagnostics.
func (s Severity) Label() string {
	if int(s) < len(severityNames) {
		return severityNames[s].lower
	}
	return "info"
}
