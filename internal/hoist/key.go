package hoist

import "strings"

const (
	refOpen  = "${"
	refClose = "}"
)

// Key derives the canonical property key of a declaration.
// No escaping or validation is applied.
func Key(groupID, artifactID string) string {
	return groupID + "." + artifactID
}

// Reference renders key in reference form.
func Reference(key string) string {
	return refOpen + key + refClose
}

// IsReference reports whether s is a whole-value property reference.
func IsReference(s string) bool {
	_, ok := ExtractKey(s)
	return ok
}

// ExtractKey strips the ${ } delimiters. The key must be non-empty.
func ExtractKey(s string) (string, bool) {
	if !strings.HasPrefix(s, refOpen) || !strings.HasSuffix(s, refClose) {
		return "", false
	}
	key := s[len(refOpen) : len(s)-len(refClose)]
	if key == "" {
		return "", false
	}
	return key, true
}

// isLiteral is the check used by garbage collection: anything that does not
// start with the reference opener counts as a literal.
func isLiteral(s string) bool {
	return !strings.HasPrefix(s, refOpen)
}
