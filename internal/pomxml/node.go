package pomxml

import (
	"pomorg/internal/source"
)

// element is a closed XML element with its byte ranges.
type element struct {
	name        string
	outer       source.Span // '<' of the start tag to the end of the end tag
	inner       source.Span // content between the tags; empty when self-closing
	selfClosing bool
	text        string // trimmed character data
}

// declNode is the adapter origin of a dependency or plugin record.
type declNode struct {
	outer    source.Span
	group    *element
	artifact *element
	scope    *element
	version  *element
}

// VersionSpan points diagnostics at the <version> element, or at the whole
// declaration when it has none.
func (n *declNode) VersionSpan() source.Span {
	if n.version != nil {
		return n.version.outer
	}
	return n.outer
}

func (n *declNode) field(name string) **element {
	switch name {
	case "groupId":
		return &n.group
	case "artifactId":
		return &n.artifact
	case "scope":
		return &n.scope
	case "version":
		return &n.version
	}
	return nil
}

func textOf(el *element) string {
	if el == nil {
		return ""
	}
	return el.text
}

// propNode is one <properties> child.
type propNode struct {
	key string
	el  *element
}
