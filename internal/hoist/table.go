package hoist

import "pomorg/internal/manifest"

// Table is the property table shared by both extraction passes.
// It writes straight through to the document's properties.
type Table struct {
	props *manifest.Properties
}

// NewTable wraps doc's properties, creating them when the document has none.
func NewTable(doc *manifest.Document) *Table {
	if doc.Properties == nil {
		doc.Properties = manifest.NewProperties()
	}
	return &Table{props: doc.Properties}
}

func (t *Table) Has(key string) bool { return t.props.Has(key) }

func (t *Table) Get(key string) (string, bool) { return t.props.Get(key) }

func (t *Table) Set(key, value string) { t.props.Set(key, value) }

// RemoveByValue deletes every entry holding value and returns their keys.
func (t *Table) RemoveByValue(value string) []string { return t.props.RemoveByValue(value) }
