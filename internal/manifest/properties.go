package manifest

import "slices"

// Properties is an ordered string table. Keys keep their first-insertion
// position; overwriting a value does not move the key.
type Properties struct {
	keys   []string
	values map[string]string
}

// NewProperties returns an empty table.
func NewProperties() *Properties {
	return &Properties{values: make(map[string]string)}
}

// Has reports whether key is present.
func (p *Properties) Has(key string) bool {
	_, ok := p.values[key]
	return ok
}

// Get returns the value stored under key.
func (p *Properties) Get(key string) (string, bool) {
	v, ok := p.values[key]
	return v, ok
}

// Set inserts or overwrites key.
func (p *Properties) Set(key, value string) {
	if p.values == nil {
		p.values = make(map[string]string)
	}
	if _, ok := p.values[key]; !ok {
		p.keys = append(p.keys, key)
	}
	p.values[key] = value
}

// RemoveByValue removes every entry whose value equals value and returns the
// removed keys in table order.
func (p *Properties) RemoveByValue(value string) []string {
	var removed []string
	kept := p.keys[:0]
	for _, k := range p.keys {
		if p.values[k] == value {
			removed = append(removed, k)
			delete(p.values, k)
			continue
		}
		kept = append(kept, k)
	}
	clear(p.keys[len(kept):])
	p.keys = kept
	return removed
}

// Keys returns the keys in table order.
func (p *Properties) Keys() []string {
	return slices.Clone(p.keys)
}

// Len returns the number of entries.
func (p *Properties) Len() int {
	return len(p.keys)
}
