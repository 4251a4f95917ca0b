package pomxml

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	"pomorg/internal/edit"
	"pomorg/internal/manifest"
	"pomorg/internal/source"
)

const defaultIndentUnit = "    "

// Render maps the current document back onto the original bytes.
// The result uses the normalised line endings of the loaded buffer.
func (f *File) Render() ([]byte, error) {
	var edits []edit.Edit

	depEdits, err := f.slotEdits("dependency", f.deps, f.doc.DependencyDeclarations())
	if err != nil {
		return nil, err
	}
	edits = append(edits, depEdits...)

	pluginEdits, err := f.slotEdits("plugin", f.plugins, f.doc.PluginDeclarations())
	if err != nil {
		return nil, err
	}
	edits = append(edits, pluginEdits...)

	propEdits, err := f.propertyEdits()
	if err != nil {
		return nil, err
	}
	edits = append(edits, propEdits...)

	out, err := edit.Apply(f.file.Content, edits)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrRender, f.file.Path, err)
	}
	return out, nil
}

// slotEdits rewrites versions in place and moves declarations whose position
// changed into the slot they now occupy.
func (f *File) slotEdits(kind string, slots []*declNode, decls []manifest.Declaration) ([]edit.Edit, error) {
	if len(slots) != len(decls) {
		return nil, fmt.Errorf("%w: %s: %d %s declarations, expected %d", ErrRender, f.file.Path, len(decls), kind, len(slots))
	}
	used := make(map[*declNode]bool, len(decls))
	var out []edit.Edit
	for i, d := range decls {
		node, ok := d.Origin().(*declNode)
		if !ok || used[node] {
			return nil, fmt.Errorf("%w: %s: %s %s was not loaded from this manifest", ErrRender, f.file.Path, kind, d.Coordinates())
		}
		used[node] = true

		own, err := f.versionEdits(node, d)
		if err != nil {
			return nil, err
		}
		if node == slots[i] {
			out = append(out, own...)
			continue
		}
		text, err := f.moved(node, own)
		if err != nil {
			return nil, err
		}
		out = append(out, edit.Replace(f.file.Content, slots[i].outer, text))
	}
	return out, nil
}

func (f *File) versionEdits(node *declNode, d manifest.Declaration) ([]edit.Edit, error) {
	v, ok := d.Version()
	switch {
	case !ok && node.version == nil:
		return nil, nil
	case !ok:
		return nil, fmt.Errorf("%w: %s: removing the version of %s is not supported", ErrRender, f.file.Path, d.Coordinates())
	case node.version == nil:
		return nil, fmt.Errorf("%w: %s: adding a version to %s is not supported", ErrRender, f.file.Path, d.Coordinates())
	case v == node.version.text:
		return nil, nil
	}
	return []edit.Edit{f.setText(node.version, v)}, nil
}

// setText replaces the content of el with the escaped value.
func (f *File) setText(el *element, value string) edit.Edit {
	if el.selfClosing {
		return edit.Replace(f.file.Content, el.outer, "<"+el.name+">"+escape(value)+"</"+el.name+">")
	}
	return edit.Replace(f.file.Content, el.inner, escape(value))
}

// moved renders a declaration's text with its own edits applied.
func (f *File) moved(node *declNode, own []edit.Edit) (string, error) {
	base := node.outer.Start
	local := make([]edit.Edit, 0, len(own))
	for _, e := range own {
		e.Span = source.Span{File: e.Span.File, Start: e.Span.Start - base, End: e.Span.End - base}
		local = append(local, e)
	}
	out, err := edit.Apply(f.file.Content[node.outer.Start:node.outer.End], local)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrRender, f.file.Path, err)
	}
	return string(out), nil
}

func (f *File) propertyEdits() ([]edit.Edit, error) {
	props := f.doc.Properties
	byKey := make(map[string][]*propNode, len(f.props))
	for _, n := range f.props {
		byKey[n.key] = append(byKey[n.key], n)
	}

	var added []string
	for _, k := range props.Keys() {
		if _, ok := byKey[k]; !ok {
			if !isName(k) {
				return nil, fmt.Errorf("%w: %s: %q is not a valid property name", ErrRender, f.file.Path, k)
			}
			added = append(added, k)
		}
	}

	if len(f.props) > 0 && props.Len() == 0 && f.properties != nil && f.onlyEntries() {
		return []edit.Edit{f.remove(f.properties.outer)}, nil
	}

	var out []edit.Edit
	for _, n := range f.props {
		nodes := byKey[n.key]
		v, ok := props.Get(n.key)
		switch {
		case !ok:
			out = append(out, f.remove(n.el.outer))
		case n == nodes[len(nodes)-1] && v != n.el.text:
			out = append(out, f.setText(n.el, v))
		}
	}
	if len(added) == 0 {
		return out, nil
	}
	ins, err := f.insertProperties(added)
	if err != nil {
		return nil, err
	}
	return append(out, ins), nil
}

// onlyEntries reports whether <properties> holds nothing but entries and
// whitespace, so dropping every entry may drop the block too.
func (f *File) onlyEntries() bool {
	el := f.properties
	if el.selfClosing {
		return true
	}
	pos := el.inner.Start
	for _, n := range f.props {
		if strings.TrimSpace(string(f.file.Content[pos:n.el.outer.Start])) != "" {
			return false
		}
		pos = n.el.outer.End
	}
	return strings.TrimSpace(string(f.file.Content[pos:el.inner.End])) == ""
}

func (f *File) insertProperties(keys []string) (edit.Edit, error) {
	props := f.doc.Properties
	unit := f.indentUnit()
	entries := func(indent string) string {
		var b strings.Builder
		for _, k := range keys {
			v, _ := props.Get(k)
			b.WriteString(indent + "<" + k + ">" + escape(v) + "</" + k + ">\n")
		}
		return b.String()
	}
	block := func(indent string) string {
		return indent + "<properties>\n" + entries(indent+unit) + indent + "</properties>\n"
	}
	id := f.file.ID

	if el := f.properties; el != nil {
		indent, _ := f.indentOf(el.outer.Start)
		if el.selfClosing {
			return edit.Replace(f.file.Content, el.outer,
				"<properties>\n"+entries(indent+unit)+indent+"</properties>"), nil
		}
		entryIndent := indent + unit
		if n := len(f.props); n > 0 {
			if ind, ok := f.indentOf(f.props[n-1].el.outer.Start); ok {
				entryIndent = ind
			}
		}
		closing := el.inner.End
		if _, ok := f.indentOf(closing); ok {
			return edit.Insert(id, f.lineStart(closing), entries(entryIndent)), nil
		}
		return edit.Insert(id, closing, "\n"+entries(entryIndent)+indent), nil
	}

	for _, anchor := range []*element{f.dependencies, f.build} {
		if anchor == nil {
			continue
		}
		if indent, ok := f.indentOf(anchor.outer.Start); ok {
			return edit.Insert(id, f.lineStart(anchor.outer.Start), block(indent)), nil
		}
		return edit.Insert(id, anchor.outer.Start, strings.TrimSuffix(block(""), "\n")), nil
	}

	if f.project.selfClosing {
		return edit.Edit{}, fmt.Errorf("%w: %s: <project/> has no content", ErrRender, f.file.Path)
	}
	closing := f.project.inner.End
	if _, ok := f.indentOf(closing); ok {
		return edit.Insert(id, f.lineStart(closing), block(unit)), nil
	}
	return edit.Insert(id, closing, "\n"+block(unit)), nil
}

// remove deletes span, together with its line when nothing else is on it.
func (f *File) remove(span source.Span) edit.Edit {
	if _, ok := f.indentOf(span.Start); ok {
		if end, ok := f.lineEnd(span.End); ok {
			span.Start = f.lineStart(span.Start)
			span.End = end
		}
	}
	return edit.Replace(f.file.Content, span, "")
}

func (f *File) lineStart(off uint32) uint32 {
	for off > 0 && f.file.Content[off-1] != '\n' {
		off--
	}
	return off
}

// indentOf returns the whitespace preceding off on its line; ok is false when
// the line has other content before off.
func (f *File) indentOf(off uint32) (string, bool) {
	start := f.lineStart(off)
	seg := f.file.Content[start:off]
	if len(bytes.TrimLeft(seg, " \t")) != 0 {
		return "", false
	}
	return string(seg), true
}

// lineEnd returns the offset after the newline ending the line at off when
// only whitespace follows off.
func (f *File) lineEnd(off uint32) (uint32, bool) {
	content := f.file.Content
	end := off
	for int(end) < len(content) && (content[end] == ' ' || content[end] == '\t') {
		end++
	}
	switch {
	case int(end) == len(content):
		return end, true
	case content[end] == '\n':
		return end + 1, true
	}
	return off, false
}

// indentUnit guesses one indentation level from the project's direct
// children.
func (f *File) indentUnit() string {
	for _, el := range []*element{f.properties, f.dependencies, f.build} {
		if el == nil {
			continue
		}
		if indent, ok := f.indentOf(el.outer.Start); ok && indent != "" {
			return indent
		}
	}
	return defaultIndentUnit
}

func escape(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}

// isName accepts the subset of XML names used for property keys.
func isName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r > 0x7f:
		case i > 0 && (r == '-' || r == '.' || r >= '0' && r <= '9'):
		default:
			return false
		}
	}
	return true
}
