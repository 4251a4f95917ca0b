package pomxml

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"fortio.org/safecast"

	"pomorg/internal/diag"
	"pomorg/internal/manifest"
	"pomorg/internal/source"
)

// File is a loaded manifest together with the byte map used to write it back.
type File struct {
	fs   *source.FileSet
	file *source.File
	doc  *manifest.Document

	project      *element
	properties   *element
	dependencies *element
	build        *element

	props   []*propNode
	deps    []*declNode
	plugins []*declNode
}

// Load reads path into fs and parses it.
func Load(fileSet *source.FileSet, path string, r diag.Reporter) (*File, error) {
	id, err := fileSet.Load(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrManifestNotFound, path)
		}
		return nil, err
	}
	return Parse(fileSet, id, r)
}

// Parse builds a File from a buffer already registered in fileSet.
func Parse(fileSet *source.FileSet, id source.FileID, r diag.Reporter) (*File, error) {
	if r == nil {
		r = diag.NopReporter{}
	}
	sf := fileSet.Get(id)
	if sf == nil {
		return nil, fmt.Errorf("unknown file id %d", id)
	}
	if sf.Flags&source.FileTranscoded == 0 {
		enc, label, err := declaredCharset(sf.Content)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: unsupported encoding %q: %v", ErrMalformedManifest, sf.Path, label, err)
		}
		if enc != nil {
			if err := fileSet.Transcode(id, enc); err != nil {
				return nil, fmt.Errorf("%w: %w", ErrMalformedManifest, err)
			}
		}
	}
	f := &File{fs: fileSet, file: sf, doc: manifest.NewDocument()}
	p := parser{f: f, r: r}
	if err := p.run(); err != nil {
		return nil, err
	}
	if f.project == nil {
		return nil, fmt.Errorf("%w: %s: root element is not <project>", ErrMalformedManifest, sf.Path)
	}
	if p.missing > 0 {
		return nil, fmt.Errorf("%w: %s: %d declaration(s) without coordinates", ErrMalformedManifest, sf.Path, p.missing)
	}
	return f, nil
}

// Document returns the model extracted from the manifest. Mutations are
// picked up by Render.
func (f *File) Document() *manifest.Document { return f.doc }

// Path returns the manifest path as registered in the file set.
func (f *File) Path() string { return f.file.Path }

// Source returns the underlying buffer.
func (f *File) Source() *source.File { return f.file }

type frame struct {
	name       string
	start      uint32
	innerStart uint32
	text       strings.Builder
}

type parser struct {
	f       *File
	r       diag.Reporter
	stack   []*frame
	dep     *declNode
	plugin  *declNode
	seen    map[string]*propNode
	missing int
}

func (p *parser) span(start, end uint32) source.Span {
	return source.Span{File: p.f.file.ID, Start: start, End: end}
}

func (p *parser) run() error {
	dec := xml.NewDecoder(bytes.NewReader(p.f.file.Content))
	if p.f.file.Flags&source.FileTranscoded != 0 {
		dec.CharsetReader = passCharset
	}
	p.seen = make(map[string]*propNode)
	for {
		start, err := offset(dec)
		if err != nil {
			return err
		}
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrMalformedManifest, p.f.file.Path, err)
		}
		end, err := offset(dec)
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			p.open(t.Name.Local, start, end)
		case xml.EndElement:
			p.close(start, end)
		case xml.CharData:
			if n := len(p.stack); n > 0 {
				p.stack[n-1].text.Write(t)
			}
		}
	}
	if len(p.stack) != 0 {
		return fmt.Errorf("%w: %s: unexpected end of document", ErrMalformedManifest, p.f.file.Path)
	}
	return nil
}

func offset(dec *xml.Decoder) (uint32, error) {
	off, err := safecast.Conv[uint32](dec.InputOffset())
	if err != nil {
		return 0, fmt.Errorf("manifest offset overflow: %w", err)
	}
	return off, nil
}

func (p *parser) open(name string, start, innerStart uint32) {
	p.stack = append(p.stack, &frame{name: name, start: start, innerStart: innerStart})
	switch {
	case p.at("project", "dependencies", "dependency"):
		p.dep = &declNode{}
	case p.at("project", "build", "plugins", "plugin"):
		p.plugin = &declNode{}
	}
}

// at reports whether the open element stack equals path.
func (p *parser) at(path ...string) bool {
	if len(p.stack) != len(path) {
		return false
	}
	for i, name := range path {
		if p.stack[i].name != name {
			return false
		}
	}
	return true
}

func (p *parser) close(start, end uint32) {
	top := p.stack[len(p.stack)-1]
	el := &element{
		name:        top.name,
		outer:       p.span(top.start, end),
		inner:       p.span(top.innerStart, start),
		selfClosing: start == end,
		text:        strings.TrimSpace(top.text.String()),
	}

	switch {
	case p.at("project"):
		p.f.project = el
	case p.at("project", "properties"):
		if p.f.properties == nil {
			p.f.properties = el
		}
	case p.at("project", "properties", top.name):
		p.property(el)
	case p.at("project", "dependencies"):
		if p.f.dependencies == nil {
			p.f.dependencies = el
		}
	case p.at("project", "build"):
		if p.f.build == nil {
			p.f.build = el
		}
	case p.at("project", "dependencies", "dependency", top.name):
		if slot := p.dep.field(top.name); slot != nil && *slot == nil {
			*slot = el
		}
	case p.at("project", "build", "plugins", "plugin", top.name):
		if slot := p.plugin.field(top.name); slot != nil && *slot == nil {
			*slot = el
		}
	case p.at("project", "dependencies", "dependency"):
		p.dep.outer = el.outer
		p.addDependency(p.dep)
		p.dep = nil
	case p.at("project", "build", "plugins", "plugin"):
		p.plugin.outer = el.outer
		p.addPlugin(p.plugin)
		p.plugin = nil
	}
	p.stack = p.stack[:len(p.stack)-1]
}

func (p *parser) property(el *element) {
	node := &propNode{key: el.name, el: el}
	if prev, ok := p.seen[el.name]; ok {
		diag.ReportWarning(p.r, diag.PomDuplicateProperty, el.outer,
			fmt.Sprintf("property %q is declared more than once; the last value wins", el.name)).
			WithNote(prev.el.outer, "previous declaration").
			Emit()
	}
	p.seen[el.name] = node
	p.f.props = append(p.f.props, node)
	p.f.doc.Properties.Set(el.name, el.text)
}

func version(n *declNode) *string {
	if n.version == nil {
		return nil
	}
	return manifest.Ptr(n.version.text)
}

// checkVersion warns when <version> carries markup besides plain text; a
// rewrite replaces its whole content.
func (p *parser) checkVersion(n *declNode) {
	v := n.version
	if v == nil || v.selfClosing {
		return
	}
	raw := strings.TrimSpace(p.f.file.Text(v.inner))
	if raw != v.text && strings.ContainsRune(raw, '<') {
		diag.ReportWarning(p.r, diag.PomUnsupportedVersion, v.outer,
			"version contains comments or CDATA; they are dropped if the version is rewritten").Emit()
	}
}

func (p *parser) addDependency(n *declNode) {
	if n.group == nil || n.artifact == nil || n.group.text == "" || n.artifact.text == "" {
		p.missing++
		diag.ReportError(p.r, diag.PomMissingCoordinate, n.outer,
			"dependency must declare both groupId and artifactId").Emit()
		return
	}
	p.checkVersion(n)
	p.f.deps = append(p.f.deps, n)
	p.f.doc.Dependencies = append(p.f.doc.Dependencies,
		manifest.NewDependency(n.group.text, n.artifact.text, textOf(n.scope), version(n), n))
}

func (p *parser) addPlugin(n *declNode) {
	if n.artifact == nil || n.artifact.text == "" {
		p.missing++
		diag.ReportError(p.r, diag.PomMissingCoordinate, n.outer,
			"plugin must declare an artifactId").Emit()
		return
	}
	p.checkVersion(n)
	p.f.plugins = append(p.f.plugins, n)
	p.f.doc.Plugins = append(p.f.doc.Plugins,
		manifest.NewPlugin(textOf(n.group), n.artifact.text, version(n), n))
}
