package manifest

// DefaultPluginGroupID is the group Maven assumes for a plugin declared
// without <groupId>.
const DefaultPluginGroupID = "org.apache.maven.plugins"

// Coordinates identify a declaration.
type Coordinates struct {
	GroupID    string
	ArtifactID string
}

// Declaration is a dependency or plugin that may carry a version.
type Declaration interface {
	Coordinates() Coordinates
	// Version returns the current version and false when none is declared.
	Version() (string, bool)
	SetVersion(v string)
	// Origin returns the adapter handle of the record (nil for in-memory records).
	Origin() any
}

// Dependency is a <dependency> record.
type Dependency struct {
	GroupID    string
	ArtifactID string
	Scope      string // "" when absent
	version    *string
	origin     any
}

// NewDependency builds a dependency; version may be nil.
func NewDependency(groupID, artifactID, scope string, version *string, origin any) *Dependency {
	return &Dependency{
		GroupID:    groupID,
		ArtifactID: artifactID,
		Scope:      scope,
		version:    cloneVersion(version),
		origin:     origin,
	}
}

func (d *Dependency) Coordinates() Coordinates {
	return Coordinates{GroupID: d.GroupID, ArtifactID: d.ArtifactID}
}

func (d *Dependency) Version() (string, bool) {
	if d.version == nil {
		return "", false
	}
	return *d.version, true
}

func (d *Dependency) SetVersion(v string) { d.version = &v }

func (d *Dependency) Origin() any { return d.origin }

// Plugin is a <plugin> record of the build section.
type Plugin struct {
	GroupID    string // "" when absent; see Coordinates
	ArtifactID string
	version    *string
	origin     any
}

// NewPlugin builds a plugin; version may be nil.
func NewPlugin(groupID, artifactID string, version *string, origin any) *Plugin {
	return &Plugin{
		GroupID:    groupID,
		ArtifactID: artifactID,
		version:    cloneVersion(version),
		origin:     origin,
	}
}

func (p *Plugin) Coordinates() Coordinates {
	group := p.GroupID
	if group == "" {
		group = DefaultPluginGroupID
	}
	return Coordinates{GroupID: group, ArtifactID: p.ArtifactID}
}

func (p *Plugin) Version() (string, bool) {
	if p.version == nil {
		return "", false
	}
	return *p.version, true
}

func (p *Plugin) SetVersion(v string) { p.version = &v }

func (p *Plugin) Origin() any { return p.origin }

// Document is one build manifest.
type Document struct {
	Properties   *Properties
	Dependencies []*Dependency
	Plugins      []*Plugin
}

// NewDocument returns an empty document with an initialised property table.
func NewDocument() *Document {
	return &Document{Properties: NewProperties()}
}

// DependencyDeclarations returns the dependencies as declarations, in order.
func (d *Document) DependencyDeclarations() []Declaration {
	out := make([]Declaration, len(d.Dependencies))
	for i, dep := range d.Dependencies {
		out[i] = dep
	}
	return out
}

// PluginDeclarations returns the plugins as declarations, in order.
func (d *Document) PluginDeclarations() []Declaration {
	out := make([]Declaration, len(d.Plugins))
	for i, p := range d.Plugins {
		out[i] = p
	}
	return out
}

// Declarations returns dependencies followed by plugins.
func (d *Document) Declarations() []Declaration {
	return append(d.DependencyDeclarations(), d.PluginDeclarations()...)
}

// Ptr is a helper for optional versions.
func Ptr(s string) *string { return &s }

func cloneVersion(v *string) *string {
	if v == nil {
		return nil
	}
	s := *v
	return &s
}
