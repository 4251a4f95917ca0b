package hoist

import (
	"fmt"
	"sort"

	"pomorg/internal/diag"
	"pomorg/internal/manifest"
	"pomorg/internal/source"
)

// VersionLocator is implemented by adapter origins that know where a
// declaration's version lives in the source buffer.
type VersionLocator interface {
	VersionSpan() source.Span
}

func versionSpan(d manifest.Declaration) source.Span {
	if loc, ok := d.Origin().(VersionLocator); ok {
		return loc.VersionSpan()
	}
	return source.Span{}
}

// ExtractStats counts what a single extraction pass did.
type ExtractStats struct {
	Hoisted   int // new property created
	Reused    int // rewritten to an existing property
	Unchanged int // already referenced its canonical key
	Conflicts int // literal differed from the stored value and was dropped
}

// ExtractVersions rewrites every versioned declaration to reference its
// canonical key. The first literal seen for a key becomes the property value;
// later literals for the same key are discarded and reported as conflicts.
func ExtractVersions(decls []manifest.Declaration, table *Table, r diag.Reporter) ExtractStats {
	var stats ExtractStats
	firstSeen := make(map[string]manifest.Declaration)

	for _, d := range decls {
		version, ok := d.Version()
		if !ok {
			continue
		}
		c := d.Coordinates()
		key := Key(c.GroupID, c.ArtifactID)
		ref := Reference(key)

		if version == ref {
			if table.Has(key) {
				stats.Unchanged++
				continue
			}
			// the reference itself becomes the value, so the key is always defined
			diag.ReportWarning(r, diag.HoistSelfReference, versionSpan(d),
				fmt.Sprintf("%s references %s which is not defined; the property is created with that reference as its value", key, ref)).Emit()
			table.Set(key, version)
			firstSeen[key] = d
			stats.Hoisted++
			continue
		}

		if stored, exists := table.Get(key); !exists {
			table.Set(key, version)
			firstSeen[key] = d
			stats.Hoisted++
		} else {
			if stored != version {
				b := diag.ReportWarning(r, diag.HoistVersionConflict, versionSpan(d),
					fmt.Sprintf("version %q of %s discarded, property %s keeps %q", version, key, key, stored))
				if prev, ok := firstSeen[key]; ok {
					b.WithNote(versionSpan(prev), "first declared here")
				}
				b.Emit()
				stats.Conflicts++
			}
			stats.Reused++
		}
		d.SetVersion(ref)
	}
	return stats
}

// SortDependencies orders dependencies by scope (absent first), groupId and
// artifactId. Ties keep their relative order.
func SortDependencies(deps []*manifest.Dependency) {
	sort.SliceStable(deps, func(i, j int) bool {
		di, dj := deps[i], deps[j]
		if di.Scope != dj.Scope {
			return di.Scope < dj.Scope
		}
		if di.GroupID != dj.GroupID {
			return di.GroupID < dj.GroupID
		}
		return di.ArtifactID < dj.ArtifactID
	})
}

// ResolveStats counts what a resolution pass did.
type ResolveStats struct {
	Resolved int
	Dangling int
}

// ResolveReferences replaces reference-form versions with the value stored in
// the table. References to missing keys are left untouched.
func ResolveReferences(decls []manifest.Declaration, table *Table, r diag.Reporter) ResolveStats {
	var stats ResolveStats
	for _, d := range decls {
		version, ok := d.Version()
		if !ok {
			continue
		}
		key, isRef := ExtractKey(version)
		if !isRef {
			continue
		}
		value, found := table.Get(key)
		if !found {
			diag.ReportInfo(r, diag.HoistDanglingReference, versionSpan(d),
				fmt.Sprintf("property %s is not defined, %s left unresolved", key, version)).Emit()
			stats.Dangling++
			continue
		}
		d.SetVersion(value)
		stats.Resolved++
	}
	return stats
}

// CollectGarbage removes every property whose value equals the literal
// version of some declaration (dependencies first, then plugins). Matching is
// by value, so unrelated properties holding the same string are removed too.
func CollectGarbage(doc *manifest.Document, table *Table, r diag.Reporter) []string {
	var removed []string
	for _, d := range doc.Declarations() {
		version, ok := d.Version()
		if !ok || !isLiteral(version) {
			continue
		}
		c := d.Coordinates()
		own := Key(c.GroupID, c.ArtifactID)
		for _, key := range table.RemoveByValue(version) {
			if key != own {
				diag.ReportInfo(r, diag.HoistCollateralRemoval, versionSpan(d),
					fmt.Sprintf("property %s removed because its value %q matches %s", key, version, own)).Emit()
			}
			removed = append(removed, key)
		}
	}
	return removed
}
