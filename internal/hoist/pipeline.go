package hoist

import (
	"pomorg/internal/diag"
	"pomorg/internal/manifest"
)

// OrganizeOptions tunes Organize.
type OrganizeOptions struct {
	Sort bool
}

// DefaultOrganizeOptions mirrors the command defaults.
func DefaultOrganizeOptions() OrganizeOptions {
	return OrganizeOptions{Sort: true}
}

// Result summarises one pipeline run over a document.
type Result struct {
	Dependencies ExtractStats
	Plugins      ExtractStats
	Resolved     int
	Dangling     int
	Removed      []string
	Sorted       bool
}

// Step names, in the order the pipelines run them.
const (
	StepDependencies = "dependencies"
	StepPlugins      = "plugins"
	StepSort         = "sort"
	StepCollect      = "collect"
)

// Step is one named transform of a pipeline. Steps must run in order.
type Step struct {
	Name string
	Run  func()
}

// OrganizeSteps returns the organize transforms: dependency versions, then
// plugin versions (sharing one table), then the dependency sort. Outcomes are
// recorded into res.
func OrganizeSteps(doc *manifest.Document, opts OrganizeOptions, r diag.Reporter, res *Result) []Step {
	if r == nil {
		r = diag.NopReporter{}
	}
	table := NewTable(doc)
	steps := []Step{
		{Name: StepDependencies, Run: func() {
			res.Dependencies = ExtractVersions(doc.DependencyDeclarations(), table, r)
		}},
		{Name: StepPlugins, Run: func() {
			res.Plugins = ExtractVersions(doc.PluginDeclarations(), table, r)
		}},
	}
	if opts.Sort {
		steps = append(steps, Step{Name: StepSort, Run: func() {
			SortDependencies(doc.Dependencies)
			res.Sorted = true
		}})
	}
	return steps
}

// RevertSteps returns the revert transforms: resolve dependency references,
// resolve plugin references, then garbage-collect the table.
func RevertSteps(doc *manifest.Document, r diag.Reporter, res *Result) []Step {
	if r == nil {
		r = diag.NopReporter{}
	}
	table := NewTable(doc)
	resolve := func(decls func() []manifest.Declaration) func() {
		return func() {
			s := ResolveReferences(decls(), table, r)
			res.Resolved += s.Resolved
			res.Dangling += s.Dangling
		}
	}
	return []Step{
		{Name: StepDependencies, Run: resolve(doc.DependencyDeclarations)},
		{Name: StepPlugins, Run: resolve(doc.PluginDeclarations)},
		{Name: StepCollect, Run: func() {
			res.Removed = CollectGarbage(doc, table, r)
		}},
	}
}

// Organize hoists dependency versions, then plugin versions, into one shared
// table and sorts the dependencies.
func Organize(doc *manifest.Document, opts OrganizeOptions, r diag.Reporter) Result {
	var res Result
	for _, s := range OrganizeSteps(doc, opts, r, &res) {
		s.Run()
	}
	return res
}

// Revert resolves dependency and plugin references and garbage-collects the
// properties whose values are now used literally.
func Revert(doc *manifest.Document, r diag.Reporter) Result {
	var res Result
	for _, s := range RevertSteps(doc, r, &res) {
		s.Run()
	}
	return res
}
