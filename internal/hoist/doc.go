// Package hoist moves declaration versions into the property table and back.
//
// Organize runs ExtractVersions over dependencies, then over plugins against
// the same Table, then sorts dependencies. Revert runs ResolveReferences over
// both lists and finally CollectGarbage. Every stage mutates the document in
// place and reports through a diag.Reporter; none of them does IO.
package hoist
