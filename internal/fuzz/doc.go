// Package fuzztests houses Go fuzz harnesses for the manifest adapter and
// the hoisting stages. They load arbitrary bytes as a pom.xml, run organize
// and revert over whatever parses, and check that nothing panics and that
// unchanged documents render back byte for byte.
package fuzztests
