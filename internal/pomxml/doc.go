// Package pomxml loads a Maven pom.xml into a manifest.Document and writes a
// mutated document back onto the original bytes.
//
// Only the regions the hoisting stages can change are rewritten: version
// texts, the order of <dependency> elements and entries of <properties>.
// Comments, processing instructions, formatting and every other element are
// carried over byte for byte.
package pomxml
