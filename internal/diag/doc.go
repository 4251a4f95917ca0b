// Package diag defines the diagnostic model shared by the manifest adapter
// and the hoisting stages.
//
// Diagnostic is the central record: a Severity, a compact numeric Code with a
// stable string ID (HST…, POM…), a short Message and a primary source.Span
// pointing into the loaded manifest. Notes add secondary locations, e.g. the
// declaration whose literal was hoisted first.
//
// Stages never print. They emit through a Reporter; the CLI collects a Bag,
// sorts it and renders it with FormatShort.
package diag
