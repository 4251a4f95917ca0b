// Package manifest is the in-memory document model shared by the organize and
// revert pipelines: an ordered property table plus the dependency and plugin
// declarations of one build manifest.
//
// The model knows nothing about the on-disk syntax. Adapters attach an Origin
// to every record so that a mutated document can be written back onto the
// bytes it was read from.
package manifest
