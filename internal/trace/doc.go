// Package trace records what pomorg does while it processes manifests.
//
// Tracing is off by default. It is enabled from the command line:
//
//	pomorg organize --trace=- --trace-level=detail
//
// # Levels
//
//   - LevelOff: no tracing
//   - LevelError: events are kept in memory and dumped only when a run fails
//   - LevelPhase: command and per-manifest boundaries
//   - LevelDetail: pipeline stages (load, hoist, save, tidy)
//   - LevelDebug: everything, including individual edits
//
// # Context propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopeStage, "save", parentID)
//	defer span.End("")
package trace
