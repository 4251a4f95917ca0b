package main

import (
	"fmt"
	"io"

	"pomorg/internal/observ"
	"pomorg/internal/pipeline"
)

// printStageTimings folds the per-manifest stage durations into one phase
// table.
func printStageTimings(out io.Writer, results []pipeline.Result) {
	if out == nil {
		return
	}
	timer := observ.NewTimer()
	for _, res := range results {
		for _, stage := range res.Timings.Stages() {
			timer.Add(string(stage), res.Timings.Duration(stage))
		}
	}
	fmt.Fprint(out, timer.Summary())
	fmt.Fprintf(out, "manifests %d\n", len(results))
}
