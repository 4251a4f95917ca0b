package pipeline

import (
	"slices"
	"time"

	"pomorg/internal/hoist"
)

// Command selects the transform applied to a manifest.
type Command string

const (
	CommandOrganize Command = "organize"
	CommandRevert   Command = "revert"
)

// Stage describes a pipeline phase.
type Stage string

const (
	StageLoad Stage = "load"
	// Transform stages carry the names of the hoist steps.
	StageDependencies Stage = hoist.StepDependencies
	StagePlugins      Stage = hoist.StepPlugins
	StageSort         Stage = hoist.StepSort
	StageCollect      Stage = hoist.StepCollect
	StageSave         Stage = "save"
	StageTidy         Stage = "tidy"
)

// Status captures progress state within a stage.
type Status string

const (
	// StatusQueued indicates the manifest is waiting to start.
	StatusQueued Status = "queued"
	// StatusWorking indicates the stage is running.
	StatusWorking Status = "working"
	// StatusDone indicates the stage (or, with an empty stage, the manifest) finished.
	StatusDone Status = "done"
	// StatusSkipped indicates the cache found the manifest already processed.
	StatusSkipped Status = "skipped"
	// StatusError indicates the stage failed.
	StatusError Status = "error"
)

// Event reports progress for one manifest.
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events.
type ProgressSink interface {
	OnEvent(Event)
}

// Timings holds stage durations in the order stages ran.
type Timings struct {
	order  []Stage
	stages map[Stage]time.Duration
}

// Set stores a duration for the given stage.
func (t *Timings) Set(stage Stage, dur time.Duration) {
	if t == nil {
		return
	}
	if t.stages == nil {
		t.stages = make(map[Stage]time.Duration)
	}
	if _, ok := t.stages[stage]; !ok {
		t.order = append(t.order, stage)
	}
	t.stages[stage] = dur
}

// Has reports whether a duration for stage is recorded.
func (t Timings) Has(stage Stage) bool {
	_, ok := t.stages[stage]
	return ok
}

// Duration returns the recorded duration for stage.
func (t Timings) Duration(stage Stage) time.Duration {
	return t.stages[stage]
}

// Stages returns the recorded stages in execution order.
func (t Timings) Stages() []Stage {
	return slices.Clone(t.order)
}

// Sum returns the sum of durations across the provided stages, or across all
// recorded stages when none are given.
func (t Timings) Sum(stages ...Stage) time.Duration {
	if len(stages) == 0 {
		stages = t.order
	}
	var total time.Duration
	for _, stage := range stages {
		total += t.stages[stage]
	}
	return total
}
