// Package pipeline runs organize and revert over manifests:
// Load, the hoist steps, Save, then the external formatter.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"pomorg/internal/cache"
	"pomorg/internal/diag"
	"pomorg/internal/hoist"
	"pomorg/internal/pomxml"
	"pomorg/internal/source"
	"pomorg/internal/tidy"
	"pomorg/internal/trace"
)

// ErrTransform is wrapped by failures inside the hoist steps.
var ErrTransform = errors.New("transform failed")

// Request describes one manifest run.
type Request struct {
	Path    string
	Command Command
	// Sort applies to organize only.
	Sort bool
	// Tidy may be nil to skip formatting.
	Tidy *tidy.Runner
	// Cache may be nil to always run.
	Cache      *cache.Cache
	ConfigHash [32]byte
	Reporter   diag.Reporter
	Progress   ProgressSink
}

// Result describes what a run did.
type Result struct {
	Path    string
	Command Command
	// Files holds the loaded buffer for rendering diagnostics.
	Files   *source.FileSet
	Hoist   hoist.Result
	Changed bool
	Skipped bool
	Timings Timings
	// Err is the error Run returned, if any.
	Err error
}

type runner struct {
	req  Request
	res  *Result
	sink ProgressSink
}

// Run processes one manifest. Every failure aborts the remaining stages; the
// manifest is only written after all transforms succeeded, and a formatter
// failure after the write does not undo it.
func Run(ctx context.Context, req Request) (Result, error) {
	res := Result{Path: req.Path, Command: req.Command, Files: source.NewFileSet()}
	if req.Reporter == nil {
		req.Reporter = diag.NopReporter{}
	}
	r := &runner{req: req, res: &res, sink: req.Progress}
	if r.sink == nil {
		r.sink = NopSink{}
	}

	ctx, span := trace.Start(ctx, trace.ScopeManifest, "manifest:"+req.Path)
	err := r.run(ctx)
	switch {
	case err != nil:
		span.End("error")
		r.sink.OnEvent(Event{File: req.Path, Status: StatusError, Err: err, Elapsed: res.Timings.Sum()})
		res.Err = fmt.Errorf("pipeline: %s %s: %w", req.Command, req.Path, err)
		return res, res.Err
	case res.Skipped:
		span.End("skipped")
		r.sink.OnEvent(Event{File: req.Path, Status: StatusSkipped})
	default:
		span.WithExtra("changed", strconv.FormatBool(res.Changed)).End("done")
		r.sink.OnEvent(Event{File: req.Path, Status: StatusDone, Elapsed: res.Timings.Sum()})
	}
	return res, nil
}

func (r *runner) run(ctx context.Context) error {
	if r.fresh() {
		r.res.Skipped = true
		return nil
	}

	var f *pomxml.File
	if err := r.stage(ctx, StageLoad, func(context.Context) (err error) {
		f, err = pomxml.Load(r.res.Files, r.req.Path, r.req.Reporter)
		return err
	}); err != nil {
		return err
	}

	var steps []hoist.Step
	switch r.req.Command {
	case CommandOrganize:
		steps = hoist.OrganizeSteps(f.Document(), hoist.OrganizeOptions{Sort: r.req.Sort}, r.req.Reporter, &r.res.Hoist)
	case CommandRevert:
		steps = hoist.RevertSteps(f.Document(), r.req.Reporter, &r.res.Hoist)
	default:
		return fmt.Errorf("%w: unknown command %q", ErrTransform, r.req.Command)
	}
	for _, step := range steps {
		if err := r.stage(ctx, Stage(step.Name), func(context.Context) error {
			return runStep(step)
		}); err != nil {
			return err
		}
	}

	if err := r.stage(ctx, StageSave, func(ctx context.Context) (err error) {
		r.res.Changed, err = f.Save(ctx)
		return err
	}); err != nil {
		return err
	}

	if r.req.Tidy != nil && r.req.Tidy.Enabled {
		if err := r.stage(ctx, StageTidy, func(ctx context.Context) error {
			return r.req.Tidy.Run(ctx, r.req.Path)
		}); err != nil {
			return err
		}
	}

	r.record(ctx)
	return nil
}

// stage runs fn with progress events, a trace span and timing.
func (r *runner) stage(ctx context.Context, stage Stage, fn func(context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	ctx, span := trace.Start(ctx, trace.ScopeStage, string(stage))
	r.sink.OnEvent(Event{File: r.req.Path, Stage: stage, Status: StatusWorking})

	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)
	r.res.Timings.Set(stage, elapsed)

	if err != nil {
		span.End(err.Error())
		r.sink.OnEvent(Event{File: r.req.Path, Stage: stage, Status: StatusError, Err: err, Elapsed: elapsed})
		return err
	}
	span.End("")
	r.sink.OnEvent(Event{File: r.req.Path, Stage: stage, Status: StatusDone, Elapsed: elapsed})
	return nil
}

// runStep turns a panic inside a hoist step into ErrTransform.
func runStep(step hoist.Step) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%w: %s: %v", ErrTransform, step.Name, rec)
		}
	}()
	step.Run()
	return nil
}

// fresh consults the cache. Cache failures only disable the shortcut.
func (r *runner) fresh() bool {
	if r.req.Cache == nil {
		return false
	}
	h, err := cache.HashFile(r.req.Path)
	if err != nil {
		return false
	}
	ok, err := r.req.Cache.Fresh(r.req.Path, string(r.req.Command), h, r.req.ConfigHash)
	return err == nil && ok
}

func (r *runner) record(ctx context.Context) {
	if r.req.Cache == nil {
		return
	}
	h, err := cache.HashFile(r.req.Path)
	if err == nil {
		err = r.req.Cache.Record(r.req.Path, string(r.req.Command), h, r.req.ConfigHash)
	}
	if err != nil {
		trace.Point(ctx, trace.ScopeStage, "cache", "record failed: "+err.Error())
	}
}

// RunAll processes independent manifests concurrently, at most jobs at a
// time (0 means GOMAXPROCS). A failing manifest does not stop the others;
// the returned error joins every failure.
func RunAll(ctx context.Context, reqs []Request, jobs int) ([]Result, error) {
	results := make([]Result, len(reqs))
	if len(reqs) == 0 {
		return results, nil
	}
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	for _, req := range reqs {
		if req.Progress != nil {
			req.Progress.OnEvent(Event{File: req.Path, Status: StatusQueued})
		}
	}

	// индексы уникальны для каждой горутины, мьютекс не нужен
	errs := make([]error, len(reqs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(reqs)))
	for i, req := range reqs {
		g.Go(func() error {
			results[i], errs[i] = Run(gctx, req)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, errors.Join(errs...)
}
