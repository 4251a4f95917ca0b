package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"pomorg/internal/pipeline"
	"pomorg/internal/ui"
)

type runOutcome struct {
	results []pipeline.Result
	err     error
}

func runWithUI(ctx context.Context, title string, reqs []pipeline.Request, jobs int) ([]pipeline.Result, error) {
	files := make([]string, len(reqs))
	for i := range reqs {
		files[i] = reqs[i].Path
	}
	events := make(chan pipeline.Event, 256)
	outcomeCh := make(chan runOutcome, 1)

	go func() {
		withSink := make([]pipeline.Request, len(reqs))
		for i, req := range reqs {
			req.Progress = pipeline.ChannelSink{Ch: events}
			withSink[i] = req
		}
		results, err := pipeline.RunAll(ctx, withSink, jobs)
		outcomeCh <- runOutcome{results: results, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	if uiErr != nil {
		// keep the workers unblocked
		for range events {
		}
	}
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.results, uiErr
	}
	return outcome.results, outcome.err
}
