package poller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/amishk599/careerwatch/internal/model"
)

// Source pairs a registry key with the fetcher that produces its listings.
type Source struct {
	Name    string
	Fetcher model.JobFetcher
}

// SourceResult summarizes what one source contributed to a run.
type SourceResult struct {
	Name    string
	Fetched int
	Matched int
	New     int
	Err     error // non-nil when the source was skipped
}

// Result summarizes a full run.
type Result struct {
	Sources   []SourceResult
	New       []model.Job // flattened, in source order
	Committed int         // identifiers added to the registry
}

// Pipeline owns a single pass: load → fetch → filter → diff → notify → save.
type Pipeline struct {
	sources  []Source
	filter   model.JobFilter
	store    model.RegistryStore
	notifier model.Notifier
	logger   *slog.Logger
}

// NewPipeline creates a pipeline wired with all its dependencies. Sources run
// in the order given; that order is also the order of the alert body. A nil
// filter accepts every job.
func NewPipeline(
	sources []Source,
	filter model.JobFilter,
	store model.RegistryStore,
	notifier model.Notifier,
	logger *slog.Logger,
) *Pipeline {
	return &Pipeline{
		sources:  sources,
		filter:   filter,
		store:    store,
		notifier: notifier,
		logger:   logger,
	}
}

// Run executes one pass.
//
// Fetch failures are logged and the source contributes nothing; the run goes
// on. New identifiers are diffed against a snapshot taken at load time and
// committed only after the notifier succeeds. If notification fails nothing is
// committed or saved, so the next run alerts on the same jobs again.
func (p *Pipeline) Run(ctx context.Context) (Result, error) {
	var res Result

	reg, err := p.store.Load()
	if err != nil {
		return res, fmt.Errorf("loading registry: %w", err)
	}
	snapshot := reg.Clone()

	batch := make(model.Batch, len(p.sources))
	order := make([]string, 0, len(p.sources))
	for _, src := range p.sources {
		if ctx.Err() != nil {
			return res, ctx.Err()
		}
		order = append(order, src.Name)
		sr := p.collect(ctx, src, snapshot)
		if sr.Err == nil {
			matched := p.match(sr.jobs)
			batch[src.Name] = Diff(snapshot, src.Name, matched)
			sr.Matched = len(matched)
			sr.New = len(batch[src.Name])
		}
		res.Sources = append(res.Sources, sr.SourceResult)
	}

	res.New = batch.Flatten(order)
	if len(res.New) > 0 {
		if err := p.notifier.Notify(res.New); err != nil {
			return res, fmt.Errorf("notifying %d new listings: %w", len(res.New), err)
		}
	}

	res.Committed = reg.Merge(batch)
	if err := p.store.Save(reg); err != nil {
		return res, fmt.Errorf("saving registry: %w", err)
	}

	p.logger.Info("run complete",
		"new", len(res.New),
		"committed", res.Committed,
	)
	return res, nil
}

type collected struct {
	SourceResult
	jobs []model.Job
}

func (p *Pipeline) collect(ctx context.Context, src Source, snapshot model.Registry) collected {
	c := collected{SourceResult: SourceResult{Name: src.Name}}

	jobs, err := src.Fetcher.FetchJobs(ctx)
	if err != nil {
		c.Err = err
		args := []any{"source", src.Name, "error", err}
		var decErr *model.DecodeError
		if errors.As(err, &decErr) {
			args = append(args, "preview", decErr.Preview)
		}
		p.logger.Warn("source fetch failed", args...)
		return c
	}

	c.jobs = jobs
	c.Fetched = len(jobs)
	p.logger.Info("polled source",
		"source", src.Name,
		"fetched", len(jobs),
		"known", snapshot.Count(src.Name),
	)
	return c
}

func (p *Pipeline) match(jobs []model.Job) []model.Job {
	if p.filter == nil {
		return jobs
	}
	var matched []model.Job
	for _, j := range jobs {
		if p.filter.Match(j) {
			matched = append(matched, j)
		}
	}
	return matched
}
