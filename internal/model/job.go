package model

import (
	"context"
	"fmt"
)

// Source names. Order here is the registration order used when flattening
// a batch of new listings.
const (
	SourceNetflix  = "netflix"
	SourceWrapbook = "wrapbook"
)

// KnownSources lists every source the registry tracks, in registration order.
var KnownSources = []string{SourceNetflix, SourceWrapbook}

// Job is a candidate listing produced by a fetcher. It is never persisted;
// only its ID ends up in the Registry.
type Job struct {
	ID       string // unique per source
	Source   string // "netflix" or "wrapbook"
	Title    string
	Team     string // netflix only
	Location string // netflix only
	URL      string // raw href (wrapbook)
}

// Summary renders the one-line description used in alerts.
func (j Job) Summary() string {
	switch j.Source {
	case SourceNetflix:
		return fmt.Sprintf("Netflix: %s - %s - %s", j.Title, j.Team, j.Location)
	case SourceWrapbook:
		return fmt.Sprintf("Wrapbook: %s - %s", j.Title, j.URL)
	default:
		return fmt.Sprintf("%s: %s - %s", j.Source, j.Title, j.URL)
	}
}

// Batch holds the new listings discovered in a single run, keyed by source.
type Batch map[string][]Job

// Flatten concatenates the batch following order. Sources absent from order
// are dropped.
func (b Batch) Flatten(order []string) []Job {
	var out []Job
	for _, src := range order {
		out = append(out, b[src]...)
	}
	return out
}

// Len returns the total number of jobs across all sources.
func (b Batch) Len() int {
	n := 0
	for _, jobs := range b {
		n += len(jobs)
	}
	return n
}

// JobFetcher fetches the current listings from one source.
type JobFetcher interface {
	FetchJobs(ctx context.Context) ([]Job, error)
}

// RegistryStore persists the seen-identifier registry.
type RegistryStore interface {
	Load() (Registry, error)
	Save(reg Registry) error
}

// Notifier sends a single alert covering all new listings.
type Notifier interface {
	Notify(jobs []Job) error
}

// JobFilter decides whether a job matches the user's criteria.
type JobFilter interface {
	Match(job Job) bool
}
