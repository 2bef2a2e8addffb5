package poller

import "github.com/amishk599/careerwatch/internal/model"

// Diff returns the jobs whose IDs are absent from snapshot's list for source,
// in fetch order. A job repeated within jobs is reported once. snapshot is
// only read.
func Diff(snapshot model.Registry, source string, jobs []model.Job) []model.Job {
	known := make(map[string]struct{}, len(snapshot[source])+len(jobs))
	for _, id := range snapshot[source] {
		known[id] = struct{}{}
	}

	var fresh []model.Job
	for _, j := range jobs {
		if j.ID == "" {
			continue
		}
		if _, ok := known[j.ID]; ok {
			continue
		}
		known[j.ID] = struct{}{}
		fresh = append(fresh, j)
	}
	return fresh
}
