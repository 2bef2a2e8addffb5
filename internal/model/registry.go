package model

// Registry maps a source name to the identifiers already alerted on.
// Identifiers within a source are unique and kept in insertion order.
type Registry map[string][]string

// NewRegistry returns a registry with an empty list for each source.
func NewRegistry(sources ...string) Registry {
	r := make(Registry, len(sources))
	r.EnsureSources(sources...)
	return r
}

// EnsureSources adds an empty list for any source that is missing or null.
func (r Registry) EnsureSources(sources ...string) {
	for _, s := range sources {
		if r[s] == nil {
			r[s] = []string{}
		}
	}
}

// Has reports whether id has been seen for source.
func (r Registry) Has(source, id string) bool {
	for _, seen := range r[source] {
		if seen == id {
			return true
		}
	}
	return false
}

// Add appends id to source unless it is already present. It reports whether
// the registry changed.
func (r Registry) Add(source, id string) bool {
	if id == "" || r.Has(source, id) {
		return false
	}
	r[source] = append(r[source], id)
	return true
}

// Count returns the number of identifiers recorded for source.
func (r Registry) Count(source string) int {
	return len(r[source])
}

// Clone returns a deep copy, used as a read-only snapshot while diffing.
func (r Registry) Clone() Registry {
	c := make(Registry, len(r))
	for src, ids := range r {
		c[src] = append([]string{}, ids...)
	}
	return c
}

// Merge commits every job in the batch. It returns the number of identifiers
// that were actually added.
func (r Registry) Merge(b Batch) int {
	added := 0
	for src, jobs := range b {
		for _, j := range jobs {
			if r.Add(src, j.ID) {
				added++
			}
		}
	}
	return added
}
