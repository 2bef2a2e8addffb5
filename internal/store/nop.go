package store

import "github.com/amishk599/careerwatch/internal/model"

// NopStore wraps another store for dry runs: it reads through to the wrapped
// store (if any) but never writes.
type NopStore struct {
	inner   model.RegistryStore
	sources []string
}

func NewNopStore(inner model.RegistryStore, sources []string) *NopStore {
	return &NopStore{inner: inner, sources: sources}
}

func (s *NopStore) Load() (model.Registry, error) {
	if s.inner == nil {
		return model.NewRegistry(s.sources...), nil
	}
	return s.inner.Load()
}

func (s *NopStore) Save(model.Registry) error { return nil }
