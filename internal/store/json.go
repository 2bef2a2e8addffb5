package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/amishk599/careerwatch/internal/model"
)

// DefaultStatePath is where the seen-identifier registry lives by default.
const DefaultStatePath = "data/last_seen.json"

var _ model.RegistryStore = (*JSONStore)(nil)

// JSONStore persists the registry as a pretty-printed JSON object mapping
// source name to an array of identifiers.
type JSONStore struct {
	path    string
	sources []string
}

// NewJSONStore returns a store backed by the file at path. Every source in
// sources is guaranteed a (possibly empty) list on load.
func NewJSONStore(path string, sources []string) *JSONStore {
	if path == "" {
		path = DefaultStatePath
	}
	return &JSONStore{path: path, sources: sources}
}

// Path returns the backing file path.
func (s *JSONStore) Path() string { return s.path }

// Load reads the registry. A missing file is created with an empty list per
// source and that initial registry is returned. A file that exists but does
// not hold a JSON object is an error.
func (s *JSONStore) Load() (model.Registry, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		reg := model.NewRegistry(s.sources...)
		if err := s.Save(reg); err != nil {
			return nil, fmt.Errorf("initializing state file: %w", err)
		}
		return reg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading state file %s: %w", s.path, err)
	}

	var reg model.Registry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("parsing state file %s: %w", s.path, err)
	}
	if reg == nil {
		return nil, fmt.Errorf("parsing state file %s: expected a JSON object", s.path)
	}
	reg.EnsureSources(s.sources...)
	return reg, nil
}

// Save overwrites the state file with reg, indented by two spaces. The file
// is written to a sibling temp file first and renamed into place.
func (s *JSONStore) Save(reg model.Registry) error {
	out := reg.Clone()
	out.EnsureSources(s.sources...)

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding registry: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating state dir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp state file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp state file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("setting state file mode: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replacing state file %s: %w", s.path, err)
	}
	return nil
}
