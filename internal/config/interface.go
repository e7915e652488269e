package config

import "context"

// Loader is the interface for a format-specific configuration loader.
type Loader interface {
	// Load reads the file at path and returns Default() with the file's
	// settings applied and validated.
	Load(ctx context.Context, path string) (*Model, error)
}

// FromPatch builds a validated model from Default() and a single patch.
// Loaders use it once they have decoded their file.
func FromPatch(p Patch) (*Model, error) {
	m := Default()
	if err := m.Apply(p); err != nil {
		return nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}
