package config

import (
	"context"
)

// Loader is the interface for a format-specific network definition loader.
type Loader interface {
	// Extensions lists the file extensions, with the leading dot, that the
	// loader reads.
	Extensions() []string
	// Load reads every matching file under the given paths and translates
	// them into a single format-agnostic model. Paths that do not exist or
	// do not match Extensions are skipped.
	Load(ctx context.Context, paths ...string) (*Model, error)
}
