// Package yaml_adapter loads network definitions written in YAML into the
// format-agnostic config model.
package yaml_adapter

import (
	"context"
	"fmt"
	"os"

	"github.com/vk/beliefgrid/internal/config"
	"github.com/vk/beliefgrid/internal/ctxlog"
	"github.com/vk/beliefgrid/internal/fsutil"
	"gopkg.in/yaml.v3"
)

// Loader is the YAML-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new YAML network definition loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Extensions implements config.Loader.
func (l *Loader) Extensions() []string {
	return []string{".yaml", ".yml"}
}

// Load parses every YAML file under paths and merges them into one model.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("YAML loader started.", "path_count", len(paths))

	files, err := fsutil.FindFiles(paths, l.Extensions()...)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered YAML files.", "count", len(files))

	model := config.NewModel()
	for _, file := range files {
		raw, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read YAML file %s: %w", file, err)
		}

		var doc document
		if err := yaml.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("failed to decode YAML file %s: %w", file, err)
		}

		part, err := doc.translate(file)
		if err != nil {
			return nil, fmt.Errorf("in YAML file %s: %w", file, err)
		}
		if err := model.Merge(part); err != nil {
			return nil, fmt.Errorf("in YAML file %s: %w", file, err)
		}
	}

	logger.Debug("YAML loading complete.", "files", len(files), "nodes", len(model.Nodes), "dependencies", len(model.Dependencies), "evidence", len(model.Evidence))
	return model, nil
}
