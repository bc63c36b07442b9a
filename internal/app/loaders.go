package app

import (
	"github.com/vk/beliefgrid/internal/config"
	"github.com/vk/beliefgrid/internal/hcl_adapter"
	"github.com/vk/beliefgrid/internal/yaml_adapter"
)

// coreLoaders is the list of network definition formats compiled into the
// beliefgrid binary.
func coreLoaders() []config.Loader {
	return []config.Loader{
		hcl_adapter.NewLoader(),
		yaml_adapter.NewLoader(),
	}
}
