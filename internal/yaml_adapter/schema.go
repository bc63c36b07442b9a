package yaml_adapter

import (
	"fmt"

	"github.com/vk/beliefgrid/internal/config"
	"gopkg.in/yaml.v3"
)

// Domain values, CPT keys and evidence are kept as raw nodes so that
// unquoted scalars such as true or 1 are read as their literal text rather
// than resolved to bool or int.
type document struct {
	Domain       yaml.Node       `yaml:"domain"`
	Nodes        []nodeDoc       `yaml:"nodes"`
	Dependencies []dependencyDoc `yaml:"dependencies"`
	Evidence     yaml.Node       `yaml:"evidence"`
}

type nodeDoc struct {
	Name  string    `yaml:"name"`
	Role  string    `yaml:"role"`
	Prior yaml.Node `yaml:"prior"`
}

type dependencyDoc struct {
	Child   string   `yaml:"child"`
	Parents []string `yaml:"parents"`
	Rows    []rowDoc `yaml:"rows"`
}

type rowDoc struct {
	Given yaml.Node `yaml:"given"`
	Probs yaml.Node `yaml:"probs"`
}

func (d *document) translate(file string) (*config.Model, error) {
	model := config.NewModel()

	domain, err := scalars(&d.Domain)
	if err != nil {
		return nil, fmt.Errorf("invalid domain: %w", err)
	}
	model.Domain = domain

	for i, n := range d.Nodes {
		if n.Name == "" {
			return nil, fmt.Errorf("node %d has no name", i)
		}
		prior, err := probabilities(&n.Prior)
		if err != nil {
			return nil, fmt.Errorf("in node '%s', invalid prior: %w", n.Name, err)
		}
		model.Nodes = append(model.Nodes, &config.Node{Name: n.Name, Role: n.Role, Prior: prior, Source: file})
	}

	for i, dd := range d.Dependencies {
		if dd.Child == "" {
			return nil, fmt.Errorf("dependency %d has no child", i)
		}
		dep := &config.Dependency{Child: dd.Child, Parents: dd.Parents, Source: file}
		for j, r := range dd.Rows {
			given, err := scalars(&r.Given)
			if err != nil {
				return nil, fmt.Errorf("in dependency '%s', row %d: invalid given: %w", dd.Child, j, err)
			}
			probs, err := probabilities(&r.Probs)
			if err != nil {
				return nil, fmt.Errorf("in dependency '%s', row %d: invalid probs: %w", dd.Child, j, err)
			}
			dep.Rows = append(dep.Rows, &config.Row{Given: given, Probs: probs})
		}
		model.Dependencies = append(model.Dependencies, dep)
	}

	evidence, err := scalarMap(&d.Evidence)
	if err != nil {
		return nil, fmt.Errorf("invalid evidence: %w", err)
	}
	model.Evidence = evidence
	return model, nil
}

// scalars reads a sequence of scalars. An absent node yields nil.
func scalars(n *yaml.Node) ([]string, error) {
	if absent(n) {
		return nil, nil
	}
	if n.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("line %d: expected a sequence", n.Line)
	}
	out := make([]string, 0, len(n.Content))
	for _, item := range n.Content {
		if item.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("line %d: expected a scalar value", item.Line)
		}
		out = append(out, item.Value)
	}
	return out, nil
}

// scalarMap reads a mapping of scalars to scalars.
func scalarMap(n *yaml.Node) (map[string]string, error) {
	out := make(map[string]string)
	err := eachPair(n, func(key string, value *yaml.Node) error {
		if value.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: expected a scalar value for %q", value.Line, key)
		}
		out[key] = value.Value
		return nil
	})
	return out, err
}

// probabilities reads a mapping of domain values to probabilities. An absent
// node yields nil.
func probabilities(n *yaml.Node) (map[string]float64, error) {
	if absent(n) {
		return nil, nil
	}
	out := make(map[string]float64)
	err := eachPair(n, func(key string, value *yaml.Node) error {
		var p float64
		if err := value.Decode(&p); err != nil {
			return fmt.Errorf("line %d: probability for %q: %w", value.Line, key, err)
		}
		out[key] = p
		return nil
	})
	return out, err
}

func eachPair(n *yaml.Node, fn func(key string, value *yaml.Node) error) error {
	if absent(n) {
		return nil
	}
	if n.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected a mapping", n.Line)
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		key := n.Content[i]
		if key.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: expected a scalar key", key.Line)
		}
		if err := fn(key.Value, n.Content[i+1]); err != nil {
			return err
		}
	}
	return nil
}

// absent reports whether a field was omitted or explicitly null.
func absent(n *yaml.Node) bool {
	return n.Kind == 0 || (n.Kind == yaml.ScalarNode && n.Tag == "!!null")
}
