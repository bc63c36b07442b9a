package cli

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// evidenceFlag collects repeated -evidence name=value flags.
type evidenceFlag map[string]string

func (e evidenceFlag) String() string {
	var parts []string
	for _, k := range slices.Sorted(maps.Keys(e)) {
		parts = append(parts, k+"="+e[k])
	}
	return strings.Join(parts, ",")
}

func (e evidenceFlag) Set(s string) error {
	name, value, ok := strings.Cut(s, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return fmt.Errorf("expected name=value, got %q", s)
	}
	e[name] = strings.TrimSpace(value)
	return nil
}
