package app

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/vk/beliefgrid/inference"
	"github.com/vk/beliefgrid/internal/builder"
)

// report is the rendered result of one run.
type report struct {
	RunID    string            `json:"run_id"`
	Strategy string            `json:"strategy"`
	Domain   []string          `json:"domain"`
	Evidence map[string]string `json:"evidence"`
	Nodes    []nodeReport      `json:"nodes"`
	Stats    statsReport       `json:"stats"`
	Warnings []string          `json:"warnings,omitempty"`
}

type nodeReport struct {
	Name         string      `json:"name"`
	Observed     bool        `json:"observed,omitempty"`
	Distribution []valueProb `json:"distribution"`
}

type valueProb struct {
	Value       string  `json:"value"`
	Probability float64 `json:"probability"`
}

type statsReport struct {
	Sweeps         int `json:"sweeps"`
	PiMessages     int `json:"pi_messages"`
	LambdaMessages int `json:"lambda_messages"`
}

func newReport(runID string, res *builder.Result, post *inference.Posteriors[string]) *report {
	stats := post.Stats()
	domain := res.Network.Domain()
	rep := &report{
		RunID:    runID,
		Strategy: string(stats.Strategy),
		Domain:   domain,
		Evidence: res.Evidence,
		Stats: statsReport{
			Sweeps:         stats.Sweeps,
			PiMessages:     stats.PiMessages,
			LambdaMessages: stats.LambdaMessages,
		},
	}
	if rep.Evidence == nil {
		rep.Evidence = map[string]string{}
	}

	for name, vec := range post.All() {
		nr := nodeReport{Name: name, Distribution: make([]valueProb, len(vec))}
		_, nr.Observed = res.Evidence[name]
		for i, p := range vec {
			nr.Distribution[i] = valueProb{Value: domain[i], Probability: p}
		}
		rep.Nodes = append(rep.Nodes, nr)
	}

	for _, w := range res.Network.Warnings() {
		rep.Warnings = append(rep.Warnings, w.String())
	}
	return rep
}

func (r *report) writeJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

func (r *report) writeText(w io.Writer) error {
	var ev []string
	for _, name := range slices.Sorted(maps.Keys(r.Evidence)) {
		ev = append(ev, name+"="+r.Evidence[name])
	}
	if len(ev) == 0 {
		ev = []string{"none"}
	}
	fmt.Fprintf(w, "Evidence: %s\n", strings.Join(ev, ", "))
	fmt.Fprintf(w, "Strategy: %s (%d sweeps, %d pi / %d lambda messages)\n\n",
		r.Strategy, r.Stats.Sweeps, r.Stats.PiMessages, r.Stats.LambdaMessages)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "NODE\t%s\t\n", strings.Join(r.Domain, "\t"))
	for _, n := range r.Nodes {
		cells := make([]string, len(n.Distribution))
		for i, vp := range n.Distribution {
			cells[i] = fmt.Sprintf("%.6f", vp.Probability)
		}
		name := n.Name
		if n.Observed {
			name += " *"
		}
		fmt.Fprintf(tw, "%s\t%s\t\n", name, strings.Join(cells, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	for _, warn := range r.Warnings {
		fmt.Fprintf(w, "warning: %s\n", warn)
	}
	return nil
}
