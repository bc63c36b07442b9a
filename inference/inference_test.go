package inference_test

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/beliefgrid/inference"
	"github.com/vk/beliefgrid/internal/testutil"
	"github.com/vk/beliefgrid/network"
)

var strategies = []inference.Strategy{inference.StrategyTree, inference.StrategyFixpoint}

func probTrue(t *testing.T, p *inference.Posteriors[bool], name string) float64 {
	t.Helper()
	v, err := p.Probability(name, true)
	require.NoError(t, err)
	return v
}

func TestInfer_BonusNetwork(t *testing.T) {
	cases := []struct {
		name     string
		evidence map[string]bool
		want     map[string]float64
	}{
		{
			name:     "observed leaf D",
			evidence: map[string]bool{"D": true},
			want:     map[string]float64{"A": 0.0843, "B": 0.5706, "C": 0.7157, "D": 1, "E": 0.6469},
		},
		{
			name:     "no evidence yields priors and marginals",
			evidence: map[string]bool{},
			want:     map[string]float64{"A": 0.01, "B": 0.1, "C": 0.0774, "D": 0.032446, "E": 0.078886},
		},
		{
			name:     "explaining away",
			evidence: map[string]bool{"D": true, "B": false},
			want:     map[string]float64{"A": 0.175053, "B": 0, "C": 0.366255, "D": 1, "E": 0.335967},
		},
	}

	for _, strategy := range strategies {
		for _, tc := range cases {
			t.Run(string(strategy)+"/"+tc.name, func(t *testing.T) {
				// --- Arrange ---
				ctx, _ := testutil.LoggedContext(t)
				engine := inference.New(testutil.BonusNetwork(t), inference.WithStrategy(strategy))

				// --- Act ---
				post, err := engine.Infer(ctx, tc.evidence)

				// --- Assert ---
				require.NoError(t, err)
				for name, want := range tc.want {
					assert.InDelta(t, want, probTrue(t, post, name), 0.002, "P(%s=true)", name)
				}
				assert.Equal(t, strategy, post.Stats().Strategy)
			})
		}
	}
}

func TestInfer_Invariants(t *testing.T) {
	ctx := context.Background()
	net := testutil.BonusNetwork(t)
	engine := inference.New(net)
	evidence := map[string]bool{"D": true, "E": false}

	first, err := engine.Infer(ctx, evidence)
	require.NoError(t, err)

	t.Run("every distribution sums to one", func(t *testing.T) {
		for _, name := range first.Names() {
			dist, err := first.Distribution(name)
			require.NoError(t, err)
			assert.InDelta(t, 1.0, dist[true]+dist[false], 1e-9, name)
		}
	})

	t.Run("observed nodes are indicators", func(t *testing.T) {
		dist, err := first.Distribution("E")
		require.NoError(t, err)
		assert.Equal(t, map[bool]float64{true: 0, false: 1}, dist)
	})

	t.Run("repeated inference is identical", func(t *testing.T) {
		second, err := engine.Infer(ctx, evidence)
		require.NoError(t, err)
		for _, name := range first.Names() {
			a, _ := first.Vector(name)
			b, _ := second.Vector(name)
			assert.Equal(t, a, b, name)
		}
	})

	t.Run("evidence map is not retained", func(t *testing.T) {
		ev := map[string]bool{"D": true}
		post, err := engine.Infer(ctx, ev)
		require.NoError(t, err)
		ev["B"] = false
		assert.InDelta(t, 0.5706, probTrue(t, post, "B"), 0.002)
	})

	t.Run("tree strategy sends one message per edge and direction", func(t *testing.T) {
		stats := first.Stats()
		assert.Equal(t, inference.StrategyTree, stats.Strategy)
		assert.Equal(t, 2, stats.Sweeps)
		assert.Equal(t, 4, stats.PiMessages)
		assert.Equal(t, 4, stats.LambdaMessages)
	})

	t.Run("InferredProbability reads from the result", func(t *testing.T) {
		p, err := engine.InferredProbability(first, "C", true)
		require.NoError(t, err)
		assert.Equal(t, probTrue(t, first, "C"), p)
	})
}

func TestInfer_InconsistentEvidence(t *testing.T) {
	ctx := context.Background()
	net, err := network.New([]string{"on", "off"})
	require.NoError(t, err)
	_, err = net.AddRoot(ctx, "Switch", map[string]float64{"on": 0.5, "off": 0.5})
	require.NoError(t, err)
	_, err = net.AddLeaf(ctx, "Lamp")
	require.NoError(t, err)
	require.NoError(t, net.AddDependency(ctx, []string{"Switch"}, "Lamp", []network.Row[string]{
		{Given: []string{"on"}, Probs: map[string]float64{"on": 1, "off": 0}},
		{Given: []string{"off"}, Probs: map[string]float64{"on": 0, "off": 1}},
	}))

	for _, strategy := range strategies {
		t.Run(string(strategy), func(t *testing.T) {
			engine := inference.New(net, inference.WithStrategy(strategy))

			_, err := engine.Infer(ctx, map[string]string{"Switch": "off", "Lamp": "on"})
			require.Error(t, err)
			assert.True(t, errors.Is(err, network.ErrInconsistentEvidence))
			var ierr *network.InconsistentEvidenceError
			assert.ErrorAs(t, err, &ierr)

			post, err := engine.Infer(ctx, map[string]string{"Lamp": "on"})
			require.NoError(t, err)
			p, err := post.Probability("Switch", "on")
			require.NoError(t, err)
			assert.InDelta(t, 1.0, p, 1e-12)
		})
	}
}

func TestInfer_ObservedRootWithZeroPrior(t *testing.T) {
	ctx := context.Background()
	net, err := network.New([]string{"on", "off"})
	require.NoError(t, err)
	_, err = net.AddRoot(ctx, "Switch", map[string]float64{"on": 1, "off": 0})
	require.NoError(t, err)
	_, err = net.AddLeaf(ctx, "Lamp")
	require.NoError(t, err)
	require.NoError(t, net.AddDependency(ctx, []string{"Switch"}, "Lamp", []network.Row[string]{
		{Given: []string{"on"}, Probs: map[string]float64{"on": 0.9, "off": 0.1}},
		{Given: []string{"off"}, Probs: map[string]float64{"on": 0.5, "off": 0.5}},
	}))

	for _, strategy := range strategies {
		t.Run(string(strategy), func(t *testing.T) {
			engine := inference.New(net, inference.WithStrategy(strategy))

			for _, ev := range []map[string]string{
				{"Switch": "off"},
				{"Switch": "off", "Lamp": "on"},
			} {
				_, err := engine.Infer(ctx, ev)
				var ierr *network.InconsistentEvidenceError
				require.ErrorAs(t, err, &ierr, "evidence %v", ev)
			}

			post, err := engine.Infer(ctx, map[string]string{"Switch": "on"})
			require.NoError(t, err)
			p, err := post.Probability("Lamp", "on")
			require.NoError(t, err)
			assert.InDelta(t, 0.9, p, 1e-12)
		})
	}
}

func TestInfer_QueryErrors(t *testing.T) {
	ctx := context.Background()
	net := testutil.PartOfSpeechNetwork(t)
	engine := inference.New(net)

	_, err := engine.Infer(ctx, map[string]string{"Nowhere": "time"})
	assert.ErrorIs(t, err, network.ErrQuery)

	_, err = engine.Infer(ctx, map[string]string{"TimeWord": "clock"})
	assert.ErrorIs(t, err, network.ErrQuery)

	post, err := engine.Infer(ctx, testutil.PartOfSpeechEvidence())
	require.NoError(t, err)

	_, err = post.Probability("Nowhere", testutil.Noun)
	var qerr *network.QueryError
	require.ErrorAs(t, err, &qerr)
	assert.Equal(t, "Nowhere", qerr.Name)

	_, err = post.Probability("TimePart", "clock")
	assert.ErrorIs(t, err, network.ErrQuery)

	_, err = post.Distribution("Nowhere")
	assert.ErrorIs(t, err, network.ErrQuery)

	_, err = net.AddRoot(ctx, "Late", testutil.Fill(testutil.PartOfSpeechDomain, map[string]float64{testutil.Noun: 1}))
	require.NoError(t, err)
	_, err = post.Vector("Late")
	assert.ErrorContains(t, err, "added after this inference ran")
}

func TestPosteriors_All(t *testing.T) {
	ctx := context.Background()
	net := testutil.BonusNetwork(t)
	post, err := inference.New(net).Infer(ctx, map[string]bool{"D": true})
	require.NoError(t, err)
	_, err = net.AddRoot(ctx, "Late", testutil.Bool(0.5))
	require.NoError(t, err)

	var names []string
	for name, vec := range post.All() {
		names = append(names, name)
		want, err := post.Vector(name)
		require.NoError(t, err)
		assert.Equal(t, want, vec, name)
		vec[0] = -1
	}
	assert.Equal(t, []string{"A", "B", "C", "D", "E"}, names, "nodes added later are not yielded")

	d, err := post.Probability("D", true)
	require.NoError(t, err)
	assert.Equal(t, 1.0, d, "yielded vectors are copies")
}

func TestInfer_IncompleteNetwork(t *testing.T) {
	ctx := context.Background()
	net, err := network.New([]bool{true, false})
	require.NoError(t, err)
	_, err = net.AddRoot(ctx, "A", testutil.Bool(0.5))
	require.NoError(t, err)
	_, err = net.AddIntermediate(ctx, "Dangling")
	require.NoError(t, err)

	_, err = inference.New(net).Infer(ctx, nil)
	var cerr *network.ConstructionError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "Dangling", cerr.Subject)
}

func TestInfer_PartOfSpeech(t *testing.T) {
	ctx := context.Background()
	net := testutil.PartOfSpeechNetwork(t)

	var results []*inference.Posteriors[string]
	for _, strategy := range strategies {
		post, err := inference.New(net, inference.WithStrategy(strategy)).Infer(ctx, testutil.PartOfSpeechEvidence())
		require.NoError(t, err)
		results = append(results, post)
	}

	post := results[0]
	// Only nouns emit "time" and only articles emit "an".
	p, err := post.Probability("TimePart", testutil.Noun)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, p, 1e-9)
	p, err = post.Probability("AnPart", testutil.Article)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, p, 1e-9)

	// An article is always followed by a noun.
	p, err = post.Probability("ArrowPart", testutil.Noun)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, p, 1e-9)

	approx := cmpopts.EquateApprox(0, 1e-9)
	for _, name := range post.Names() {
		dist, err := post.Distribution(name)
		require.NoError(t, err)
		sum := 0.0
		for _, pr := range dist {
			sum += pr
		}
		assert.InDelta(t, 1.0, sum, 1e-9, name)

		a, _ := results[0].Vector(name)
		b, _ := results[1].Vector(name)
		if diff := cmp.Diff(a, b, approx); diff != "" {
			t.Errorf("%s: strategies disagree (-tree +fixpoint):\n%s", name, diff)
		}
	}
}

func TestInfer_MatchesEnumeration(t *testing.T) {
	ctx := context.Background()
	rng := rand.New(rand.NewSource(42))
	approx := cmpopts.EquateApprox(0, 1e-9)

	for i := range 25 {
		net := testutil.RandomPolytree(t, rng, 2+rng.Intn(7), 2+rng.Intn(2))
		snap := net.Snapshot()

		evidence := map[string]int{}
		ev := network.Evidence{}
		for id := range snap.Nodes() {
			if rng.Intn(3) == 0 {
				v := rng.Intn(snap.DomainSize())
				evidence[fmt.Sprintf("N%d", id)] = v
				ev[id] = v
			}
		}
		want, total := testutil.Enumerate(snap, ev)
		require.Positive(t, total)

		for _, strategy := range strategies {
			post, err := inference.New(net, inference.WithStrategy(strategy)).Infer(ctx, evidence)
			require.NoError(t, err, "network %d", i)

			for id, name := range post.Names() {
				got, err := post.Vector(name)
				require.NoError(t, err)
				if diff := cmp.Diff(want[id], got, approx); diff != "" {
					t.Errorf("network %d, %s, node %s (-enumerated +inferred):\n%s", i, strategy, name, diff)
				}
			}
		}
	}
}

func TestInfer_Concurrent(t *testing.T) {
	ctx := context.Background()
	engine := inference.New(testutil.BonusNetwork(t))

	evidence := []map[string]bool{
		{"D": true},
		{},
		{"D": true, "B": false},
	}
	wantA := []float64{0.0843, 0.01, 0.1751}

	var wg sync.WaitGroup
	for i := range 30 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			k := i % len(evidence)
			post, err := engine.Infer(ctx, evidence[k])
			if !assert.NoError(t, err) {
				return
			}
			p, err := post.Probability("A", true)
			assert.NoError(t, err)
			assert.InDelta(t, wantA[k], p, 0.001)
		}(i)
	}
	wg.Wait()
}

func TestParseStrategy(t *testing.T) {
	s, err := inference.ParseStrategy("Fixpoint")
	require.NoError(t, err)
	assert.Equal(t, inference.StrategyFixpoint, s)

	s, err = inference.ParseStrategy("tree")
	require.NoError(t, err)
	assert.Equal(t, inference.StrategyTree, s)

	_, err = inference.ParseStrategy("loopy")
	assert.ErrorContains(t, err, "unknown strategy")

	assert.Equal(t, inference.StrategyTree, inference.New(testutil.BonusNetwork(t)).Strategy())
}
