package belief_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/beliefgrid/internal/belief"
	"github.com/vk/beliefgrid/internal/msgstore"
	"github.com/vk/beliefgrid/internal/propagation"
	"github.com/vk/beliefgrid/internal/testutil"
	"github.com/vk/beliefgrid/network"
)

// deadEnd has a leaf that is never true, whatever its parent does.
func deadEnd(t *testing.T) *network.Network[bool] {
	t.Helper()
	ctx := context.Background()
	net, err := network.New([]bool{true, false})
	require.NoError(t, err)
	_, err = net.AddRoot(ctx, "A", testutil.Bool(0.5))
	require.NoError(t, err)
	_, err = net.AddLeaf(ctx, "L")
	require.NoError(t, err)
	require.NoError(t, net.AddDependency(ctx, []string{"A"}, "L", []network.Row[bool]{
		{Given: []bool{true}, Probs: testutil.Bool(0)},
		{Given: []bool{false}, Probs: testutil.Bool(0)},
	}))
	return net
}

func combine(t *testing.T, snap *network.Snapshot, ev network.Evidence) ([][]float64, error) {
	t.Helper()
	store, _, err := propagation.Propagate(context.Background(), snap, ev, propagation.TreeScheduler{})
	require.NoError(t, err)
	return belief.Combine(snap, ev, store)
}

func TestCombine_BonusNetwork(t *testing.T) {
	snap := testutil.BonusNetwork(t).Snapshot()

	got, err := combine(t, snap, network.Evidence{3: 0})
	require.NoError(t, err)

	want, _ := testutil.Enumerate(snap, network.Evidence{3: 0})
	for id := range got {
		assert.InDeltaSlice(t, want[id], got[id], 1e-9, "node %d", id)
	}
	assert.InDelta(t, 0.0843, got[0][0], 0.001)
	assert.InDelta(t, 0.5706, got[1][0], 0.001)
	assert.InDelta(t, 0.7157, got[2][0], 0.001)
	assert.Equal(t, []float64{1, 0}, got[3])
	assert.InDelta(t, 0.6469, got[4][0], 0.001)
}

func TestCombine_InconsistentEvidence(t *testing.T) {
	snap := deadEnd(t).Snapshot()

	t.Run("impossible observation", func(t *testing.T) {
		_, err := combine(t, snap, network.Evidence{1: 0})
		var ierr *network.InconsistentEvidenceError
		require.ErrorAs(t, err, &ierr)
		assert.Equal(t, "A", ierr.Node)
		assert.ErrorIs(t, err, network.ErrInconsistentEvidence)
	})

	t.Run("possible observation", func(t *testing.T) {
		got, err := combine(t, snap, network.Evidence{1: 1})
		require.NoError(t, err)
		assert.InDeltaSlice(t, []float64{0.5, 0.5}, got[0], 1e-12)
	})
}

func TestCombine_MissingMessages(t *testing.T) {
	snap := testutil.BonusNetwork(t).Snapshot()
	_, err := belief.Combine(snap, network.Evidence{}, msgstore.New(0))
	assert.ErrorIs(t, err, network.ErrIncompletePropagation)
}
