// Package testutil provides shared fixtures for tests: reference networks,
// a brute-force marginal enumerator and a random polytree generator.
package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/beliefgrid/network"
)

// Bool builds a two-value distribution over {true, false}.
func Bool(pTrue float64) map[bool]float64 {
	return map[bool]float64{true: pTrue, false: 1 - pTrue}
}

// BonusNetwork builds the five-node reference network:
//
//	A (root)   B (root)
//	     \     /
//	      C (intermediate)
//	     /     \
//	  D (leaf)  E (leaf)
//
// With evidence D=true the posteriors are P(A)=0.0843, P(B)=0.5706,
// P(C)=0.7157, P(E)=0.6469.
func BonusNetwork(t *testing.T) *network.Network[bool] {
	t.Helper()
	ctx := context.Background()

	net, err := network.New([]bool{true, false})
	require.NoError(t, err)

	_, err = net.AddRoot(ctx, "A", Bool(0.01))
	require.NoError(t, err)
	_, err = net.AddRoot(ctx, "B", Bool(0.1))
	require.NoError(t, err)
	_, err = net.AddIntermediate(ctx, "C")
	require.NoError(t, err)
	_, err = net.AddLeaf(ctx, "D")
	require.NoError(t, err)
	_, err = net.AddLeaf(ctx, "E")
	require.NoError(t, err)

	require.NoError(t, net.AddDependency(ctx, []string{"A", "B"}, "C", []network.Row[bool]{
		{Given: []bool{true, true}, Probs: Bool(0.99)},
		{Given: []bool{false, true}, Probs: Bool(0.6)},
		{Given: []bool{true, false}, Probs: Bool(0.9)},
		{Given: []bool{false, false}, Probs: Bool(0.01)},
	}))
	require.NoError(t, net.AddDependency(ctx, []string{"C"}, "D", []network.Row[bool]{
		{Given: []bool{true}, Probs: Bool(0.3)},
		{Given: []bool{false}, Probs: Bool(0.01)},
	}))
	require.NoError(t, net.AddDependency(ctx, []string{"C"}, "E", []network.Row[bool]{
		{Given: []bool{true}, Probs: Bool(0.9)},
		{Given: []bool{false}, Probs: Bool(0.01)},
	}))
	return net
}

// Part-of-speech tags and words shared by PartOfSpeechNetwork.
const (
	Noun        = "noun"
	Verb        = "verb"
	Adjective   = "adjective"
	Article     = "article"
	Preposition = "preposition"
)

// PartOfSpeechDomain is the shared domain of tags and words.
var PartOfSpeechDomain = []string{Noun, Verb, Adjective, Article, Preposition, "time", "flies", "like", "an", "arrow"}

// Fill completes a sparse distribution with zeros for every domain value it
// does not mention.
func Fill(domain []string, sparse map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(domain))
	for _, v := range domain {
		out[v] = sparse[v]
	}
	return out
}

// PartOfSpeechNetwork tags "time flies like an arrow": a chain of tag nodes,
// each emitting an observed word leaf.
func PartOfSpeechNetwork(t *testing.T) *network.Network[string] {
	t.Helper()
	ctx := context.Background()
	d := PartOfSpeechDomain

	net, err := network.New(d)
	require.NoError(t, err)

	_, err = net.AddRoot(ctx, "TimePart", Fill(d, map[string]float64{Noun: 0.6, Article: 0.4}))
	require.NoError(t, err)
	for _, name := range []string{"Flies", "Like", "An", "Arrow"} {
		_, err = net.AddIntermediate(ctx, name+"Part")
		require.NoError(t, err)
	}
	for _, name := range []string{"Time", "Flies", "Like", "An", "Arrow"} {
		_, err = net.AddLeaf(ctx, name+"Word")
		require.NoError(t, err)
	}

	transition := []network.Row[string]{
		{Given: []string{Noun}, Probs: Fill(d, map[string]float64{Noun: 0.3, Verb: 0.4, Adjective: 0.1, Preposition: 0.2})},
		{Given: []string{Verb}, Probs: Fill(d, map[string]float64{Noun: 0.1, Adjective: 0.5, Article: 0.2, Preposition: 0.2})},
		{Given: []string{Adjective}, Probs: Fill(d, map[string]float64{Noun: 0.5, Adjective: 0.4, Article: 0.1})},
		{Given: []string{Article}, Probs: Fill(d, map[string]float64{Noun: 0.7, Preposition: 0.3})},
		{Given: []string{Preposition}, Probs: Fill(d, map[string]float64{Noun: 0.6, Adjective: 0.1, Article: 0.3})},
	}
	emission := []network.Row[string]{
		{Given: []string{Noun}, Probs: Fill(d, map[string]float64{"time": 0.6, "arrow": 0.3, "flies": 0.1})},
		{Given: []string{Verb}, Probs: Fill(d, map[string]float64{"like": 0.7, "arrow": 0.1, "flies": 0.2})},
		{Given: []string{Adjective}, Probs: Fill(d, map[string]float64{"like": 1})},
		{Given: []string{Article}, Probs: Fill(d, map[string]float64{"an": 1})},
		{Given: []string{Preposition}, Probs: Fill(d, map[string]float64{"like": 1})},
	}

	chain := []string{"Time", "Flies", "Like", "An", "Arrow"}
	for i := 1; i < len(chain); i++ {
		require.NoError(t, net.AddDependency(ctx, []string{chain[i-1] + "Part"}, chain[i]+"Part", transition))
	}
	for _, name := range chain {
		require.NoError(t, net.AddDependency(ctx, []string{name + "Part"}, name+"Word", emission))
	}
	return net
}

// PartOfSpeechEvidence observes every word of the sentence.
func PartOfSpeechEvidence() map[string]string {
	return map[string]string{
		"TimeWord":  "time",
		"FliesWord": "flies",
		"LikeWord":  "like",
		"AnWord":    "an",
		"ArrowWord": "arrow",
	}
}
