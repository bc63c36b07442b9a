// Package network holds the Bayesian network model consumed by the inference
// engine: the shared value domain, the nodes with their roles and adjacency,
// root priors and conditional probability tables.
//
// # Lifecycle
//
//  1. **Created** with New, which fixes the value domain.
//  2. **Populated** node by node (AddNode, AddRoot, AddIntermediate, AddLeaf)
//     and then dependency by dependency (AddDependency). Every call validates
//     its input completely before touching the network, so a rejected call
//     leaves the network exactly as it was.
//  3. **Read** by any number of concurrent inference runs through Snapshot.
//
// # Representation
//
// Domain values are mapped to their position in the domain slice when they
// enter the network. Priors and CPT rows are stored as []float64 indexed by
// value position, and a CPT is a flat table addressed by the mixed-radix
// index of its parent values (see CPT.Index). The engine never hashes a
// domain value.
//
// # Structural guarantees
//
// The undirected skeleton of the network is kept acyclic: AddDependency
// rejects any edge set that would close an undirected cycle. Every network
// that can be built is therefore a polytree, which is the precondition for
// exact belief propagation.
package network
