// Package propagation computes Pearl's pi- and lambda-messages over a
// polytree and schedules their computation until every directed edge carries
// both messages.
//
// # Messages
//
// For a node X with parents U_1..U_k and children C_1..C_m:
//
//	BEL_pi(x)    = prior(x) · [x == e_X]                          if X is an observed root
//	             = [x == e_X]                                     if X is observed
//	             = prior(x)                                       if X is an unobserved root
//	             = Σ_u CPT(x|u) · Π_i pi_{U_i→X}(u_i)             otherwise
//	pi_{X→C}(x)  = Π_{C'≠C} lambda_{C'→X}(x) · BEL_pi(x)
//	lambda_{X→U_j}(u) = Σ_{u: u_j=u} Π_{i≠j} pi_{U_i→X}(u_i) · Σ_x Π_C lambda_{C→X}(x) · CPT(x|u)
//
// Sums over parent keys skip keys that contradict evidence on X's other
// parents; the inner sum over x is restricted to X's observed value when X
// is observed. Every message is rescaled to sum to one when its sum is
// positive. Scale does not change the normalized beliefs and rescaling keeps
// long chains away from underflow.
//
// # Scheduling
//
// A message from X towards a neighbour Y needs every message into X except
// the one coming from Y. Two schedulers satisfy this:
//
//   - TreeScheduler walks each connected component of the undirected
//     skeleton twice: a collect pass towards an arbitrary pivot and a
//     distribute pass away from it. Each message is computed exactly once.
//   - FixpointScheduler repeatedly sweeps all nodes and emits every message
//     whose inputs are ready, stopping when a sweep adds nothing.
//
// Both produce identical stores on a polytree.
package propagation
