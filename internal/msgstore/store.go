// Package msgstore holds the messages exchanged during one belief-propagation
// run: pi-messages travelling from a parent to a child and lambda-messages
// travelling from a child to a parent. Each message is a vector over the value
// domain, indexed by value position.
//
// A Store is created for a single inference run and discarded afterwards. It
// is not safe for concurrent use; concurrent runs each own a store.
package msgstore

// Edge is a directed message channel between two node IDs.
type Edge struct {
	From int
	To   int
}

// Store maps each directed edge to its message.
type Store struct {
	pi     map[Edge][]float64
	lambda map[Edge][]float64
}

// New creates an empty store sized for the given number of edges.
func New(edges int) *Store {
	return &Store{
		pi:     make(map[Edge][]float64, edges),
		lambda: make(map[Edge][]float64, edges),
	}
}

// Pi returns the pi-message from parent to child.
func (s *Store) Pi(parent, child int) ([]float64, bool) {
	m, ok := s.pi[Edge{From: parent, To: child}]
	return m, ok
}

// HasPi reports whether the pi-message from parent to child is present.
func (s *Store) HasPi(parent, child int) bool {
	_, ok := s.pi[Edge{From: parent, To: child}]
	return ok
}

// SetPi stores the pi-message from parent to child.
func (s *Store) SetPi(parent, child int, msg []float64) {
	s.pi[Edge{From: parent, To: child}] = msg
}

// Lambda returns the lambda-message from child to parent.
func (s *Store) Lambda(child, parent int) ([]float64, bool) {
	m, ok := s.lambda[Edge{From: child, To: parent}]
	return m, ok
}

// HasLambda reports whether the lambda-message from child to parent is present.
func (s *Store) HasLambda(child, parent int) bool {
	_, ok := s.lambda[Edge{From: child, To: parent}]
	return ok
}

// SetLambda stores the lambda-message from child to parent.
func (s *Store) SetLambda(child, parent int, msg []float64) {
	s.lambda[Edge{From: child, To: parent}] = msg
}

// PiCount is the number of pi-messages stored.
func (s *Store) PiCount() int { return len(s.pi) }

// LambdaCount is the number of lambda-messages stored.
func (s *Store) LambdaCount() int { return len(s.lambda) }
