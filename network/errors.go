package network

import (
	"errors"
	"fmt"
)

var (
	// ErrConstruction is wrapped by every ConstructionError.
	ErrConstruction = errors.New("invalid network construction")
	// ErrQuery is wrapped by every QueryError.
	ErrQuery = errors.New("invalid query")
	// ErrInconsistentEvidence is wrapped by InconsistentEvidenceError. It means
	// the evidence has zero joint probability under the model.
	ErrInconsistentEvidence = errors.New("inconsistent evidence")
	// ErrIncompletePropagation is returned when a scheduler stops before every
	// edge carries both of its messages.
	ErrIncompletePropagation = errors.New("propagation finished with missing messages")
)

// ConstructionError reports a rejected construction call. The network is
// left unchanged.
type ConstructionError struct {
	// Op is the construction operation, e.g. "add node" or "add dependency".
	Op string
	// Subject names the node (or dependency) the call was about.
	Subject string
	Reason  string
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("%s %q: %s", e.Op, e.Subject, e.Reason)
}

func (e *ConstructionError) Unwrap() error {
	return ErrConstruction
}

func constructionErr(op, subject, format string, args ...any) error {
	return &ConstructionError{Op: op, Subject: subject, Reason: fmt.Sprintf(format, args...)}
}

// QueryError reports an evidence assignment or a result lookup that refers to
// an unknown node or to a value outside the domain.
type QueryError struct {
	Name   string
	Reason string
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query on node %q: %s", e.Name, e.Reason)
}

func (e *QueryError) Unwrap() error {
	return ErrQuery
}

// InconsistentEvidenceError is returned by inference when the belief of Node
// cannot be normalized because every value has zero support.
type InconsistentEvidenceError struct {
	Node string
}

func (e *InconsistentEvidenceError) Error() string {
	return fmt.Sprintf("belief of node %q has zero total probability: evidence is inconsistent with the model", e.Node)
}

func (e *InconsistentEvidenceError) Unwrap() error {
	return ErrInconsistentEvidence
}
