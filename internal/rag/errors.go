package rag

import "fmt"

// ValidationError reports missing or malformed caller input. It is raised
// before any side effect.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return "validation: " + e.Msg
}

func validationErrorf(format string, args ...interface{}) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// ContentError reports content that cannot be indexed (empty document,
// unsupported shape). No side effects have happened when it is raised.
type ContentError struct {
	Msg string
}

func (e *ContentError) Error() string {
	return "content: " + e.Msg
}

// StoreError reports a vector index or tenant store failure. Compensating
// cleanup, where specified, has already run successfully.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// ConsistencyWarning reports a detected but unresolved mismatch between
// the tenant store and the vector index: an operation failed AND its
// compensating cleanup failed too. The state needs manual reconciliation,
// so it is surfaced distinctly from an ordinary StoreError.
type ConsistencyWarning struct {
	Op         string
	Err        error
	CleanupErr error
}

func (e *ConsistencyWarning) Error() string {
	return fmt.Sprintf("consistency: %s: %v (cleanup also failed: %v)", e.Op, e.Err, e.CleanupErr)
}

func (e *ConsistencyWarning) Unwrap() error {
	return e.Err
}
