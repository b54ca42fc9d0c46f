package loans

import "fmt"

// ErrorKind classifies workflow failures so transports can map them to a
// response without string matching.
type ErrorKind string

const (
	KindNotFound        ErrorKind = "not_found"
	KindAlreadyReturned ErrorKind = "already_returned"
	KindForbidden       ErrorKind = "forbidden"
	KindOutOfStock      ErrorKind = "out_of_stock"
	KindInvalidInput    ErrorKind = "invalid_input"
	KindPersistence     ErrorKind = "persistence_failure"
)

// WorkflowError is the structured failure of a loan workflow. It always
// reaches the caller; rollback errors are wrapped, never discarded.
type WorkflowError struct {
	Kind ErrorKind
	Err  error
}

func (e *WorkflowError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return string(e.Kind)
}

func (e *WorkflowError) Unwrap() error { return e.Err }

func workflowErr(kind ErrorKind, format string, args ...any) *WorkflowError {
	return &WorkflowError{Kind: kind, Err: fmt.Errorf(format, args...)}
}

func persistenceErr(op string, err error) *WorkflowError {
	return &WorkflowError{Kind: KindPersistence, Err: fmt.Errorf("%s: %w", op, err)}
}

// KindOf returns the error's kind, or KindPersistence for untyped errors.
func KindOf(err error) ErrorKind {
	if we, ok := err.(*WorkflowError); ok {
		return we.Kind
	}
	return KindPersistence
}
