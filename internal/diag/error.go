package diag

import (
	"errors"
	"fmt"
)

// Kind classifies an Error.
type Kind int

const (
	// ParseError is a malformed section, unknown header or unparseable literal.
	ParseError Kind = iota + 1
	// NameError is an undefined identifier, duplicate declaration or ambiguous alias.
	NameError
	// TypeError is a kind mismatch at a reference site, a loop over a non-list
	// or a wrong arity.
	TypeError
	// EvaluationError is a null dereference at a non-optional site, a bad
	// numeric format or a malformed condition.
	EvaluationError
	// ContainerError is an unresolved `container:` path or inline children on
	// a component that cannot hold them.
	ContainerError
	// ProcessorError is a processor failure or a processor value of the wrong kind.
	ProcessorError
	// ImportError is a cyclic import or a missing document.
	ImportError
)

var kindNames = map[Kind]string{
	ParseError:      "ParseError",
	NameError:       "NameError",
	TypeError:       "TypeError",
	EvaluationError: "EvaluationError",
	ContainerError:  "ContainerError",
	ProcessorError:  "ProcessorError",
	ImportError:     "ImportError",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Error is a positioned failure in a document.
type Error struct {
	Kind    Kind
	DocID   string
	Line    int
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s:%d: %s", e.Kind, e.DocID, e.Line, e.Message)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// Errorf builds an Error of the given kind.
func Errorf(kind Kind, docID string, line int, format string, args ...any) *Error {
	return &Error{
		Kind:    kind,
		DocID:   docID,
		Line:    line,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap builds an Error of the given kind around err. If err already is an
// *Error it is returned untouched so the innermost position wins.
func Wrap(kind Kind, docID string, line int, err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	var de *Error
	if errors.As(err, &de) {
		return err
	}
	return &Error{
		Kind:    kind,
		DocID:   docID,
		Line:    line,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

// KindOf reports the kind of the first *Error in err's chain.
func KindOf(err error) (Kind, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind, true
	}
	return 0, false
}

// Is reports whether err carries an *Error of the given kind.
func Is(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
