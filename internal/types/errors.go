package types

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	ErrTableExists             ErrorKind = "TableExists"
	ErrTableNotFound           ErrorKind = "TableNotFound"
	ErrInvalidTableName        ErrorKind = "InvalidTableName"
	ErrInvalidColumnDefinition ErrorKind = "InvalidColumnDefinition"
	ErrUnsupportedType         ErrorKind = "UnsupportedType"
	ErrColumnCountMismatch     ErrorKind = "ColumnCountMismatch"
	ErrTypeMismatch            ErrorKind = "TypeMismatch"
	ErrInvalidPredicateSyntax  ErrorKind = "InvalidPredicateSyntax"
	ErrInvalidSetSyntax        ErrorKind = "InvalidSetSyntax"
	ErrPersistenceFailure      ErrorKind = "PersistenceFailure"
)

type QueryError struct {
	msg   string
	kind  ErrorKind
	cause error
}

func NewQueryError(kind ErrorKind, msg string) *QueryError {
	return &QueryError{msg: msg, kind: kind}
}

func QueryErrorf(kind ErrorKind, format string, args ...any) *QueryError {
	return NewQueryError(kind, fmt.Sprintf(format, args...))
}

// PersistenceError wraps an I/O failure.
func PersistenceError(msg string, cause error) *QueryError {
	return &QueryError{msg: fmt.Sprintf("%s: %s", msg, cause), kind: ErrPersistenceFailure, cause: cause}
}

func (e QueryError) Error() string   { return e.msg }
func (e QueryError) Kind() ErrorKind { return e.kind }
func (e QueryError) Unwrap() error   { return e.cause }

// IsKind reports whether err is a QueryError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var qe *QueryError
	return errors.As(err, &qe) && qe.kind == kind
}
