package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownOperator = errors.New("unknown operator")
	ErrMalformedQuery  = errors.New("malformed query")
)

// UnknownOperatorError is returned for an operator key outside the known set.
type UnknownOperatorError struct {
	Operator string
}

func (e *UnknownOperatorError) Error() string {
	return fmt.Sprintf("unknown operator: %s", e.Operator)
}

func (e *UnknownOperatorError) Is(target error) bool {
	return target == ErrUnknownOperator
}

// MalformedQueryError is returned when an operator argument has the wrong shape.
type MalformedQueryError struct {
	Field  string
	Reason string
}

func (e *MalformedQueryError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("malformed query: %s", e.Reason)
	}
	return fmt.Sprintf("malformed query on field %q: %s", e.Field, e.Reason)
}

func (e *MalformedQueryError) Is(target error) bool {
	return target == ErrMalformedQuery
}

func malformed(field, format string, args ...any) error {
	return &MalformedQueryError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
