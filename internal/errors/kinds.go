package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind classifies a domain error.
type Kind int

const (
	KindPersistence Kind = iota
	KindValidation
	KindAuthorization
	KindNotFound
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthorization:
		return "authorization"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "persistence"
	}
}

// DomainError is a sentinel carrying its Kind. Services declare their
// sentinels with the constructors below and compare them with errors.Is.
type DomainError struct {
	Kind    Kind
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func Validation(message string) *DomainError {
	return &DomainError{Kind: KindValidation, Message: message}
}

func Authorization(message string) *DomainError {
	return &DomainError{Kind: KindAuthorization, Message: message}
}

func NotFoundError(message string) *DomainError {
	return &DomainError{Kind: KindNotFound, Message: message}
}

func ConflictError(message string) *DomainError {
	return &DomainError{Kind: KindConflict, Message: message}
}

// Persistence wraps a store failure so callers can tell it apart from the
// rejection kinds. The cause stays reachable through errors.Unwrap.
func Persistence(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}

// KindOf returns the kind of the first DomainError in err's chain.
// Anything else is a persistence failure.
func KindOf(err error) Kind {
	var de *DomainError
	if stderrors.As(err, &de) {
		return de.Kind
	}
	return KindPersistence
}
