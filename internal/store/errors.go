package store

import (
	"errors"
	"fmt"
	"net"
	"strings"

	"gorm.io/gorm"
)

// Kind classifies a store failure so callers can react to "nothing found"
// differently from "store unreachable".
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindConnectionFailure
	KindConstraintViolation
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindConnectionFailure:
		return "connection failure"
	case KindConstraintViolation:
		return "constraint violation"
	default:
		return "unknown"
	}
}

// ErrNotFound is returned by point lookups that miss and by updates/deletes
// against an id that does not exist.
var ErrNotFound = errors.New("store: record not found")

// Error wraps a driver error with its classified kind and the failing
// operation.
type Error struct {
	Op   string
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("store: %s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// wrap classifies err and tags it with the operation name. gorm's not-found
// sentinel maps to ErrNotFound so callers can use errors.Is directly.
func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("store: %s: %w", op, ErrNotFound)
	}
	return &Error{Op: op, Kind: classify(err), Err: err}
}

func classify(err error) Kind {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return KindConnectionFailure
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || errors.Is(err, gorm.ErrForeignKeyViolated) {
		return KindConstraintViolation
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "constraint") || strings.Contains(msg, "duplicate"):
		return KindConstraintViolation
	case strings.Contains(msg, "connection refused") || strings.Contains(msg, "connection reset") || strings.Contains(msg, "broken pipe"):
		return KindConnectionFailure
	}
	return KindUnknown
}

// KindOf extracts the failure kind from any error returned by this package.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	if errors.Is(err, ErrNotFound) {
		return KindNotFound
	}
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindUnknown
}
