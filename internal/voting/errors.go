package voting

import "errors"

var (
	// ErrInvalidArgument is returned for a direction other than +1 or -1.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotFound is returned when the target or its author does not exist.
	ErrNotFound = errors.New("not found")
	// ErrUnauthenticated is returned by identity resolvers with no voter.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrConstraintViolation means the ledger held or would hold two votes
	// for one (voter, target) pair. It indicates a locking bug.
	ErrConstraintViolation = errors.New("vote ledger constraint violation")
)
