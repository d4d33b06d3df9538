package errors

import "errors"

var (
	ErrInvalidRequest      = errors.New("invalid request")
	ErrInvalidIdentityID   = errors.New("invalid identity id")
	ErrInvalidApplication  = errors.New("invalid application")
	ErrInvalidPrincipal    = errors.New("invalid principal")
	ErrNegativeCost        = errors.New("cost per seat must not be negative")
	ErrNegativeSeats       = errors.New("total seats must not be negative")
	ErrIdentityNotFound    = errors.New("identity not found")
	ErrAssignmentNotFound  = errors.New("assignment not found")
	ErrAssignmentExists    = errors.New("assignment already exists")
	ErrCatalogEntryMissing = errors.New("catalog entry not found")
	ErrRemoteWriteFailed   = errors.New("remote write failed")
)
