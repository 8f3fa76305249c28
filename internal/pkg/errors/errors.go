package errors

import "errors"

var (
	ErrNotFound = errors.New("not found")
	ErrInvalid  = errors.New("invalid")
	ErrUpstream = errors.New("upstream failure")
	ErrStorage  = errors.New("storage failure")
	ErrTooMany  = errors.New("too many requests")
	ErrInternal = errors.New("internal")
)
