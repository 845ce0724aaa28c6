package models

import "errors"

// Sentinel errors shared across usecases. The HTTP error handler maps
// these onto status codes and the response envelope.
var (
	ErrBadRequest       = errors.New("bad request")
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("already exists")
	ErrForbidden        = errors.New("forbidden")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrInvalidOrExpired = errors.New("invalid or expired")
	ErrDependency       = errors.New("dependency failed")
)
