package service

import "errors"

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrNotFound          = errors.New("not found")
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidTransition = errors.New("invalid alert transition")
	ErrMisconfigured     = errors.New("auth config invalid")
	ErrUnauthorized      = errors.New("unauthorized")
)
