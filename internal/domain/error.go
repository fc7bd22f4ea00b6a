package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound        = errors.New("entity not found")
	ErrAlreadyExists   = errors.New("entity already exists")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrEmptyMessage    = errors.New("message content is empty")
	ErrSendInFlight    = errors.New("a send is already in flight for this chat")
	ErrUnauthorized    = errors.New("authentication required")
	ErrUnavailable     = errors.New("service unavailable")
)
