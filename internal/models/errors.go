package models

import "errors"

// Error kinds surfaced by the list engine and record store. Handlers map
// them to HTTP statuses with errors.Is; nothing is retried internally.
var (
	ErrUserNotFound     = errors.New("user not found")
	ErrInvalidMediaType = errors.New("invalid media type")
	ErrInvalidStatus    = errors.New("invalid status")
	ErrInvalidItem      = errors.New("item is missing an id")
	ErrDuplicateItem    = errors.New("item already in list")
	ErrItemNotFound     = errors.New("item not found in list")
	ErrPersistence      = errors.New("persistence failure")
)
