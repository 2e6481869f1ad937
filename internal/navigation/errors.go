package navigation

import "github.com/pkg/errors"

var (
	ErrInvalidItem  = errors.New("invalid item")
	ErrInvalidField = errors.New("invalid field")
	ErrUnknownField = errors.New("unknown field")
	ErrNotFound     = errors.New("not found")
	ErrCycle        = errors.New("parent cycle detected")
	ErrMaxDepth     = errors.New("max depth exceeded")
	ErrInvalidRule  = errors.New("invalid rule")
)
