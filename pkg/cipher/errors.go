package cipher

import "errors"

var (
	ErrUnknownMethod   = errors.New("unknown method")
	ErrDuplicateMethod = errors.New("method already registered")
	ErrEmptyMethodName = errors.New("method name is empty")
)
