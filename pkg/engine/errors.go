package engine

import (
	"errors"

	"cryptovault/pkg/cipher"
)

var (
	ErrInvalidKey     = errors.New("invalid key")
	ErrUnknownMethod  = cipher.ErrUnknownMethod
	ErrInvalidRequest = errors.New("invalid request")
)
