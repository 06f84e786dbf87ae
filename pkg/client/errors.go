package client

import (
	"errors"
	"fmt"
)

// ErrTransport marks failures where no usable answer came back from the
// service: it could not be reached or its response could not be read.
var ErrTransport = errors.New("request failed")

// APIError is a non-2xx answer from the service.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("Error %d: %s", e.Status, e.Detail)
}
