package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"cryptovault/pkg/api"
	"cryptovault/pkg/engine"
	"cryptovault/pkg/log"
)

// StatusFor maps an error returned by a handler to an HTTP status and the
// text placed in the detail field.
func StatusFor(err error) (int, string) {
	var he *echo.HTTPError
	switch {
	case errors.As(err, &he):
		if he.Internal != nil {
			return he.Code, fmt.Sprintf("%v: %v", he.Message, he.Internal)
		}
		return he.Code, fmt.Sprint(he.Message)
	case errors.Is(err, engine.ErrInvalidKey):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, engine.ErrUnknownMethod), errors.Is(err, engine.ErrInvalidRequest):
		return http.StatusBadRequest, err.Error()
	}
	return http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)
}

func (s *Server) errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	status, detail := StatusFor(err)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Path()).Msg("request failed")
	}
	var werr error
	if c.Request().Method == http.MethodHead {
		werr = c.NoContent(status)
	} else {
		werr = c.JSON(status, api.TransformError{Detail: detail})
	}
	if werr != nil {
		log.Warn().Err(werr).Msg("failed to write error response")
	}
}
