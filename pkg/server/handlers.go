package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"cryptovault/pkg/api"
	"cryptovault/pkg/engine"
	"cryptovault/pkg/metrics"
)

func (s *Server) handleRoot(c echo.Context) error {
	return c.JSON(http.StatusOK, api.BannerResponse{Message: banner})
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, api.HealthResponse{Status: "ok"})
}

func (s *Server) handleMethods(c echo.Context) error {
	return c.JSON(http.StatusOK, api.MethodsResponse{Methods: s.engine.Registry().Methods()})
}

func (s *Server) handleTransform(dir engine.Direction) echo.HandlerFunc {
	return func(c echo.Context) error {
		var body api.TransformRequest
		if err := decodeBody(c.Request().Body, &body); err != nil {
			s.record("", dir, err)
			return err
		}
		keyText, err := body.KeyText()
		if err != nil {
			err = fmt.Errorf("%w: %v", engine.ErrInvalidKey, err)
			s.record(body.Method, dir, err)
			return err
		}
		req, err := engine.NewRequest(body.Message, keyText, body.Method)
		if err != nil {
			s.record(body.Method, dir, err)
			return err
		}
		out, err := s.engine.Transform(req, dir)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, api.TransformResult{Result: out})
	}
}

// record counts requests rejected before the engine saw them; the engine
// reports the rest through its observer.
func (s *Server) record(method string, dir engine.Direction, err error) {
	if s.metrics == nil {
		return
	}
	if method == "" {
		method = "none"
	} else if c, lerr := s.engine.Registry().Lookup(method); lerr == nil {
		method = c.Name()
	} else {
		method = "unknown"
	}
	s.metrics.Record(method, dir.String(), metrics.Outcome(err))
}

func decodeBody(r io.Reader, v *api.TransformRequest) error {
	dec := json.NewDecoder(r)
	if err := dec.Decode(v); err != nil {
		var he *echo.HTTPError
		switch {
		case errors.As(err, &he):
			return he
		case errors.Is(err, io.EOF):
			return fmt.Errorf("%w: request body is empty", engine.ErrInvalidRequest)
		}
		return fmt.Errorf("%w: %v", engine.ErrInvalidRequest, err)
	}
	return nil
}
