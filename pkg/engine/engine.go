// Package engine validates transformation requests and dispatches them to the
// registered cipher. An Engine holds no mutable state and is safe for
// concurrent use.
package engine

import (
	"fmt"
	"time"

	"cryptovault/pkg/cipher"
	"cryptovault/pkg/log"
)

// Observer is notified after every dispatched call.
type Observer interface {
	Observe(method string, dir Direction, err error, elapsed time.Duration)
}

type Engine struct {
	registry *cipher.Registry
	observer Observer
}

type Option func(*Engine)

func WithObserver(o Observer) Option {
	return func(e *Engine) { e.observer = o }
}

// New returns an engine over registry. A nil registry means
// cipher.DefaultRegistry().
func New(registry *cipher.Registry, opts ...Option) *Engine {
	if registry == nil {
		registry = cipher.DefaultRegistry()
	}
	e := &Engine{registry: registry}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Registry() *cipher.Registry { return e.registry }

// Transform runs req through the cipher named by req.Method.
func (e *Engine) Transform(req Request, dir Direction) (string, error) {
	start := time.Now()
	out, err := e.transform(req, dir)
	if e.observer != nil {
		e.observer.Observe(req.Method, dir, err, time.Since(start))
	}
	return out, err
}

func (e *Engine) transform(req Request, dir Direction) (string, error) {
	c, err := e.registry.Lookup(req.Method)
	if err != nil {
		return "", err
	}
	log.Debug().
		Str("method", c.Name()).
		Stringer("direction", dir).
		Int("length", len(req.Message)).
		Msg("transform")

	switch dir {
	case Encrypt:
		return c.Encode(req.Message, req.Key), nil
	case Decrypt:
		return c.Decode(req.Message, req.Key), nil
	}
	return "", fmt.Errorf("%w: unknown direction %d", ErrInvalidRequest, int(dir))
}

// TransformRaw validates the raw fields and runs the transformation.
func (e *Engine) TransformRaw(message, rawKey, method string, dir Direction) (string, error) {
	req, err := NewRequest(message, rawKey, method)
	if err != nil {
		return "", err
	}
	return e.Transform(req, dir)
}

func (e *Engine) Encrypt(req Request) (string, error) { return e.Transform(req, Encrypt) }
func (e *Engine) Decrypt(req Request) (string, error) { return e.Transform(req, Decrypt) }
