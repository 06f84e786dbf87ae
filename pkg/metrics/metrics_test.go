package metrics

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"cryptovault/pkg/engine"
)

func TestOutcome(t *testing.T) {
	cases := map[string]error{
		OutcomeOK:            nil,
		OutcomeInvalidKey:    fmt.Errorf("%w: x", engine.ErrInvalidKey),
		OutcomeUnknownMethod: fmt.Errorf("%w: x", engine.ErrUnknownMethod),
		OutcomeInvalid:       engine.ErrInvalidRequest,
		OutcomeError:         errors.New("boom"),
	}
	for want, err := range cases {
		if got := Outcome(err); got != want {
			t.Errorf("Outcome(%v): expected %s, got %s", err, want, got)
		}
	}
}

func TestObserveCounts(t *testing.T) {
	m := New()
	m.Observe("caesar", engine.Encrypt, nil, time.Microsecond)
	m.Observe("caesar", engine.Encrypt, nil, time.Microsecond)
	m.Observe("vigenere", engine.Decrypt, engine.ErrUnknownMethod, 0)

	if got := testutil.ToFloat64(m.transforms.WithLabelValues("caesar", "encrypt", OutcomeOK)); got != 2 {
		t.Fatalf("Expected 2 ok encrypts, got %v", got)
	}
	if got := testutil.ToFloat64(m.transforms.WithLabelValues("unknown", "decrypt", OutcomeUnknownMethod)); got != 1 {
		t.Fatalf("Expected 1 unknown method, got %v", got)
	}
	if m.Served() != 2 {
		t.Fatalf("Expected 2 served, got %d", m.Served())
	}
}
