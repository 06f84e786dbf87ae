package cipher

import (
	"fmt"
	"sort"
	"strings"
)

// Registry maps method names to ciphers. It is filled once by NewRegistry and
// never changes afterwards, so lookups need no locking.
type Registry struct {
	ciphers map[string]Cipher
	names   []string
}

// NewRegistry builds a registry from the given ciphers. Names are matched
// case-insensitively.
func NewRegistry(ciphers ...Cipher) (*Registry, error) {
	r := &Registry{ciphers: make(map[string]Cipher, len(ciphers))}
	for _, c := range ciphers {
		name := NormalizeMethod(c.Name())
		if name == "" {
			return nil, fmt.Errorf("registry: %T: %w", c, ErrEmptyMethodName)
		}
		if _, exists := r.ciphers[name]; exists {
			return nil, fmt.Errorf("registry: %q: %w", name, ErrDuplicateMethod)
		}
		r.ciphers[name] = c
		r.names = append(r.names, name)
	}
	sort.Strings(r.names)
	return r, nil
}

// DefaultRegistry returns a registry holding every cipher this module ships.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(NewCaesar())
	if err != nil {
		panic(err)
	}
	return r
}

// Lookup returns the cipher registered under name.
func (r *Registry) Lookup(name string) (Cipher, error) {
	c, ok := r.ciphers[NormalizeMethod(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMethod, name)
	}
	return c, nil
}

// Methods lists the registered names in sorted order.
func (r *Registry) Methods() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

func NormalizeMethod(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
