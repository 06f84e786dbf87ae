package cipher

import (
	"errors"
	"testing"
)

type reverseCipher struct{ name string }

func (r reverseCipher) Name() string { return r.name }
func (r reverseCipher) Encode(m string, _ int64) string {
	b := []rune(m)
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return string(b)
}
func (r reverseCipher) Decode(m string, k int64) string { return r.Encode(m, k) }

func TestDefaultRegistryHasCaesar(t *testing.T) {
	r := DefaultRegistry()
	c, err := r.Lookup("caesar")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if c.Name() != MethodCaesar {
		t.Fatalf("Expected %s, got %s", MethodCaesar, c.Name())
	}
	if _, err := r.Lookup("  Caesar "); err != nil {
		t.Fatalf("Lookup should ignore case and spaces: %v", err)
	}
}

func TestRegistryUnknownMethod(t *testing.T) {
	_, err := DefaultRegistry().Lookup("vigenere")
	if !errors.Is(err, ErrUnknownMethod) {
		t.Fatalf("Expected ErrUnknownMethod, got %v", err)
	}
}

func TestRegistryRejectsDuplicatesAndEmptyNames(t *testing.T) {
	if _, err := NewRegistry(NewCaesar(), reverseCipher{"CAESAR"}); !errors.Is(err, ErrDuplicateMethod) {
		t.Fatalf("Expected ErrDuplicateMethod, got %v", err)
	}
	if _, err := NewRegistry(reverseCipher{" "}); !errors.Is(err, ErrEmptyMethodName) {
		t.Fatalf("Expected ErrEmptyMethodName, got %v", err)
	}
}

func TestRegistryMethodsSortedAndCopied(t *testing.T) {
	r, err := NewRegistry(reverseCipher{"reverse"}, NewCaesar())
	if err != nil {
		t.Fatalf("NewRegistry failed: %v", err)
	}
	methods := r.Methods()
	if len(methods) != 2 || methods[0] != "caesar" || methods[1] != "reverse" {
		t.Fatalf("Unexpected methods %v", methods)
	}
	methods[0] = "mutated"
	if r.Methods()[0] != "caesar" {
		t.Fatal("Methods must return a copy")
	}
}
