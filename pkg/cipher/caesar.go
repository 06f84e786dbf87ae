package cipher

import (
	"strings"
	"unicode/utf8"
)

// AlphabetSize is the length of each cyclic letter group.
const AlphabetSize = 26

// MethodCaesar is the registry name of the Caesar cipher.
const MethodCaesar = "caesar"

type caesar struct{}

// NewCaesar returns the Caesar shift cipher. A-Z and a-z are shifted inside
// their own group; every other code point is copied unchanged.
func NewCaesar() Cipher { return caesar{} }

func (caesar) Name() string { return MethodCaesar }

func (caesar) Encode(message string, key int64) string {
	return Shift(message, Residue(key))
}

func (caesar) Decode(message string, key int64) string {
	return Shift(message, (AlphabetSize-Residue(key))%AlphabetSize)
}

// Residue reduces key to [0, AlphabetSize) using floor modulo, so -1 and 25
// select the same shift.
func Residue(key int64) int {
	r := key % AlphabetSize
	if r < 0 {
		r += AlphabetSize
	}
	return int(r)
}

// Shift rotates the Latin letters of s forward by n positions, n in [0, 26).
// Bytes that are not valid UTF-8 are kept as they are.
func Shift(s string, n int) string {
	if n == 0 || s == "" {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		c := s[i]
		if c < utf8.RuneSelf {
			b.WriteByte(shiftByte(c, n))
			i++
			continue
		}
		// Non-ASCII is never a Latin letter here; copy the encoded sequence
		// (or the single invalid byte) verbatim.
		_, size := utf8.DecodeRuneInString(s[i:])
		b.WriteString(s[i : i+size])
		i += size
	}
	return b.String()
}

func shiftByte(c byte, n int) byte {
	switch {
	case 'A' <= c && c <= 'Z':
		return 'A' + byte((int(c-'A')+n)%AlphabetSize)
	case 'a' <= c && c <= 'z':
		return 'a' + byte((int(c-'a')+n)%AlphabetSize)
	}
	return c
}
