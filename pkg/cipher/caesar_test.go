package cipher

import (
	"math"
	"testing"
	"testing/quick"
	"unicode"
)

func TestCaesarScenarios(t *testing.T) {
	c := NewCaesar()
	cases := []struct {
		name    string
		decode  bool
		message string
		key     int64
		want    string
	}{
		{"encode hello", false, "Hello, World!", 3, "Khoor, Zruog!"},
		{"decode hello", true, "Khoor, Zruog!", 3, "Hello, World!"},
		{"negative key wraps", false, "abcXYZ", -1, "zabWXY"},
		{"empty message", false, "", 5, ""},
		{"key 29 equals key 3", false, "Hello", 29, "Khoor"},
		{"key -1 equals key 25", false, "abc", 25, "zab"},
		{"full alphabet", false, "abcdefghijklmnopqrstuvwxyz", 13, "nopqrstuvwxyzabcdefghijklm"},
		{"non-latin untouched", false, "Grüße, мир 🌍!", 1, "Hsüßf, мир 🌍!"},
		{"invalid utf8 kept", false, "a\xffb", 1, "b\xffc"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var got string
			if tc.decode {
				got = c.Decode(tc.message, tc.key)
			} else {
				got = c.Encode(tc.message, tc.key)
			}
			if got != tc.want {
				t.Fatalf("Expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestCaesarRoundTrip(t *testing.T) {
	c := NewCaesar()
	f := func(m string, k int64) bool {
		return c.Decode(c.Encode(m, k), k) == m
	}
	if err := quick.Check(f, nil); err != nil {
		t.Fatal(err)
	}

	extremes := []int64{0, 1, -1, 26, -26, math.MaxInt64, math.MinInt64, math.MinInt64 + 1}
	for _, k := range extremes {
		m := "The quick brown fox, 0123 \t\n\x00 jumps ÿ 日本"
		if got := c.Decode(c.Encode(m, k), k); got != m {
			t.Fatalf("key %d: round trip gave %q", k, got)
		}
	}
}

func TestCaesarKeyPeriodicity(t *testing.T) {
	c := NewCaesar()
	f := func(m string, k int32) bool {
		key := int64(k)
		e := c.Encode(m, key)
		return e == c.Encode(m, key+AlphabetSize) && e == c.Encode(m, key-AlphabetSize)
	}
	if err := quick.Check(f, nil); err != nil {
		t.Fatal(err)
	}
}

func TestCaesarIdentityKey(t *testing.T) {
	c := NewCaesar()
	f := func(m string) bool { return c.Encode(m, 0) == m && c.Decode(m, 0) == m }
	if err := quick.Check(f, nil); err != nil {
		t.Fatal(err)
	}
}

func TestCaesarPreservesCaseAndNonLetters(t *testing.T) {
	c := NewCaesar()
	f := func(m string, k int64) bool {
		in := []rune(m)
		out := []rune(c.Encode(m, k))
		if len(in) != len(out) {
			return false
		}
		for i, r := range in {
			switch {
			case 'A' <= r && r <= 'Z':
				if !('A' <= out[i] && out[i] <= 'Z') {
					return false
				}
			case 'a' <= r && r <= 'z':
				if !('a' <= out[i] && out[i] <= 'z') {
					return false
				}
			default:
				if out[i] != r {
					return false
				}
			}
		}
		return true
	}
	if err := quick.Check(f, nil); err != nil {
		t.Fatal(err)
	}
	// Non-ASCII letters are outside both groups.
	for _, r := range "ÀÉÎõßΣж" {
		if !unicode.IsLetter(r) {
			t.Fatalf("%q should be a letter", r)
		}
		if got := c.Encode(string(r), 7); got != string(r) {
			t.Fatalf("Expected %q unchanged, got %q", r, got)
		}
	}
}

func TestResidue(t *testing.T) {
	cases := map[int64]int{
		0: 0, 3: 3, 26: 0, 29: 3, -1: 25, -26: 0, -27: 25,
		math.MaxInt64: int(math.MaxInt64 % 26),
		math.MinInt64: int(26 + math.MinInt64%26),
	}
	for key, want := range cases {
		if got := Residue(key); got != want {
			t.Errorf("Residue(%d): expected %d, got %d", key, want, got)
		}
	}
}
