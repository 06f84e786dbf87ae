// Package cipher holds the text ciphers the engine can dispatch to and the
// registry that names them.
package cipher

// Cipher is a pair of total functions over (message, key).
// Decode(Encode(m, k), k) must return m for every m and k.
type Cipher interface {
	Name() string
	Encode(message string, key int64) string
	Decode(message string, key int64) string
}
