// Package shared provides utility functions for working with random byte
// buffers and secure memory wiping.
package shared

import "crypto/rand"

// GenerateRandByteArray returns a slice of size cryptographically random
// bytes. It panics if the system random source fails, which is treated as
// unrecoverable.
func GenerateRandByteArray(size int) []byte {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return b
}

// WipeByteArray overwrites the contents of the provided byte slice with zeros.
// This is useful for removing sensitive data such as passphrases or derived
// keys from memory after use.
//
// If the slice is nil, the function does nothing.
func WipeByteArray(b []byte) {
	if b == nil {
		return
	}
	for i := range b {
		b[i] = 0
	}
}
