// Package shared holds small helpers used across the client packages.
package shared

// WipeByteArray zeroes the contents of b in place. Used to scrub password
// buffers once they have been handed to the identity service.
func WipeByteArray(b []byte) {
	if b == nil {
		return
	}
	for i := range b {
		b[i] = 0
	}
}
