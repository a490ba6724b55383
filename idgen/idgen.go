// Package idgen provides the two ID strategies briefpipe needs: time-sortable
// UUIDv7 strings for batch runs, and short base-36 suffixes for temp dirs.
package idgen

import (
	"crypto/rand"

	"github.com/google/uuid"
)

// Generator produces unique string identifiers.
type Generator func() string

// New returns an RFC 9562 UUID v7 string. Time-sortable and globally unique,
// used as the batch run identifier.
func New() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Short returns a Generator producing base-36 IDs of the given length.
// Used where a UUID is too verbose, e.g. download directory suffixes.
func Short(length int) Generator {
	const alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	return func() string {
		buf := make([]byte, length)
		if _, err := rand.Read(buf); err != nil {
			panic("idgen: crypto/rand failed: " + err.Error())
		}
		out := make([]byte, length)
		for i := range out {
			out[i] = alphabet[int(buf[i])%len(alphabet)]
		}
		return string(out)
	}
}
