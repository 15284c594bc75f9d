// AngelaMos | 2026
// security.go

package core

import (
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// Checksum streams r through BLAKE2b-256 and returns the hex digest along
// with the number of bytes read.
func Checksum(r io.Reader) (string, int64, error) {
	h, err := blake2b.New256(nil)
	if err != nil {
		return "", 0, fmt.Errorf("init blake2b: %w", err)
	}

	n, err := io.Copy(h, r)
	if err != nil {
		return "", n, fmt.Errorf("hash content: %w", err)
	}

	return hex.EncodeToString(h.Sum(nil)), n, nil
}

// HashIdentifier derives a stable, non-reversible token from a client
// identifier such as an IP address. The key scopes hashes to one
// deployment; an empty key is allowed.
func HashIdentifier(value, key string) string {
	if value == "" {
		return ""
	}

	var k []byte
	if key != "" {
		sum := blake2b.Sum256([]byte(key))
		k = sum[:]
	}

	h, err := blake2b.New256(k)
	if err != nil {
		sum := blake2b.Sum256([]byte(key + value))
		return hex.EncodeToString(sum[:])
	}
	h.Write([]byte(strings.TrimSpace(value)))

	return hex.EncodeToString(h.Sum(nil))
}
