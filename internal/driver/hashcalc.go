package driver

import (
	"crypto/sha256"
	"encoding/binary"

	"minicc/internal/version"
)

// Digest is a SHA-256 value, compatible with source.File.Hash.
type Digest [32]byte

// IsZero reports whether d was never computed.
func (d Digest) IsZero() bool { return d == Digest{} }

// CacheKey is H(schema || compiler version || module name || source hash).
// Anything that changes the emitted IR must feed into it.
func CacheKey(moduleName string, sourceHash Digest) Digest {
	h := sha256.New()
	var schema [2]byte
	binary.BigEndian.PutUint16(schema[:], diskCacheSchemaVersion)
	_, _ = h.Write(schema[:])
	_, _ = h.Write([]byte(version.Version))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(moduleName))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write(sourceHash[:])
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}
