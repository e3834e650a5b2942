package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// DomainDefinition is the domain prefix for structural definition
// checksums. The version suffix enables future algorithm migration
// without silent collisions.
const DomainDefinition = "ffikit/definition/v1"

// checksumHexLen is the number of hex characters embedded in derived
// FFI symbol names. 64 bits of SHA-256 is ample to make two structurally
// different snapshots of one hand-authored interface fail symbol
// resolution instead of silently invoking mismatched code.
const checksumHexLen = 16

// hashWithDomain computes SHA-256 with domain separation.
// Format: SHA256(domain + 0x00 + data). The null byte separator prevents
// domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// checksummable is implemented by definitions whose derived FFI symbol
// names embed a checksum. The returned snapshot covers the definition's
// logical content only and must not include any derived FFI data: the
// FFI symbol name embeds this very checksum.
type checksummable interface {
	checksumContent() IRObject
}

// Checksum computes the structural checksum suffix for a definition.
// Identical logical content yields an identical checksum regardless of
// which front end produced it; any semantic change to name, arguments or
// attributes changes it.
func Checksum(def checksummable) (string, error) {
	canonical, err := MarshalCanonical(def.checksumContent())
	if err != nil {
		return "", fmt.Errorf("checksum: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainDefinition, canonical)[:checksumHexLen], nil
}

// MustChecksum is like Checksum but panics on error. Use only in tests
// or when inputs are known to be valid.
func MustChecksum(def checksummable) string {
	sum, err := Checksum(def)
	if err != nil {
		panic(err)
	}
	return sum
}
