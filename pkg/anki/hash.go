package anki

import (
	"crypto/sha1"
	"encoding/hex"
	"strconv"
)

// Digest returns the lowercase-hex SHA-1 of the message's UTF-8 bytes.
// Anki's duplicate and identity logic depends on byte-identical digests,
// so the output must match SHA-1 exactly.
func Digest(message string) string {
	sum := sha1.Sum([]byte(message))
	return hex.EncodeToString(sum[:])
}

// Checksum is the 32-bit dedup index Anki stores per note: the first eight
// hex characters of the digest reinterpreted as a base-16 integer.
func Checksum(message string) uint32 {
	value, err := strconv.ParseUint(Digest(message)[:8], 16, 32)
	if err != nil {
		// Digest always yields hex characters.
		return 0
	}
	return uint32(value)
}
