package canonical

import (
	"crypto/sha256"
	"encoding/hex"
)

// ShortHashLen is the length in hex characters of a short hash. A short hash
// is always a prefix of the full stable hash for the same value.
const ShortHashLen = 16

// StableHash returns the lowercase hex SHA-256 digest of the canonical
// encoding of v. Two values hash identically exactly when they are
// structurally equal under DeepEqual (collisions aside), which makes the
// result safe to use as a content-addressable identifier, idempotency key,
// or dedup ID.
func StableHash(v any) string {
	sum := sha256.Sum256([]byte(Canonicalize(v)))
	return hex.EncodeToString(sum[:])
}

// ShortHash returns the first ShortHashLen characters of StableHash(v).
// Sixteen hex characters (64 bits) are enough to make accidental collisions
// negligible at pipeline scale while keeping identifiers readable in logs.
func ShortHash(v any) string {
	return StableHash(v)[:ShortHashLen]
}

// ContentAddressableID builds a display-safe identifier from a value's short
// hash. With a non-empty prefix the result is "prefix-<short>", otherwise
// the bare short hash.
//
//	ContentAddressableID(payload, "bundle") // "bundle-3f2a9c01d4e5b6a7"
func ContentAddressableID(v any, prefix string) string {
	short := ShortHash(v)
	if prefix == "" {
		return short
	}
	return prefix + "-" + short
}
