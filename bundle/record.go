package bundle

// Canonicalization algorithm identifiers. A Record names the exact procedure
// used to fingerprint a bundle so any receiver can re-run it.
const (
	// AlgorithmJSONLexicographic identifies canonical JSON encoding with
	// byte-wise lexicographic key ordering (see package canonical).
	AlgorithmJSONLexicographic = "json-lexicographic"

	// HashAlgorithmSHA256 identifies the SHA-256 digest over the UTF-8
	// bytes of the canonical encoding.
	HashAlgorithmSHA256 = "sha256"
)

// Record is the self-describing integrity fingerprint attached to an
// outbound bundle. It names the canonicalization and hash algorithms so the
// fingerprint is checkable by any receiver that re-runs the same procedure
// over the same fields.
type Record struct {
	// Algorithm is the canonicalization algorithm identifier.
	Algorithm string `json:"algorithm"`

	// HashAlgorithm is the digest algorithm identifier.
	HashAlgorithm string `json:"hash_algorithm"`

	// Hash is the 64-character lowercase hex digest of the bundle's
	// canonical projection.
	Hash string `json:"hash"`
}
