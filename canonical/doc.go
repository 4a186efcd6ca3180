// Package canonical provides deterministic JSON canonicalization and
// content-addressable hashing for pipeline payloads.
//
// Every durable identifier in the Autopilot SDK — idempotency keys, report
// dedup IDs, bundle integrity fingerprints — is derived from the canonical
// form produced here. The canonical form is the most compact valid JSON
// encoding of a value with mapping keys sorted in byte-wise ascending order,
// so two structurally equal values always serialize to the same bytes
// regardless of how their mappings were constructed.
//
// All functions in this package are pure and safe for concurrent use. Inputs
// are never mutated; transformation helpers such as SortKeys and
// RemoveUndefined always return new structures.
//
// # Value classification
//
// Inputs are classified into an explicit set of kinds (see Kind) before
// encoding. Anything outside the JSON-compatible kinds is classified as
// KindUnsupported and encodes as the literal null. This mirrors the behavior
// of dynamic-language serializers while keeping the fallback a visible,
// testable branch rather than an implicit default. Callers that need strict
// input validation should apply schema validation before canonicalizing;
// this package is total over its input domain and never returns an error.
package canonical
