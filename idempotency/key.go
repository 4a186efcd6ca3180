// Package idempotency derives stable idempotency keys for job requests.
//
// An idempotency key is a SHA-256 digest over the semantically relevant
// projection of a request: job type, tenant context, payload, and policy.
// Fields that vary between otherwise-identical resubmissions — request IDs,
// timestamps, trace context — are deliberately excluded, so a client retry
// of the same logical request always produces the same key and the
// downstream queue can deduplicate it.
package idempotency

import (
	"github.com/autopilot-ai/sdk/canonical"
)

// Projection is the normalized subset of a job request that participates in
// idempotency-key derivation. Build it from already-validated request
// fields; the key is stable under any reordering of the mapping entries.
type Projection struct {
	// JobType is the job type identifier (e.g., "scan.dependency").
	JobType string

	// Tenant holds the tenant context fields (tenant ID, project ID,
	// environment) as a plain mapping.
	Tenant map[string]any

	// Payload is the job payload. Payload variation between logically
	// distinct requests is part of the request's identity and is included
	// in the key on purpose.
	Payload map[string]any

	// Policy holds the execution policy fields as a plain mapping.
	Policy map[string]any
}

// Key computes the idempotency key for a projection: the stable hash of its
// canonical encoding. The result is a 64-character lowercase hex string.
func Key(p Projection) string {
	return canonical.StableHash(map[string]any{
		"job_type": p.JobType,
		"tenant":   p.Tenant,
		"payload":  p.Payload,
		"policy":   p.Policy,
	})
}

// ShortKey computes the truncated form of Key, suitable for display and log
// correlation. It is always a prefix of Key for the same projection.
func ShortKey(p Projection) string {
	return Key(p)[:canonical.ShortHashLen]
}
