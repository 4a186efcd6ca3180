// Package event defines the pipeline event envelope: the immutable record
// of something that happened in the Autopilot pipeline, stamped with a
// canonical content hash and an idempotency key at construction time.
package event

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/autopilot-ai/sdk/canonical"
	"github.com/autopilot-ai/sdk/job"
)

// SchemaVersion is the current event envelope schema version.
const SchemaVersion = "1.0"

// Envelope is the immutable record of a pipeline occurrence.
//
// CanonicalHash covers the semantic fields (type, tenant, payload) and is
// computed once at construction; receivers can recompute it to verify the
// payload was not altered in transit. IdempotencyKey is the same digest and
// lets consumers drop redelivered events.
type Envelope struct {
	// EventID is a UUID unique to this emission.
	EventID string `json:"event_id"`

	// Type is the event type identifier (e.g., "job.requested").
	Type string `json:"type"`

	// SchemaVersion is the envelope schema version the event was built
	// against.
	SchemaVersion string `json:"schema_version"`

	// Tenant is the tenant context the event is scoped to.
	Tenant job.TenantContext `json:"tenant"`

	// OccurredAt is the UTC timestamp of the occurrence.
	OccurredAt time.Time `json:"occurred_at"`

	// Payload is the event body. Contents depend on Type.
	Payload map[string]any `json:"payload,omitempty"`

	// CanonicalHash is the stable hash of the event's semantic fields.
	CanonicalHash string `json:"canonical_hash"`

	// IdempotencyKey deduplicates redelivered events; equal to
	// CanonicalHash by construction.
	IdempotencyKey string `json:"idempotency_key"`
}

// New builds an event envelope for the given type, tenant, and payload,
// stamping it with a fresh UUID, the current UTC time, and the canonical
// content hash.
func New(eventType string, tenant job.TenantContext, payload map[string]any) (*Envelope, error) {
	e := &Envelope{
		EventID:       uuid.NewString(),
		Type:          eventType,
		SchemaVersion: SchemaVersion,
		Tenant:        tenant,
		OccurredAt:    time.Now().UTC(),
		Payload:       payload,
	}
	e.CanonicalHash = e.ContentHash()
	e.IdempotencyKey = e.CanonicalHash

	if err := e.Validate(); err != nil {
		return nil, err
	}
	return e, nil
}

// ContentHash computes the stable hash over the envelope's semantic fields:
// type, tenant, and payload. Event ID and timestamp are excluded so that
// redelivery and re-emission of the same occurrence hash identically.
func (e *Envelope) ContentHash() string {
	return canonical.StableHash(map[string]any{
		"type": e.Type,
		"tenant": map[string]any{
			"tenant_id":   e.Tenant.TenantID,
			"project_id":  e.Tenant.ProjectID,
			"environment": e.Tenant.Environment,
		},
		"payload": e.Payload,
	})
}

// Validate checks that the envelope has all required fields and that the
// recorded canonical hash matches the envelope contents.
func (e *Envelope) Validate() error {
	if e.EventID == "" {
		return fmt.Errorf("event_id is required")
	}
	if e.Type == "" {
		return fmt.Errorf("type is required")
	}
	if e.SchemaVersion == "" {
		return fmt.Errorf("schema_version is required")
	}
	if err := e.Tenant.Validate(); err != nil {
		return fmt.Errorf("tenant: %w", err)
	}
	if e.OccurredAt.IsZero() {
		return fmt.Errorf("occurred_at is required")
	}
	if e.CanonicalHash != e.ContentHash() {
		return fmt.Errorf("canonical_hash does not match envelope contents")
	}
	return nil
}
