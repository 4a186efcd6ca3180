// Package job defines the job request contract for the Autopilot pipeline
// and the builder that produces well-formed, idempotency-keyed requests.
package job

import (
	"fmt"
	"time"

	"github.com/autopilot-ai/sdk/idempotency"
)

// TenantContext identifies the tenant on whose behalf a request is made.
// Every payload in the pipeline is scoped to a tenant context.
type TenantContext struct {
	// TenantID is the unique tenant identifier.
	TenantID string `json:"tenant_id"`

	// ProjectID scopes the request to a project within the tenant.
	ProjectID string `json:"project_id,omitempty"`

	// Environment is the deployment environment the request targets
	// (e.g., "prod", "staging").
	Environment string `json:"environment,omitempty"`
}

// Validate checks that the tenant context carries the required fields.
func (t TenantContext) Validate() error {
	if t.TenantID == "" {
		return fmt.Errorf("tenant_id is required")
	}
	return nil
}

// asMap returns the tenant context as a plain mapping for canonical hashing.
// All fields are always present so the projection shape never varies.
func (t TenantContext) asMap() map[string]any {
	return map[string]any{
		"tenant_id":   t.TenantID,
		"project_id":  t.ProjectID,
		"environment": t.Environment,
	}
}

// Policy bounds how the executor may run a job. Policy participates in
// idempotency-key derivation: two requests with different policies are
// different requests.
type Policy struct {
	// MaxDuration is the longest the job may run. Zero means the executor
	// default applies.
	MaxDuration time.Duration `json:"max_duration,omitempty"`

	// MaxAttempts is the maximum number of execution attempts, including
	// the first. Zero means the executor default applies.
	MaxAttempts int `json:"max_attempts,omitempty"`

	// DryRun requests a simulated run with no side effects.
	DryRun bool `json:"dry_run,omitempty"`

	// RequireApproval holds the job for manual approval before execution.
	RequireApproval bool `json:"require_approval,omitempty"`
}

// Validate checks that the policy is internally consistent.
func (p Policy) Validate() error {
	if p.MaxDuration < 0 {
		return fmt.Errorf("max_duration must not be negative, got %v", p.MaxDuration)
	}
	if p.MaxAttempts < 0 {
		return fmt.Errorf("max_attempts must not be negative, got %d", p.MaxAttempts)
	}
	return nil
}

// asMap returns the policy as a plain mapping for canonical hashing.
// Durations are projected as integral milliseconds so the hash input never
// depends on Go's duration formatting.
func (p Policy) asMap() map[string]any {
	return map[string]any{
		"max_duration_ms":  p.MaxDuration.Milliseconds(),
		"max_attempts":     p.MaxAttempts,
		"dry_run":          p.DryRun,
		"require_approval": p.RequireApproval,
	}
}

// Request is a single job request submitted to the Autopilot pipeline.
//
// RequestID, RequestedAt, TraceID, and SpanID vary between resubmissions of
// the same logical request and are excluded from idempotency-key
// derivation. Everything else is part of the request's identity.
type Request struct {
	// RequestID is a UUID unique to this submission.
	RequestID string `json:"request_id"`

	// Type is the job type identifier (e.g., "scan.dependency").
	Type string `json:"type"`

	// Tenant is the tenant context the request is scoped to.
	Tenant TenantContext `json:"tenant"`

	// Payload is the job input. Its schema depends on Type; see package
	// schema for the built-in payload contracts.
	Payload map[string]any `json:"payload"`

	// Policy bounds execution of the job.
	Policy Policy `json:"policy"`

	// IdempotencyKey is the stable hash of the request's semantic
	// projection. Populated by the builder; see DeriveIdempotencyKey.
	IdempotencyKey string `json:"idempotency_key"`

	// TraceID is the distributed tracing trace ID for observability.
	TraceID string `json:"trace_id,omitempty"`

	// SpanID is the distributed tracing span ID for observability.
	SpanID string `json:"span_id,omitempty"`

	// RequestedAt is the UTC submission timestamp.
	RequestedAt time.Time `json:"requested_at"`
}

// Validate checks that the request has all required fields populated
// correctly. Returns an error describing the first validation failure.
func (r *Request) Validate() error {
	if r.RequestID == "" {
		return fmt.Errorf("request_id is required")
	}
	if r.Type == "" {
		return fmt.Errorf("type is required")
	}
	if err := r.Tenant.Validate(); err != nil {
		return fmt.Errorf("tenant: %w", err)
	}
	if err := r.Policy.Validate(); err != nil {
		return fmt.Errorf("policy: %w", err)
	}
	if r.RequestedAt.IsZero() {
		return fmt.Errorf("requested_at is required")
	}
	if r.IdempotencyKey != "" && r.IdempotencyKey != r.DeriveIdempotencyKey() {
		return fmt.Errorf("idempotency_key does not match request contents")
	}
	return nil
}

// Projection returns the idempotency projection of the request: the job
// type, tenant context, payload, and policy, with all resubmission-variant
// fields excluded.
func (r *Request) Projection() idempotency.Projection {
	return idempotency.Projection{
		JobType: r.Type,
		Tenant:  r.Tenant.asMap(),
		Payload: r.Payload,
		Policy:  r.Policy.asMap(),
	}
}

// DeriveIdempotencyKey computes the idempotency key from the request's
// semantic projection. It does not modify the request.
func (r *Request) DeriveIdempotencyKey() string {
	return idempotency.Key(r.Projection())
}
