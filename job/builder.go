package job

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
)

// Option customizes a request produced by New.
type Option func(*Request)

// WithPolicy sets the execution policy for the request.
func WithPolicy(p Policy) Option {
	return func(r *Request) {
		r.Policy = p
	}
}

// WithRequestID overrides the auto-generated request ID. Intended for
// callers that allocate submission IDs upstream.
func WithRequestID(id string) Option {
	return func(r *Request) {
		r.RequestID = id
	}
}

// WithRequestedAt overrides the submission timestamp. Intended for tests
// and for replaying recorded submissions.
func WithRequestedAt(ts time.Time) Option {
	return func(r *Request) {
		r.RequestedAt = ts.UTC()
	}
}

// New builds a validated job request. It fills in a UUID request ID, the
// current UTC timestamp, trace and span IDs from any OpenTelemetry span
// recorded on ctx, and the derived idempotency key.
//
// The trace fields are observability metadata only: they never participate
// in idempotency-key derivation, so the same logical request submitted
// under two different traces still deduplicates downstream.
func New(ctx context.Context, jobType string, tenant TenantContext, payload map[string]any, opts ...Option) (*Request, error) {
	r := &Request{
		RequestID:   uuid.NewString(),
		Type:        jobType,
		Tenant:      tenant,
		Payload:     payload,
		RequestedAt: time.Now().UTC(),
	}

	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		r.TraceID = sc.TraceID().String()
		r.SpanID = sc.SpanID().String()
	}

	for _, opt := range opts {
		opt(r)
	}

	r.IdempotencyKey = r.DeriveIdempotencyKey()

	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}
