package bundle

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/autopilot-ai/sdk"
	"github.com/autopilot-ai/sdk/job"
	"github.com/autopilot-ai/sdk/policy"
	"github.com/autopilot-ai/sdk/report"
)

// AssemblerOption customizes bundle assembly.
type AssemblerOption func(*Assembler)

// WithDryRun marks the sealed bundle for simulated execution.
func WithDryRun() AssemblerOption {
	return func(a *Assembler) {
		a.dryRun = true
	}
}

// WithTraceID overrides the trace ID that would otherwise be taken from the
// sealing context's span or freshly generated.
func WithTraceID(traceID string) AssemblerOption {
	return func(a *Assembler) {
		a.traceID = traceID
	}
}

// WithPolicyEngine attaches an admission policy engine; every request added
// to the bundle must pass it.
func WithPolicyEngine(engine *policy.Engine) AssemblerOption {
	return func(a *Assembler) {
		a.engine = engine
	}
}

// Assembler accumulates job requests (or a report) and seals them into a
// fingerprinted bundle. Construct with New; an Assembler is not safe for
// concurrent use.
type Assembler struct {
	tenant   job.TenantContext
	dryRun   bool
	traceID  string
	engine   *policy.Engine
	requests []job.Request
	report   *report.Report
}

// New creates a bundle assembler for the given tenant.
func New(tenant job.TenantContext, opts ...AssemblerOption) *Assembler {
	a := &Assembler{tenant: tenant}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Add validates a request, runs it through the admission policy if one is
// attached, derives a missing idempotency key, and queues it for sealing.
func (a *Assembler) Add(req job.Request) error {
	if req.IdempotencyKey == "" {
		req.IdempotencyKey = req.DeriveIdempotencyKey()
	}
	if err := req.Validate(); err != nil {
		return sdk.NewValidationError("Assembler.Add", err)
	}
	if req.Tenant.TenantID != a.tenant.TenantID {
		return sdk.NewValidationError("Assembler.Add",
			fmt.Errorf("request tenant %q does not match bundle tenant %q",
				req.Tenant.TenantID, a.tenant.TenantID))
	}
	if err := a.engine.Check(&req); err != nil {
		return err
	}
	a.requests = append(a.requests, req)
	return nil
}

// AttachReport queues a report body for sealing. A bundle carries either
// requests or a report, never both.
func (a *Assembler) AttachReport(r *report.Report) error {
	if err := r.Validate(); err != nil {
		return sdk.NewValidationError("Assembler.AttachReport", err)
	}
	a.report = r
	return nil
}

// Seal produces the finished bundle: requests sorted into canonical order,
// metadata stamped, and the canonicalization record computed over the
// result. The trace ID comes from an OpenTelemetry span recorded on ctx
// when present, otherwise a fresh UUID.
func (a *Assembler) Seal(ctx context.Context) (*Bundle, error) {
	traceID := a.traceID
	if traceID == "" {
		if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
			traceID = sc.TraceID().String()
		} else {
			traceID = uuid.NewString()
		}
	}

	requests := make([]job.Request, len(a.requests))
	copy(requests, a.requests)
	sortRequests(requests)

	b := &Bundle{
		SchemaVersion: SchemaVersion,
		BundleID:      uuid.NewString(),
		Tenant:        a.tenant,
		TraceID:       traceID,
		CreatedAt:     time.Now().UTC(),
		DryRun:        a.dryRun,
		Requests:      requests,
		Report:        a.report,
	}

	if err := b.Validate(); err != nil {
		return nil, sdk.NewValidationError("Assembler.Seal", err)
	}

	record := Fingerprint(b)
	b.Canonicalization = &record
	return b, nil
}
