package job

import (
	"context"
	"testing"
	"time"

	"go.opentelemetry.io/otel/trace"
)

func validTenant() TenantContext {
	return TenantContext{
		TenantID:    "acme",
		ProjectID:   "storefront",
		Environment: "prod",
	}
}

func validPayload() map[string]any {
	return map[string]any{
		"repo":   "git://acme/storefront",
		"branch": "main",
	}
}

func TestNew(t *testing.T) {
	before := time.Now().UTC()
	req, err := New(context.Background(), "scan.dependency", validTenant(), validPayload())
	after := time.Now().UTC()

	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if req.RequestID == "" {
		t.Error("New() RequestID is empty, want auto-generated UUID")
	}
	if req.Type != "scan.dependency" {
		t.Errorf("New() Type = %v, want scan.dependency", req.Type)
	}
	if req.Tenant != validTenant() {
		t.Errorf("New() Tenant = %+v, want %+v", req.Tenant, validTenant())
	}
	if req.RequestedAt.Before(before) || req.RequestedAt.After(after) {
		t.Error("New() RequestedAt not in expected range")
	}
	if req.IdempotencyKey != req.DeriveIdempotencyKey() {
		t.Error("New() IdempotencyKey does not match derived key")
	}
	if req.TraceID != "" {
		t.Errorf("New() TraceID = %v, want empty without a recorded span", req.TraceID)
	}
}

func TestNew_Options(t *testing.T) {
	ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	policy := Policy{MaxAttempts: 5, DryRun: true}

	req, err := New(context.Background(), "scan.container", validTenant(), validPayload(),
		WithRequestID("req-123"),
		WithRequestedAt(ts),
		WithPolicy(policy))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if req.RequestID != "req-123" {
		t.Errorf("WithRequestID not applied, got %v", req.RequestID)
	}
	if !req.RequestedAt.Equal(ts) {
		t.Errorf("WithRequestedAt not applied, got %v", req.RequestedAt)
	}
	if req.Policy != policy {
		t.Errorf("WithPolicy not applied, got %+v", req.Policy)
	}
}

func TestNew_ExtractsSpanContext(t *testing.T) {
	traceID := trace.TraceID{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09, 0x0a, 0x0b, 0x0c, 0x0d, 0x0e, 0x0f, 0x10}
	spanID := trace.SpanID{0x11, 0x12, 0x13, 0x14, 0x15, 0x16, 0x17, 0x18}
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: traceID,
		SpanID:  spanID,
	})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	req, err := New(ctx, "scan.dependency", validTenant(), validPayload())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if req.TraceID != traceID.String() {
		t.Errorf("New() TraceID = %v, want %v", req.TraceID, traceID.String())
	}
	if req.SpanID != spanID.String() {
		t.Errorf("New() SpanID = %v, want %v", req.SpanID, spanID.String())
	}
}

func TestIdempotencyKey_IgnoresResubmissionFields(t *testing.T) {
	first, err := New(context.Background(), "scan.dependency", validTenant(), validPayload(),
		WithRequestedAt(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	second, err := New(context.Background(), "scan.dependency", validTenant(), validPayload(),
		WithRequestedAt(time.Date(2025, 1, 2, 9, 30, 0, 0, time.UTC)))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if first.RequestID == second.RequestID {
		t.Error("distinct submissions should have distinct request IDs")
	}
	if first.IdempotencyKey != second.IdempotencyKey {
		t.Errorf("idempotency keys differ for identical logical requests:\n%s\n%s",
			first.IdempotencyKey, second.IdempotencyKey)
	}
}

func TestIdempotencyKey_ReflectsSemanticFields(t *testing.T) {
	base, _ := New(context.Background(), "scan.dependency", validTenant(), validPayload())

	otherPayload, _ := New(context.Background(), "scan.dependency", validTenant(),
		map[string]any{"repo": "git://acme/storefront", "branch": "develop"})
	if base.IdempotencyKey == otherPayload.IdempotencyKey {
		t.Error("payload change should change the idempotency key")
	}

	otherPolicy, _ := New(context.Background(), "scan.dependency", validTenant(), validPayload(),
		WithPolicy(Policy{DryRun: true}))
	if base.IdempotencyKey == otherPolicy.IdempotencyKey {
		t.Error("policy change should change the idempotency key")
	}
}

func TestRequest_Validate(t *testing.T) {
	valid, err := New(context.Background(), "scan.dependency", validTenant(), validPayload())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	tests := []struct {
		name    string
		mutate  func(*Request)
		wantErr bool
	}{
		{"valid request", func(r *Request) {}, false},
		{"missing request ID", func(r *Request) { r.RequestID = "" }, true},
		{"missing type", func(r *Request) { r.Type = "" }, true},
		{"missing tenant ID", func(r *Request) { r.Tenant.TenantID = "" }, true},
		{"negative max attempts", func(r *Request) { r.Policy.MaxAttempts = -1 }, true},
		{"zero requested at", func(r *Request) { r.RequestedAt = time.Time{} }, true},
		{"stale idempotency key", func(r *Request) { r.Payload = map[string]any{"changed": true} }, true},
		{"empty idempotency key tolerated", func(r *Request) { r.IdempotencyKey = "" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := *valid
			tt.mutate(&r)
			err := r.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestPolicy_Validate(t *testing.T) {
	if err := (Policy{MaxDuration: -time.Second}).Validate(); err == nil {
		t.Error("negative MaxDuration should fail validation")
	}
	if err := (Policy{MaxDuration: time.Minute, MaxAttempts: 3}).Validate(); err != nil {
		t.Errorf("valid policy failed validation: %v", err)
	}
}
