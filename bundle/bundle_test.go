package bundle

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autopilot-ai/sdk"
	"github.com/autopilot-ai/sdk/job"
	"github.com/autopilot-ai/sdk/policy"
	"github.com/autopilot-ai/sdk/report"
)

func tenant() job.TenantContext {
	return job.TenantContext{TenantID: "acme", ProjectID: "storefront", Environment: "prod"}
}

func request(t *testing.T, jobType string, payload map[string]any) job.Request {
	t.Helper()
	req, err := job.New(context.Background(), jobType, tenant(), payload)
	require.NoError(t, err)
	return *req
}

func TestAssembler_Seal(t *testing.T) {
	a := New(tenant())
	require.NoError(t, a.Add(request(t, "scan.dependency", map[string]any{"repo": "r1"})))
	require.NoError(t, a.Add(request(t, "scan.container", map[string]any{"image": "i1"})))

	b, err := a.Seal(context.Background())
	require.NoError(t, err)

	assert.Equal(t, SchemaVersion, b.SchemaVersion)
	assert.NotEmpty(t, b.BundleID)
	assert.NotEmpty(t, b.TraceID)
	assert.False(t, b.CreatedAt.IsZero())

	// Requests sorted by job type ascending.
	assert.Equal(t, "scan.container", b.Requests[0].Type)
	assert.Equal(t, "scan.dependency", b.Requests[1].Type)

	require.NotNil(t, b.Canonicalization)
	assert.Equal(t, AlgorithmJSONLexicographic, b.Canonicalization.Algorithm)
	assert.Equal(t, HashAlgorithmSHA256, b.Canonicalization.HashAlgorithm)
	assert.Regexp(t, regexp.MustCompile(`^[a-f0-9]{64}$`), b.Canonicalization.Hash)
}

func TestFingerprint_IndependentOfConstructionOrder(t *testing.T) {
	r1 := request(t, "scan.dependency", map[string]any{"repo": "r1"})
	r2 := request(t, "scan.container", map[string]any{"image": "i1"})

	forward := &Bundle{
		SchemaVersion: SchemaVersion,
		BundleID:      "b-1",
		Tenant:        tenant(),
		TraceID:       "t-1",
		CreatedAt:     time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
		Requests:      []job.Request{r1, r2},
	}
	reversed := &Bundle{
		SchemaVersion: SchemaVersion,
		BundleID:      "b-1",
		Tenant:        tenant(),
		TraceID:       "t-1",
		CreatedAt:     time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
		Requests:      []job.Request{r2, r1},
	}

	assert.Equal(t, Fingerprint(forward).Hash, Fingerprint(reversed).Hash)
}

func TestFingerprint_CoversMetadata(t *testing.T) {
	base := &Bundle{
		SchemaVersion: SchemaVersion,
		BundleID:      "b-1",
		Tenant:        tenant(),
		CreatedAt:     time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
		Requests:      []job.Request{request(t, "scan.dependency", map[string]any{"repo": "r"})},
	}

	dryRun := *base
	dryRun.DryRun = true
	assert.NotEqual(t, Fingerprint(base).Hash, Fingerprint(&dryRun).Hash)

	otherTrace := *base
	otherTrace.TraceID = "different"
	assert.NotEqual(t, Fingerprint(base).Hash, Fingerprint(&otherTrace).Hash)
}

func TestVerify(t *testing.T) {
	a := New(tenant())
	require.NoError(t, a.Add(request(t, "scan.dependency", map[string]any{"repo": "r"})))
	b, err := a.Seal(context.Background())
	require.NoError(t, err)

	assert.NoError(t, Verify(b))

	tampered := *b
	reqs := make([]job.Request, len(b.Requests))
	copy(reqs, b.Requests)
	reqs[0].Payload = map[string]any{"repo": "evil"}
	tampered.Requests = reqs
	err = Verify(&tampered)
	require.Error(t, err)
	assert.True(t, errors.Is(err, sdk.ErrIntegrityMismatch))

	noRecord := *b
	noRecord.Canonicalization = nil
	assert.Error(t, Verify(&noRecord))

	badAlgo := *b
	badAlgo.Canonicalization = &Record{Algorithm: "other", HashAlgorithm: "md5", Hash: "x"}
	assert.Error(t, Verify(&badAlgo))
}

func TestAssembler_RejectsTenantMismatch(t *testing.T) {
	a := New(tenant())
	other, err := job.New(context.Background(), "scan.dependency",
		job.TenantContext{TenantID: "globex"}, map[string]any{"repo": "r"})
	require.NoError(t, err)

	err = a.Add(*other)
	require.Error(t, err)
	assert.True(t, errors.Is(err, &sdk.PipelineError{Kind: sdk.KindValidation}))
}

func TestAssembler_PolicyGate(t *testing.T) {
	engine, err := policy.NewEngine(policy.Rule{
		Name:       "no-prod",
		Expression: `tenant["environment"] != "prod"`,
	})
	require.NoError(t, err)

	a := New(tenant(), WithPolicyEngine(engine))
	err = a.Add(request(t, "scan.dependency", map[string]any{"repo": "r"}))
	require.Error(t, err)
	assert.True(t, errors.Is(err, sdk.ErrPolicyRejected))
}

func TestAssembler_DerivesMissingIdempotencyKey(t *testing.T) {
	req := request(t, "scan.dependency", map[string]any{"repo": "r"})
	req.IdempotencyKey = ""

	a := New(tenant())
	require.NoError(t, a.Add(req))

	b, err := a.Seal(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, b.Requests[0].IdempotencyKey)
	assert.Equal(t, b.Requests[0].DeriveIdempotencyKey(), b.Requests[0].IdempotencyKey)
}

func TestAssembler_ReportBundle(t *testing.T) {
	rep, err := report.NewAssembler("run-1", tenant()).
		AddFinding(report.Finding{
			ID:       "f-1",
			Title:    "finding",
			Severity: report.SeverityHigh,
		}).
		Assemble()
	require.NoError(t, err)

	a := New(tenant(), WithTraceID("trace-1"))
	require.NoError(t, a.AttachReport(rep))

	b, err := a.Seal(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "trace-1", b.TraceID)
	assert.NoError(t, Verify(b))
}

func TestBundle_Validate(t *testing.T) {
	a := New(tenant())
	require.NoError(t, a.Add(request(t, "scan.dependency", map[string]any{"repo": "r"})))
	valid, err := a.Seal(context.Background())
	require.NoError(t, err)

	tests := []struct {
		name    string
		mutate  func(*Bundle)
		wantErr bool
	}{
		{"valid bundle", func(b *Bundle) {}, false},
		{"missing schema version", func(b *Bundle) { b.SchemaVersion = "" }, true},
		{"missing bundle ID", func(b *Bundle) { b.BundleID = "" }, true},
		{"missing tenant", func(b *Bundle) { b.Tenant.TenantID = "" }, true},
		{"zero created at", func(b *Bundle) { b.CreatedAt = time.Time{} }, true},
		{"empty bundle", func(b *Bundle) { b.Requests = nil }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := *valid
			tt.mutate(&b)
			err := b.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSealEmptyBundleFails(t *testing.T) {
	_, err := New(tenant()).Seal(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, &sdk.PipelineError{Kind: sdk.KindValidation}))
}
