// Package bundle defines the outbound envelope grouping job requests or a
// report with tenant and trace metadata, and the canonicalization record
// that makes the bundle's integrity checkable by any receiver.
package bundle

import (
	"fmt"
	"sort"
	"time"

	"github.com/autopilot-ai/sdk"
	"github.com/autopilot-ai/sdk/canonical"
	"github.com/autopilot-ai/sdk/job"
	"github.com/autopilot-ai/sdk/report"
)

// SchemaVersion is the current bundle schema version.
const SchemaVersion = "1.0"

// Bundle is the outbound envelope transmitted to the downstream execution
// system. A bundle carries either a batch of job requests or a report,
// together with tenant and trace metadata and an integrity fingerprint.
type Bundle struct {
	// SchemaVersion is the bundle schema version.
	SchemaVersion string `json:"schema_version"`

	// BundleID is a UUID unique to this bundle.
	BundleID string `json:"bundle_id"`

	// Tenant is the tenant context the bundle is scoped to.
	Tenant job.TenantContext `json:"tenant"`

	// TraceID is the distributed tracing trace ID for observability.
	TraceID string `json:"trace_id,omitempty"`

	// CreatedAt is the UTC timestamp the bundle was sealed.
	CreatedAt time.Time `json:"created_at"`

	// DryRun requests simulated execution of every request in the bundle.
	DryRun bool `json:"dry_run,omitempty"`

	// Requests is the batch of job requests, sorted by job type ascending
	// (ties broken by idempotency key) at seal time.
	Requests []job.Request `json:"requests,omitempty"`

	// Report is the report body, for report-carrying bundles.
	Report *report.Report `json:"report,omitempty"`

	// Canonicalization is the integrity fingerprint over the sealed
	// bundle. It is excluded from its own hash input.
	Canonicalization *Record `json:"canonicalization,omitempty"`
}

// Fingerprint computes the canonicalization record for the bundle's current
// contents. Requests are sorted into canonical order before hashing, so the
// fingerprint never depends on construction order — the bundle-level mirror
// of the mapping-key-sort invariant.
func Fingerprint(b *Bundle) Record {
	return Record{
		Algorithm:     AlgorithmJSONLexicographic,
		HashAlgorithm: HashAlgorithmSHA256,
		Hash:          canonical.StableHash(projection(b)),
	}
}

// Verify recomputes the bundle's fingerprint and compares it against the
// attached canonicalization record. It is the receiver-side integrity
// check.
func Verify(b *Bundle) error {
	if b.Canonicalization == nil {
		return sdk.NewIntegrityError("bundle.Verify", fmt.Errorf("bundle has no canonicalization record"))
	}
	if b.Canonicalization.Algorithm != AlgorithmJSONLexicographic ||
		b.Canonicalization.HashAlgorithm != HashAlgorithmSHA256 {
		return sdk.NewIntegrityError("bundle.Verify",
			fmt.Errorf("unsupported canonicalization %s/%s",
				b.Canonicalization.Algorithm, b.Canonicalization.HashAlgorithm))
	}
	if got := Fingerprint(b).Hash; got != b.Canonicalization.Hash {
		return sdk.NewIntegrityError("bundle.Verify", sdk.ErrIntegrityMismatch).
			WithContext(map[string]any{
				"recorded": b.Canonicalization.Hash,
				"computed": got,
			})
	}
	return nil
}

// Validate checks that the bundle has all required fields and carries
// either requests or a report, not both.
func (b *Bundle) Validate() error {
	if b.SchemaVersion == "" {
		return fmt.Errorf("schema_version is required")
	}
	if b.BundleID == "" {
		return fmt.Errorf("bundle_id is required")
	}
	if err := b.Tenant.Validate(); err != nil {
		return fmt.Errorf("tenant: %w", err)
	}
	if b.CreatedAt.IsZero() {
		return fmt.Errorf("created_at is required")
	}
	if len(b.Requests) == 0 && b.Report == nil {
		return fmt.Errorf("bundle must carry requests or a report")
	}
	if len(b.Requests) > 0 && b.Report != nil {
		return fmt.Errorf("bundle must not carry both requests and a report")
	}
	for i := range b.Requests {
		if err := b.Requests[i].Validate(); err != nil {
			return fmt.Errorf("requests[%d]: %w", i, err)
		}
	}
	if b.Report != nil {
		if err := b.Report.Validate(); err != nil {
			return fmt.Errorf("report: %w", err)
		}
	}
	return nil
}

// projection builds the canonical hash input for the bundle: every field
// except the canonicalization record itself, with requests in canonical
// order.
func projection(b *Bundle) map[string]any {
	requests := make([]job.Request, len(b.Requests))
	copy(requests, b.Requests)
	sortRequests(requests)

	reqMaps := make([]any, len(requests))
	for i, r := range requests {
		reqMaps[i] = requestMap(&r)
	}

	p := map[string]any{
		"schema_version": b.SchemaVersion,
		"bundle_id":      b.BundleID,
		"tenant":         tenantMap(b.Tenant),
		"trace_id":       b.TraceID,
		"created_at":     b.CreatedAt.UTC().Format(time.RFC3339Nano),
		"dry_run":        b.DryRun,
		"requests":       reqMaps,
	}
	if b.Report != nil {
		p["report"] = map[string]any{
			"report_id": b.Report.ReportID,
			"run_id":    b.Report.RunID,
			"status":    string(b.Report.Status),
			"dedup_id":  b.Report.DedupID,
		}
	}
	return p
}

func requestMap(r *job.Request) map[string]any {
	proj := r.Projection()
	return map[string]any{
		"request_id":      r.RequestID,
		"type":            proj.JobType,
		"tenant":          proj.Tenant,
		"payload":         proj.Payload,
		"policy":          proj.Policy,
		"idempotency_key": r.IdempotencyKey,
		"requested_at":    r.RequestedAt.UTC().Format(time.RFC3339Nano),
	}
}

func tenantMap(t job.TenantContext) map[string]any {
	return map[string]any{
		"tenant_id":   t.TenantID,
		"project_id":  t.ProjectID,
		"environment": t.Environment,
	}
}

// sortRequests orders requests by job type ascending, ties broken by
// idempotency key, so construction order never affects the fingerprint.
func sortRequests(requests []job.Request) {
	sort.SliceStable(requests, func(i, j int) bool {
		if requests[i].Type != requests[j].Type {
			return requests[i].Type < requests[j].Type
		}
		return requests[i].IdempotencyKey < requests[j].IdempotencyKey
	})
}
