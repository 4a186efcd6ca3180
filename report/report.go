// Package report defines run reports, findings, and evidence for the
// Autopilot pipeline, and the assembler that produces reports with
// content-addressable dedup IDs.
package report

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/autopilot-ai/sdk/canonical"
	"github.com/autopilot-ai/sdk/job"
)

// Finding is a single observation produced by a pipeline run.
type Finding struct {
	// ID is a unique identifier for the finding.
	ID string `json:"id"`

	// Title is a brief summary of the finding.
	Title string `json:"title"`

	// Description provides detailed information about the finding.
	Description string `json:"description,omitempty"`

	// Severity indicates the severity level of the finding.
	Severity Severity `json:"severity"`

	// JobType identifies the job that produced the finding.
	JobType string `json:"job_type,omitempty"`

	// Evidence contains supporting evidence for the finding.
	Evidence []Evidence `json:"evidence,omitempty"`

	// Tags are arbitrary labels for categorization and filtering.
	Tags []string `json:"tags,omitempty"`
}

// Validate checks that the finding has all required fields.
func (f *Finding) Validate() error {
	if f.ID == "" {
		return fmt.Errorf("id is required")
	}
	if f.Title == "" {
		return fmt.Errorf("title is required")
	}
	if !f.Severity.IsValid() {
		return fmt.Errorf("invalid severity %q", f.Severity)
	}
	for i := range f.Evidence {
		if err := f.Evidence[i].Validate(); err != nil {
			return fmt.Errorf("evidence[%d]: %w", i, err)
		}
	}
	return nil
}

// Report summarizes the outcome of a pipeline run for a tenant.
type Report struct {
	// ReportID is a UUID unique to this report.
	ReportID string `json:"report_id"`

	// RunID identifies the pipeline run the report describes.
	RunID string `json:"run_id"`

	// Tenant is the tenant context the report is scoped to.
	Tenant job.TenantContext `json:"tenant"`

	// Status is the overall run outcome.
	Status Status `json:"status"`

	// Summary is a human-readable description of the run.
	Summary string `json:"summary,omitempty"`

	// Findings lists the observations produced by the run, ordered by
	// descending severity weight, then by ID.
	Findings []Finding `json:"findings,omitempty"`

	// SeverityCounts maps severity level to number of findings at that
	// level. Derived by the assembler.
	SeverityCounts map[string]int `json:"severity_counts,omitempty"`

	// GeneratedAt is the UTC timestamp the report was assembled.
	GeneratedAt time.Time `json:"generated_at"`

	// DedupID is a content-addressable identifier over the report's
	// semantic fields. Two reports describing the same run outcome carry
	// the same DedupID regardless of when they were assembled.
	DedupID string `json:"dedup_id"`
}

// Validate checks that the report has all required fields populated
// correctly.
func (r *Report) Validate() error {
	if r.ReportID == "" {
		return fmt.Errorf("report_id is required")
	}
	if r.RunID == "" {
		return fmt.Errorf("run_id is required")
	}
	if err := r.Tenant.Validate(); err != nil {
		return fmt.Errorf("tenant: %w", err)
	}
	if !r.Status.IsValid() {
		return fmt.Errorf("invalid status %q", r.Status)
	}
	for i := range r.Findings {
		if err := r.Findings[i].Validate(); err != nil {
			return fmt.Errorf("findings[%d]: %w", i, err)
		}
	}
	if r.GeneratedAt.IsZero() {
		return fmt.Errorf("generated_at is required")
	}
	return nil
}

// DeriveDedupID computes the content-addressable dedup ID over the report's
// semantic fields: run ID, tenant, status, and findings. Report ID and
// generation timestamp are excluded so that re-assembling the same outcome
// produces the same ID.
func (r *Report) DeriveDedupID() string {
	findings := make([]any, len(r.Findings))
	for i, f := range r.Findings {
		evidence := make([]any, len(f.Evidence))
		for j, e := range f.Evidence {
			evidence[j] = map[string]any{
				"type":    string(e.Type),
				"title":   e.Title,
				"content": e.Content,
			}
		}
		tags := make([]any, len(f.Tags))
		for j, tag := range f.Tags {
			tags[j] = tag
		}
		findings[i] = map[string]any{
			"id":       f.ID,
			"title":    f.Title,
			"severity": string(f.Severity),
			"job_type": f.JobType,
			"evidence": evidence,
			"tags":     tags,
		}
	}
	return canonical.ContentAddressableID(map[string]any{
		"run_id": r.RunID,
		"tenant": map[string]any{
			"tenant_id":   r.Tenant.TenantID,
			"project_id":  r.Tenant.ProjectID,
			"environment": r.Tenant.Environment,
		},
		"status":   string(r.Status),
		"findings": findings,
	}, "report")
}

// Assembler collects findings for a run and produces a finished report.
// The zero value is not usable; construct with NewAssembler.
type Assembler struct {
	runID    string
	tenant   job.TenantContext
	summary  string
	findings []Finding
	failed   bool
}

// NewAssembler creates a report assembler for the given run and tenant.
func NewAssembler(runID string, tenant job.TenantContext) *Assembler {
	return &Assembler{runID: runID, tenant: tenant}
}

// SetSummary records the human-readable run summary.
func (a *Assembler) SetSummary(summary string) *Assembler {
	a.summary = summary
	return a
}

// MarkFailed records that at least one job in the run failed. Without any
// findings the report status becomes failed; with findings it becomes
// partial.
func (a *Assembler) MarkFailed() *Assembler {
	a.failed = true
	return a
}

// AddFinding appends a finding to the report. A missing finding ID is
// filled with a fresh UUID.
func (a *Assembler) AddFinding(f Finding) *Assembler {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	a.findings = append(a.findings, f)
	return a
}

// Assemble produces the finished, validated report: findings sorted by
// descending severity weight (ties broken by ID), severity counts derived,
// and the dedup ID computed over the semantic fields.
func (a *Assembler) Assemble() (*Report, error) {
	findings := make([]Finding, len(a.findings))
	copy(findings, a.findings)
	sort.SliceStable(findings, func(i, j int) bool {
		if findings[i].Severity.Weight() != findings[j].Severity.Weight() {
			return findings[i].Severity.Weight() > findings[j].Severity.Weight()
		}
		return findings[i].ID < findings[j].ID
	})

	counts := make(map[string]int)
	for _, f := range findings {
		counts[string(f.Severity)]++
	}
	if len(counts) == 0 {
		counts = nil
	}

	status := StatusSucceeded
	if a.failed {
		status = StatusFailed
		if len(findings) > 0 {
			status = StatusPartial
		}
	}

	r := &Report{
		ReportID:       uuid.NewString(),
		RunID:          a.runID,
		Tenant:         a.tenant,
		Status:         status,
		Summary:        a.summary,
		Findings:       findings,
		SeverityCounts: counts,
		GeneratedAt:    time.Now().UTC(),
	}
	r.DedupID = r.DeriveDedupID()

	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}
