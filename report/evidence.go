package report

import (
	"fmt"
	"time"
)

// Evidence is a piece of supporting material attached to a finding.
type Evidence struct {
	// Type specifies the kind of evidence.
	Type EvidenceType `json:"type"`

	// Title is a brief description of the evidence.
	Title string `json:"title"`

	// Content contains the actual evidence data. Content is subject to
	// redaction before persistence; see package redact.
	Content string `json:"content"`

	// CapturedAt indicates when the evidence was collected.
	CapturedAt time.Time `json:"captured_at"`

	// Metadata contains additional context-specific information.
	Metadata map[string]any `json:"metadata,omitempty"`

	// Redacted is set once denylist redaction has been applied to the
	// evidence, so downstream consumers know the content is safe to log.
	Redacted bool `json:"redacted,omitempty"`
}

// EvidenceType represents the type of evidence collected.
type EvidenceType string

const (
	// EvidenceLog represents log output or traces.
	EvidenceLog EvidenceType = "log"

	// EvidenceDiff represents a code or configuration diff.
	EvidenceDiff EvidenceType = "diff"

	// EvidenceOutput represents captured job output.
	EvidenceOutput EvidenceType = "output"

	// EvidenceArtifact represents a reference to a stored artifact.
	EvidenceArtifact EvidenceType = "artifact"

	// EvidenceMetric represents a captured metric sample.
	EvidenceMetric EvidenceType = "metric"
)

// IsValid returns true if the evidence type is valid.
func (e EvidenceType) IsValid() bool {
	switch e {
	case EvidenceLog, EvidenceDiff, EvidenceOutput, EvidenceArtifact, EvidenceMetric:
		return true
	default:
		return false
	}
}

// String returns the string representation of the evidence type.
func (e EvidenceType) String() string {
	return string(e)
}

// Validate checks that the evidence has all required fields.
func (e *Evidence) Validate() error {
	if !e.Type.IsValid() {
		return fmt.Errorf("invalid evidence type %q", e.Type)
	}
	if e.Title == "" {
		return fmt.Errorf("title is required")
	}
	if e.CapturedAt.IsZero() {
		return fmt.Errorf("captured_at is required")
	}
	return nil
}
