package report

import "fmt"

// Severity indicates the severity level of a finding.
type Severity string

const (
	// SeverityCritical indicates an issue requiring immediate attention.
	SeverityCritical Severity = "critical"

	// SeverityHigh indicates a serious issue.
	SeverityHigh Severity = "high"

	// SeverityMedium indicates a moderate issue.
	SeverityMedium Severity = "medium"

	// SeverityLow indicates a minor issue.
	SeverityLow Severity = "low"

	// SeverityInfo indicates an informational observation.
	SeverityInfo Severity = "info"
)

// IsValid returns true if the severity is one of the defined levels.
func (s Severity) IsValid() bool {
	switch s {
	case SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow, SeverityInfo:
		return true
	default:
		return false
	}
}

// String returns the string representation of the severity.
func (s Severity) String() string {
	return string(s)
}

// Weight returns a numeric weight for ordering findings by severity,
// higher meaning more severe.
func (s Severity) Weight() int {
	switch s {
	case SeverityCritical:
		return 5
	case SeverityHigh:
		return 4
	case SeverityMedium:
		return 3
	case SeverityLow:
		return 2
	case SeverityInfo:
		return 1
	default:
		return 0
	}
}

// ParseSeverity converts a string into a Severity, returning an error for
// unknown values.
func ParseSeverity(s string) (Severity, error) {
	sev := Severity(s)
	if !sev.IsValid() {
		return "", fmt.Errorf("unknown severity %q", s)
	}
	return sev, nil
}

// Status indicates the overall outcome of a pipeline run.
type Status string

const (
	// StatusSucceeded indicates the run completed with all jobs successful.
	StatusSucceeded Status = "succeeded"

	// StatusPartial indicates the run completed with some jobs failed.
	StatusPartial Status = "partial"

	// StatusFailed indicates the run failed.
	StatusFailed Status = "failed"
)

// IsValid returns true if the status is one of the defined outcomes.
func (s Status) IsValid() bool {
	switch s {
	case StatusSucceeded, StatusPartial, StatusFailed:
		return true
	default:
		return false
	}
}

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}
