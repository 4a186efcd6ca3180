// Package artifact lays out sealed bundles and reports on disk under a
// deterministic, content-addressed directory structure, so re-writing the
// same artifact is idempotent and artifacts from different tenants never
// collide.
package artifact

import (
	"path/filepath"

	"github.com/autopilot-ai/sdk/bundle"
	"github.com/autopilot-ai/sdk/report"
)

// Layout computes artifact paths relative to a root directory. Path
// computation is pure; only Writer touches the filesystem.
type Layout struct {
	// Root is the artifact root directory.
	Root string
}

// BundlePath returns the path for a sealed bundle:
// <root>/bundles/<tenant>/bundle-<hash16>.json, where hash16 is the first
// sixteen characters of the bundle's canonicalization hash.
func (l Layout) BundlePath(b *bundle.Bundle) string {
	name := "bundle-" + b.BundleID
	if b.Canonicalization != nil && len(b.Canonicalization.Hash) >= 16 {
		name = "bundle-" + b.Canonicalization.Hash[:16]
	}
	return filepath.Join(l.Root, "bundles", b.Tenant.TenantID, name+".json")
}

// ReportPath returns the path for a report:
// <root>/reports/<tenant>/<dedup-id>.json. The dedup ID is already
// content-addressed, so identical report contents land on the same path.
func (l Layout) ReportPath(r *report.Report) string {
	name := r.DedupID
	if name == "" {
		name = "report-" + r.ReportID
	}
	return filepath.Join(l.Root, "reports", r.Tenant.TenantID, name+".json")
}
