package artifact

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/autopilot-ai/sdk"
	"github.com/autopilot-ai/sdk/bundle"
	"github.com/autopilot-ai/sdk/report"
)

// Writer persists bundles and reports under a Layout. It is the only piece
// of the SDK that performs file I/O.
type Writer struct {
	layout Layout
	logger *slog.Logger
}

// NewWriter creates a writer rooted at the given directory. If logger is
// nil, slog.Default() is used.
func NewWriter(root string, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{layout: Layout{Root: root}, logger: logger}
}

// WriteBundle verifies the bundle's integrity record, then writes it as
// indented JSON at its content-addressed path, creating directories as
// needed. Returns the path written.
func (w *Writer) WriteBundle(b *bundle.Bundle) (string, error) {
	if err := bundle.Verify(b); err != nil {
		return "", err
	}
	path := w.layout.BundlePath(b)
	if err := w.writeJSON(path, b); err != nil {
		return "", err
	}
	w.logger.Info("wrote bundle artifact",
		"path", path,
		"tenant_id", b.Tenant.TenantID,
		"bundle_id", b.BundleID,
		"requests", len(b.Requests))
	return path, nil
}

// WriteReport validates the report, then writes it as indented JSON at its
// dedup-addressed path. Returns the path written.
func (w *Writer) WriteReport(r *report.Report) (string, error) {
	if err := r.Validate(); err != nil {
		return "", sdk.NewValidationError("Writer.WriteReport", err)
	}
	path := w.layout.ReportPath(r)
	if err := w.writeJSON(path, r); err != nil {
		return "", err
	}
	w.logger.Info("wrote report artifact",
		"path", path,
		"tenant_id", r.Tenant.TenantID,
		"run_id", r.RunID,
		"findings", len(r.Findings))
	return path, nil
}

func (w *Writer) writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return sdk.NewSerializationError("Writer.writeJSON", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return sdk.NewIOError("Writer.writeJSON", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return sdk.NewIOError("Writer.writeJSON", err)
	}
	defer sdk.CloseWithLog(f, w.logger, "artifact file")

	if _, err := f.Write(append(data, '\n')); err != nil {
		return sdk.NewIOError("Writer.writeJSON", err)
	}
	return nil
}
