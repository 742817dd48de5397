// Package jsonreport writes the ComplianceReport as indented JSON.
package jsonreport

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dejo1307/a11yaudit/internal/findings"
)

// FileName is the artifact produced by the renderer.
const FileName = "accessibility-report.json"

// Renderer serializes the full report.
type Renderer struct{}

// New creates a JSON report renderer.
func New() *Renderer {
	return &Renderer{}
}

func (r *Renderer) Name() string {
	return "json"
}

// Render produces accessibility-report.json.
func (r *Renderer) Render(ctx context.Context, report *findings.ComplianceReport) ([]findings.Artifact, error) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling report: %w", err)
	}
	return []findings.Artifact{{
		Name:    FileName,
		Content: append(data, '\n'),
		Type:    "application/json",
	}}, nil
}
