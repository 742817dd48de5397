package sarif

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/dejo1307/a11yaudit/internal/findings"
)

func TestRender(t *testing.T) {
	ff := []findings.Finding{
		{Type: "TOUCH_TARGET_TOO_SMALL", Severity: findings.SeverityHigh, File: "src/A.tsx", Line: findings.LineOf(4), Message: "too small", WCAGRule: "2.5.5", Suggestion: "grow it"},
		{Type: "MISSING_ACCESSIBILITY_ROLE", Severity: findings.SeverityMedium, File: "src/B.tsx", Line: findings.LineOf(9), Message: "no role", WCAGRule: "4.1.2"},
		{Type: "FONT_SIZE_TOO_SMALL", Severity: findings.SeverityLow, File: "src/B.tsx", Message: "tiny"},
	}
	rep := &findings.ComplianceReport{
		Issues:   findings.GroupByType(ff[:1]),
		Warnings: findings.GroupByType(ff[1:]),
	}

	artifacts, err := New().Render(context.Background(), rep)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(artifacts) != 1 || artifacts[0].Name != FileName {
		t.Fatalf("unexpected artifacts %+v", artifacts)
	}

	var log sarifLog
	if err := json.Unmarshal(artifacts[0].Content, &log); err != nil {
		t.Fatalf("invalid sarif: %v", err)
	}
	if log.Version != "2.1.0" || len(log.Runs) != 1 {
		t.Fatalf("unexpected log %+v", log)
	}
	run := log.Runs[0]

	if len(run.Tool.Driver.Rules) != 3 {
		t.Errorf("expected 3 rules, got %d", len(run.Tool.Driver.Rules))
	}
	if run.Tool.Driver.Rules[0].ID != "FONT_SIZE_TOO_SMALL" {
		t.Errorf("rules not sorted: %+v", run.Tool.Driver.Rules)
	}

	wantLevels := []string{"error", "warning", "note"}
	for i, res := range run.Results {
		if res.Level != wantLevels[i] {
			t.Errorf("result %d level = %s, want %s", i, res.Level, wantLevels[i])
		}
	}
	if run.Results[0].Message.Text != "too small. grow it" {
		t.Errorf("message = %q", run.Results[0].Message.Text)
	}
	if r := run.Results[0].Locations[0].PhysicalLocation.Region; r == nil || r.StartLine != 4 {
		t.Errorf("region = %+v", r)
	}
	if run.Results[2].Locations[0].PhysicalLocation.Region != nil {
		t.Error("finding without line must have no region")
	}
}
