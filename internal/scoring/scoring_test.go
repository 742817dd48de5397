package scoring

import (
	"testing"

	"github.com/dejo1307/a11yaudit/internal/findings"
)

func of(sevs ...findings.Severity) []findings.Finding {
	out := make([]findings.Finding, 0, len(sevs))
	for _, s := range sevs {
		out = append(out, findings.Finding{Type: "X", Severity: s})
	}
	return out
}

func TestScore(t *testing.T) {
	H, M, L := findings.SeverityHigh, findings.SeverityMedium, findings.SeverityLow

	tests := []struct {
		name       string
		findings   []findings.Finding
		components int
		good       int
		want       float64
	}{
		{"perfect", nil, 4, 0, 100},
		{"perfect with bonus is clamped", nil, 4, 10, 100},
		{"one high", of(H), 2, 0, 78.57},
		{"one high one medium", of(H, M), 2, 1, 71.93},
		{"low is free", of(L, L, L), 1, 0, 100},
		{"floor at zero", of(H, H, H, H, H, H, H, H, H, H), 1, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(tt.findings, tt.components, tt.good)
			if got.Score != tt.want {
				t.Errorf("Score = %v, want %v (%+v)", got.Score, tt.want, got)
			}
			if got.TotalChecks != tt.components*CheckCategories {
				t.Errorf("TotalChecks = %d", got.TotalChecks)
			}
		})
	}
}

func TestScoreNoComponents(t *testing.T) {
	got := Score(of(findings.SeverityHigh), 0, 0)
	if got.Score != 100 {
		t.Errorf("Score = %v, want 100", got.Score)
	}
	if got.Warning == "" {
		t.Error("expected a warning")
	}
}

func TestScoreMonotonic(t *testing.T) {
	base := of(findings.SeverityMedium)
	for _, sev := range []findings.Severity{findings.SeverityHigh, findings.SeverityMedium, findings.SeverityLow} {
		more := append(of(sev), base...)
		before := Score(base, 3, 2).Score
		after := Score(more, 3, 2).Score
		if after > before {
			t.Errorf("adding a %s finding raised the score from %v to %v", sev, before, after)
		}
	}
}
