package wcag

import (
	"testing"

	"github.com/dejo1307/a11yaudit/internal/findings"
)

func finding(rule string) findings.Finding {
	return findings.Finding{Type: "X", Severity: findings.SeverityHigh, File: "a.tsx", WCAGRule: rule}
}

func TestComputeCounts(t *testing.T) {
	ff := []findings.Finding{finding("4.1.2"), finding("4.1.2"), finding("4.1.2")}

	tally := Compute(ff, 10)
	got := tally.Criteria["4.1.2"]
	if got.Passed != 7 || got.Failed != 3 {
		t.Errorf("4.1.2 = {passed %d, failed %d}, want {7, 3}", got.Passed, got.Failed)
	}
	if got.Name != "Name, Role, Value" || got.Level != "A" {
		t.Errorf("unexpected criterion metadata %+v", got)
	}
	if other := tally.Criteria["1.1.1"]; other.Passed != 10 || other.Failed != 0 {
		t.Errorf("1.1.1 = %+v, want {10, 0}", other)
	}
	if len(tally.Criteria) != len(Catalog) {
		t.Errorf("expected every catalog entry, got %d", len(tally.Criteria))
	}
}

func TestComputeIsRunScoped(t *testing.T) {
	ff := []findings.Finding{finding("2.5.5")}
	first := Compute(ff, 5)
	second := Compute(ff, 5)
	if first.Criteria["2.5.5"] != second.Criteria["2.5.5"] {
		t.Errorf("counters leaked between runs: %+v vs %+v", first.Criteria["2.5.5"], second.Criteria["2.5.5"])
	}
	if second.Criteria["2.5.5"].Failed != 1 {
		t.Errorf("failed = %d, want 1", second.Criteria["2.5.5"].Failed)
	}
}

func TestComputePassedFloor(t *testing.T) {
	ff := []findings.Finding{finding("1.4.3"), finding("1.4.3"), finding("1.4.3")}
	if got := Compute(ff, 1).Criteria["1.4.3"]; got.Passed != 0 || got.Failed != 3 {
		t.Errorf("got %+v, want passed 0 failed 3", got)
	}
}

func TestComputeUnmapped(t *testing.T) {
	ff := []findings.Finding{finding("9.9.9"), finding("9.9.9"), finding(""), finding("1.1.1")}
	tally := Compute(ff, 2)

	if len(tally.Notes) != 1 {
		t.Fatalf("expected one note, got %+v", tally.Notes)
	}
	if tally.Notes[0].Kind != findings.NoteUnmappedWCAGRule {
		t.Errorf("kind = %q", tally.Notes[0].Kind)
	}
	if _, ok := tally.Criteria["9.9.9"]; ok {
		t.Error("unknown rule must not be added to the table")
	}
	if tally.Criteria["1.1.1"].Failed != 1 {
		t.Errorf("1.1.1 failed = %d", tally.Criteria["1.1.1"].Failed)
	}
}

func TestIDsSorted(t *testing.T) {
	ids := IDs()
	if ids[0] != "1.1.1" || ids[len(ids)-1] != "4.1.2" {
		t.Errorf("ids = %v", ids)
	}
}
