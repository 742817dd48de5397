package findings

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
)

// --- helpers ---

func makeFinding(typ string, sev Severity, file, rule string) Finding {
	return Finding{
		Type:     typ,
		Severity: sev,
		File:     file,
		Line:     LineOf(1),
		Message:  typ + " in " + file,
		WCAGRule: rule,
	}
}

// --- tests ---

func TestAdd_IndexesAllMaps(t *testing.T) {
	s := NewStore()
	s.Add(makeFinding("MISSING_ACCESSIBILITY_LABEL", SeverityHigh, "src/Button.tsx", "4.1.2"))

	if got := s.ByType("MISSING_ACCESSIBILITY_LABEL"); len(got) != 1 {
		t.Errorf("ByType = %d findings, want 1", len(got))
	}
	if got := s.BySeverity(SeverityHigh); len(got) != 1 {
		t.Errorf("BySeverity(HIGH) = %d findings, want 1", len(got))
	}
	if got := s.ByFile("src/Button.tsx"); len(got) != 1 {
		t.Errorf("ByFile = %d findings, want 1", len(got))
	}
	if got := s.ByRule("4.1.2"); len(got) != 1 {
		t.Errorf("ByRule(4.1.2) = %d findings, want 1", len(got))
	}
}

func TestAdd_EmptyRuleNotIndexed(t *testing.T) {
	s := NewStore()
	s.Add(makeFinding("CUSTOM", SeverityLow, "", ""))

	if got := s.ByRule(""); len(got) != 0 {
		t.Errorf("ByRule('') = %d findings, want 0", len(got))
	}
	if got := s.ByFile(""); len(got) != 0 {
		t.Errorf("ByFile('') = %d findings, want 0", len(got))
	}
}

func TestQuery_MultiFilter(t *testing.T) {
	s := NewStore()
	s.Add(
		makeFinding("MISSING_ACCESSIBILITY_LABEL", SeverityHigh, "src/screens/Home.tsx", "4.1.2"),
		makeFinding("MISSING_ACCESSIBILITY_ROLE", SeverityMedium, "src/screens/Home.tsx", "4.1.2"),
		makeFinding("MISSING_ACCESSIBILITY_LABEL", SeverityHigh, "src/components/Card.tsx", "4.1.2"),
		makeFinding("TOUCH_TARGET_TOO_SMALL", SeverityHigh, "src/screens/Home.tsx", "2.5.5"),
	)

	tests := []struct {
		name string
		opts QueryOpts
		want int
	}{
		{"no filters", QueryOpts{}, 4},
		{"by type", QueryOpts{Type: "MISSING_ACCESSIBILITY_LABEL"}, 2},
		{"by severity", QueryOpts{Severity: SeverityHigh}, 3},
		{"by file prefix", QueryOpts{FilePrefix: "src/screens"}, 3},
		{"type and file", QueryOpts{Type: "MISSING_ACCESSIBILITY_LABEL", File: "src/components/Card.tsx"}, 1},
		{"by rule", QueryOpts{Rule: "2.5.5"}, 1},
		{"text", QueryOpts{Text: "card.tsx"}, 1},
		{"no match", QueryOpts{Type: "NOPE"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, total := s.Query(tt.opts)
			if len(got) != tt.want || total != tt.want {
				t.Errorf("Query(%+v) = %d results (total %d), want %d", tt.opts, len(got), total, tt.want)
			}
		})
	}
}

func TestQuery_Pagination(t *testing.T) {
	s := NewStore()
	for i := 0; i < 10; i++ {
		s.Add(makeFinding("FONT_SIZE_TOO_SMALL", SeverityLow, fmt.Sprintf("src/f%d.tsx", i), "1.4.4"))
	}

	got, total := s.Query(QueryOpts{Offset: 8, Limit: 5})
	if total != 10 {
		t.Errorf("total = %d, want 10", total)
	}
	if len(got) != 2 {
		t.Fatalf("got %d results, want 2", len(got))
	}
	if got[0].File != "src/f8.tsx" {
		t.Errorf("first result = %s, want src/f8.tsx", got[0].File)
	}

	got, _ = s.Query(QueryOpts{Offset: 20})
	if got != nil {
		t.Errorf("offset past end should return nil, got %d results", len(got))
	}
}

func TestJSONL_RoundTrip(t *testing.T) {
	s := NewStore()
	f := makeFinding("MISSING_IMAGE_DESCRIPTION", SeverityHigh, "src/Avatar.tsx", "1.1.1")
	f.Evidence = `<Image source={uri} />`
	s.Add(f, makeFinding("MISSING_REDUCED_MOTION", SeverityMedium, "src/Fade.tsx", ""))

	var buf bytes.Buffer
	if err := s.WriteJSONL(&buf); err != nil {
		t.Fatalf("WriteJSONL: %v", err)
	}
	if !strings.Contains(buf.String(), `"wcagRule":null`) {
		t.Errorf("empty wcag rule should encode as null, got:\n%s", buf.String())
	}

	s2 := NewStore()
	if err := s2.ReadJSONL(&buf); err != nil {
		t.Fatalf("ReadJSONL: %v", err)
	}
	if s2.Count() != 2 {
		t.Fatalf("Count = %d, want 2", s2.Count())
	}
	got := s2.All()[0]
	if got.Evidence != f.Evidence || got.WCAGRule != "1.1.1" || got.Line == nil || *got.Line != 1 {
		t.Errorf("round-tripped finding = %+v, want %+v", got, f)
	}
}

func TestJSONL_SkipsEmptyLines(t *testing.T) {
	input := "\n" + `{"type":"A","severity":"LOW","file":"a.tsx","line":null,"message":"m","wcagRule":null,"suggestion":"","evidenceSnippet":null}` + "\n\n"
	s := NewStore()
	if err := s.ReadJSONL(strings.NewReader(input)); err != nil {
		t.Fatalf("ReadJSONL: %v", err)
	}
	if s.Count() != 1 {
		t.Errorf("Count = %d, want 1", s.Count())
	}
	if s.All()[0].Line != nil {
		t.Error("null line should decode to nil")
	}
}

func TestClear_ResetsIndexes(t *testing.T) {
	s := NewStore()
	s.Add(makeFinding("A", SeverityHigh, "a.tsx", "4.1.2"))
	s.Clear()

	if s.Count() != 0 {
		t.Errorf("Count after Clear = %d", s.Count())
	}
	if len(s.ByType("A")) != 0 || len(s.ByRule("4.1.2")) != 0 || len(s.BySeverity(SeverityHigh)) != 0 {
		t.Error("indexes not reset after Clear")
	}
}

func TestGroupByType_FirstSeenOrder(t *testing.T) {
	ff := []Finding{
		makeFinding("B", SeverityHigh, "1.tsx", ""),
		makeFinding("A", SeverityHigh, "2.tsx", ""),
		makeFinding("B", SeverityHigh, "3.tsx", ""),
	}
	g := GroupByType(ff)

	if got := g.Types(); len(got) != 2 || got[0] != "B" || got[1] != "A" {
		t.Fatalf("Types = %v, want [B A]", got)
	}
	if got := g.Get("B"); len(got) != 2 || got[1].File != "3.tsx" {
		t.Errorf("Get(B) = %v", got)
	}
	if g.Len() != 3 {
		t.Errorf("Len = %d, want 3", g.Len())
	}
}

func TestGrouped_JSONKeepsOrder(t *testing.T) {
	g := GroupByType([]Finding{
		makeFinding("ZETA", SeverityHigh, "1.tsx", ""),
		makeFinding("ALPHA", SeverityHigh, "2.tsx", ""),
	})

	data, err := json.Marshal(g)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if strings.Index(string(data), "ZETA") > strings.Index(string(data), "ALPHA") {
		t.Errorf("keys not in first-seen order: %s", data)
	}

	var back Grouped
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got := back.Types(); len(got) != 2 || got[0] != "ZETA" {
		t.Errorf("decoded types = %v, want [ZETA ALPHA]", got)
	}
}

func TestGrouped_EmptyMarshalsAsObject(t *testing.T) {
	var g Grouped
	data, err := json.Marshal(g)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(data) != "{}" {
		t.Errorf("empty Grouped = %s, want {}", data)
	}
}
