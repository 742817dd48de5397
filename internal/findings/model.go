package findings

import "encoding/json"

// Severity buckets a finding. HIGH findings are issues; MEDIUM and LOW are warnings.
type Severity string

const (
	SeverityHigh   Severity = "HIGH"
	SeverityMedium Severity = "MEDIUM"
	SeverityLow    Severity = "LOW"
)

// IsIssue reports whether findings of this severity count as issues rather than warnings.
func (s Severity) IsIssue() bool {
	return s == SeverityHigh
}

// Finding is a single detected issue or warning produced by one detector against one file.
// Findings are never mutated after a detector returns them.
type Finding struct {
	Type       string   `json:"type"`            // e.g. "MISSING_ACCESSIBILITY_LABEL"
	Severity   Severity `json:"severity"`        // HIGH, MEDIUM or LOW
	File       string   `json:"file"`            // Slash-separated path relative to the scan root
	Line       *int     `json:"line"`            // 1-based, null when unknown
	Message    string   `json:"message"`         // Human-readable description
	WCAGRule   string   `json:"wcagRule"`        // Success criterion id, e.g. "4.1.2"; null when empty
	Suggestion string   `json:"suggestion"`      // Actionable fix
	Evidence   string   `json:"evidenceSnippet"` // Matched source text; null when empty
}

// MarshalJSON encodes empty WCAGRule and Evidence as null.
func (f Finding) MarshalJSON() ([]byte, error) {
	type plain Finding
	return json.Marshal(struct {
		plain
		WCAGRule *string `json:"wcagRule"`
		Evidence *string `json:"evidenceSnippet"`
	}{
		plain:    plain(f),
		WCAGRule: nullable(f.WCAGRule),
		Evidence: nullable(f.Evidence),
	})
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// LineOf returns a pointer suitable for Finding.Line.
func LineOf(n int) *int {
	if n <= 0 {
		return nil
	}
	return &n
}

// Success records a good accessibility pattern. The number of successes feeds the score bonus.
type Success struct {
	Type    string `json:"type"`
	File    string `json:"file"`
	Line    int    `json:"line,omitempty"`
	Message string `json:"message"`
}

// Note kinds for non-fatal diagnostics.
const (
	NoteFileReadError    = "file_read_error"
	NoteDirReadError     = "dir_read_error"
	NoteInvalidColor     = "invalid_color"
	NoteUnmappedWCAGRule = "unmapped_wcag_rule"
	NoteNoComponents     = "no_components"
	NoteCancelled        = "cancelled"
)

// Note is a non-fatal problem surfaced in the report so consumers can audit
// how much of the tree was actually analyzable.
type Note struct {
	Kind   string `json:"kind"`
	File   string `json:"file,omitempty"`
	Detail string `json:"detail"`
}

// Recommendation priorities.
const (
	PriorityCritical = "CRITICAL"
	PriorityHigh     = "HIGH"
	PriorityMedium   = "MEDIUM"
	PriorityLow      = "LOW"
)

// Recommendation is a prioritized, actionable remediation derived from the findings corpus.
type Recommendation struct {
	Priority     string   `json:"priority"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Actions      []string `json:"actions"`
	FindingTypes []string `json:"findingTypes,omitempty"`
}

// CriterionResult is one WCAG success criterion with run-scoped counters.
type CriterionResult struct {
	Name   string `json:"name"`
	Level  string `json:"level"`
	Passed int    `json:"passed"`
	Failed int    `json:"failed"`
}

// Summary holds the headline numbers of a run. TotalIssues drives the CI exit code.
type Summary struct {
	FilesScanned      int     `json:"filesScanned"`
	ComponentsScanned int     `json:"componentsScanned"`
	FilesSkipped      int     `json:"filesSkipped"`
	TotalIssues       int     `json:"totalIssues"`
	TotalWarnings     int     `json:"totalWarnings"`
	TotalSuccesses    int     `json:"totalSuccesses"`
	OverallScore      float64 `json:"overallScore"`
	Incomplete        bool    `json:"incomplete,omitempty"`
}

// ReportMeta contains metadata about a run. None of it affects report content.
type ReportMeta struct {
	Root        string   `json:"root"`
	GeneratedAt string   `json:"generatedAt"`
	Duration    string   `json:"duration"`
	Detectors   []string `json:"detectors"`
	Renderers   []string `json:"renderers,omitempty"`
}

// ComplianceReport is the terminal aggregate of one run. It is read-only after construction.
type ComplianceReport struct {
	Meta            ReportMeta                 `json:"meta"`
	Summary         Summary                    `json:"summary"`
	Issues          Grouped                    `json:"issues"`
	Warnings        Grouped                    `json:"warnings"`
	Successes       []Success                  `json:"successes"`
	Recommendations []Recommendation           `json:"recommendations"`
	WCAGCompliance  map[string]CriterionResult `json:"wcagCompliance"`
	Notes           []Note                     `json:"notes"`
	Artifacts       []Artifact                 `json:"-"`
}

// Artifact represents a generated output file.
type Artifact struct {
	Name    string `json:"name"` // e.g. "accessibility-report.json"
	Content []byte `json:"-"`    // Raw content
	Type    string `json:"type"` // MIME type hint
}

// AllFindings returns issues followed by warnings, each in group order.
func (r *ComplianceReport) AllFindings() []Finding {
	out := make([]Finding, 0, r.Issues.Len()+r.Warnings.Len())
	out = append(out, r.Issues.Flatten()...)
	out = append(out, r.Warnings.Flatten()...)
	return out
}
