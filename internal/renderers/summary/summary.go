// Package summary renders a prioritized markdown digest of a compliance report.
package summary

import (
	"context"
	"fmt"
	"strings"

	"github.com/dejo1307/a11yaudit/internal/findings"
	"github.com/dejo1307/a11yaudit/internal/wcag"
)

// FileName is the artifact produced by the renderer.
const FileName = "accessibility-summary.md"

// maxPerGroup caps how many findings of one type are listed.
const maxPerGroup = 10

// Renderer produces a compact markdown summary within a character budget.
type Renderer struct {
	maxChars int
}

// New creates a summary renderer with the given character budget.
func New(maxChars int) *Renderer {
	if maxChars <= 0 {
		maxChars = 16000
	}
	return &Renderer{maxChars: maxChars}
}

func (r *Renderer) Name() string {
	return "summary"
}

// section holds a rendered section with its display name.
type section struct {
	name    string
	content string
}

// Render produces accessibility-summary.md. Sections are ordered by priority;
// lower-priority sections are truncated or omitted first when the budget is tight.
func (r *Renderer) Render(ctx context.Context, report *findings.ComplianceReport) ([]findings.Artifact, error) {
	sections := []section{
		{"Summary", renderSummary(report)},
		{"Recommendations", renderRecommendations(report)},
		{"Issues", renderGroups("Issues", report.Issues)},
		{"Warnings", renderGroups("Warnings", report.Warnings)},
		{"WCAG Compliance", renderWCAG(report)},
		{"Notes", renderNotes(report)},
		{"Meta", renderMeta(report)},
	}

	header := "# Accessibility Report\n\n"
	remaining := r.maxChars - len(header)

	var sb strings.Builder
	sb.WriteString(header)

	for i, sec := range sections {
		if sec.content == "" {
			continue
		}
		if len(sec.content) <= remaining {
			sb.WriteString(sec.content)
			remaining -= len(sec.content)
			continue
		}
		if remaining > 200 {
			sb.WriteString(sec.content[:remaining-100])
			fmt.Fprintf(&sb, "\n\n---\n*[Truncated in: %s]*\n", sec.name)
			break
		}
		var omitted []string
		for _, s := range sections[i:] {
			if s.content != "" {
				omitted = append(omitted, s.name)
			}
		}
		fmt.Fprintf(&sb, "\n\n---\n*[Omitted: %s]*\n", strings.Join(omitted, ", "))
		break
	}

	return []findings.Artifact{{
		Name:    FileName,
		Content: []byte(sb.String()),
		Type:    "text/markdown",
	}}, nil
}

// Line returns a one-line digest, used by the CLI after each run.
func Line(report *findings.ComplianceReport) string {
	s := report.Summary
	line := fmt.Sprintf("score %.2f | %d issue(s), %d warning(s), %d success(es) | %d component(s) in %d file(s)",
		s.OverallScore, s.TotalIssues, s.TotalWarnings, s.TotalSuccesses, s.ComponentsScanned, s.FilesScanned)
	if s.Incomplete {
		line += " | INCOMPLETE"
	}
	return line
}

func renderSummary(report *findings.ComplianceReport) string {
	s := report.Summary
	var sb strings.Builder
	sb.WriteString("## Summary\n\n")
	status := "PASS"
	if s.TotalIssues > 0 {
		status = "FAIL"
	}
	fmt.Fprintf(&sb, "**Score: %.2f / 100** (%s)\n\n", s.OverallScore, status)
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	fmt.Fprintf(&sb, "| Files scanned | %d |\n", s.FilesScanned)
	fmt.Fprintf(&sb, "| Components scanned | %d |\n", s.ComponentsScanned)
	fmt.Fprintf(&sb, "| Files skipped | %d |\n", s.FilesSkipped)
	fmt.Fprintf(&sb, "| Issues | %d |\n", s.TotalIssues)
	fmt.Fprintf(&sb, "| Warnings | %d |\n", s.TotalWarnings)
	fmt.Fprintf(&sb, "| Good patterns | %d |\n", s.TotalSuccesses)
	if s.Incomplete {
		sb.WriteString("\n> The run was cancelled; results are partial.\n")
	}
	sb.WriteString("\n")
	return sb.String()
}

func renderRecommendations(report *findings.ComplianceReport) string {
	if len(report.Recommendations) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("## Recommendations\n\n")
	for _, rec := range report.Recommendations {
		fmt.Fprintf(&sb, "### [%s] %s\n\n%s\n\n", rec.Priority, rec.Title, rec.Description)
		for _, a := range rec.Actions {
			fmt.Fprintf(&sb, "- %s\n", a)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func renderGroups(title string, groups findings.Grouped) string {
	if groups.Len() == 0 {
		return ""
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "## %s\n\n", title)
	for _, g := range groups {
		fmt.Fprintf(&sb, "### %s (%d)\n\n", g.Type, len(g.Findings))
		for i, f := range g.Findings {
			if i == maxPerGroup {
				fmt.Fprintf(&sb, "- ... and %d more\n", len(g.Findings)-maxPerGroup)
				break
			}
			loc := f.File
			if f.Line != nil {
				loc = fmt.Sprintf("%s:%d", f.File, *f.Line)
			}
			fmt.Fprintf(&sb, "- `%s` %s", loc, f.Message)
			if f.WCAGRule != "" {
				fmt.Fprintf(&sb, " (WCAG %s)", f.WCAGRule)
			}
			sb.WriteString("\n")
			if f.Suggestion != "" {
				fmt.Fprintf(&sb, "  - Fix: %s\n", f.Suggestion)
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func renderWCAG(report *findings.ComplianceReport) string {
	if len(report.WCAGCompliance) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("## WCAG Compliance\n\n")
	sb.WriteString("| Criterion | Name | Level | Passed | Failed |\n")
	sb.WriteString("|-----------|------|-------|--------|--------|\n")
	for _, id := range wcag.IDs() {
		c, ok := report.WCAGCompliance[id]
		if !ok {
			continue
		}
		fmt.Fprintf(&sb, "| %s | %s | %s | %d | %d |\n", id, c.Name, c.Level, c.Passed, c.Failed)
	}
	sb.WriteString("\n")
	return sb.String()
}

func renderNotes(report *findings.ComplianceReport) string {
	if len(report.Notes) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("## Notes\n\n")
	for _, n := range report.Notes {
		if n.File != "" {
			fmt.Fprintf(&sb, "- **%s** `%s`: %s\n", n.Kind, n.File, n.Detail)
		} else {
			fmt.Fprintf(&sb, "- **%s**: %s\n", n.Kind, n.Detail)
		}
	}
	sb.WriteString("\n")
	return sb.String()
}

func renderMeta(report *findings.ComplianceReport) string {
	m := report.Meta
	var sb strings.Builder
	sb.WriteString("## Meta\n\n")
	fmt.Fprintf(&sb, "- Root: `%s`\n", m.Root)
	fmt.Fprintf(&sb, "- Generated: %s (%s)\n", m.GeneratedAt, m.Duration)
	if len(m.Detectors) > 0 {
		fmt.Fprintf(&sb, "- Detectors: %s\n", strings.Join(m.Detectors, ", "))
	}
	return sb.String()
}
