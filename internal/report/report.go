// Package report assembles the ComplianceReport for one run and derives its
// prioritized recommendations.
package report

import (
	"fmt"
	"strings"

	"github.com/dejo1307/a11yaudit/internal/findings"
	"github.com/dejo1307/a11yaudit/internal/scoring"
	"github.com/dejo1307/a11yaudit/internal/wcag"
)

// Stats are the collector and engine counts for one run.
type Stats struct {
	FilesScanned      int
	ComponentsScanned int
	FilesSkipped      int
	Incomplete        bool
}

// Input is everything Aggregate needs. Findings, Successes and Notes must already
// be in their final, deterministic order.
type Input struct {
	Findings  []findings.Finding
	Successes []findings.Success
	Notes     []findings.Note
	Stats     Stats
	Score     scoring.Result
	Tally     wcag.Tally
	Meta      findings.ReportMeta
}

// Aggregate builds the report. The result depends only on in; Meta is copied through.
func Aggregate(in Input) *findings.ComplianceReport {
	var issues, warnings []findings.Finding
	for _, f := range in.Findings {
		if f.Severity.IsIssue() {
			issues = append(issues, f)
		} else {
			warnings = append(warnings, f)
		}
	}

	notes := make([]findings.Note, 0, len(in.Notes)+len(in.Tally.Notes)+1)
	notes = append(notes, in.Notes...)
	notes = append(notes, in.Tally.Notes...)
	if in.Score.Warning != "" {
		notes = append(notes, findings.Note{Kind: findings.NoteNoComponents, Detail: in.Score.Warning})
	}

	successes := in.Successes
	if successes == nil {
		successes = []findings.Success{}
	}
	criteria := in.Tally.Criteria
	if criteria == nil {
		criteria = map[string]findings.CriterionResult{}
	}

	return &findings.ComplianceReport{
		Meta: in.Meta,
		Summary: findings.Summary{
			FilesScanned:      in.Stats.FilesScanned,
			ComponentsScanned: in.Stats.ComponentsScanned,
			FilesSkipped:      in.Stats.FilesSkipped,
			TotalIssues:       len(issues),
			TotalWarnings:     len(warnings),
			TotalSuccesses:    len(in.Successes),
			OverallScore:      in.Score.Score,
			Incomplete:        in.Stats.Incomplete,
		},
		Issues:          findings.GroupByType(issues),
		Warnings:        findings.GroupByType(warnings),
		Successes:       successes,
		Recommendations: Recommend(in.Findings, notes),
		WCAGCompliance:  criteria,
		Notes:           notes,
	}
}

// rule derives at most one recommendation from the corpus.
type rule func(ff []findings.Finding, notes []findings.Note) (findings.Recommendation, bool)

// rules are evaluated in order; the order is the output order.
var rules = []rule{
	highSeverityRule,
	keyboardRule,
	motionRule,
	contrastRule,
	unanalyzedRule,
}

// Recommend applies the fixed recommendation rules. It always returns a non-nil slice.
func Recommend(ff []findings.Finding, notes []findings.Note) []findings.Recommendation {
	out := []findings.Recommendation{}
	for _, r := range rules {
		if rec, ok := r(ff, notes); ok {
			out = append(out, rec)
		}
	}
	return out
}

// actionFor maps finding types to the concrete action the CRITICAL recommendation bundles.
var actionFor = map[string]string{
	"TOUCH_TARGET_TOO_SMALL":          "Enlarge touch targets to at least 44x44 dp or add hitSlop",
	"MISSING_ACCESSIBILITY_LABEL":     "Add accessibilityLabel to every interactive element",
	"MISSING_IMAGE_DESCRIPTION":       "Describe meaningful images with accessibilityLabel and mark decorative ones accessible={false}",
	"MISSING_INPUT_LABEL":             "Label every text input with accessibilityLabel",
	"INSUFFICIENT_COLOR_CONTRAST":     "Adjust theme colors to reach 4.5:1 for normal text",
	"MISSING_ACCESSIBILITY_ROLE":      "Declare accessibilityRole on interactive elements",
	"MISSING_FOCUS_HANDLERS":          "Handle onFocus and onBlur on focusable elements",
	"MODAL_MISSING_FOCUS_CONTAINMENT": "Set accessibilityViewIsModal and onRequestClose on modals",
}

func highSeverityRule(ff []findings.Finding, _ []findings.Note) (findings.Recommendation, bool) {
	types := typesWhere(ff, func(f findings.Finding) bool { return f.Severity == findings.SeverityHigh })
	if len(types) == 0 {
		return findings.Recommendation{}, false
	}
	actions := make([]string, 0, len(types))
	for _, t := range types {
		if a, ok := actionFor[t]; ok {
			actions = append(actions, a)
		} else {
			actions = append(actions, "Resolve "+t+" findings")
		}
	}
	n := 0
	for _, f := range ff {
		if f.Severity == findings.SeverityHigh {
			n++
		}
	}
	return findings.Recommendation{
		Priority:     findings.PriorityCritical,
		Title:        "Fix high-severity accessibility issues",
		Description:  fmt.Sprintf("%d high-severity finding(s) block users of assistive technology (%s).", n, strings.Join(types, ", ")),
		Actions:      actions,
		FindingTypes: types,
	}, true
}

func keyboardRule(ff []findings.Finding, _ []findings.Note) (findings.Recommendation, bool) {
	if !hasType(ff, "MISSING_FOCUS_HANDLERS") {
		return findings.Recommendation{}, false
	}
	return findings.Recommendation{
		Priority:    findings.PriorityHigh,
		Title:       "Improve keyboard navigation",
		Description: "Focusable elements do not react to focus changes, so keyboard and switch users cannot see where they are.",
		Actions: []string{
			"Render a visible focus indicator from onFocus/onBlur",
			"Check tab order on web and focus order with an external keyboard on device",
		},
		FindingTypes: []string{"MISSING_FOCUS_HANDLERS"},
	}, true
}

func motionRule(ff []findings.Finding, _ []findings.Note) (findings.Recommendation, bool) {
	types := typesWhere(ff, func(f findings.Finding) bool {
		return f.Type == "MISSING_REDUCED_MOTION" || f.Type == "LONG_ANIMATION_DURATION"
	})
	if len(types) == 0 {
		return findings.Recommendation{}, false
	}
	return findings.Recommendation{
		Priority:    findings.PriorityMedium,
		Title:       "Respect motion preferences",
		Description: "Animations run without honoring the reduced-motion setting or last longer than five seconds.",
		Actions: []string{
			"Check AccessibilityInfo.isReduceMotionEnabled() before starting animations",
			"Keep animations under five seconds or provide a pause control",
		},
		FindingTypes: types,
	}, true
}

func contrastRule(ff []findings.Finding, _ []findings.Note) (findings.Recommendation, bool) {
	if !hasType(ff, "INSUFFICIENT_COLOR_CONTRAST") {
		return findings.Recommendation{}, false
	}
	return findings.Recommendation{
		Priority:    findings.PriorityHigh,
		Title:       "Revise the color palette",
		Description: "Theme text colors do not reach the WCAG AA contrast ratio against their backgrounds.",
		Actions: []string{
			"Apply the suggested darker foreground colors or pick new ones",
			"Verify each pair with `a11yaudit contrast FG BG`",
		},
		FindingTypes: []string{"INSUFFICIENT_COLOR_CONTRAST"},
	}, true
}

func unanalyzedRule(_ []findings.Finding, notes []findings.Note) (findings.Recommendation, bool) {
	if len(notes) == 0 {
		return findings.Recommendation{}, false
	}
	counts := make(map[string]int)
	var kinds []string
	for _, n := range notes {
		if counts[n.Kind] == 0 {
			kinds = append(kinds, n.Kind)
		}
		counts[n.Kind]++
	}
	parts := make([]string, 0, len(kinds))
	for _, k := range kinds {
		parts = append(parts, fmt.Sprintf("%s: %d", k, counts[k]))
	}
	return findings.Recommendation{
		Priority:    findings.PriorityLow,
		Title:       "Review unanalyzed inputs",
		Description: "Some inputs could not be analyzed (" + strings.Join(parts, ", ") + ").",
		Actions:     []string{"Inspect the notes section and fix unreadable files or unsupported color formats"},
	}, true
}

func hasType(ff []findings.Finding, typ string) bool {
	for _, f := range ff {
		if f.Type == typ {
			return true
		}
	}
	return false
}

// typesWhere returns matching finding types in first-seen order.
func typesWhere(ff []findings.Finding, match func(findings.Finding) bool) []string {
	seen := make(map[string]bool)
	var out []string
	for _, f := range ff {
		if match(f) && !seen[f.Type] {
			seen[f.Type] = true
			out = append(out, f.Type)
		}
	}
	return out
}
