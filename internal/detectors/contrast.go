package detectors

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/dejo1307/a11yaudit/internal/contrast"
	"github.com/dejo1307/a11yaudit/internal/findings"
	"github.com/dejo1307/a11yaudit/internal/jsx"
)

var (
	foregroundKey = regexp.MustCompile(`(?i)text|foreground|label|title|heading|caption`)
	onColorKey    = regexp.MustCompile(`^on[A-Z]`)
	backgroundKey = regexp.MustCompile(`(?i)background|surface|^bg|card|screen`)
)

// ColorContrast checks foreground/background pairs declared in theme files.
// Only files whose path contains one of the theme patterns are inspected, and
// pairs are formed within a single object literal.
type ColorContrast struct {
	patterns []string
}

// NewColorContrast creates a contrast detector for files matching any of patterns
// (case-insensitive substring match on the path).
func NewColorContrast(patterns []string) *ColorContrast {
	lower := make([]string, 0, len(patterns))
	for _, p := range patterns {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			lower = append(lower, p)
		}
	}
	return &ColorContrast{patterns: lower}
}

func (c *ColorContrast) Name() string { return "color-contrast" }

func (c *ColorContrast) isThemeFile(path string) bool {
	path = strings.ToLower(path)
	for _, p := range c.patterns {
		if strings.Contains(path, p) {
			return true
		}
	}
	return false
}

type colorProp struct {
	key   string
	value string
	line  int
}

func (c *ColorContrast) Detect(file *SourceFile) Result {
	var res Result
	if !c.isThemeFile(file.Path) {
		return res
	}

	for _, obj := range file.Doc.Objects {
		fgs, bgs := c.classify(file, obj, &res)
		for _, fg := range fgs {
			for _, bg := range bgs {
				c.checkPair(file, obj, fg, bg, &res)
			}
		}
	}
	return res
}

func (c *ColorContrast) classify(file *SourceFile, obj jsx.Object, res *Result) (fgs, bgs []colorProp) {
	for _, p := range obj.Props {
		if p.ValueKind != "string" || strings.TrimSpace(p.Value) == "" {
			continue
		}
		// onSurface, onPrimary: text drawn on that background.
		onColor := onColorKey.MatchString(p.Key)
		isBG := !onColor && backgroundKey.MatchString(p.Key)
		isFG := !isBG && (onColor || foregroundKey.MatchString(p.Key))
		if !isBG && !isFG {
			continue
		}
		if _, err := contrast.ParseColor(p.Value); err != nil {
			res.Notes = append(res.Notes, findings.Note{
				Kind:   findings.NoteInvalidColor,
				File:   file.Path,
				Detail: fmt.Sprintf("line %d: %s: %q is not a supported color", p.Line, p.Key, p.Value),
			})
			continue
		}
		cp := colorProp{key: p.Key, value: p.Value, line: p.Line}
		if isBG {
			bgs = append(bgs, cp)
		} else {
			fgs = append(fgs, cp)
		}
	}
	return fgs, bgs
}

func (c *ColorContrast) checkPair(file *SourceFile, obj jsx.Object, fg, bg colorProp, res *Result) {
	pair := contrast.ColorPair{
		Foreground: fg.value,
		Background: bg.value,
		Context:    fg.key + " on " + bg.key,
	}
	r, err := contrast.Check(pair, contrast.TextStyle{})
	if err != nil {
		return
	}
	if r.Passes {
		res.Successes = append(res.Successes, newSuccess(file, SuccessContrast, fg.line,
			fmt.Sprintf("%s has contrast %.2f:1", pair.Context, contrast.Round2(r.Ratio))))
		return
	}

	sev := findings.SeverityMedium
	if r.Ratio < contrast.RatioLargeText {
		sev = findings.SeverityHigh
	}
	suggestion := fmt.Sprintf("Raise the contrast of %s to at least %.1f:1", fg.key, r.RequiredRatio)
	if fix, err := contrast.SuggestFix(fg.value, bg.value, r.RequiredRatio); err == nil && fix.Improved {
		suggestion = fmt.Sprintf("Try %s for %s (%.2f:1)", fix.Suggested, fg.key, fix.Ratio)
		if !fix.MeetsTarget {
			suggestion += fmt.Sprintf("; darken further to reach %.1f:1", r.RequiredRatio)
		}
	}
	res.Findings = append(res.Findings, newFinding(file, TypeInsufficientContrast, sev, fg.line, "1.4.3",
		fmt.Sprintf("%s (%s on %s) has contrast %.2f:1, below %.1f:1",
			pair.Context, fg.value, bg.value, contrast.Round2(r.Ratio), r.RequiredRatio),
		suggestion,
		obj.Text))
}
