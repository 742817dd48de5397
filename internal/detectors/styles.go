package detectors

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dejo1307/a11yaudit/internal/findings"
)

var touchDimensions = map[string]bool{
	"width":     true,
	"height":    true,
	"minWidth":  true,
	"minHeight": true,
	"hitSlop":   true,
}

// MinFontSize is the smallest fontSize that is not flagged.
const MinFontSize = 12

// TouchTarget flags style objects that size an element below 44x44 dp.
// One finding is emitted per object, listing every undersized dimension.
type TouchTarget struct{}

func (TouchTarget) Name() string { return "touch-target" }

func (TouchTarget) Detect(file *SourceFile) Result {
	var res Result
	for _, obj := range file.Doc.Objects {
		var small []string
		line := 0
		for _, p := range obj.Props {
			if !touchDimensions[p.Key] {
				continue
			}
			v, ok := numericValue(p.ValueKind, p.Value)
			if !ok || v >= MinTouchTarget {
				continue
			}
			small = append(small, fmt.Sprintf("%s: %s", p.Key, p.Value))
			if line == 0 {
				line = p.Line
			}
		}
		if len(small) == 0 {
			continue
		}
		res.Findings = append(res.Findings, newFinding(file, TypeTouchTargetTooSmall, findings.SeverityHigh, line, "2.5.5",
			fmt.Sprintf("Touch target smaller than %dx%d dp (%s)", MinTouchTarget, MinTouchTarget, strings.Join(small, ", ")),
			fmt.Sprintf("Use at least %d for width/height or extend the tappable area with hitSlop", MinTouchTarget),
			obj.Text))
	}

	// hitSlop={8} as a JSX attribute.
	for _, el := range file.Doc.Elements {
		a, ok := el.Attr("hitSlop")
		if !ok {
			continue
		}
		v, ok := numericValue("number", a.Value)
		if !ok || v >= MinTouchTarget {
			continue
		}
		res.Findings = append(res.Findings, newFinding(file, TypeTouchTargetTooSmall, findings.SeverityHigh, el.Line, "2.5.5",
			fmt.Sprintf("%s hitSlop of %s is below %d dp", el.Name, a.Value, MinTouchTarget),
			fmt.Sprintf("Make sure the element plus hitSlop reaches %dx%d dp", MinTouchTarget, MinTouchTarget),
			el.Text))
	}
	return res
}

// FontSize flags text styles below the minimum readable size.
type FontSize struct{}

func (FontSize) Name() string { return "font-size" }

func (FontSize) Detect(file *SourceFile) Result {
	var res Result
	for _, obj := range file.Doc.Objects {
		for _, p := range obj.Props {
			if p.Key != "fontSize" {
				continue
			}
			v, ok := numericValue(p.ValueKind, p.Value)
			if !ok || v >= MinFontSize {
				continue
			}
			res.Findings = append(res.Findings, newFinding(file, TypeFontSizeTooSmall, findings.SeverityLow, p.Line, "1.4.4",
				fmt.Sprintf("fontSize %s is below %d", p.Value, MinFontSize),
				fmt.Sprintf("Use a fontSize of at least %d and keep allowFontScaling enabled", MinFontSize),
				obj.Text))
		}
	}
	return res
}

func numericValue(kind, value string) (float64, bool) {
	if kind != "number" {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
