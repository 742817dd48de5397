package detectors

import (
	"fmt"
	"regexp"

	"github.com/dejo1307/a11yaudit/internal/findings"
)

// MaxAnimationMillis is the longest animation duration that is not flagged.
const MaxAnimationMillis = 5000

var (
	animationPattern     = regexp.MustCompile(`\bAnimated\.(timing|spring|decay|loop|sequence|parallel|stagger)\b|\bLayoutAnimation\.|\b(withTiming|withSpring|withRepeat|withDecay|useAnimatedStyle)\(|@keyframes|\banimation:\s`)
	reducedMotionPattern = regexp.MustCompile(`isReduceMotionEnabled|reduceMotionChanged|useReducedMotion|ReduceMotion\.|prefers-reduced-motion|reduceMotion`)
)

// Motion flags long-running animations and animation code that ignores the
// system reduced-motion preference.
type Motion struct{}

func (Motion) Name() string { return "motion" }

func (Motion) Detect(file *SourceFile) Result {
	var res Result

	for _, obj := range file.Doc.Objects {
		for _, p := range obj.Props {
			if p.Key != "duration" {
				continue
			}
			v, ok := numericValue(p.ValueKind, p.Value)
			if !ok || v <= MaxAnimationMillis {
				continue
			}
			res.Findings = append(res.Findings, newFinding(file, TypeLongAnimation, findings.SeverityMedium, p.Line, "2.2.2",
				fmt.Sprintf("Animation runs for %sms, longer than %dms", p.Value, MaxAnimationMillis),
				"Shorten the animation or give users a way to pause, stop or hide it",
				obj.Text))
		}
	}

	loc := animationPattern.FindStringIndex(file.Content)
	if loc == nil {
		return res
	}
	if reducedMotionPattern.MatchString(file.Content) {
		res.Successes = append(res.Successes, newSuccess(file, SuccessReducedMotion, lineAt(file.Content, loc[0]),
			"Animation checks the reduced-motion preference"))
		return res
	}
	res.Findings = append(res.Findings, newFinding(file, TypeMissingReducedMotion, findings.SeverityMedium, lineAt(file.Content, loc[0]), "2.3.3",
		"Animation is used without checking the reduced-motion preference",
		"Check AccessibilityInfo.isReduceMotionEnabled() (or useReducedMotion) and skip or simplify the animation",
		lineText(file.Content, loc[0])))
	return res
}

// lineAt returns the 1-based line of byte offset off.
func lineAt(content string, off int) int {
	line := 1
	for i := 0; i < off && i < len(content); i++ {
		if content[i] == '\n' {
			line++
		}
	}
	return line
}

// lineText returns the full source line containing byte offset off.
func lineText(content string, off int) string {
	start := off
	for start > 0 && content[start-1] != '\n' {
		start--
	}
	end := off
	for end < len(content) && content[end] != '\n' {
		end++
	}
	return content[start:end]
}
