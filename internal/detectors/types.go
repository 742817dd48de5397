package detectors

import (
	"github.com/dejo1307/a11yaudit/internal/findings"
	"github.com/dejo1307/a11yaudit/internal/jsx"
)

// Finding types.
const (
	TypeTouchTargetTooSmall     = "TOUCH_TARGET_TOO_SMALL"
	TypeMissingLabel            = "MISSING_ACCESSIBILITY_LABEL"
	TypeMissingRole             = "MISSING_ACCESSIBILITY_ROLE"
	TypeMissingFocusHandlers    = "MISSING_FOCUS_HANDLERS"
	TypeLongAnimation           = "LONG_ANIMATION_DURATION"
	TypeMissingReducedMotion    = "MISSING_REDUCED_MOTION"
	TypeMissingImageDescription = "MISSING_IMAGE_DESCRIPTION"
	TypeMissingInputLabel       = "MISSING_INPUT_LABEL"
	TypeMissingErrorAccess      = "MISSING_ERROR_ACCESSIBILITY"
	TypeInsufficientContrast    = "INSUFFICIENT_COLOR_CONTRAST"
	TypeFontSizeTooSmall        = "FONT_SIZE_TOO_SMALL"
	TypeModalMissingContainment = "MODAL_MISSING_FOCUS_CONTAINMENT"
)

// Success types.
const (
	SuccessLabel         = "ACCESSIBILITY_LABEL_PRESENT"
	SuccessRole          = "ACCESSIBILITY_ROLE_PRESENT"
	SuccessFocusHandlers = "FOCUS_HANDLERS_PRESENT"
	SuccessReducedMotion = "REDUCED_MOTION_RESPECTED"
	SuccessImage         = "IMAGE_DESCRIBED"
	SuccessInputLabel    = "INPUT_LABELLED"
	SuccessContrast      = "COLOR_CONTRAST_OK"
	SuccessModal         = "MODAL_FOCUS_CONTAINED"
)

// Element name sets. Matching uses the full name and the base name of member
// expressions, so Animated.Image counts as Image.
var (
	interactiveElements = map[string]bool{
		"TouchableOpacity":         true,
		"TouchableHighlight":       true,
		"TouchableWithoutFeedback": true,
		"TouchableNativeFeedback":  true,
		"Pressable":                true,
		"Button":                   true,
	}
	imageElements = map[string]bool{
		"Image":           true,
		"ImageBackground": true,
		"FastImage":       true,
		"img":             true,
	}
	inputElements = map[string]bool{
		"TextInput": true,
		"input":     true,
		"textarea":  true,
	}
)

// MinTouchTarget is the minimum touch target size in device-independent pixels.
const MinTouchTarget = 44

func newFinding(file *SourceFile, typ string, sev findings.Severity, line int, rule, msg, suggestion, evidence string) findings.Finding {
	return findings.Finding{
		Type:       typ,
		Severity:   sev,
		File:       file.Path,
		Line:       findings.LineOf(line),
		Message:    msg,
		WCAGRule:   rule,
		Suggestion: suggestion,
		Evidence:   jsx.Snippet(evidence),
	}
}

func newSuccess(file *SourceFile, typ string, line int, msg string) findings.Success {
	return findings.Success{Type: typ, File: file.Path, Line: line, Message: msg}
}

// optedOut reports whether the element is explicitly hidden from assistive technology.
func optedOut(el jsx.Element) bool {
	return el.AttrIs("accessible", "false")
}
