package detectors

import (
	"fmt"
	"strings"

	"github.com/dejo1307/a11yaudit/internal/findings"
	"github.com/dejo1307/a11yaudit/internal/jsx"
)

// AccessibilityLabel flags interactive elements that screen readers cannot name.
type AccessibilityLabel struct{}

func (AccessibilityLabel) Name() string { return "accessibility-label" }

func (AccessibilityLabel) Detect(file *SourceFile) Result {
	var res Result
	for _, el := range file.Doc.ElementsNamed(interactiveElements) {
		if optedOut(el) {
			continue
		}
		if el.HasAny("accessibilityLabel", "aria-label", "accessibilityLabelledBy", "aria-labelledby") {
			res.Successes = append(res.Successes, newSuccess(file, SuccessLabel, el.Line, el.Name+" has an accessibility label"))
			continue
		}
		res.Findings = append(res.Findings, newFinding(file, TypeMissingLabel, findings.SeverityHigh, el.Line, "4.1.2",
			fmt.Sprintf("%s has no accessibilityLabel", el.Name),
			`Add accessibilityLabel="..." describing the action, or accessible={false} if it is not meant to be reachable`,
			el.Text))
	}
	return res
}

// AccessibilityRole flags interactive elements without a semantic role.
type AccessibilityRole struct{}

func (AccessibilityRole) Name() string { return "accessibility-role" }

func (AccessibilityRole) Detect(file *SourceFile) Result {
	var res Result
	for _, el := range file.Doc.ElementsNamed(interactiveElements) {
		if optedOut(el) {
			continue
		}
		if el.HasAny("accessibilityRole", "role") {
			res.Successes = append(res.Successes, newSuccess(file, SuccessRole, el.Line, el.Name+" declares a role"))
			continue
		}
		res.Findings = append(res.Findings, newFinding(file, TypeMissingRole, findings.SeverityMedium, el.Line, "4.1.2",
			fmt.Sprintf("%s has no accessibilityRole", el.Name),
			`Add accessibilityRole="button" (or "link", "tab", ...) so assistive technology announces the element type`,
			el.Text))
	}
	return res
}

// FocusHandlers flags focusable elements that do not react to focus changes.
type FocusHandlers struct{}

func (FocusHandlers) Name() string { return "focus-handlers" }

func (FocusHandlers) Detect(file *SourceFile) Result {
	var res Result
	for _, el := range file.Doc.Elements {
		if !isFocusable(el.Attrs) {
			continue
		}
		var missing []string
		for _, h := range []string{"onFocus", "onBlur"} {
			if _, ok := el.Attr(h); !ok {
				missing = append(missing, h)
			}
		}
		if len(missing) == 0 {
			res.Successes = append(res.Successes, newSuccess(file, SuccessFocusHandlers, el.Line, el.Name+" handles focus and blur"))
			continue
		}
		res.Findings = append(res.Findings, newFinding(file, TypeMissingFocusHandlers, findings.SeverityMedium, el.Line, "2.1.1",
			fmt.Sprintf("Focusable %s is missing %s", el.Name, strings.Join(missing, " and ")),
			"Handle onFocus/onBlur to render a visible focus state for keyboard and switch users",
			el.Text))
	}
	return res
}

func isFocusable(attrs []jsx.Attribute) bool {
	for _, a := range attrs {
		switch a.Name {
		case "focusable":
			if a.Value != "false" {
				return true
			}
		case "tabIndex":
			if a.Value != "-1" {
				return true
			}
		}
	}
	return false
}

// ImageDescription flags images without alternative text or a decorative opt-out.
type ImageDescription struct{}

func (ImageDescription) Name() string { return "image-description" }

func (ImageDescription) Detect(file *SourceFile) Result {
	var res Result
	for _, el := range file.Doc.ElementsNamed(imageElements) {
		if optedOut(el) ||
			el.AttrIs("accessibilityElementsHidden", "true") ||
			el.AttrIs("aria-hidden", "true") ||
			el.AttrIs("importantForAccessibility", "no") ||
			el.AttrIs("importantForAccessibility", "no-hide-descendants") {
			continue
		}
		if alt, ok := el.Attr("alt"); ok && alt.ValueKind == "string" && alt.Value == "" {
			// alt="" marks a decorative image.
			continue
		}
		if el.HasAny("accessibilityLabel", "aria-label", "alt") {
			res.Successes = append(res.Successes, newSuccess(file, SuccessImage, el.Line, el.Name+" has a text alternative"))
			continue
		}
		res.Findings = append(res.Findings, newFinding(file, TypeMissingImageDescription, findings.SeverityHigh, el.Line, "1.1.1",
			fmt.Sprintf("%s has no text alternative", el.Name),
			`Add accessibilityLabel (or alt on web) describing the image, or accessible={false} if it is decorative`,
			el.Text))
	}
	return res
}

// TextInput flags unlabeled inputs and inputs whose error state is not exposed.
type TextInput struct{}

func (TextInput) Name() string { return "text-input" }

func (TextInput) Detect(file *SourceFile) Result {
	var res Result
	inputs := file.Doc.ElementsNamed(inputElements)
	if len(inputs) == 0 {
		return res
	}
	mentionsError := strings.Contains(strings.ToLower(file.Content), "error")

	for _, el := range inputs {
		if el.AttrIs("type", "hidden") {
			continue
		}
		if el.HasAny("accessibilityLabel", "aria-label", "accessibilityLabelledBy", "aria-labelledby", "placeholder") {
			res.Successes = append(res.Successes, newSuccess(file, SuccessInputLabel, el.Line, el.Name+" is labelled"))
		} else {
			res.Findings = append(res.Findings, newFinding(file, TypeMissingInputLabel, findings.SeverityHigh, el.Line, "3.3.2",
				fmt.Sprintf("%s has neither a label nor a placeholder", el.Name),
				"Add accessibilityLabel describing the expected input; a placeholder alone disappears once the user types",
				el.Text))
		}

		if mentionsError && !el.HasAny("accessibilityInvalid", "aria-invalid", "accessibilityState",
			"aria-errormessage", "aria-describedby", "accessibilityLiveRegion") {
			res.Findings = append(res.Findings, newFinding(file, TypeMissingErrorAccess, findings.SeverityMedium, el.Line, "3.3.1",
				fmt.Sprintf("%s does not expose its error state to assistive technology", el.Name),
				"Set accessibilityState/aria-invalid when validation fails and announce the message with accessibilityLiveRegion=\"polite\"",
				el.Text))
		}
	}
	return res
}

// Modal flags modals that neither trap screen-reader focus nor handle dismissal.
type Modal struct{}

func (Modal) Name() string { return "modal" }

func (Modal) Detect(file *SourceFile) Result {
	var res Result
	for _, el := range file.Doc.ElementsNamed(map[string]bool{"Modal": true}) {
		if el.HasAny("accessibilityViewIsModal", "aria-modal", "onRequestClose") {
			res.Successes = append(res.Successes, newSuccess(file, SuccessModal, el.Line, "Modal contains focus"))
			continue
		}
		res.Findings = append(res.Findings, newFinding(file, TypeModalMissingContainment, findings.SeverityMedium, el.Line, "2.4.3",
			"Modal sets neither accessibilityViewIsModal nor onRequestClose",
			"Set accessibilityViewIsModal so VoiceOver stays inside the modal and onRequestClose for hardware back",
			el.Text))
	}
	return res
}
