// Package wcag maps findings onto WCAG 2.1 success criteria.
package wcag

import (
	"fmt"
	"sort"

	"github.com/dejo1307/a11yaudit/internal/findings"
)

// Criterion is a WCAG success criterion known to the mapper.
type Criterion struct {
	ID    string
	Name  string
	Level string // A, AA or AAA
}

// Catalog lists every criterion the detectors can reference.
var Catalog = map[string]Criterion{
	"1.1.1": {ID: "1.1.1", Name: "Non-text Content", Level: "A"},
	"1.3.1": {ID: "1.3.1", Name: "Info and Relationships", Level: "A"},
	"1.4.3": {ID: "1.4.3", Name: "Contrast (Minimum)", Level: "AA"},
	"1.4.4": {ID: "1.4.4", Name: "Resize Text", Level: "AA"},
	"2.1.1": {ID: "2.1.1", Name: "Keyboard", Level: "A"},
	"2.2.2": {ID: "2.2.2", Name: "Pause, Stop, Hide", Level: "A"},
	"2.3.3": {ID: "2.3.3", Name: "Animation from Interactions", Level: "AAA"},
	"2.4.3": {ID: "2.4.3", Name: "Focus Order", Level: "A"},
	"2.4.7": {ID: "2.4.7", Name: "Focus Visible", Level: "AA"},
	"2.5.5": {ID: "2.5.5", Name: "Target Size", Level: "AAA"},
	"3.3.1": {ID: "3.3.1", Name: "Error Identification", Level: "A"},
	"3.3.2": {ID: "3.3.2", Name: "Labels or Instructions", Level: "A"},
	"4.1.2": {ID: "4.1.2", Name: "Name, Role, Value", Level: "A"},
}

// IDs returns catalog ids in sorted order.
func IDs() []string {
	ids := make([]string, 0, len(Catalog))
	for id := range Catalog {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Tally is the per-run WCAG compliance table.
type Tally struct {
	Criteria map[string]findings.CriterionResult
	Notes    []findings.Note
}

// Compute builds fresh counters for one run. Each finding with a known rule
// counts as one failure; passed is approximated as components minus failures,
// floored at zero, per criterion. Findings without a rule are ignored and
// findings with an unknown rule become unmapped_wcag_rule notes.
func Compute(ff []findings.Finding, componentsScanned int) Tally {
	t := Tally{Criteria: make(map[string]findings.CriterionResult, len(Catalog))}
	for id, c := range Catalog {
		t.Criteria[id] = findings.CriterionResult{Name: c.Name, Level: c.Level}
	}

	unmapped := make(map[string]int)
	var order []string
	for _, f := range ff {
		if f.WCAGRule == "" {
			continue
		}
		cr, ok := t.Criteria[f.WCAGRule]
		if !ok {
			if unmapped[f.WCAGRule] == 0 {
				order = append(order, f.WCAGRule)
			}
			unmapped[f.WCAGRule]++
			continue
		}
		cr.Failed++
		t.Criteria[f.WCAGRule] = cr
	}

	for id, cr := range t.Criteria {
		cr.Passed = max(0, componentsScanned-cr.Failed)
		t.Criteria[id] = cr
	}

	for _, rule := range order {
		t.Notes = append(t.Notes, findings.Note{
			Kind:   findings.NoteUnmappedWCAGRule,
			Detail: fmt.Sprintf("%d finding(s) reference unknown WCAG rule %q", unmapped[rule], rule),
		})
	}
	return t
}
