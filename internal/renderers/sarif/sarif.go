// Package sarif renders findings as a SARIF 2.1.0 log for code scanning tools.
package sarif

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/dejo1307/a11yaudit/internal/findings"
	"github.com/dejo1307/a11yaudit/internal/wcag"
)

// FileName is the artifact produced by the renderer.
const FileName = "accessibility-report.sarif"

const (
	toolName = "a11yaudit"
	toolURI  = "https://github.com/dejo1307/a11yaudit"
	schema   = "https://json.schemastore.org/sarif-2.1.0.json"
)

type sarifLog struct {
	Version string `json:"version"`
	Schema  string `json:"$schema"`
	Runs    []run  `json:"runs"`
}

type run struct {
	Tool    tool     `json:"tool"`
	Results []result `json:"results"`
}

type tool struct {
	Driver driver `json:"driver"`
}

type driver struct {
	Name           string `json:"name"`
	InformationURI string `json:"informationUri,omitempty"`
	Rules          []rule `json:"rules,omitempty"`
}

type rule struct {
	ID               string            `json:"id"`
	Name             string            `json:"name,omitempty"`
	ShortDescription text              `json:"shortDescription"`
	HelpURI          string            `json:"helpUri,omitempty"`
	Properties       map[string]string `json:"properties,omitempty"`
}

type result struct {
	RuleID    string     `json:"ruleId"`
	Level     string     `json:"level"`
	Message   text       `json:"message"`
	Locations []location `json:"locations,omitempty"`
}

type location struct {
	PhysicalLocation physicalLocation `json:"physicalLocation"`
}

type physicalLocation struct {
	ArtifactLocation artifactLocation `json:"artifactLocation"`
	Region           *region          `json:"region,omitempty"`
}

type artifactLocation struct {
	URI string `json:"uri"`
}

type region struct {
	StartLine int `json:"startLine"`
}

type text struct {
	Text string `json:"text"`
}

// Renderer produces a SARIF log with one rule per finding type.
type Renderer struct{}

// New creates a SARIF renderer.
func New() *Renderer {
	return &Renderer{}
}

func (r *Renderer) Name() string {
	return "sarif"
}

// Render produces accessibility-report.sarif.
func (r *Renderer) Render(ctx context.Context, report *findings.ComplianceReport) ([]findings.Artifact, error) {
	all := report.AllFindings()
	rulesByID := make(map[string]rule)
	results := make([]result, 0, len(all))

	for _, f := range all {
		if _, ok := rulesByID[f.Type]; !ok {
			rulesByID[f.Type] = newRule(f)
		}

		res := result{
			RuleID:  f.Type,
			Level:   level(f.Severity),
			Message: text{Text: message(f)},
		}
		loc := location{PhysicalLocation: physicalLocation{ArtifactLocation: artifactLocation{URI: f.File}}}
		if f.Line != nil {
			loc.PhysicalLocation.Region = &region{StartLine: *f.Line}
		}
		res.Locations = []location{loc}
		results = append(results, res)
	}

	rules := make([]rule, 0, len(rulesByID))
	for _, rl := range rulesByID {
		rules = append(rules, rl)
	}
	sort.Slice(rules, func(i, j int) bool { return rules[i].ID < rules[j].ID })

	log := sarifLog{
		Version: "2.1.0",
		Schema:  schema,
		Runs: []run{{
			Tool: tool{Driver: driver{
				Name:           toolName,
				InformationURI: toolURI,
				Rules:          rules,
			}},
			Results: results,
		}},
	}

	data, err := json.MarshalIndent(log, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling sarif: %w", err)
	}
	return []findings.Artifact{{
		Name:    FileName,
		Content: append(data, '\n'),
		Type:    "application/sarif+json",
	}}, nil
}

func newRule(f findings.Finding) rule {
	rl := rule{
		ID:               f.Type,
		ShortDescription: text{Text: f.Type},
		Properties:       map[string]string{"severity": string(f.Severity)},
	}
	if c, ok := wcag.Catalog[f.WCAGRule]; ok {
		rl.Name = c.Name
		rl.ShortDescription = text{Text: fmt.Sprintf("WCAG %s %s (%s)", c.ID, c.Name, c.Level)}
		rl.Properties["wcag"] = c.ID
	}
	return rl
}

func message(f findings.Finding) string {
	if f.Suggestion == "" {
		return f.Message
	}
	return f.Message + ". " + f.Suggestion
}

func level(s findings.Severity) string {
	switch s {
	case findings.SeverityHigh:
		return "error"
	case findings.SeverityMedium:
		return "warning"
	default:
		return "note"
	}
}
