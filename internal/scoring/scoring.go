// Package scoring turns a findings corpus into a 0-100 compliance score.
package scoring

import (
	"math"

	"github.com/dejo1307/a11yaudit/internal/findings"
)

// CheckCategories is the number of check families applied to each component.
const CheckCategories = 7

// Penalty weights per severity and the bonus per good pattern.
const (
	WeightHigh   = 3.0
	WeightMedium = 1.0
	WeightLow    = 0.0
	SuccessBonus = 0.5
)

// Result is a computed score with the intermediate values that produced it.
type Result struct {
	Score       float64 `json:"score"`
	Penalty     float64 `json:"penalty"`
	Bonus       float64 `json:"bonus"`
	TotalChecks int     `json:"totalChecks"`
	Warning     string  `json:"warning,omitempty"`
}

// Score computes
//
//	clamp(0, 100, 100 - penalty/totalChecks*100 + bonus)
//
// where totalChecks = componentsScanned * CheckCategories. With no components
// the score is 100 and Warning explains why.
func Score(ff []findings.Finding, componentsScanned, goodPatterns int) Result {
	bonus := float64(goodPatterns) * SuccessBonus
	if componentsScanned <= 0 {
		return Result{
			Score:   100,
			Bonus:   bonus,
			Warning: "no components scanned; score defaults to 100",
		}
	}

	var penalty float64
	for _, f := range ff {
		penalty += weight(f.Severity)
	}

	total := componentsScanned * CheckCategories
	raw := 100 - penalty/float64(total)*100 + bonus
	return Result{
		Score:       round2(math.Max(0, math.Min(100, raw))),
		Penalty:     penalty,
		Bonus:       bonus,
		TotalChecks: total,
	}
}

func weight(s findings.Severity) float64 {
	switch s {
	case findings.SeverityHigh:
		return WeightHigh
	case findings.SeverityMedium:
		return WeightMedium
	default:
		return WeightLow
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
