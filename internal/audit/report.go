// Package audit runs Lighthouse against a URL and shapes its report into
// per-category results and a flat check list.
package audit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
)

// Categories audited, in response order.
var Categories = []string{"performance", "accessibility", "best-practices", "seo"}

// CheckRef ties a category to one of its weighted checks.
type CheckRef struct {
	ID     string  `json:"id"`
	Weight float64 `json:"weight"`
	Group  string  `json:"group,omitempty"`
}

// CategoryResult is one audited category with its integer percentage score.
type CategoryResult struct {
	Category          string     `json:"category"`
	Score             int        `json:"score"`
	Title             string     `json:"title"`
	Description       string     `json:"description"`
	ManualDescription string     `json:"manualDescription,omitempty"`
	AuditRefs         []CheckRef `json:"auditRefs"`
}

// Check is a single audit result. Score is nil when the check is not
// applicable, which is distinct from a numeric zero.
type Check struct {
	ID               string          `json:"id"`
	Title            string          `json:"title"`
	Description      string          `json:"description"`
	Score            *float64        `json:"score"`
	ScoreDisplayMode string          `json:"scoreDisplayMode,omitempty"`
	DisplayValue     string          `json:"displayValue,omitempty"`
	NumericValue     float64         `json:"numericValue,omitempty"`
	NumericUnit      string          `json:"numericUnit,omitempty"`
	Details          json.RawMessage `json:"details,omitempty"`
}

// Report is a shaped Lighthouse run.
type Report struct {
	Results []CategoryResult
	Checks  []Check
}

type rawCategory struct {
	Score             float64    `json:"score"`
	Title             string     `json:"title"`
	Description       string     `json:"description"`
	ManualDescription string     `json:"manualDescription"`
	AuditRefs         []CheckRef `json:"auditRefs"`
}

type rawReport struct {
	Categories map[string]rawCategory `json:"categories"`
	Audits     json.RawMessage        `json:"audits"`
}

// ParseReport shapes a raw Lighthouse JSON report. Categories come out in the
// fixed audit order; checks keep the order the tool emitted them in.
func ParseReport(data []byte) (*Report, error) {
	var raw rawReport
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode lighthouse report: %w", err)
	}
	if len(raw.Categories) == 0 {
		return nil, fmt.Errorf("lighthouse report has no categories")
	}

	report := &Report{}
	for _, key := range Categories {
		cat, ok := raw.Categories[key]
		if !ok {
			continue
		}
		report.Results = append(report.Results, CategoryResult{
			Category:          key,
			Score:             ScorePercent(cat.Score),
			Title:             cat.Title,
			Description:       cat.Description,
			ManualDescription: cat.ManualDescription,
			AuditRefs:         cat.AuditRefs,
		})
	}

	checks, err := decodeChecks(raw.Audits)
	if err != nil {
		return nil, err
	}
	report.Checks = checks
	return report, nil
}

// ScorePercent converts a raw 0..1 category score to an integer percentage,
// rounding half up.
func ScorePercent(raw float64) int {
	return int(math.Round(raw * 100))
}

// decodeChecks walks the audits object token by token so that checks come out
// in the order Lighthouse wrote them; unmarshalling into a map would lose it.
func decodeChecks(data json.RawMessage) ([]Check, error) {
	if len(data) == 0 {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("decode audits: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("decode audits: expected object, got %v", tok)
	}

	var checks []Check
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("decode audits key: %w", err)
		}
		key, _ := keyTok.(string)

		var check Check
		if err := dec.Decode(&check); err != nil {
			return nil, fmt.Errorf("decode audit %q: %w", key, err)
		}
		check.ID = key
		checks = append(checks, check)
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("decode audits close: %w", err)
	}
	return checks, nil
}

// Scored filters checks to those with a positive, non-nil score and returns
// at most limit of them, preserving order. Used when building the feedback
// prompt: zero scores and not-applicable checks are excluded.
func Scored(checks []Check, limit int) []Check {
	var out []Check
	for _, c := range checks {
		if c.Score == nil || *c.Score == 0 {
			continue
		}
		out = append(out, c)
		if len(out) == limit {
			break
		}
	}
	return out
}
