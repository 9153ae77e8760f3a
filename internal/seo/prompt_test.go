package seo

import (
	"strings"
	"testing"

	"github.com/seoscope/seoscope/internal/audit"
	"github.com/seoscope/seoscope/internal/page"
)

func TestContentPrompt_ContainsPageFields(t *testing.T) {
	c := &page.Content{
		Title:           "Fixture Shop",
		MetaDescription: "A small shop.",
		Headings: map[int][]string{
			1: {"Welcome", "Fixtures"},
			3: {"Deep"},
		},
		Paragraphs: []string{"First paragraph.", "Second paragraph."},
		Lists:      []page.List{{Type: "ul", Items: []string{"Bolts"}}},
		Links:      []page.Link{{Href: "https://fixture.test/catalog", Text: "Browse"}},
		Images:     []page.Image{{Alt: "Shop logo"}},
	}

	prompt := ContentPrompt("https://fixture.test/", c)

	for _, want := range []string{
		"URL: https://fixture.test/",
		"Title: Fixture Shop",
		"Meta Description: A small shop.",
		"H1: Welcome | Fixtures",
		"H3: Deep",
		"First paragraph.\n\nSecond paragraph.",
		`"Bolts"`,
		`"href": "https://fixture.test/catalog"`,
		`"alt": "Shop logo"`,
		"1. Meta tags optimization",
		"10. Page load speed implications",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}

	// All six heading levels are enumerated even when empty.
	for _, h := range []string{"H1:", "H2:", "H3:", "H4:", "H5:", "H6:"} {
		if !strings.Contains(prompt, h) {
			t.Errorf("prompt missing heading line %s", h)
		}
	}
}

func TestAuditPrompt_FiltersAndLimitsChecks(t *testing.T) {
	score := func(v float64) *float64 { return &v }
	checks := []audit.Check{
		{ID: "keep-1", Title: "Keep one", Score: score(0.4)},
		{ID: "skip-zero", Title: "Skip zero", Score: score(0)},
		{ID: "skip-null", Title: "Skip null", Score: nil},
		{ID: "keep-2", Title: "Keep two", Score: score(0.9)},
		{ID: "keep-3", Title: "Keep three", Score: score(0.2)},
		{ID: "keep-4", Title: "Keep four", Score: score(0.5)},
		{ID: "keep-5", Title: "Keep five", Score: score(0.7)},
		{ID: "keep-6", Title: "Over the limit", Score: score(0.8)},
	}

	prompt := AuditPrompt(checks)

	for _, want := range []string{"keep-1", "keep-2", "keep-3", "keep-4", "keep-5"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing scored check %q", want)
		}
	}
	for _, unwanted := range []string{"skip-zero", "skip-null", "keep-6"} {
		if strings.Contains(prompt, unwanted) {
			t.Errorf("prompt must not contain %q", unwanted)
		}
	}
	if !strings.Contains(prompt, "about 1000 words") {
		t.Errorf("prompt missing response length guidance")
	}
}
