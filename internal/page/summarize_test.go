package page

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestTruncate_LongInput(t *testing.T) {
	in := strings.Repeat("a", 300)
	out := Truncate(in, 200)
	if utf8.RuneCountInString(out) != 200 {
		t.Fatalf("expected exactly 200 characters, got %d", utf8.RuneCountInString(out))
	}
	if !strings.HasSuffix(out, "...") {
		t.Errorf("expected ellipsis suffix, got %q", out[len(out)-5:])
	}
	if out[:197] != in[:197] {
		t.Errorf("truncation altered the kept prefix")
	}
}

func TestTruncate_AtOrUnderCap(t *testing.T) {
	exact := strings.Repeat("b", 200)
	if got := Truncate(exact, 200); got != exact {
		t.Errorf("input at cap must be unchanged")
	}
	short := "short"
	if got := Truncate(short, 200); got != short {
		t.Errorf("input under cap must be unchanged")
	}
}

func TestTruncate_MultiByte(t *testing.T) {
	in := strings.Repeat("é", 60)
	out := Truncate(in, 50)
	if utf8.RuneCountInString(out) != 50 {
		t.Fatalf("expected 50 characters, got %d", utf8.RuneCountInString(out))
	}
	if !utf8.ValidString(out) {
		t.Errorf("truncation produced invalid UTF-8")
	}
}

func TestSummarize_CapsSelectedFieldsOnly(t *testing.T) {
	longTitle := strings.Repeat("t", 400)
	c := &Content{
		Title:           longTitle,
		MetaDescription: strings.Repeat("m", 400),
		Headings:        map[int][]string{1: {strings.Repeat("h", 400)}},
		Paragraphs:      []string{strings.Repeat("p", 400), "kept"},
		Lists: []List{
			{Type: "ul", Items: []string{strings.Repeat("i", 400), "ok"}},
		},
		Links: []Link{
			{Href: "https://example.org", Text: strings.Repeat("l", 400)},
		},
	}

	s := Summarize(c)

	// Capped fields.
	if got := utf8.RuneCountInString(s.Paragraphs[0]); got != MaxParagraphLen {
		t.Errorf("paragraph cap: got %d", got)
	}
	if s.Paragraphs[1] != "kept" {
		t.Errorf("short paragraph changed: %q", s.Paragraphs[1])
	}
	if got := utf8.RuneCountInString(s.Lists[0].Items[0]); got != MaxListItemLen {
		t.Errorf("list item cap: got %d", got)
	}
	if got := utf8.RuneCountInString(s.Links[0].Text); got != MaxLinkTextLen {
		t.Errorf("link text cap: got %d", got)
	}
	if s.Links[0].Href != "https://example.org" {
		t.Errorf("href must not be touched: %q", s.Links[0].Href)
	}

	// Pass-through fields.
	if s.Title != longTitle {
		t.Errorf("title must pass through uncapped")
	}
	if len(s.MetaDescription) != 400 {
		t.Errorf("meta description must pass through uncapped")
	}
	if len(s.Headings[1][0]) != 400 {
		t.Errorf("headings must pass through uncapped")
	}

	// Original untouched.
	if len(c.Paragraphs[0]) != 400 {
		t.Errorf("summarize mutated its input")
	}
}
