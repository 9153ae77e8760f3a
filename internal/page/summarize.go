package page

import "unicode/utf8"

// Caps for summarized text fields. Title, meta description and headings are
// deliberately left uncapped; only the high-volume fields are trimmed so the
// downstream prompt stays inside its token budget.
const (
	MaxParagraphLen = 200
	MaxListItemLen  = 100
	MaxLinkTextLen  = 50
)

const ellipsis = "..."

// Summarize returns a copy of c with paragraphs, list items and link text
// capped to their maximum lengths. The input is not modified.
func Summarize(c *Content) *Content {
	out := &Content{
		Title:           c.Title,
		MetaDescription: c.MetaDescription,
		Headings:        c.Headings,
		Images:          c.Images,
	}

	out.Paragraphs = make([]string, len(c.Paragraphs))
	for i, p := range c.Paragraphs {
		out.Paragraphs[i] = Truncate(p, MaxParagraphLen)
	}

	out.Lists = make([]List, len(c.Lists))
	for i, list := range c.Lists {
		items := make([]string, len(list.Items))
		for j, item := range list.Items {
			items[j] = Truncate(item, MaxListItemLen)
		}
		out.Lists[i] = List{Type: list.Type, Items: items}
	}

	out.Links = make([]Link, len(c.Links))
	for i, link := range c.Links {
		out.Links[i] = Link{Href: link.Href, Text: Truncate(link.Text, MaxLinkTextLen)}
	}

	return out
}

// Truncate caps s at max characters, replacing the tail with "..." when it
// is longer. Operates on runes so multi-byte text is never split mid-character.
func Truncate(s string, max int) string {
	if max <= len(ellipsis) {
		return s
	}
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max-len(ellipsis)]) + ellipsis
}
