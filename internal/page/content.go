// Package page extracts SEO-relevant content from a rendered HTML document.
package page

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// List is an ordered or unordered list with its item texts.
type List struct {
	Type  string   `json:"type"` // "ol" or "ul"
	Items []string `json:"items"`
}

// Link is an anchor with its resolved destination and visible text.
type Link struct {
	Href string `json:"href"`
	Text string `json:"text"`
}

// Image carries the alt text of an <img> element.
type Image struct {
	Alt string `json:"alt"`
}

// Content is the SEO-relevant slice of a rendered page, in document order.
type Content struct {
	Title           string
	MetaDescription string
	Headings        map[int][]string // level 1..6
	Paragraphs      []string
	Lists           []List
	Links           []Link
	Images          []Image
}

// Extract parses rendered HTML and collects title, meta description,
// headings h1-h6, paragraphs, lists, links and image alt texts. Link hrefs
// are resolved against base when it is non-nil.
func Extract(htmlSrc string, base *url.URL) (*Content, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlSrc))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	content := &Content{
		Title:    strings.TrimSpace(doc.Find("title").First().Text()),
		Headings: make(map[int][]string, 6),
	}
	content.MetaDescription, _ = doc.Find(`meta[name="description"]`).First().Attr("content")

	for level := 1; level <= 6; level++ {
		doc.Find(fmt.Sprintf("h%d", level)).Each(func(_ int, s *goquery.Selection) {
			content.Headings[level] = append(content.Headings[level], strings.TrimSpace(s.Text()))
		})
	}

	doc.Find("p").Each(func(_ int, s *goquery.Selection) {
		content.Paragraphs = append(content.Paragraphs, strings.TrimSpace(s.Text()))
	})

	doc.Find("ul, ol").Each(func(_ int, s *goquery.Selection) {
		list := List{Type: goquery.NodeName(s)}
		s.Find("li").Each(func(_ int, li *goquery.Selection) {
			list.Items = append(list.Items, strings.TrimSpace(li.Text()))
		})
		content.Lists = append(content.Lists, list)
	})

	doc.Find("a").Each(func(_ int, s *goquery.Selection) {
		href := s.AttrOr("href", "")
		if base != nil && href != "" {
			if resolved, err := base.Parse(href); err == nil {
				href = resolved.String()
			}
		}
		content.Links = append(content.Links, Link{
			Href: href,
			Text: strings.TrimSpace(s.Text()),
		})
	})

	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		content.Images = append(content.Images, Image{Alt: s.AttrOr("alt", "")})
	})

	return content, nil
}
