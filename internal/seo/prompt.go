package seo

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/seoscope/seoscope/internal/audit"
	"github.com/seoscope/seoscope/internal/page"
)

const contentPromptFooter = `Provide a comprehensive SEO analysis and improvement plan based on this content. Focus on:
1. Meta tags optimization
2. Heading structure and content hierarchy
3. Paragraph content, keyword usage, and readability
4. List structure and content relevance
5. Internal and external linking strategy
6. Image optimization (alt tags, file names)
7. Content organization and user experience
8. Keyword placement, density, and semantic relevance
9. Mobile-friendliness considerations
10. Page load speed implications (based on content structure)

For each area, provide detailed, actionable recommendations and explain their potential impact on SEO. Consider both on-page and technical SEO factors in your analysis.`

// ContentPrompt renders summarized page content into the SEO analysis prompt.
func ContentPrompt(url string, c *page.Content) string {
	var sb strings.Builder
	sb.WriteString("Analyze the following website content for SEO optimizations:\n\n")
	fmt.Fprintf(&sb, "URL: %s\n\n", url)
	fmt.Fprintf(&sb, "Title: %s\n", c.Title)
	fmt.Fprintf(&sb, "Meta Description: %s\n\n", c.MetaDescription)

	sb.WriteString("Headings:\n")
	for level := 1; level <= 6; level++ {
		fmt.Fprintf(&sb, "H%d: %s\n", level, strings.Join(c.Headings[level], " | "))
	}

	sb.WriteString("\nParagraphs:\n")
	sb.WriteString(strings.Join(c.Paragraphs, "\n\n"))

	sb.WriteString("\n\nLists:\n")
	sb.WriteString(marshalIndent(c.Lists))

	sb.WriteString("\n\nLinks: ")
	sb.WriteString(marshalIndent(c.Links))

	sb.WriteString("\n\nImages: ")
	sb.WriteString(marshalIndent(c.Images))

	sb.WriteString("\n\n")
	sb.WriteString(contentPromptFooter)
	return sb.String()
}

const auditPromptFooter = `For each of the top 3-5 most critical issues:

1. Present the issue in the following format:

Problem:
[Clearly state the issue and its impact on the website's performance, accessibility, best practices, or SEO]

Solution:
- [Provide specific, actionable steps to resolve the issue]
- [Include any quick wins or easy fixes that could significantly improve the score]
- [Explain why each step is important and how it contributes to solving the problem]

2. Prioritize the most impactful recommendations that will have the greatest effect on improving the site's overall performance and user experience.

3. Ensure that the solutions are practical and implementable, providing enough detail for a web developer or site owner to follow and improve their site.

Limit your response to about 1000 words, focusing on the most critical issues and their solutions.`

// maxPromptChecks bounds how many audit checks go into the feedback prompt.
const maxPromptChecks = 5

// AuditPrompt renders Lighthouse checks into the feedback prompt. Checks with
// a zero or missing score are excluded; the first five scored checks are used
// in the order the audit emitted them.
func AuditPrompt(checks []audit.Check) string {
	var sb strings.Builder
	sb.WriteString("Analyze the following Lighthouse results for a website and provide detailed, actionable feedback on how to improve the most critical issues:\n\n")
	sb.WriteString("Audits:\n")
	sb.WriteString(marshalIndent(audit.Scored(checks, maxPromptChecks)))
	sb.WriteString("\n\n")
	sb.WriteString(auditPromptFooter)
	return sb.String()
}

func marshalIndent(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "[]"
	}
	return string(data)
}
