// Package seo composes browser capture, content extraction, page auditing
// and language-model recommendations.
package seo

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/seoscope/seoscope/internal/audit"
	"github.com/seoscope/seoscope/internal/browser"
	"github.com/seoscope/seoscope/internal/llm"
	"github.com/seoscope/seoscope/internal/page"
)

// ChatClient requests language-model completions.
type ChatClient interface {
	Chat(ctx context.Context, req llm.ChatRequest) (string, error)
}

// Generation settings for recommendation completions.
const (
	recommendationTemperature = 0.7
	recommendationMaxTokens   = 2000
)

// SiteReport is the outcome of a full content analysis.
type SiteReport struct {
	Screenshot string `json:"screenshot"`
	Analysis   string `json:"seoAnalysis"`
}

// AuditReport is the outcome of a Lighthouse run plus model feedback.
type AuditReport struct {
	Results  []audit.CategoryResult `json:"lighthouseResults"`
	Checks   []audit.Check          `json:"lighthouseAudits"`
	Feedback string                 `json:"feedback"`
}

// Analyzer runs the page-analysis pipeline.
type Analyzer struct {
	launcher *browser.Launcher
	runner   *audit.Runner
	chat     ChatClient
	model    string
	log      *slog.Logger
}

func NewAnalyzer(launcher *browser.Launcher, runner *audit.Runner, chat ChatClient, model string, log *slog.Logger) *Analyzer {
	return &Analyzer{
		launcher: launcher,
		runner:   runner,
		chat:     chat,
		model:    model,
		log:      log,
	}
}

// Analyze loads rawURL in a fresh browser, captures a full-page screenshot,
// extracts the rendered content and asks the model for recommendations. One
// navigation serves both the screenshot and the extraction. Any failure
// aborts the analysis; no partial result is returned.
func (a *Analyzer) Analyze(ctx context.Context, rawURL string) (*SiteReport, error) {
	sess, err := a.launcher.NewSession(ctx)
	if err != nil {
		return nil, err
	}
	defer sess.Close()

	if err := a.launcher.Open(ctx, sess, rawURL); err != nil {
		return nil, err
	}

	screenshot, err := sess.Screenshot(ctx)
	if err != nil {
		return nil, err
	}

	html, err := sess.HTML(ctx)
	if err != nil {
		return nil, err
	}

	base, err := url.Parse(rawURL)
	if err != nil {
		base = nil
	}
	content, err := page.Extract(html, base)
	if err != nil {
		return nil, err
	}
	a.log.Info("extracted content",
		"url", rawURL,
		"paragraphs", len(content.Paragraphs),
		"links", len(content.Links),
		"images", len(content.Images),
	)

	analysis, err := a.recommend(ctx, ContentPrompt(rawURL, page.Summarize(content)))
	if err != nil {
		return nil, err
	}

	return &SiteReport{Screenshot: screenshot, Analysis: analysis}, nil
}

// Screenshot captures rawURL without waiting for network quiescence.
func (a *Analyzer) Screenshot(ctx context.Context, rawURL string) (string, error) {
	sess, err := a.launcher.NewSession(ctx)
	if err != nil {
		return "", err
	}
	defer sess.Close()

	if err := a.launcher.OpenNoWait(ctx, sess, rawURL); err != nil {
		return "", err
	}
	return sess.Screenshot(ctx)
}

// Audit runs Lighthouse against rawURL and asks the model for feedback on
// the most critical issues. Lighthouse owns its own browser lifecycle,
// separate from the session used by Analyze.
func (a *Analyzer) Audit(ctx context.Context, rawURL string) (*AuditReport, error) {
	report, err := a.runner.Run(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	feedback, err := a.recommend(ctx, AuditPrompt(report.Checks))
	if err != nil {
		return nil, err
	}

	return &AuditReport{
		Results:  report.Results,
		Checks:   report.Checks,
		Feedback: feedback,
	}, nil
}

func (a *Analyzer) recommend(ctx context.Context, prompt string) (string, error) {
	text, err := a.chat.Chat(ctx, llm.ChatRequest{
		Model:       a.model,
		Messages:    []llm.Message{{Role: "user", Content: prompt}},
		Temperature: recommendationTemperature,
		MaxTokens:   recommendationMaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("recommendation: %w", err)
	}
	return text, nil
}
