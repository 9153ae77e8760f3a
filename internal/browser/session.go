// Package browser drives a headless Chrome instance through chromedp. Each
// Session owns its own browser process; it is opened for one logical
// operation and torn down afterwards, never shared across requests.
package browser

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// Launcher creates browser sessions with a shared set of Chrome flags.
type Launcher struct {
	opts       []chromedp.ExecAllocatorOption
	navTimeout time.Duration
}

// NewLauncher configures headless Chrome suitable for containers.
func NewLauncher(navTimeout time.Duration) *Launcher {
	if navTimeout <= 0 {
		navTimeout = 60 * time.Second
	}
	return &Launcher{
		opts: append(
			chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Headless,
			chromedp.DisableGPU,
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-setuid-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.Flag("mute-audio", true),
		),
		navTimeout: navTimeout,
	}
}

// Session is one browser process with a single tab.
type Session struct {
	tabCtx      context.Context
	tabCancel   context.CancelFunc
	allocCancel context.CancelFunc
}

// NewSession starts a browser. Callers must Close it regardless of outcome.
func (l *Launcher) NewSession(ctx context.Context) (*Session, error) {
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, l.opts...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx)

	// Force the browser to start now so a missing Chrome binary surfaces
	// here instead of inside the first navigation.
	if err := chromedp.Run(tabCtx); err != nil {
		tabCancel()
		allocCancel()
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	return &Session{
		tabCtx:      tabCtx,
		tabCancel:   tabCancel,
		allocCancel: allocCancel,
	}, nil
}

// Close tears down the tab and the browser process.
func (s *Session) Close() {
	s.tabCancel()
	s.allocCancel()
}

func (l *Launcher) navigate(ctx context.Context, s *Session, url string, waitIdle bool) error {
	navCtx, cancel := context.WithTimeout(ctx, l.navTimeout)
	defer cancel()

	if !waitIdle {
		if err := chromedp.Run(s.tabCtx, chromedp.Navigate(url)); err != nil {
			return fmt.Errorf("navigate %s: %w", url, err)
		}
		return navCtx.Err()
	}

	// Subscribe to lifecycle events before navigating so the networkIdle
	// signal cannot be missed. networkIdle fires once there have been no
	// in-flight requests for 500ms.
	idle := make(chan struct{}, 1)
	listenCtx, stopListening := context.WithCancel(s.tabCtx)
	defer stopListening()
	chromedp.ListenTarget(listenCtx, func(ev any) {
		if e, ok := ev.(*page.EventLifecycleEvent); ok && e.Name == "networkIdle" {
			select {
			case idle <- struct{}{}:
			default:
			}
		}
	})

	err := chromedp.Run(s.tabCtx,
		enableLifecycleEvents(),
		chromedp.Navigate(url),
	)
	if err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}

	select {
	case <-idle:
		return nil
	case <-navCtx.Done():
		return fmt.Errorf("waiting for network idle on %s: %w", url, navCtx.Err())
	case <-s.tabCtx.Done():
		return fmt.Errorf("browser closed while loading %s: %w", url, s.tabCtx.Err())
	}
}

// Open navigates to url and blocks until the page reaches network idle.
func (l *Launcher) Open(ctx context.Context, s *Session, url string) error {
	return l.navigate(ctx, s, url, true)
}

// OpenNoWait navigates to url without waiting for network quiescence.
func (l *Launcher) OpenNoWait(ctx context.Context, s *Session, url string) error {
	return l.navigate(ctx, s, url, false)
}

// HTML returns the rendered outer HTML of the current document.
func (s *Session) HTML(ctx context.Context) (string, error) {
	var html string
	if err := s.run(ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("read document: %w", err)
	}
	return html, nil
}

// Screenshot captures the full page and returns it base64-encoded.
func (s *Session) Screenshot(ctx context.Context) (string, error) {
	var buf []byte
	if err := s.run(ctx, chromedp.FullScreenshot(&buf, 90)); err != nil {
		return "", fmt.Errorf("capture screenshot: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf), nil
}

// run executes actions on the tab while honoring the caller's deadline.
func (s *Session) run(ctx context.Context, actions ...chromedp.Action) error {
	done := make(chan error, 1)
	go func() {
		done <- chromedp.Run(s.tabCtx, actions...)
	}()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func enableLifecycleEvents() chromedp.ActionFunc {
	return func(ctx context.Context) error {
		if err := page.Enable().Do(ctx); err != nil {
			return err
		}
		return page.SetLifecycleEventsEnabled(true).Do(ctx)
	}
}
