package audit

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"
)

// Runner executes the Lighthouse CLI. Lighthouse launches and tears down its
// own headless Chrome, independent of the browser used for extraction and
// screenshots; killing the process (context cancel or timeout) takes the
// browser down with it.
type Runner struct {
	cliPath     string
	chromeFlags string
	timeout     time.Duration
	log         *slog.Logger
}

func NewRunner(cliPath string, timeout time.Duration, log *slog.Logger) *Runner {
	if cliPath == "" {
		cliPath = "lighthouse"
	}
	if timeout <= 0 {
		timeout = 3 * time.Minute
	}
	return &Runner{
		cliPath:     cliPath,
		chromeFlags: "--headless --no-sandbox --disable-gpu",
		timeout:     timeout,
		log:         log,
	}
}

// Run audits url across the four fixed categories and returns the shaped
// report. Any CLI or parse failure aborts the whole audit.
func (r *Runner) Run(ctx context.Context, url string) (*Report, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	args := []string{
		url,
		"--output=json",
		"--output-path=stdout",
		"--only-categories=" + strings.Join(Categories, ","),
		"--chrome-flags=" + r.chromeFlags,
		"--quiet",
	}

	cmd := exec.CommandContext(ctx, r.cliPath, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("lighthouse: %w (stderr: %s)", err, tail(stderr.String(), 500))
	}
	r.log.Info("lighthouse finished", "url", url, "duration_ms", time.Since(start).Milliseconds())

	report, err := ParseReport(stdout.Bytes())
	if err != nil {
		return nil, err
	}
	return report, nil
}

func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return "..." + s[len(s)-n:]
}
