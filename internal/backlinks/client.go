// Package backlinks fetches live backlink data from the DataForSEO API.
package backlinks

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultBaseURL = "https://api.dataforseo.com"

// Client calls the DataForSEO backlinks endpoint with Basic auth.
type Client struct {
	login      string
	password   string
	target     string
	baseURL    string
	httpClient *http.Client
}

func NewClient(login, password, target string) *Client {
	return &Client{
		login:    login,
		password: password,
		target:   target,
		baseURL:  defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// WithBaseURL points the client at an alternate endpoint. Used by tests.
func (c *Client) WithBaseURL(u string) *Client {
	c.baseURL = u
	return c
}

// Configured reports whether credentials are present. Validation happens at
// startup; the handler answers 503 instead of failing lazily mid-request.
func (c *Client) Configured() bool {
	return c.login != "" && c.password != ""
}

type liveTask struct {
	Target                   string `json:"target"`
	Limit                    int    `json:"limit"`
	InternalListLimit        int    `json:"internal_list_limit"`
	BacklinksStatusType      string `json:"backlinks_status_type"`
	IncludeSubdomains        bool   `json:"include_subdomains"`
	ExcludeInternalBacklinks bool   `json:"exclude_internal_backlinks"`
	IncludeIndirectLinks     bool   `json:"include_indirect_links"`
	Mode                     string `json:"mode"`
}

// Live fetches the live backlink list for the configured target and returns
// the provider's JSON body untouched.
func (c *Client) Live(ctx context.Context) (json.RawMessage, error) {
	payload := []liveTask{{
		Target:                   c.target,
		Limit:                    100,
		InternalListLimit:        10,
		BacklinksStatusType:      "live",
		IncludeSubdomains:        true,
		ExcludeInternalBacklinks: true,
		IncludeIndirectLinks:     true,
		Mode:                     "one_per_domain",
	}}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal task: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v3/backlinks/backlinks/live", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.login, c.password)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("dataforseo api: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("dataforseo api status %d: %s", resp.StatusCode, truncate(string(respBody), 300))
	}

	return json.RawMessage(respBody), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// Close releases idle connections.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}
