// Package apiclient provides a client for the hburn daemon HTTP API.
package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/theirongolddev/hburn/internal/daemon"
	"github.com/theirongolddev/hburn/internal/model"
)

const (
	requestTimeout = 10 * time.Second
	maxBodySize    = 1 << 20 // 1 MB
	userAgent      = "github.com/theirongolddev/hburn/1.0"
)

var (
	// ErrNotFound indicates the daemon does not know the contract.
	ErrNotFound = errors.New("apiclient: contract not found")
	// ErrRateLimited indicates the daemon rate limit was hit.
	ErrRateLimited = errors.New("apiclient: rate limited")
	// ErrInvalidEntry indicates the report failed on an unresolvable time entry.
	ErrInvalidEntry = errors.New("apiclient: invalid time entry")
)

// Client talks to a running hburn daemon.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for the daemon at baseURL. A bare host:port gets an http scheme.
func New(baseURL string) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if !strings.Contains(baseURL, "://") {
		baseURL = "http://" + baseURL
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{},
	}
}

// FetchReport returns the daemon's freshly computed report for a contract.
func (c *Client) FetchReport(ctx context.Context, contractID int64) (model.ContractReport, error) {
	var r model.ContractReport
	body, err := c.get(ctx, fmt.Sprintf("/api/v1/contracts/%d/report", contractID))
	if err != nil {
		return r, err
	}
	if err := json.Unmarshal(body, &r); err != nil {
		return r, fmt.Errorf("apiclient: parsing report: %w", err)
	}
	return r, nil
}

// FetchReports returns the daemon's latest polled reports.
func (c *Client) FetchReports(ctx context.Context) ([]model.ContractReport, error) {
	body, err := c.get(ctx, "/api/v1/reports")
	if err != nil {
		return nil, err
	}
	var out []model.ContractReport
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("apiclient: parsing reports: %w", err)
	}
	return out, nil
}

// FetchStatus returns the daemon runtime status.
func (c *Client) FetchStatus(ctx context.Context) (daemon.Status, error) {
	var st daemon.Status
	body, err := c.get(ctx, "/api/v1/status")
	if err != nil {
		return st, err
	}
	if err := json.Unmarshal(body, &st); err != nil {
		return st, fmt.Errorf("apiclient: parsing status: %w", err)
	}
	return st, nil
}

// get performs a GET request and returns the response body.
func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("apiclient: creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("apiclient: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("apiclient: reading response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, errorMessage(body))
	case http.StatusTooManyRequests:
		return nil, ErrRateLimited
	case http.StatusUnprocessableEntity:
		return nil, fmt.Errorf("%w: %s", ErrInvalidEntry, errorMessage(body))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("apiclient: unexpected status %d: %s", resp.StatusCode, errorMessage(body))
	}
	return body, nil
}

func errorMessage(body []byte) string {
	var er daemon.ErrorResponse
	if err := json.Unmarshal(body, &er); err == nil && er.Error != "" {
		return er.Error
	}
	return strings.TrimSpace(string(body))
}
