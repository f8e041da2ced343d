package hyperliquid

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/time/rate"
)

// Default endpoints (mainnet).
const (
	DefaultStatsURL = "https://stats-data.hyperliquid.xyz/Mainnet/vaults"
	DefaultInfoURL  = "https://api.hyperliquid.xyz/info"
	DefaultWSURL    = "wss://api.hyperliquid.xyz/ws"
)

// Default client configuration values.
const (
	DefaultTimeout      = 20 * time.Second
	DefaultRetryMax     = 3
	DefaultRetryWaitMin = 500 * time.Millisecond
	DefaultRetryWaitMax = 8 * time.Second
	DefaultRateLimit    = rate.Limit(4) // requests per second against the info API
)

// Client is the read-only surface of the Hyperliquid API the ETL needs.
type Client interface {
	// VaultEntries returns the published vault summaries.
	VaultEntries(ctx context.Context) ([]VaultEntry, error)

	// VaultDetails returns the detail blob for one vault address.
	VaultDetails(ctx context.Context, vaultAddress string) (*VaultDetails, error)

	// UserFills returns the fill history for one user (vault leader) address.
	UserFills(ctx context.Context, user string) ([]Fill, error)
}

// HTTPClient implements Client over the public HTTP endpoints with retrying
// requests and a shared rate limiter.
type HTTPClient struct {
	statsURL string
	infoURL  string
	client   *http.Client
	limiter  *rate.Limiter
}

// ClientOption configures HTTPClient.
type ClientOption func(*HTTPClient)

// WithStatsURL overrides the vault summaries endpoint.
func WithStatsURL(u string) ClientOption {
	return func(c *HTTPClient) { c.statsURL = u }
}

// WithInfoURL overrides the info endpoint.
func WithInfoURL(u string) ClientOption {
	return func(c *HTTPClient) { c.infoURL = u }
}

// WithHTTPClient sets a custom http.Client, bypassing the retry transport.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *HTTPClient) { c.client = client }
}

// WithRateLimit sets the request rate limit in requests per second.
func WithRateLimit(rps float64) ClientOption {
	return func(c *HTTPClient) { c.limiter = rate.NewLimiter(rate.Limit(rps), 1) }
}

// NewHTTPClient creates a Hyperliquid API client. Transient failures
// (429, 5xx, connection errors) are retried with exponential backoff.
func NewHTTPClient(opts ...ClientOption) *HTTPClient {
	rc := retryablehttp.NewClient()
	rc.RetryMax = DefaultRetryMax
	rc.RetryWaitMin = DefaultRetryWaitMin
	rc.RetryWaitMax = DefaultRetryWaitMax
	rc.HTTPClient.Timeout = DefaultTimeout
	rc.Logger = nil

	c := &HTTPClient{
		statsURL: DefaultStatsURL,
		infoURL:  DefaultInfoURL,
		client:   rc.StandardClient(),
		limiter:  rate.NewLimiter(DefaultRateLimit, 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compile-time interface check.
var _ Client = (*HTTPClient)(nil)

// VaultEntries fetches the vault summary list from the stats endpoint.
func (c *HTTPClient) VaultEntries(ctx context.Context) ([]VaultEntry, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.statsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build vault entries request: %w", err)
	}

	var entries []VaultEntry
	if err := c.do(req, &entries); err != nil {
		return nil, fmt.Errorf("fetch vault entries: %w", err)
	}
	return entries, nil
}

// VaultDetails fetches the detail blob for one vault.
func (c *HTTPClient) VaultDetails(ctx context.Context, vaultAddress string) (*VaultDetails, error) {
	var details VaultDetails
	err := c.info(ctx, map[string]string{
		"type":         "vaultDetails",
		"vaultAddress": vaultAddress,
	}, &details)
	if err != nil {
		return nil, fmt.Errorf("fetch vault details for %s: %w", vaultAddress, err)
	}
	return &details, nil
}

// UserFills fetches the fill history for one user address.
func (c *HTTPClient) UserFills(ctx context.Context, user string) ([]Fill, error) {
	var fills []Fill
	err := c.info(ctx, map[string]string{
		"type": "userFills",
		"user": user,
	}, &fills)
	if err != nil {
		return nil, fmt.Errorf("fetch user fills for %s: %w", user, err)
	}
	return fills, nil
}

// info posts a request body to the info endpoint and decodes the response.
func (c *HTTPClient) info(ctx context.Context, payload any, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode info payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.infoURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build info request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

// do executes the request and decodes a JSON response into out.
func (c *HTTPClient) do(req *http.Request, out any) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, snippet)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
