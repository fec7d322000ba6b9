package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/mauv0809/statement-glance/internal/models"
)

const (
	// DefaultEndpoint is the Financial Modeling Prep income statement for Apple.
	DefaultEndpoint = "https://financialmodelingprep.com/api/v3/income-statement/AAPL"
	defaultTimeout  = 30 * time.Second
)

// ErrUnexpectedStatus is returned when the upstream answers with a non-200 status.
var ErrUnexpectedStatus = errors.New("unexpected status")

// Client reads income statements from a Financial Modeling Prep style endpoint.
type Client struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// NewClient creates a new income statement client.
func NewClient(endpoint, apiKey string, opts ...Option) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	c := &Client{
		endpoint: endpoint,
		apiKey:   apiKey,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Source identifies the endpoint the client reads from, without the API key.
func (c *Client) Source() string {
	return c.endpoint
}

// FetchIncomeStatement performs a single GET for the annual income statement.
// There is no retry: a failed attempt is returned to the caller as is.
func (c *Client) FetchIncomeStatement(ctx context.Context) ([]models.IncomeStatement, error) {
	u, err := c.buildURL()
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", c.redact(err))
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w %d: %s", ErrUnexpectedStatus, httpResp.StatusCode, truncate(body, 200))
	}

	var statements []models.IncomeStatement
	if err := json.Unmarshal(body, &statements); err != nil {
		return nil, fmt.Errorf("parsing response: %w", err)
	}

	return statements, nil
}

// buildURL renders {endpoint}?period=annual&apikey={key}.
func (c *Client) buildURL() (string, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid endpoint: %w", err)
	}

	q := u.Query()
	q.Set("period", "annual")
	q.Set("apikey", c.apiKey)
	u.RawQuery = q.Encode()

	return u.String(), nil
}

// redact replaces the request URL in transport errors with the bare endpoint
// so the API key never reaches logs.
func (c *Client) redact(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		ue.URL = c.endpoint
	}
	return err
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
