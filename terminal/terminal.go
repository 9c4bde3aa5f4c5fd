package terminal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/sig-0/fxvol/surface/types"
)

const marketDataPath = "/api/v1/market-data"

// defaultRate keeps one build's batches well under the terminal's shared
// request budget
var defaultRate = rate.Limit(5)

var errInvalidStatus = errors.New("invalid status code received")

// request is the market-data request body for the terminal bridge
type request struct {
	Securities []string `json:"securities"`
	Fields     []string `json:"fields"`
}

// response is a single security entry in the terminal bridge response
type response struct {
	Security string             `json:"security"`
	Fields   map[string]float64 `json:"fields"`
	Error    string             `json:"error,omitempty"`
	Success  bool               `json:"success"`
}

// Client is the HTTP client for the market-data terminal bridge.
// It implements the surface fetch contract
type Client struct {
	client  *http.Client
	limiter *rate.Limiter
	baseURL string
}

// NewClient creates a new terminal bridge client
func NewClient(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		client: &http.Client{
			Timeout: timeout,
		},
		limiter: rate.NewLimiter(defaultRate, 1),
		baseURL: baseURL,
	}

	// Apply the options
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Fetch retrieves the given fields for the given securities from the
// terminal bridge, one record per security. The call is throttled against
// the shared terminal rate budget
func (c *Client) Fetch(
	ctx context.Context,
	securities, fields []string,
) ([]types.QuoteRecord, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("unable to acquire rate slot: %w", err)
	}

	body, err := json.Marshal(
		request{
			Securities: securities,
			Fields:     fields,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("unable to marshal request body: %w", err)
	}

	// Prepare the request
	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+marketDataPath,
		bytes.NewReader(body),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to create new POST request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	// Execute the request
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("unable to execute POST request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %d", errInvalidStatus, resp.StatusCode)
	}

	var entries []response

	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("unable to decode response body: %w", err)
	}

	records := make([]types.QuoteRecord, 0, len(entries))

	for _, entry := range entries {
		records = append(records, entry.toQuoteRecord())
	}

	return records, nil
}

// toQuoteRecord maps a loosely-typed terminal entry into a QuoteRecord.
// Absent fields stay nil: downstream validation decides what that means
func (r response) toQuoteRecord() types.QuoteRecord {
	record := types.QuoteRecord{
		Security: r.Security,
		Success:  r.Success,
		Error:    r.Error,
	}

	fieldValue := func(name string) *float64 {
		value, ok := r.Fields[name]
		if !ok {
			return nil
		}

		return &value
	}

	record.Last = fieldValue("PX_LAST")
	record.Bid = fieldValue("PX_BID")
	record.Ask = fieldValue("PX_ASK")

	return record
}
