// Package liquidity fetches per-position liquidity details from the
// AllBridge Core API.
package liquidity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	coreconfig "github.com/opanasiuk-oleksii/allbridge-liquidity-bot/core/config"
)

// Details is the position snapshot for one (owner, token) pair.
type Details struct {
	RewardDebt decimal.Decimal `json:"rewardDebt"`
	LPAmount   decimal.Decimal `json:"lpAmount"`
}

// Client fetches liquidity details over HTTP.
type Client struct {
	baseURL string
	timeout time.Duration
	http    *http.Client
}

// NewClient builds a liquidity client from configuration.
func NewClient(cfg coreconfig.AllbridgeConfig) *Client {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(cfg.APIURL), "/"),
		timeout: timeout,
		http:    &http.Client{Timeout: timeout},
	}
}

// Details fetches the current position for an owner and token address.
// A missing position (empty or null body) returns (nil, nil).
func (c *Client) Details(ctx context.Context, ownerAddress, tokenAddress string) (*Details, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	q := url.Values{}
	q.Set("ownerAddress", ownerAddress)
	q.Set("tokenAddress", tokenAddress)
	reqURL := c.baseURL + "/liquidity/details?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build liquidity request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch liquidity details: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch liquidity details: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read liquidity response: %w", err)
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) || bytes.Equal(trimmed, []byte("{}")) || bytes.Equal(trimmed, []byte("[]")) {
		return nil, nil
	}

	var details Details
	if err := json.Unmarshal(trimmed, &details); err != nil {
		return nil, fmt.Errorf("decode liquidity response: %w", err)
	}
	return &details, nil
}
