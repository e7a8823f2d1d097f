// Package pools loads the AllBridge Core chains catalog and indexes it for
// chain and token lookups.
package pools

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	coreconfig "github.com/opanasiuk-oleksii/allbridge-liquidity-bot/core/config"
)

// Token is one pool token as served by the catalog endpoint.
type Token struct {
	Symbol       string `json:"symbol"`
	TokenAddress string `json:"tokenAddress"`
	Decimals     int    `json:"decimals"`
}

// Chain is one catalog entry: a chain with its pool tokens.
type Chain struct {
	Name        string  `json:"name"`
	ChainSymbol string  `json:"chainSymbol"`
	Tokens      []Token `json:"tokens"`
}

// Client fetches the chains catalog over HTTP.
type Client struct {
	baseURL string
	timeout time.Duration
	http    *http.Client
}

// NewClient builds a catalog client from configuration.
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

// Fetch retrieves the full chains catalog.
func (c *Client) Fetch(ctx context.Context) ([]Chain, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	url := c.baseURL + "/chains"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build chains request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch chains: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch chains: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("read chains response: %w", err)
	}

	var chains []Chain
	if err := json.Unmarshal(body, &chains); err != nil {
		return nil, fmt.Errorf("decode chains response: %w", err)
	}
	return chains, nil
}
