package pools

import (
	"context"
	"fmt"
)

// TokenMeta is the lookup result for a (chain, token) pair.
type TokenMeta struct {
	Address  string
	Decimals int
}

// Catalog is an in-memory index of the chains catalog. It is built once and
// read-only afterwards; callers reload it by building a new Catalog.
type Catalog struct {
	// chain display name -> chain symbol, in catalog order
	names   []string
	symbols map[string]string

	// chain symbol -> token symbol -> meta, token order preserved per chain
	tokens map[string][]string
	index  map[string]map[string]TokenMeta
}

// Build indexes a fetched catalog.
func Build(chains []Chain) *Catalog {
	c := &Catalog{
		symbols: make(map[string]string),
		tokens:  make(map[string][]string),
		index:   make(map[string]map[string]TokenMeta),
	}
	for _, chain := range chains {
		if chain.ChainSymbol == "" {
			continue
		}
		if chain.Name != "" {
			if _, dup := c.symbols[chain.Name]; !dup {
				c.names = append(c.names, chain.Name)
				c.symbols[chain.Name] = chain.ChainSymbol
			}
		}
		byToken := c.index[chain.ChainSymbol]
		if byToken == nil {
			byToken = make(map[string]TokenMeta)
			c.index[chain.ChainSymbol] = byToken
		}
		for _, t := range chain.Tokens {
			if t.Symbol == "" {
				continue
			}
			if _, dup := byToken[t.Symbol]; !dup {
				c.tokens[chain.ChainSymbol] = append(c.tokens[chain.ChainSymbol], t.Symbol)
			}
			byToken[t.Symbol] = TokenMeta{Address: t.TokenAddress, Decimals: t.Decimals}
		}
	}
	return c
}

// Load fetches and indexes the catalog in one step.
func Load(ctx context.Context, client *Client) (*Catalog, error) {
	chains, err := client.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("load pools catalog: %w", err)
	}
	return Build(chains), nil
}

// ChainNames lists chain display names in catalog order.
func (c *Catalog) ChainNames() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// ChainSymbol maps a chain display name to its symbol.
func (c *Catalog) ChainSymbol(name string) (string, bool) {
	sym, ok := c.symbols[name]
	return sym, ok
}

// HasChain reports whether the chain symbol is present.
func (c *Catalog) HasChain(chainSymbol string) bool {
	_, ok := c.index[chainSymbol]
	return ok
}

// TokenSymbols lists token symbols for a chain in catalog order.
func (c *Catalog) TokenSymbols(chainSymbol string) []string {
	src := c.tokens[chainSymbol]
	out := make([]string, len(src))
	copy(out, src)
	return out
}

// HasToken reports whether the token is served on the chain.
func (c *Catalog) HasToken(chainSymbol, tokenSymbol string) bool {
	_, ok := c.index[chainSymbol][tokenSymbol]
	return ok
}

// Resolve returns token metadata for a (chain, token) pair.
func (c *Catalog) Resolve(chainSymbol, tokenSymbol string) (TokenMeta, bool) {
	meta, ok := c.index[chainSymbol][tokenSymbol]
	return meta, ok
}
