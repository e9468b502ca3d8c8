// Package pokeapi is the remote enrichment pipeline: a cached client for
// the public PokeAPI plus the transforms that turn its payloads into the
// domain model.
package pokeapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// StatusError is returned for non-2xx responses.
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("pokeapi: unexpected status %d for %s", e.StatusCode, e.URL)
}

// Client fetches PokeAPI resources through a URL-keyed cache. Entries are
// never evicted; the catalog is small and bounded, so unbounded growth is
// an accepted tradeoff. Concurrent requests for the same URL are
// collapsed into a single round-trip.
type Client struct {
	baseURL string
	httpc   *http.Client
	logger  *zap.Logger

	mu    sync.RWMutex
	cache map[string][]byte
	group singleflight.Group
}

// NewClient builds a client against baseURL (no trailing slash).
func NewClient(baseURL string, logger *zap.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpc:   http.DefaultClient,
		logger:  logger,
		cache:   make(map[string][]byte),
	}
}

// ClearCache drops every cached response. Used by tests.
func (c *Client) ClearCache() {
	c.mu.Lock()
	c.cache = make(map[string][]byte)
	c.mu.Unlock()
}

// CacheSize reports the number of cached responses.
func (c *Client) CacheSize() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}

func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	c.mu.RLock()
	body, hit := c.cache[url]
	c.mu.RUnlock()

	if !hit {
		v, err, _ := c.group.Do(url, func() (any, error) {
			return c.fetch(ctx, url)
		})
		if err != nil {
			return err
		}
		body = v.([]byte)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("pokeapi: malformed response from %s: %w", url, err)
	}
	return nil
}

func (c *Client) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode, URL: url}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.cache[url] = body
	c.mu.Unlock()
	return body, nil
}

// FetchPokemon retrieves the detail record by pokédex id or api name.
func (c *Client) FetchPokemon(ctx context.Context, idOrName string) (*PokemonResource, error) {
	var out PokemonResource
	if err := c.getJSON(ctx, fmt.Sprintf("%s/pokemon/%s", c.baseURL, idOrName), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FetchPokemonByID retrieves the detail record by pokédex id.
func (c *Client) FetchPokemonByID(ctx context.Context, id int) (*PokemonResource, error) {
	return c.FetchPokemon(ctx, fmt.Sprintf("%d", id))
}

// FetchSpecies retrieves the species record for a pokédex id.
func (c *Client) FetchSpecies(ctx context.Context, id int) (*SpeciesResource, error) {
	var out SpeciesResource
	if err := c.getJSON(ctx, fmt.Sprintf("%s/pokemon-species/%d", c.baseURL, id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FetchEvolutionChain retrieves an evolution chain by its id.
func (c *Client) FetchEvolutionChain(ctx context.Context, id int) (*EvolutionChainResource, error) {
	var out EvolutionChainResource
	if err := c.getJSON(ctx, fmt.Sprintf("%s/evolution-chain/%d", c.baseURL, id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FetchForm retrieves pokemon-form metadata by id or name.
func (c *Client) FetchForm(ctx context.Context, idOrName string) (*FormResource, error) {
	var out FormResource
	if err := c.getJSON(ctx, fmt.Sprintf("%s/pokemon-form/%s", c.baseURL, idOrName), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FetchList retrieves one page of the pokemon list.
func (c *Client) FetchList(ctx context.Context, limit, offset int) (*ListResponse, error) {
	var out ListResponse
	url := fmt.Sprintf("%s/pokemon?limit=%d&offset=%d", c.baseURL, limit, offset)
	if err := c.getJSON(ctx, url, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
