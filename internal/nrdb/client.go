// Package nrdb fetches the card catalog from the NetrunnerDB API.
package nrdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/tidwall/gjson"

	"github.com/arcanaland/cardsync/internal/card"
	"github.com/arcanaland/cardsync/internal/config"
)

// Catalog is a fully read upstream response.
type Catalog struct {
	Cards []card.Record
	// ImageTemplate is the API's imageUrlTemplate, when it sends one.
	ImageTemplate string
}

// Client talks to the card API.
type Client struct {
	url       string
	userAgent string
	http      *http.Client
}

// NewClient creates a client from the API configuration.
func NewClient(cfg config.APIConfig) *Client {
	return &Client{
		url:       cfg.URL,
		userAgent: cfg.UserAgent,
		http: &http.Client{
			Timeout: cfg.Timeout.Duration,
		},
	}
}

// FetchCards downloads and decodes the whole catalog. It returns either every
// card or an error, never a partial list.
func (c *Client) FetchCards(ctx context.Context) (*Catalog, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("nrdb: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("nrdb: fetch %s: %w", c.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("nrdb: fetch %s: HTTP %d", c.url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("nrdb: read body: %w", err)
	}

	return ParseCatalog(body)
}

// ParseCatalog decodes either the v1 response (a bare array of cards) or the
// v2 envelope {"data":[...],"imageUrlTemplate":"..."}.
func ParseCatalog(body []byte) (*Catalog, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("nrdb: response is not valid JSON")
	}

	root := gjson.ParseBytes(body)
	list := root
	catalog := &Catalog{}

	if !root.IsArray() {
		list = root.Get("data")
		if !list.IsArray() {
			return nil, fmt.Errorf("nrdb: response has no card list")
		}
		if tmpl := root.Get("imageUrlTemplate"); tmpl.Exists() {
			catalog.ImageTemplate = tmpl.String()
		}
	}

	catalog.Cards = []card.Record{}
	if err := json.Unmarshal([]byte(list.Raw), &catalog.Cards); err != nil {
		return nil, fmt.Errorf("nrdb: decode cards: %w", err)
	}
	return catalog, nil
}
