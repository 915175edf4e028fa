// Tidemart - Marketplace Recommendation Service
// Copyright 2026 Tidemart contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tidemart/recommender

package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/tidemart/recommender/internal/recommend"
)

// maxErrorBody bounds how much of a failed response is kept in the error.
const maxErrorBody = 512

// ErrEmptyURL is returned when the client has no catalog URL.
var ErrEmptyURL = errors.New("catalog url is empty")

// Options configures a Client.
type Options struct {
	// URL is the full product listing endpoint.
	URL string

	// Token is sent as a bearer token when set.
	Token string

	// Timeout bounds a single fetch. Default: 10s.
	Timeout time.Duration

	// RateLimit is the maximum fetches per second. Zero disables limiting.
	RateLimit float64

	// Burst is the limiter burst size. Default: 1.
	Burst int

	// UserAgent is sent with every request.
	UserAgent string
}

// Client fetches products over HTTP. It implements recommend.CatalogSource.
type Client struct {
	url        string
	token      string
	userAgent  string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     zerolog.Logger
}

var _ recommend.CatalogSource = (*Client)(nil)

// NewClient creates a catalog client.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewClient(opts Options, logger zerolog.Logger) (*Client, error) {
	if strings.TrimSpace(opts.URL) == "" {
		return nil, ErrEmptyURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.Burst < 1 {
		opts.Burst = 1
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "tidemart-recommender"
	}

	limiter := rate.NewLimiter(rate.Inf, opts.Burst)
	if opts.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), opts.Burst)
	}

	return &Client{
		url:       opts.URL,
		token:     opts.Token,
		userAgent: opts.UserAgent,
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
		limiter: limiter,
		logger:  logger.With().Str("component", "catalog_client").Logger(),
	}, nil
}

// FetchProducts implements recommend.CatalogSource.
func (c *Client) FetchProducts(ctx context.Context) ([]recommend.Product, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("catalog rate limit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build catalog request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		if readErr != nil {
			return nil, fmt.Errorf("catalog returned status %d (failed to read body)", resp.StatusCode)
		}
		return nil, fmt.Errorf("catalog returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read catalog response: %w", err)
	}

	products, err := DecodeProducts(body)
	if err != nil {
		return nil, err
	}

	c.logger.Debug().
		Int("products", len(products)).
		Dur("duration", time.Since(start)).
		Msg("catalog fetched")
	return products, nil
}
