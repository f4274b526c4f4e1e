package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const defaultBaseURL = "https://api.themoviedb.org"
const defaultTimeout = 10 * time.Second

// Client is a TMDB API client. It authenticates with a v4 read access token
// sent as a bearer header and performs no retries: a failed call surfaces
// immediately to the caller.
type Client struct {
	accessToken string
	baseURL     string
	httpClient  *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a new TMDB client.
func NewClient(accessToken string, opts ...Option) *Client {
	c := &Client{
		accessToken: accessToken,
		baseURL:     defaultBaseURL,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetMovie fetches movie details by TMDB ID.
func (c *Client) GetMovie(ctx context.Context, tmdbID int64, language string) (*Movie, error) {
	path := fmt.Sprintf("/3/movie/%d", tmdbID)
	var movie Movie
	if err := c.get(ctx, path, url.Values{"language": {language}}, &movie); err != nil {
		return nil, err
	}
	return &movie, nil
}

// GetRecommendations fetches the recommendations page for a movie.
func (c *Client) GetRecommendations(ctx context.Context, tmdbID int64, language string) (*Page, error) {
	path := fmt.Sprintf("/3/movie/%d/recommendations", tmdbID)
	var page Page
	if err := c.get(ctx, path, url.Values{"language": {language}}, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// SearchMovies queries TMDB full-text movie search.
func (c *Client) SearchMovies(ctx context.Context, query, language string, pageNum int) (*Page, error) {
	params := url.Values{
		"query":    {query},
		"language": {language},
		"page":     {fmt.Sprintf("%d", pageNum)},
	}
	var page Page
	if err := c.get(ctx, "/3/search/movie", params, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// get performs a single GET request and decodes the JSON response into out.
func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return mapTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return &StatusError{Code: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// mapTransportError distinguishes deadline expiry from connection failure.
func mapTransportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}
	var uerr *url.Error
	if errors.As(err, &uerr) && uerr.Timeout() {
		return ErrTimeout
	}
	return fmt.Errorf("%w: %v", ErrUnreachable, err)
}
