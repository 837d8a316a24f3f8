package amc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	userAgent       = "Marquee-Go/0.1.0"
	defaultPageSize = 100
)

// Sentinel errors for upstream failures the caller must distinguish.
// Rate-limit and auth failures abort a whole run; not-found does not.
var (
	ErrRateLimited  = errors.New("catalog rate limited the request")
	ErrUnauthorized = errors.New("catalog rejected the vendor key")
	ErrNotFound     = errors.New("catalog resource not found")
)

// Client provides access to the theatre catalog API.
type Client struct {
	vendorKey  string
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout overrides the default request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// New creates a catalog client.
func New(vendorKey, baseURL string, opts ...Option) (*Client, error) {
	vendorKey = strings.TrimSpace(vendorKey)
	if vendorKey == "" {
		return nil, errors.New("catalog vendor key required")
	}
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("catalog base url required")
	}
	client := &Client{
		vendorKey:  vendorKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// TheatreBySlug fetches a single theatre by its catalog slug. Returns
// ErrNotFound when the slug is unknown.
func (c *Client) TheatreBySlug(ctx context.Context, slug string) (*Theatre, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, errors.New("theatre slug must not be empty")
	}

	var theatre Theatre
	if err := c.get(ctx, "/theatres/"+url.PathEscape(slug), nil, &theatre); err != nil {
		return nil, err
	}
	return &theatre, nil
}

// SearchTheatres performs a name-based theatre search.
func (c *Client) SearchTheatres(ctx context.Context, name string) ([]Theatre, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("theatre name must not be empty")
	}

	params := url.Values{}
	params.Set("name", name)
	params.Set("page-size", strconv.Itoa(10))

	var page theatresPage
	if err := c.get(ctx, "/theatres", params, &page); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return page.Embedded.Theatres, nil
}

// ListMovies fetches the full catalog snapshot: every now-playing and advance
// title, walking pagination until exhausted. Fetched once per run so the
// snapshot can be shared across watchlist entries.
func (c *Client) ListMovies(ctx context.Context) ([]Movie, error) {
	var movies []Movie
	for _, view := range []string{"now-playing", "advance"} {
		pageMovies, err := c.listMovieView(ctx, view)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return nil, err
		}
		movies = append(movies, pageMovies...)
	}
	return movies, nil
}

func (c *Client) listMovieView(ctx context.Context, view string) ([]Movie, error) {
	var movies []Movie
	for pageNumber := 1; ; pageNumber++ {
		params := url.Values{}
		params.Set("page-size", strconv.Itoa(defaultPageSize))
		params.Set("page-number", strconv.Itoa(pageNumber))

		var page moviesPage
		if err := c.get(ctx, "/movies/views/"+view, params, &page); err != nil {
			return nil, err
		}
		movies = append(movies, page.Embedded.Movies...)
		if len(page.Embedded.Movies) == 0 || pageNumber >= page.PageCount {
			break
		}
	}
	return movies, nil
}

// Showtimes fetches the current showings of a movie at a theatre. A catalog
// 404 means the combination has no showings scheduled and yields an empty
// slice, not an error.
func (c *Client) Showtimes(ctx context.Context, movieID, theatreID int64) ([]Showtime, error) {
	if movieID == 0 || theatreID == 0 {
		return nil, errors.New("movie and theatre ids are required")
	}

	params := url.Values{}
	params.Set("movie-id", strconv.FormatInt(movieID, 10))
	params.Set("theatre-id", strconv.FormatInt(theatreID, 10))
	params.Set("page-size", strconv.Itoa(defaultPageSize))

	var page showtimesPage
	if err := c.get(ctx, "/showtimes", params, &page); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return page.Embedded.Showtimes, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	endpoint, err := url.Parse(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("parse catalog url: %w", err)
	}
	if params != nil {
		endpoint.RawQuery = params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("X-AMC-Vendor-Key", c.vendorKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w (%s)", ErrRateLimited, path)
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w (%s returned %d)", ErrUnauthorized, path, resp.StatusCode)
	case http.StatusNotFound:
		return fmt.Errorf("%w (%s)", ErrNotFound, path)
	default:
		return fmt.Errorf("catalog %s returned %d", path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode catalog response: %w", err)
	}
	return nil
}
