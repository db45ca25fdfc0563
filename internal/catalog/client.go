// Package catalog is a client for the Google Books volumes API.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/dom/libriverse/internal/logging"
	"github.com/dom/libriverse/internal/metrics"
)

const (
	DefaultBaseURL = "https://www.googleapis.com/books/v1"

	// Google Books rejects maxResults above 40.
	MaxSearchResults = 40

	breakerName = "google-books"
)

var (
	ErrVolumeNotFound = errors.New("volume not found")
	ErrUnavailable    = errors.New("book catalog unavailable")
)

// Volume is the subset of a Google Books volume the server stores.
type Volume struct {
	ID         string     `json:"id"`
	VolumeInfo VolumeInfo `json:"volumeInfo"`
}

type VolumeInfo struct {
	Title         string     `json:"title"`
	Authors       []string   `json:"authors"`
	Publisher     string     `json:"publisher"`
	PublishedDate string     `json:"publishedDate"`
	Description   string     `json:"description"`
	ImageLinks    ImageLinks `json:"imageLinks"`
}

type ImageLinks struct {
	SmallThumbnail string `json:"smallThumbnail"`
	Thumbnail      string `json:"thumbnail"`
}

type SearchResult struct {
	TotalItems int       `json:"totalItems"`
	Items      []*Volume `json:"items"`
}

type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	cb         *gobreaker.CircuitBreaker[*http.Response]
}

// NewClient builds a client whose calls go through a circuit breaker. The
// breaker opens after 5 consecutive failures and probes again after 30s.
// Not-found responses count as successes.
func NewClient(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	metrics.CatalogBreakerState.Set(0)

	cb := gobreaker.NewCircuitBreaker[*http.Response](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().
				Str("component", "catalog").
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state change")
			metrics.CatalogBreakerState.Set(stateValue(to))
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrVolumeNotFound)
		},
	})

	return &Client{
		baseURL:    baseURL,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
		cb:         cb,
	}
}

// GetVolume fetches a single volume by its Google Books id.
func (c *Client) GetVolume(ctx context.Context, id string) (*Volume, error) {
	if id == "" {
		return nil, ErrVolumeNotFound
	}

	params := url.Values{}
	var volume Volume
	if err := c.get(ctx, "get_volume", "/volumes/"+url.PathEscape(id), params, &volume); err != nil {
		return nil, err
	}
	if volume.ID == "" {
		volume.ID = id
	}
	return &volume, nil
}

// Search runs a free-text volume query. page is 1-based.
func (c *Client) Search(ctx context.Context, query string, page, limit int) (*SearchResult, error) {
	if limit <= 0 || limit > MaxSearchResults {
		limit = MaxSearchResults
	}
	if page < 1 {
		page = 1
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("startIndex", strconv.Itoa((page-1)*limit))
	params.Set("maxResults", strconv.Itoa(limit))

	var result SearchResult
	if err := c.get(ctx, "search", "/volumes", params, &result); err != nil {
		return nil, err
	}
	if result.Items == nil {
		result.Items = []*Volume{}
	}
	return &result, nil
}

func (c *Client) get(ctx context.Context, operation, path string, params url.Values, out interface{}) error {
	if c.apiKey != "" {
		params.Set("key", c.apiKey)
	}
	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	resp, err := c.cb.Execute(func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			return resp, nil
		case resp.StatusCode == http.StatusNotFound:
			drain(resp)
			return nil, ErrVolumeNotFound
		case resp.StatusCode == http.StatusBadRequest && operation == "get_volume":
			// Malformed volume ids come back as 400 rather than 404.
			drain(resp)
			return nil, ErrVolumeNotFound
		default:
			drain(resp)
			return nil, fmt.Errorf("catalog returned status %d", resp.StatusCode)
		}
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrVolumeNotFound):
			metrics.RecordCatalogRequest(operation, "not_found")
			return err
		case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
			metrics.RecordCatalogRequest(operation, "open")
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		default:
			metrics.RecordCatalogRequest(operation, "error")
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		metrics.RecordCatalogRequest(operation, "error")
		return fmt.Errorf("%w: failed to decode response: %v", ErrUnavailable, err)
	}

	metrics.RecordCatalogRequest(operation, "ok")
	return nil
}

// State reports the breaker state, mainly for health output.
func (c *Client) State() gobreaker.State {
	return c.cb.State()
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
