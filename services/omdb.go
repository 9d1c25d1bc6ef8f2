package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/avast/retry-go"
	"resty.dev/v3"
)

const (
	detailTimeout = 10 * time.Second
	searchTimeout = 5 * time.Second

	cacheKeyPrefix = "omdb:"
)

// MetadataResult is the normalized provider answer for one title. Poster is
// nil when the provider reports its "N/A" sentinel.
type MetadataResult struct {
	Title    string
	Poster   *string
	Year     string
	ImdbID   string
	Plot     string
	Director string
}

// Suggestion is the lightweight search result used for autocomplete.
type Suggestion struct {
	Title  string  `json:"title"`
	Year   string  `json:"year"`
	Poster *string `json:"poster"`
	ImdbID string  `json:"imdbId"`
}

type omdbDetailResponse struct {
	Response string `json:"Response"`
	Error    string `json:"Error"`
	Title    string `json:"Title"`
	Year     string `json:"Year"`
	ImdbID   string `json:"imdbID"`
	Plot     string `json:"Plot"`
	Director string `json:"Director"`
	Poster   string `json:"Poster"`
}

type omdbSearchResponse struct {
	Response string `json:"Response"`
	Error    string `json:"Error"`
	Search   []struct {
		Title  string `json:"Title"`
		Year   string `json:"Year"`
		ImdbID string `json:"imdbID"`
		Poster string `json:"Poster"`
	} `json:"Search"`
}

// OMDBClient fetches movie metadata from the OMDB API, consulting the cache
// before any network call. Successful lookups are cached; failures never are,
// so a later lookup retries the network.
type OMDBClient struct {
	http   *resty.Client
	apiKey string
	cache  *MetadataCache
	logger *slog.Logger
}

func NewOMDBClient(baseURL, apiKey string, cache *MetadataCache, logger *slog.Logger) *OMDBClient {
	client := resty.New()
	client.SetBaseURL(baseURL)

	return &OMDBClient{
		http:   client,
		apiKey: apiKey,
		cache:  cache,
		logger: logger,
	}
}

func (c *OMDBClient) Close() error {
	return c.http.Close()
}

func cacheKey(title string) string {
	return cacheKeyPrefix + strings.ToLower(strings.TrimSpace(title))
}

// Lookup returns metadata for an exact title. The error wraps ErrNotFound
// when the provider has no match and ErrUpstream on network or decode
// failures.
func (c *OMDBClient) Lookup(ctx context.Context, title string) (*MetadataResult, error) {
	key := cacheKey(title)
	if cached, ok := c.cache.Get(key); ok {
		c.logger.Debug("metadata cache hit", "title", title)
		return &cached, nil
	}

	ctx, cancel := context.WithTimeout(ctx, detailTimeout)
	defer cancel()

	var out omdbDetailResponse
	err := retry.Do(
		func() error {
			resp, err := c.http.R().
				SetContext(ctx).
				SetQueryParams(map[string]string{
					"t":      title,
					"type":   "movie",
					"apikey": c.apiKey,
				}).
				SetResult(&out).
				Get("/")
			if err != nil {
				return fmt.Errorf("%w: %v", ErrUpstream, err)
			}
			if resp.IsError() {
				return fmt.Errorf("%w: provider returned status %d", ErrUpstream, resp.StatusCode())
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(2),
		retry.Delay(200*time.Millisecond),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		c.logger.Warn("OMDB lookup failed", "title", title, "error", err)
		return nil, err
	}

	if out.Response == "False" {
		if out.Error != "" {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, out.Error)
		}
		return nil, fmt.Errorf("%w: no match for %q", ErrNotFound, title)
	}

	result := MetadataResult{
		Title:    out.Title,
		Poster:   posterOrNil(out.Poster),
		Year:     out.Year,
		ImdbID:   out.ImdbID,
		Plot:     out.Plot,
		Director: out.Director,
	}
	c.cache.Set(key, result)
	c.logger.Debug("metadata cache set", "title", title)

	return &result, nil
}

// Search queries the provider's fuzzy search for autocomplete suggestions.
// Queries shorter than two characters short-circuit to an empty slice without
// touching the network. A provider "not found" also yields an empty slice;
// only transport failures surface as errors.
func (c *OMDBClient) Search(ctx context.Context, query string) ([]Suggestion, error) {
	q := strings.TrimSpace(query)
	if utf8.RuneCountInString(q) < 2 {
		return []Suggestion{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, searchTimeout)
	defer cancel()

	var out omdbSearchResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"s":      q,
			"type":   "movie",
			"apikey": c.apiKey,
		}).
		SetResult(&out).
		Get("/")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: provider returned status %d", ErrUpstream, resp.StatusCode())
	}

	if out.Response == "False" {
		return []Suggestion{}, nil
	}

	suggestions := make([]Suggestion, 0, len(out.Search))
	for _, item := range out.Search {
		suggestions = append(suggestions, Suggestion{
			Title:  item.Title,
			Year:   item.Year,
			Poster: posterOrNil(item.Poster),
			ImdbID: item.ImdbID,
		})
	}
	return suggestions, nil
}

func posterOrNil(poster string) *string {
	if poster == "" || poster == "N/A" {
		return nil
	}
	return &poster
}
