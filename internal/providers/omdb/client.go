package omdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"moviecatalog/catalogservice/internal/domain"
	"moviecatalog/catalogservice/internal/metrics"
)

const (
	defaultBaseURL = "https://www.omdbapi.com/"
	defaultAPIKey  = "88d5d36"
	maxBodyBytes   = 512 * 1024

	// PageSize is the fixed number of stubs the search endpoint returns per page.
	PageSize = 10
)

const (
	endpointTitle  = "title"
	endpointSearch = "search"
	endpointID     = "id"
)

var errUpstreamStatus = errors.New("unexpected upstream status")

// DetailCache stores hydrated records by id.
type DetailCache interface {
	Get(ctx context.Context, id string) (domain.MovieRecord, bool, error)
	Set(ctx context.Context, record domain.MovieRecord) error
}

type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
	cache   DetailCache
	logger  *slog.Logger
}

type Config struct {
	APIKey  string
	BaseURL string
	Client  *http.Client
	Cache   DetailCache
	Logger  *slog.Logger
}

type movieResponse struct {
	Response string `json:"Response"`
	Error    string `json:"Error,omitempty"`
	ImdbID   string `json:"imdbID"`
	Title    string `json:"Title"`
	Year     string `json:"Year"`
	Rated    string `json:"Rated"`
	Released string `json:"Released"`
	Runtime  string `json:"Runtime"`
	Genre    string `json:"Genre"`
	Director string `json:"Director"`
	Writer   string `json:"Writer"`
	Actors   string `json:"Actors"`
	Plot     string `json:"Plot"`
}

type searchItem struct {
	Title  string `json:"Title"`
	Year   string `json:"Year"`
	ImdbID string `json:"imdbID"`
	Type   string `json:"Type"`
}

type searchResponse struct {
	Response     string       `json:"Response"`
	Error        string       `json:"Error,omitempty"`
	Search       []searchItem `json:"Search"`
	TotalResults string       `json:"totalResults"`
}

func NewClient(cfg Config) *Client {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		apiKey = defaultAPIKey
	}
	httpClient := cfg.Client
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/") + "/",
		http:    httpClient,
		cache:   cfg.Cache,
		logger:  logger,
	}
}

// FetchByTitle returns the best match for title. Upstream misses and
// failures both report false.
func (c *Client) FetchByTitle(ctx context.Context, title string) (domain.MovieRecord, bool) {
	return c.LookupByTitle(ctx, title).Found()
}

// FetchDetailsByID hydrates a stub into a full record.
func (c *Client) FetchDetailsByID(ctx context.Context, id string) (domain.MovieRecord, bool) {
	return c.LookupByID(ctx, id).Found()
}

// SearchByQuery returns one page of stubs, empty on failure or exhaustion.
func (c *Client) SearchByQuery(ctx context.Context, query string, page int) domain.SearchPage {
	result := c.LookupPage(ctx, query, page)
	if result.Status != domain.LookupFound {
		return domain.SearchPage{}
	}
	return result.Page
}

func (c *Client) LookupByTitle(ctx context.Context, title string) domain.Lookup {
	title = strings.TrimSpace(title)
	if title == "" {
		return domain.NotFound()
	}
	return c.lookupMovie(ctx, endpointTitle, url.Values{"t": {title}})
}

func (c *Client) LookupByID(ctx context.Context, id string) domain.Lookup {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.NotFound()
	}

	if c.cache != nil {
		record, ok, err := c.cache.Get(ctx, id)
		switch {
		case err != nil:
			c.logger.Debug("omdb cache read failed", slog.String("id", id), slog.String("error", err.Error()))
		case ok:
			metrics.CacheHitsTotal.Inc()
			return domain.Found(record)
		default:
			metrics.CacheMissesTotal.Inc()
		}
	}

	lookup := c.lookupMovie(ctx, endpointID, url.Values{"i": {id}})
	if lookup.Status == domain.LookupFound && c.cache != nil {
		if err := c.cache.Set(ctx, lookup.Record); err != nil {
			c.logger.Debug("omdb cache write failed", slog.String("id", id), slog.String("error", err.Error()))
		}
	}
	return lookup
}

func (c *Client) LookupPage(ctx context.Context, query string, page int) domain.PageLookup {
	query = strings.TrimSpace(query)
	if query == "" {
		return domain.PageLookup{Status: domain.LookupNotFound}
	}
	if page < 1 {
		page = 1
	}

	var payload searchResponse
	err := c.get(ctx, endpointSearch, url.Values{"s": {query}, "page": {strconv.Itoa(page)}}, &payload)
	if err != nil {
		observe(endpointSearch, domain.LookupTransportError)
		return domain.PageLookup{Status: domain.LookupTransportError, Err: err}
	}
	if !isTrue(payload.Response) {
		observe(endpointSearch, domain.LookupNotFound)
		return domain.PageLookup{Status: domain.LookupNotFound}
	}

	stubs := make([]domain.SearchStub, 0, len(payload.Search))
	for _, item := range payload.Search {
		id := strings.TrimSpace(item.ImdbID)
		if id == "" {
			continue
		}
		stubs = append(stubs, domain.SearchStub{
			ID:    id,
			Title: item.Title,
			Year:  item.Year,
			Type:  item.Type,
		})
	}
	observe(endpointSearch, domain.LookupFound)
	return domain.PageLookup{
		Status: domain.LookupFound,
		Page: domain.SearchPage{
			Stubs:        stubs,
			TotalResults: parseTotal(payload.TotalResults),
		},
	}
}

func (c *Client) lookupMovie(ctx context.Context, endpoint string, params url.Values) domain.Lookup {
	var payload movieResponse
	if err := c.get(ctx, endpoint, params, &payload); err != nil {
		observe(endpoint, domain.LookupTransportError)
		return domain.TransportError(err)
	}
	if !isTrue(payload.Response) || strings.TrimSpace(payload.ImdbID) == "" {
		observe(endpoint, domain.LookupNotFound)
		return domain.NotFound()
	}
	observe(endpoint, domain.LookupFound)
	return domain.Found(payload.record())
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values, dest any) error {
	params.Set("apikey", c.apiKey)
	reqURL := c.baseURL + "?" + params.Encode()

	startedAt := time.Now()
	defer func() {
		metrics.UpstreamRequestDuration.WithLabelValues(endpoint).Observe(time.Since(startedAt).Seconds())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("%w: omdb HTTP %d: %s", errUpstreamStatus, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("decode omdb %s response: %w", endpoint, err)
	}
	return nil
}

func (r movieResponse) record() domain.MovieRecord {
	return domain.MovieRecord{
		ID:       strings.TrimSpace(r.ImdbID),
		Title:    r.Title,
		Year:     r.Year,
		Rated:    r.Rated,
		Released: r.Released,
		Runtime:  r.Runtime,
		Genre:    r.Genre,
		Director: r.Director,
		Writer:   r.Writer,
		Actors:   r.Actors,
		Plot:     r.Plot,
	}
}

func isTrue(raw string) bool {
	return strings.EqualFold(strings.TrimSpace(raw), "true")
}

func parseTotal(raw string) int {
	total, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || total < 0 {
		return 0
	}
	return total
}

func observe(endpoint string, status domain.LookupStatus) {
	metrics.UpstreamRequestsTotal.WithLabelValues(endpoint, string(status)).Inc()
}
