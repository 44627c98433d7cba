package worldbank

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"wdireport/internal/config"
	"wdireport/internal/domain"
	"wdireport/internal/ports"
)

const maxBodySize = 32 << 20

// Client talks to the World Bank v2 API: indicator series and the country
// list with income-level metadata. Responses are paginated; the client
// walks every page. A ResponseCache, when present, short-circuits repeated
// requests; cache trouble degrades to plain fetching.
type Client struct {
	baseURL   string
	userAgent string
	perPage   int
	client    *http.Client
	cache     ports.ResponseCache
	logger    *slog.Logger
}

var _ ports.IndicatorSource = (*Client)(nil)
var _ ports.CountrySource = (*Client)(nil)

// NewClient wires an API client from configuration. cache and logger may be
// nil.
func NewClient(cfg config.APIConfig, cache ports.ResponseCache, logger *slog.Logger) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	perPage := cfg.PerPage
	if perPage <= 0 {
		perPage = 1000
	}
	return &Client{
		baseURL:   cfg.BaseURL,
		userAgent: cfg.UserAgent,
		perPage:   perPage,
		client:    &http.Client{Timeout: timeout},
		cache:     cache,
		logger:    logger,
	}
}

// pageInfo is the first element of every well-formed API response.
type pageInfo struct {
	Page  int `json:"page"`
	Pages int `json:"pages"`
	Total int `json:"total"`
}

type apiMessage struct {
	ID    string `json:"id"`
	Key   string `json:"key"`
	Value string `json:"value"`
}

type apiError struct {
	Message []apiMessage `json:"message"`
}

type indicatorRow struct {
	Country struct {
		ID    string `json:"id"`
		Value string `json:"value"`
	} `json:"country"`
	CountryISO3 string   `json:"countryiso3code"`
	Date        string   `json:"date"`
	Value       *float64 `json:"value"`
}

type countryRow struct {
	ID          string `json:"id"`
	ISO2Code    string `json:"iso2Code"`
	Name        string `json:"name"`
	IncomeLevel struct {
		ID    string `json:"id"`
		Value string `json:"value"`
	} `json:"incomeLevel"`
}

// FetchIndicator retrieves every observation for one indicator code over
// the inclusive year window. One row per country per reporting period;
// periods the source reports as null carry a NaN value. Failures of any
// kind come back as a *RetrievalError.
func (c *Client) FetchIndicator(ctx context.Context, code string, window domain.ObservationWindow) ([]domain.Observation, error) {
	if code == "" {
		return nil, &RetrievalError{Resource: "indicator", Err: errors.New("indicator code is empty")}
	}

	query := url.Values{}
	query.Set("date", fmt.Sprintf("%d:%d", window.FromYear, window.ToYear))

	raw, err := c.fetchAllPages(ctx, "country/all/indicator/"+url.PathEscape(code), query)
	if err != nil {
		return nil, &RetrievalError{Resource: code, Err: err}
	}

	observations := make([]domain.Observation, 0, len(raw))
	for _, payload := range raw {
		var row indicatorRow
		if err := json.Unmarshal(payload, &row); err != nil {
			return nil, &RetrievalError{Resource: code, Err: fmt.Errorf("decode observation: %w", err)}
		}

		date, err := parseObservationDate(row.Date)
		if err != nil {
			return nil, &RetrievalError{Resource: code, Err: err}
		}

		value := math.NaN()
		if row.Value != nil {
			value = *row.Value
		}

		observations = append(observations, domain.Observation{
			Country:     row.Country.Value,
			CountryISO3: row.CountryISO3,
			Date:        date,
			Value:       value,
		})
	}

	c.debug("indicator fetched", "code", code, "observations", len(observations))
	return observations, nil
}

// FetchCountries retrieves the full country list, nested income-level
// objects included. Aggregate rollup rows are returned as-is; filtering
// them out is the reference builder's job.
func (c *Client) FetchCountries(ctx context.Context) ([]domain.CountryRecord, error) {
	raw, err := c.fetchAllPages(ctx, "country", url.Values{})
	if err != nil {
		return nil, fmt.Errorf("fetch country list: %w", err)
	}

	records := make([]domain.CountryRecord, 0, len(raw))
	for _, payload := range raw {
		var row countryRow
		if err := json.Unmarshal(payload, &row); err != nil {
			return nil, fmt.Errorf("decode country record: %w", err)
		}
		records = append(records, domain.CountryRecord{
			ID:       row.ID,
			ISO2Code: row.ISO2Code,
			Name:     row.Name,
			IncomeLevel: domain.IncomeLevelRef{
				ID:    row.IncomeLevel.ID,
				Value: row.IncomeLevel.Value,
			},
		})
	}

	c.debug("country list fetched", "records", len(records))
	return records, nil
}

func (c *Client) fetchAllPages(ctx context.Context, path string, query url.Values) ([]json.RawMessage, error) {
	var rows []json.RawMessage
	page := 1
	for {
		pageURL, err := c.buildPageURL(path, query, page)
		if err != nil {
			return nil, err
		}

		info, pageRows, err := c.fetchPage(ctx, pageURL)
		if err != nil {
			return nil, err
		}
		rows = append(rows, pageRows...)

		if info.Pages <= 0 || page >= info.Pages {
			return rows, nil
		}
		page++
	}
}

func (c *Client) buildPageURL(path string, query url.Values, page int) (string, error) {
	parsed, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base url %s: %w", c.baseURL, err)
	}
	parsed = parsed.JoinPath(path)

	q := url.Values{}
	for key, vals := range query {
		for _, v := range vals {
			q.Add(key, v)
		}
	}
	q.Set("format", "json")
	q.Set("per_page", strconv.Itoa(c.perPage))
	q.Set("page", strconv.Itoa(page))
	parsed.RawQuery = q.Encode()
	return parsed.String(), nil
}

func (c *Client) fetchPage(ctx context.Context, pageURL string) (pageInfo, []json.RawMessage, error) {
	if body, ok := c.cacheGet(ctx, pageURL); ok {
		info, rows, err := decodePage(body)
		if err == nil {
			return info, rows, nil
		}
		c.warn("cached response unusable, refetching", "url", pageURL, "error", err)
	}

	body, err := c.get(ctx, pageURL)
	if err != nil {
		return pageInfo{}, nil, err
	}

	info, rows, err := decodePage(body)
	if err != nil {
		return pageInfo{}, nil, err
	}

	c.cachePut(ctx, pageURL, body)
	return info, rows, nil
}

func (c *Client) get(ctx context.Context, pageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("world bank api returned %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return body, nil
}

// decodePage splits a response into its [page-info, rows] halves. The API
// reports request errors as a single-element array carrying a message list,
// with HTTP status 200, so shape checking is the real error detector here.
func decodePage(body []byte) (pageInfo, []json.RawMessage, error) {
	var elements []json.RawMessage
	if err := json.Unmarshal(body, &elements); err != nil {
		return pageInfo{}, nil, fmt.Errorf("parse response: %w", err)
	}

	if len(elements) < 2 {
		var apiErr apiError
		if len(elements) == 1 && json.Unmarshal(elements[0], &apiErr) == nil && len(apiErr.Message) > 0 {
			return pageInfo{}, nil, fmt.Errorf("api error: %s", apiErr.Message[0].Value)
		}
		return pageInfo{}, nil, errors.New("unexpected response shape")
	}

	var info pageInfo
	if err := json.Unmarshal(elements[0], &info); err != nil {
		return pageInfo{}, nil, fmt.Errorf("parse page info: %w", err)
	}

	var rows []json.RawMessage
	if err := json.Unmarshal(elements[1], &rows); err != nil {
		return pageInfo{}, nil, fmt.Errorf("parse rows: %w", err)
	}
	return info, rows, nil
}

func (c *Client) cacheGet(ctx context.Context, key string) ([]byte, bool) {
	if c.cache == nil {
		return nil, false
	}
	body, ok, err := c.cache.Get(ctx, key)
	if err != nil {
		c.warn("cache read failed", "url", key, "error", err)
		return nil, false
	}
	return body, ok
}

func (c *Client) cachePut(ctx context.Context, key string, body []byte) {
	if c.cache == nil {
		return
	}
	if err := c.cache.Put(ctx, key, body); err != nil {
		c.warn("cache write failed", "url", key, "error", err)
	}
}

func (c *Client) debug(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Debug(msg, args...)
	}
}

func (c *Client) warn(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Warn(msg, args...)
	}
}
