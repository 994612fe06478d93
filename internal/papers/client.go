package papers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Gateway is the set of backend operations the views depend on.
type Gateway interface {
	ListPapers(ctx context.Context, page int, filters ListFilters) (Page, error)
	GetPaper(ctx context.Context, id string) (Paper, error)
	GetRecommendations(ctx context.Context, id string) ([]Recommendation, error)
	SearchPapers(ctx context.Context, query string) ([]Paper, error)
	GetExplanation(ctx context.Context, sourceID, recommendedID string) (string, error)
}

// Config configures a Client.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	RateLimit  float64
	Burst      int
	MaxRetries int
	RetryDelay time.Duration
	UserAgent  string

	// HTTPClient overrides the transport. Timeout is ignored when set.
	HTTPClient *http.Client
	Logger     zerolog.Logger
}

const (
	defaultTimeout    = 30 * time.Second
	defaultRetryDelay = 500 * time.Millisecond
	defaultUserAgent  = "paperscope/dev"
	errorBodyLimit    = 512
)

// Client talks JSON to the backend. It is safe for concurrent use.
type Client struct {
	baseURL    *url.URL
	http       *http.Client
	limiter    *rateLimiter
	maxRetries int
	retryDelay time.Duration
	userAgent  string
	log        zerolog.Logger
}

var _ Gateway = (*Client)(nil)

// NewClient validates cfg and builds a Client.
func NewClient(cfg Config) (*Client, error) {
	raw := strings.TrimSpace(cfg.BaseURL)
	if raw == "" {
		return nil, errors.New("papers: base URL is required")
	}
	base, err := url.Parse(strings.TrimRight(raw, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("papers: parse base URL: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("papers: base URL %q must be http or https", raw)
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = defaultRetryDelay
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if strings.TrimSpace(cfg.UserAgent) == "" {
		cfg.UserAgent = defaultUserAgent
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	return &Client{
		baseURL:    base,
		http:       httpClient,
		limiter:    newRateLimiter(cfg.RateLimit, cfg.Burst),
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
		userAgent:  cfg.UserAgent,
		log:        cfg.Logger.With().Str("component", "papers").Logger(),
	}, nil
}

// BaseURL returns the normalised base URL, always ending in a slash.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// ListPapers fetches one page of the listing.
func (c *Client) ListPapers(ctx context.Context, page int, filters ListFilters) (Page, error) {
	if page < 1 {
		return Page{}, fmt.Errorf("papers: page %d out of range", page)
	}
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	if category := strings.TrimSpace(filters.Category); category != "" {
		query.Set("category", category)
	}
	if search := strings.TrimSpace(filters.Search); search != "" {
		query.Set("search", search)
	}

	var out Page
	if err := c.getJSON(ctx, "papers/", query, &out); err != nil {
		return Page{}, err
	}
	if out.Count < 0 {
		return Page{}, malformed("negative count %d", out.Count)
	}
	return out, nil
}

// GetPaper fetches a single paper. Unknown ids yield ErrNotFound.
func (c *Client) GetPaper(ctx context.Context, id string) (Paper, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Paper{}, fmt.Errorf("papers: %w: empty id", ErrNotFound)
	}
	var out Paper
	if err := c.getJSON(ctx, "papers/"+url.PathEscape(id)+"/", nil, &out); err != nil {
		return Paper{}, err
	}
	if out.ID == "" {
		out.ID = id
	}
	return out, nil
}

// GetRecommendations fetches the ranked similar papers for id in backend order.
func (c *Client) GetRecommendations(ctx context.Context, id string) ([]Recommendation, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("papers: %w: empty id", ErrNotFound)
	}
	var out []Recommendation
	if err := c.getJSON(ctx, "papers/"+url.PathEscape(id)+"/recommendations/", nil, &out); err != nil {
		return nil, err
	}
	for i := range out {
		rec := &out[i]
		if rec.Details.ID == "" {
			rec.Details.ID = rec.RecommendedPaper
		}
		if rec.RecommendedPaper == "" {
			rec.RecommendedPaper = rec.Details.ID
		}
		if rec.Details.ID != rec.RecommendedPaper {
			return nil, malformed("recommendation %s: details id %q does not match %q", rec.ID, rec.Details.ID, rec.RecommendedPaper)
		}
	}
	if out == nil {
		out = []Recommendation{}
	}
	return out, nil
}

// SearchPapers runs a free-text search. A blank query never reaches the network.
func (c *Client) SearchPapers(ctx context.Context, query string) ([]Paper, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []Paper{}, nil
	}
	var out []Paper
	if err := c.getJSON(ctx, "papers/search/", url.Values{"q": {query}}, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []Paper{}
	}
	return out, nil
}

// GetExplanation asks the backend why recommendedID was suggested for sourceID.
func (c *Client) GetExplanation(ctx context.Context, sourceID, recommendedID string) (string, error) {
	sourceID = strings.TrimSpace(sourceID)
	recommendedID = strings.TrimSpace(recommendedID)
	if sourceID == "" || recommendedID == "" {
		return "", fmt.Errorf("papers: %w: both paper ids are required", ErrExplanationUnavailable)
	}
	payload, err := json.Marshal(explainRequest{SourcePaperID: sourceID, RecommendedPaperID: recommendedID})
	if err != nil {
		return "", err
	}

	var out explainResponse
	err = c.doJSON(ctx, http.MethodPost, "rag/explain_recommendation/", nil, payload, &out)
	if err != nil {
		var serverErr *ServerError
		if errors.As(err, &serverErr) && (serverErr.StatusCode == http.StatusNotFound || serverErr.StatusCode == http.StatusBadRequest) {
			return "", fmt.Errorf("papers: %w: %w", ErrExplanationUnavailable, err)
		}
		if errors.Is(err, ErrNotFound) {
			return "", fmt.Errorf("papers: %w: %w", ErrExplanationUnavailable, err)
		}
		return "", err
	}

	text := strings.TrimSpace(out.Explanation)
	if explanationLooksUnavailable(text) {
		c.log.Warn().Str("source", sourceID).Str("recommended", recommendedID).Msg("backend could not explain recommendation")
		return "", ErrExplanationUnavailable
	}
	return text, nil
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	return c.doJSON(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, body []byte, out any) error {
	endpoint := c.baseURL.ResolveReference(&url.URL{Path: path})
	if len(query) > 0 {
		endpoint.RawQuery = query.Encode()
	}
	// Only idempotent reads are retried.
	attempts := 1
	if method == http.MethodGet {
		attempts += c.maxRetries
	}

	logger := c.log.With().Str("method", method).Str("url", endpoint.String()).Logger()
	for attempt := 1; ; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%w: rate limiter: %w", ErrNetwork, err)
		}

		req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), bodyReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", c.userAgent)
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		start := time.Now()
		resp, err := c.http.Do(req)
		if err != nil {
			logger.Warn().Err(err).Int("attempt", attempt).Msg("request failed")
			return fmt.Errorf("%w: %w", ErrNetwork, err)
		}

		if retryable(resp.StatusCode) && attempt < attempts {
			delay := c.retryAfter(resp)
			drain(resp)
			logger.Warn().Int("status", resp.StatusCode).Int("attempt", attempt).Dur("delay", delay).Msg("retrying request")
			if err := sleep(ctx, delay); err != nil {
				return fmt.Errorf("%w: %w", ErrNetwork, err)
			}
			continue
		}

		err = decodeResponse(resp, out)
		event := logger.Debug()
		if IsServerError(err) && !IsNotFound(err) {
			event = logger.Warn()
		}
		event.Int("status", resp.StatusCode).Dur("elapsed", time.Since(start)).Err(err).Msg("request finished")
		return err
	}
}

func decodeResponse(resp *http.Response, out any) error {
	defer resp.Body.Close()
	switch {
	case resp.StatusCode == http.StatusNotFound:
		drainBody(resp.Body)
		return fmt.Errorf("%w: %w", ErrNotFound, &ServerError{StatusCode: resp.StatusCode, Status: resp.Status})
	case resp.StatusCode >= 300:
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
		return &ServerError{StatusCode: resp.StatusCode, Status: resp.Status, Body: string(raw)}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return malformed("decode %T: %v", out, err)
	}
	return nil
}

func retryable(status int) bool {
	switch status {
	case http.StatusTooManyRequests, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

func (c *Client) retryAfter(resp *http.Response) time.Duration {
	value := strings.TrimSpace(resp.Header.Get("Retry-After"))
	if value == "" {
		return c.retryDelay
	}
	if seconds, err := strconv.Atoi(value); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}
	if t, err := http.ParseTime(value); err == nil {
		if delay := time.Until(t); delay > 0 {
			return delay
		}
	}
	return c.retryDelay
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func bodyReader(body []byte) io.Reader {
	if body == nil {
		return nil
	}
	return bytes.NewReader(body)
}

func drain(resp *http.Response) {
	drainBody(resp.Body)
	resp.Body.Close()
}

func drainBody(r io.Reader) {
	_, _ = io.Copy(io.Discard, io.LimitReader(r, 1<<16))
}
