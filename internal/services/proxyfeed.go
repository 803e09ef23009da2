package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"

	"github.com/fundfolio/fund-tracker/internal/metrics"
	"github.com/fundfolio/fund-tracker/internal/models"
)

const (
	proxyFeedDefaultTimeout = 3 * time.Second
	proxyCacheSize          = 256
	proxyCacheTTL           = 30 * time.Second
)

// ProxyFeedService fetches intraday quotes for proxy instruments from a
// REST quote API. Like the NAV feed, every failure collapses into
// ErrFeedUnavailable.
type ProxyFeedService struct {
	client  *http.Client
	baseURL string
	limiter *rate.Limiter
	cache   *lru.Cache[string, proxyCacheEntry]
}

type proxyCacheEntry struct {
	quote     models.ProxyQuote
	fetchedAt time.Time
}

// proxyQuoteResponse is the expected JSON shape from the quote API.
type proxyQuoteResponse struct {
	Symbol     string  `json:"symbol"`
	PriorClose float64 `json:"prior_close"`
	Current    float64 `json:"current"`
}

// NewProxyFeedService creates the proxy quote client. A zero timeout selects
// the default.
func NewProxyFeedService(baseURL string, timeout time.Duration) *ProxyFeedService {
	if timeout <= 0 {
		timeout = proxyFeedDefaultTimeout
	}
	cache, _ := lru.New[string, proxyCacheEntry](proxyCacheSize)
	return &ProxyFeedService{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
		limiter: rate.NewLimiter(rate.Limit(10), 20),
		cache:   cache,
	}
}

// FetchQuote returns the proxy instrument's prior close and current price,
// or ErrFeedUnavailable.
func (s *ProxyFeedService) FetchQuote(ctx context.Context, code string) (*models.ProxyQuote, error) {
	if code == "" || s.baseURL == "" {
		return nil, ErrFeedUnavailable
	}

	if entry, ok := s.cache.Get(code); ok && time.Since(entry.fetchedAt) < proxyCacheTTL {
		metrics.FeedRequestsTotal.WithLabelValues("proxy", "cache").Inc()
		quote := entry.quote
		return &quote, nil
	}

	quote, err := s.fetch(ctx, code)
	if err != nil {
		log.Printf("Proxy feed: %s unavailable: %v", code, err)
		metrics.FeedRequestsTotal.WithLabelValues("proxy", "unavailable").Inc()
		return nil, ErrFeedUnavailable
	}

	s.cache.Add(code, proxyCacheEntry{quote: *quote, fetchedAt: time.Now()})
	metrics.FeedRequestsTotal.WithLabelValues("proxy", "ok").Inc()
	return quote, nil
}

func (s *ProxyFeedService) fetch(ctx context.Context, code string) (*models.ProxyQuote, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	start := time.Now()
	defer func() {
		metrics.FeedRequestDuration.WithLabelValues("proxy").Observe(time.Since(start).Seconds())
	}()

	params := url.Values{}
	params.Set("symbol", code)
	reqURL := fmt.Sprintf("%s/api/v1/quote?%s", s.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch quote: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch quote: status %d", resp.StatusCode)
	}

	var payload proxyQuoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode quote: %w", err)
	}

	if payload.PriorClose < 0 || payload.Current < 0 {
		return nil, fmt.Errorf("negative quote values")
	}

	return &models.ProxyQuote{
		PriorClose: payload.PriorClose,
		Current:    payload.Current,
	}, nil
}
