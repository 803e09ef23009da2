package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"regexp"
	"strconv"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"

	"github.com/fundfolio/fund-tracker/internal/metrics"
	"github.com/fundfolio/fund-tracker/internal/models"
	"github.com/fundfolio/fund-tracker/internal/tradedate"
)

const (
	navFeedDefaultBaseURL = "http://fundgz.1234567.com.cn"
	navFeedDefaultTimeout = 3 * time.Second
	navCacheSize          = 256
	navCacheTTL           = 60 * time.Second
)

// jsonpPattern unwraps the feed's JSONP envelope: jsonpgz({...});
var jsonpPattern = regexp.MustCompile(`jsonpgz\((.*)\);?`)

// NavFeedService fetches authoritative daily NAVs from the fund quote
// endpoint. Every failure collapses into ErrFeedUnavailable; the feed is a
// best-effort collaborator and must never take down a valuation pass.
type NavFeedService struct {
	client  *http.Client
	baseURL string
	limiter *rate.Limiter
	cache   *lru.Cache[string, navCacheEntry]
}

type navCacheEntry struct {
	quote     models.NavQuote
	fetchedAt time.Time
}

// navPayload is the JSON body inside the JSONP envelope. All numeric fields
// arrive as strings.
type navPayload struct {
	FundCode string `json:"fundcode"`
	Name     string `json:"name"`
	NavDate  string `json:"jzrq"` // latest published NAV date
	NAV      string `json:"dwjz"` // NAV per share on NavDate
}

// NewNavFeedService creates the authoritative feed client. An empty baseURL
// or zero timeout selects the defaults.
func NewNavFeedService(baseURL string, timeout time.Duration) *NavFeedService {
	if baseURL == "" {
		baseURL = navFeedDefaultBaseURL
	}
	if timeout <= 0 {
		timeout = navFeedDefaultTimeout
	}
	cache, _ := lru.New[string, navCacheEntry](navCacheSize)
	return &NavFeedService{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
		limiter: rate.NewLimiter(rate.Limit(10), 20),
		cache:   cache,
	}
}

// FetchNav returns the latest published NAV for the fund, or
// ErrFeedUnavailable. Successful responses are cached briefly so that one
// evaluation pass does not hammer the endpoint for repeated codes.
func (s *NavFeedService) FetchNav(ctx context.Context, code string) (*models.NavQuote, error) {
	code = models.NormalizeCode(code)
	if code == "" {
		return nil, ErrFeedUnavailable
	}

	if entry, ok := s.cache.Get(code); ok && time.Since(entry.fetchedAt) < navCacheTTL {
		metrics.FeedRequestsTotal.WithLabelValues("nav", "cache").Inc()
		quote := entry.quote
		return &quote, nil
	}

	quote, err := s.fetch(ctx, code)
	if err != nil {
		log.Printf("NAV feed: %s unavailable: %v", code, err)
		metrics.FeedRequestsTotal.WithLabelValues("nav", "unavailable").Inc()
		return nil, ErrFeedUnavailable
	}

	s.cache.Add(code, navCacheEntry{quote: *quote, fetchedAt: time.Now()})
	metrics.FeedRequestsTotal.WithLabelValues("nav", "ok").Inc()
	return quote, nil
}

func (s *NavFeedService) fetch(ctx context.Context, code string) (*models.NavQuote, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	start := time.Now()
	defer func() {
		metrics.FeedRequestDuration.WithLabelValues("nav").Observe(time.Since(start).Seconds())
	}()

	reqURL := fmt.Sprintf("%s/js/%s.js", s.baseURL, code)
	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch nav: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch nav: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	return parseNavPayload(body)
}

// parseNavPayload unwraps the JSONP envelope and converts the string-typed
// fields into a NavQuote.
func parseNavPayload(body []byte) (*models.NavQuote, error) {
	match := jsonpPattern.FindSubmatch(body)
	if match == nil {
		return nil, fmt.Errorf("unexpected payload shape")
	}

	var payload navPayload
	if err := json.Unmarshal(match[1], &payload); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}

	nav, err := strconv.ParseFloat(payload.NAV, 64)
	if err != nil {
		return nil, fmt.Errorf("parse nav %q: %w", payload.NAV, err)
	}

	navDate, err := tradedate.Parse(payload.NavDate)
	if err != nil {
		return nil, fmt.Errorf("parse nav date: %w", err)
	}

	return &models.NavQuote{
		Code:    models.NormalizeCode(payload.FundCode),
		Name:    payload.Name,
		NAV:     nav,
		NavDate: navDate,
	}, nil
}
