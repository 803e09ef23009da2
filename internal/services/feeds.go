package services

import (
	"context"
	"errors"

	"github.com/fundfolio/fund-tracker/internal/models"
)

// ErrFeedUnavailable is returned by feed clients for every failure mode:
// network error, timeout, non-200 status, malformed payload, or unknown
// instrument. Callers only need to know that no usable quote exists.
var ErrFeedUnavailable = errors.New("price feed unavailable")

// NavFeed looks up the authoritative daily net asset value for a fund.
type NavFeed interface {
	FetchNav(ctx context.Context, code string) (*models.NavQuote, error)
}

// ProxyFeed looks up the intraday quote of a correlated proxy instrument.
type ProxyFeed interface {
	FetchQuote(ctx context.Context, code string) (*models.ProxyQuote, error)
}
