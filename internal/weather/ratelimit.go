package weather

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"weathercheck/internal/models"
)

// Fetcher is the read interface the dashboard consumes. *Client implements
// it, as does the rate-limited decorator below.
type Fetcher interface {
	Current(ctx context.Context, city string) (*models.WeatherSnapshot, error)
	Forecast(ctx context.Context, city string) ([]ForecastEntry, error)
}

var (
	_ Fetcher = (*Client)(nil)
	_ Fetcher = (*RateLimited)(nil)
)

// RateLimited throttles calls to an underlying Fetcher with a token bucket,
// keeping a chatty user within the provider's free-tier call budget.
type RateLimited struct {
	inner   Fetcher
	limiter *rate.Limiter
}

// NewRateLimited wraps fetcher, allowing rps sustained requests per second
// with the given burst.
func NewRateLimited(fetcher Fetcher, rps float64, burst int) *RateLimited {
	return &RateLimited{
		inner:   fetcher,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

func (r *RateLimited) Current(ctx context.Context, city string) (*models.WeatherSnapshot, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait canceled: %w", err)
	}
	return r.inner.Current(ctx, city)
}

func (r *RateLimited) Forecast(ctx context.Context, city string) ([]ForecastEntry, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait canceled: %w", err)
	}
	return r.inner.Forecast(ctx, city)
}
