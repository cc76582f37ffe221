package rates

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/money_swap_app/internal/core/domain"
	portssvc "github.com/SscSPs/money_swap_app/internal/core/ports/services"
	"github.com/SscSPs/money_swap_app/internal/middleware"
	"github.com/redis/go-redis/v9"
)

const cacheNamespace = "rate"

// KeyValueStore is the subset of *redis.Client the cache needs.
type KeyValueStore interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

// cachingProvider decorates a RateQuoteProvider with a Redis cache of quotes.
// Only successful quotes are stored. A Redis failure degrades to calling next.
type cachingProvider struct {
	next  portssvc.RateQuoteProvider
	store KeyValueStore
	ttl   time.Duration
}

// NewCachingProvider returns next unchanged when ttl is not positive.
func NewCachingProvider(next portssvc.RateQuoteProvider, store KeyValueStore, ttl time.Duration) portssvc.RateQuoteProvider {
	if ttl <= 0 || store == nil {
		return next
	}
	return &cachingProvider{next: next, store: store, ttl: ttl}
}

func cacheKey(from, to domain.Currency) string {
	return fmt.Sprintf("%s:%s:%s", cacheNamespace, from, to)
}

func (c *cachingProvider) GetRate(ctx context.Context, from, to domain.Currency) (domain.Rate, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	key := cacheKey(from, to)

	cached, err := c.store.Get(ctx, key).Result()
	switch {
	case err == nil:
		if rate, parseErr := domain.ParseRate(cached); parseErr == nil {
			return rate, nil
		}
		logger.Warn("Discarding malformed cached rate", slog.String("key", key))
	case !errors.Is(err, redis.Nil):
		logger.Warn("Rate cache read failed", slog.String("key", key), slog.String("error", err.Error()))
	}

	rate, err := c.next.GetRate(ctx, from, to)
	if err != nil {
		return domain.Rate{}, err
	}

	if err := c.store.Set(ctx, key, rate.Exact(), c.ttl).Err(); err != nil {
		logger.Warn("Rate cache write failed", slog.String("key", key), slog.String("error", err.Error()))
	}
	return rate, nil
}
