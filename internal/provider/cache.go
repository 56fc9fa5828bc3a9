package provider

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/yourusername/matchday/internal/models"
)

// CachedProvider wraps a Provider with a TTL cache so repeated slate fetches
// within a run do not hammer the upstream feed. Schedules and injuries are
// cached; results are cached on a shorter TTL since games settle between
// polls.
type CachedProvider struct {
	inner      Provider
	cache      *gocache.Cache
	resultsTTL time.Duration
}

// NewCachedProvider wraps inner with a cache holding entries for ttl.
func NewCachedProvider(inner Provider, ttl time.Duration) *CachedProvider {
	resultsTTL := ttl / 4
	if resultsTTL < time.Minute {
		resultsTTL = time.Minute
	}
	return &CachedProvider{
		inner:      inner,
		cache:      gocache.New(ttl, 2*ttl),
		resultsTTL: resultsTTL,
	}
}

// Name returns the wrapped provider's name.
func (c *CachedProvider) Name() string { return c.inner.Name() }

func slateKey(prefix string, slate Slate) string {
	week, season := 0, 0
	if slate.Week != nil {
		week = *slate.Week
	}
	if slate.Season != nil {
		season = *slate.Season
	}
	return fmt.Sprintf("%s:%s:%s:%d:%d", prefix, slate.Sport, slate.Date, week, season)
}

// FetchSchedule serves from cache when possible.
func (c *CachedProvider) FetchSchedule(ctx context.Context, slate Slate) ([]models.GameRecord, error) {
	key := slateKey("schedule", slate)
	if cached, ok := c.cache.Get(key); ok {
		return cached.([]models.GameRecord), nil
	}
	games, err := c.inner.FetchSchedule(ctx, slate)
	if err != nil {
		return nil, err
	}
	c.cache.Set(key, games, gocache.DefaultExpiration)
	return games, nil
}

// FetchResults serves from cache on the shorter results TTL.
func (c *CachedProvider) FetchResults(ctx context.Context, slate Slate) ([]models.GameRecord, error) {
	key := slateKey("results", slate)
	if cached, ok := c.cache.Get(key); ok {
		return cached.([]models.GameRecord), nil
	}
	games, err := c.inner.FetchResults(ctx, slate)
	if err != nil {
		return nil, err
	}
	c.cache.Set(key, games, c.resultsTTL)
	return games, nil
}

// FetchInjuries serves from cache when possible.
func (c *CachedProvider) FetchInjuries(ctx context.Context, sport models.Sport, team string) ([]models.InjuryEntry, error) {
	key := fmt.Sprintf("injuries:%s:%s", sport, team)
	if cached, ok := c.cache.Get(key); ok {
		return cached.([]models.InjuryEntry), nil
	}
	entries, err := c.inner.FetchInjuries(ctx, sport, team)
	if err != nil {
		return nil, err
	}
	c.cache.Set(key, entries, gocache.DefaultExpiration)
	return entries, nil
}
