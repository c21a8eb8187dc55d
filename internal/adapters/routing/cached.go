package routing

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"

	"github.com/samirrijal/searoute/internal/core/domain"
	"github.com/samirrijal/searoute/internal/core/ports"
	"github.com/samirrijal/searoute/internal/pkg/metrics"
)

const cacheOp = "route"

// CachedProvider is a read-through cache in front of a RouteProvider.
// Failed lookups are never cached.
type CachedProvider struct {
	next       ports.RouteProvider
	cache      ports.CacheService
	ttlSeconds int
}

// NewCachedProvider wraps next. A nil cache or non-positive TTL disables caching.
func NewCachedProvider(next ports.RouteProvider, cache ports.CacheService, ttlSeconds int) *CachedProvider {
	return &CachedProvider{next: next, cache: cache, ttlSeconds: ttlSeconds}
}

// ComputeRoute returns a cached route for an identical request when present.
func (p *CachedProvider) ComputeRoute(ctx context.Context, req domain.RouteRequest) (domain.Route, error) {
	if p.cache == nil || p.ttlSeconds <= 0 {
		return p.next.ComputeRoute(ctx, req)
	}

	key, err := cacheKey(req)
	if err != nil {
		return p.next.ComputeRoute(ctx, req)
	}

	if data, err := p.cache.Get(ctx, key); err == nil {
		var route domain.Route
		if err := json.Unmarshal(data, &route); err == nil && route.Validate() == nil {
			metrics.CacheHits.WithLabelValues(cacheOp).Inc()
			return route, nil
		}
	}
	metrics.CacheMisses.WithLabelValues(cacheOp).Inc()

	route, err := p.next.ComputeRoute(ctx, req)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(route); err == nil {
		if err := p.cache.Set(ctx, key, data, p.ttlSeconds); err != nil {
			slog.DebugContext(ctx, "route cache write failed", "error", err)
		}
	}
	return route, nil
}

func cacheKey(req domain.RouteRequest) (string, error) {
	data, err := json.Marshal(req)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return "route:" + hex.EncodeToString(sum[:]), nil
}
