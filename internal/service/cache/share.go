package cache

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/kapu/astroweb-go/internal/constants"
	"github.com/kapu/astroweb-go/internal/domain"
	"github.com/kapu/astroweb-go/internal/normalize"
)

// ShareCache keeps recently viewed shared sites so public links do not hit
// the database on every view.
type ShareCache struct {
	cache  *CacheService
	ttl    time.Duration
	logger *zap.Logger
}

// sharedEntry stores the layout as raw JSON; it is renormalized on read.
type sharedEntry struct {
	ShareToken string          `json:"shareId"`
	Prompt     string          `json:"prompt"`
	Layout     json.RawMessage `json:"layout"`
	CreatedAt  time.Time       `json:"createdAt"`
}

func NewShareCache(cache *CacheService, logger *zap.Logger) *ShareCache {
	return &ShareCache{
		cache:  cache,
		ttl:    constants.CacheTTL.SharedLayout,
		logger: logger,
	}
}

func shareKey(token string) string {
	return constants.CacheKeys.SharePrefix + token
}

func (s *ShareCache) Get(ctx context.Context, token string) (*domain.SharedSite, bool) {
	var entry sharedEntry
	found, err := s.cache.Get(ctx, shareKey(token), &entry)
	if err != nil || !found {
		return nil, false
	}
	return &domain.SharedSite{
		ShareToken: entry.ShareToken,
		Prompt:     entry.Prompt,
		Layout:     normalize.FromJSON(entry.Layout),
		CreatedAt:  entry.CreatedAt,
	}, true
}

// Set is best effort; failures are logged and otherwise ignored.
func (s *ShareCache) Set(ctx context.Context, site *domain.SharedSite) {
	if site == nil {
		return
	}
	raw, err := json.Marshal(site.Layout)
	if err != nil {
		return
	}
	entry := sharedEntry{
		ShareToken: site.ShareToken,
		Prompt:     site.Prompt,
		Layout:     raw,
		CreatedAt:  site.CreatedAt,
	}
	if err := s.cache.Set(ctx, shareKey(site.ShareToken), entry, s.ttl); err != nil {
		s.logger.Warn("Failed to cache shared site", zap.String("share_id", site.ShareToken), zap.Error(err))
	}
}

func (s *ShareCache) Invalidate(ctx context.Context, token string) {
	if token == "" {
		return
	}
	if err := s.cache.Del(ctx, shareKey(token)); err != nil {
		s.logger.Warn("Failed to invalidate shared site", zap.String("share_id", token), zap.Error(err))
	}
}
