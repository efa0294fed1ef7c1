package repository

import (
	"context"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog"

	"officebook/internal/cache"
	"officebook/internal/domain"
	"officebook/internal/metrics"
)

const (
	officeKeyPrefix = "office:"
	officeKeyAll    = "office:all"

	// DefaultOfficeTTL bounds how long cached office data may go stale.
	DefaultOfficeTTL = 300 * time.Second
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// CachedOfficeRepository decorates an OfficeRepository with the cache-aside
// pattern: reads populate the cache on miss, saves write through and
// invalidate. Cache faults degrade to plain store reads, they never surface.
type CachedOfficeRepository struct {
	repo   OfficeRepository
	cache  cache.Cache
	ttl    time.Duration
	logger *zerolog.Logger
}

// NewCachedOfficeRepository wraps repo. A non-positive ttl falls back to
// DefaultOfficeTTL.
func NewCachedOfficeRepository(repo OfficeRepository, c cache.Cache, ttl time.Duration, logger *zerolog.Logger) *CachedOfficeRepository {
	if ttl <= 0 {
		ttl = DefaultOfficeTTL
	}
	return &CachedOfficeRepository{repo: repo, cache: c, ttl: ttl, logger: logger}
}

func (r *CachedOfficeRepository) GetOffice(ctx context.Context, id int64) (*domain.Office, error) {
	key := fmt.Sprintf("%s%d", officeKeyPrefix, id)

	if raw, ok := r.cache.Get(ctx, key); ok {
		var office domain.Office
		if err := json.Unmarshal(raw, &office); err == nil {
			metrics.IncCacheLookup("office", "hit")
			return &office, nil
		}
		// Corrupt entry: drop it and fall through to the store.
		r.logger.Warn().Str("key", key).Msg("discarding undecodable cache entry")
		r.cache.Delete(ctx, key)
	}
	metrics.IncCacheLookup("office", "miss")

	office, err := r.repo.GetOffice(ctx, id)
	if err != nil {
		return nil, err
	}
	if office != nil {
		if raw, err := json.Marshal(office); err == nil {
			r.cache.Set(ctx, key, raw, r.ttl)
		}
	}
	return office, nil
}

func (r *CachedOfficeRepository) ListOffices(ctx context.Context) ([]domain.Office, error) {
	if raw, ok := r.cache.Get(ctx, officeKeyAll); ok {
		var offices []domain.Office
		if err := json.Unmarshal(raw, &offices); err == nil {
			metrics.IncCacheLookup("office_list", "hit")
			return offices, nil
		}
		r.logger.Warn().Str("key", officeKeyAll).Msg("discarding undecodable cache entry")
		r.cache.Delete(ctx, officeKeyAll)
	}
	metrics.IncCacheLookup("office_list", "miss")

	offices, err := r.repo.ListOffices(ctx)
	if err != nil {
		return nil, err
	}
	if len(offices) > 0 {
		if raw, err := json.Marshal(offices); err == nil {
			r.cache.Set(ctx, officeKeyAll, raw, r.ttl)
		}
	}
	return offices, nil
}

// SaveOffice writes through to the store, then invalidates both the per-id
// key and the aggregate key so subsequent reads repopulate.
func (r *CachedOfficeRepository) SaveOffice(ctx context.Context, office *domain.Office) (*domain.Office, error) {
	saved, err := r.repo.SaveOffice(ctx, office)
	if err != nil {
		return nil, err
	}

	r.cache.Delete(ctx, fmt.Sprintf("%s%d", officeKeyPrefix, office.ID))
	r.cache.Delete(ctx, officeKeyAll)
	return saved, nil
}
