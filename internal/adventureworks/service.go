package adventureworks

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/hadywafa/DatabaseHub/internal/metrics"
	"github.com/rs/zerolog"
)

const keyPrefix = "databasehub:aw:"

// Query names double as cache keys and metric labels.
const (
	QueryProductsByListPrice = "production_q1"
	QueryProductsByName      = "production_q3"
	QueryPersonsByLastName   = "person_q1"
)

type Querier interface {
	TopProductsByListPrice(ctx context.Context) ([]Product, error)
	TopProductsByName(ctx context.Context) ([]Product, error)
	TopPersonsByLastName(ctx context.Context) ([]Person, error)
}

// Service fronts a Querier with a read-through cache.
//
// Cache errors never fail a request; they are logged and the query goes
// to the database. A nil cache or zero ttl disables caching.
type Service struct {
	repo   Querier
	cache  Cache
	ttl    time.Duration
	logger zerolog.Logger
}

func NewService(repo Querier, cache Cache, ttl time.Duration, logger zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		cache:  cache,
		ttl:    ttl,
		logger: logger.With().Str("component", "adventureworks").Logger(),
	}
}

func (s *Service) TopProductsByListPrice(ctx context.Context) ([]Product, error) {
	return cached(ctx, s, QueryProductsByListPrice, s.repo.TopProductsByListPrice)
}

func (s *Service) TopProductsByName(ctx context.Context) ([]Product, error) {
	return cached(ctx, s, QueryProductsByName, s.repo.TopProductsByName)
}

func (s *Service) TopPersonsByLastName(ctx context.Context) ([]Person, error) {
	return cached(ctx, s, QueryPersonsByLastName, s.repo.TopPersonsByLastName)
}

func cached[T any](ctx context.Context, s *Service, query string, load func(context.Context) ([]T, error)) ([]T, error) {
	if s.cache == nil || s.ttl <= 0 {
		return load(ctx)
	}

	key := keyPrefix + query

	raw, err := s.cache.Get(ctx, key)
	switch {
	case err == nil:
		var rows []T
		if err := json.Unmarshal(raw, &rows); err == nil {
			metrics.CacheLookups.WithLabelValues(query, "hit").Inc()
			return rows, nil
		}
		s.logger.Warn().Str("key", key).Msg("discarding undecodable cache entry")
		metrics.CacheLookups.WithLabelValues(query, "error").Inc()
	case errors.Is(err, ErrCacheMiss):
		metrics.CacheLookups.WithLabelValues(query, "miss").Inc()
	default:
		s.logger.Warn().Err(err).Str("key", key).Msg("cache read failed, querying database")
		metrics.CacheLookups.WithLabelValues(query, "error").Inc()
	}

	rows, err := load(ctx)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(rows); err == nil {
		if err := s.cache.Set(ctx, key, raw, s.ttl); err != nil {
			s.logger.Warn().Err(err).Str("key", key).Msg("cache write failed")
		}
	}

	return rows, nil
}
