package service

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/minutes-archive/search-service/internal/cache"
	"github.com/minutes-archive/search-service/internal/domain"
	"github.com/minutes-archive/search-service/internal/repository"
	"github.com/minutes-archive/search-service/pkg/log"
)

type searchServiceImpl struct {
	meetings      repository.MeetingRepository
	fulltext      repository.FullTextRepository
	cache         cache.SearchCache
	cacheTTL      time.Duration
	engineTimeout time.Duration
	sf            singleflight.Group
}

// NewSearchService creates the search router. engineTimeout bounds the
// full-text call and must stay below the server's request budget so the
// structured fallback has time to complete. cache may be nil.
func NewSearchService(
	meetings repository.MeetingRepository,
	fulltext repository.FullTextRepository,
	searchCache cache.SearchCache,
	cacheTTL time.Duration,
	engineTimeout time.Duration,
) SearchService {
	return &searchServiceImpl{
		meetings:      meetings,
		fulltext:      fulltext,
		cache:         searchCache,
		cacheTTL:      cacheTTL,
		engineTimeout: engineTimeout,
	}
}

func (s *searchServiceImpl) Search(ctx context.Context, crit domain.SearchCriteria) (*domain.ResultEnvelope, error) {
	if err := crit.Validate(); err != nil {
		return nil, err
	}

	key := criteriaKey(crit)

	result, err, _ := s.sf.Do(key, func() (interface{}, error) {
		if s.cache != nil {
			cached, err := s.cache.Get(ctx, key)
			if err == nil {
				return cached, nil
			}
			if !errors.Is(err, cache.ErrCacheMiss) {
				l := log.Ctx(ctx)
				l.Warn().Err(err).Msg("cache get error")
			}
		}

		env, err := s.route(ctx, crit)
		if err != nil {
			return nil, err
		}

		s.asyncCacheSet(key, env)
		return env, nil
	})
	if err != nil {
		return nil, err
	}

	return result.(*domain.ResultEnvelope), nil
}

// route picks the search path. The full-text call gets one shot; on a
// transient engine failure the identical criteria run against the
// structured path, and a failure there is surfaced, never retried into
// another fallback.
func (s *searchServiceImpl) route(ctx context.Context, crit domain.SearchCriteria) (*domain.ResultEnvelope, error) {
	if crit.PrefersFullText() {
		env, err := s.fullTextSearch(ctx, crit)
		if err == nil {
			return env, nil
		}

		var transient *domain.TransientEngineError
		if !errors.As(err, &transient) {
			return nil, err
		}

		l := log.Ctx(ctx)
		l.Warn().Err(transient.Err).
			Str(log.FieldEvent, "fulltext_fallback").
			Str(log.FieldQuery, crit.Query).
			Msg("full-text engine failed, falling back to structured search")
	}

	return s.structuredSearch(ctx, crit)
}

func (s *searchServiceImpl) fullTextSearch(ctx context.Context, crit domain.SearchCriteria) (*domain.ResultEnvelope, error) {
	ctx, cancel := context.WithTimeout(ctx, s.engineTimeout)
	defer cancel()

	hits, total, err := s.fulltext.Search(ctx, crit)
	if err != nil {
		return nil, err
	}

	records := make([]domain.Record, len(hits))
	for i, hit := range hits {
		rec := hit.Record
		rec.MatchedSnippet = hit.MatchedSnippet
		records[i] = rec
	}
	return envelope(records, total), nil
}

func (s *searchServiceImpl) structuredSearch(ctx context.Context, crit domain.SearchCriteria) (*domain.ResultEnvelope, error) {
	records, total, err := s.meetings.Search(ctx, crit)
	if err != nil {
		var schemaErr *domain.BackendSchemaError
		if errors.As(err, &schemaErr) {
			l := log.Ctx(ctx)
			l.Warn().Err(schemaErr.Err).
				Str(log.FieldEvent, "backend_schema_missing").
				Str("relation", schemaErr.Relation).
				Msg("relation not provisioned yet, serving empty result")
			return envelope(nil, 0), nil
		}
		return nil, err
	}
	return envelope(records, total), nil
}

func envelope(records []domain.Record, total int64) *domain.ResultEnvelope {
	if records == nil {
		records = []domain.Record{}
	}
	return &domain.ResultEnvelope{Data: records, Total: total}
}

// criteriaKey fingerprints the criteria for the cache and for collapsing
// identical concurrent searches. Every component is URL-encoded so filter
// values containing separators cannot collide with another request's key.
func criteriaKey(crit domain.SearchCriteria) string {
	ids := make([]string, len(crit.IDs))
	for i, id := range crit.IDs {
		ids[i] = strconv.FormatInt(id, 10)
	}

	v := url.Values{}
	v.Set("q", crit.Query)
	v.Set("mn", crit.MeetingName)
	v.Set("sp", crit.Speaker)
	v.Set("cm", crit.Committee)
	if crit.DateFrom != nil {
		v.Set("df", crit.DateFrom.Format("2006-01-02"))
	}
	if crit.DateTo != nil {
		v.Set("dt", crit.DateTo.Format("2006-01-02"))
	}
	v.Set("ids", strings.Join(ids, ","))
	v.Set("p", strconv.Itoa(crit.Page))
	v.Set("ps", strconv.Itoa(crit.PageSize))
	v.Set("s", string(crit.Sort))
	return v.Encode()
}

func (s *searchServiceImpl) asyncCacheSet(key string, env *domain.ResultEnvelope) {
	if s.cache == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		if err := s.cache.Set(ctx, key, env, s.cacheTTL); err != nil {
			l := log.L()
			l.Warn().Err(err).Str("key", key).Msg("cache set error")
		}
	}()
}
