package cache

import (
	"context"
	"time"

	"github.com/minutes-archive/search-service/internal/domain"
)

// SearchCache caches result envelopes keyed by a criteria fingerprint.
type SearchCache interface {
	Get(ctx context.Context, key string) (*domain.ResultEnvelope, error)
	Set(ctx context.Context, key string, result *domain.ResultEnvelope, ttl time.Duration) error
	Close() error
}
