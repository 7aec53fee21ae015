package repository

import (
	"context"

	"github.com/minutes-archive/search-service/internal/domain"
)

// MeetingRepository is the relational storage client: count and fetch over
// the same predicate, one page of records plus the page-independent total.
type MeetingRepository interface {
	Search(ctx context.Context, crit domain.SearchCriteria) ([]domain.Record, int64, error)
}

// FullTextRepository is the external full-text engine client. It returns
// raw hits; mapping them into the envelope is the router's job. Any engine
// failure comes back as *domain.TransientEngineError so the router can
// fall back explicitly.
type FullTextRepository interface {
	Search(ctx context.Context, crit domain.SearchCriteria) ([]domain.FullTextHit, int64, error)
}
