package service

import (
	"context"

	"github.com/minutes-archive/search-service/internal/domain"
)

// SearchService routes a search to the full-text engine or the relational
// backend and produces the result envelope.
type SearchService interface {
	Search(ctx context.Context, crit domain.SearchCriteria) (*domain.ResultEnvelope, error)
}
