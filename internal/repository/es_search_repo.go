package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"

	"github.com/minutes-archive/search-service/internal/domain"
)

// ESSearchRepository implements FullTextRepository against Elasticsearch.
// Every engine failure is returned as *domain.TransientEngineError so the
// router can take the structured fallback as an explicit branch.
type ESSearchRepository struct {
	client *elasticsearch.Client
	index  string
}

// NewESSearchRepository creates a new Elasticsearch-based search repository.
func NewESSearchRepository(client *elasticsearch.Client, index string) *ESSearchRepository {
	return &ESSearchRepository{
		client: client,
		index:  index,
	}
}

func (r *ESSearchRepository) Search(ctx context.Context, crit domain.SearchCriteria) ([]domain.FullTextHit, int64, error) {
	body := buildEngineQuery(crit)

	data, err := json.Marshal(body)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to marshal query: %w", err)
	}

	res, err := r.client.Search(
		r.client.Search.WithContext(ctx),
		r.client.Search.WithIndex(r.index),
		r.client.Search.WithBody(bytes.NewReader(data)),
	)
	if err != nil {
		return nil, 0, &domain.TransientEngineError{Err: err}
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, 0, &domain.TransientEngineError{Err: fmt.Errorf("elasticsearch error: %s", res.String())}
	}

	var result esResponse
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		return nil, 0, &domain.TransientEngineError{Err: fmt.Errorf("failed to decode response: %w", err)}
	}

	hits := make([]domain.FullTextHit, 0, len(result.Hits.Hits))
	for _, h := range result.Hits.Hits {
		var rec domain.Record
		if err := json.Unmarshal(h.Source, &rec); err != nil {
			continue
		}
		hit := domain.FullTextHit{ID: rec.ID, Record: rec}
		if fragments := h.Highlight[FieldTranscripts]; len(fragments) > 0 {
			hit.MatchedSnippet = fragments[0]
		}
		hits = append(hits, hit)
	}

	return hits, result.Hits.Total.Value, nil
}

// buildEngineQuery maps the criteria onto one scoped bool query: the
// free-text query as multi_match across the searchable columns, every
// structured filter in the filter clause, paging and the date/id sort
// mirroring the structured path.
func buildEngineQuery(crit domain.SearchCriteria) map[string]interface{} {
	boolQuery := map[string]interface{}{}

	if crit.Query != "" {
		boolQuery["must"] = []interface{}{
			map[string]interface{}{
				"multi_match": map[string]interface{}{
					"query": crit.Query,
					"fields": []string{
						FieldTitle,
						FieldMeetingName,
						FieldSpeakerName,
						FieldMeetingCodeStr,
						FieldTranscripts,
					},
				},
			},
		}
	}

	var filters []interface{}
	if crit.MeetingName != "" {
		filters = append(filters, map[string]interface{}{
			"match": map[string]interface{}{FieldMeetingName: crit.MeetingName},
		})
	}
	if crit.Speaker != "" {
		filters = append(filters, map[string]interface{}{
			"match": map[string]interface{}{FieldSpeakerName: crit.Speaker},
		})
	}
	if crit.Committee != "" {
		filters = append(filters, map[string]interface{}{
			"match": map[string]interface{}{FieldCommitteeNames: crit.Committee},
		})
	}
	if len(crit.IDs) > 0 {
		filters = append(filters, map[string]interface{}{
			"terms": map[string]interface{}{"id": crit.IDs},
		})
	}
	if crit.DateFrom != nil || crit.DateTo != nil {
		dateRange := map[string]interface{}{"format": "yyyy-MM-dd"}
		if crit.DateFrom != nil {
			dateRange["gte"] = crit.DateFrom.Format("2006-01-02")
		}
		if crit.DateTo != nil {
			dateRange["lte"] = crit.DateTo.Format("2006-01-02")
		}
		filters = append(filters, map[string]interface{}{
			"range": map[string]interface{}{"date": dateRange},
		})
	}
	if len(filters) > 0 {
		boolQuery["filter"] = filters
	}

	dateDir := "desc"
	if !crit.SortDescending() {
		dateDir = "asc"
	}

	return map[string]interface{}{
		"from":             crit.Offset(),
		"size":             crit.Limit(),
		"track_total_hits": true,
		"query":            map[string]interface{}{"bool": boolQuery},
		"sort": []interface{}{
			map[string]interface{}{"date": dateDir},
			map[string]interface{}{"id": "asc"},
		},
		"highlight": map[string]interface{}{
			"fields": map[string]interface{}{
				FieldTranscripts: map[string]interface{}{},
			},
		},
	}
}

// esResponse is the generic Elasticsearch search response structure.
type esResponse struct {
	Hits struct {
		Total struct {
			Value int64 `json:"value"`
		} `json:"total"`
		Hits []struct {
			Source    json.RawMessage     `json:"_source"`
			Highlight map[string][]string `json:"highlight"`
		} `json:"hits"`
	} `json:"hits"`
}
