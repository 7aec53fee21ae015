package domain

import (
	"net/url"
	"strconv"
	"strings"
	"time"
)

// SortOrder selects the result ordering. Rows sort by date in the given
// direction with id ascending as the stable secondary key, so identical
// criteria always page identically.
type SortOrder string

const (
	SortDateDesc SortOrder = "date_desc"
	SortDateAsc  SortOrder = "date_asc"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// SearchCriteria is the typed, immutable form of one search request.
// Zero values mean the corresponding filter is absent.
type SearchCriteria struct {
	Query       string
	MeetingName string
	Speaker     string
	Committee   string
	DateFrom    *time.Time
	DateTo      *time.Time
	IDs         []int64
	Page        int
	PageSize    int
	Sort        SortOrder
}

// ParseCriteria normalizes raw request parameters into SearchCriteria.
//
// A parameter expected to be scalar that arrives with multiple values is
// dropped silently instead of rejecting the request; this leniency is part
// of the request contract. Non-numeric or non-positive page/pageSize fall
// back to the defaults, unknown sort values fall back to date_desc,
// unparseable dates and non-numeric id tokens are discarded.
func ParseCriteria(params url.Values) SearchCriteria {
	c := SearchCriteria{
		Query:       scalar(params, "q"),
		MeetingName: scalar(params, "meeting_name"),
		Speaker:     scalar(params, "speaker"),
		Committee:   scalar(params, "committee"),
		Page:        positiveInt(scalar(params, "page"), DefaultPage),
		PageSize:    positiveInt(scalar(params, "pageSize"), DefaultPageSize),
		Sort:        parseSort(scalar(params, "sort")),
		DateFrom:    parseDate(scalar(params, "date_from")),
		DateTo:      parseDate(scalar(params, "date_to")),
		IDs:         parseIDList(scalar(params, "ids")),
	}
	if c.PageSize > MaxPageSize {
		c.PageSize = MaxPageSize
	}
	return c
}

// Validate reports criteria that are malformed despite normalizer leniency.
// Such criteria are a caller error and never trigger a fallback.
func (c SearchCriteria) Validate() error {
	if c.Page < 1 {
		return &ValidationError{Reason: "page must be a positive integer"}
	}
	if c.PageSize < 1 || c.PageSize > MaxPageSize {
		return &ValidationError{Reason: "pageSize must be between 1 and " + strconv.Itoa(MaxPageSize)}
	}
	if c.Sort != SortDateDesc && c.Sort != SortDateAsc {
		return &ValidationError{Reason: "sort must be date_desc or date_asc"}
	}
	for _, id := range c.IDs {
		if id < 0 {
			return &ValidationError{Reason: "id filter entries must be non-negative"}
		}
	}
	return nil
}

// Offset is the number of rows to skip for the requested page.
func (c SearchCriteria) Offset() int {
	return (c.Page - 1) * c.PageSize
}

// Limit is the number of rows to fetch for the requested page.
func (c SearchCriteria) Limit() int {
	return c.PageSize
}

// SortDescending reports whether the date ordering is descending.
func (c SearchCriteria) SortDescending() bool {
	return c.Sort != SortDateAsc
}

// PrefersFullText reports whether the criteria should be routed to the
// full-text engine: an id-list filter, any of the fuzzy-match fields
// (meeting name, speaker, committee), or a free-text query combined with
// at least one other filter. A bare free-text query and pure date-range
// queries go straight to the structured path.
func (c SearchCriteria) PrefersFullText() bool {
	if len(c.IDs) > 0 || c.MeetingName != "" || c.Speaker != "" || c.Committee != "" {
		return true
	}
	return c.Query != "" && (c.DateFrom != nil || c.DateTo != nil)
}

// scalar returns the value for key only when exactly one value was supplied.
func scalar(params url.Values, key string) string {
	vals, ok := params[key]
	if !ok || len(vals) != 1 {
		return ""
	}
	return vals[0]
}

func positiveInt(s string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

func parseSort(s string) SortOrder {
	switch SortOrder(s) {
	case SortDateAsc:
		return SortDateAsc
	default:
		return SortDateDesc
	}
}

// parseDate canonicalizes an ISO date to UTC midnight. Anything that does
// not parse yields no bound.
func parseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if ts, err := time.Parse(layout, s); err == nil {
			d := time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC)
			return &d
		}
	}
	return nil
}

// parseIDList splits a comma-separated id list, discarding tokens that are
// not valid non-negative integers. An empty result means no id filter.
func parseIDList(s string) []int64 {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var ids []int64
	for _, tok := range strings.Split(s, ",") {
		id, err := strconv.ParseInt(strings.TrimSpace(tok), 10, 64)
		if err != nil || id < 0 {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}
