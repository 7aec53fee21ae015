package repository

import (
	"context"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/minutes-archive/search-service/internal/domain"
	"github.com/minutes-archive/search-service/pkg/database"
	"github.com/minutes-archive/search-service/pkg/log"
)

const meetingsTable = "meetings"

// MeetingModel is the GORM mapping of one meetings row. committee_names is
// scanned as raw bytes so the backend-native shape survives untouched.
type MeetingModel struct {
	ID             int64     `gorm:"column:id;primaryKey"`
	Title          string    `gorm:"column:title"`
	MeetingName    string    `gorm:"column:meeting_name"`
	SpeakerName    string    `gorm:"column:speaker_name"`
	MeetingCodeStr string    `gorm:"column:meeting_code_str"`
	Date           time.Time `gorm:"column:date"`
	CommitteeNames []byte    `gorm:"column:committee_names"`
	Transcripts    string    `gorm:"column:transcripts"`
}

func (MeetingModel) TableName() string { return meetingsTable }

func (m MeetingModel) toDomain(shape domain.CommitteeShape) domain.Record {
	return domain.Record{
		ID:             m.ID,
		Title:          m.Title,
		MeetingName:    m.MeetingName,
		SpeakerName:    m.SpeakerName,
		MeetingCodeStr: m.MeetingCodeStr,
		Date:           m.Date,
		CommitteeNames: domain.NewCommitteeNames(shape, m.CommitteeNames),
		Transcripts:    m.Transcripts,
	}
}

// GormMeetingRepository implements MeetingRepository using GORM. The
// backend identity is fixed at construction; requests never re-resolve it.
type GormMeetingRepository struct {
	db      *gorm.DB
	backend database.Backend
	shape   domain.CommitteeShape
}

// NewGormMeetingRepository creates a new GORM-based meeting repository.
func NewGormMeetingRepository(db *gorm.DB, backend database.Backend) *GormMeetingRepository {
	return &GormMeetingRepository{
		db:      db,
		backend: backend,
		shape:   domain.CommitteeShapeFor(backend),
	}
}

// Search runs count and fetch against the same predicate. The two queries
// are independent; they only share the filter expression, not a snapshot.
func (r *GormMeetingRepository) Search(ctx context.Context, crit domain.SearchCriteria) ([]domain.Record, int64, error) {
	l := log.Ctx(ctx)

	var total int64
	var models []MeetingModel

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		q, err := r.applyFilters(r.db.WithContext(gctx).Model(&MeetingModel{}), crit)
		if err != nil {
			return err
		}
		return q.Count(&total).Error
	})

	g.Go(func() error {
		q, err := r.applyFilters(r.db.WithContext(gctx).Model(&MeetingModel{}), crit)
		if err != nil {
			return err
		}
		return q.Order(r.orderBy(crit)).
			Offset(crit.Offset()).
			Limit(crit.Limit()).
			Find(&models).Error
	})

	if err := g.Wait(); err != nil {
		if schemaErr := classifySchemaError(err); schemaErr != nil {
			return nil, 0, schemaErr
		}
		l.Error().Err(err).Str(log.FieldBackend, string(r.backend)).Msg("structured search failed")
		return nil, 0, err
	}

	records := make([]domain.Record, len(models))
	for i, m := range models {
		records[i] = m.toDomain(r.shape)
	}
	return records, total, nil
}

// applyFilters ANDs one group per supplied filter; the free-text query
// expands to an OR across the text columns nested inside its group.
func (r *GormMeetingRepository) applyFilters(q *gorm.DB, crit domain.SearchCriteria) (*gorm.DB, error) {
	if crit.Query != "" {
		exprs := make([]string, 0, len(FreeTextFields))
		args := make([]interface{}, 0, len(FreeTextFields))
		for _, field := range FreeTextFields {
			p, err := BuildPredicate(field, crit.Query, r.backend)
			if err != nil {
				return nil, err
			}
			exprs = append(exprs, p.Expr)
			args = append(args, p.Args...)
		}
		q = q.Where("("+strings.Join(exprs, " OR ")+")", args...)
	}

	scalarFilters := []struct {
		field string
		value string
	}{
		{FieldMeetingName, crit.MeetingName},
		{FieldSpeakerName, crit.Speaker},
		{FieldCommitteeNames, crit.Committee},
	}
	for _, f := range scalarFilters {
		if f.value == "" {
			continue
		}
		p, err := BuildPredicate(f.field, f.value, r.backend)
		if err != nil {
			return nil, err
		}
		q = q.Where(p.Expr, p.Args...)
	}

	if crit.DateFrom != nil {
		q = q.Where("date >= ?", *crit.DateFrom)
	}
	if crit.DateTo != nil {
		q = q.Where("date <= ?", *crit.DateTo)
	}
	if len(crit.IDs) > 0 {
		q = q.Where("id IN ?", crit.IDs)
	}
	return q, nil
}

// orderBy sorts by date in the requested direction with id ascending as
// the stable tiebreaker, keeping pagination deterministic for rows that
// share a date.
func (r *GormMeetingRepository) orderBy(crit domain.SearchCriteria) string {
	if crit.SortDescending() {
		return "date DESC, id ASC"
	}
	return "date ASC, id ASC"
}

// missingRelationMarkers are the driver-specific errors for a relation
// that does not exist yet (sqlite, postgresql SQLSTATE 42P01, mysql 1146).
var missingRelationMarkers = []string{
	"no such table",
	"42P01",
	"Error 1146",
}

func classifySchemaError(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	for _, marker := range missingRelationMarkers {
		if strings.Contains(msg, marker) {
			return &domain.BackendSchemaError{Relation: meetingsTable, Err: err}
		}
	}
	return nil
}
