package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/minutes-archive/search-service/pkg/database"
)

// ErrUnsupportedPredicate reports a (field, backend) pair outside the
// predicate table. The builder fails fast rather than guessing a
// plausible-but-wrong shape.
var ErrUnsupportedPredicate = errors.New("unsupported predicate")

// Searchable columns of the meetings relation.
const (
	FieldTitle          = "title"
	FieldMeetingName    = "meeting_name"
	FieldSpeakerName    = "speaker_name"
	FieldMeetingCodeStr = "meeting_code_str"
	FieldTranscripts    = "transcripts"
	FieldCommitteeNames = "committee_names"
)

// FreeTextFields are the columns a free-text query expands across, joined
// with OR inside the enclosing AND group.
var FreeTextFields = []string{
	FieldTitle,
	FieldMeetingName,
	FieldSpeakerName,
	FieldMeetingCodeStr,
	FieldTranscripts,
}

// FieldClass groups columns by how each backend has to filter them.
type FieldClass int

const (
	// ClassText is a plain text column filtered by substring.
	ClassText FieldClass = iota
	// ClassMultiValue is the committee_names column, whose storage shape
	// differs per backend: postgresql text[], mysql JSON document, sqlite
	// JSON-encoded string.
	ClassMultiValue
)

var fieldClasses = map[string]FieldClass{
	FieldTitle:          ClassText,
	FieldMeetingName:    ClassText,
	FieldSpeakerName:    ClassText,
	FieldMeetingCodeStr: ClassText,
	FieldTranscripts:    ClassText,
	FieldCommitteeNames: ClassMultiValue,
}

// Predicate is one backend-correct filter expression with its arguments,
// ready for a GORM Where clause.
type Predicate struct {
	Expr string
	Args []interface{}
}

type predicateShape func(column, substring string) Predicate

// predicateTable maps field-class × backend to the predicate shape.
// Adding a backend means adding rows here, not new conditionals.
//
// Text class: sqlite and mysql match case-sensitively (sqlite LIKE folds
// ASCII case, hence instr; mysql needs BINARY under *_ci collations);
// postgresql matches case-insensitively via ILIKE.
// Multi-value class: postgresql array containment, mysql JSON containment,
// sqlite substring over the JSON-encoded text.
var predicateTable = map[FieldClass]map[database.Backend]predicateShape{
	ClassText: {
		database.BackendSQLite: func(col, sub string) Predicate {
			return Predicate{Expr: fmt.Sprintf("instr(%s, ?) > 0", col), Args: []interface{}{sub}}
		},
		database.BackendPostgreSQL: func(col, sub string) Predicate {
			return Predicate{Expr: fmt.Sprintf("%s ILIKE ?", col), Args: []interface{}{likePattern(sub)}}
		},
		database.BackendMySQL: func(col, sub string) Predicate {
			return Predicate{Expr: fmt.Sprintf("%s LIKE BINARY ?", col), Args: []interface{}{likePattern(sub)}}
		},
	},
	ClassMultiValue: {
		database.BackendSQLite: func(col, sub string) Predicate {
			return Predicate{Expr: fmt.Sprintf("instr(%s, ?) > 0", col), Args: []interface{}{sub}}
		},
		database.BackendPostgreSQL: func(col, sub string) Predicate {
			return Predicate{Expr: fmt.Sprintf("%s @> ARRAY[?]::text[]", col), Args: []interface{}{sub}}
		},
		database.BackendMySQL: func(col, sub string) Predicate {
			return Predicate{Expr: fmt.Sprintf("JSON_CONTAINS(%s, JSON_QUOTE(?))", col), Args: []interface{}{sub}}
		},
	},
}

// BuildPredicate returns the filter expression for one (field, substring)
// pair under the given backend's semantics.
func BuildPredicate(field, substring string, backend database.Backend) (Predicate, error) {
	class, ok := fieldClasses[field]
	if !ok {
		return Predicate{}, fmt.Errorf("%w: unknown field %q", ErrUnsupportedPredicate, field)
	}
	shape, ok := predicateTable[class][backend]
	if !ok {
		return Predicate{}, fmt.Errorf("%w: field %q on backend %q", ErrUnsupportedPredicate, field, backend)
	}
	return shape(field, substring), nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likePattern(substring string) string {
	return "%" + likeEscaper.Replace(substring) + "%"
}
