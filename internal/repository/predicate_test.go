package repository

import (
	"errors"
	"reflect"
	"testing"

	"github.com/minutes-archive/search-service/pkg/database"
)

func TestBuildPredicate_AllTableCells(t *testing.T) {
	tests := []struct {
		name      string
		field     string
		substring string
		backend   database.Backend
		wantExpr  string
		wantArgs  []interface{}
	}{
		// plain text × sqlite: case-sensitive substring
		{
			"text/sqlite", FieldTitle, "予算", database.BackendSQLite,
			"instr(title, ?) > 0", []interface{}{"予算"},
		},
		// plain text × postgresql: case-insensitive substring
		{
			"text/postgresql", FieldMeetingName, "Budget", database.BackendPostgreSQL,
			"meeting_name ILIKE ?", []interface{}{"%Budget%"},
		},
		// plain text × mysql: case-sensitive substring
		{
			"text/mysql", FieldSpeakerName, "山田", database.BackendMySQL,
			"speaker_name LIKE BINARY ?", []interface{}{"%山田%"},
		},
		{
			"text/sqlite meeting_code_str", FieldMeetingCodeStr, "189-5", database.BackendSQLite,
			"instr(meeting_code_str, ?) > 0", []interface{}{"189-5"},
		},
		{
			"text/postgresql transcripts", FieldTranscripts, "質疑", database.BackendPostgreSQL,
			"transcripts ILIKE ?", []interface{}{"%質疑%"},
		},
		// multi-value × sqlite: substring over the JSON-encoded string
		{
			"multi/sqlite", FieldCommitteeNames, "財政", database.BackendSQLite,
			"instr(committee_names, ?) > 0", []interface{}{"財政"},
		},
		// multi-value × postgresql: array contains element
		{
			"multi/postgresql", FieldCommitteeNames, "財政", database.BackendPostgreSQL,
			"committee_names @> ARRAY[?]::text[]", []interface{}{"財政"},
		},
		// multi-value × mysql: JSON document contains string
		{
			"multi/mysql", FieldCommitteeNames, "財政", database.BackendMySQL,
			"JSON_CONTAINS(committee_names, JSON_QUOTE(?))", []interface{}{"財政"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := BuildPredicate(tt.field, tt.substring, tt.backend)
			if err != nil {
				t.Fatalf("BuildPredicate: %v", err)
			}
			if p.Expr != tt.wantExpr {
				t.Errorf("Expr = %q, want %q", p.Expr, tt.wantExpr)
			}
			if !reflect.DeepEqual(p.Args, tt.wantArgs) {
				t.Errorf("Args = %v, want %v", p.Args, tt.wantArgs)
			}
		})
	}
}

func TestBuildPredicate_UnsupportedPairsFailFast(t *testing.T) {
	tests := []struct {
		name    string
		field   string
		backend database.Backend
	}{
		{"unknown field", "secret_notes", database.BackendSQLite},
		{"unknown backend", FieldTitle, database.Backend("oracle")},
		{"unknown backend multi-value", FieldCommitteeNames, database.Backend("mssql")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildPredicate(tt.field, "x", tt.backend)
			if !errors.Is(err, ErrUnsupportedPredicate) {
				t.Fatalf("expected ErrUnsupportedPredicate, got %v", err)
			}
		})
	}
}

func TestLikePattern_EscapesWildcards(t *testing.T) {
	got := likePattern(`50%_of\budget`)
	want := `%50\%\_of\\budget%`
	if got != want {
		t.Errorf("likePattern = %q, want %q", got, want)
	}
}
