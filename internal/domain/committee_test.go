package domain

import (
	"encoding/json"
	"testing"

	"github.com/minutes-archive/search-service/pkg/database"
)

func TestCommitteeShapeFor(t *testing.T) {
	tests := []struct {
		backend database.Backend
		want    CommitteeShape
	}{
		{database.BackendPostgreSQL, CommitteeShapeArray},
		{database.BackendMySQL, CommitteeShapeJSONDocument},
		{database.BackendSQLite, CommitteeShapeJSONString},
		{database.Backend("oracle"), CommitteeShapeUnknown},
	}
	for _, tt := range tests {
		if got := CommitteeShapeFor(tt.backend); got != tt.want {
			t.Errorf("CommitteeShapeFor(%q) = %v, want %v", tt.backend, got, tt.want)
		}
	}
}

func TestCommitteeNames_MarshalPassesRawThrough(t *testing.T) {
	tests := []struct {
		name  string
		names CommitteeNames
		want  string
	}{
		{
			"mysql JSON document stays a document",
			NewCommitteeNames(CommitteeShapeJSONDocument, []byte(`["財政金融委員会"]`)),
			`["財政金融委員会"]`,
		},
		{
			"sqlite JSON-encoded string stays a string",
			NewCommitteeNames(CommitteeShapeJSONString, []byte(`["財政金融委員会"]`)),
			`"[\"財政金融委員会\"]"`,
		},
		{
			"postgresql array literal stays a string",
			NewCommitteeNames(CommitteeShapeArray, []byte(`{財政金融委員会,予算委員会}`)),
			`"{財政金融委員会,予算委員会}"`,
		},
		{
			"empty value is null",
			NewCommitteeNames(CommitteeShapeJSONDocument, nil),
			`null`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := json.Marshal(tt.names)
			if err != nil {
				t.Fatalf("Marshal: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("Marshal = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestCommitteeNames_UnmarshalFromEngineSource(t *testing.T) {
	var rec Record
	src := `{"id": 12, "title": "第1回", "committee_names": ["財政金融委員会"]}`
	if err := json.Unmarshal([]byte(src), &rec); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if rec.CommitteeNames.Shape() != CommitteeShapeJSONDocument {
		t.Errorf("Shape = %v, want %v", rec.CommitteeNames.Shape(), CommitteeShapeJSONDocument)
	}
	if string(rec.CommitteeNames.Raw()) != `["財政金融委員会"]` {
		t.Errorf("Raw = %s", rec.CommitteeNames.Raw())
	}
}
