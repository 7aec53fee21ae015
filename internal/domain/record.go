package domain

import "time"

// Record is one transcript metadata row. committee_names keeps whatever
// shape the active backend natively returned; canonicalizing it is the
// presentation layer's responsibility.
type Record struct {
	ID             int64          `json:"id"`
	Title          string         `json:"title"`
	MeetingName    string         `json:"meeting_name"`
	SpeakerName    string         `json:"speaker_name"`
	MeetingCodeStr string         `json:"meeting_code_str"`
	Date           time.Time      `json:"date"`
	CommitteeNames CommitteeNames `json:"committee_names"`
	Transcripts    string         `json:"transcripts,omitempty"`
	MatchedSnippet string         `json:"matched_snippet,omitempty"`
}

// FullTextHit is one match returned by the external full-text engine.
type FullTextHit struct {
	ID             int64
	MatchedSnippet string
	Record         Record
}

// ResultEnvelope is the response shape shared by both search paths.
// Whether the structured fallback served the request is never visible here.
type ResultEnvelope struct {
	Data  []Record `json:"data"`
	Total int64    `json:"total"`
}
