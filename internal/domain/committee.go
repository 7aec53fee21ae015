package domain

import (
	"encoding/json"

	"github.com/minutes-archive/search-service/pkg/database"
)

// CommitteeShape tags the backend-native representation of the
// committee_names field.
type CommitteeShape int

const (
	CommitteeShapeUnknown      CommitteeShape = iota
	CommitteeShapeArray                       // postgresql: native text[]
	CommitteeShapeJSONDocument                // mysql: JSON document
	CommitteeShapeJSONString                  // sqlite: TEXT holding a JSON-encoded array
)

// CommitteeShapeFor resolves the shape for a backend. Called once at
// startup; requests never branch on the backend for this.
func CommitteeShapeFor(b database.Backend) CommitteeShape {
	switch b {
	case database.BackendPostgreSQL:
		return CommitteeShapeArray
	case database.BackendMySQL:
		return CommitteeShapeJSONDocument
	case database.BackendSQLite:
		return CommitteeShapeJSONString
	default:
		return CommitteeShapeUnknown
	}
}

// CommitteeNames carries the committee list exactly as the active backend
// returned it, tagged with that backend's shape. It marshals the raw bytes
// through without canonicalizing them.
type CommitteeNames struct {
	shape CommitteeShape
	raw   []byte
}

// NewCommitteeNames wraps raw backend bytes in their shape tag.
func NewCommitteeNames(shape CommitteeShape, raw []byte) CommitteeNames {
	return CommitteeNames{shape: shape, raw: raw}
}

// Shape returns the shape tag.
func (c CommitteeNames) Shape() CommitteeShape { return c.shape }

// Raw returns the backend-native bytes.
func (c CommitteeNames) Raw() []byte { return c.raw }

// MarshalJSON emits the raw value verbatim: JSON documents as-is, every
// other shape as a JSON string of the native bytes (the postgresql array
// literal, the sqlite JSON-encoded string).
func (c CommitteeNames) MarshalJSON() ([]byte, error) {
	if len(c.raw) == 0 {
		return []byte("null"), nil
	}
	if c.shape == CommitteeShapeJSONDocument && json.Valid(c.raw) {
		return c.raw, nil
	}
	return json.Marshal(string(c.raw))
}

// UnmarshalJSON accepts the full-text engine's _source value, which is
// always a JSON document.
func (c *CommitteeNames) UnmarshalJSON(data []byte) error {
	c.shape = CommitteeShapeJSONDocument
	c.raw = append([]byte(nil), data...)
	return nil
}
