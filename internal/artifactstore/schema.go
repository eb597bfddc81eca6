package artifactstore

import (
	"encoding/json"
	"time"
)

// CurrentSchemaVersion is the current record schema version.
// Increment this when making breaking changes to the record format.
const CurrentSchemaVersion = 1

// Record is the envelope written for every path.
type Record struct {
	// SchemaVersion identifies the record format version.
	SchemaVersion int `json:"schema_version"`

	// Path is the path the record describes. It allows records stored under
	// a hash fallback name to be mapped back to their path.
	Path string `json:"path"`

	// Kind names the payload type, e.g. "hash-manifest".
	Kind string `json:"kind,omitempty"`

	// UpdatedAt is when the record was last written.
	UpdatedAt time.Time `json:"updated_at"`

	// Data is the payload.
	Data json.RawMessage `json:"data,omitempty"`
}
