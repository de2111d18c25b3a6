package content

import (
	"encoding/json"
	"time"
)

// Document is the persistent model shared by notes and assignments. The two
// kinds differ only in what Body decodes to: an ordered slice of slide strings
// for notes, an ordered slice of Question records for assignments. Body is
// kept as raw JSON so the store stays agnostic of the kind it holds.
type Document struct {
	ID            string          `json:"id" bson:"id"`
	OwnerID       string          `json:"ownerId" bson:"ownerId"`
	Topic         string          `json:"topic" bson:"topic"`
	Grouping      string          `json:"grouping,omitempty" bson:"grouping,omitempty"` // folder name (notes) or university (assignments)
	Body          json.RawMessage `json:"body" bson:"body"`
	Tags          []string        `json:"tags" bson:"tags"`
	ShareableLink string          `json:"shareableLink" bson:"shareableLink"`
	Versions      []Version       `json:"versions" bson:"versions"`
	CreatedAt     time.Time       `json:"createdAt" bson:"createdAt"`
}

// Version is an immutable, timestamped snapshot of a document body. Entries
// are append-only; numbering starts at 1 and has no gaps.
type Version struct {
	VersionNumber int             `json:"versionNumber" bson:"versionNumber"`
	Body          json.RawMessage `json:"body" bson:"body"`
	SavedAt       time.Time       `json:"savedAt" bson:"savedAt"`
}

// Question is a single assignment body unit.
type Question struct {
	Type     string   `json:"type" bson:"type"` // "MCQ" | "descriptive"
	Question string   `json:"question" bson:"question"`
	Options  []string `json:"options,omitempty" bson:"options,omitempty"`
	Answer   string   `json:"answer,omitempty" bson:"answer,omitempty"`
}
