package content

import (
	"context"
	"encoding/json"
)

// Repository defines persistence operations for content documents. Two
// implementations exist: MongoRepo (production) and MemoryRepo (tests and
// Mongo-less development), mirroring each other's semantics.
type Repository interface {
	Insert(ctx context.Context, d *Document) error
	Get(ctx context.Context, id string) (*Document, error)
	// ReplaceBody swaps the live body without touching the version history
	// and returns the updated document.
	ReplaceBody(ctx context.Context, id string, body json.RawMessage) (*Document, error)
	// AppendVersion snapshots the current body as versionNumber len+1 and
	// returns the full history.
	AppendVersion(ctx context.Context, id string) ([]Version, error)
	// AddTags unions the given tags into the document's tag set and returns
	// the updated document.
	AddTags(ctx context.Context, id string, tags []string) (*Document, error)
	// FindByTags returns documents whose tag set contains every given tag.
	FindByTags(ctx context.Context, tags []string) ([]*Document, error)
	GetByLink(ctx context.Context, link string) (*Document, error)
}
