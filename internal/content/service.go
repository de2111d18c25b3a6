package content

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/smartedu/smartedu/backend/go-services/internal/apperrors"
	"github.com/teris-io/shortid"
)

// Service wraps a Repository with the document lifecycle rules: id and
// shareable-link allocation at creation, and the store operations exposed by
// the HTTP layer. One Service instance exists per kind (notes, assignments),
// each bound to its own collection.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create persists a freshly generated document. The id and shareableLink are
// allocated here and are immutable afterwards; tags and versions start empty.
func (s *Service) Create(ctx context.Context, ownerID, topic, grouping string, body json.RawMessage) (*Document, error) {
	if topic == "" {
		return nil, fmt.Errorf("%w: topic is required", apperrors.ErrValidation)
	}
	link, err := shortid.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate shareable link: %w", err)
	}
	d := &Document{
		ID:            uuid.NewString(),
		OwnerID:       ownerID,
		Topic:         topic,
		Grouping:      grouping,
		Body:          body,
		Tags:          []string{},
		ShareableLink: link,
		Versions:      []Version{},
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.repo.Insert(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Document, error) {
	return s.repo.Get(ctx, id)
}

// EditBody replaces the live body. The version history is untouched: editing
// never creates a snapshot, only SaveVersion does.
func (s *Service) EditBody(ctx context.Context, id string, body json.RawMessage) (*Document, error) {
	return s.repo.ReplaceBody(ctx, id, body)
}

// SaveVersion appends a snapshot of the current body to the history and
// returns the full version list.
func (s *Service) SaveVersion(ctx context.Context, id string) ([]Version, error) {
	return s.repo.AppendVersion(ctx, id)
}

func (s *Service) ListVersions(ctx context.Context, id string) ([]Version, error) {
	d, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return d.Versions, nil
}

// AddTags unions newTags into the document's tag set (idempotent).
func (s *Service) AddTags(ctx context.Context, id string, newTags []string) (*Document, error) {
	if len(newTags) == 0 {
		return nil, fmt.Errorf("%w: tags are required", apperrors.ErrValidation)
	}
	return s.repo.AddTags(ctx, id, newTags)
}

// FindByTags returns documents tagged with every requested tag (logical AND).
func (s *Service) FindByTags(ctx context.Context, tags []string) ([]*Document, error) {
	if len(tags) == 0 {
		return nil, fmt.Errorf("%w: tags are required", apperrors.ErrValidation)
	}
	return s.repo.FindByTags(ctx, tags)
}

func (s *Service) GetByLink(ctx context.Context, link string) (*Document, error) {
	return s.repo.GetByLink(ctx, link)
}
