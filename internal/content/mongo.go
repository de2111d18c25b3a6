package content

import (
	"context"
	"encoding/json"
	"time"

	"github.com/smartedu/smartedu/backend/go-services/internal/apperrors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRepo implements Repository on a MongoDB collection. Notes and
// assignments each get their own collection; the schema is identical.
type MongoRepo struct {
	col *mongo.Collection
}

// NewMongoRepo wraps the collection and ensures the unique indexes the model
// relies on (id and shareableLink are both lookup keys).
func NewMongoRepo(col *mongo.Collection) *MongoRepo {
	col.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true),
	})
	col.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys: bson.D{{Key: "shareableLink", Value: 1}}, Options: options.Index().SetUnique(true),
	})
	col.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys: bson.D{{Key: "tags", Value: 1}},
	})
	return &MongoRepo{col: col}
}

func (m *MongoRepo) Insert(ctx context.Context, d *Document) error {
	_, err := m.col.InsertOne(ctx, d)
	return err
}

func (m *MongoRepo) Get(ctx context.Context, id string) (*Document, error) {
	var d Document
	if err := m.col.FindOne(ctx, bson.M{"id": id}).Decode(&d); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

func (m *MongoRepo) ReplaceBody(ctx context.Context, id string, body json.RawMessage) (*Document, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var d Document
	err := m.col.FindOneAndUpdate(ctx, bson.M{"id": id}, bson.M{"$set": bson.M{"body": body}}, opts).Decode(&d)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

func (m *MongoRepo) AppendVersion(ctx context.Context, id string) ([]Version, error) {
	// Read-then-push: the version number is computed from the observed
	// history length, so two concurrent calls can both observe N and write
	// versionNumber N+1 twice. Known limitation, see DESIGN.md.
	d, err := m.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	v := Version{
		VersionNumber: len(d.Versions) + 1,
		Body:          d.Body,
		SavedAt:       time.Now().UTC(),
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated Document
	err = m.col.FindOneAndUpdate(ctx, bson.M{"id": id}, bson.M{"$push": bson.M{"versions": v}}, opts).Decode(&updated)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return updated.Versions, nil
}

func (m *MongoRepo) AddTags(ctx context.Context, id string, tags []string) (*Document, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{"$addToSet": bson.M{"tags": bson.M{"$each": tags}}}
	var d Document
	if err := m.col.FindOneAndUpdate(ctx, bson.M{"id": id}, update, opts).Decode(&d); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

func (m *MongoRepo) FindByTags(ctx context.Context, tags []string) ([]*Document, error) {
	cur, err := m.col.Find(ctx, bson.M{"tags": bson.M{"$all": tags}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []*Document{}
	for cur.Next(ctx) {
		var d Document
		if err := cur.Decode(&d); err != nil {
			return nil, err
		}
		out = append(out, &d)
	}
	return out, cur.Err()
}

func (m *MongoRepo) GetByLink(ctx context.Context, link string) (*Document, error) {
	var d Document
	if err := m.col.FindOne(ctx, bson.M{"shareableLink": link}).Decode(&d); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}
