package revision

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nbhive/nbhive/internal/notebook"
)

// MongoLedger implements Ledger on a MongoDB collection. Inserts only; the
// single permitted update is the post-insert timestamp override.
type MongoLedger struct {
	col *mongo.Collection
}

func NewMongoLedger(col *mongo.Collection) *MongoLedger {
	idx := mongo.IndexModel{Keys: bson.D{{Key: "notebookUuid", Value: 1}, {Key: "createdAt", Value: -1}}}
	col.Indexes().CreateOne(context.Background(), idx)
	return &MongoLedger{col: col}
}

func (m *MongoLedger) insert(ctx context.Context, rev *Revision) (*Revision, error) {
	if _, err := m.col.InsertOne(ctx, rev); err != nil {
		return nil, err
	}
	return rev, nil
}

func (m *MongoLedger) RecordCreation(ctx context.Context, nb *notebook.Notebook, user, message string) (*Revision, error) {
	return m.insert(ctx, newRevision(nb, user, message, KindCreation))
}

func (m *MongoLedger) RecordUpdate(ctx context.Context, nb *notebook.Notebook, user, message string, kind Kind) (*Revision, error) {
	return m.insert(ctx, newRevision(nb, user, message, kind))
}

func (m *MongoLedger) LatestFor(ctx context.Context, notebookUUID string) (*Revision, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	var rev Revision
	if err := m.col.FindOne(ctx, bson.M{"notebookUuid": notebookUUID}, opts).Decode(&rev); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rev, nil
}

func (m *MongoLedger) OverrideTimestamps(ctx context.Context, rev *Revision, t time.Time) error {
	set := bson.M{"$set": bson.M{"createdAt": t, "updatedAt": t}}
	res, err := m.col.UpdateOne(ctx, bson.M{"_id": rev.ID}, set)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	rev.CreatedAt = t
	rev.UpdatedAt = t
	return nil
}
