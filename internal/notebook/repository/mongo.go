package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nbhive/nbhive/internal/notebook"
)

// MongoRepo implements a MongoDB-backed notebook repository. Unique indexes
// on uuid and on (ownerKey, title) back the identity and routing invariants.
type MongoRepo struct {
	col *mongo.Collection
}

func NewMongoRepo(col *mongo.Collection) *MongoRepo {
	uuidIdx := mongo.IndexModel{Keys: bson.D{{Key: "uuid", Value: 1}}, Options: options.Index().SetUnique(true)}
	ownerTitleIdx := mongo.IndexModel{
		Keys:    bson.D{{Key: "ownerKey", Value: 1}, {Key: "title", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	col.Indexes().CreateMany(context.Background(), []mongo.IndexModel{uuidIdx, ownerTitleIdx})
	return &MongoRepo{col: col}
}

func (m *MongoRepo) FindByOwnerTitle(ctx context.Context, ownerKey, title string) (*notebook.Notebook, error) {
	var nb notebook.Notebook
	filter := bson.M{"ownerKey": ownerKey, "title": notebook.GroomTitle(title)}
	if err := m.col.FindOne(ctx, filter).Decode(&nb); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &nb, nil
}

func (m *MongoRepo) FindByUUID(ctx context.Context, uuid string) (*notebook.Notebook, error) {
	var nb notebook.Notebook
	if err := m.col.FindOne(ctx, bson.M{"uuid": uuid}).Decode(&nb); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &nb, nil
}

func (m *MongoRepo) Save(ctx context.Context, nb *notebook.Notebook) error {
	now := time.Now().UTC()
	if nb.CreatedAt.IsZero() {
		nb.CreatedAt = now
	}
	if nb.UpdatedAt.IsZero() {
		nb.UpdatedAt = now
	}
	nb.OwnerKey = nb.Owner.Key()
	filter := bson.M{"uuid": nb.UUID}
	opts := options.Replace().SetUpsert(true)
	_, err := m.col.ReplaceOne(ctx, filter, nb, opts)
	return err
}

func (m *MongoRepo) ListPublic(ctx context.Context) ([]*notebook.Notebook, error) {
	return m.list(ctx, bson.M{"public": true})
}

func (m *MongoRepo) ListAll(ctx context.Context) ([]*notebook.Notebook, error) {
	return m.list(ctx, bson.M{})
}

func (m *MongoRepo) list(ctx context.Context, filter bson.M) ([]*notebook.Notebook, error) {
	opts := options.Find().SetSort(bson.D{{Key: "uuid", Value: 1}})
	cur, err := m.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []*notebook.Notebook{}
	for cur.Next(ctx) {
		var nb notebook.Notebook
		if err := cur.Decode(&nb); err != nil {
			return nil, err
		}
		out = append(out, &nb)
	}
	return out, cur.Err()
}
