package identity

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoUsers implements UserRepository using MongoDB.
type MongoUsers struct {
	col *mongo.Collection
}

func NewMongoUsers(col *mongo.Collection) *MongoUsers {
	idx := mongo.IndexModel{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)}
	col.Indexes().CreateOne(context.Background(), idx)
	return &MongoUsers{col: col}
}

func (r *MongoUsers) FindByName(ctx context.Context, name string) (*User, error) {
	var u User
	if err := r.col.FindOne(ctx, bson.M{"name": name}).Decode(&u); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *MongoUsers) Save(ctx context.Context, u *User) error {
	now := time.Now().UTC()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
	filter := bson.M{"name": u.Name}
	set := bson.M{"$set": bson.M{
		"email":     u.Email,
		"createdAt": u.CreatedAt,
		"updatedAt": u.UpdatedAt,
	}}
	opts := options.Update().SetUpsert(true)
	_, err := r.col.UpdateOne(ctx, filter, set, opts)
	return err
}

// MongoGroups implements GroupRepository using MongoDB.
type MongoGroups struct {
	col *mongo.Collection
}

func NewMongoGroups(col *mongo.Collection) *MongoGroups {
	idx := mongo.IndexModel{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)}
	col.Indexes().CreateOne(context.Background(), idx)
	return &MongoGroups{col: col}
}

func (r *MongoGroups) FindByName(ctx context.Context, name string) (*Group, error) {
	var g Group
	if err := r.col.FindOne(ctx, bson.M{"name": name}).Decode(&g); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &g, nil
}

func (r *MongoGroups) Save(ctx context.Context, g *Group) error {
	now := time.Now().UTC()
	if g.CreatedAt.IsZero() {
		g.CreatedAt = now
	}
	g.UpdatedAt = now
	filter := bson.M{"name": g.Name}
	set := bson.M{"$set": bson.M{
		"description": g.Description,
		"createdAt":   g.CreatedAt,
		"updatedAt":   g.UpdatedAt,
	}}
	opts := options.Update().SetUpsert(true)
	_, err := r.col.UpdateOne(ctx, filter, set, opts)
	return err
}
