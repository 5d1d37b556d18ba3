// Package discussion manages per-notebook discussion thread subscriptions.
// Import subscribes the updater so they hear about later activity; rendering
// and notification delivery are out of scope here.
package discussion

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Threads manages thread subscriptions. Subscribe is idempotent.
type Threads interface {
	Subscribe(ctx context.Context, notebookUUID, userName string) error
}

// MemoryThreads is the in-memory twin used for dev mode and tests.
type MemoryThreads struct {
	mu   sync.Mutex
	subs map[string]struct{} // notebookUUID + "\x00" + userName
}

func NewMemoryThreads() *MemoryThreads {
	return &MemoryThreads{subs: make(map[string]struct{})}
}

func (m *MemoryThreads) Subscribe(ctx context.Context, notebookUUID, userName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs[notebookUUID+"\x00"+userName] = struct{}{}
	return nil
}

// Subscribed reports whether the user follows the thread (test helper).
func (m *MemoryThreads) Subscribed(notebookUUID, userName string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.subs[notebookUUID+"\x00"+userName]
	return ok
}

// MongoThreads persists subscriptions.
type MongoThreads struct {
	col *mongo.Collection
}

func NewMongoThreads(col *mongo.Collection) *MongoThreads {
	idx := mongo.IndexModel{
		Keys:    bson.D{{Key: "notebookUuid", Value: 1}, {Key: "user", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	col.Indexes().CreateOne(context.Background(), idx)
	return &MongoThreads{col: col}
}

func (m *MongoThreads) Subscribe(ctx context.Context, notebookUUID, userName string) error {
	filter := bson.M{"notebookUuid": notebookUUID, "user": userName}
	set := bson.M{"$setOnInsert": bson.M{
		"notebookUuid": notebookUUID,
		"user":         userName,
		"createdAt":    time.Now().UTC(),
	}}
	opts := options.Update().SetUpsert(true)
	_, err := m.col.UpdateOne(ctx, filter, set, opts)
	return err
}
