// Package recommend records the initial-upload affinity signal consumed by
// the (external) recommendation pipeline. Scoring, binning, and reporting all
// live outside this service; only the edge write is in scope.
package recommend

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Signals registers recommendation bookkeeping edges.
type Signals interface {
	RegisterUpload(ctx context.Context, notebookUUID, userName string) error
}

// MemorySignals is the in-memory twin used for dev mode and tests.
type MemorySignals struct {
	mu    sync.Mutex
	edges map[string]time.Time // notebookUUID + "\x00" + userName
}

func NewMemorySignals() *MemorySignals {
	return &MemorySignals{edges: make(map[string]time.Time)}
}

func (m *MemorySignals) RegisterUpload(ctx context.Context, notebookUUID, userName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := notebookUUID + "\x00" + userName
	if _, ok := m.edges[key]; !ok {
		m.edges[key] = time.Now().UTC()
	}
	return nil
}

// Has reports whether an edge exists (test helper).
func (m *MemorySignals) Has(notebookUUID, userName string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.edges[notebookUUID+"\x00"+userName]
	return ok
}

// MongoSignals persists affinity edges; repeat uploads do not duplicate.
type MongoSignals struct {
	col *mongo.Collection
}

func NewMongoSignals(col *mongo.Collection) *MongoSignals {
	idx := mongo.IndexModel{
		Keys:    bson.D{{Key: "notebookUuid", Value: 1}, {Key: "user", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	col.Indexes().CreateOne(context.Background(), idx)
	return &MongoSignals{col: col}
}

func (m *MongoSignals) RegisterUpload(ctx context.Context, notebookUUID, userName string) error {
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
