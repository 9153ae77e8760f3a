// Package vectorstore persists embedded text chunks in MongoDB and serves
// nearest-neighbor queries through Atlas Vector Search.
package vectorstore

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Record is one embedded chunk. The embedding field name must match the
// vector index definition.
type Record struct {
	Text      string    `bson:"text"`
	Embedding []float32 `bson:"embedding"`
	Source    string    `bson:"source,omitempty"`
}

// Store wraps the embeddings collection.
type Store struct {
	client    *mongo.Client
	col       *mongo.Collection
	indexName string
}

// Connect dials MongoDB and pings it before returning.
func Connect(ctx context.Context, uri, database, collection, indexName string) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping MongoDB: %w", err)
	}

	return &Store{
		client:    client,
		col:       client.Database(database).Collection(collection),
		indexName: indexName,
	}, nil
}

// Clear removes every record. A count check first keeps the no-op rebuild
// from issuing a delete against an empty collection.
func (s *Store) Clear(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	count, err := s.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("count records: %w", err)
	}
	if count == 0 {
		return nil
	}
	if _, err := s.col.DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("clear records: %w", err)
	}
	return nil
}

// Insert persists records in bulk.
func (s *Store) Insert(ctx context.Context, records []Record) error {
	if len(records) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	docs := make([]any, len(records))
	for i, r := range records {
		docs[i] = r
	}
	if _, err := s.col.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("insert records: %w", err)
	}
	return nil
}

// Count returns the number of stored records.
func (s *Store) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.col.CountDocuments(ctx, bson.M{})
}

// Search returns the k records nearest to the query vector.
func (s *Store) Search(ctx context.Context, vector []float32, k int) ([]Record, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$vectorSearch", Value: bson.D{
			{Key: "index", Value: s.indexName},
			{Key: "path", Value: "embedding"},
			{Key: "queryVector", Value: vector},
			{Key: "numCandidates", Value: k * 20},
			{Key: "limit", Value: k},
		}}},
	}

	cursor, err := s.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	defer cursor.Close(ctx)

	var records []Record
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("decode search results: %w", err)
	}
	return records, nil
}

// Close disconnects from MongoDB.
func (s *Store) Close(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}
