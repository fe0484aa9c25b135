package notes

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"yt-transcripts/pkg/domain"
)

// MongoStore saves video notes to a MongoDB collection.
type MongoStore struct {
	mongoClient *mongo.Client
	collection  *mongo.Collection
}

// NewMongoStore creates a store over the given connection string,
// database and collection. Connection errors surface on Connect.
func NewMongoStore(connectionString, databaseName, collectionName string) *MongoStore {
	clientOptions := options.Client().ApplyURI(connectionString)
	mongoClient, err := mongo.Connect(context.Background(), clientOptions)
	if err != nil {
		return &MongoStore{}
	}

	return &MongoStore{
		mongoClient: mongoClient,
		collection:  mongoClient.Database(databaseName).Collection(collectionName),
	}
}

// Connect verifies the MongoDB connection.
func (s *MongoStore) Connect(ctx context.Context) error {
	if s.mongoClient == nil {
		return fmt.Errorf("mongo client not initialized")
	}
	return s.mongoClient.Ping(ctx, nil)
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close(ctx context.Context) error {
	if s.mongoClient == nil {
		return nil
	}
	return s.mongoClient.Disconnect(ctx)
}

// SaveNote upserts the note keyed by video ID, so re-extracting a video
// replaces its note rather than duplicating it.
func (s *MongoStore) SaveNote(ctx context.Context, note *domain.VideoNote) error {
	if s.collection == nil {
		return fmt.Errorf("collection not initialized")
	}

	filter := bson.M{"video_id": note.VideoID}
	update := bson.M{"$set": note}
	opts := options.Update().SetUpsert(true)

	_, err := s.collection.UpdateOne(ctx, filter, update, opts)
	return err
}

// ListVideoIDs returns the set of video IDs that already have notes.
func (s *MongoStore) ListVideoIDs(ctx context.Context) (map[string]bool, error) {
	if s.collection == nil {
		return nil, fmt.Errorf("collection not initialized")
	}

	cursor, err := s.collection.Find(ctx, bson.M{}, options.Find().SetProjection(bson.M{"video_id": 1, "_id": 0}))
	if err != nil {
		return nil, fmt.Errorf("failed to query video IDs: %w", err)
	}
	defer cursor.Close(ctx)

	ids := make(map[string]bool)
	for cursor.Next(ctx) {
		var result struct {
			VideoID string `bson:"video_id"`
		}
		if err := cursor.Decode(&result); err != nil {
			continue // Skip invalid documents
		}
		if result.VideoID != "" {
			ids[result.VideoID] = true
		}
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}

	return ids, nil
}
