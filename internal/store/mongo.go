package store

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"moodplaylist/internal/models"
)

const mongoTimeout = 5 * time.Second

// MongoConfig describes how to reach the document store.
type MongoConfig struct {
	Username   string
	Password   string
	Host       string
	Database   string
	Collection string
}

// URI builds a mongodb:// connection string, escaping the credentials.
func (c MongoConfig) URI() string {
	u := url.URL{Scheme: "mongodb", Host: c.Host, Path: "/"}
	if c.Username != "" {
		u.User = url.UserPassword(c.Username, c.Password)
	}
	return u.String()
}

type playlistDocument struct {
	ID        primitive.ObjectID `bson:"_id"`
	Mood      string             `bson:"mood"`
	TrackURIs []string           `bson:"trackUris"`
}

// MongoStore keeps one document per playlist in a single collection.
type MongoStore struct {
	collection *mongo.Collection
}

// NewMongoStore wraps an existing collection handle.
func NewMongoStore(collection *mongo.Collection) *MongoStore {
	return &MongoStore{collection: collection}
}

// OpenMongo connects to the configured deployment and verifies it responds.
func OpenMongo(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	opts := options.Client().
		ApplyURI(cfg.URI()).
		SetConnectTimeout(mongoTimeout).
		SetServerSelectionTimeout(mongoTimeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, mongoTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	return NewMongoStore(client.Database(cfg.Database).Collection(cfg.Collection)), nil
}

// SavePlaylist inserts a new document with a freshly generated ObjectID.
func (s *MongoStore) SavePlaylist(ctx context.Context, playlist models.Playlist) (models.Playlist, error) {
	doc := playlistDocument{
		ID:        primitive.NewObjectID(),
		Mood:      playlist.Mood.String(),
		TrackURIs: cloneURIs(playlist.TrackURIs),
	}

	if _, err := s.collection.InsertOne(ctx, doc); err != nil {
		return models.Playlist{}, persistenceError("insert playlist", err)
	}

	return toPlaylist(doc), nil
}

// GetPlaylist loads a playlist by its hex ObjectID.
func (s *MongoStore) GetPlaylist(ctx context.Context, id string) (models.Playlist, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Playlist{}, ErrPlaylistNotFound
	}

	var doc playlistDocument
	err = s.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Playlist{}, ErrPlaylistNotFound
	}
	if err != nil {
		return models.Playlist{}, persistenceError("get playlist", err)
	}

	return toPlaylist(doc), nil
}

// Ping checks the primary is reachable.
func (s *MongoStore) Ping(ctx context.Context) error {
	if err := s.collection.Database().Client().Ping(ctx, readpref.Primary()); err != nil {
		return persistenceError("ping", err)
	}
	return nil
}

// Close disconnects the underlying client.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), mongoTimeout)
	defer cancel()
	return s.collection.Database().Client().Disconnect(ctx)
}

func toPlaylist(doc playlistDocument) models.Playlist {
	return models.Playlist{
		ID:        doc.ID.Hex(),
		Mood:      models.Mood(doc.Mood),
		TrackURIs: cloneURIs(doc.TrackURIs),
	}
}
