// Package mongodb stores posts and comments in MongoDB and searches them through text indexes.
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/kailas-cloud/postfeed/internal/domain"
)

const (
	postsCollection    = "posts"
	commentsCollection = "comments"

	textIndexName     = "content_text"
	createdIndexName  = "created_at_desc"
	postRefIndexName  = "post_id_created_at"
	disconnectTimeout = 5 * time.Second
)

// Server error codes.
const (
	codeBadValue             = 2
	codeNamespaceNotFound    = 26
	codeIndexOptionsConflict = 85
	codeIndexKeyConflict     = 86
)

// Config holds MongoDB connection settings.
type Config struct {
	URI      string
	Database string
	Language string
	MaxHits  int
}

// Store owns the MongoDB client and the two collections.
type Store struct {
	client   *mongo.Client
	db       *mongo.Database
	language string
	maxHits  int
}

// Open creates a client. The driver connects lazily; use Ping to wait for the server.
func Open(cfg Config) (*Store, error) {
	if cfg.URI == "" {
		return nil, errors.New("mongo uri is required")
	}
	client, err := mongo.Connect(options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect to mongo: %w", err)
	}
	return &Store{
		client:   client,
		db:       client.Database(cfg.Database),
		language: cfg.Language,
		maxHits:  cfg.MaxHits,
	}, nil
}

// Ping checks that the primary is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("ping mongo: %w", err)
	}
	return nil
}

// Close disconnects the client.
func (s *Store) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), disconnectTimeout)
	defer cancel()
	_ = s.client.Disconnect(ctx)
}

// Posts returns the post repository.
func (s *Store) Posts() *Posts {
	return &Posts{col: s.db.Collection(postsCollection), maxHits: s.maxHits, now: time.Now}
}

// Comments returns the comment repository.
func (s *Store) Comments() *Comments {
	return &Comments{col: s.db.Collection(commentsCollection), maxHits: s.maxHits, now: time.Now}
}

// EnsureIndexes creates the text indexes and the listing indexes. Existing indexes are kept.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	posts := s.db.Collection(postsCollection)
	if _, err := posts.Indexes().CreateMany(ctx, postIndexes(s.language)); err != nil && !isIndexConflict(err) {
		return unavailable("create post indexes", err)
	}
	comments := s.db.Collection(commentsCollection)
	if _, err := comments.Indexes().CreateMany(ctx, commentIndexes(s.language)); err != nil && !isIndexConflict(err) {
		return unavailable("create comment indexes", err)
	}
	return nil
}

// IndexesReady reports whether both collections carry their text index.
func (s *Store) IndexesReady(ctx context.Context) (bool, error) {
	for _, name := range []string{postsCollection, commentsCollection} {
		specs, err := s.db.Collection(name).Indexes().ListSpecifications(ctx)
		if err != nil {
			if hasCode(err, codeNamespaceNotFound) { // collection not created yet
				return false, nil
			}
			return false, unavailable("list "+name+" indexes", err)
		}
		if !hasIndex(specs, textIndexName) {
			return false, nil
		}
	}
	return true, nil
}

func postIndexes(language string) []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: fieldContent, Value: "text"}},
			Options: options.Index().SetName(textIndexName).SetDefaultLanguage(language),
		},
		{
			Keys:    bson.D{{Key: fieldCreatedAt, Value: -1}, {Key: fieldID, Value: -1}},
			Options: options.Index().SetName(createdIndexName),
		},
	}
}

func commentIndexes(language string) []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: fieldContent, Value: "text"}},
			Options: options.Index().SetName(textIndexName).SetDefaultLanguage(language),
		},
		{
			Keys:    bson.D{{Key: fieldPostID, Value: 1}, {Key: fieldCreatedAt, Value: -1}},
			Options: options.Index().SetName(postRefIndexName),
		},
	}
}

func hasIndex(specs []mongo.IndexSpecification, name string) bool {
	for i := range specs {
		if specs[i].Name == name {
			return true
		}
	}
	return false
}

func isIndexConflict(err error) bool {
	return hasCode(err, codeIndexOptionsConflict) || hasCode(err, codeIndexKeyConflict)
}

func hasCode(err error, code int) bool {
	var se mongo.ServerError
	return errors.As(err, &se) && se.HasErrorCode(code)
}

// classify maps driver errors onto domain sentinels, keeping the cause in the chain.
func classify(op string, err error) error {
	if hasCode(err, codeBadValue) {
		return fmt.Errorf("%s: %w: %w", op, domain.ErrMalformedQuery, err)
	}
	return unavailable(op, err)
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStoreUnavailable, err)
}
