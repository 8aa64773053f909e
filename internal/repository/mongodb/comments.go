package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/kailas-cloud/postfeed/internal/domain/comment"
	"github.com/kailas-cloud/postfeed/internal/domain/search/hit"
)

// Comments is the MongoDB comment repository.
type Comments struct {
	col     *mongo.Collection
	maxHits int
	now     func() time.Time
}

// Insert stores c. The referenced post is not checked.
func (r *Comments) Insert(ctx context.Context, c *comment.Comment) (comment.Comment, error) {
	doc := commentDoc{
		ID:        bson.NewObjectID(),
		PostID:    c.PostID(),
		Content:   c.Content(),
		Author:    c.Author(),
		CreatedAt: r.now().UTC().Truncate(time.Millisecond),
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return comment.Comment{}, unavailable("insert comment", err)
	}
	return doc.toDomain(), nil
}

// ListByPost returns the comments of postID by createdAt desc.
func (r *Comments) ListByPost(ctx context.Context, postID string) ([]comment.Comment, error) {
	cur, err := r.col.Find(ctx, bson.D{{Key: fieldPostID, Value: postID}}, options.Find().SetSort(newestFirst()))
	if err != nil {
		return nil, unavailable("list comments", err)
	}
	var docs []commentDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, unavailable("decode comments", err)
	}

	out := make([]comment.Comment, len(docs))
	for i := range docs {
		out[i] = docs[i].toDomain()
	}
	return out, nil
}

// Search runs a $text query over comment content, best textScore first.
func (r *Comments) Search(ctx context.Context, query string) ([]hit.Hit[comment.Comment], error) {
	opts := options.Find().
		SetProjection(bson.D{{Key: fieldScore, Value: textScore()}}).
		SetSort(bson.D{{Key: fieldScore, Value: textScore()}, {Key: fieldID, Value: -1}})
	if r.maxHits > 0 {
		opts.SetLimit(int64(r.maxHits))
	}

	cur, err := r.col.Find(ctx, textFilter(query), opts)
	if err != nil {
		return nil, classify("search comments", err)
	}
	var docs []scoredCommentDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, classify("decode comment hits", err)
	}

	return commentHits(docs), nil
}
