package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/kailas-cloud/postfeed/internal/domain/post"
	"github.com/kailas-cloud/postfeed/internal/domain/search/hit"
)

// Posts is the MongoDB post repository.
type Posts struct {
	col     *mongo.Collection
	maxHits int
	now     func() time.Time
}

// Insert stores p with a new ObjectID and the current time.
func (r *Posts) Insert(ctx context.Context, p *post.Post) (post.Post, error) {
	doc := postDoc{
		ID:        bson.NewObjectID(),
		Content:   p.Content(),
		Author:    p.Author(),
		CreatedAt: r.now().UTC().Truncate(time.Millisecond),
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return post.Post{}, unavailable("insert post", err)
	}
	return doc.toDomain(), nil
}

// ListNewestFirst returns every post by createdAt desc.
func (r *Posts) ListNewestFirst(ctx context.Context) ([]post.Post, error) {
	cur, err := r.col.Find(ctx, bson.D{}, options.Find().SetSort(newestFirst()))
	if err != nil {
		return nil, unavailable("list posts", err)
	}
	var docs []postDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, unavailable("decode posts", err)
	}

	out := make([]post.Post, len(docs))
	for i := range docs {
		out[i] = docs[i].toDomain()
	}
	return out, nil
}

// Search runs a $text query, best textScore first.
func (r *Posts) Search(ctx context.Context, query string) ([]hit.Hit[post.Post], error) {
	opts := options.Find().
		SetProjection(bson.D{{Key: fieldScore, Value: textScore()}}).
		SetSort(bson.D{{Key: fieldScore, Value: textScore()}, {Key: fieldID, Value: -1}})
	if r.maxHits > 0 {
		opts.SetLimit(int64(r.maxHits))
	}

	cur, err := r.col.Find(ctx, textFilter(query), opts)
	if err != nil {
		return nil, classify("search posts", err)
	}
	var docs []scoredPostDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, classify("decode post hits", err)
	}

	return postHits(docs), nil
}

// FindByIDs returns the posts among ids that exist, in no particular order.
func (r *Posts) FindByIDs(ctx context.Context, ids []string) ([]post.Post, error) {
	oids := objectIDs(ids)
	if len(oids) == 0 {
		return []post.Post{}, nil
	}

	cur, err := r.col.Find(ctx, bson.D{{Key: fieldID, Value: bson.D{{Key: "$in", Value: oids}}}})
	if err != nil {
		return nil, unavailable("find posts by id", err)
	}
	var docs []postDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, unavailable("decode posts", err)
	}

	out := make([]post.Post, len(docs))
	for i := range docs {
		out[i] = docs[i].toDomain()
	}
	return out, nil
}
