package mongodb

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/kailas-cloud/postfeed/internal/domain/comment"
	"github.com/kailas-cloud/postfeed/internal/domain/post"
	"github.com/kailas-cloud/postfeed/internal/domain/search/hit"
)

// Document field names.
const (
	fieldID        = "_id"
	fieldContent   = "content"
	fieldAuthor    = "author"
	fieldPostID    = "post_id"
	fieldCreatedAt = "created_at"
	fieldScore     = "score"
)

type postDoc struct {
	ID        bson.ObjectID `bson:"_id"`
	Content   string        `bson:"content"`
	Author    string        `bson:"author"`
	CreatedAt time.Time     `bson:"created_at"`
}

// scoredPostDoc is a post search result. Fields are declared directly: the codec
// does not inline unexported embedded structs.
type scoredPostDoc struct {
	ID        bson.ObjectID `bson:"_id"`
	Content   string        `bson:"content"`
	Author    string        `bson:"author"`
	CreatedAt time.Time     `bson:"created_at"`
	Score     float64       `bson:"score"`
}

type commentDoc struct {
	ID        bson.ObjectID `bson:"_id"`
	PostID    string        `bson:"post_id"`
	Content   string        `bson:"content"`
	Author    string        `bson:"author"`
	CreatedAt time.Time     `bson:"created_at"`
}

type scoredCommentDoc struct {
	ID        bson.ObjectID `bson:"_id"`
	PostID    string        `bson:"post_id"`
	Content   string        `bson:"content"`
	Author    string        `bson:"author"`
	CreatedAt time.Time     `bson:"created_at"`
	Score     float64       `bson:"score"`
}

func (d *postDoc) toDomain() post.Post {
	return post.Reconstruct(d.ID.Hex(), d.Content, d.Author, d.CreatedAt.UTC())
}

func (d *commentDoc) toDomain() comment.Comment {
	return comment.Reconstruct(d.ID.Hex(), d.PostID, d.Content, d.Author, d.CreatedAt.UTC())
}

func postHits(docs []scoredPostDoc) []hit.Hit[post.Post] {
	hits := make([]hit.Hit[post.Post], len(docs))
	for i := range docs {
		d := &docs[i]
		hits[i] = hit.New(post.Reconstruct(d.ID.Hex(), d.Content, d.Author, d.CreatedAt.UTC()), d.Score)
	}
	return hits
}

func commentHits(docs []scoredCommentDoc) []hit.Hit[comment.Comment] {
	hits := make([]hit.Hit[comment.Comment], len(docs))
	for i := range docs {
		d := &docs[i]
		hits[i] = hit.New(comment.Reconstruct(d.ID.Hex(), d.PostID, d.Content, d.Author, d.CreatedAt.UTC()), d.Score)
	}
	return hits
}

// newestFirst sorts by creation time, later insertions first on ties.
// ObjectIDs generated by one process increase monotonically.
func newestFirst() bson.D {
	return bson.D{{Key: fieldCreatedAt, Value: -1}, {Key: fieldID, Value: -1}}
}

func textScore() bson.D {
	return bson.D{{Key: "$meta", Value: "textScore"}}
}

func textFilter(query string) bson.D {
	return bson.D{{Key: "$text", Value: bson.D{{Key: "$search", Value: query}}}}
}

// objectIDs parses hex ids. Ids that are not ObjectIDs cannot exist and are skipped.
func objectIDs(ids []string) []bson.ObjectID {
	out := make([]bson.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := bson.ObjectIDFromHex(id)
		if err != nil {
			continue
		}
		out = append(out, oid)
	}
	return out
}
