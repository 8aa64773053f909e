package pgsql

import (
	"fmt"
	"time"

	"github.com/kailas-cloud/postfeed/internal/domain/comment"
	"github.com/kailas-cloud/postfeed/internal/domain/post"
	"github.com/kailas-cloud/postfeed/internal/domain/search/hit"
)

const (
	postTextIndex    = "idx_posts_content_fts"
	commentTextIndex = "idx_comments_content_fts"
)

type postModel struct {
	ID        string    `gorm:"type:varchar(36);primaryKey"`
	Seq       int64     `gorm:"autoIncrement;uniqueIndex"`
	Content   string    `gorm:"type:text;not null"`
	Author    string    `gorm:"size:100;not null"`
	CreatedAt time.Time `gorm:"not null;index:idx_posts_created,sort:desc"`
}

func (postModel) TableName() string { return "posts" }

type commentModel struct {
	ID        string    `gorm:"type:varchar(36);primaryKey"`
	Seq       int64     `gorm:"autoIncrement;uniqueIndex"`
	PostID    string    `gorm:"type:varchar(64);not null;index:idx_comments_post_created,priority:1"`
	Content   string    `gorm:"type:text;not null"`
	Author    string    `gorm:"size:100;not null"`
	CreatedAt time.Time `gorm:"not null;index:idx_comments_post_created,priority:2,sort:desc"`
}

func (commentModel) TableName() string { return "comments" }

// scoredPost is a post search row. Columns are declared directly: gorm does not map
// unexported embedded structs.
type scoredPost struct {
	ID        string
	Seq       int64
	Content   string
	Author    string
	CreatedAt time.Time
	Score     float64
}

type scoredComment struct {
	ID        string
	Seq       int64
	PostID    string
	Content   string
	Author    string
	CreatedAt time.Time
	Score     float64
}

func (m *postModel) toDomain() post.Post {
	return post.Reconstruct(m.ID, m.Content, m.Author, m.CreatedAt.UTC())
}

func (m *commentModel) toDomain() comment.Comment {
	return comment.Reconstruct(m.ID, m.PostID, m.Content, m.Author, m.CreatedAt.UTC())
}

func postHits(rows []scoredPost) []hit.Hit[post.Post] {
	hits := make([]hit.Hit[post.Post], len(rows))
	for i := range rows {
		r := &rows[i]
		hits[i] = hit.New(post.Reconstruct(r.ID, r.Content, r.Author, r.CreatedAt.UTC()), r.Score)
	}
	return hits
}

func commentHits(rows []scoredComment) []hit.Hit[comment.Comment] {
	hits := make([]hit.Hit[comment.Comment], len(rows))
	for i := range rows {
		r := &rows[i]
		hits[i] = hit.New(comment.Reconstruct(r.ID, r.PostID, r.Content, r.Author, r.CreatedAt.UTC()), r.Score)
	}
	return hits
}

// newestFirst orders by creation time, later insertions first on ties.
const newestFirst = "created_at DESC, seq DESC"

// tsvector is the indexed expression. It must match textIndexStatements exactly for the
// planner to use the GIN index. language is validated by Open.
func tsvector(language string) string {
	return fmt.Sprintf("to_tsvector('%s', content)", language)
}

// tsquery ORs the normalised terms of the user query, like the other backends.
func tsquery(language string) string {
	return fmt.Sprintf("replace(plainto_tsquery('%s', ?)::text, '&', '|')::tsquery", language)
}

func textIndexStatements(language string) []string {
	return []string{
		fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON posts USING GIN (%s)", postTextIndex, tsvector(language)),
		fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON comments USING GIN (%s)", commentTextIndex, tsvector(language)),
	}
}

// searchSQL selects rows of table matching the query, best ts_rank first.
// Parameters: query text, limit.
func searchSQL(table, language string) string {
	return fmt.Sprintf(
		"SELECT t.*, ts_rank(%[2]s, q.query) AS score FROM %[1]s t, (SELECT %[3]s AS query) q "+
			"WHERE %[2]s @@ q.query ORDER BY score DESC, t.seq DESC LIMIT ?",
		table, tsvector(language), tsquery(language),
	)
}
