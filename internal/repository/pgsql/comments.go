package pgsql

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kailas-cloud/postfeed/internal/domain/comment"
	"github.com/kailas-cloud/postfeed/internal/domain/search/hit"
)

// Comments is the PostgreSQL comment repository.
type Comments struct {
	db       *gorm.DB
	language string
	maxHits  int
	now      func() time.Time
}

// Insert stores c. post_id carries no foreign key constraint.
func (r *Comments) Insert(ctx context.Context, c *comment.Comment) (comment.Comment, error) {
	m := commentModel{
		ID:        uuid.NewString(),
		PostID:    c.PostID(),
		Content:   c.Content(),
		Author:    c.Author(),
		CreatedAt: r.now().UTC().Truncate(time.Millisecond),
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return comment.Comment{}, unavailable("insert comment", err)
	}
	return m.toDomain(), nil
}

// ListByPost returns the comments of postID by createdAt desc.
func (r *Comments) ListByPost(ctx context.Context, postID string) ([]comment.Comment, error) {
	var rows []commentModel
	err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order(newestFirst).
		Find(&rows).Error
	if err != nil {
		return nil, unavailable("list comments", err)
	}
	out := make([]comment.Comment, len(rows))
	for i := range rows {
		out[i] = rows[i].toDomain()
	}
	return out, nil
}

// Search ranks comments with ts_rank over the content tsvector.
func (r *Comments) Search(ctx context.Context, query string) ([]hit.Hit[comment.Comment], error) {
	var rows []scoredComment
	err := r.db.WithContext(ctx).
		Raw(searchSQL(commentModel{}.TableName(), r.language), query, limitArg(r.maxHits)).
		Scan(&rows).Error
	if err != nil {
		return nil, unavailable("search comments", err)
	}
	return commentHits(rows), nil
}
