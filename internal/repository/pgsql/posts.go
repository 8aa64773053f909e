package pgsql

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kailas-cloud/postfeed/internal/domain/post"
	"github.com/kailas-cloud/postfeed/internal/domain/search/hit"
)

// Posts is the PostgreSQL post repository.
type Posts struct {
	db       *gorm.DB
	language string
	maxHits  int
	now      func() time.Time
}

// Insert assigns a UUID and the current time; seq comes from the bigserial column.
func (r *Posts) Insert(ctx context.Context, p *post.Post) (post.Post, error) {
	m := postModel{
		ID:        uuid.NewString(),
		Content:   p.Content(),
		Author:    p.Author(),
		CreatedAt: r.now().UTC().Truncate(time.Millisecond),
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return post.Post{}, unavailable("insert post", err)
	}
	return m.toDomain(), nil
}

// ListNewestFirst returns every post by createdAt desc.
func (r *Posts) ListNewestFirst(ctx context.Context) ([]post.Post, error) {
	var rows []postModel
	if err := r.db.WithContext(ctx).Order(newestFirst).Find(&rows).Error; err != nil {
		return nil, unavailable("list posts", err)
	}
	out := make([]post.Post, len(rows))
	for i := range rows {
		out[i] = rows[i].toDomain()
	}
	return out, nil
}

// Search ranks posts with ts_rank over the content tsvector.
func (r *Posts) Search(ctx context.Context, query string) ([]hit.Hit[post.Post], error) {
	var rows []scoredPost
	err := r.db.WithContext(ctx).
		Raw(searchSQL(postModel{}.TableName(), r.language), query, limitArg(r.maxHits)).
		Scan(&rows).Error
	if err != nil {
		return nil, unavailable("search posts", err)
	}
	return postHits(rows), nil
}

// FindByIDs returns the posts among ids that exist, in no particular order.
func (r *Posts) FindByIDs(ctx context.Context, ids []string) ([]post.Post, error) {
	if len(ids) == 0 {
		return []post.Post{}, nil
	}
	var rows []postModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, unavailable("find posts by id", err)
	}
	out := make([]post.Post, len(rows))
	for i := range rows {
		out[i] = rows[i].toDomain()
	}
	return out, nil
}

// limitArg binds LIMIT; NULL means no limit.
func limitArg(maxHits int) any {
	if maxHits <= 0 {
		return nil
	}
	return maxHits
}
