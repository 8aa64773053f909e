package post

import (
	"strings"
	"time"

	"github.com/kailas-cloud/postfeed/internal/domain"
)

const (
	// MaxContentSize is the maximum post content size in bytes.
	MaxContentSize = 10000
	// MaxAuthorSize is the maximum author name size in bytes.
	MaxAuthorSize = 100
)

// Post is a top-level feed entry (immutable value object).
// id and createdAt are assigned by the store on insert.
type Post struct {
	id        string
	content   string
	author    string
	createdAt time.Time
}

// New validates and creates an unsaved Post.
// Content and author must be non-blank; surrounding whitespace is trimmed.
func New(content, author string) (Post, error) {
	content = strings.TrimSpace(content)
	author = strings.TrimSpace(author)

	if content == "" {
		return Post{}, domain.InvalidInput("content is required")
	}
	if len(content) > MaxContentSize {
		return Post{}, domain.InvalidInput("content too large (max %d bytes)", MaxContentSize)
	}
	if author == "" {
		return Post{}, domain.InvalidInput("author is required")
	}
	if len(author) > MaxAuthorSize {
		return Post{}, domain.InvalidInput("author too long (max %d bytes)", MaxAuthorSize)
	}

	return Post{content: content, author: author}, nil
}

// Reconstruct creates a Post without validation (storage hydration).
func Reconstruct(id, content, author string, createdAt time.Time) Post {
	return Post{id: id, content: content, author: author, createdAt: createdAt}
}

// ID returns the store-assigned identifier.
func (p *Post) ID() string { return p.id }

// Content returns the post text.
func (p *Post) Content() string { return p.content }

// Author returns the author name.
func (p *Post) Author() string { return p.author }

// CreatedAt returns the creation timestamp.
func (p *Post) CreatedAt() time.Time { return p.createdAt }

// IsStored reports whether the post has been assigned an id by the store.
func (p *Post) IsStored() bool { return p.id != "" }
