package comment

import (
	"strings"
	"time"

	"github.com/kailas-cloud/postfeed/internal/domain"
)

const (
	// MaxContentSize is the maximum comment content size in bytes.
	MaxContentSize = 10000
	// MaxAuthorSize is the maximum author name size in bytes.
	MaxAuthorSize = 100
)

// Comment is a text entry attached to exactly one post.
// The referenced post is not guaranteed to exist.
type Comment struct {
	id        string
	postID    string
	content   string
	author    string
	createdAt time.Time
}

// New validates and creates an unsaved Comment for postID.
func New(postID, content, author string) (Comment, error) {
	postID = strings.TrimSpace(postID)
	content = strings.TrimSpace(content)
	author = strings.TrimSpace(author)

	if postID == "" {
		return Comment{}, domain.InvalidInput("post id is required")
	}
	if content == "" {
		return Comment{}, domain.InvalidInput("content is required")
	}
	if len(content) > MaxContentSize {
		return Comment{}, domain.InvalidInput("content too large (max %d bytes)", MaxContentSize)
	}
	if author == "" {
		return Comment{}, domain.InvalidInput("author is required")
	}
	if len(author) > MaxAuthorSize {
		return Comment{}, domain.InvalidInput("author too long (max %d bytes)", MaxAuthorSize)
	}

	return Comment{postID: postID, content: content, author: author}, nil
}

// Reconstruct creates a Comment without validation (storage hydration).
func Reconstruct(id, postID, content, author string, createdAt time.Time) Comment {
	return Comment{id: id, postID: postID, content: content, author: author, createdAt: createdAt}
}

// ID returns the store-assigned identifier.
func (c *Comment) ID() string { return c.id }

// PostID returns the id of the post this comment was written for.
func (c *Comment) PostID() string { return c.postID }

// Content returns the comment text.
func (c *Comment) Content() string { return c.content }

// Author returns the author name.
func (c *Comment) Author() string { return c.author }

// CreatedAt returns the creation timestamp.
func (c *Comment) CreatedAt() time.Time { return c.createdAt }
