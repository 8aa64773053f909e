package postfeed

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/postfeed/internal/domain/comment"
	"github.com/kailas-cloud/postfeed/internal/domain/post"
)

// Post is a stored post.
type Post struct {
	ID        string
	Content   string
	Author    string
	CreatedAt time.Time
}

// Comment is a stored comment.
type Comment struct {
	ID        string
	PostID    string
	Content   string
	Author    string
	CreatedAt time.Time
}

// FeedItem is a post with all of its comments, newest first.
type FeedItem struct {
	Post
	Comments []Comment
}

// SearchResult holds the posts that match a query directly or through a comment,
// and every matching comment.
type SearchResult struct {
	Posts    []Post
	Comments []Comment
}

// Feed returns every post newest first, each with its comments.
func (c *Client) Feed(ctx context.Context) (items []FeedItem, err error) {
	start := time.Now()
	defer func() { c.obs.observe(opFeed, start, err) }()

	list, err := c.feedSvc.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("feed: %w", err)
	}

	items = make([]FeedItem, len(list))
	for i := range list {
		items[i] = FeedItem{Post: postFromDomain(&list[i].Post), Comments: commentsFromDomain(list[i].Comments)}
	}
	return items, nil
}

// Search returns posts matching query directly first, then posts reached through a
// matching comment. An empty query fails with ErrInvalidInput.
func (c *Client) Search(ctx context.Context, query string) (res SearchResult, err error) {
	start := time.Now()
	defer func() { c.obs.observe(opSearch, start, err) }()

	out, err := c.searchSvc.Search(ctx, query)
	if err != nil {
		return SearchResult{}, fmt.Errorf("search: %w", err)
	}

	posts := make([]Post, len(out.Posts))
	for i := range out.Posts {
		posts[i] = postFromDomain(&out.Posts[i])
	}
	return SearchResult{Posts: posts, Comments: commentsFromDomain(out.Comments)}, nil
}

// CreatePost stores a new post. HTML is stripped from content and author.
func (c *Client) CreatePost(ctx context.Context, content, author string) (p Post, err error) {
	start := time.Now()
	defer func() { c.obs.observe(opCreatePost, start, err) }()

	stored, err := c.feedSvc.CreatePost(ctx, content, author)
	if err != nil {
		return Post{}, fmt.Errorf("create post: %w", err)
	}
	return postFromDomain(&stored), nil
}

// AddComment stores a comment on postID. The post is not required to exist.
func (c *Client) AddComment(ctx context.Context, postID, content, author string) (cm Comment, err error) {
	start := time.Now()
	defer func() { c.obs.observe(opAddComment, start, err) }()

	stored, err := c.feedSvc.AddComment(ctx, postID, content, author)
	if err != nil {
		return Comment{}, fmt.Errorf("add comment: %w", err)
	}
	return commentFromDomain(&stored), nil
}

func postFromDomain(p *post.Post) Post {
	return Post{ID: p.ID(), Content: p.Content(), Author: p.Author(), CreatedAt: p.CreatedAt()}
}

func commentFromDomain(c *comment.Comment) Comment {
	return Comment{ID: c.ID(), PostID: c.PostID(), Content: c.Content(), Author: c.Author(), CreatedAt: c.CreatedAt()}
}

func commentsFromDomain(cc []comment.Comment) []Comment {
	out := make([]Comment, len(cc))
	for i := range cc {
		out[i] = commentFromDomain(&cc[i])
	}
	return out
}

