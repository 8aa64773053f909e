// Package feed holds the read models assembled from posts and comments.
package feed

import (
	"github.com/kailas-cloud/postfeed/internal/domain/comment"
	"github.com/kailas-cloud/postfeed/internal/domain/post"
)

// PostWithComments is a post together with all of its comments, newest first.
type PostWithComments struct {
	Post     post.Post
	Comments []comment.Comment
}

// SearchResult is the aggregated answer to a feed search.
// Posts are ordered: direct matches by relevance, then posts reached only
// through a matching comment. Comments are the full comment match list.
type SearchResult struct {
	Posts    []post.Post
	Comments []comment.Comment
}

// EmptySearchResult returns a result with non-nil empty slices.
func EmptySearchResult() SearchResult {
	return SearchResult{Posts: []post.Post{}, Comments: []comment.Comment{}}
}
