package feed

import "github.com/kailas-cloud/postfeed/internal/domain/post"

// PostSet is an insertion-ordered set of posts keyed by id.
// The first post added for an id wins and keeps its position.
type PostSet struct {
	index map[string]int
	posts []post.Post
}

// NewPostSet creates an empty set with room for sizeHint posts.
func NewPostSet(sizeHint int) *PostSet {
	return &PostSet{
		index: make(map[string]int, sizeHint),
		posts: make([]post.Post, 0, sizeHint),
	}
}

// Add inserts p unless a post with the same id is already present.
// Returns false for duplicates.
func (s *PostSet) Add(p post.Post) bool {
	if _, ok := s.index[p.ID()]; ok {
		return false
	}
	s.index[p.ID()] = len(s.posts)
	s.posts = append(s.posts, p)
	return true
}

// AddAll inserts posts in order and returns how many were duplicates.
func (s *PostSet) AddAll(posts []post.Post) (dropped int) {
	for _, p := range posts {
		if !s.Add(p) {
			dropped++
		}
	}
	return dropped
}

// Contains reports whether a post with id is present.
func (s *PostSet) Contains(id string) bool {
	_, ok := s.index[id]
	return ok
}

// Len returns the number of distinct posts.
func (s *PostSet) Len() int { return len(s.posts) }

// Posts returns the posts in insertion order.
func (s *PostSet) Posts() []post.Post {
	out := make([]post.Post, len(s.posts))
	copy(out, s.posts)
	return out
}
