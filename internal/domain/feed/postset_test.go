package feed

import (
	"testing"
	"time"

	"github.com/kailas-cloud/postfeed/internal/domain/post"
)

func mkPost(id string) post.Post {
	return post.Reconstruct(id, "content "+id, "author", time.Unix(0, 0))
}

func ids(posts []post.Post) []string {
	out := make([]string, len(posts))
	for i := range posts {
		out[i] = posts[i].ID()
	}
	return out
}

func TestPostSet_FirstOccurrenceWins(t *testing.T) {
	s := NewPostSet(4)

	dropped := s.AddAll([]post.Post{mkPost("a"), mkPost("b")})
	if dropped != 0 {
		t.Fatalf("dropped = %d, want 0", dropped)
	}

	dupe := post.Reconstruct("a", "other content", "other", time.Unix(99, 0))
	dropped = s.AddAll([]post.Post{mkPost("c"), dupe, mkPost("b")})
	if dropped != 2 {
		t.Errorf("dropped = %d, want 2", dropped)
	}

	got := s.Posts()
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", ids(got), want)
	}
	for i := range want {
		if got[i].ID() != want[i] {
			t.Fatalf("got %v, want %v", ids(got), want)
		}
	}
	if got[0].Content() != "content a" {
		t.Errorf("first occurrence should be kept, got content %q", got[0].Content())
	}
}

func TestPostSet_Contains(t *testing.T) {
	s := NewPostSet(0)
	s.Add(mkPost("x"))

	if !s.Contains("x") {
		t.Error("expected x to be present")
	}
	if s.Contains("y") {
		t.Error("y should be absent")
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d", s.Len())
	}
}

func TestPostSet_PostsReturnsCopy(t *testing.T) {
	s := NewPostSet(1)
	s.Add(mkPost("a"))

	out := s.Posts()
	out[0] = mkPost("z")

	if s.Posts()[0].ID() != "a" {
		t.Error("mutating Posts() result leaked into the set")
	}
}

func TestEmptySearchResult_NonNil(t *testing.T) {
	r := EmptySearchResult()
	if r.Posts == nil || r.Comments == nil {
		t.Fatal("expected non-nil slices")
	}
}
