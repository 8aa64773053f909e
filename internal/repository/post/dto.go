package post

import (
	"cmp"
	"slices"
	"strconv"
	"time"

	dompost "github.com/kailas-cloud/postfeed/internal/domain/post"
)

// Hash field names.
const (
	fieldContent   = "content"
	fieldAuthor    = "author"
	fieldCreatedAt = "created_at" // unix milliseconds
	fieldSeq       = "seq"
)

// record is a stored post plus its insertion sequence.
type record struct {
	post dompost.Post
	seq  int64
}

// buildHashFields converts a stored Post into a flat map[string]string for HSET.
func buildHashFields(p *dompost.Post, seq int64) map[string]string {
	return map[string]string{
		fieldContent:   p.Content(),
		fieldAuthor:    p.Author(),
		fieldCreatedAt: strconv.FormatInt(p.CreatedAt().UnixMilli(), 10),
		fieldSeq:       strconv.FormatInt(seq, 10),
	}
}

// parseHashFields converts a flat hash map back into a record. Unparsable numbers become zero.
func parseHashFields(id string, m map[string]string) record {
	var createdAt time.Time
	if ms, err := strconv.ParseInt(m[fieldCreatedAt], 10, 64); err == nil {
		createdAt = time.UnixMilli(ms).UTC()
	}
	seq, _ := strconv.ParseInt(m[fieldSeq], 10, 64)

	return record{
		post: dompost.Reconstruct(id, m[fieldContent], m[fieldAuthor], createdAt),
		seq:  seq,
	}
}

// sortNewestFirst orders by createdAt desc, then later insertion first.
func sortNewestFirst(records []record) {
	slices.SortStableFunc(records, func(a, b record) int {
		if c := b.post.CreatedAt().Compare(a.post.CreatedAt()); c != 0 {
			return c
		}
		return cmp.Compare(b.seq, a.seq)
	})
}

func postsOf(records []record) []dompost.Post {
	out := make([]dompost.Post, len(records))
	for i := range records {
		out[i] = records[i].post
	}
	return out
}
