package comment

import (
	"cmp"
	"slices"
	"strconv"
	"time"

	domcomment "github.com/kailas-cloud/postfeed/internal/domain/comment"
)

// Hash field names.
const (
	fieldContent   = "content"
	fieldAuthor    = "author"
	fieldPostID    = "post_id"
	fieldCreatedAt = "created_at" // unix milliseconds
	fieldSeq       = "seq"
)

type record struct {
	comment domcomment.Comment
	seq     int64
}

func buildHashFields(c *domcomment.Comment, seq int64) map[string]string {
	return map[string]string{
		fieldContent:   c.Content(),
		fieldAuthor:    c.Author(),
		fieldPostID:    c.PostID(),
		fieldCreatedAt: strconv.FormatInt(c.CreatedAt().UnixMilli(), 10),
		fieldSeq:       strconv.FormatInt(seq, 10),
	}
}

func parseHashFields(id string, m map[string]string) record {
	var createdAt time.Time
	if ms, err := strconv.ParseInt(m[fieldCreatedAt], 10, 64); err == nil {
		createdAt = time.UnixMilli(ms).UTC()
	}
	seq, _ := strconv.ParseInt(m[fieldSeq], 10, 64)

	return record{
		comment: domcomment.Reconstruct(id, m[fieldPostID], m[fieldContent], m[fieldAuthor], createdAt),
		seq:     seq,
	}
}

func sortNewestFirst(records []record) {
	slices.SortStableFunc(records, func(a, b record) int {
		if c := b.comment.CreatedAt().Compare(a.comment.CreatedAt()); c != 0 {
			return c
		}
		return cmp.Compare(b.seq, a.seq)
	})
}

func commentsOf(records []record) []domcomment.Comment {
	out := make([]domcomment.Comment, len(records))
	for i := range records {
		out[i] = records[i].comment
	}
	return out
}
