package comment

import "github.com/kailas-cloud/postfeed/internal/db"

// buildIndex creates the comment index. Comments are listed per post through a sorted
// set, so post_id is stored but not indexed.
func buildIndex(name, prefix, language string) (*db.IndexDefinition, error) {
	return db.NewIndex(name).
		Prefix(prefix).
		Language(language).
		Text(fieldContent).
		Tag(fieldAuthor).
		SortableNumeric(fieldCreatedAt).
		SortableNumeric(fieldSeq).
		Build()
}
