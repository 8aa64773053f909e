package post

import "github.com/kailas-cloud/postfeed/internal/db"

// buildIndex creates the post index: BM25 over content, sortable time and sequence.
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
