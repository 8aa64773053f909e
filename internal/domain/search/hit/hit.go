// Package hit pairs search matches with their collection-local relevance score.
package hit

// Hit is a single relevance-search match.
// Scores are only comparable with other hits from the same search call.
type Hit[T any] struct {
	item  T
	score float64
}

// New creates a hit.
func New[T any](item T, score float64) Hit[T] {
	return Hit[T]{item: item, score: score}
}

// Item returns the matched entity.
func (h *Hit[T]) Item() T { return h.item }

// Score returns the relevance score assigned by the store.
func (h *Hit[T]) Score() float64 { return h.score }

// Items strips scores, keeping order.
func Items[T any](hits []Hit[T]) []T {
	out := make([]T, len(hits))
	for i := range hits {
		out[i] = hits[i].item
	}
	return out
}
