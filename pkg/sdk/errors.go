package postfeed

import "github.com/kailas-cloud/postfeed/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrInvalidInput     = domain.ErrInvalidInput
	ErrStoreUnavailable = domain.ErrStoreUnavailable
	ErrMalformedQuery   = domain.ErrMalformedQuery
)
