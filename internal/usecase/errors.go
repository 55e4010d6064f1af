package usecase

import (
	"fmt"

	crerr "github.com/cockroachdb/errors"
)

// Sentinel errors shared across services. Only the HTTP layer translates
// them to status codes.
var (
	ErrInvalidInput          = crerr.New("invalid input")
	ErrUnauthorized          = crerr.New("unauthorized")
	ErrNotFound              = crerr.New("not found")
	ErrUpstreamUnavailable   = crerr.New("upstream unavailable")
	ErrMalformedResponse     = crerr.New("malformed upstream response")
	ErrNoUsableData          = crerr.New("no usable data in upstream payload")
	ErrDependencyUnavailable = crerr.New("dependency unavailable")
)

// UpstreamRejectedError reports a non-2xx answer from the last source tried,
// keeping the status and a truncated body excerpt for diagnostics.
type UpstreamRejectedError struct {
	Status      int
	BodyExcerpt string
}

func (e *UpstreamRejectedError) Error() string {
	return fmt.Sprintf("upstream rejected request: status=%d body=%q", e.Status, e.BodyExcerpt)
}
