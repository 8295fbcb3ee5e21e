package metadata

import (
	"errors"
	"fmt"
)

// RateLimitError signals that a provider refused the request because its
// quota is exhausted. Callers are expected to stop issuing further requests
// against that provider for the rest of the run.
type RateLimitError struct {
	Provider string
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s rate limit exceeded", e.Provider)
}

// IsRateLimit reports whether err wraps a RateLimitError.
func IsRateLimit(err error) bool {
	var rle *RateLimitError
	return errors.As(err, &rle)
}
