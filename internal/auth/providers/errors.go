package providers

import "fmt"

// IdentityFetchError reports a failed profile retrieval: a non-200 response
// or a transport fault. It marks a backend integration problem rather than a
// user-facing auth rejection, so callers must not fold it into the redirect
// payload.
type IdentityFetchError struct {
	StatusCode int // zero when the request never completed
	Err        error
}

func (e *IdentityFetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("failed to fetch user profile: status %d", e.StatusCode)
	}
	return fmt.Sprintf("failed to fetch user profile: %v", e.Err)
}

func (e *IdentityFetchError) Unwrap() error {
	return e.Err
}
