package constants

const (
	// StateLength is the number of random bytes behind each CSRF state
	// token, before URL-safe base64 encoding.
	StateLength = 24

	// Flash cookie names used across the redirect round-trip.
	StateFlash     = "github_sign_in_state"
	ProceedToFlash = "github_sign_in_proceed_to"
	ResultFlash    = "github_sign_in_result"

	// Route suffixes under the configured mount path.
	AuthorizationPath = "/authorization"
	CallbackPath      = "/callback"
)
