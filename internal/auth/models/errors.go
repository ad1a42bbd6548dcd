package models

// Authorization Code Grant error codes from both authorization requests
// (RFC 6749 section 4.1.2.1) and access token requests (section 5.2).
var oauthErrorCodes = map[string]struct{}{
	"invalid_request":           {},
	"unauthorized_client":       {},
	"access_denied":             {},
	"unsupported_response_type": {},
	"invalid_scope":             {},
	"server_error":              {},
	"temporarily_unavailable":   {},
	"invalid_client":            {},
	"invalid_grant":             {},
	"unsupported_grant_type":    {},
}

// FallbackErrorCode is reported whenever a provider hands back an error code
// outside the RFC 6749 vocabulary, or none at all.
const FallbackErrorCode = "invalid_request"

// ClassifyErrorCode maps a provider-supplied error code onto the canonical
// RFC 6749 set. Unrecognized codes collapse to FallbackErrorCode so nothing
// attacker-controlled is ever reflected into the redirect payload.
func ClassifyErrorCode(code string) string {
	if _, ok := oauthErrorCodes[code]; ok {
		return code
	}
	return FallbackErrorCode
}

// OAuthErrorCodes returns the canonical error-code set.
func OAuthErrorCodes() []string {
	codes := make([]string, 0, len(oauthErrorCodes))
	for code := range oauthErrorCodes {
		codes = append(codes, code)
	}
	return codes
}
