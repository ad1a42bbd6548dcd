// Package models holds the value objects handed across the sign-in flow.
package models

import "strings"

// Identity is the normalized GitHub profile for a signed-in user. It is
// constructed once per callback and immutable afterwards.
type Identity struct {
	UserID       string
	DisplayName  string
	EmailAddress string // empty when the profile exposes no email
	AvatarURL    string
}

// EmailVerified reports whether the identity's email can be trusted.
//
// GitHub does not expose verification status in the user profile, so
// presence of an email is used as a conservative proxy. This is an
// approximation, not a guarantee; callers needing a hard guarantee must
// query the emails API themselves.
func (i Identity) EmailVerified() bool {
	return i.EmailAddress != ""
}

// GivenName is the first whitespace-separated token of the display name.
// Empty and single-token names yield "" and the single token respectively.
func (i Identity) GivenName() string {
	parts := strings.Fields(i.DisplayName)
	if len(parts) == 0 {
		return ""
	}
	return parts[0]
}

// FamilyName is the last whitespace-separated token of the display name.
func (i Identity) FamilyName() string {
	parts := strings.Fields(i.DisplayName)
	if len(parts) == 0 {
		return ""
	}
	return parts[len(parts)-1]
}

// AsMap serializes the identity for transport to the host application.
func (i Identity) AsMap() map[string]interface{} {
	var email interface{}
	if i.EmailAddress != "" {
		email = i.EmailAddress
	}
	return map[string]interface{}{
		"id":             i.UserID,
		"name":           i.DisplayName,
		"email":          email,
		"email_verified": i.EmailVerified(),
		"avatar_url":     i.AvatarURL,
		"given_name":     i.GivenName(),
		"family_name":    i.FamilyName(),
	}
}

// CallbackResult is the outcome of processing a provider callback. Exactly
// one of Identity or ErrorCode is set. It only exists to ride the redirect
// back to the host application.
type CallbackResult struct {
	Identity  *Identity
	ErrorCode string
}

// Succeeded reports whether the callback produced an identity.
func (r CallbackResult) Succeeded() bool {
	return r.Identity != nil
}

// AsMap serializes the result for the redirect payload: either
// {"identity": {...}} or {"error": "<canonical code>"}.
func (r CallbackResult) AsMap() map[string]interface{} {
	if r.Identity != nil {
		return map[string]interface{}{"identity": r.Identity.AsMap()}
	}
	return map[string]interface{}{"error": r.ErrorCode}
}

// SuccessResult wraps an identity in a CallbackResult.
func SuccessResult(identity *Identity) CallbackResult {
	return CallbackResult{Identity: identity}
}

// FailureResult builds a failed CallbackResult. The code is forced through
// the canonical allowlist so an arbitrary caller-supplied string can never
// reach the redirect payload.
func FailureResult(code string) CallbackResult {
	return CallbackResult{ErrorCode: ClassifyErrorCode(code)}
}
