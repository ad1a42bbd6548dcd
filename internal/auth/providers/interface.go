package providers

import (
	"context"

	"github.com/brizzai/github-sign-in/internal/auth/models"
	"golang.org/x/oauth2"
)

// Provider is the identity-provider collaborator for the sign-in flow.
type Provider interface {
	// AuthCodeURL returns the provider authorization URL carrying the CSRF
	// state and redirect URI.
	AuthCodeURL(state, redirectURI string) string

	// Exchange trades an authorization code for an access token. Provider
	// rejections surface as *oauth2.RetrieveError.
	Exchange(ctx context.Context, code, redirectURI string) (*oauth2.Token, error)

	// FetchIdentity retrieves and normalizes the user profile for the given
	// access token. Failures are *IdentityFetchError values.
	FetchIdentity(ctx context.Context, token *oauth2.Token) (*models.Identity, error)
}
