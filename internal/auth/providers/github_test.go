package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/brizzai/github-sign-in/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func testConfig(overrides func(*config.GitHubConfig)) *config.Config {
	cfg := &config.Config{
		GitHub: config.GitHubConfig{
			ClientID:     "test_client_id",
			ClientSecret: "test_client_secret",
			AuthorizeURL: config.DefaultAuthorizeURL,
			TokenURL:     config.DefaultTokenURL,
			APIBaseURL:   config.DefaultAPIBaseURL,
			Scopes:       config.DefaultScopes,
		},
	}
	if overrides != nil {
		overrides(&cfg.GitHub)
	}
	return cfg
}

func TestAuthCodeURL(t *testing.T) {
	provider := NewGitHubProvider(testConfig(nil))

	authURL := provider.AuthCodeURL("the-state", "http://example.com/github_sign_in/callback")

	parsed, err := url.Parse(authURL)
	require.NoError(t, err)
	assert.Equal(t, "github.com", parsed.Host)
	assert.Equal(t, "/login/oauth/authorize", parsed.Path)

	params := parsed.Query()
	assert.Equal(t, "test_client_id", params.Get("client_id"))
	assert.Equal(t, "code", params.Get("response_type"))
	assert.Equal(t, "user:email read:user", params.Get("scope"))
	assert.Equal(t, "the-state", params.Get("state"))
	assert.Equal(t, "http://example.com/github_sign_in/callback", params.Get("redirect_uri"))
}

func TestAuthCodeURLPreservesOverrideQueryParams(t *testing.T) {
	provider := NewGitHubProvider(testConfig(func(cfg *config.GitHubConfig) {
		cfg.AuthorizeURL = "https://example.com/auth?param=value"
	}))

	authURL := provider.AuthCodeURL("the-state", "")

	parsed, err := url.Parse(authURL)
	require.NoError(t, err)
	params := parsed.Query()
	assert.Equal(t, "value", params.Get("param"))
	assert.Equal(t, "the-state", params.Get("state"))
}

func TestExchange(t *testing.T) {
	tokenServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "the-code", r.FormValue("code"))
		assert.Equal(t, "http://example.com/github_sign_in/callback", r.FormValue("redirect_uri"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"the-access-token","token_type":"bearer"}`))
	}))
	defer tokenServer.Close()

	provider := NewGitHubProvider(testConfig(func(cfg *config.GitHubConfig) {
		cfg.TokenURL = tokenServer.URL
	}))

	token, err := provider.Exchange(context.Background(), "the-code", "http://example.com/github_sign_in/callback")
	require.NoError(t, err)
	assert.Equal(t, "the-access-token", token.AccessToken)
}

func TestExchangeError(t *testing.T) {
	tokenServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
	}))
	defer tokenServer.Close()

	provider := NewGitHubProvider(testConfig(func(cfg *config.GitHubConfig) {
		cfg.TokenURL = tokenServer.URL
	}))

	_, err := provider.Exchange(context.Background(), "the-code", "")
	require.Error(t, err)

	var retrieveErr *oauth2.RetrieveError
	require.ErrorAs(t, err, &retrieveErr)
	assert.Equal(t, "invalid_grant", retrieveErr.ErrorCode)
}

func TestFetchIdentity(t *testing.T) {
	apiServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/user", r.URL.Path)
		assert.Equal(t, "Bearer the-access-token", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"12345","name":"John Doe","email":"john.doe@example.com","avatar_url":"https://github.com/avatar.png"}`))
	}))
	defer apiServer.Close()

	provider := NewGitHubProvider(testConfig(func(cfg *config.GitHubConfig) {
		cfg.APIBaseURL = apiServer.URL
	}))

	identity, err := provider.FetchIdentity(context.Background(), &oauth2.Token{AccessToken: "the-access-token"})
	require.NoError(t, err)
	assert.Equal(t, "12345", identity.UserID)
	assert.Equal(t, "John Doe", identity.DisplayName)
	assert.Equal(t, "john.doe@example.com", identity.EmailAddress)
	assert.Equal(t, "https://github.com/avatar.png", identity.AvatarURL)
	assert.True(t, identity.EmailVerified())
}

func TestFetchIdentityNumericID(t *testing.T) {
	apiServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":12345,"name":"John Doe","email":null}`))
	}))
	defer apiServer.Close()

	provider := NewGitHubProvider(testConfig(func(cfg *config.GitHubConfig) {
		cfg.APIBaseURL = apiServer.URL
	}))

	identity, err := provider.FetchIdentity(context.Background(), &oauth2.Token{AccessToken: "tok"})
	require.NoError(t, err)
	assert.Equal(t, "12345", identity.UserID)
	assert.False(t, identity.EmailVerified())
}

func TestFetchIdentityAPIError(t *testing.T) {
	apiServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer apiServer.Close()

	provider := NewGitHubProvider(testConfig(func(cfg *config.GitHubConfig) {
		cfg.APIBaseURL = apiServer.URL
	}))

	_, err := provider.FetchIdentity(context.Background(), &oauth2.Token{AccessToken: "tok"})
	require.Error(t, err)

	var fetchErr *IdentityFetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, http.StatusInternalServerError, fetchErr.StatusCode)
	assert.Contains(t, fetchErr.Error(), "500")
}

func TestFetchIdentityTransportError(t *testing.T) {
	apiServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	apiServer.Close() // refuse connections

	provider := NewGitHubProvider(testConfig(func(cfg *config.GitHubConfig) {
		cfg.APIBaseURL = apiServer.URL
	}))

	_, err := provider.FetchIdentity(context.Background(), &oauth2.Token{AccessToken: "tok"})

	var fetchErr *IdentityFetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Zero(t, fetchErr.StatusCode)
}
