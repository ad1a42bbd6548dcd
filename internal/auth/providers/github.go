package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/brizzai/github-sign-in/internal/auth/models"
	"github.com/brizzai/github-sign-in/internal/config"
	"github.com/brizzai/github-sign-in/internal/logger"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// GitHubProvider implements Provider against GitHub's OAuth and REST APIs.
// Endpoint URLs come from configuration so tests and enterprise installs
// can point the flow elsewhere.
type GitHubProvider struct {
	oauth2Config *oauth2.Config
	apiBaseURL   string
}

func NewGitHubProvider(cfg *config.Config) *GitHubProvider {
	return &GitHubProvider{
		oauth2Config: &oauth2.Config{
			ClientID:     cfg.GitHub.ClientID,
			ClientSecret: cfg.GitHub.ClientSecret,
			Endpoint: oauth2.Endpoint{
				AuthURL:  cfg.GitHub.AuthorizeURL,
				TokenURL: cfg.GitHub.TokenURL,
			},
			Scopes: strings.Fields(cfg.GitHub.Scopes),
		},
		apiBaseURL: strings.TrimSuffix(cfg.GitHub.APIBaseURL, "/"),
	}
}

func (p *GitHubProvider) AuthCodeURL(state, redirectURI string) string {
	opts := []oauth2.AuthCodeOption{}
	if redirectURI != "" {
		opts = append(opts, oauth2.SetAuthURLParam("redirect_uri", redirectURI))
	}
	return p.oauth2Config.AuthCodeURL(state, opts...)
}

func (p *GitHubProvider) Exchange(ctx context.Context, code, redirectURI string) (*oauth2.Token, error) {
	cfg := *p.oauth2Config // copy
	if redirectURI != "" {
		cfg.RedirectURL = redirectURI
	}
	return cfg.Exchange(ctx, code)
}

func (p *GitHubProvider) FetchIdentity(ctx context.Context, token *oauth2.Token) (*models.Identity, error) {
	client := p.oauth2Config.Client(ctx, token)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.apiBaseURL+"/user", nil)
	if err != nil {
		return nil, &IdentityFetchError{Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, &IdentityFetchError{Err: err}
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Error("Failed to close response body", zap.Error(err))
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, &IdentityFetchError{StatusCode: resp.StatusCode}
	}

	var gh struct {
		ID        interface{} `json:"id"`
		Name      string      `json:"name"`
		Email     string      `json:"email"`
		AvatarURL string      `json:"avatar_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&gh); err != nil {
		return nil, &IdentityFetchError{Err: fmt.Errorf("decoding profile: %w", err)}
	}

	return &models.Identity{
		UserID:       stringifyID(gh.ID),
		DisplayName:  gh.Name,
		EmailAddress: gh.Email,
		AvatarURL:    gh.AvatarURL,
	}, nil
}

// stringifyID tolerates GitHub's numeric user ids as well as string ids.
func stringifyID(id interface{}) string {
	switch v := id.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}
