package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/brizzai/github-sign-in/internal/auth/constants"
	"github.com/brizzai/github-sign-in/internal/auth/flash"
	"github.com/brizzai/github-sign-in/internal/auth/models"
	"github.com/brizzai/github-sign-in/internal/config"
	"golang.org/x/oauth2"
)

// mockProvider implements providers.Provider for testing
type mockProvider struct{}

func (m *mockProvider) AuthCodeURL(state, redirectURI string) string {
	return "mock-url"
}

func (m *mockProvider) Exchange(ctx context.Context, code, redirectURI string) (*oauth2.Token, error) {
	return &oauth2.Token{}, nil
}

func (m *mockProvider) FetchIdentity(ctx context.Context, token *oauth2.Token) (*models.Identity, error) {
	return &models.Identity{}, nil
}

func testServiceConfig() *config.Config {
	return &config.Config{
		GitHub: config.GitHubConfig{
			ClientID:     "test_client_id",
			ClientSecret: "test_client_secret",
			MountPath:    "/github_sign_in",
			CookieSecret: "test-cookie-secret",
			CookieTTL:    10 * time.Minute,
		},
	}
}

func newTestService(t *testing.T) (*Service, *flash.CookieStore) {
	t.Helper()

	cfg := testServiceConfig()
	store := flash.NewCookieStore([]byte(cfg.GitHub.CookieSecret), cfg.GitHub.CookieTTL, false)
	service, err := NewService(cfg, &mockProvider{}, store)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	return service, store
}

func TestNewServiceRejectsBadMountPath(t *testing.T) {
	cfg := testServiceConfig()
	store := flash.NewCookieStore([]byte("secret"), time.Minute, false)

	for _, mountPath := range []string{"github_sign_in", "/github_sign_in/", ""} {
		cfg.GitHub.MountPath = mountPath
		if _, err := NewService(cfg, &mockProvider{}, store); err == nil {
			t.Errorf("expected an error for mount path %q", mountPath)
		}
	}
}

func TestRegisterRoutes(t *testing.T) {
	service, _ := newTestService(t)
	mux := http.NewServeMux()
	service.RegisterRoutes(mux)

	routes := []string{
		"/github_sign_in/authorization",
		"/github_sign_in/callback",
	}
	for _, route := range routes {
		r, _ := http.NewRequest("GET", route, nil)
		h, pattern := mux.Handler(r)
		if pattern == "" || h == nil {
			t.Errorf("route %s not registered", route)
		}
	}
}

func TestMountPath(t *testing.T) {
	service, _ := newTestService(t)
	if got := service.MountPath(); got != "/github_sign_in" {
		t.Errorf("expected mount path /github_sign_in, got %s", got)
	}
}

func TestConsumeResult(t *testing.T) {
	service, store := newTestService(t)

	setRec := httptest.NewRecorder()
	store.Write(setRec, constants.ResultFlash, `{"error":"access_denied"}`)

	req := httptest.NewRequest("GET", "/login", nil)
	for _, cookie := range setRec.Result().Cookies() {
		req.AddCookie(cookie)
	}

	rec := httptest.NewRecorder()
	payload, ok := service.ConsumeResult(rec, req)
	if !ok {
		t.Fatal("expected a result payload")
	}
	if payload != `{"error":"access_denied"}` {
		t.Errorf("unexpected payload %q", payload)
	}

	// Consuming clears the flash.
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != constants.ResultFlash || cookies[0].MaxAge >= 0 {
		t.Errorf("expected the result flash to be cleared, got %v", cookies)
	}
}

func TestConsumeResultWithoutFlash(t *testing.T) {
	service, _ := newTestService(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/login", nil)
	if _, ok := service.ConsumeResult(rec, req); ok {
		t.Error("expected no result payload")
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Error("expected no cookies on the response")
	}
}
