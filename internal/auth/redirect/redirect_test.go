package redirect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureSameOriginAllows(t *testing.T) {
	tests := []struct {
		name      string
		candidate string
		reference string
	}{
		{"same origin", "https://happybuild.com", "https://happybuild.com"},
		{"same origin with path", "https://happybuild.com/login", "https://happybuild.com/callback"},
		{"same origin with explicit default port", "https://happybuild.com:443", "https://happybuild.com"},
		{"absolute path", "/callback", "https://happybuild.com"},
		{"absolute path with segments", "/account/settings", "https://happybuild.com"},
		{"absolute path with escapes", "/a%20path", "https://happybuild.com"},
		{"http origin", "http://example.com/login", "http://example.com/github_sign_in/callback"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NoError(t, EnsureSameOrigin(tt.candidate, tt.reference))
		})
	}
}

func TestEnsureSameOriginViolations(t *testing.T) {
	tests := []struct {
		name      string
		candidate string
		reference string
	}{
		{"different host", "https://malicious.example.com", "https://happybuild.com"},
		{"unparseable target", "https://happybuild.com\n\r@\n\revil.com", "https://happybuild.com"},
		{"blank target", "", "https://happybuild.com"},
		{"different port", "https://happybuild.com:10443", "https://happybuild.com"},
		{"different protocol", "http://happybuild.com", "https://happybuild.com"},
		{"relative path", "callback", "https://happybuild.com"},
		{"double-slash path", "//evil.example.org", "https://happybuild.com"},
		{"triple-slash path", "///evil.example.org", "https://happybuild.com"},
		{"path with spaces", "/a path with spaces is invalid", "https://happybuild.com"},
		{"path with fragment", "/path#with-fragment", "https://happybuild.com"},
		{"path with query", "/path?with=query", "https://happybuild.com"},
		{"userinfo smuggling", "https://happybuild.com@evil.example.org", "https://happybuild.com"},
		{"scheme without host", "http:/callback", "https://happybuild.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := EnsureSameOrigin(tt.candidate, tt.reference)
			require.Error(t, err)

			var violation *Violation
			require.ErrorAs(t, err, &violation)
			assert.NotEmpty(t, violation.Reason)
		})
	}
}

func TestEnsureSameOriginFailsClosedOnBadReference(t *testing.T) {
	err := EnsureSameOrigin("https://happybuild.com", "://not-a-url")

	var violation *Violation
	require.ErrorAs(t, err, &violation)
}
