package auth

import (
	"github.com/brizzai/github-sign-in/internal/auth/flash"
	"github.com/brizzai/github-sign-in/internal/auth/providers"
	"github.com/brizzai/github-sign-in/internal/config"
	"go.uber.org/fx"
)

// Module provides the sign-in service dependencies
var Module = fx.Module("auth",
	fx.Provide(
		fx.Annotate(
			providers.NewGitHubProvider,
			fx.As(new(providers.Provider)),
		),
		fx.Annotate(
			newCookieStore,
			fx.As(new(flash.Store)),
		),
		NewService,
	),
)

func newCookieStore(cfg *config.Config) *flash.CookieStore {
	return flash.NewCookieStore(
		[]byte(cfg.GitHub.CookieSecret),
		cfg.GitHub.CookieTTL,
		cfg.GitHub.SecureCookies,
	)
}
