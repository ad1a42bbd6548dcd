// Package auth wires the GitHub sign-in flow together and exposes it as
// routes on a mux owned by the host application.
package auth

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/brizzai/github-sign-in/internal/auth/constants"
	"github.com/brizzai/github-sign-in/internal/auth/flash"
	"github.com/brizzai/github-sign-in/internal/auth/handlers"
	"github.com/brizzai/github-sign-in/internal/auth/providers"
	"github.com/brizzai/github-sign-in/internal/config"
)

// Service represents the sign-in service
type Service struct {
	config  *config.GitHubConfig
	flashes flash.Store
	handler *handlers.Handler
}

// NewService creates a new sign-in service
func NewService(cfg *config.Config, provider providers.Provider, flashes flash.Store) (*Service, error) {
	github := &cfg.GitHub
	if !strings.HasPrefix(github.MountPath, "/") || strings.HasSuffix(github.MountPath, "/") {
		return nil, fmt.Errorf("mount path %q must start and must not end with a slash", github.MountPath)
	}

	return &Service{
		config:  github,
		flashes: flashes,
		handler: handlers.NewHandler(github, provider, flashes),
	}, nil
}

// RegisterRoutes registers the sign-in routes under the configured mount path
func (s *Service) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc(s.config.MountPath+constants.AuthorizationPath, s.handler.HandleAuthorize)
	mux.HandleFunc(s.config.MountPath+constants.CallbackPath, s.handler.HandleCallback)
}

// MountPath returns the path prefix the service is registered under.
func (s *Service) MountPath() string {
	return s.config.MountPath
}

// ConsumeResult reads and clears the sign-in result flash, if any. Host
// applications call this on the request the callback redirected to; the
// payload is the JSON form of the callback result.
func (s *Service) ConsumeResult(w http.ResponseWriter, r *http.Request) (string, bool) {
	payload, ok := s.flashes.Read(r, constants.ResultFlash)
	if ok {
		s.flashes.Clear(w, constants.ResultFlash)
	}
	return payload, ok
}
