// Package server hosts the sign-in routes in a standalone HTTP server with
// a demo page, standing in for the larger application the flow is normally
// embedded in.
package server

import (
	"context"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/brizzai/github-sign-in/internal/auth"
	"github.com/brizzai/github-sign-in/internal/auth/button"
	"github.com/brizzai/github-sign-in/internal/config"
	"github.com/brizzai/github-sign-in/internal/logger"
	"github.com/brizzai/github-sign-in/internal/utils"
	"go.uber.org/zap"
)

const (
	// shutdownTimeout is the maximum time to wait for server shutdown
	shutdownTimeout = 5 * time.Second
)

// Server represents the HTTP server hosting the sign-in flow.
type Server struct {
	config *config.Config
	auth   *auth.Service
}

// NewServer creates a new server instance with the provided configuration.
func NewServer(cfg *config.Config, authService *auth.Service) *Server {
	if cfg == nil {
		logger.Fatal("Config cannot be nil")
	}
	if authService == nil {
		logger.Fatal("Auth service cannot be nil")
	}

	return &Server{
		config: cfg,
		auth:   authService,
	}
}

// Start runs the server until ctx is canceled, then shuts it down
// gracefully.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	server := &http.Server{
		Addr:    addr,
		Handler: s.buildHandler(),
	}

	// Channel for server errors
	errChan := make(chan error, 1)

	go func() {
		logger.Info("Starting server", zap.String("address", addr))

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutting down server", zap.Duration("timeout", shutdownTimeout))
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		return nil

	case err := <-errChan:
		return err
	}
}

func (s *Server) buildHandler() http.Handler {
	mux := http.NewServeMux()
	s.auth.RegisterRoutes(mux)
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/", s.handleIndex)
	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, map[string]string{"status": "ok"})
}

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head><title>GitHub sign-in demo</title></head>
<body>
{{if .Result}}<pre>{{.Result}}</pre>{{end}}
{{.Button}}
</body>
</html>
`))

// handleIndex serves the demo page: the sign-in button, plus the outcome of
// the previous sign-in attempt if one just completed.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	result, _ := s.auth.ConsumeResult(w, r)
	data := struct {
		Result string
		Button template.HTML
	}{
		Result: result,
		Button: button.SignInButton(s.auth.MountPath(), "/", "Sign in with GitHub", nil),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, data); err != nil {
		logger.Error("Failed to render index page", zap.Error(err))
	}
}
