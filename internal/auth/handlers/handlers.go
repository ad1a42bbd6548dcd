// Package handlers implements the two HTTP endpoints of the sign-in flow:
// the authorization initiator and the provider callback.
package handlers

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/brizzai/github-sign-in/internal/auth/constants"
	"github.com/brizzai/github-sign-in/internal/auth/flash"
	"github.com/brizzai/github-sign-in/internal/auth/models"
	"github.com/brizzai/github-sign-in/internal/auth/providers"
	"github.com/brizzai/github-sign-in/internal/auth/redirect"
	"github.com/brizzai/github-sign-in/internal/config"
	"github.com/brizzai/github-sign-in/internal/logger"
	"github.com/brizzai/github-sign-in/internal/utils"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// Handler handles the sign-in HTTP requests
type Handler struct {
	cfg      *config.GitHubConfig
	provider providers.Provider
	flashes  flash.Store
}

// NewHandler creates a new Handler instance
func NewHandler(cfg *config.GitHubConfig, provider providers.Provider, flashes flash.Store) *Handler {
	return &Handler{
		cfg:      cfg,
		provider: provider,
		flashes:  flashes,
	}
}

// HandleAuthorize starts the flow: it mints a CSRF state token, stashes
// {state, proceed_to} in signed flash cookies, and redirects the browser to
// GitHub's authorize endpoint.
//
// proceed_to is stored as-is here. Validation happens on the way back, when
// the callback request's own origin is the authoritative comparison basis.
func (h *Handler) HandleAuthorize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	proceedTo := r.FormValue("proceed_to")
	if proceedTo == "" {
		// A missing proceed_to is a wiring mistake in the host application,
		// not a user-triggerable condition.
		utils.WriteError(w, "invalid_request", "proceed_to is required", http.StatusBadRequest)
		return
	}

	state := newState()
	h.flashes.Write(w, constants.StateFlash, state)
	h.flashes.Write(w, constants.ProceedToFlash, proceedTo)

	http.Redirect(w, r, h.provider.AuthCodeURL(state, h.callbackURL(r)), http.StatusFound)
}

// HandleCallback finishes the flow when GitHub redirects back. The stored
// destination is origin-checked before anything else; a violation ends the
// request with a bare 400 rather than redirecting anywhere.
func (h *Handler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	proceedTo, _ := h.flashes.Read(r, constants.ProceedToFlash)
	if err := redirect.EnsureSameOrigin(proceedTo, requestURL(r)); err != nil {
		logger.Error("Refusing to redirect to untrusted destination", zap.Error(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	storedState, _ := h.flashes.Read(r, constants.StateFlash)
	validRequest := storedState != "" && r.URL.Query().Get("state") == storedState

	result, err := h.processCallback(r, validRequest)
	if err != nil {
		// Profile-fetch faults are infrastructure problems, not auth
		// rejections; they surface to the host app instead of riding the
		// redirect payload.
		logger.Error("Sign-in callback failed", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if validRequest {
		// Clear keys we don't need anymore to reduce the cookie footprint.
		// Invalid requests leave them in place.
		h.flashes.Clear(w, constants.StateFlash)
		h.flashes.Clear(w, constants.ProceedToFlash)
	}

	payload, err := json.Marshal(result.AsMap())
	if err != nil {
		logger.Error("Failed to encode sign-in result", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	h.flashes.Write(w, constants.ResultFlash, string(payload))

	http.Redirect(w, r, proceedTo, http.StatusFound)
}

// processCallback classifies the callback into a CallbackResult. Only
// profile-fetch faults come back as errors; everything else is folded into
// the result.
func (h *Handler) processCallback(r *http.Request, validRequest bool) (models.CallbackResult, error) {
	if !validRequest {
		return models.FailureResult(models.FallbackErrorCode), nil
	}

	query := r.URL.Query()
	if code := query.Get("code"); code != "" {
		token, err := h.provider.Exchange(r.Context(), code, h.callbackURL(r))
		if err != nil {
			return models.FailureResult(exchangeErrorCode(err)), nil
		}

		identity, err := h.provider.FetchIdentity(r.Context(), token)
		if err != nil {
			return models.CallbackResult{}, err
		}
		return models.SuccessResult(identity), nil
	}

	return models.FailureResult(query.Get("error")), nil
}

// exchangeErrorCode extracts the provider's error code from a failed token
// exchange. Anything without a recognizable code, including transport and
// parse failures, normalizes to the fallback.
func exchangeErrorCode(err error) string {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) && retrieveErr.ErrorCode != "" {
		return retrieveErr.ErrorCode
	}
	logger.Warn("Token exchange failed without an OAuth error code", zap.Error(err))
	return models.FallbackErrorCode
}

// newState returns a fresh CSRF state token, URL-safe encoded.
func newState() string {
	buf := make([]byte, constants.StateLength)
	if _, err := rand.Read(buf); err != nil {
		panic(fmt.Sprintf("handlers: reading random state: %v", err))
	}
	return base64.RawURLEncoding.EncodeToString(buf)
}

func (h *Handler) callbackURL(r *http.Request) string {
	return requestOrigin(r) + h.cfg.MountPath + constants.CallbackPath
}

func requestURL(r *http.Request) string {
	return requestOrigin(r) + r.URL.RequestURI()
}

func requestOrigin(r *http.Request) string {
	scheme := "http"
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	} else if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}
