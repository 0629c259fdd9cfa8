package server

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-slack-relay/internal/errors"
	"github.com/jrsteele09/go-slack-relay/session"
)

// OAuthAuthorizeHandler starts the login flow: generates the state
// token and transfers the browser to the provider's authorize URL.
func (s *Server) OAuthAuthorizeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authorizeURL, err := s.handshake.Begin()
		if err != nil {
			log.Err(err).Msg("failed to begin OAuth handshake")
			http.Error(w, "failed to start authorization", http.StatusInternalServerError)
			return
		}
		http.Redirect(w, r, authorizeURL, http.StatusSeeOther)
	}
}

// OAuthCallbackHandler consumes the provider redirect and forwards the
// user to wherever the handshake decided: the dashboard on success, the
// login view with a message otherwise.
func (s *Server) OAuthCallbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params := session.CallbackParams{
			Code:       r.URL.Query().Get("code"),
			State:      r.URL.Query().Get("state"),
			ErrorParam: r.URL.Query().Get("error"),
		}

		result, err := s.handshake.HandleCallback(r.Context(), params)
		if errors.Is(err, errors.ErrHandshakeInFlight) {
			// A second submit while the exchange is running is dropped;
			// the in-flight handler owns the redirect.
			w.WriteHeader(http.StatusConflict)
			return
		}
		if err != nil {
			log.Err(err).Msg("OAuth callback failed")
			redirectWithError(w, r, result.Redirect, result.Message)
			return
		}

		http.Redirect(w, r, result.Redirect, http.StatusSeeOther)
	}
}

// TokenLoginHandler is the static-token login path: the submitted token
// is validated against auth.test and kept only if the vendor accepts it.
func (s *Server) TokenLoginHandler() http.HandlerFunc {
	type tokenRequest struct {
		Token string `json:"token"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req tokenRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": "invalid request body"})
			return
		}

		if err := s.handshake.LoginWithToken(r.Context(), req.Token); err != nil {
			writeJSON(w, http.StatusOK, map[string]any{"ok": false, "error": loginErrorMessage(err)})
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	}
}

func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.handshake.Logout(); err != nil {
			log.Err(err).Msg("logout failed")
			http.Error(w, "logout failed", http.StatusInternalServerError)
			return
		}
		http.Redirect(w, r, RouteLogin, http.StatusSeeOther)
	}
}

// LoginStatusHandler answers the login view with the handshake state so
// a browser client can render the right screen.
func (s *Server) LoginStatusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"authenticated": false,
			"status":        s.handshake.Status(),
			"error":         s.handshake.LastError(),
		})
	}
}

// DashboardStatusHandler reports whether a credential is present; an
// unauthenticated visit is bounced back to the login view.
func (s *Server) DashboardStatusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		creds, err := s.repo.Credentials()
		if err != nil || creds.Empty() {
			http.Redirect(w, r, RouteLogin, http.StatusSeeOther)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"authenticated": true})
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func redirectWithError(w http.ResponseWriter, r *http.Request, path, errorMsg string) {
	http.Redirect(w, r, path+"?error="+url.QueryEscape(errorMsg), http.StatusSeeOther)
}

func loginErrorMessage(err error) string {
	if errors.Is(err, errors.ErrMissingToken) {
		return "missing token"
	}
	return "invalid token"
}
