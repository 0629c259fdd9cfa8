// Package session implements the OAuth login handshake: building the
// authorization redirect, consuming the provider callback, and owning
// the credential lifecycle from exchange to logout.
package session

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/jrsteele09/go-slack-relay/internal/errors"
	"github.com/jrsteele09/go-slack-relay/slack"
	"github.com/jrsteele09/go-slack-relay/store"
)

// Status tracks where the handshake is in its lifecycle.
type Status string

const (
	StatusIdle        Status = "idle"
	StatusRedirecting Status = "redirecting"
	StatusProcessing  Status = "processing"
	StatusSuccess     Status = "success"
	StatusError       Status = "error"
)

const (
	loginRedirect     = "/login"
	dashboardRedirect = "/dashboard"
)

// GatewayClient is the slice of the API client the handshake needs.
type GatewayClient interface {
	ExchangeCode(ctx context.Context, code, redirectURI string) (slack.TokenGrant, error)
	AuthTest(ctx context.Context) (slack.Envelope, error)
}

// Config holds the OAuth application settings the handshake redirects
// with. The client secret deliberately has no place here; only the
// proxy side holds it.
type Config struct {
	ClientID     string
	Scopes       string
	AuthorizeURL string
	RedirectURI  string
}

// CallbackParams are the query parameters of the provider's redirect.
type CallbackParams struct {
	Code       string
	State      string
	ErrorParam string
}

// Result tells the caller where to send the user next.
type Result struct {
	Status   Status
	Message  string
	Redirect string
}

// Handshake drives one user's login flow. A second callback arriving
// while one is being processed is refused rather than risking a double
// redemption of a single-use authorization code.
type Handshake struct {
	cfg     Config
	repo    store.Repo
	client  GatewayClient
	onLogin func(token string)

	mu       sync.Mutex
	inFlight bool
	status   Status
	lastErr  string
}

// New creates a handshake. onLogin, if non-nil, is invoked with the new
// credential after every successful login.
func New(cfg Config, repo store.Repo, client GatewayClient, onLogin func(token string)) *Handshake {
	return &Handshake{
		cfg:     cfg,
		repo:    repo,
		client:  client,
		onLogin: onLogin,
		status:  StatusIdle,
	}
}

// Begin generates a fresh correlation state, persists it, and returns
// the provider authorization URL to transfer the browser to.
func (h *Handshake) Begin() (string, error) {
	state := uuid.NewString()
	if err := h.repo.SetOAuthState(state); err != nil {
		return "", errors.Wrapf(err, "[Handshake Begin] store state")
	}

	oauthCfg := oauth2.Config{
		ClientID:    h.cfg.ClientID,
		Endpoint:    oauth2.Endpoint{AuthURL: h.cfg.AuthorizeURL},
		RedirectURL: h.cfg.RedirectURI,
		// Slack expects the comma-separated scope list as one value.
		Scopes: []string{h.cfg.Scopes},
	}

	h.setStatus(StatusRedirecting, "")
	return oauthCfg.AuthCodeURL(state), nil
}

// HandleCallback consumes the provider redirect. Every rejection happens
// before the exchange call: a state mismatch or a replayed code never
// reaches the network.
func (h *Handshake) HandleCallback(ctx context.Context, p CallbackParams) (Result, error) {
	h.mu.Lock()
	if h.inFlight {
		h.mu.Unlock()
		return Result{Status: StatusProcessing}, errors.ErrHandshakeInFlight
	}
	h.inFlight = true
	h.status = StatusProcessing
	h.mu.Unlock()
	defer func() {
		h.mu.Lock()
		h.inFlight = false
		h.mu.Unlock()
	}()

	if p.ErrorParam != "" {
		return h.fail(errors.ErrProviderDenied, "authorization denied: "+p.ErrorParam)
	}
	if p.Code == "" {
		return h.fail(errors.ErrMissingCode, "missing authorization code")
	}

	storedState, err := h.repo.OAuthState()
	if err != nil {
		return h.fail(err, "unable to verify authorization state")
	}
	if storedState == "" || p.State != storedState {
		// Hard failure. A callback that cannot be bound to the redirect
		// this client initiated is never exchanged.
		return h.fail(errors.ErrStateMismatch, "authorization state mismatch, please try logging in again")
	}

	processed, err := h.repo.ProcessedCode()
	if err != nil {
		return h.fail(err, "unable to verify authorization code")
	}
	if processed != "" && p.Code == processed {
		// Authorization codes are single-use. A repeat must not issue a
		// second upstream exchange.
		return h.fail(errors.ErrCodeReplayed, "authorization code already used, please try logging in again")
	}

	// All local checks passed; mark success before the exchange so a
	// status poll during the call reports the optimistic state.
	h.setStatus(StatusSuccess, "")

	grant, err := h.client.ExchangeCode(ctx, p.Code, h.cfg.RedirectURI)
	if err != nil {
		return h.fail(errors.Wrapf(errors.ErrExchangeFailed, "%v", err), normalizeExchangeError(err))
	}
	if grant.AccessToken == "" {
		return h.fail(errors.ErrExchangeFailed, "token exchange failed, please try logging in again")
	}

	if err := h.repo.SetOAuthTokens(grant.AccessToken, grant.RefreshToken); err != nil {
		return h.fail(err, "failed to store credentials")
	}
	_ = h.repo.DeleteOAuthState()
	_ = h.repo.SetProcessedCode(p.Code)

	if h.onLogin != nil {
		h.onLogin(grant.AccessToken)
	}

	h.setStatus(StatusSuccess, "")
	return Result{Status: StatusSuccess, Redirect: dashboardRedirect}, nil
}

// LoginWithToken is the static-token alternative to the OAuth flow. The
// candidate token is stored tentatively, validated against auth.test,
// and rolled back if the vendor rejects it.
func (h *Handshake) LoginWithToken(ctx context.Context, token string) error {
	if token == "" {
		return errors.ErrMissingToken
	}
	if err := h.repo.SetToken(token); err != nil {
		return errors.Wrapf(err, "[Handshake LoginWithToken] store token")
	}

	if _, err := h.client.AuthTest(ctx); err != nil {
		_ = h.repo.SetToken("")
		h.setStatus(StatusError, err.Error())
		return errors.Wrapf(err, "[Handshake LoginWithToken] token validation")
	}

	h.setStatus(StatusSuccess, "")
	if h.onLogin != nil {
		h.onLogin(token)
	}
	return nil
}

// Logout clears every credential and handshake marker synchronously.
func (h *Handshake) Logout() error {
	if err := h.repo.Clear(); err != nil {
		return errors.Wrapf(err, "[Handshake Logout] clear store")
	}
	h.setStatus(StatusIdle, "")
	return nil
}

func (h *Handshake) Status() Status {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.status
}

func (h *Handshake) LastError() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.lastErr
}

func (h *Handshake) setStatus(status Status, lastErr string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.status = status
	h.lastErr = lastErr
}

func (h *Handshake) fail(err error, message string) (Result, error) {
	h.setStatus(StatusError, message)
	return Result{Status: StatusError, Message: message, Redirect: loginRedirect}, err
}

// normalizeExchangeError rewrites vendor codes that mean the
// authorization code is spent into a user-facing "try again" message.
func normalizeExchangeError(err error) string {
	var apiErr *slack.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case "invalid_code", "code_already_used":
			return "authorization code expired or already used, please try logging in again"
		default:
			return "token exchange failed: " + apiErr.Code
		}
	}
	return "token exchange failed, please try logging in again"
}
