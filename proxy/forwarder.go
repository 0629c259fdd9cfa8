// Package proxy implements the stateless request forwarder that sits
// between browser clients and the Slack Web API. It attaches
// authorization, re-encodes bodies, and relays the vendor's JSON payload
// back verbatim.
package proxy

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-slack-relay/internal/config"
	"github.com/jrsteele09/go-slack-relay/internal/errors"
)

// Forwarder relays envelopes to the Slack Web API. It holds no state
// between calls; the client id/secret are the only server-side secrets
// and never appear in a relayed payload.
type Forwarder struct {
	apiBaseURL   string
	clientID     string
	clientSecret string
	httpClient   *http.Client
}

func NewForwarder(cfg config.SlackConfig) *Forwarder {
	return &Forwarder{
		apiBaseURL:   cfg.GetSlackAPIBaseURL(),
		clientID:     cfg.GetSlackClientID(),
		clientSecret: cfg.GetSlackClientSecret(),
		httpClient:   &http.Client{Timeout: cfg.GetUpstreamTimeout()},
	}
}

// Forward relays a single envelope upstream and returns the vendor's raw
// JSON payload. Validation failures return the sentinel errors from
// internal/errors so the HTTP layer can map them to 400 responses;
// everything else (including a vendor {ok:false}) comes back as payload.
func (f *Forwarder) Forward(ctx context.Context, req Request) ([]byte, error) {
	if req.Endpoint == "" {
		return nil, errors.ErrMissingEndpoint
	}

	if req.Endpoint == OAuthAccessEndpoint {
		return f.exchangeCode(ctx, req)
	}

	if req.Token == "" {
		return nil, errors.ErrMissingToken
	}

	method := strings.ToUpper(req.Method)
	if method == "" {
		method = http.MethodGet
	}

	var bodyReader io.Reader
	contentType := "application/json"
	if len(req.Body) > 0 && method != http.MethodGet {
		if req.ContentType == ContentTypeForm {
			bodyReader = strings.NewReader(encodeForm(req.Body))
			contentType = "application/x-www-form-urlencoded"
		} else {
			raw, err := json.Marshal(req.Body)
			if err != nil {
				return nil, errors.Wrapf(err, "[Forwarder Forward] encode body")
			}
			bodyReader = bytes.NewReader(raw)
		}
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, f.apiBaseURL+req.Endpoint, bodyReader)
	if err != nil {
		return nil, errors.Wrapf(err, "[Forwarder Forward] build upstream request")
	}
	httpReq.Header.Set("Authorization", "Bearer "+req.Token)
	httpReq.Header.Set("Content-Type", contentType)

	return f.relay(httpReq)
}

// exchangeCode handles the OAuth code exchange. The call authenticates
// with the server-held client id/secret and is always form-encoded, per
// the oauth.v2.access contract.
func (f *Forwarder) exchangeCode(ctx context.Context, req Request) ([]byte, error) {
	form := url.Values{
		"client_id":     {f.clientID},
		"client_secret": {f.clientSecret},
	}

	switch {
	case req.RefreshToken != "":
		form.Set("grant_type", "refresh_token")
		form.Set("refresh_token", req.RefreshToken)
	case req.Code == "":
		return nil, errors.ErrMissingCode
	case req.RedirectURI == "":
		return nil, errors.ErrMissingRedirectURI
	default:
		form.Set("code", req.Code)
		form.Set("redirect_uri", req.RedirectURI)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, f.apiBaseURL+OAuthAccessEndpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, errors.Wrapf(err, "[Forwarder exchangeCode] build upstream request")
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return f.relay(httpReq)
}

// relay performs the upstream call and returns the payload verbatim. The
// upstream HTTP status is deliberately not surfaced: Slack signals
// failure through the ok field, and a non-2xx status still carries a
// payload the caller needs.
func (f *Forwarder) relay(req *http.Request) ([]byte, error) {
	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "[Forwarder relay] upstream call")
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "[Forwarder relay] read upstream response")
	}

	log.Debug().Str("endpoint", req.URL.Path).Int("status", resp.StatusCode).Msg("relayed upstream response")
	return payload, nil
}
