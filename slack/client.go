// Package slack is a typed client for the Slack Web API. Every operation
// funnels through the relay's proxy endpoint, which attaches
// authorization and re-encodes bodies; the client never talks to
// slack.com directly and never sees the OAuth client secret.
package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/jrsteele09/go-slack-relay/internal/errors"
	"github.com/jrsteele09/go-slack-relay/proxy"
	"github.com/jrsteele09/go-slack-relay/store"
)

type Client struct {
	proxyURL   string
	httpClient *http.Client
	repo       store.Repo
}

// NewClient creates a client that posts envelopes to the given proxy
// endpoint and reads credentials from repo.
func NewClient(proxyURL string, repo store.Repo) *Client {
	return &Client{
		proxyURL:   proxyURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		repo:       repo,
	}
}

// call posts one envelope to the proxy. A vendor ok:false (or a
// proxy-level rejection) comes back as *APIError alongside the envelope,
// so callers like the channel-listing fallback can still inspect the
// payload.
func (c *Client) call(ctx context.Context, req proxy.Request) (Envelope, error) {
	if req.Token == "" && req.Endpoint != proxy.OAuthAccessEndpoint {
		creds, err := c.repo.Credentials()
		if err != nil {
			return Envelope{}, errors.Wrapf(err, "[Client call] read credentials")
		}
		token := creds.AuthToken()
		if token == "" {
			return Envelope{}, errors.ErrNoCredentials
		}
		req.Token = token
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return Envelope{}, errors.Wrapf(err, "[Client call] encode envelope")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.proxyURL, bytes.NewReader(payload))
	if err != nil {
		return Envelope{}, errors.Wrapf(err, "[Client call] build request")
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return Envelope{}, errors.Wrapf(err, "[Client call] proxy call")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Envelope{}, errors.Wrapf(err, "[Client call] read response")
	}

	env := Envelope{raw: raw}
	if !env.OK() {
		code := env.ErrorCode()
		if code == "" {
			code = "api_request_failed"
		}
		return env, &APIError{Code: code}
	}
	return env, nil
}

// AuthTest validates the stored credential against auth.test.
func (c *Client) AuthTest(ctx context.Context) (Envelope, error) {
	return c.call(ctx, proxy.Request{Endpoint: "/auth.test"})
}
