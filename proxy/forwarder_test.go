package proxy_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-slack-relay/internal/errors"
	"github.com/jrsteele09/go-slack-relay/proxy"
)

const (
	testClientID     = "test-client-1"
	testClientSecret = "test-secret-1"
	testRedirectURI  = "http://localhost:3000/oauth/callback"
)

type forwarderConfig struct {
	apiBaseURL string
}

func (c forwarderConfig) GetSlackClientID() string          { return testClientID }
func (c forwarderConfig) GetSlackClientSecret() string      { return testClientSecret }
func (c forwarderConfig) GetSlackScopes() string            { return "chat:write" }
func (c forwarderConfig) GetSlackAPIBaseURL() string        { return c.apiBaseURL }
func (c forwarderConfig) GetSlackAuthorizeURL() string      { return "https://slack.com/oauth/v2/authorize" }
func (c forwarderConfig) GetRedirectURI() string            { return testRedirectURI }
func (c forwarderConfig) GetUpstreamTimeout() time.Duration { return 2 * time.Second }

// recordedRequest captures what the upstream double saw.
type recordedRequest struct {
	method      string
	path        string
	query       url.Values
	contentType string
	authz       string
	body        []byte
}

func newUpstream(t *testing.T, status int, response string) (*httptest.Server, *[]recordedRequest) {
	t.Helper()
	var requests []recordedRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		requests = append(requests, recordedRequest{
			method:      r.Method,
			path:        r.URL.Path,
			query:       r.URL.Query(),
			contentType: r.Header.Get("Content-Type"),
			authz:       r.Header.Get("Authorization"),
			body:        body,
		})
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(ts.Close)
	return ts, &requests
}

func TestForwarder_Validation(t *testing.T) {
	ts, requests := newUpstream(t, http.StatusOK, `{"ok":true}`)
	f := proxy.NewForwarder(forwarderConfig{apiBaseURL: ts.URL})

	t.Run("missing endpoint", func(t *testing.T) {
		_, err := f.Forward(context.Background(), proxy.Request{})
		require.ErrorIs(t, err, errors.ErrMissingEndpoint)
	})

	t.Run("missing token on non-oauth endpoint", func(t *testing.T) {
		_, err := f.Forward(context.Background(), proxy.Request{Endpoint: "/chat.postMessage"})
		require.ErrorIs(t, err, errors.ErrMissingToken)
	})

	t.Run("oauth exchange missing code", func(t *testing.T) {
		_, err := f.Forward(context.Background(), proxy.Request{Endpoint: proxy.OAuthAccessEndpoint})
		require.ErrorIs(t, err, errors.ErrMissingCode)
	})

	t.Run("oauth exchange missing redirect URI", func(t *testing.T) {
		_, err := f.Forward(context.Background(), proxy.Request{Endpoint: proxy.OAuthAccessEndpoint, Code: "abc123"})
		require.ErrorIs(t, err, errors.ErrMissingRedirectURI)
	})

	require.Empty(t, *requests, "no validation failure may reach the upstream")
}

func TestForwarder_OAuthExchange(t *testing.T) {
	t.Run("code exchange uses server-held credentials", func(t *testing.T) {
		ts, requests := newUpstream(t, http.StatusOK, `{"ok":true,"access_token":"tok1"}`)
		f := proxy.NewForwarder(forwarderConfig{apiBaseURL: ts.URL})

		payload, err := f.Forward(context.Background(), proxy.Request{
			Endpoint:    proxy.OAuthAccessEndpoint,
			Code:        "abc123",
			RedirectURI: testRedirectURI,
		})
		require.NoError(t, err)
		require.JSONEq(t, `{"ok":true,"access_token":"tok1"}`, string(payload))

		require.Len(t, *requests, 1)
		req := (*requests)[0]
		require.Equal(t, http.MethodPost, req.method)
		require.Equal(t, "/oauth.v2.access", req.path)
		require.Equal(t, "application/x-www-form-urlencoded", req.contentType)
		require.Empty(t, req.authz, "exchange must not carry a bearer token")

		form, err := url.ParseQuery(string(req.body))
		require.NoError(t, err)
		require.Equal(t, testClientID, form.Get("client_id"))
		require.Equal(t, testClientSecret, form.Get("client_secret"))
		require.Equal(t, "abc123", form.Get("code"))
		require.Equal(t, testRedirectURI, form.Get("redirect_uri"))
		require.Empty(t, form.Get("grant_type"))
	})

	t.Run("refresh grant", func(t *testing.T) {
		ts, requests := newUpstream(t, http.StatusOK, `{"ok":true,"access_token":"tok2"}`)
		f := proxy.NewForwarder(forwarderConfig{apiBaseURL: ts.URL})

		_, err := f.Forward(context.Background(), proxy.Request{
			Endpoint:     proxy.OAuthAccessEndpoint,
			RefreshToken: "refresh-1",
		})
		require.NoError(t, err)

		require.Len(t, *requests, 1)
		form, err := url.ParseQuery(string((*requests)[0].body))
		require.NoError(t, err)
		require.Equal(t, "refresh_token", form.Get("grant_type"))
		require.Equal(t, "refresh-1", form.Get("refresh_token"))
		require.Empty(t, form.Get("code"))
	})

	t.Run("vendor failure payload relayed unchanged", func(t *testing.T) {
		ts, _ := newUpstream(t, http.StatusOK, `{"ok":false,"error":"invalid_code"}`)
		f := proxy.NewForwarder(forwarderConfig{apiBaseURL: ts.URL})

		payload, err := f.Forward(context.Background(), proxy.Request{
			Endpoint:    proxy.OAuthAccessEndpoint,
			Code:        "stale",
			RedirectURI: testRedirectURI,
		})
		require.NoError(t, err)
		require.JSONEq(t, `{"ok":false,"error":"invalid_code"}`, string(payload))
	})
}

func TestForwarder_BodyEncoding(t *testing.T) {
	t.Run("form encoding stringifies structured fields", func(t *testing.T) {
		ts, requests := newUpstream(t, http.StatusOK, `{"ok":true}`)
		f := proxy.NewForwarder(forwarderConfig{apiBaseURL: ts.URL})

		_, err := f.Forward(context.Background(), proxy.Request{
			Endpoint:    "/chat.postMessage",
			Method:      http.MethodPost,
			Token:       "xoxb-test",
			ContentType: proxy.ContentTypeForm,
			Body: map[string]any{
				"channel": "C123",
				"text":    "hello there",
				"blocks":  []any{map[string]any{"type": "section"}},
			},
		})
		require.NoError(t, err)

		require.Len(t, *requests, 1)
		req := (*requests)[0]
		require.Equal(t, "application/x-www-form-urlencoded", req.contentType)
		require.Equal(t, "Bearer xoxb-test", req.authz)

		form, err := url.ParseQuery(string(req.body))
		require.NoError(t, err)
		require.Equal(t, "C123", form.Get("channel"))
		require.Equal(t, "hello there", form.Get("text"))
		require.JSONEq(t, `[{"type":"section"}]`, form.Get("blocks"))
	})

	t.Run("flat primitive body stays flat", func(t *testing.T) {
		ts, requests := newUpstream(t, http.StatusOK, `{"ok":true}`)
		f := proxy.NewForwarder(forwarderConfig{apiBaseURL: ts.URL})

		_, err := f.Forward(context.Background(), proxy.Request{
			Endpoint:    "/chat.scheduleMessage",
			Method:      http.MethodPost,
			Token:       "xoxb-test",
			ContentType: proxy.ContentTypeForm,
			Body: map[string]any{
				"channel": "C123",
				"text":    "later",
				"post_at": float64(1924992000), // decoded JSON numbers arrive as float64
				"mrkdwn":  true,
			},
		})
		require.NoError(t, err)

		form, err := url.ParseQuery(string((*requests)[0].body))
		require.NoError(t, err)
		require.Equal(t, "1924992000", form.Get("post_at"))
		require.Equal(t, "true", form.Get("mrkdwn"))
	})

	t.Run("default encoding is JSON", func(t *testing.T) {
		ts, requests := newUpstream(t, http.StatusOK, `{"ok":true}`)
		f := proxy.NewForwarder(forwarderConfig{apiBaseURL: ts.URL})

		_, err := f.Forward(context.Background(), proxy.Request{
			Endpoint: "/chat.update",
			Method:   http.MethodPost,
			Token:    "xoxb-test",
			Body:     map[string]any{"channel": "C123", "ts": "1700000000.000100", "text": "edited"},
		})
		require.NoError(t, err)

		req := (*requests)[0]
		require.Equal(t, "application/json", req.contentType)
		require.JSONEq(t, `{"channel":"C123","ts":"1700000000.000100","text":"edited"}`, string(req.body))
	})

	t.Run("GET carries no body", func(t *testing.T) {
		ts, requests := newUpstream(t, http.StatusOK, `{"ok":true,"channels":[]}`)
		f := proxy.NewForwarder(forwarderConfig{apiBaseURL: ts.URL})

		_, err := f.Forward(context.Background(), proxy.Request{
			Endpoint: "/conversations.list?types=public_channel&limit=100",
			Token:    "xoxb-test",
			Body:     map[string]any{"ignored": "yes"},
		})
		require.NoError(t, err)

		req := (*requests)[0]
		require.Equal(t, http.MethodGet, req.method)
		require.Empty(t, req.body)
		require.Equal(t, "public_channel", req.query.Get("types"))
		require.Equal(t, "100", req.query.Get("limit"))
	})
}

func TestForwarder_RelaysNon2xxPayload(t *testing.T) {
	ts, _ := newUpstream(t, http.StatusServiceUnavailable, `{"ok":false,"error":"service_unavailable"}`)
	f := proxy.NewForwarder(forwarderConfig{apiBaseURL: ts.URL})

	payload, err := f.Forward(context.Background(), proxy.Request{
		Endpoint: "/auth.test",
		Token:    "xoxb-test",
	})
	require.NoError(t, err, "upstream status must not surface as a forwarder error")
	require.JSONEq(t, `{"ok":false,"error":"service_unavailable"}`, string(payload))
}

func TestForwarder_UpstreamUnreachable(t *testing.T) {
	f := proxy.NewForwarder(forwarderConfig{apiBaseURL: "http://127.0.0.1:1"})

	_, err := f.Forward(context.Background(), proxy.Request{
		Endpoint: "/auth.test",
		Token:    "xoxb-test",
	})
	require.Error(t, err)
	require.NotErrorIs(t, err, errors.ErrMissingEndpoint)
	require.NotErrorIs(t, err, errors.ErrMissingToken)
}
