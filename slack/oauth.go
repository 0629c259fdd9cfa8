package slack

import (
	"context"
	"net/http"

	"github.com/jrsteele09/go-slack-relay/internal/errors"
	"github.com/jrsteele09/go-slack-relay/proxy"
)

// TokenGrant is the distilled result of a successful OAuth exchange.
type TokenGrant struct {
	AccessToken  string
	RefreshToken string
	TeamID       string
	TeamName     string
}

// ExchangeCode redeems an authorization code through the proxy's OAuth
// path. The proxy supplies the client id/secret; this side only ever
// sees the resulting tokens.
func (c *Client) ExchangeCode(ctx context.Context, code, redirectURI string) (TokenGrant, error) {
	env, err := c.call(ctx, proxy.Request{
		Endpoint:    proxy.OAuthAccessEndpoint,
		Method:      http.MethodPost,
		Code:        code,
		RedirectURI: redirectURI,
	})
	if err != nil {
		return TokenGrant{}, err
	}
	return grantFromEnvelope(env), nil
}

// RefreshAccessToken redeems the stored refresh token for a new access
// token and persists the rotated pair. Callers invoke this explicitly;
// nothing refreshes automatically on an expired-token error.
func (c *Client) RefreshAccessToken(ctx context.Context) (TokenGrant, error) {
	creds, err := c.repo.Credentials()
	if err != nil {
		return TokenGrant{}, errors.Wrapf(err, "[Client RefreshAccessToken] read credentials")
	}
	if creds.RefreshToken == "" {
		return TokenGrant{}, errors.ErrNoCredentials
	}

	env, err := c.call(ctx, proxy.Request{
		Endpoint:     proxy.OAuthAccessEndpoint,
		Method:       http.MethodPost,
		RefreshToken: creds.RefreshToken,
	})
	if err != nil {
		return TokenGrant{}, err
	}

	grant := grantFromEnvelope(env)
	if grant.AccessToken == "" {
		return TokenGrant{}, errors.ErrExchangeFailed
	}
	if err := c.repo.SetOAuthTokens(grant.AccessToken, grant.RefreshToken); err != nil {
		return TokenGrant{}, errors.Wrapf(err, "[Client RefreshAccessToken] persist tokens")
	}
	return grant, nil
}

func grantFromEnvelope(env Envelope) TokenGrant {
	grant := TokenGrant{
		AccessToken:  env.Get("access_token").String(),
		RefreshToken: env.Get("refresh_token").String(),
		TeamID:       env.Get("team.id").String(),
		TeamName:     env.Get("team.name").String(),
	}
	// A user-scoped install carries its token under authed_user.
	if grant.AccessToken == "" {
		grant.AccessToken = env.Get("authed_user.access_token").String()
	}
	return grant
}
