// Package store persists the authorization artifacts the messaging
// client needs across restarts: the installed bot token, OAuth
// access/refresh tokens, the anti-forgery state value, and the last
// consumed authorization code.
package store

// Credentials holds every token the client may authenticate with.
type Credentials struct {
	// Token is a static, long-lived installed token (xoxb-...), the
	// alternative to the OAuth flow.
	Token string

	// AccessToken and RefreshToken come from a successful OAuth code
	// exchange. Overwritten on refresh, deleted on logout.
	AccessToken  string
	RefreshToken string
}

// AuthToken returns the credential API calls should use: the OAuth
// access token when present, otherwise the installed token.
func (c Credentials) AuthToken() string {
	if c.AccessToken != "" {
		return c.AccessToken
	}
	return c.Token
}

// Empty reports whether no credential of any kind is stored.
func (c Credentials) Empty() bool {
	return c.Token == "" && c.AccessToken == ""
}

// Repo is the credential store contract. Lookups of unset values return
// the zero value, not an error; a missing state token and an empty state
// token are the same thing to the handshake.
type Repo interface {
	Credentials() (Credentials, error)
	SetToken(token string) error
	SetOAuthTokens(accessToken, refreshToken string) error

	OAuthState() (string, error)
	SetOAuthState(state string) error
	DeleteOAuthState() error

	ProcessedCode() (string, error)
	SetProcessedCode(code string) error

	// Clear removes all credentials and handshake markers. Used on logout.
	Clear() error
}
