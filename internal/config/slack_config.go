package config

import "time"

type SlackConfig interface {
	GetSlackClientID() string
	GetSlackClientSecret() string
	GetSlackScopes() string
	GetSlackAPIBaseURL() string
	GetSlackAuthorizeURL() string
	GetRedirectURI() string
	GetUpstreamTimeout() time.Duration
}

type Slack struct{}

var _ SlackConfig = Slack{}

// defaultScopes mirrors the scopes the messaging client needs: posting,
// listing conversations of every visibility, and resolving user names.
const defaultScopes = "chat:write,channels:read,groups:read,im:read,mpim:read,users:read"

func (Slack) GetSlackClientID() string {
	return GetEnv("SLACK_CLIENT_ID", "")
}

// GetSlackClientSecret is only ever read on the proxy side. The secret
// must never be sent to a browser client.
func (Slack) GetSlackClientSecret() string {
	return GetEnv("SLACK_CLIENT_SECRET", "")
}

func (Slack) GetSlackScopes() string {
	return GetEnv("SLACK_SCOPES", defaultScopes)
}

func (Slack) GetSlackAPIBaseURL() string {
	return GetEnv("SLACK_API_BASE_URL", "https://slack.com/api")
}

func (Slack) GetSlackAuthorizeURL() string {
	return GetEnv("SLACK_AUTHORIZE_URL", "https://slack.com/oauth/v2/authorize")
}

func (s Slack) GetRedirectURI() string {
	return GetEnv("SLACK_REDIRECT_URI", EnvVars{}.GetBaseURL()+"/oauth/callback")
}

func (Slack) GetUpstreamTimeout() time.Duration {
	return 10 * time.Second
}
