package proxy

// ContentType selects how the forwarder serializes the request body
// before relaying it upstream.
type ContentType string

const (
	// ContentTypeJSON serializes the body as a JSON document.
	// Used for: endpoints that accept application/json (most write calls
	// when a bot token is in play).
	ContentTypeJSON ContentType = "json"

	// ContentTypeForm serializes the body as URL-encoded form fields.
	// Non-primitive field values (blocks, attachments) are
	// JSON-stringified before encoding, matching what the Slack Web API
	// expects for application/x-www-form-urlencoded calls.
	ContentTypeForm ContentType = "form"
)

// OAuthAccessEndpoint is the one endpoint the forwarder special-cases:
// it is authenticated with the server-held client id/secret instead of a
// bearer token.
const OAuthAccessEndpoint = "/oauth.v2.access"

// Request is the envelope a caller posts to the relay. Endpoint is the
// Slack Web API method path (e.g. "/chat.postMessage", query string
// allowed). Token is required for every endpoint except the OAuth code
// exchange, which requires Code and RedirectURI instead.
type Request struct {
	Endpoint    string         `json:"endpoint"`
	Method      string         `json:"method,omitempty"`
	Body        map[string]any `json:"body,omitempty"`
	Token       string         `json:"token,omitempty"`
	ContentType ContentType    `json:"contentType,omitempty"`
	Code        string         `json:"code,omitempty"`
	RedirectURI string         `json:"redirectUri,omitempty"`

	// RefreshToken selects the refresh grant on the OAuth endpoint in
	// place of Code/RedirectURI. Like the code exchange it is
	// authenticated with the server-held client secret.
	RefreshToken string `json:"refreshToken,omitempty"`
}

// ErrorResponse is the proxy-level failure envelope. Upstream failures
// are never wrapped in it; Slack's own {ok:false, error} payload is
// relayed verbatim instead.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
