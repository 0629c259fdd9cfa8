package slack

import (
	"fmt"

	"github.com/tidwall/gjson"
)

// Envelope wraps a raw vendor JSON payload. The Web API returns far more
// fields than this client models, so callers that need unmodeled data
// can reach into the raw document instead of losing it to a struct.
type Envelope struct {
	raw []byte
}

// OK reports the vendor's own success flag.
func (e Envelope) OK() bool {
	return gjson.GetBytes(e.raw, "ok").Bool()
}

// ErrorCode returns the vendor error code (e.g. "channel_not_found"), or
// the proxy-level error message when the proxy itself rejected the call.
func (e Envelope) ErrorCode() string {
	return gjson.GetBytes(e.raw, "error").String()
}

// Get extracts an arbitrary path from the payload.
func (e Envelope) Get(path string) gjson.Result {
	return gjson.GetBytes(e.raw, path)
}

// Raw returns the payload bytes verbatim.
func (e Envelope) Raw() []byte {
	return e.raw
}

// APIError is returned when the vendor (or the proxy) answered with
// ok:false. Code carries the vendor error code unchanged; interpreting
// it is the caller's job.
type APIError struct {
	Code string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("slack: %s", e.Code)
}
