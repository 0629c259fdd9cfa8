package server

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-slack-relay/internal/errors"
	"github.com/jrsteele09/go-slack-relay/proxy"
)

const contentTypeJSON = "application/json; charset=utf-8"

// ProxyHandler accepts a proxy envelope and relays it upstream. The
// upstream payload always comes back with HTTP 200; Slack's own ok flag
// signals success or failure. Only proxy-level problems use 400/500.
func (s *Server) ProxyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeProxyError(w, http.StatusMethodNotAllowed, "method not allowed", "")
			return
		}

		var req proxy.Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeProxyError(w, http.StatusBadRequest, "invalid request body", err.Error())
			return
		}

		payload, err := s.forwarder.Forward(r.Context(), req)
		if err != nil {
			switch {
			case errors.Is(err, errors.ErrMissingEndpoint),
				errors.Is(err, errors.ErrMissingToken),
				errors.Is(err, errors.ErrMissingCode),
				errors.Is(err, errors.ErrMissingRedirectURI):
				writeProxyError(w, http.StatusBadRequest, err.Error(), "")
			default:
				log.Err(err).Str("endpoint", req.Endpoint).Msg("proxy forward failed")
				writeProxyError(w, http.StatusInternalServerError, "internal server error", "")
			}
			return
		}

		w.Header().Set("Content-Type", contentTypeJSON)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(payload)
	}
}

func writeProxyError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(proxy.ErrorResponse{Error: message, Details: details})
}
