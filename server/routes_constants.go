package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	// Proxy Gateway
	RouteProxy = "/api/slack-proxy"

	// OAuth handshake
	RouteOAuthAuthorize = "/oauth/authorize"
	RouteOAuthCallback  = "/oauth/callback"

	// Auth
	RouteAuthToken  = "/auth/token"
	RouteAuthLogout = "/auth/logout"

	// Views the handshake redirects to (the browser client owns their
	// rendering; this server answers them with session status)
	RouteLogin     = "/login"
	RouteDashboard = "/dashboard"

	RouteHealth = "/healthz"
)
