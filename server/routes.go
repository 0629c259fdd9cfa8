package server

import "net/http"

func (s *Server) initRoutes() {
	// The proxy route is registered without a method so OPTIONS preflight
	// requests reach the CORS middleware; the handler enforces POST.
	s.RegisterRouteHandler(RouteProxy, ChainMiddleware(s.ProxyHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler(RouteAuthToken, ChainMiddleware(s.TokenLoginHandler(), s.APIMiddleware()...))

	// OAuth handshake (browser navigation, no CORS involved)
	s.RegisterRouteFunc("GET "+RouteOAuthAuthorize, s.OAuthAuthorizeHandler())
	s.RegisterRouteFunc("GET "+RouteOAuthCallback, s.OAuthCallbackHandler())
	s.RegisterRouteFunc("GET "+RouteAuthLogout, s.LogoutHandler())

	// Session-status views
	s.RegisterRouteFunc("GET "+RouteLogin, s.LoginStatusHandler())
	s.RegisterRouteFunc("GET "+RouteDashboard, s.DashboardStatusHandler())

	s.RegisterRouteFunc("GET "+RouteHealth, s.HealthHandler())
}

func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentTypeJSON)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}
}
