package server

func (s *Server) initRoutes() {
	s.RegisterRouteFunc("GET "+RouteIndex, ChainMiddleware(s.IndexHandler(), s.APIMiddleware()...))

	s.RegisterRouteFunc("POST "+RouteUsers, ChainMiddleware(s.RegisterHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc("POST "+RouteAuthenticate, ChainMiddleware(s.AuthenticateHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc("GET "+RouteAuthenticateCheck, ChainMiddleware(s.CheckTokenHandler(), s.APIMiddleware(s.RequireToken())...))

	s.RegisterRouteFunc("GET "+RouteSystems, ChainMiddleware(s.SystemsHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc("POST "+RouteCampaigns, ChainMiddleware(s.CreateCampaignHandler(), s.APIMiddleware(s.RequireToken())...))

	// CORS preflight for every API path.
	for _, path := range []string{RouteUsers, RouteAuthenticate, RouteAuthenticateCheck, RouteSystems, RouteCampaigns} {
		s.RegisterRouteFunc("OPTIONS "+path, ChainMiddleware(noContent, s.APIMiddleware()...))
	}
}
