package server

// initRoutes is the authorization policy table: every route is listed
// with exactly one gate. Identity routes are self-or-admin where a
// resource owner exists in the path; destructive or cross-user
// operations are admin-only.
func (s *Server) initRoutes() {
	// Public
	s.RegisterRouteHandler("POST "+RouteUsers, ChainMiddleware(s.CreateUserHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteUserLogin, ChainMiddleware(s.LoginHandler(), s.APIMiddleware()...))

	// Refresh gate
	s.RegisterRouteHandler("POST "+RouteUserRefresh, ChainMiddleware(s.RefreshHandler(), s.APIMiddleware(s.RequireRefresh())...))

	// Self-or-admin
	s.RegisterRouteHandler("GET "+RouteUserByID, ChainMiddleware(s.GetUserHandler(), s.APIMiddleware(s.RequireIdentity("id"))...))
	s.RegisterRouteHandler("PUT "+RouteUserByID, ChainMiddleware(s.UpdateUserHandler(), s.APIMiddleware(s.RequireIdentity("id"))...))

	// Admin-only
	s.RegisterRouteHandler("GET "+RouteUsers, ChainMiddleware(s.ListUsersHandler(), s.APIMiddleware(s.RequireAdmin())...))
	s.RegisterRouteHandler("DELETE "+RouteUserByUsername, ChainMiddleware(s.DeleteUserHandler(), s.APIMiddleware(s.RequireAdmin())...))
	s.RegisterRouteHandler("POST "+RouteEvents, ChainMiddleware(s.CreateEventHandler(), s.APIMiddleware(s.RequireAdmin())...))
	s.RegisterRouteHandler("PUT "+RouteEventByID, ChainMiddleware(s.UpdateEventHandler(), s.APIMiddleware(s.RequireAdmin())...))
	s.RegisterRouteHandler("DELETE "+RouteEventByID, ChainMiddleware(s.DeleteEventHandler(), s.APIMiddleware(s.RequireAdmin())...))

	// Any authenticated identity
	s.RegisterRouteHandler("GET "+RouteEvents, ChainMiddleware(s.ListEventsHandler(), s.APIMiddleware(s.RequireIdentity(""))...))
	s.RegisterRouteHandler("GET "+RouteEventByID, ChainMiddleware(s.GetEventHandler(), s.APIMiddleware(s.RequireIdentity(""))...))
}
