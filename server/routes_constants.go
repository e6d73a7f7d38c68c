package server

// Route paths. The authorization policy for each route lives in
// initRoutes as an explicit table: one gate per route.
const (
	RouteUsers          = "/user"
	RouteUserLogin      = "/user/login"
	RouteUserRefresh    = "/user/refresh"
	RouteUserByID       = "/user/{id}"
	RouteUserByUsername = "/user/{username}"
	RouteEvents         = "/event"
	RouteEventByID      = "/event/{id}"
)
