package ssg

import "strings"

// RoutesLocation maps an output-relative route path to the route path the
// site declared.
type RoutesLocation map[string]string

// BuildRoutesLocation indexes routesPaths by their path relative to baseURL.
// A single leading baseURL is removed and the remainder re-rooted at "/", so
// both "/base" and "/base/" turn "/base/docs" into "/docs". Routes outside
// baseURL keep their path. When two routes produce the same key the later
// one wins.
func BuildRoutesLocation(routesPaths []string, baseURL string) RoutesLocation {
	routesLocation := make(RoutesLocation, len(routesPaths))
	for _, route := range routesPaths {
		ssgPath := route
		if baseURL != "/" && baseURL != "" {
			if rest, ok := strings.CutPrefix(route, baseURL); ok {
				ssgPath = "/" + strings.TrimPrefix(rest, "/")
			}
		}
		routesLocation[ssgPath] = route
	}
	return routesLocation
}
