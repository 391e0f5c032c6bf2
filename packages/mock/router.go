package mock

import (
	"net/http"
	"regexp"
	"strings"
)

var paramPattern = regexp.MustCompile(`\{\{([^}]+)\}\}`)

// HandlerFunc serves a matched route. params holds the {{name}} path segments.
type HandlerFunc func(w http.ResponseWriter, r *http.Request, params map[string]string)

// Route represents a backend route
type Route struct {
	Method      string
	PathPattern string
	PathRegex   *regexp.Regexp
	Name        string
	Auth        bool
	Handler     HandlerFunc
}

// Router matches incoming requests to routes
type Router struct {
	routes []*Route
}

// NewRouter creates a new router
func NewRouter() *Router {
	return &Router{
		routes: make([]*Route, 0),
	}
}

// Handle registers a route. pattern may contain {{param}} segments.
func (r *Router) Handle(method, pattern, name string, auth bool, h HandlerFunc) {
	pattern = normalizePath(pattern)
	r.routes = append(r.routes, &Route{
		Method:      method,
		PathPattern: pattern,
		PathRegex:   createPathRegex(pattern),
		Name:        name,
		Auth:        auth,
		Handler:     h,
	})
}

// Routes returns the registered routes in registration order.
func (r *Router) Routes() []*Route {
	return r.routes
}

// Match finds a route matching the given method and path. pathFound reports
// whether any route serves path with a different method.
func (r *Router) Match(method, path string) (route *Route, params map[string]string, pathFound bool) {
	path = normalizePath(path)

	for _, rt := range r.routes {
		params := matchPath(rt, path)
		if params == nil {
			continue
		}
		if strings.EqualFold(rt.Method, method) {
			return rt, params, true
		}
		pathFound = true
	}

	return nil, nil, pathFound
}

func normalizePath(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	// Remove trailing slash (except for root)
	if len(path) > 1 && strings.HasSuffix(path, "/") {
		path = path[:len(path)-1]
	}
	return path
}

func createPathRegex(pattern string) *regexp.Regexp {
	var b strings.Builder
	b.WriteString("^")
	last := 0
	for _, loc := range paramPattern.FindAllStringSubmatchIndex(pattern, -1) {
		b.WriteString(regexp.QuoteMeta(pattern[last:loc[0]]))
		b.WriteString("(?P<" + pattern[loc[2]:loc[3]] + ">[^/]+)")
		last = loc[1]
	}
	b.WriteString(regexp.QuoteMeta(pattern[last:]))
	b.WriteString("$")

	regex, err := regexp.Compile(b.String())
	if err != nil {
		return regexp.MustCompile("^" + regexp.QuoteMeta(pattern) + "$")
	}
	return regex
}

func matchPath(route *Route, path string) map[string]string {
	matches := route.PathRegex.FindStringSubmatch(path)
	if matches == nil {
		return nil
	}
	params := make(map[string]string)
	for i, name := range route.PathRegex.SubexpNames() {
		if i > 0 && name != "" && i < len(matches) {
			params[name] = matches[i]
		}
	}
	return params
}
