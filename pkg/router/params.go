package router

import (
	"context"
	"net/http"
)

// WildcardParam names the rest of the path matched by a trailing "/*".
const WildcardParam = "wildcard"

type routeKey struct{}

// match is what the router records about the route serving a request.
type match struct {
	pattern string
	params  Params
}

// Params maps the named segments of a matched route to their values.
type Params map[string]string

// Get returns the value bound to name, or "".
func (p Params) Get(name string) string {
	return p[name]
}

// Has reports whether the route binds name.
func (p Params) Has(name string) bool {
	_, ok := p[name]
	return ok
}

// WithParams returns a context carrying params for an unnamed route.
func WithParams(ctx context.Context, params Params) context.Context {
	return withMatch(ctx, "", params)
}

func withMatch(ctx context.Context, pattern string, params Params) context.Context {
	return context.WithValue(ctx, routeKey{}, match{pattern: pattern, params: params})
}

// ParamsFromContext returns the parameters of the route serving the request.
func ParamsFromContext(ctx context.Context) (Params, bool) {
	m, ok := ctx.Value(routeKey{}).(match)
	return m.params, ok
}

// PatternFromContext returns the matched route pattern, or "" outside a
// matched route.
func PatternFromContext(ctx context.Context) string {
	m, _ := ctx.Value(routeKey{}).(match)
	return m.pattern
}

// Param returns the value bound to name for the request.
func Param(req *http.Request, name string) string {
	params, _ := ParamsFromContext(req.Context())
	return params.Get(name)
}

// Wildcard returns the path matched by a trailing "/*". It starts with "/".
func Wildcard(req *http.Request) string {
	return Param(req, WildcardParam)
}
