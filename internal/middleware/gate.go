package middleware

import (
	"context"
	"strings"
	"time"

	"github.com/omenapps/adminsort/internal/cachemanager"
	"github.com/omenapps/adminsort/internal/config"
	"github.com/omenapps/adminsort/internal/log"
)

// AdminNamespace is the route namespace the gate accepts.
const AdminNamespace = "admin"

// decisionTTL bounds how long a per-path gate decision is memoized. The
// route table is static, so this only caps memory for unbounded path sets.
const decisionTTL = 10 * time.Minute

// Route describes a resolved request route.
type Route struct {
	// Namespace groups the routes of one sub-application, e.g. "admin".
	Namespace string
	// Name identifies the view within the namespace, e.g. "index".
	Name string
}

// RouteResolver resolves a request path to its route descriptor. A false
// return means the path is unknown; that is not an error, the response
// just passes through unchanged.
type RouteResolver interface {
	Resolve(path string) (Route, bool)
}

// TableResolver resolves paths against a static pattern table, first
// match wins. A pattern ending in "*" matches by prefix, anything else
// matches exactly.
type TableResolver struct {
	patterns []tablePattern
}

type tablePattern struct {
	pattern string
	route   Route
}

// NewTableResolver creates an empty resolver.
func NewTableResolver() *TableResolver {
	return &TableResolver{}
}

// Add registers a pattern.
func (r *TableResolver) Add(pattern string, route Route) *TableResolver {
	r.patterns = append(r.patterns, tablePattern{pattern: pattern, route: route})
	return r
}

// Resolve implements RouteResolver.
func (r *TableResolver) Resolve(path string) (Route, bool) {
	for _, p := range r.patterns {
		if prefix, ok := strings.CutSuffix(p.pattern, "*"); ok {
			if strings.HasPrefix(path, prefix) {
				return p.route, true
			}
			continue
		}
		if path == p.pattern {
			return p.route, true
		}
	}
	return Route{}, false
}

// Gate decides whether a request targets an admin index/app-list view.
// It runs on every request, so per-path decisions are memoized.
type Gate struct {
	resolver  RouteResolver
	allowed   map[string]struct{}
	decisions cachemanager.CacheManager[string, bool]
}

// NewGate creates a gate accepting the given route names within the admin
// namespace. An empty name list falls back to the defaults.
func NewGate(resolver RouteResolver, validURLNames []string) *Gate {
	if len(validURLNames) == 0 {
		validURLNames = config.DefaultValidURLNames()
	}
	allowed := make(map[string]struct{}, len(validURLNames))
	for _, name := range validURLNames {
		allowed[name] = struct{}{}
	}
	return &Gate{
		resolver: resolver,
		allowed:  allowed,
		decisions: cachemanager.NewInMemoryCacheManager[string, bool](
			"gate-decisions", cachemanager.DefaultExpiration, cachemanager.DefaultCleanupInterval),
	}
}

// Applicable reports whether the response for path should be transformed.
func (g *Gate) Applicable(ctx context.Context, path string) bool {
	if decision, ok := g.decisions.Get(ctx, path); ok {
		return decision
	}
	decision := g.decide(path)
	g.decisions.Set(ctx, path, decision, decisionTTL)
	return decision
}

func (g *Gate) decide(path string) bool {
	route, ok := g.resolver.Resolve(path)
	if !ok {
		// Unknown path: the feature simply doesn't apply.
		return false
	}
	if route.Namespace != AdminNamespace {
		return false
	}
	if _, ok := g.allowed[route.Name]; !ok {
		log.Debug(log.CatGate, "route name not in allow-list", "path", path, "name", route.Name)
		return false
	}
	return true
}
