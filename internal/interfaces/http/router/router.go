// Package router mounts the procurement API routes on a gin engine.
package router

import (
	"fmt"
	"net/http"
	"path"
	"sort"

	"github.com/gin-gonic/gin"
)

// RouteInfo describes one mounted API route
type RouteInfo struct {
	Method string
	Path   string
	Group  string
}

// Router mounts resource groups under /api/<version>
type Router struct {
	engine     *gin.Engine
	apiVersion string
	middleware []gin.HandlerFunc
	groups     []*DomainGroup
	mounted    []RouteInfo
}

// RouterOption configures a Router
type RouterOption func(*Router)

// WithAPIVersion sets the version segment of the API prefix, "v1" by default
func WithAPIVersion(version string) RouterOption {
	return func(r *Router) {
		r.apiVersion = version
	}
}

// NewRouter creates a Router on engine
func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{engine: engine, apiVersion: "v1"}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// BasePath is the prefix every group is mounted under
func (r *Router) BasePath() string {
	return "/api/" + r.apiVersion
}

// Use adds middleware that runs before every group's own middleware
func (r *Router) Use(middleware ...gin.HandlerFunc) *Router {
	r.middleware = append(r.middleware, middleware...)
	return r
}

// Register queues groups for Setup
func (r *Router) Register(groups ...*DomainGroup) *Router {
	r.groups = append(r.groups, groups...)
	return r
}

// Setup mounts the registered groups. Two groups claiming the same method and
// path is a wiring mistake and is reported before anything reaches gin, which
// would panic instead.
func (r *Router) Setup() error {
	seen := make(map[string]string)
	var routes []RouteInfo
	for _, g := range r.groups {
		for _, rd := range g.routes {
			info := RouteInfo{Method: rd.method, Path: joinPath(r.BasePath(), g.prefix, rd.path), Group: g.name}
			key := info.Method + " " + info.Path
			if owner, dup := seen[key]; dup {
				return fmt.Errorf("router: %s registered by both %q and %q", key, owner, g.name)
			}
			seen[key] = g.name
			routes = append(routes, info)
		}
	}

	api := r.engine.Group(r.BasePath())
	if len(r.middleware) > 0 {
		api.Use(r.middleware...)
	}
	for _, g := range r.groups {
		g.mount(api)
	}

	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Path != routes[j].Path {
			return routes[i].Path < routes[j].Path
		}
		return routes[i].Method < routes[j].Method
	})
	r.mounted = routes
	return nil
}

// Routes lists the routes mounted by Setup, sorted by path then method
func (r *Router) Routes() []RouteInfo {
	return r.mounted
}

// DomainGroup collects the routes of one resource before they are mounted
type DomainGroup struct {
	name       string
	prefix     string
	middleware []gin.HandlerFunc
	routes     []routeDefinition
}

type routeDefinition struct {
	method   string
	path     string
	handlers []gin.HandlerFunc
}

// NewDomainGroup creates a group mounted at prefix below the API base path
func NewDomainGroup(name, prefix string) *DomainGroup {
	return &DomainGroup{name: name, prefix: prefix}
}

// Use adds middleware to every route of the group
func (dg *DomainGroup) Use(middleware ...gin.HandlerFunc) *DomainGroup {
	dg.middleware = append(dg.middleware, middleware...)
	return dg
}

// Handle adds a route; the last handler is the endpoint, any before it are guards
func (dg *DomainGroup) Handle(method, path string, handlers ...gin.HandlerFunc) *DomainGroup {
	dg.routes = append(dg.routes, routeDefinition{method: method, path: path, handlers: handlers})
	return dg
}

func (dg *DomainGroup) GET(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.Handle(http.MethodGet, path, handlers...)
}

func (dg *DomainGroup) POST(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.Handle(http.MethodPost, path, handlers...)
}

func (dg *DomainGroup) PUT(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.Handle(http.MethodPut, path, handlers...)
}

func (dg *DomainGroup) DELETE(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.Handle(http.MethodDelete, path, handlers...)
}

func (dg *DomainGroup) mount(api *gin.RouterGroup) {
	group := api.Group(dg.prefix)
	if len(dg.middleware) > 0 {
		group.Use(dg.middleware...)
	}
	for _, rd := range dg.routes {
		group.Handle(rd.method, rd.path, rd.handlers...)
	}
}

// joinPath joins route segments the way gin does, keeping a trailing slash
// only when the last segment asked for one
func joinPath(segments ...string) string {
	joined := path.Join(segments...)
	last := segments[len(segments)-1]
	if last != "" && last[len(last)-1] == '/' && joined[len(joined)-1] != '/' {
		joined += "/"
	}
	return joined
}
