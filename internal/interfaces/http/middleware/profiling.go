package middleware

import (
	"context"
	"strings"

	"github.com/erp/procurement/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
)

// Pyroscope label names
const (
	profilingLabelMethod     = "method"
	profilingLabelRoute      = "route"
	profilingLabelController = "controller"
	profilingLabelTenantID   = "tenant_id"
)

// ProfilingConfig holds configuration for the profiling middleware.
type ProfilingConfig struct {
	Enabled          bool
	SkipPaths        []string
	SkipPathPrefixes []string
}

// DefaultProfilingConfig skips health checks and the docs
func DefaultProfilingConfig() ProfilingConfig {
	return ProfilingConfig{
		Enabled:          true,
		SkipPaths:        []string{"/health", "/ready"},
		SkipPathPrefixes: []string{"/swagger"},
	}
}

// ProfilingWithConfig attaches pprof labels (method, route, controller,
// tenant) to the request so Pyroscope can slice CPU samples by endpoint.
// Place it after tenant resolution.
func ProfilingWithConfig(cfg ProfilingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, skipPath := range cfg.SkipPaths {
			if path == skipPath {
				c.Next()
				return
			}
		}
		for _, prefix := range cfg.SkipPathPrefixes {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}

		telemetry.WithProfilingLabels(c.Request.Context(), func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		}, profilingLabels(c)...)
	}
}

func profilingLabels(c *gin.Context) []string {
	kv := []string{profilingLabelMethod, c.Request.Method}
	if route := c.FullPath(); route != "" {
		kv = append(kv, profilingLabelRoute, route)
		if controller := controllerFromRoute(route); controller != "" {
			kv = append(kv, profilingLabelController, controller)
		}
	}
	if tenantID := GetTenantID(c); tenantID != "" {
		kv = append(kv, profilingLabelTenantID, tenantID)
	}
	return kv
}

// controllerFromRoute returns the resource segment of a route,
// e.g. "/api/v1/purchase-orders/:id/approve" gives "purchase-orders".
func controllerFromRoute(route string) string {
	for part := range strings.SplitSeq(route, "/") {
		if part == "" || part == "api" || isVersionSegment(part) ||
			strings.HasPrefix(part, ":") || strings.HasPrefix(part, "*") {
			continue
		}
		return part
	}
	return ""
}

func isVersionSegment(segment string) bool {
	if len(segment) < 2 || (segment[0] != 'v' && segment[0] != 'V') {
		return false
	}
	for i := 1; i < len(segment); i++ {
		if segment[i] < '0' || segment[i] > '9' {
			return false
		}
	}
	return true
}
