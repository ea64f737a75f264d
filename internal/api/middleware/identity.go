package middleware

import (
	"github.com/andresuchdata/sales-dashboard/internal/access"
	"github.com/gin-gonic/gin"
)

const scopeKey = "access_scope"

// Identity reads role, zone and area from the query string and stores the
// resulting access scope on the context. The values are trusted as sent;
// an authenticating middleware must replace this before exposing the
// service beyond a trusted embedder.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		scope := access.ParseScope(c.Query("role"), c.Query("zone"), c.Query("area"))
		c.Set(scopeKey, scope)
		c.Next()
	}
}

// ScopeFrom returns the scope set by Identity. Without one the zero scope
// is returned, which grants nothing.
func ScopeFrom(c *gin.Context) access.Scope {
	if v, ok := c.Get(scopeKey); ok {
		if scope, ok := v.(access.Scope); ok {
			return scope
		}
	}
	return access.Scope{}
}
