package ginserver

import (
	"net/http"
	"strings"

	gin "github.com/gin-gonic/gin"
)

const principalContextKey = "roamstay.principal"

// principal is the acting user resolved by the edge gateway. This service
// trusts the forwarded identity headers; token validation happens before
// traffic reaches it.
type principal struct {
	ID    string
	Roles []string
}

func (p principal) HasRole(role string) bool {
	role = strings.ToLower(strings.TrimSpace(role))
	if role == "" {
		return false
	}
	for _, r := range p.Roles {
		if strings.ToLower(r) == role {
			return true
		}
	}
	return false
}

// IdentityMiddleware lifts the gateway identity headers into the request
// context. Requests without an identity pass through; route handlers
// decide whether one is required.
func IdentityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader("X-User-ID"))
		if id != "" {
			roles := strings.Split(c.GetHeader("X-User-Roles"), ",")
			cleaned := make([]string, 0, len(roles))
			for _, r := range roles {
				if r = strings.TrimSpace(r); r != "" {
					cleaned = append(cleaned, r)
				}
			}
			c.Set(principalContextKey, principal{ID: id, Roles: cleaned})
		}
		c.Next()
	}
}

func currentPrincipal(c *gin.Context) (principal, bool) {
	val, exists := c.Get(principalContextKey)
	if !exists {
		return principal{}, false
	}
	p, ok := val.(principal)
	return p, ok
}

func requirePrincipal(c *gin.Context) (principal, bool) {
	p, ok := currentPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "auth required"})
		return principal{}, false
	}
	return p, true
}
