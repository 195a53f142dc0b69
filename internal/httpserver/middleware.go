package httpserver

import (
	"errors"
	"net/http"
	"strings"

	"storefront/internal/domain"
	"github.com/gin-gonic/gin"
)

const userCtxKey = "authedUser"

// authMiddleware resolves the X-User-ID header against the identity
// projection. Real authentication lives upstream; this boundary only checks
// the asserted identity exists and attaches it to the request.
func authMiddleware(users userGetter) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader("X-User-ID"))
		if id == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorBody{Code: "Unauthorized"})
			return
		}
		u, err := users.GetByID(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, errorBody{Code: "Unauthorized"})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, errorBody{Code: "Internal"})
			return
		}
		c.Set(userCtxKey, u)
		c.Next()
	}
}

// ownerOnly is the explicit capability check for admin routes: the core
// never decides authorization, the boundary does.
func ownerOnly(ownerUserID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := currentUser(c)
		if ownerUserID == "" || u == nil || u.ID != ownerUserID {
			c.AbortWithStatusJSON(http.StatusForbidden, errorBody{Code: "Forbidden"})
			return
		}
		c.Next()
	}
}

func currentUser(c *gin.Context) *domain.User {
	v, ok := c.Get(userCtxKey)
	if !ok {
		return nil
	}
	u, ok := v.(*domain.User)
	if !ok {
		return nil
	}
	return u
}
