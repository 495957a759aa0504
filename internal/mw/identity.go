package mw

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// The authentication collaborator in front of this service resolves the
// caller and injects these headers. They are mandatory: defaulting either
// one would open cross-condominium reads.
const (
	HeaderUserID        = "X-User-ID"
	HeaderCondominiumID = "X-Condominium-ID"

	ctxUserID        = "identity.userID"
	ctxCondominiumID = "identity.condominiumID"
)

// Identity requires the acting-user and condominium headers on every
// request and stashes them in the gin context.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader(HeaderUserID)
		condominiumID := c.GetHeader(HeaderCondominiumID)
		if userID == "" || condominiumID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "missing " + HeaderUserID + " or " + HeaderCondominiumID + " header",
			})
			return
		}
		c.Set(ctxUserID, userID)
		c.Set(ctxCondominiumID, condominiumID)
		c.Next()
	}
}

// UserID returns the acting user id resolved by Identity.
func UserID(c *gin.Context) string {
	return c.GetString(ctxUserID)
}

// CondominiumID returns the tenant id resolved by Identity.
func CondominiumID(c *gin.Context) string {
	return c.GetString(ctxCondominiumID)
}
