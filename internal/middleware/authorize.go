package middleware

import (
	"github.com/gin-gonic/gin"

	"hostelpass/internal/authz"
	"hostelpass/internal/shared/apperror"
	"hostelpass/internal/shared/response"
)

// Authorize gates a route on the casbin policy: the actor resolved by
// AuthMiddleware must be allowed to perform action on resource.
func Authorize(gate authz.Gate, resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		act := Actor(c)

		if err := gate.Authorize(act, resource, action); err != nil {
			httpErr := apperror.ToHTTP(err)
			response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, nil)
			c.Abort()
			return
		}

		c.Next()
	}
}
