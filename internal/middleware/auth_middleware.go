package middleware

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"hostelpass/internal/actor"
	authzerrors "hostelpass/internal/authz/errors"
	"hostelpass/internal/config"
	"hostelpass/internal/shared/contextutil"
	"hostelpass/internal/shared/response"
)

const actorContextKey = "actor"

// Actor returns the authenticated actor resolved by AuthMiddleware. The zero
// Context (uuid.Nil ID) means the request was not authenticated.
func Actor(c *gin.Context) actor.Context {
	if v, ok := c.Get(actorContextKey); ok {
		if act, ok := v.(actor.Context); ok {
			return act
		}
	}
	return actor.Context{}
}

// AuthMiddleware resolves the JWT into an explicit actor.Context once per
// request; everything downstream receives the actor as a value, never by
// re-reading transport state.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokenString string

		authHeader := c.GetHeader("Authorization")
		tokenString, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found {
			tokenString = ""
		}

		if tokenString == "" {
			if cookie, err := c.Cookie("access_token"); err == nil {
				tokenString = cookie
			}
		}

		if tokenString == "" {
			writeAuthError(c, "Token not found")
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(os.Getenv("JWT_SECRET")), nil
		})
		if err != nil || !token.Valid {
			writeAuthError(c, "Invalid or expired token")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			writeAuthError(c, "Invalid token claims")
			return
		}

		sub, _ := claims["sub"].(string)
		id, err := uuid.Parse(sub)
		if err != nil {
			writeAuthError(c, "Actor ID not found in token")
			return
		}

		kind, _ := claims["kind"].(string)
		var act actor.Context
		switch actor.Kind(kind) {
		case actor.KindStudent:
			act = actor.Student(id)
		case actor.KindAdmin:
			role, _ := claims["role"].(string)
			block, _ := claims["block"].(string)
			act = actor.Admin(id, config.Role(role), block)
		default:
			writeAuthError(c, "Actor kind not found in token")
			return
		}

		c.Set(actorContextKey, act)

		ctx := contextutil.WithActorID(c.Request.Context(), id.String())
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func writeAuthError(c *gin.Context, message string) {
	response.Error(c,
		http.StatusUnauthorized,
		authzerrors.ErrNotAuthenticated.Code,
		message,
		nil,
	)
	c.Abort()
}
