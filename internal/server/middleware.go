package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	model "auction-house/internal/models"
	"auction-house/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// userContextKey is where AuthMiddleware stores the authenticated principal.
const userContextKey = "user"

// RequestLoggerMiddleware logs incoming requests with timing
func RequestLoggerMiddleware(c *gin.Context) {
	start := time.Now()

	c.Next() // process request

	utils.Info("HTTP Request", map[string]any{
		"method":  c.Request.Method,
		"path":    c.Request.URL.Path,
		"status":  c.Writer.Status(),
		"latency": time.Since(start).String(),
	})
}

// AuthMiddleware verifies the bearer token issued after the Discord OAuth
// exchange and stores the principal in the request context. Tokens carry
// user_id and username claims, signed with HMAC.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		tokenStr, found := strings.CutPrefix(header, "Bearer ")
		if !found || tokenStr == "" {
			utils.JSONError(c, http.StatusUnauthorized, errors.New("missing bearer token"), "authentication required")
			c.Abort()
			return
		}

		claims := jwt.MapClaims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			utils.JSONError(c, http.StatusUnauthorized, errors.New("invalid token"), "authentication required")
			c.Abort()
			return
		}

		userID, _ := claims["user_id"].(string)
		username, _ := claims["username"].(string)
		if userID == "" {
			utils.JSONError(c, http.StatusUnauthorized, errors.New("token missing user_id claim"), "authentication required")
			c.Abort()
			return
		}

		c.Set(userContextKey, model.User{UserID: userID, Username: username})
		c.Next()
	}
}

// RequireAdmin gates administrative routes with the injected authorization
// predicate. It assumes AuthMiddleware already ran.
func RequireAdmin(isAdmin func(userID string) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok || !isAdmin(user.UserID) {
			utils.JSONError(c, http.StatusForbidden, errors.New("admin access required"), "forbidden")
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated principal stored by AuthMiddleware.
func CurrentUser(c *gin.Context) (model.User, bool) {
	v, exists := c.Get(userContextKey)
	if !exists {
		return model.User{}, false
	}
	user, ok := v.(model.User)
	return user, ok
}
