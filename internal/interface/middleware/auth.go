package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"go-auth-service/pkg/apperr"
	"go-auth-service/pkg/token"
)

const ctxAuthUserKey = "authUser"

// AuthUser is the request-scoped authenticated identity derived from a
// verified bearer token.
type AuthUser struct {
	ID       string
	Email    string
	Username string
}

func authUserFromRequest(c *gin.Context, tokens *token.Manager) (AuthUser, *apperr.Error) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return AuthUser{}, apperr.Unauthorized("missing authorization header")
	}

	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return AuthUser{}, apperr.Unauthorized("invalid authorization header format")
	}

	claims, err := tokens.Verify(raw)
	if err != nil {
		// Signature, structure and expiry failures are deliberately not
		// distinguished in the response.
		return AuthUser{}, apperr.Unauthorized("invalid token")
	}

	return AuthUser{ID: claims.Subject, Email: claims.Email, Username: claims.Username}, nil
}

// RequireAuth rejects requests lacking a valid bearer token and stores the
// authenticated identity in the Gin context for handlers.
func RequireAuth(tokens *token.Manager, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, authErr := authUserFromRequest(c, tokens)
		if authErr != nil {
			apperr.Respond(c, log, authErr)
			return
		}
		c.Set(ctxAuthUserKey, user)
		c.Next()
	}
}

// OptionalAuth attaches an identity when a valid token is present and lets
// the request through either way. Never use it on protected routes.
func OptionalAuth(tokens *token.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if user, authErr := authUserFromRequest(c, tokens); authErr == nil {
			c.Set(ctxAuthUserKey, user)
		}
		c.Next()
	}
}

// CurrentUser retrieves the authenticated identity placed by RequireAuth or
// OptionalAuth.
func CurrentUser(c *gin.Context) (AuthUser, bool) {
	v, ok := c.Get(ctxAuthUserKey)
	if !ok {
		return AuthUser{}, false
	}
	user, ok := v.(AuthUser)
	return user, ok
}
