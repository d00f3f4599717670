package middleware

import (
	"context"
	"net/http"
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/anonto42/nano-social/backend/pkg/logger"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ActorIDKey is the context key holding the session uid
const ActorIDKey = "actorID"

// IdentityVerifier verifies identity provider session tokens; *auth.Client satisfies it
type IdentityVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// FirebaseAuthMiddleware requires a valid Firebase ID token and exposes its uid as the actor
func FirebaseAuthMiddleware(verifier IdentityVerifier) echo.MiddlewareFunc {
	return session(verifier, true)
}

// OptionalFirebaseAuth resolves the actor when a token is present but lets
// anonymous requests through. An invalid token is still rejected.
func OptionalFirebaseAuth(verifier IdentityVerifier) echo.MiddlewareFunc {
	return session(verifier, false)
}

func session(verifier IdentityVerifier, required bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				if required {
					return echo.NewHTTPError(http.StatusUnauthorized, "Authorization header is missing")
				}
				return next(c)
			}

			idToken, ok := bearerToken(authHeader)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Authorization header must be in Bearer format")
			}

			if verifier == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Session verification is not configured")
			}

			token, err := verifier.VerifyIDToken(c.Request().Context(), idToken)
			if err != nil {
				logger.Get().Debug("rejected session token", zap.Error(err))
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired ID token")
			}

			c.Set(ActorIDKey, token.UID)
			return next(c)
		}
	}
}

// ActorID returns the authenticated user id, or "" for anonymous requests
func ActorID(c echo.Context) string {
	id, _ := c.Get(ActorIDKey).(string)
	return id
}

func bearerToken(header string) (string, bool) {
	parts := strings.Split(header, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
