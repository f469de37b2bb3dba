package middleware // middleware contains reusable HTTP middleware functions

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// signInPath is included in 401 responses so clients can send the user to
// the sign-in flow and, via "next", resume the originally requested
// resource after authenticating.
const signInPath = "/v1/auth/login"

// JWTAuth returns an Echo middleware that validates a Bearer access token
// and injects the token's subject and email claims into the request
// context. The provided secret must match the one used when issuing
// tokens. Handlers behind this middleware read the principal via
// c.Get("user_id") and c.Get("email").
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return unauthorized(c, "missing bearer token")
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
				// Accept HMAC only; reject any other signing method.
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, echo.ErrUnauthorized
				}
				return []byte(secret), nil
			})
			if err != nil || !tok.Valid {
				return unauthorized(c, "invalid token")
			}

			claims, ok := tok.Claims.(jwt.MapClaims)
			if !ok {
				return unauthorized(c, "invalid claims")
			}

			c.Set("user_id", claims["sub"])
			c.Set("email", claims["email"])
			return next(c)
		}
	}
}

// unauthorized writes the standard 401 payload carrying the sign-in path
// and the path the client attempted to reach.
func unauthorized(c echo.Context, msg string) error {
	return c.JSON(http.StatusUnauthorized, echo.Map{
		"error":   msg,
		"sign_in": signInPath,
		"next":    c.Request().URL.RequestURI(),
	})
}
