package handler // handler defines the HTTP handlers of the API

import (
	"errors"
	"strconv"

	"github.com/labstack/echo/v4"
)

// getUserID extracts the authenticated user's ID from the echo context.
// The JWT middleware stores the token's numeric sub claim, which arrives
// as float64 after JSON decoding; the other numeric shapes also occur in
// tests and direct calls.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// getEmail returns the email claim stored by the JWT middleware, or "".
func getEmail(c echo.Context) string {
	if s, ok := c.Get("email").(string); ok {
		return s
	}
	return ""
}
