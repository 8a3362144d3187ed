package middleware

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// userKey returns the authenticated user's id as a string for use in
// Redis keys, or "anon" when the request carries no identity.  JWTAuth
// stores the sub claim as decoded by encoding/json, so a number arrives
// as float64.
func userKey(c echo.Context) string {
	switch v := c.Get("user_id").(type) {
	case float64:
		if v > 0 {
			return strconv.FormatUint(uint64(v), 10)
		}
	case uint64:
		return strconv.FormatUint(v, 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case int:
		return strconv.Itoa(v)
	case string:
		if v != "" {
			return v
		}
	}
	return "anon"
}
