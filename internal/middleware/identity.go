package middleware

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// subject returns the authenticated staff id for rate limit and cache
// keys, or "guest" on public routes.
func subject(c echo.Context) string {
	if id, ok := c.Get(CtxUserID).(uint64); ok && id != 0 {
		return strconv.FormatUint(id, 10)
	}
	return "guest"
}
