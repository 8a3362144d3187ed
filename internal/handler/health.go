package handler

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// HealthHandler reports liveness plus the state of MySQL and Redis.
type HealthHandler struct {
	DB    *sql.DB
	Redis *redis.Client // optional
}

// Health returns 200 "ok" when every dependency answers a ping, 503 with
// the failing components otherwise.  Used by load balancers.
func (h *HealthHandler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	failed := echo.Map{}
	if h.DB != nil {
		if err := h.DB.PingContext(ctx); err != nil {
			failed["mysql"] = err.Error()
		}
	}
	if h.Redis != nil {
		if err := h.Redis.Ping(ctx).Err(); err != nil {
			failed["redis"] = err.Error()
		}
	}
	if len(failed) > 0 {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "degraded", "failed": failed})
	}
	return c.String(http.StatusOK, "ok")
}
