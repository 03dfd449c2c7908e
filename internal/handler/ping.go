// File: internal/handler/ping.go
package handler

import (
	"net/http"
	"time"

	"issue-tracker/internal/api"
	"issue-tracker/internal/cache"
	"issue-tracker/internal/database"

	"github.com/labstack/echo/v4"
)

const pingKey = "health:ping"

// PingHandler 健康檢查
// @Summary     Health Check
// @Description 回傳 pong，並檢查資料庫與 Redis 連線是否正常
// @Tags        health
// @Produce     json
// @Success     200 {object} api.PingResponse
// @Failure     500 {object} api.ErrorResponse
// @Router      /ping [get]
func PingHandler(db database.DB, rdb cache.Cache) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		if err := db.Ping(ctx); err != nil {
			c.Logger().Errorf("ping database: %v", err)
			return Fail(c, http.StatusInternalServerError, "database unhealthy")
		}
		if err := rdb.Set(ctx, pingKey, "pong", time.Minute).Err(); err != nil {
			c.Logger().Errorf("ping cache: %v", err)
			return Fail(c, http.StatusInternalServerError, "cache unhealthy")
		}
		return c.JSON(http.StatusOK, api.PingResponse{Message: "pong"})
	}
}
