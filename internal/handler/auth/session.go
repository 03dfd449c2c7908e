// File: internal/handler/auth/session.go
package auth

import (
	"net/http"

	"issue-tracker/internal/api"
	"issue-tracker/internal/cache"
	"issue-tracker/internal/handler"
	"issue-tracker/internal/service"

	"github.com/labstack/echo/v4"
)

// SignOutHandler 撤銷目前 session 並清除 cookie
// @Summary     Sign out
// @Description 刪除 Redis 中的 session 並讓 cookie 失效；沒有 session 時同樣回傳 ok
// @Tags        auth
// @Produce     json
// @Success     200 {object} api.OKResponse
// @Failure     500 {object} api.ErrorResponse
// @Router      /auth/signout [post]
func SignOutHandler(rdb cache.Cache, cfg service.SessionConfig) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		id, ok, err := resolveSession(ctx, c, rdb, cfg)
		if err != nil {
			return handler.InternalError(c, err)
		}
		if ok {
			if err := revokeSession(ctx, rdb, id.SessionID); err != nil {
				return handler.InternalError(c, err)
			}
		}
		c.SetCookie(expiredCookie(cfg))
		return c.JSON(http.StatusOK, api.OKResponse{OK: true})
	}
}

// SessionHandler 回傳目前登入的使用者
// @Summary     Current session
// @Description 有效 session 時回傳 {"user": {...}}，否則回傳 {}
// @Tags        auth
// @Produce     json
// @Success     200 {object} api.SessionResponse
// @Router      /auth/session [get]
func SessionHandler(rdb cache.Cache, cfg service.SessionConfig) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, ok, err := resolveSession(c.Request().Context(), c, rdb, cfg)
		if err != nil {
			c.Logger().Errorf("resolve session: %v", err)
		}
		if !ok {
			return c.JSON(http.StatusOK, api.SessionResponse{})
		}
		return c.JSON(http.StatusOK, api.SessionResponse{
			User: &api.SessionUser{ID: id.UserID, Name: id.Name, Email: id.Email},
		})
	}
}
