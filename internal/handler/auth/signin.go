// File: internal/handler/auth/signin.go
package auth

import (
	"errors"
	"net/http"
	"strings"

	"issue-tracker/internal/api"
	"issue-tracker/internal/cache"
	"issue-tracker/internal/database"
	"issue-tracker/internal/handler"
	"issue-tracker/internal/metrics"
	"issue-tracker/internal/service"
	"issue-tracker/internal/store"

	"github.com/labstack/echo/v4"
)

// SignInHandler 以 Email/Password 登入並設定 session cookie
// @Summary     Sign in
// @Description 驗證帳號密碼，成功後簽發 session (HttpOnly cookie) 並回傳使用者資訊
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       body body     api.SignInRequest true "登入資料"
// @Success     200  {object} api.SignInResponse
// @Failure     400  {object} api.ErrorResponse
// @Failure     401  {object} api.ErrorResponse
// @Failure     500  {object} api.ErrorResponse
// @Router      /auth/signin [post]
func SignInHandler(db database.DB, rdb cache.Cache, cfg service.SessionConfig) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.SignInRequest
		if err := c.Bind(&req); err != nil {
			return handler.Fail(c, http.StatusBadRequest, handler.MsgInvalidBody)
		}
		if err := c.Validate(&req); err != nil {
			return handler.ValidationFailed(c, err)
		}

		ctx := c.Request().Context()
		user, err := getUserByEmail(ctx, db, strings.ToLower(strings.TrimSpace(req.Email)))
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				metrics.AuthAttempts.WithLabelValues("signin_failed").Inc()
				return handler.Fail(c, http.StatusUnauthorized, MsgInvalidCredentials)
			}
			return handler.InternalError(c, err)
		}
		if err := authenticateUser(user, req.Password); err != nil {
			metrics.AuthAttempts.WithLabelValues("signin_failed").Inc()
			return handler.Fail(c, http.StatusUnauthorized, MsgInvalidCredentials)
		}

		token, claims, err := issueSession(ctx, rdb, cfg, *user)
		if err != nil {
			return handler.InternalError(c, err)
		}
		c.SetCookie(sessionCookie(cfg, token, claims.ExpiresAt.Time))

		metrics.AuthAttempts.WithLabelValues("signin_ok").Inc()
		return c.JSON(http.StatusOK, api.SignInResponse{
			OK:   true,
			User: api.SessionUser{ID: user.ID, Name: claims.Name, Email: claims.Email},
		})
	}
}
