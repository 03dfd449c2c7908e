// File: internal/handler/auth/register.go
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
	"issue-tracker/internal/model"
	"issue-tracker/internal/store"

	"github.com/labstack/echo/v4"
)

// RegisterHandler 建立新帳號
// @Summary     Register
// @Description 驗證 name、email 與 password (至少 6 字元)，Email 已存在時回傳 400；密碼以 bcrypt 儲存
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       body body     api.RegisterRequest true "註冊資料"
// @Success     200  {object} api.OKResponse
// @Failure     400  {object} api.ErrorResponse
// @Failure     500  {object} api.ErrorResponse
// @Router      /register [post]
func RegisterHandler(db database.DB, rdb cache.Cache) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.RegisterRequest
		if err := c.Bind(&req); err != nil {
			return handler.Fail(c, http.StatusBadRequest, handler.MsgInvalidBody)
		}
		if err := c.Validate(&req); err != nil {
			metrics.AuthAttempts.WithLabelValues("register_invalid").Inc()
			return handler.ValidationFailed(c, err)
		}

		ctx := c.Request().Context()
		email := strings.ToLower(strings.TrimSpace(req.Email))

		_, err := getUserByEmail(ctx, db, email)
		switch {
		case err == nil:
			metrics.AuthAttempts.WithLabelValues("register_rejected").Inc()
			return handler.Fail(c, http.StatusBadRequest, MsgEmailInUse)
		case !errors.Is(err, store.ErrNotFound):
			return handler.InternalError(c, err)
		}

		hash, err := hashPassword(req.Password)
		if err != nil {
			return handler.InternalError(c, err)
		}

		name := req.Name
		if _, err := createUser(ctx, db, &model.User{
			Name:         &name,
			Email:        &email,
			PasswordHash: &hash,
		}); err != nil {
			if errors.Is(err, store.ErrEmailTaken) {
				metrics.AuthAttempts.WithLabelValues("register_rejected").Inc()
				return handler.Fail(c, http.StatusBadRequest, MsgEmailInUse)
			}
			return handler.InternalError(c, err)
		}

		if err := invalidateUsers(ctx, rdb); err != nil {
			c.Logger().Warnf("invalidate users cache: %v", err)
		}
		metrics.AuthAttempts.WithLabelValues("register_ok").Inc()
		return c.JSON(http.StatusOK, api.OKResponse{OK: true})
	}
}
