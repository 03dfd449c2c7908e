package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"issue-tracker/internal/cache"
	"issue-tracker/internal/service"

	"github.com/labstack/echo/v4"
)

const ContextIdentityKey = "identity"

// SignInPath 是未登入時導向的頁面
const SignInPath = "/signin"

// Identity 是已驗證請求的身分，由 RequireSession 放入 context
type Identity struct {
	UserID    string
	Name      string
	Email     string
	SessionID string
}

var verifySession = service.VerifySession

// ResolveSession 讀取 session cookie 並驗證；沒有有效 session 時回傳 false
func ResolveSession(ctx context.Context, c echo.Context, store cache.Cache, cfg service.SessionConfig) (Identity, bool, error) {
	cookie, err := c.Cookie(cfg.CookieName)
	if err != nil || cookie.Value == "" {
		return Identity{}, false, nil
	}
	claims, err := verifySession(ctx, store, cfg, cookie.Value)
	if err != nil {
		if errors.Is(err, service.ErrInvalidSession) {
			return Identity{}, false, nil
		}
		return Identity{}, false, err
	}
	return Identity{
		UserID:    claims.Subject,
		Name:      claims.Name,
		Email:     claims.Email,
		SessionID: claims.ID,
	}, true, nil
}

// RequireSession 將未登入的請求導向 /signin?callbackUrl=<原路徑>
func RequireSession(store cache.Cache, cfg service.SessionConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok, err := ResolveSession(c.Request().Context(), c, store, cfg)
			if err != nil {
				c.Logger().Errorf("resolve session: %v", err)
				return echo.NewHTTPError(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
			}
			if !ok {
				target := SignInPath + "?callbackUrl=" + url.QueryEscape(c.Request().URL.RequestURI())
				return c.Redirect(http.StatusFound, target)
			}
			c.Set(ContextIdentityKey, id)
			return next(c)
		}
	}
}

// CurrentIdentity 取出 RequireSession 設定的身分
func CurrentIdentity(c echo.Context) (Identity, bool) {
	id, ok := c.Get(ContextIdentityKey).(Identity)
	return id, ok
}
