// File: internal/handler/auth/auth.go
package auth

import (
	"net/http"
	"time"

	"issue-tracker/internal/handler/users"
	"issue-tracker/internal/middleware"
	"issue-tracker/internal/service"
	"issue-tracker/internal/store"
)

const (
	MsgEmailInUse         = "Email already in use"
	MsgInvalidCredentials = "Invalid credentials"
)

var (
	getUserByEmail   = store.GetUserByEmail
	createUser       = store.CreateUser
	hashPassword     = service.HashPassword
	authenticateUser = service.AuthenticateUser
	issueSession     = service.IssueSession
	revokeSession    = service.RevokeSession
	resolveSession   = middleware.ResolveSession
	invalidateUsers  = users.InvalidateCache
)

func sessionCookie(cfg service.SessionConfig, token string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     cfg.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		MaxAge:   int(cfg.TTL.Seconds()),
		HttpOnly: true,
		Secure:   cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
}

func expiredCookie(cfg service.SessionConfig) *http.Cookie {
	return &http.Cookie{
		Name:     cfg.CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
}
