// File: internal/service/authentication.go
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"issue-tracker/internal/cache"
	"issue-tracker/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/xid"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidSession     = errors.New("invalid session")
)

var (
	timeNow         = time.Now
	newSessionID    = func() string { return xid.New().String() }
	parseWithClaims = jwt.ParseWithClaims
)

// SessionConfig 描述 session token 與 cookie 的設定
type SessionConfig struct {
	Secret       string
	TTL          time.Duration
	CookieName   string
	CookieSecure bool
}

// SessionClaims 定義 session JWT 負載；Subject 為使用者 ID，ID (jti) 為 session ID
type SessionClaims struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// SessionKey 回傳 session 在 Redis 中的鍵
func SessionKey(sessionID string) string {
	return "session:" + sessionID
}

// AuthenticateUser 以明文密碼比對使用者；沒有密碼雜湊的帳號一律拒絕
func AuthenticateUser(user *model.User, password string) error {
	if user == nil || user.PasswordHash == nil {
		return ErrInvalidCredentials
	}
	if err := ComparePassword(*user.PasswordHash, password); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// IssueSession 簽發 session JWT 並在 Redis 登記 session:<jti>
func IssueSession(ctx context.Context, c cache.Cache, cfg SessionConfig, user model.User) (string, *SessionClaims, error) {
	if cfg.Secret == "" {
		return "", nil, fmt.Errorf("IssueSession: session secret not set")
	}

	now := timeNow()
	claims := &SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        newSessionID(),
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.TTL)),
		},
	}
	if user.Name != nil {
		claims.Name = *user.Name
	}
	if user.Email != nil {
		claims.Email = *user.Email
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.Secret))
	if err != nil {
		return "", nil, fmt.Errorf("IssueSession: %w", err)
	}
	if err := c.Set(ctx, SessionKey(claims.ID), user.ID, cfg.TTL).Err(); err != nil {
		return "", nil, fmt.Errorf("IssueSession: %w", err)
	}
	return token, claims, nil
}

// VerifySession 驗證 JWT 簽章與期限，並確認 Redis 中的 session 仍存在
func VerifySession(ctx context.Context, c cache.Cache, cfg SessionConfig, tokenString string) (*SessionClaims, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("VerifySession: session secret not set")
	}

	token, err := parseWithClaims(tokenString, &SessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(cfg.Secret), nil
	}, jwt.WithTimeFunc(timeNow))
	if err != nil {
		return nil, fmt.Errorf("VerifySession: %w: %v", ErrInvalidSession, err)
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid || claims.ID == "" || claims.Subject == "" {
		return nil, ErrInvalidSession
	}

	userID, err := c.Get(ctx, SessionKey(claims.ID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrInvalidSession
	}
	if err != nil {
		return nil, fmt.Errorf("VerifySession: %w", err)
	}
	if userID != claims.Subject {
		return nil, ErrInvalidSession
	}
	return claims, nil
}

// RevokeSession 刪除 session 鍵；不存在時不視為錯誤
func RevokeSession(ctx context.Context, c cache.Cache, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := c.Del(ctx, SessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("RevokeSession: %w", err)
	}
	return nil
}
