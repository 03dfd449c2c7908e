// File: internal/handler/users/users.go
package users

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"issue-tracker/internal/api"
	"issue-tracker/internal/cache"
	"issue-tracker/internal/database"
	"issue-tracker/internal/handler"
	"issue-tracker/internal/store"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// CacheKey 是使用者清單在 Redis 中的快取鍵
const CacheKey = "users:list"

var listUsers = store.ListUsers

// InvalidateCache 清除使用者清單快取，註冊新帳號後呼叫
func InvalidateCache(ctx context.Context, rdb cache.Cache) error {
	return rdb.Del(ctx, CacheKey).Err()
}

func cached(ctx context.Context, rdb cache.Cache) ([]api.UserResponse, bool, error) {
	raw, err := rdb.Get(ctx, CacheKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var list []api.UserResponse
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, false, err
	}
	return list, true, nil
}

// ListUsersHandler 列出可指派的使用者
// @Summary     List users
// @Description 依名稱排序回傳所有使用者 (id, name, email, image)，結果會短暫快取於 Redis
// @Tags        users
// @Produce     json
// @Success     200 {array}  api.UserResponse
// @Failure     500 {object} api.ErrorResponse
// @Router      /users [get]
func ListUsersHandler(db database.DB, rdb cache.Cache, ttl time.Duration) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		list, hit, err := cached(ctx, rdb)
		if err != nil {
			c.Logger().Warnf("read users cache: %v", err)
		}
		if hit {
			return c.JSON(http.StatusOK, list)
		}

		users, err := listUsers(ctx, db)
		if err != nil {
			return handler.InternalError(c, err)
		}
		list = make([]api.UserResponse, 0, len(users))
		for _, u := range users {
			list = append(list, api.UserResponse{ID: u.ID, Name: u.Name, Email: u.Email, Image: u.Image})
		}

		if raw, err := json.Marshal(list); err == nil {
			if err := rdb.Set(ctx, CacheKey, raw, ttl).Err(); err != nil {
				c.Logger().Warnf("write users cache: %v", err)
			}
		}
		return c.JSON(http.StatusOK, list)
	}
}
