// Package config 從環境變數與可選的 .env 檔讀取服務設定
package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 為服務啟動所需的全部設定
type Config struct {
	HTTPAddr      string
	DatabaseURL   string
	Redis         RedisConfig
	Session       SessionConfig
	WorkerCount   int
	LogLevel      string
	Debug         bool
	UsersCacheTTL time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type SessionConfig struct {
	Secret       string
	TTL          time.Duration
	CookieName   string
	CookieSecure bool
}

// MinSecretLength 是 SESSION_SECRET 的最短長度
const MinSecretLength = 16

var dotenvLoad = godotenv.Load

// Load 先讀取 envFiles（不存在時略過），再以環境變數覆寫預設值
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		_ = dotenvLoad(f)
	}

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("REDIS_DB", "0")
	v.SetDefault("SESSION_TTL", "720h")
	v.SetDefault("SESSION_COOKIE", "issue_tracker_session")
	v.SetDefault("COOKIE_SECURE", false)
	v.SetDefault("WORKER_COUNT", "1")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DEBUG", false)
	v.SetDefault("USERS_CACHE_TTL", "30s")

	var errs []error
	required := func(key string) string {
		s := strings.TrimSpace(v.GetString(key))
		if s == "" {
			errs = append(errs, fmt.Errorf("%s is required", key))
		}
		return s
	}
	integer := func(key string) int {
		n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
		if err != nil {
			errs = append(errs, fmt.Errorf("%s must be an integer", key))
		}
		return n
	}
	duration := func(key string) time.Duration {
		d, err := time.ParseDuration(strings.TrimSpace(v.GetString(key)))
		if err != nil || d <= 0 {
			errs = append(errs, fmt.Errorf("%s must be a positive duration", key))
		}
		return d
	}

	cfg := &Config{
		HTTPAddr:    v.GetString("HTTP_ADDR"),
		DatabaseURL: required("DATABASE_URL"),
		Redis: RedisConfig{
			Addr:     required("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       integer("REDIS_DB"),
		},
		Session: SessionConfig{
			Secret:       required("SESSION_SECRET"),
			TTL:          duration("SESSION_TTL"),
			CookieName:   v.GetString("SESSION_COOKIE"),
			CookieSecure: v.GetBool("COOKIE_SECURE"),
		},
		WorkerCount:   integer("WORKER_COUNT"),
		LogLevel:      strings.ToLower(v.GetString("LOG_LEVEL")),
		Debug:         v.GetBool("DEBUG"),
		UsersCacheTTL: duration("USERS_CACHE_TTL"),
	}

	if cfg.Session.Secret != "" && len(cfg.Session.Secret) < MinSecretLength {
		errs = append(errs, fmt.Errorf("SESSION_SECRET must be at least %d characters", MinSecretLength))
	}
	if cfg.WorkerCount <= 0 {
		errs = append(errs, errors.New("WORKER_COUNT must be greater than zero"))
	}
	if cfg.Session.CookieName == "" {
		errs = append(errs, errors.New("SESSION_COOKIE must not be empty"))
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error", "off":
	default:
		errs = append(errs, fmt.Errorf("LOG_LEVEL %q is not one of debug, info, warn, error, off", cfg.LogLevel))
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return cfg, nil
}
