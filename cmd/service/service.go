// @title        Issue Tracker API
// @version      1.0
// @description  Issue Tracker 的 JSON API；除 /auth/* 與 /register 外都需要 session cookie
// @host         localhost:8080
// @BasePath     /api
// @securityDefinitions.apikey SessionCookie
// @in cookie
// @name issue_tracker_session
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"issue-tracker/internal/cache"
	"issue-tracker/internal/config"
	"issue-tracker/internal/database"
	"issue-tracker/internal/handler/pages"
	"issue-tracker/internal/metrics"
	"issue-tracker/internal/router"
	"issue-tracker/internal/service"
	"issue-tracker/internal/validation"
	"issue-tracker/internal/worker"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	glog "github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus"

	_ "issue-tracker/docs" // 引入 swag 產出的 docs
)

const (
	pingTimeout     = 5 * time.Second
	shutdownTimeout = 10 * time.Second
)

var (
	loadConfig      = func() (*config.Config, error) { return config.Load() }
	newPgxPool      = database.NewPgxPool
	newRedisClient  = cache.NewRedisClient
	runMigrationsFn = database.RunMigrations
	startServer     = serve
	newWorkerPool   = worker.NewPool
	exitFunc        = os.Exit
	registerMetrics = sync.OnceFunc(func() { metrics.RegisterCollectors(prometheus.DefaultRegisterer) })
)

// serve 啟動 HTTP 服務，收到 SIGINT/SIGTERM 時優雅關閉
func serve(e *echo.Echo, addr string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- e.Start(addr) }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func logLevel(s string) glog.Lvl {
	switch s {
	case "debug":
		return glog.DEBUG
	case "warn":
		return glog.WARN
	case "error":
		return glog.ERROR
	case "off":
		return glog.OFF
	}
	return glog.INFO
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	db, err := newPgxPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("DB 連線失敗: %w", err)
	}
	defer db.Close()

	pingCtx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	err = db.Ping(pingCtx)
	cancel()
	if err != nil {
		return fmt.Errorf("DB 連線失敗: %w", err)
	}

	rdb, err := newRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return fmt.Errorf("Redis 連線失敗: %w", err)
	}
	defer rdb.Close()

	if err := runMigrationsFn(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("Migration 執行失敗: %w", err)
	}

	renderer, err := pages.NewRenderer()
	if err != nil {
		return err
	}

	wp := newWorkerPool(cfg.WorkerCount)
	defer wp.Stop()

	e := echo.New()
	e.HideBanner = true
	e.Debug = cfg.Debug
	e.Logger.SetLevel(logLevel(cfg.LogLevel))
	e.Validator = validation.EchoValidator{}
	e.Renderer = renderer
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	registerMetrics()

	router.Setup(e, db, rdb, router.Options{
		Session: service.SessionConfig{
			Secret:       cfg.Session.Secret,
			TTL:          cfg.Session.TTL,
			CookieName:   cfg.Session.CookieName,
			CookieSecure: cfg.Session.CookieSecure,
		},
		UsersCacheTTL: cfg.UsersCacheTTL,
		Recorder:      worker.NewEventRecorder(wp, db, e.Logger),
	})

	return startServer(e, cfg.HTTPAddr)
}

func main() {
	if err := run(); err != nil {
		log.Print(err)
		exitFunc(1)
	}
}
