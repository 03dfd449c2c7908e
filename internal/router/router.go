// File: internal/router/router.go
package router

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"

	"issue-tracker/internal/cache"
	"issue-tracker/internal/database"
	"issue-tracker/internal/handler"
	"issue-tracker/internal/handler/auth"
	"issue-tracker/internal/handler/issues"
	"issue-tracker/internal/handler/pages"
	"issue-tracker/internal/handler/users"
	"issue-tracker/internal/middleware"
	"issue-tracker/internal/service"
)

// Options 是註冊路由所需的設定與相依元件
type Options struct {
	Session       service.SessionConfig
	UsersCacheTTL time.Duration
	Recorder      issues.EventRecorder
}

// Setup 註冊所有路由與中介層
func Setup(e *echo.Echo, db database.DB, rdb cache.Cache, opts Options) {
	e.Use(middleware.Metrics)
	requireSession := middleware.RequireSession(rdb, opts.Session)

	// 公開：靜態檔、文件、指標、登入與註冊
	e.StaticFS("/static", pages.StaticFS())
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/signin", pages.SignInPageHandler(rdb, opts.Session))
	e.GET("/signup", pages.SignUpPageHandler(rdb, opts.Session))

	api := e.Group("/api")
	api.POST("/register", auth.RegisterHandler(db, rdb))
	api.POST("/auth/signin", auth.SignInHandler(db, rdb, opts.Session))
	api.POST("/auth/signout", auth.SignOutHandler(rdb, opts.Session))
	api.GET("/auth/session", auth.SessionHandler(rdb, opts.Session))

	// 需登入的 API
	protected := api.Group("", requireSession)
	protected.GET("/ping", handler.PingHandler(db, rdb))
	protected.GET("/users", users.ListUsersHandler(db, rdb, opts.UsersCacheTTL))
	protected.GET("/issues", issues.ListIssuesHandler(db))
	protected.POST("/issues", issues.CreateIssueHandler(db, opts.Recorder))
	protected.GET("/issues/:id", issues.GetIssueHandler(db))
	protected.PATCH("/issues/:id", issues.UpdateIssueHandler(db, opts.Recorder))
	protected.DELETE("/issues/:id", issues.DeleteIssueHandler(db, opts.Recorder))
	protected.GET("/issues/:id/events", issues.ListIssueEventsHandler(db))

	// 需登入的頁面
	site := e.Group("", requireSession)
	site.GET("/", pages.DashboardHandler(db))
	site.GET("/issues", pages.IssuesPageHandler(db))
	site.GET("/issues/new", pages.NewIssuePageHandler())
	site.GET("/issues/:id", pages.IssueDetailHandler(db))
	site.GET("/issues/:id/edit", pages.EditIssuePageHandler(db))
}
