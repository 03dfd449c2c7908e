// File: internal/handler/pages/pages.go
package pages

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"issue-tracker/internal/cache"
	"issue-tracker/internal/database"
	"issue-tracker/internal/handler"
	"issue-tracker/internal/middleware"
	"issue-tracker/internal/model"
	"issue-tracker/internal/service"
	"issue-tracker/internal/store"

	"github.com/labstack/echo/v4"
)

// RecentLimit 是儀表板顯示的最新 issue 數量
const RecentLimit = 5

var (
	listIssues     = store.ListIssues
	getIssueByID   = store.GetIssueByID
	resolveSession = middleware.ResolveSession
)

// Page 是所有頁面共用的資料
type Page struct {
	Title    string
	Identity *middleware.Identity
}

// Summary 是儀表板上的統計數字
type Summary struct {
	Total      int
	Open       int
	InProgress int
	Closed     int
	Unassigned int
}

// Percent 回傳 n 佔全部的百分比，總數為 0 時回傳 0
func (s Summary) Percent(n int) int {
	if s.Total == 0 {
		return 0
	}
	return n * 100 / s.Total
}

func summarize(list []model.Issue) Summary {
	var s Summary
	for _, iss := range list {
		s.Total++
		switch iss.Status {
		case model.IssueStatusOpen:
			s.Open++
		case model.IssueStatusInProgress:
			s.InProgress++
		case model.IssueStatusClosed:
			s.Closed++
		}
		if iss.AssignedTo == nil {
			s.Unassigned++
		}
	}
	return s
}

func newPage(c echo.Context, title string) Page {
	p := Page{Title: title}
	if id, ok := middleware.CurrentIdentity(c); ok {
		p.Identity = &id
	}
	return p
}

type dashboardData struct {
	Page
	Summary Summary
	Recent  []model.Issue
}

// DashboardHandler 顯示統計與最新的 issue
func DashboardHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		list, err := listIssues(c.Request().Context(), db)
		if err != nil {
			return handler.InternalError(c, err)
		}
		recent := list
		if len(recent) > RecentLimit {
			recent = recent[:RecentLimit]
		}
		return c.Render(http.StatusOK, "dashboard.html", dashboardData{
			Page:    newPage(c, "Dashboard"),
			Summary: summarize(list),
			Recent:  recent,
		})
	}
}

type issuesData struct {
	Page
	Issues   []model.Issue
	Statuses []model.IssueStatus
}

var statuses = []model.IssueStatus{model.IssueStatusOpen, model.IssueStatusInProgress, model.IssueStatusClosed}

// IssuesPageHandler 輸出全部 issue，排序、篩選與分頁在瀏覽器端進行
func IssuesPageHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		list, err := listIssues(c.Request().Context(), db)
		if err != nil {
			return handler.InternalError(c, err)
		}
		return c.Render(http.StatusOK, "issues.html", issuesData{
			Page:     newPage(c, "Issues"),
			Issues:   list,
			Statuses: statuses,
		})
	}
}

type issueData struct {
	Page
	Issue    model.Issue
	Statuses []model.IssueStatus
	Edit     bool
}

func notFound(c echo.Context) error {
	return c.Render(http.StatusNotFound, "not_found.html", newPage(c, "Not found"))
}

// loadIssue 讀取路徑上的 issue；無效或不存在的 ID 輸出 404 頁
func loadIssue(c echo.Context, db database.DB) (*model.Issue, error) {
	id, ok := handler.ParseID(c.Param("id"))
	if !ok {
		return nil, notFound(c)
	}
	iss, err := getIssueByID(c.Request().Context(), db, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, notFound(c)
		}
		return nil, handler.InternalError(c, err)
	}
	return iss, nil
}

// IssueDetailHandler 顯示單一 issue 與刪除按鈕
func IssueDetailHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		iss, err := loadIssue(c, db)
		if iss == nil {
			return err
		}
		return c.Render(http.StatusOK, "issue.html", issueData{Page: newPage(c, iss.Title), Issue: *iss})
	}
}

// NewIssuePageHandler 顯示新增表單
func NewIssuePageHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.Render(http.StatusOK, "issue_form.html", issueData{
			Page:     newPage(c, "New issue"),
			Statuses: statuses,
		})
	}
}

// EditIssuePageHandler 顯示編輯表單，指派對象選單由瀏覽器向 /api/users 取得
func EditIssuePageHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		iss, err := loadIssue(c, db)
		if iss == nil {
			return err
		}
		return c.Render(http.StatusOK, "issue_form.html", issueData{
			Page:     newPage(c, "Edit issue"),
			Issue:    *iss,
			Statuses: statuses,
			Edit:     true,
		})
	}
}

type authData struct {
	Page
	CallbackURL string
}

// safeCallback 只允許站內路徑，避免開放式導向
func safeCallback(raw string) string {
	// 瀏覽器解析 URL 時會移除 tab/CR/LF，"/\t/evil" 會變成 "//evil"
	if strings.IndexFunc(raw, func(r rune) bool { return r < 0x20 || r == 0x7f }) >= 0 {
		return "/"
	}
	if !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") || strings.HasPrefix(raw, "/\\") {
		return "/"
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return "/"
	}
	return raw
}

func authPage(rdb cache.Cache, cfg service.SessionConfig, name, title string) echo.HandlerFunc {
	return func(c echo.Context) error {
		callback := safeCallback(c.QueryParam("callbackUrl"))
		if _, ok, err := resolveSession(c.Request().Context(), c, rdb, cfg); err == nil && ok {
			return c.Redirect(http.StatusFound, callback)
		}
		return c.Render(http.StatusOK, name, authData{Page: Page{Title: title}, CallbackURL: callback})
	}
}

// SignInPageHandler 顯示登入表單；已登入時直接導向 callbackUrl
func SignInPageHandler(rdb cache.Cache, cfg service.SessionConfig) echo.HandlerFunc {
	return authPage(rdb, cfg, "signin.html", "Sign in")
}

// SignUpPageHandler 顯示註冊表單
func SignUpPageHandler(rdb cache.Cache, cfg service.SessionConfig) echo.HandlerFunc {
	return authPage(rdb, cfg, "signup.html", "Sign up")
}
