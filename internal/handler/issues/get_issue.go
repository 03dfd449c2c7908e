// File: internal/handler/issues/get_issue.go
package issues

import (
	"errors"
	"net/http"

	"issue-tracker/internal/api"
	"issue-tracker/internal/database"
	"issue-tracker/internal/handler"
	"issue-tracker/internal/store"

	"github.com/labstack/echo/v4"
)

// ListIssuesHandler 列出所有 issue
// @Summary     List issues
// @Description 依建立時間由新到舊回傳全部 issue，含指派對象摘要；不做伺服器端篩選或分頁
// @Tags        issues
// @Produce     json
// @Success     200 {array}  api.IssueResponse
// @Failure     500 {object} api.ErrorResponse
// @Router      /issues [get]
func ListIssuesHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		list, err := listIssues(c.Request().Context(), db)
		if err != nil {
			return handler.InternalError(c, err)
		}
		resp := make([]api.IssueResponse, 0, len(list))
		for _, iss := range list {
			resp = append(resp, api.NewIssueResponse(iss))
		}
		return c.JSON(http.StatusOK, resp)
	}
}

// GetIssueHandler 取得單一 issue
// @Summary     Get an issue
// @Description 依 ID 取得 issue
// @Tags        issues
// @Produce     json
// @Param       id  path     int true "Issue ID"
// @Success     200 {object} api.IssueResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Router      /issues/{id} [get]
func GetIssueHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, ok := parseID(c)
		if !ok {
			return handler.Fail(c, http.StatusBadRequest, handler.MsgInvalidID)
		}
		iss, err := getIssueByID(c.Request().Context(), db, id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return handler.Fail(c, http.StatusNotFound, handler.MsgIssueNotFound)
			}
			return handler.InternalError(c, err)
		}
		return c.JSON(http.StatusOK, api.NewIssueResponse(*iss))
	}
}

// ListIssueEventsHandler 取得 issue 異動紀錄
// @Summary     List issue events
// @Description 回傳指定 issue 的異動紀錄，新的在前；issue 刪除後紀錄仍可查詢
// @Tags        issues
// @Produce     json
// @Param       id  path     int true "Issue ID"
// @Success     200 {array}  api.IssueEventResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Router      /issues/{id}/events [get]
func ListIssueEventsHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, ok := parseID(c)
		if !ok {
			return handler.Fail(c, http.StatusBadRequest, handler.MsgInvalidID)
		}
		events, err := listIssueEvents(c.Request().Context(), db, id)
		if err != nil {
			return handler.InternalError(c, err)
		}
		resp := make([]api.IssueEventResponse, 0, len(events))
		for _, e := range events {
			resp = append(resp, api.NewIssueEventResponse(e))
		}
		return c.JSON(http.StatusOK, resp)
	}
}
