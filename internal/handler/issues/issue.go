// File: internal/handler/issues/issue.go
package issues

import (
	"context"
	"errors"
	"net/http"

	"issue-tracker/internal/database"
	"issue-tracker/internal/handler"
	"issue-tracker/internal/metrics"
	"issue-tracker/internal/middleware"
	"issue-tracker/internal/model"
	"issue-tracker/internal/store"
	"issue-tracker/internal/validation"

	"github.com/labstack/echo/v4"
)

// EventRecorder 接收成功的 issue 異動
type EventRecorder interface {
	Record(issueID int, actorID string, action model.IssueAction)
}

var (
	getIssueByID    = store.GetIssueByID
	listIssues      = store.ListIssues
	createIssue     = store.CreateIssue
	updateIssue     = store.UpdateIssue
	deleteIssue     = store.DeleteIssue
	listIssueEvents = store.ListIssueEvents
	getUserByID     = store.GetUserByID

	validateCreate = validation.ValidateCreateIssue
	validateUpdate = validation.ValidateUpdateIssue
)

// parseID 只接受正整數的路徑參數
func parseID(c echo.Context) (int, bool) {
	return handler.ParseID(c.Param("id"))
}

func actorID(c echo.Context) string {
	if id, ok := middleware.CurrentIdentity(c); ok {
		return id.UserID
	}
	return ""
}

// checkAssignee 確認指派對象存在；回傳 false 時已寫出回應
func checkAssignee(ctx context.Context, c echo.Context, db database.DB, assigneeID *string) (bool, error) {
	if assigneeID == nil {
		return true, nil
	}
	if _, err := getUserByID(ctx, db, *assigneeID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, handler.Fail(c, http.StatusBadRequest, handler.MsgAssigneeNotFound)
		}
		return false, handler.InternalError(c, err)
	}
	return true, nil
}

// writeFailure 對應 store 寫入錯誤：issue 消失為 404，指派對象消失為 400
func writeFailure(c echo.Context, err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return handler.Fail(c, http.StatusNotFound, handler.MsgIssueNotFound)
	case errors.Is(err, store.ErrAssigneeNotFound):
		return handler.Fail(c, http.StatusBadRequest, handler.MsgAssigneeNotFound)
	}
	return handler.InternalError(c, err)
}

func recordMutation(rec EventRecorder, c echo.Context, issueID int, action model.IssueAction) {
	metrics.IssueMutations.WithLabelValues(string(action)).Inc()
	if rec != nil {
		rec.Record(issueID, actorID(c), action)
	}
}
