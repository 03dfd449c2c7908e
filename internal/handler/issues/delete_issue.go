// File: internal/handler/issues/delete_issue.go
package issues

import (
	"net/http"

	"issue-tracker/internal/api"
	"issue-tracker/internal/database"
	"issue-tracker/internal/handler"
	"issue-tracker/internal/model"

	"github.com/labstack/echo/v4"
)

// DeleteIssueHandler 刪除 issue
// @Summary     Delete an issue
// @Description 刪除指定 issue；不存在時回傳 404
// @Tags        issues
// @Produce     json
// @Param       id  path     int true "Issue ID"
// @Success     200 {object} api.OKResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Router      /issues/{id} [delete]
func DeleteIssueHandler(db database.DB, rec EventRecorder) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, ok := parseID(c)
		if !ok {
			return handler.Fail(c, http.StatusBadRequest, handler.MsgInvalidID)
		}
		if err := deleteIssue(c.Request().Context(), db, id); err != nil {
			return writeFailure(c, err)
		}
		recordMutation(rec, c, id, model.IssueActionDeleted)
		return c.JSON(http.StatusOK, api.OKResponse{OK: true})
	}
}
