// File: internal/handler/issues/update_issue.go
package issues

import (
	"net/http"

	"issue-tracker/internal/api"
	"issue-tracker/internal/database"
	"issue-tracker/internal/handler"
	"issue-tracker/internal/model"

	"github.com/labstack/echo/v4"
)

// UpdateIssueHandler 部分更新 issue
// @Summary     Update an issue
// @Description 只更新送出的欄位；description 為空字串或 null 時清空，assigneeId 為空字串或 null 時取消指派
// @Tags        issues
// @Accept      json
// @Produce     json
// @Param       id   path     int                     true "Issue ID"
// @Param       body body     api.UpdateIssueRequest  true "要更新的欄位"
// @Success     200  {object} api.IssueResponse
// @Failure     400  {object} api.ErrorResponse
// @Failure     404  {object} api.ErrorResponse
// @Failure     500  {object} api.ErrorResponse
// @Router      /issues/{id} [patch]
func UpdateIssueHandler(db database.DB, rec EventRecorder) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, ok := parseID(c)
		if !ok {
			return handler.Fail(c, http.StatusBadRequest, handler.MsgInvalidID)
		}

		var req api.UpdateIssueRequest
		if err := c.Bind(&req); err != nil {
			return handler.Fail(c, http.StatusBadRequest, handler.MsgInvalidBody)
		}
		in, err := validateUpdate(req)
		if err != nil {
			return handler.ValidationFailed(c, err)
		}

		ctx := c.Request().Context()
		if in.SetAssignee {
			if ok, err := checkAssignee(ctx, c, db, in.AssigneeID); !ok {
				return err
			}
		}

		patch := model.IssuePatch{
			Title:          in.Title,
			SetDescription: in.SetDescription,
			Description:    in.Description,
			Status:         in.Status,
			SetAssignee:    in.SetAssignee,
			AssignedTo:     in.AssigneeID,
		}
		// 空字串的 description 存成 NULL
		if patch.Description != nil && *patch.Description == "" {
			patch.Description = nil
		}

		updated, err := updateIssue(ctx, db, id, patch)
		if err != nil {
			return writeFailure(c, err)
		}

		recordMutation(rec, c, updated.ID, model.IssueActionUpdated)
		return c.JSON(http.StatusOK, api.NewIssueResponse(*updated))
	}
}
