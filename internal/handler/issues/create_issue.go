// File: internal/handler/issues/create_issue.go
package issues

import (
	"net/http"

	"issue-tracker/internal/api"
	"issue-tracker/internal/database"
	"issue-tracker/internal/handler"
	"issue-tracker/internal/model"

	"github.com/labstack/echo/v4"
)

// CreateIssueHandler 建立 issue
// @Summary     Create an issue
// @Description 驗證 title (1–255 字)、description (必填) 與可選的 assigneeId；指派對象不存在時回傳 400
// @Tags        issues
// @Accept      json
// @Produce     json
// @Param       body body     api.CreateIssueRequest true "新 issue"
// @Success     201  {object} api.IssueResponse
// @Failure     400  {object} api.ErrorResponse
// @Failure     500  {object} api.ErrorResponse
// @Router      /issues [post]
func CreateIssueHandler(db database.DB, rec EventRecorder) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.CreateIssueRequest
		if err := c.Bind(&req); err != nil {
			return handler.Fail(c, http.StatusBadRequest, handler.MsgInvalidBody)
		}
		in, err := validateCreate(req)
		if err != nil {
			return handler.ValidationFailed(c, err)
		}

		ctx := c.Request().Context()
		if ok, err := checkAssignee(ctx, c, db, in.AssigneeID); !ok {
			return err
		}

		created, err := createIssue(ctx, db, model.NewIssue{
			Title:       in.Title,
			Description: in.Description,
			AssignedTo:  in.AssigneeID,
		})
		if err != nil {
			return writeFailure(c, err)
		}

		recordMutation(rec, c, created.ID, model.IssueActionCreated)
		return c.JSON(http.StatusCreated, api.NewIssueResponse(*created))
	}
}
