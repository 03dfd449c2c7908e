package handler

import (
	"errors"
	"net/http"
	"strconv"

	"issue-tracker/internal/api"
	"issue-tracker/internal/validation"

	"github.com/labstack/echo/v4"
)

const (
	MsgInternal         = "Internal Server Error"
	MsgInvalidBody      = "Invalid JSON body"
	MsgInvalidID        = "Invalid id"
	MsgIssueNotFound    = "Issue not found"
	MsgAssigneeNotFound = "Assignee not found"
)

// ParseID 只接受可放進 int4 (SERIAL) 欄位的正整數字串
func ParseID(raw string) (int, bool) {
	if raw == "" {
		return 0, false
	}
	for _, r := range raw {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || id <= 0 {
		return 0, false
	}
	return int(id), true
}

// InternalError 記錄錯誤並回傳不含細節的 500
func InternalError(c echo.Context, err error) error {
	c.Logger().Errorf("%s %s: %v", c.Request().Method, c.Path(), err)
	return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: MsgInternal})
}

// Fail 回傳 {"error": msg}
func Fail(c echo.Context, status int, msg string) error {
	return c.JSON(status, api.ErrorResponse{Error: msg})
}

// ValidationFailed 將 *validation.Error 轉成 400；其他錯誤視為內部錯誤
func ValidationFailed(c echo.Context, err error) error {
	var verr *validation.Error
	if errors.As(err, &verr) {
		return c.JSON(http.StatusBadRequest, api.ErrorResponse{
			Error:   validation.MsgValidationFailed,
			Details: verr.Details(),
		})
	}
	return InternalError(c, err)
}
