package validation

import (
	"issue-tracker/internal/api"
	"issue-tracker/internal/model"
)

// CreateIssueInput 是通過驗證的新增內容；AssigneeID 為 nil 代表不指派
type CreateIssueInput struct {
	Title       string
	Description string
	AssigneeID  *string
}

// UpdateIssueInput 是通過驗證的部分更新。
// SetDescription/SetAssignee 為 true 而指標為 nil 時代表清空；Description 可能是空字串，由呼叫端決定如何正規化
type UpdateIssueInput struct {
	Title          *string
	SetDescription bool
	Description    *string
	Status         *model.IssueStatus
	SetAssignee    bool
	AssigneeID     *string
}

type createIssueRules struct {
	Title       string `json:"title" validate:"required,max=255"`
	Description string `json:"description" validate:"required"`
	AssigneeID  string `json:"assigneeId" validate:"omitempty,xid"`
}

type updateIssueRules struct {
	Title      *string `json:"title" validate:"omitnil,min=1,max=255"`
	Status     *string `json:"status" validate:"omitnil,oneof=OPEN IN_PROGRESS CLOSED"`
	AssigneeID *string `json:"assigneeId" validate:"omitnil,xid"`
}

// assigneeRef 把 null 與空字串都視為取消指派
func assigneeRef(o api.Optional[string]) *string {
	if o.Null || o.Value == "" {
		return nil
	}
	v := o.Value
	return &v
}

// ValidateCreateIssue 檢查 title (1–255)、description (非空) 與可選的 assigneeId
func ValidateCreateIssue(req api.CreateIssueRequest) (CreateIssueInput, error) {
	rules := createIssueRules{}
	if req.Title != nil {
		rules.Title = *req.Title
	}
	if req.Description != nil {
		rules.Description = *req.Description
	}
	var assignee *string
	if req.AssigneeID.Set {
		assignee = assigneeRef(req.AssigneeID)
		if assignee != nil {
			rules.AssigneeID = *assignee
		}
	}

	out := &Error{}
	if err := fromValidator(validate.Struct(rules), out); err != nil {
		return CreateIssueInput{}, err
	}
	if !out.empty() {
		return CreateIssueInput{}, out
	}
	return CreateIssueInput{
		Title:       rules.Title,
		Description: rules.Description,
		AssigneeID:  assignee,
	}, nil
}

// ValidateUpdateIssue 所有欄位皆為選填，但至少要有一個；title 與 status 不可為 null
func ValidateUpdateIssue(req api.UpdateIssueRequest) (UpdateIssueInput, error) {
	if !req.Title.Set && !req.Description.Set && !req.Status.Set && !req.AssigneeID.Set {
		return UpdateIssueInput{}, &Error{FormErrors: []string{MsgNoFieldsToUpdate}}
	}

	out := &Error{}
	if req.Title.Set && req.Title.Null {
		out.addField("title", "Title cannot be null")
	}
	if req.Status.Set && req.Status.Null {
		out.addField("status", "Status cannot be null")
	}

	rules := updateIssueRules{
		Title:  req.Title.Ptr(),
		Status: req.Status.Ptr(),
	}
	in := UpdateIssueInput{}
	if req.AssigneeID.Set {
		in.SetAssignee = true
		in.AssigneeID = assigneeRef(req.AssigneeID)
		rules.AssigneeID = in.AssigneeID
	}
	if err := fromValidator(validate.Struct(rules), out); err != nil {
		return UpdateIssueInput{}, err
	}
	if !out.empty() {
		return UpdateIssueInput{}, out
	}

	in.Title = rules.Title
	if req.Description.Set {
		in.SetDescription = true
		in.Description = req.Description.Ptr()
	}
	if rules.Status != nil {
		s := model.IssueStatus(*rules.Status)
		in.Status = &s
	}
	return in, nil
}
