// File: internal/model/issue.go
package model

import "time"

type IssueStatus string

const (
	IssueStatusOpen       IssueStatus = "OPEN"
	IssueStatusInProgress IssueStatus = "IN_PROGRESS"
	IssueStatusClosed     IssueStatus = "CLOSED"
)

// Valid 回報 s 是否為三種合法狀態之一
func (s IssueStatus) Valid() bool {
	switch s {
	case IssueStatusOpen, IssueStatusInProgress, IssueStatusClosed:
		return true
	}
	return false
}

type Issue struct {
	ID          int          `db:"id"`
	Title       string       `db:"title"`
	Description *string      `db:"description"`
	Status      IssueStatus  `db:"status"`
	AssignedTo  *string      `db:"assigned_to"`
	Assignee    *UserSummary `db:"-"`
	CreatedAt   time.Time    `db:"created_at"`
	UpdatedAt   time.Time    `db:"updated_at"`
}

// NewIssue 是通過驗證後可寫入的新 issue 欄位
type NewIssue struct {
	Title       string
	Description string
	AssignedTo  *string
}

// IssuePatch 描述部分更新：nil 指標代表不更新該欄位。
// Description 與 AssignedTo 需要區分「未送出」與「清空」，因此另有 Set 旗標。
type IssuePatch struct {
	Title          *string
	SetDescription bool
	Description    *string
	Status         *IssueStatus
	SetAssignee    bool
	AssignedTo     *string
}

// Empty 回報 patch 是否沒有任何欄位
func (p IssuePatch) Empty() bool {
	return p.Title == nil && !p.SetDescription && p.Status == nil && !p.SetAssignee
}
