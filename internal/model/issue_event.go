package model

import "time"

type IssueAction string

const (
	IssueActionCreated IssueAction = "created"
	IssueActionUpdated IssueAction = "updated"
	IssueActionDeleted IssueAction = "deleted"
)

// IssueEvent 記錄一次 issue 異動；issue 刪除後紀錄仍保留
type IssueEvent struct {
	ID        int64       `db:"id"`
	IssueID   int         `db:"issue_id"`
	ActorID   *string     `db:"actor_id"`
	Action    IssueAction `db:"action"`
	CreatedAt time.Time   `db:"created_at"`
}
