package store

import (
	"context"

	"issue-tracker/internal/database"
	"issue-tracker/internal/model"
)

func CreateIssueEvent(ctx context.Context, db database.DB, e *model.IssueEvent) error {
	row := db.QueryRow(ctx,
		`INSERT INTO issue_events (issue_id, actor_id, action)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		e.IssueID,
		e.ActorID,
		string(e.Action),
	)
	if err := row.Scan(&e.ID, &e.CreatedAt); err != nil {
		return wrapErr("CreateIssueEvent", err)
	}
	return nil
}

// ListIssueEvents 回傳指定 issue 的異動紀錄，新的在前
func ListIssueEvents(ctx context.Context, db database.DB, issueID int) ([]model.IssueEvent, error) {
	rows, err := db.Query(ctx,
		`SELECT id, issue_id, actor_id, action, created_at
		 FROM issue_events
		 WHERE issue_id = $1
		 ORDER BY created_at DESC, id DESC`,
		issueID,
	)
	if err != nil {
		return nil, wrapErr("ListIssueEvents", err)
	}
	defer rows.Close()

	events := []model.IssueEvent{}
	for rows.Next() {
		var e model.IssueEvent
		var action string
		if err := rows.Scan(&e.ID, &e.IssueID, &e.ActorID, &action, &e.CreatedAt); err != nil {
			return nil, wrapErr("ListIssueEvents", err)
		}
		e.Action = model.IssueAction(action)
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("ListIssueEvents", err)
	}
	return events, nil
}
