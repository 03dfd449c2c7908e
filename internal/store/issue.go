package store

import (
	"context"
	"fmt"
	"strings"

	"issue-tracker/internal/database"
	"issue-tracker/internal/model"
)

const issueColumns = `i.id, i.title, i.description, i.status, i.assigned_to, i.created_at, i.updated_at,
	u.id, u.name, u.email, u.image`

const assigneeJoin = ` LEFT JOIN users u ON u.id = i.assigned_to`

func scanIssue(row interface{ Scan(dest ...any) error }) (*model.Issue, error) {
	iss := &model.Issue{}
	var status string
	var aID, aName, aEmail, aImage *string
	if err := row.Scan(
		&iss.ID,
		&iss.Title,
		&iss.Description,
		&status,
		&iss.AssignedTo,
		&iss.CreatedAt,
		&iss.UpdatedAt,
		&aID,
		&aName,
		&aEmail,
		&aImage,
	); err != nil {
		return nil, err
	}
	iss.Status = model.IssueStatus(status)
	if aID != nil {
		iss.Assignee = &model.UserSummary{ID: *aID, Name: aName, Email: aEmail, Image: aImage}
	}
	return iss, nil
}

func GetIssueByID(ctx context.Context, db database.DB, id int) (*model.Issue, error) {
	row := db.QueryRow(ctx,
		`SELECT `+issueColumns+` FROM issues i`+assigneeJoin+` WHERE i.id = $1`,
		id,
	)
	iss, err := scanIssue(row)
	if err != nil {
		return nil, wrapErr("GetIssueByID", err)
	}
	return iss, nil
}

// ListIssues 回傳全部 issue，依建立時間由新到舊
func ListIssues(ctx context.Context, db database.DB) ([]model.Issue, error) {
	rows, err := db.Query(ctx,
		`SELECT `+issueColumns+` FROM issues i`+assigneeJoin+`
		 ORDER BY i.created_at DESC, i.id DESC`,
	)
	if err != nil {
		return nil, wrapErr("ListIssues", err)
	}
	defer rows.Close()

	issues := []model.Issue{}
	for rows.Next() {
		iss, err := scanIssue(rows)
		if err != nil {
			return nil, wrapErr("ListIssues", err)
		}
		issues = append(issues, *iss)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("ListIssues", err)
	}
	return issues, nil
}

// CreateIssue 新增 issue，id、時間戳與預設狀態 OPEN 皆由資料庫決定。
// 指派對象在寫入前被刪除時，外鍵會擋下並回傳 ErrAssigneeNotFound
func CreateIssue(ctx context.Context, db database.DB, in model.NewIssue) (*model.Issue, error) {
	row := db.QueryRow(ctx,
		`WITH i AS (
			INSERT INTO issues (title, description, assigned_to)
			VALUES ($1, $2, $3)
			RETURNING *
		)
		SELECT `+issueColumns+` FROM i`+assigneeJoin,
		in.Title,
		in.Description,
		in.AssignedTo,
	)
	iss, err := scanIssue(row)
	if err != nil {
		return nil, wrapErr("CreateIssue", err)
	}
	return iss, nil
}

// UpdateIssue 只更新 patch 中出現的欄位並刷新 updated_at。
// 該列不存在（或已被同時刪除）時回傳 ErrNotFound
func UpdateIssue(ctx context.Context, db database.DB, id int, p model.IssuePatch) (*model.Issue, error) {
	if p.Empty() {
		return nil, fmt.Errorf("UpdateIssue: %w", ErrEmptyPatch)
	}
	if p.Status != nil && !p.Status.Valid() {
		return nil, fmt.Errorf("UpdateIssue: %w", ErrInvalidStatus)
	}
	var sets []string
	var args []any
	set := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if p.Title != nil {
		set("title", *p.Title)
	}
	if p.SetDescription {
		set("description", p.Description)
	}
	if p.Status != nil {
		set("status", string(*p.Status))
	}
	if p.SetAssignee {
		set("assigned_to", p.AssignedTo)
	}
	sets = append(sets, "updated_at = now()")
	args = append(args, id)

	row := db.QueryRow(ctx,
		`WITH i AS (
			UPDATE issues SET `+strings.Join(sets, ", ")+`
			WHERE id = $`+fmt.Sprint(len(args))+`
			RETURNING *
		)
		SELECT `+issueColumns+` FROM i`+assigneeJoin,
		args...,
	)
	iss, err := scanIssue(row)
	if err != nil {
		return nil, wrapErr("UpdateIssue", err)
	}
	return iss, nil
}

// DeleteIssue 刪除 issue；沒有列被刪除時回傳 ErrNotFound
func DeleteIssue(ctx context.Context, db database.DB, id int) error {
	tag, err := db.Exec(ctx,
		`DELETE FROM issues WHERE id = $1`,
		id,
	)
	if err != nil {
		return wrapErr("DeleteIssue", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("DeleteIssue: %w", ErrNotFound)
	}
	return nil
}
