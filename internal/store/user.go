package store

import (
	"context"

	"issue-tracker/internal/database"
	"issue-tracker/internal/model"

	"github.com/rs/xid"
)

// newUserID 產生不透明的使用者 ID，測試可覆寫
var newUserID = func() string { return xid.New().String() }

const userColumns = `id, name, email, password_hash, image, created_at`

func scanUser(row interface{ Scan(dest ...any) error }) (*model.User, error) {
	u := &model.User{}
	if err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&u.Image,
		&u.CreatedAt,
	); err != nil {
		return nil, err
	}
	return u, nil
}

func GetUserByID(ctx context.Context, db database.DB, userID string) (*model.User, error) {
	row := db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`,
		userID,
	)
	u, err := scanUser(row)
	if err != nil {
		return nil, wrapErr("GetUserByID", err)
	}
	return u, nil
}

func GetUserByEmail(ctx context.Context, db database.DB, email string) (*model.User, error) {
	row := db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`,
		email,
	)
	u, err := scanUser(row)
	if err != nil {
		return nil, wrapErr("GetUserByEmail", err)
	}
	return u, nil
}

// ListUsers 依名稱遞增排序，名稱相同時以 id 排序
func ListUsers(ctx context.Context, db database.DB) ([]model.User, error) {
	rows, err := db.Query(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY name ASC, id ASC`,
	)
	if err != nil {
		return nil, wrapErr("ListUsers", err)
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, wrapErr("ListUsers", err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("ListUsers", err)
	}
	return users, nil
}

// CreateUser 寫入新使用者；ID 為空時自動產生。Email 重複時回傳 ErrEmailTaken
func CreateUser(ctx context.Context, db database.DB, u *model.User) (*model.User, error) {
	if u.ID == "" {
		u.ID = newUserID()
	}
	row := db.QueryRow(ctx,
		`INSERT INTO users (id, name, email, password_hash, image)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at`,
		u.ID,
		u.Name,
		u.Email,
		u.PasswordHash,
		u.Image,
	)
	if err := row.Scan(&u.CreatedAt); err != nil {
		return nil, wrapErr("CreateUser", err)
	}
	return u, nil
}
