package store

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrAssigneeNotFound = errors.New("assignee not found")
	ErrEmailTaken       = errors.New("email already in use")
	ErrEmptyPatch       = errors.New("no fields to update")
	ErrInvalidStatus    = errors.New("invalid issue status")
)

const (
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
)

// wrapErr 將 pgx 錯誤轉成本套件的 sentinel，並加上操作名稱
func wrapErr(op string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgForeignKeyViolation:
			return fmt.Errorf("%s: %w", op, ErrAssigneeNotFound)
		case pgUniqueViolation:
			return fmt.Errorf("%s: %w", op, ErrEmailTaken)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
