// File: internal/model/user.go
package model

import "time"

// User 為註冊帳號；OAuth-only 身分可能沒有 Email 與 PasswordHash
type User struct {
	ID           string    `db:"id" json:"id"`
	Name         *string   `db:"name" json:"name"`
	Email        *string   `db:"email" json:"email"`
	PasswordHash *string   `db:"password_hash" json:"-"`
	Image        *string   `db:"image" json:"image"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// UserSummary 是 issue 回應中附帶的指派對象資訊
type UserSummary struct {
	ID    string  `json:"id"`
	Name  *string `json:"name"`
	Email *string `json:"email"`
	Image *string `json:"image"`
}

// Summary 回傳不含密碼雜湊的精簡資訊
func (u User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name, Email: u.Email, Image: u.Image}
}
