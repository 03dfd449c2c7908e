package api

// swagger:model api.ErrorResponse
type ErrorResponse struct {
	Error   string             `json:"error" example:"Issue not found"`
	Details *ValidationDetails `json:"details,omitempty"`
}

// ValidationDetails 與表單顯示對應：formErrors 為整體錯誤，fieldErrors 以欄位名稱為鍵
// swagger:model api.ValidationDetails
type ValidationDetails struct {
	FormErrors  []string            `json:"formErrors"`
	FieldErrors map[string][]string `json:"fieldErrors"`
}

// swagger:model api.OKResponse
type OKResponse struct {
	OK bool `json:"ok" example:"true"`
}

// swagger:model api.UserResponse
type UserResponse struct {
	ID    string  `json:"id" example:"cq2b6k0n3bkc73c9k1a0"`
	Name  *string `json:"name" example:"Alice"`
	Email *string `json:"email" example:"alice@example.com"`
	Image *string `json:"image"`
}

// swagger:model api.SessionUser
type SessionUser struct {
	ID    string `json:"id" example:"cq2b6k0n3bkc73c9k1a0"`
	Name  string `json:"name" example:"Alice"`
	Email string `json:"email" example:"alice@example.com"`
}

// swagger:model api.SignInResponse
type SignInResponse struct {
	OK   bool        `json:"ok" example:"true"`
	User SessionUser `json:"user"`
}

// swagger:model api.SessionResponse
type SessionResponse struct {
	User *SessionUser `json:"user,omitempty"`
}

// swagger:model api.PingResponse
type PingResponse struct {
	Message string `json:"message" example:"pong"`
}
