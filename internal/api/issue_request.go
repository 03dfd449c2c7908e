// File: internal/api/issue_request.go
package api

// swagger:model api.CreateIssueRequest
type CreateIssueRequest struct {
	Title       *string          `json:"title" example:"Login button does nothing"`
	Description *string          `json:"description" example:"Clicking sign in on Safari has no effect."`
	AssigneeID  Optional[string] `json:"assigneeId" swaggertype:"string" example:"cq2b6k0n3bkc73c9k1a0"`
}

// swagger:model api.UpdateIssueRequest
type UpdateIssueRequest struct {
	Title       Optional[string] `json:"title" swaggertype:"string" example:"Login button does nothing"`
	Description Optional[string] `json:"description" swaggertype:"string" example:""`
	Status      Optional[string] `json:"status" swaggertype:"string" enums:"OPEN,IN_PROGRESS,CLOSED" example:"IN_PROGRESS"`
	AssigneeID  Optional[string] `json:"assigneeId" swaggertype:"string" example:"cq2b6k0n3bkc73c9k1a0"`
}
