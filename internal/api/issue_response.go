package api

import (
	"time"

	"issue-tracker/internal/model"
)

// swagger:model api.AssigneeResponse
type AssigneeResponse struct {
	ID    string  `json:"id" example:"cq2b6k0n3bkc73c9k1a0"`
	Name  *string `json:"name" example:"Alice"`
	Email *string `json:"email" example:"alice@example.com"`
	Image *string `json:"image"`
}

// swagger:model api.IssueResponse
type IssueResponse struct {
	ID          int               `json:"id" example:"1"`
	Title       string            `json:"title" example:"Login button does nothing"`
	Description *string           `json:"description"`
	Status      string            `json:"status" example:"OPEN"`
	AssignedTo  *string           `json:"assignedTo"`
	Assignee    *AssigneeResponse `json:"assignee"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

// swagger:model api.IssueEventResponse
type IssueEventResponse struct {
	ID        int64     `json:"id" example:"1"`
	IssueID   int       `json:"issueId" example:"1"`
	ActorID   *string   `json:"actorId"`
	Action    string    `json:"action" example:"updated"`
	CreatedAt time.Time `json:"createdAt"`
}

func NewAssigneeResponse(u model.UserSummary) AssigneeResponse {
	return AssigneeResponse{ID: u.ID, Name: u.Name, Email: u.Email, Image: u.Image}
}

func NewIssueResponse(iss model.Issue) IssueResponse {
	resp := IssueResponse{
		ID:          iss.ID,
		Title:       iss.Title,
		Description: iss.Description,
		Status:      string(iss.Status),
		AssignedTo:  iss.AssignedTo,
		CreatedAt:   iss.CreatedAt,
		UpdatedAt:   iss.UpdatedAt,
	}
	if iss.Assignee != nil {
		a := NewAssigneeResponse(*iss.Assignee)
		resp.Assignee = &a
	}
	return resp
}

func NewIssueEventResponse(e model.IssueEvent) IssueEventResponse {
	return IssueEventResponse{
		ID:        e.ID,
		IssueID:   e.IssueID,
		ActorID:   e.ActorID,
		Action:    string(e.Action),
		CreatedAt: e.CreatedAt,
	}
}
