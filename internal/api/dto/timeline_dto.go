package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-core/internal/domain"
)

// CreateCommentRequest payload.
type CreateCommentRequest struct {
	Body      string `json:"body"`
	IsPrivate bool   `json:"is_private"`
}

// CommentResponse mirrors a comment entry.
type CommentResponse struct {
	ID        string    `json:"id"`
	TicketID  string    `json:"ticket_id"`
	AuthorID  string    `json:"author_id"`
	Body      string    `json:"body"`
	IsPrivate bool      `json:"is_private"`
	CreatedAt time.Time `json:"created_at"`
}

// HistoryResponse mirrors an audit entry.
type HistoryResponse struct {
	ID          string               `json:"id"`
	TicketID    string               `json:"ticket_id"`
	Action      domain.HistoryAction `json:"action"`
	Description string               `json:"description"`
	OldValue    *string              `json:"old_value,omitempty"`
	NewValue    *string              `json:"new_value,omitempty"`
	ActorID     string               `json:"actor_id"`
	CreatedAt   time.Time            `json:"created_at"`
}

// TimelineEntryResponse is the discriminated union shape for one entry.
// Exactly one of Comment/History is set, matching Kind.
type TimelineEntryResponse struct {
	Kind    domain.TimelineKind `json:"kind"`
	Comment *CommentResponse    `json:"comment,omitempty"`
	History *HistoryResponse    `json:"history,omitempty"`
}

// NewCommentResponse maps a domain comment.
func NewCommentResponse(comment *domain.Comment) CommentResponse {
	return CommentResponse{
		ID:        comment.ID,
		TicketID:  comment.TicketID,
		AuthorID:  comment.AuthorID,
		Body:      comment.Body,
		IsPrivate: comment.IsPrivate,
		CreatedAt: comment.CreatedAt,
	}
}

// NewHistoryResponse maps a domain history entry.
func NewHistoryResponse(entry *domain.TicketHistoryEntry) HistoryResponse {
	return HistoryResponse{
		ID:          entry.ID,
		TicketID:    entry.TicketID,
		Action:      entry.Action,
		Description: entry.Description,
		OldValue:    entry.OldValue,
		NewValue:    entry.NewValue,
		ActorID:     entry.ActorID,
		CreatedAt:   entry.CreatedAt,
	}
}

// NewTimelineResponse maps merged entries preserving their discriminants.
func NewTimelineResponse(entries []domain.TimelineEntry) []TimelineEntryResponse {
	result := make([]TimelineEntryResponse, 0, len(entries))
	for _, entry := range entries {
		item := TimelineEntryResponse{Kind: entry.Kind}
		switch entry.Kind {
		case domain.TimelineKindComment:
			comment := NewCommentResponse(entry.Comment)
			item.Comment = &comment
		case domain.TimelineKindHistory:
			history := NewHistoryResponse(entry.History)
			item.History = &history
		}
		result = append(result, item)
	}
	return result
}
