package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-core/internal/domain"
	"github.com/spec-kit/helpdesk-core/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-core/pkg/util"
)

// CommentService appends notes to tickets under the role policy. Appending
// never publishes events; re-rendering the timeline is the caller's concern.
type CommentService struct {
	tickets   repository.TicketRepository
	companies repository.CompanyRepository
	comments  repository.CommentRepository
}

// CommentDependencies bundles repositories for the comment service.
type CommentDependencies struct {
	TicketRepo  repository.TicketRepository
	CompanyRepo repository.CompanyRepository
	CommentRepo repository.CommentRepository
}

// NewCommentService constructs the service.
func NewCommentService(deps CommentDependencies) *CommentService {
	return &CommentService{
		tickets:   deps.TicketRepo,
		companies: deps.CompanyRepo,
		comments:  deps.CommentRepo,
	}
}

// Append adds a comment to the ticket. Client users may comment only on
// their own tickets, only publicly, and only when the company policy allows
// client commentary. All other roles need the comment capability plus tenant
// scope.
func (s *CommentService) Append(ctx context.Context, actor domain.Actor, ticketID, body string, isPrivate bool) (*domain.Comment, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, apperrors.NewInvalidInput("comment body required", nil)
	}

	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket")
		}
		return nil, err
	}
	if !actor.CanAccessCompany(ticket.CompanyID) {
		return nil, apperrors.NewAccessDenied()
	}
	if !actor.Can(domain.CapComment) {
		return nil, apperrors.NewAccessDenied()
	}

	if actor.Role == domain.RoleClientUser {
		if ticket.RequesterID != actor.ID || isPrivate {
			return nil, apperrors.NewAccessDenied()
		}
		company, err := s.companies.GetByID(ctx, ticket.CompanyID)
		if err != nil {
			return nil, err
		}
		if !company.AllowClientComments {
			return nil, apperrors.NewAccessDenied()
		}
	}

	comment := &domain.Comment{
		TicketID:  ticket.ID,
		AuthorID:  actor.ID,
		Body:      body,
		IsPrivate: isPrivate,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// ListByTicket returns the comments the actor may see, in insertion order.
func (s *CommentService) ListByTicket(ctx context.Context, actor domain.Actor, ticketID string) ([]domain.Comment, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket")
		}
		return nil, err
	}
	if !actor.CanAccessCompany(ticket.CompanyID) {
		return nil, apperrors.NewAccessDenied()
	}

	comments, err := s.comments.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, err
	}
	if actor.Can(domain.CapViewPrivate) {
		return comments, nil
	}
	visible := make([]domain.Comment, 0, len(comments))
	for _, comment := range comments {
		if comment.IsPrivate {
			continue
		}
		visible = append(visible, comment)
	}
	return visible, nil
}
