package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-core/internal/domain"
	"github.com/spec-kit/helpdesk-core/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-core/pkg/util"
)

// TimelineService produces the merged, role-filtered activity view for a
// ticket. Pure read path: no mutation, no event publication.
type TimelineService struct {
	tickets  repository.TicketRepository
	comments repository.CommentRepository
	history  repository.TicketHistoryRepository
}

// TimelineDependencies bundles repositories for the timeline service.
type TimelineDependencies struct {
	TicketRepo  repository.TicketRepository
	CommentRepo repository.CommentRepository
	HistoryRepo repository.TicketHistoryRepository
}

// NewTimelineService constructs the service.
func NewTimelineService(deps TimelineDependencies) *TimelineService {
	return &TimelineService{
		tickets:  deps.TicketRepo,
		comments: deps.CommentRepo,
		history:  deps.HistoryRepo,
	}
}

// VisibleTimeline returns the timeline entries the actor may see for the
// ticket. Cross-tenant access is denied for every role except the
// super-tenant; the denial carries no detail about the owning company.
// Private comments are dropped for actors without the view-private
// capability before merging, so they never appear in any derived view.
func (s *TimelineService) VisibleTimeline(ctx context.Context, actor domain.Actor, ticketID string) ([]domain.TimelineEntry, error) {
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

	history, err := s.history.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, err
	}
	comments, err := s.comments.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, err
	}

	if !actor.Can(domain.CapViewPrivate) {
		visible := make([]domain.Comment, 0, len(comments))
		for _, comment := range comments {
			if comment.IsPrivate {
				continue
			}
			visible = append(visible, comment)
		}
		comments = visible
	}

	return domain.MergeTimeline(history, comments), nil
}
