package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-core/internal/domain"
	"github.com/spec-kit/helpdesk-core/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-core/pkg/util"
)

// TicketService is the sole mutation path for ticket fields. Every
// distinguishable field change writes one audit entry; notification of the
// change happens downstream via the mutation feed, never from here.
type TicketService struct {
	tickets repository.TicketRepository
	history repository.TicketHistoryRepository
}

// TicketDependencies bundles repositories for the ticket service.
type TicketDependencies struct {
	TicketRepo  repository.TicketRepository
	HistoryRepo repository.TicketHistoryRepository
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Title       string
	Description string
	RequesterID string
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets: deps.TicketRepo,
		history: deps.HistoryRepo,
	}
}

// CreateTicket creates a ticket in the actor's company.
func (s *TicketService) CreateTicket(ctx context.Context, actor domain.Actor, input TicketCreateInput) (*domain.Ticket, error) {
	if !actor.Can(domain.CapMutateTicket) && actor.Role != domain.RoleClientUser {
		return nil, apperrors.NewAccessDenied()
	}
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apperrors.NewInvalidInput("title required", nil)
	}

	requesterID := input.RequesterID
	if actor.Role == domain.RoleClientUser || requesterID == "" {
		requesterID = actor.ID
	}

	ticket := &domain.Ticket{
		ExternalKey: generateTicketKey(),
		CompanyID:   actor.CompanyID,
		RequesterID: requesterID,
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		Status:      domain.TicketStatusOpen,
	}
	if err := s.tickets.Create(ctx, ticket, actor.ID); err != nil {
		return nil, err
	}

	if err := s.recordChange(ctx, actor.ID, ticket.ID, domain.ActionCreated, "ticket created", nil, strPtr(string(ticket.Status))); err != nil {
		return nil, err
	}
	return ticket, nil
}

// UpdateStatus transitions the ticket status and records the change.
func (s *TicketService) UpdateStatus(ctx context.Context, actor domain.Actor, ticketID string, newStatus domain.TicketStatus) (*domain.Ticket, error) {
	ticket, err := s.loadForMutation(ctx, actor, ticketID)
	if err != nil {
		return nil, err
	}
	if !isValidTransition(ticket.Status, newStatus) {
		return nil, apperrors.NewInvalidInput("invalid status transition", map[string]any{
			"from": ticket.Status,
			"to":   newStatus,
		})
	}

	oldStatus := ticket.Status
	ticket.Status = newStatus
	if newStatus == domain.TicketStatusClosed {
		now := time.Now()
		ticket.ClosedAt = &now
	} else {
		ticket.ClosedAt = nil
	}
	if err := s.tickets.Update(ctx, ticket, actor.ID); err != nil {
		return nil, err
	}

	if err := s.recordChange(ctx, actor.ID, ticket.ID, domain.ActionStatusChange, "status changed",
		strPtr(string(oldStatus)), strPtr(string(newStatus))); err != nil {
		return nil, err
	}
	return ticket, nil
}

// AssignTicket changes the assignee and records the change. A nil assignee
// unassigns the ticket.
func (s *TicketService) AssignTicket(ctx context.Context, actor domain.Actor, ticketID string, assigneeID *string) (*domain.Ticket, error) {
	ticket, err := s.loadForMutation(ctx, actor, ticketID)
	if err != nil {
		return nil, err
	}

	oldAssignee := ticket.AssigneeID
	ticket.AssigneeID = assigneeID
	if err := s.tickets.Update(ctx, ticket, actor.ID); err != nil {
		return nil, err
	}

	if err := s.recordChange(ctx, actor.ID, ticket.ID, domain.ActionAssigneeChange, "assignee changed",
		oldAssignee, assigneeID); err != nil {
		return nil, err
	}
	return ticket, nil
}

// GetTicket fetches a ticket under tenant scope. Client users may only read
// their own tickets.
func (s *TicketService) GetTicket(ctx context.Context, actor domain.Actor, ticketID string) (*domain.Ticket, error) {
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
	if actor.Role == domain.RoleClientUser && ticket.RequesterID != actor.ID {
		return nil, apperrors.NewAccessDenied()
	}
	return ticket, nil
}

func (s *TicketService) loadForMutation(ctx context.Context, actor domain.Actor, ticketID string) (*domain.Ticket, error) {
	if !actor.Can(domain.CapMutateTicket) {
		return nil, apperrors.NewAccessDenied()
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
	return ticket, nil
}

func (s *TicketService) recordChange(ctx context.Context, actorID, ticketID string, action domain.HistoryAction, description string, oldValue, newValue *string) error {
	if s.history == nil {
		return nil
	}
	return s.history.Create(ctx, &domain.TicketHistoryEntry{
		TicketID:    ticketID,
		Action:      action,
		Description: description,
		OldValue:    oldValue,
		NewValue:    newValue,
		ActorID:     actorID,
	})
}

var allowedTransitions = map[domain.TicketStatus][]domain.TicketStatus{
	domain.TicketStatusOpen:       {domain.TicketStatusInProgress, domain.TicketStatusResolved, domain.TicketStatusClosed},
	domain.TicketStatusInProgress: {domain.TicketStatusResolved, domain.TicketStatusOpen, domain.TicketStatusClosed},
	domain.TicketStatusResolved:   {domain.TicketStatusClosed, domain.TicketStatusInProgress},
	domain.TicketStatusClosed:     {},
}

func isValidTransition(current, next domain.TicketStatus) bool {
	for _, candidate := range allowedTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}

func generateTicketKey() string {
	return "TCK-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

func strPtr(v string) *string {
	return &v
}
