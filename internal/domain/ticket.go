package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "OPEN"
	TicketStatusInProgress TicketStatus = "IN_PROGRESS"
	TicketStatusResolved   TicketStatus = "RESOLVED"
	TicketStatusClosed     TicketStatus = "CLOSED"
)

// Ticket is the aggregate for support requests. Every ticket belongs to
// exactly one company; all ticket-scoped data inherits that scope.
type Ticket struct {
	ID          string
	ExternalKey string
	CompanyID   string
	RequesterID string
	AssigneeID  *string
	Title       string
	Description string
	Status      TicketStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
	ClosedAt    *time.Time
}

// Company models a tenant. AllowClientComments is the per-company policy
// gating whether client users may post comments on their own tickets.
type Company struct {
	ID                  string
	Name                string
	AllowClientComments bool
	CreatedAt           time.Time
}
