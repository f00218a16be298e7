package domain

import "time"

// Comment is an append-only note on a ticket. Private comments are visible
// only to non-client roles; they never reach a client-facing view or payload.
type Comment struct {
	ID        string
	TicketID  string
	AuthorID  string
	Body      string
	IsPrivate bool
	CreatedAt time.Time
}
