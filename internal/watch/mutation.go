package watch

import "context"

// Op identifies the row-level operation carried by a mutation.
type Op string

const (
	OpInsert Op = "insert"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// TicketRow holds the ticket fields the watcher inspects. Everything else
// on the row is irrelevant to classification and deliberately absent.
type TicketRow struct {
	ID         string  `json:"id"`
	CompanyID  string  `json:"company_id"`
	Title      string  `json:"title"`
	Status     string  `json:"status"`
	AssigneeID *string `json:"assignee_id"`
	ActorID    *string `json:"actor_id"`
}

// Mutation is one observed change to a ticket row. Before is nil for
// inserts, After is nil for deletes.
type Mutation struct {
	Op     Op         `json:"op"`
	Before *TicketRow `json:"before"`
	After  *TicketRow `json:"after"`
}

// Feed is a live subscription to ticket row mutations. Implementations own
// the underlying connection; closing the context passed to Subscribe must
// release it without losing mutations already delivered on Changes. When the
// subscription drops, the Changes channel closes and Subscribe may be called
// again to open a new stream.
type Feed interface {
	Subscribe(ctx context.Context) error
	Changes() <-chan Mutation
	Close() error
}
