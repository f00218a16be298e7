package domain

import "time"

// HistoryAction captures what changed in an audit entry.
type HistoryAction string

const (
	ActionCreated        HistoryAction = "CREATED"
	ActionStatusChange   HistoryAction = "STATUS_CHANGE"
	ActionAssigneeChange HistoryAction = "ASSIGNEE_CHANGE"
	ActionTitleChange    HistoryAction = "TITLE_CHANGE"
)

// TicketHistoryEntry is an immutable audit trail record. Entries are never
// mutated or deleted; rapid successive edits produce one entry each.
type TicketHistoryEntry struct {
	ID          string
	TicketID    string
	Action      HistoryAction
	Description string
	OldValue    *string
	NewValue    *string
	ActorID     string
	CreatedAt   time.Time
}
