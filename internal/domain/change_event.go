package domain

// EventKind classifies a notification-worthy ticket mutation.
type EventKind string

const (
	EventCreated           EventKind = "CREATED"
	EventStatusChanged     EventKind = "STATUS_CHANGED"
	EventAssignmentChanged EventKind = "ASSIGNMENT_CHANGED"
)

// ChangeEvent is derived in memory from a before/after pair of ticket field
// values. It is never persisted; redelivery after a dropped feed subscription
// means recipients must tolerate duplicates.
type ChangeEvent struct {
	Kind        EventKind
	TicketID    string
	TicketTitle string
	CompanyID   string
	ActorID     string
	OldValue    string
	NewValue    string
}
