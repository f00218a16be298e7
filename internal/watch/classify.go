package watch

import "github.com/spec-kit/helpdesk-core/internal/domain"

// Classify maps one mutation to at most one change event. Priority order:
// insert yields Created; an update with a status difference yields
// StatusChanged; otherwise an assignee difference yields AssignmentChanged;
// anything else is dropped. An update touching both status and assignee is
// reported only as a status change, a known precision loss kept on purpose,
// matching what downstream recipients already expect.
func Classify(m Mutation) (domain.ChangeEvent, bool) {
	switch m.Op {
	case OpInsert:
		if m.After == nil {
			return domain.ChangeEvent{}, false
		}
		return domain.ChangeEvent{
			Kind:        domain.EventCreated,
			TicketID:    m.After.ID,
			TicketTitle: m.After.Title,
			CompanyID:   m.After.CompanyID,
			ActorID:     derefOr(m.After.ActorID, ""),
			NewValue:    m.After.Status,
		}, true

	case OpUpdate:
		if m.Before == nil || m.After == nil {
			return domain.ChangeEvent{}, false
		}
		if m.Before.Status != m.After.Status {
			return domain.ChangeEvent{
				Kind:        domain.EventStatusChanged,
				TicketID:    m.After.ID,
				TicketTitle: m.After.Title,
				CompanyID:   m.After.CompanyID,
				ActorID:     derefOr(m.After.ActorID, ""),
				OldValue:    m.Before.Status,
				NewValue:    m.After.Status,
			}, true
		}
		if !equalAssignee(m.Before.AssigneeID, m.After.AssigneeID) {
			return domain.ChangeEvent{
				Kind:        domain.EventAssignmentChanged,
				TicketID:    m.After.ID,
				TicketTitle: m.After.Title,
				CompanyID:   m.After.CompanyID,
				ActorID:     derefOr(m.After.ActorID, ""),
				OldValue:    derefOr(m.Before.AssigneeID, ""),
				NewValue:    derefOr(m.After.AssigneeID, ""),
			}, true
		}
		return domain.ChangeEvent{}, false
	}

	// Deletes and unknown ops carry no notification.
	return domain.ChangeEvent{}, false
}

func equalAssignee(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func derefOr(v *string, fallback string) string {
	if v == nil {
		return fallback
	}
	return *v
}
