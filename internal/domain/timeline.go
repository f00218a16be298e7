package domain

import (
	"sort"
	"time"
)

// TimelineKind discriminates the origin of a timeline entry.
type TimelineKind string

const (
	TimelineKindHistory TimelineKind = "HISTORY"
	TimelineKindComment TimelineKind = "COMMENT"
)

// TimelineEntry is a tagged union over history and comment records. Exactly
// one of History/Comment is set, matching Kind, so origin-specific fields
// survive re-serialization.
type TimelineEntry struct {
	Kind    TimelineKind
	History *TicketHistoryEntry
	Comment *Comment
}

// ID returns the identifier of the underlying record.
func (e TimelineEntry) ID() string {
	switch e.Kind {
	case TimelineKindHistory:
		return e.History.ID
	case TimelineKindComment:
		return e.Comment.ID
	}
	return ""
}

// CreatedAt returns the timestamp of the underlying record.
func (e TimelineEntry) CreatedAt() time.Time {
	switch e.Kind {
	case TimelineKindHistory:
		return e.History.CreatedAt
	case TimelineKindComment:
		return e.Comment.CreatedAt
	}
	return time.Time{}
}

// MergeTimeline combines history and comment entries into one sequence
// ordered by CreatedAt descending. Equal timestamps are broken by lexical
// entry id ascending, so the result is deterministic regardless of input
// iteration order. Entries with distinct timestamps are never reordered.
func MergeTimeline(history []TicketHistoryEntry, comments []Comment) []TimelineEntry {
	merged := make([]TimelineEntry, 0, len(history)+len(comments))
	for i := range history {
		merged = append(merged, TimelineEntry{Kind: TimelineKindHistory, History: &history[i]})
	}
	for i := range comments {
		merged = append(merged, TimelineEntry{Kind: TimelineKindComment, Comment: &comments[i]})
	}

	sort.SliceStable(merged, func(i, j int) bool {
		ti, tj := merged[i].CreatedAt(), merged[j].CreatedAt()
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return merged[i].ID() < merged[j].ID()
	})
	return merged
}
