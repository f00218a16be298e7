package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func historyAt(id string, at time.Time) TicketHistoryEntry {
	return TicketHistoryEntry{ID: id, TicketID: "ticket-1", Action: ActionStatusChange, CreatedAt: at}
}

func commentAt(id string, at time.Time) Comment {
	return Comment{ID: id, TicketID: "ticket-1", AuthorID: "user-1", Body: "note", CreatedAt: at}
}

func TestMergeTimelineOrdersNewestFirst(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	history := []TicketHistoryEntry{
		historyAt("history-1", base),
		historyAt("history-2", base.Add(2*time.Hour)),
	}
	comments := []Comment{
		commentAt("comment-1", base.Add(time.Hour)),
		commentAt("comment-2", base.Add(3*time.Hour)),
	}

	merged := MergeTimeline(history, comments)
	require.Len(t, merged, 4)

	ids := make([]string, 0, len(merged))
	for _, entry := range merged {
		ids = append(ids, entry.ID())
	}
	require.Equal(t, []string{"comment-2", "history-2", "comment-1", "history-1"}, ids)

	for i := 1; i < len(merged); i++ {
		require.False(t, merged[i].CreatedAt().After(merged[i-1].CreatedAt()))
	}
}

func TestMergeTimelineTieBreaksByID(t *testing.T) {
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	history := []TicketHistoryEntry{historyAt("entry-b", at)}
	comments := []Comment{commentAt("entry-a", at), commentAt("entry-c", at)}

	merged := MergeTimeline(history, comments)
	require.Len(t, merged, 3)
	require.Equal(t, "entry-a", merged[0].ID())
	require.Equal(t, "entry-b", merged[1].ID())
	require.Equal(t, "entry-c", merged[2].ID())
}

func TestMergeTimelineDeterministicAcrossInputOrder(t *testing.T) {
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	comments := []Comment{
		commentAt("comment-3", at),
		commentAt("comment-1", at),
		commentAt("comment-2", at),
	}
	reversed := []Comment{comments[2], comments[1], comments[0]}

	first := MergeTimeline(nil, comments)
	second := MergeTimeline(nil, reversed)

	require.Len(t, first, len(second))
	for i := range first {
		require.Equal(t, first[i].ID(), second[i].ID())
	}
}

func TestMergeTimelineEmptyInputs(t *testing.T) {
	merged := MergeTimeline(nil, nil)
	require.NotNil(t, merged)
	require.Empty(t, merged)
}

func TestTimelineEntryAccessors(t *testing.T) {
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	history := historyAt("history-1", at)
	entry := TimelineEntry{Kind: TimelineKindHistory, History: &history}
	require.Equal(t, "history-1", entry.ID())
	require.True(t, entry.CreatedAt().Equal(at))

	comment := commentAt("comment-1", at.Add(time.Minute))
	entry = TimelineEntry{Kind: TimelineKindComment, Comment: &comment}
	require.Equal(t, "comment-1", entry.ID())
	require.True(t, entry.CreatedAt().Equal(at.Add(time.Minute)))
}
