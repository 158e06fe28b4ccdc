package bot

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/betweenlines/betweenlines/internal/chatlog"
	"github.com/betweenlines/betweenlines/internal/roles"
)

func TestSessionStoreIsolation(t *testing.T) {
	store := newSessionStore()

	store.put(1, &session{you: "Alice", step: stepChooseThem})
	store.put(2, &session{you: "Carol", step: stepChooseYou})

	first, ok := store.get(1)
	require.True(t, ok)
	require.Equal(t, "Alice", first.you)

	second, ok := store.get(2)
	require.True(t, ok)
	require.Equal(t, "Carol", second.you)

	store.delete(1)

	_, ok = store.get(1)
	require.False(t, ok)

	_, ok = store.get(2)
	require.True(t, ok)
}

func TestParticipantByIndex(t *testing.T) {
	participants := []string{"Alice", "Bob"}

	name, ok := participantByIndex(participants, "1")
	require.True(t, ok)
	require.Equal(t, "Bob", name)

	_, ok = participantByIndex(participants, "2")
	require.False(t, ok)

	_, ok = participantByIndex(participants, "-1")
	require.False(t, ok)

	_, ok = participantByIndex(participants, "Alice")
	require.False(t, ok)
}

func TestResolveThem(t *testing.T) {
	sess := &session{
		step:         stepChooseThem,
		participants: []string{"Alice", "Bob"},
		you:          "Alice",
	}

	name, ok := resolveThem(sess, "1")
	require.True(t, ok)
	require.Equal(t, "Bob", name)

	// A stale keyboard tap naming "you" again must be rejected, not analyzed.
	_, ok = resolveThem(sess, "0")
	require.False(t, ok)

	_, ok = resolveThem(sess, "5")
	require.False(t, ok)

	// The session is untouched so a follow-up valid tap still works.
	require.Equal(t, stepChooseThem, sess.step)
	require.Equal(t, "Alice", sess.you)
}

func TestFormatReport(t *testing.T) {
	counters := roles.Score([]chatlog.Message{
		{Timestamp: time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC), Sender: "Alice", Body: "hi there friend"},
		{Timestamp: time.Date(2024, 2, 1, 10, 1, 0, 0, time.UTC), Sender: "Bob", Body: "hey lol"},
	})

	report := roles.BuildReport(counters, "Alice", "Bob", nil)

	text := formatReport(report)

	require.Contains(t, text, "<b>Alice</b> vs <b>Bob</b>")
	require.Contains(t, text, "<b>Joker</b>: 0.0% / 100.0%")

	for _, role := range roles.DisplayOrder {
		require.Contains(t, text, roles.DisplayName(role))
	}
}

func TestFormatReportEscapesHTML(t *testing.T) {
	report := roles.BuildReport(make(roles.Counters), "<Ali&ce>", "Bob", nil)

	text := formatReport(report)

	require.Contains(t, text, "&lt;Ali&amp;ce&gt;")
	require.False(t, strings.Contains(text, "<Ali&ce>"))
}
