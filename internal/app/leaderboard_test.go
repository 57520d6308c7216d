package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hunter-quiz-service/internal/domain"
)

func TestLeaderboardSortsDescending(t *testing.T) {
	lb := NewLeaderboard("quiz")
	lb.Record(domain.Participant{Name: "low", FinalScore: 1})
	lb.Record(domain.Participant{Name: "high", FinalScore: 5})
	got := lb.Record(domain.Participant{Name: "mid", FinalScore: 3})

	names := make([]string, 0, len(got.Entries))
	for _, e := range got.Entries {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"high", "mid", "low"}, names)
}

func TestLeaderboardTiesKeepInsertionOrder(t *testing.T) {
	lb := NewLeaderboard("quiz")
	lb.Record(domain.Participant{Name: "A", FinalScore: 3})
	lb.Record(domain.Participant{Name: "B", FinalScore: 3})
	lb.Record(domain.Participant{Name: "C", FinalScore: 4})
	lb.Record(domain.Participant{Name: "A", FinalScore: 3})

	assert.Equal(t, []domain.Participant{
		{Name: "C", FinalScore: 4},
		{Name: "A", FinalScore: 3},
		{Name: "B", FinalScore: 3},
		{Name: "A", FinalScore: 3},
	}, lb.Snapshot().Entries)
}

func TestScenarioEqualScoresAcrossSessions(t *testing.T) {
	lb := NewLeaderboard(domain.DefaultQuizID)
	answers := correctAnswers()
	// three right, two wrong
	attempt := []int{answers[0], answers[1], answers[2], -1, -1}

	for _, name := range []string{"A", "B"} {
		s := NewSession(name, domain.DefaultQuiz(), lb)
		require.NoError(t, s.Start(name))
		answerAll(t, s, attempt)
	}

	assert.Equal(t, []domain.Participant{
		{Name: "A", FinalScore: 3},
		{Name: "B", FinalScore: 3},
	}, lb.Snapshot().Entries)
}

func TestLeaderboardTop(t *testing.T) {
	lb := NewLeaderboard("quiz")
	for i := 0; i < 5; i++ {
		lb.Record(domain.Participant{Name: "p", FinalScore: i})
	}
	assert.Len(t, lb.Top(3).Entries, 3)
	assert.Equal(t, 4, lb.Top(3).Entries[0].FinalScore)
	assert.Len(t, lb.Top(0).Entries, 5)
	assert.Len(t, lb.Top(10).Entries, 5)
}

func TestLeaderboardSnapshotIsACopy(t *testing.T) {
	lb := NewLeaderboard("quiz")
	lb.Record(domain.Participant{Name: "Gon", FinalScore: 2})
	snap := lb.Snapshot()
	snap.Entries[0].Name = "Hisoka"
	assert.Equal(t, "Gon", lb.Snapshot().Entries[0].Name)
}

func TestLeaderboardSubscribeReceivesUpdates(t *testing.T) {
	fixed := time.Date(2024, 11, 22, 0, 0, 0, 0, time.UTC)
	lb := NewLeaderboardWithClock("quiz", func() time.Time { return fixed })

	ch, cancel := lb.Subscribe()
	defer cancel()

	initial := <-ch
	assert.Empty(t, initial.Entries)

	lb.Record(domain.Participant{Name: "Gon", FinalScore: 5})
	update := <-ch
	require.Len(t, update.Entries, 1)
	assert.Equal(t, "Gon", update.Entries[0].Name)
	assert.Equal(t, fixed, update.UpdatedAt)
}

func TestLeaderboardSlowSubscriberDoesNotBlock(t *testing.T) {
	lb := NewLeaderboard("quiz")
	ch, cancel := lb.Subscribe()
	defer cancel()

	for i := 0; i < 50; i++ {
		lb.Record(domain.Participant{Name: "p", FinalScore: i})
	}

	var last domain.Leaderboard
	for len(ch) > 0 {
		last = <-ch
	}
	assert.Len(t, last.Entries, 50)
}

func TestLeaderboardCancelClosesChannel(t *testing.T) {
	lb := NewLeaderboard("quiz")
	ch, cancel := lb.Subscribe()
	<-ch
	cancel()
	cancel()
	_, ok := <-ch
	assert.False(t, ok)
}
