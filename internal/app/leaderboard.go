package app

import (
	"sort"
	"sync"
	"time"

	"hunter-quiz-service/internal/domain"
)

// Leaderboard is the process-wide ranking shared by every session. Entries are only ever
// appended and are kept sorted by final score, highest first, with ties in insertion order.
type Leaderboard struct {
	quizID string
	now    func() time.Time

	mu          sync.RWMutex
	entries     []domain.Participant
	updatedAt   time.Time
	subscribers map[chan domain.Leaderboard]struct{}
}

func NewLeaderboard(quizID string) *Leaderboard {
	return NewLeaderboardWithClock(quizID, time.Now)
}

// NewLeaderboardWithClock is test-only for deterministic timestamps.
func NewLeaderboardWithClock(quizID string, now func() time.Time) *Leaderboard {
	return &Leaderboard{
		quizID:      quizID,
		now:         now,
		updatedAt:   now(),
		subscribers: make(map[chan domain.Leaderboard]struct{}),
	}
}

// Record appends a participant, re-sorts and notifies subscribers.
func (l *Leaderboard) Record(p domain.Participant) domain.Leaderboard {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, p)
	sort.SliceStable(l.entries, func(i, j int) bool {
		return l.entries[i].FinalScore > l.entries[j].FinalScore
	})
	l.updatedAt = l.now()
	return l.broadcastLocked()
}

// Snapshot returns a copy of the full ranking.
func (l *Leaderboard) Snapshot() domain.Leaderboard {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.snapshotLocked()
}

// Top returns at most limit entries. A non-positive limit returns everything.
func (l *Leaderboard) Top(limit int) domain.Leaderboard {
	lb := l.Snapshot()
	if limit > 0 && limit < len(lb.Entries) {
		lb.Entries = lb.Entries[:limit]
	}
	return lb
}

// Len reports the number of recorded participants.
func (l *Leaderboard) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Subscribe returns a channel that receives the ranking after every Record.
// The caller must invoke the returned cancel function to avoid leaks.
func (l *Leaderboard) Subscribe() (<-chan domain.Leaderboard, func()) {
	ch := make(chan domain.Leaderboard, 8)

	l.mu.Lock()
	l.subscribers[ch] = struct{}{}
	initial := l.snapshotLocked()
	l.mu.Unlock()

	ch <- initial

	cancel := func() {
		l.mu.Lock()
		if _, ok := l.subscribers[ch]; ok {
			delete(l.subscribers, ch)
			close(ch)
		}
		l.mu.Unlock()
	}
	return ch, cancel
}

func (l *Leaderboard) broadcastLocked() domain.Leaderboard {
	lb := l.snapshotLocked()
	for ch := range l.subscribers {
		select {
		case ch <- lb:
		default:
			// buffer full: drop the oldest snapshot so Record never blocks on a slow reader
			select {
			case <-ch:
			default:
			}
			ch <- lb
		}
	}
	return lb
}

func (l *Leaderboard) snapshotLocked() domain.Leaderboard {
	entries := make([]domain.Participant, len(l.entries))
	copy(entries, l.entries)
	return domain.Leaderboard{
		QuizID:    l.quizID,
		Entries:   entries,
		UpdatedAt: l.updatedAt,
	}
}
