package app

import (
	"sort"
	"time"

	"snarkel-service/internal/domain"
)

// rankEntries builds a leaderboard snapshot from accumulated scores.
// Full re-sort per scoring event; room sizes make O(n log n) cheap.
// Ordering is deterministic: points descending, then lower cumulative
// time-to-correct-answers, then identity. Reward ranking depends on this
// being reproducible.
func rankEntries(roomID string, scores map[string]*domain.ScoreEntry, now time.Time) domain.LeaderboardSnapshot {
	entries := make([]domain.ScoreEntry, 0, len(scores))
	for _, entry := range scores {
		copied := *entry
		copied.Breakdown = append([]domain.QuestionResult(nil), entry.Breakdown...)
		entries = append(entries, copied)
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Points != entries[j].Points {
			return entries[i].Points > entries[j].Points
		}
		if entries[i].TimeToScore != entries[j].TimeToScore {
			return entries[i].TimeToScore < entries[j].TimeToScore
		}
		return entries[i].Identity < entries[j].Identity
	})

	return domain.LeaderboardSnapshot{
		RoomID:    roomID,
		Entries:   entries,
		UpdatedAt: now,
	}
}
