package app

import (
	"testing"
	"time"

	"snarkel-service/internal/domain"
)

func TestRankOrdersByPointsThenSpeed(t *testing.T) {
	scores := map[string]*domain.ScoreEntry{
		"0xa": {Identity: "0xa", Points: 100, TimeToScore: 20},
		"0xb": {Identity: "0xb", Points: 200, TimeToScore: 30},
		"0xc": {Identity: "0xc", Points: 100, TimeToScore: 10},
	}

	lb := rankEntries("room-1", scores, time.Now())
	got := []string{lb.Entries[0].Identity, lb.Entries[1].Identity, lb.Entries[2].Identity}
	want := []string{"0xb", "0xc", "0xa"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, got)
		}
	}
}

func TestRankIsDeterministicOnFullTies(t *testing.T) {
	scores := map[string]*domain.ScoreEntry{
		"0xb": {Identity: "0xb", Points: 50, TimeToScore: 5},
		"0xa": {Identity: "0xa", Points: 50, TimeToScore: 5},
	}

	for i := 0; i < 10; i++ {
		lb := rankEntries("room-1", scores, time.Now())
		if lb.Entries[0].Identity != "0xa" || lb.Entries[1].Identity != "0xb" {
			t.Fatalf("tie order must be stable by identity, got %+v", lb.Entries)
		}
	}
}

func TestRankCopiesBreakdown(t *testing.T) {
	entry := &domain.ScoreEntry{
		Identity:  "0xa",
		Points:    10,
		Breakdown: []domain.QuestionResult{{QuestionID: "q1", Correct: true, Points: 10}},
	}
	lb := rankEntries("room-1", map[string]*domain.ScoreEntry{"0xa": entry}, time.Now())

	lb.Entries[0].Breakdown[0].Points = 999
	if entry.Breakdown[0].Points != 10 {
		t.Fatalf("snapshot must not alias live score state")
	}
}
