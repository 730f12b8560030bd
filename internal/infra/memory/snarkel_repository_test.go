package memory

import (
	"context"
	"testing"
	"time"

	"snarkel-service/internal/domain"
)

func TestSnarkelRepositoryCaches(t *testing.T) {
	loader := &countingLoader{
		SnarkelLoader: NewStaticSnarkelLoader(map[string]domain.Snarkel{
			"snarkel-1": sampleSnarkel(),
		}),
	}
	repo := NewSnarkelRepository(loader, time.Minute)

	if _, err := repo.GetSnarkel(context.Background(), "snarkel-1"); err != nil {
		t.Fatalf("get snarkel: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader once, got %d", loader.calls)
	}

	if _, err := repo.GetSnarkel(context.Background(), "snarkel-1"); err != nil {
		t.Fatalf("get snarkel 2: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls %d", loader.calls)
	}
}

func TestStaticLoaderUnknownSnarkel(t *testing.T) {
	loader := NewStaticSnarkelLoader(nil)
	if _, err := loader.LoadSnarkel(context.Background(), "missing"); err != domain.ErrSnarkelNotFound {
		t.Fatalf("expected ErrSnarkelNotFound, got %v", err)
	}
}

type countingLoader struct {
	SnarkelLoader
	calls int
}

func (l *countingLoader) LoadSnarkel(ctx context.Context, snarkelID string) (domain.Snarkel, error) {
	l.calls++
	return l.SnarkelLoader.LoadSnarkel(ctx, snarkelID)
}

func sampleSnarkel() domain.Snarkel {
	return domain.Snarkel{
		ID:              "snarkel-1",
		Title:           "Sample",
		CreatorIdentity: "0x00000000000000000000000000000000000000a1",
		Scoring:         domain.ScoringConfig{BasePointsPerQuestion: 100},
		RewardPool:      "500",
		Questions: []domain.Question{
			{
				ID:        "q1",
				Position:  1,
				Text:      "What is 2 + 2?",
				TimeLimit: 15,
				Options: []domain.Option{
					{ID: "o1", Text: "3"},
					{ID: "o2", Text: "4", Correct: true},
				},
			},
		},
	}
}
