package rewards_test

import (
	"math/big"
	"reflect"
	"testing"

	"snarkel-service/internal/domain"
	"snarkel-service/internal/rewards"
)

func TestQuadraticExactSplit(t *testing.T) {
	lb := leaderboard(entry("0xa", 100), entry("0xb", 50), entry("0xc", 0))

	plan, err := rewards.Calculate(lb, big.NewInt(150), "tok", domain.StrategyQuadratic, rewards.Params{})
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	if len(plan.Payouts) != 2 {
		t.Fatalf("expected 2 eligible payouts, got %d", len(plan.Payouts))
	}
	if plan.Payouts[0].Amount != "100" || plan.Payouts[1].Amount != "50" {
		t.Fatalf("expected 100/50 split, got %+v", plan.Payouts)
	}
}

func TestQuadraticFloorsRemainder(t *testing.T) {
	lb := leaderboard(entry("0xb", 2), entry("0xa", 1))

	plan, err := rewards.Calculate(lb, big.NewInt(10), "tok", domain.StrategyQuadratic, rewards.Params{})
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	// floor(10*2/3)=6, floor(10*1/3)=3; 1 unit intentionally unallocated.
	if plan.Payouts[0].Amount != "6" || plan.Payouts[1].Amount != "3" {
		t.Fatalf("expected 6/3, got %+v", plan.Payouts)
	}
	if sum(t, plan) != 9 {
		t.Fatalf("expected sum 9, got %d", sum(t, plan))
	}
}

func TestQuadraticBumpsZeroAmounts(t *testing.T) {
	lb := leaderboard(entry("0xa", 1000), entry("0xb", 1))

	plan, err := rewards.Calculate(lb, big.NewInt(100), "tok", domain.StrategyQuadratic, rewards.Params{})
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	// 0xb floors to 0 and is bumped to 1 unit.
	if plan.Payouts[1].Amount != "1" {
		t.Fatalf("expected bumped payout of 1, got %s", plan.Payouts[1].Amount)
	}
	if sum(t, plan) > 100 {
		t.Fatalf("payouts exceed pool: %d", sum(t, plan))
	}
}

func TestQuadraticRejectsUndersizedPool(t *testing.T) {
	lb := leaderboard(entry("0xa", 100), entry("0xb", 1), entry("0xc", 1))

	_, err := rewards.Calculate(lb, big.NewInt(2), "tok", domain.StrategyQuadratic, rewards.Params{})
	if err != domain.ErrInsufficientPool {
		t.Fatalf("expected ErrInsufficientPool, got %v", err)
	}
}

func TestLinearTopN(t *testing.T) {
	lb := leaderboard(entry("0xa", 50), entry("0xb", 40), entry("0xc", 30), entry("0xd", 20), entry("0xe", 10))

	plan, err := rewards.Calculate(lb, big.NewInt(100), "tok", domain.StrategyLinear, rewards.Params{TopN: 3})
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	if len(plan.Payouts) != 3 {
		t.Fatalf("expected 3 payouts, got %d", len(plan.Payouts))
	}
	for _, p := range plan.Payouts {
		if p.Amount != "33" {
			t.Fatalf("expected equal shares of 33, got %+v", plan.Payouts)
		}
	}
	if sum(t, plan) != 99 {
		t.Fatalf("expected sum 99, got %d", sum(t, plan))
	}
}

func TestLinearTopNLargerThanEligible(t *testing.T) {
	lb := leaderboard(entry("0xa", 5), entry("0xb", 3))

	plan, err := rewards.Calculate(lb, big.NewInt(10), "tok", domain.StrategyLinear, rewards.Params{TopN: 5})
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	if len(plan.Payouts) != 2 {
		t.Fatalf("expected payouts capped at eligible count, got %d", len(plan.Payouts))
	}
	if plan.Payouts[0].Amount != "5" || plan.Payouts[1].Amount != "5" {
		t.Fatalf("expected 5/5, got %+v", plan.Payouts)
	}
}

func TestCustomRankWeights(t *testing.T) {
	lb := leaderboard(entry("0xa", 30), entry("0xb", 20), entry("0xc", 10))

	plan, err := rewards.Calculate(lb, big.NewInt(60), "tok", domain.StrategyCustom, rewards.Params{TopN: 3})
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	// weights 3/2/1, sum 6: 30, 20, 10.
	want := []string{"30", "20", "10"}
	for i, p := range plan.Payouts {
		if p.Amount != want[i] {
			t.Fatalf("rank %d: expected %s, got %s", i+1, want[i], p.Amount)
		}
	}
}

func TestCalculateIsPure(t *testing.T) {
	lb := leaderboard(entry("0xa", 7), entry("0xb", 3), entry("0xc", 1))
	pool := big.NewInt(12345)

	first, err := rewards.Calculate(lb, pool, "tok", domain.StrategyQuadratic, rewards.Params{})
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	second, err := rewards.Calculate(lb, pool, "tok", domain.StrategyQuadratic, rewards.Params{})
	if err != nil {
		t.Fatalf("calculate again: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical plans, got %+v vs %+v", first, second)
	}
}

func TestNoEligibleParticipants(t *testing.T) {
	lb := leaderboard(entry("0xa", 0), entry("0xb", 0))

	plan, err := rewards.Calculate(lb, big.NewInt(100), "tok", domain.StrategyQuadratic, rewards.Params{})
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	if len(plan.Payouts) != 0 {
		t.Fatalf("expected empty plan, got %+v", plan.Payouts)
	}
}

func TestRejectsMissingPool(t *testing.T) {
	lb := leaderboard(entry("0xa", 10))
	if _, err := rewards.Calculate(lb, nil, "tok", domain.StrategyQuadratic, rewards.Params{}); err != domain.ErrNoRewardPool {
		t.Fatalf("expected ErrNoRewardPool, got %v", err)
	}
	if _, err := rewards.Calculate(lb, big.NewInt(0), "tok", domain.StrategyQuadratic, rewards.Params{}); err != domain.ErrNoRewardPool {
		t.Fatalf("expected ErrNoRewardPool for zero pool, got %v", err)
	}
}

func entry(identity string, points int) domain.ScoreEntry {
	return domain.ScoreEntry{Identity: identity, Points: points}
}

func leaderboard(entries ...domain.ScoreEntry) domain.LeaderboardSnapshot {
	return domain.LeaderboardSnapshot{RoomID: "room-1", Entries: entries}
}

func sum(t *testing.T, plan domain.RewardDistributionPlan) int64 {
	t.Helper()
	total := new(big.Int)
	for _, p := range plan.Payouts {
		amount, ok := new(big.Int).SetString(p.Amount, 10)
		if !ok {
			t.Fatalf("bad amount %q", p.Amount)
		}
		total.Add(total, amount)
	}
	return total.Int64()
}
