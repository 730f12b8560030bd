// Package rewards converts a final leaderboard into a token payout plan.
// All arithmetic uses math/big integers in the token's smallest unit so
// plans stay exact for on-chain settlement, which enforces
// sum(amounts) <= pool.
package rewards

import (
	"math/big"

	"snarkel-service/internal/domain"
)

// Params carries strategy parameters. TopN applies to the linear and
// custom strategies and is capped at the eligible participant count.
type Params struct {
	TopN int
}

// Calculate produces a payout plan for the given final leaderboard.
// It is pure: calling it twice with the same inputs yields an identical
// plan, so admins can preview any strategy/parameter combination before
// finalizing. The plan ID is assigned at finalization, not here.
//
// Only entries with score > 0 are eligible. The floor-then-bump policy
// guarantees every eligible participant a positive amount; integer
// division remainder is intentionally left unallocated rather than
// redistributed.
func Calculate(lb domain.LeaderboardSnapshot, pool *big.Int, token string, strategy domain.DistributionStrategy, params Params) (domain.RewardDistributionPlan, error) {
	if pool == nil || pool.Sign() <= 0 {
		return domain.RewardDistributionPlan{}, domain.ErrNoRewardPool
	}

	eligible := eligibleEntries(lb)
	var payouts []domain.Payout
	var err error
	switch strategy {
	case domain.StrategyLinear:
		payouts, err = linearSplit(eligible, pool, params.TopN)
	case domain.StrategyCustom:
		payouts, err = rankWeightedSplit(eligible, pool, params.TopN)
	default:
		payouts, err = quadraticSplit(eligible, pool)
	}
	if err != nil {
		return domain.RewardDistributionPlan{}, err
	}

	return domain.RewardDistributionPlan{
		RoomID:   lb.RoomID,
		Strategy: strategy,
		Token:    token,
		Pool:     pool.String(),
		Payouts:  payouts,
	}, nil
}

// eligibleEntries keeps leaderboard order and drops zero scores.
func eligibleEntries(lb domain.LeaderboardSnapshot) []domain.ScoreEntry {
	entries := make([]domain.ScoreEntry, 0, len(lb.Entries))
	for _, e := range lb.Entries {
		if e.Points > 0 {
			entries = append(entries, e)
		}
	}
	return entries
}

// quadraticSplit pays floor(pool * score / totalScore) per participant,
// bumping floored zeroes to one unit.
func quadraticSplit(entries []domain.ScoreEntry, pool *big.Int) ([]domain.Payout, error) {
	if len(entries) == 0 {
		return nil, nil
	}

	totalScore := new(big.Int)
	for _, e := range entries {
		totalScore.Add(totalScore, big.NewInt(int64(e.Points)))
	}

	amounts := make([]*big.Int, len(entries))
	for i, e := range entries {
		amount := new(big.Int).Mul(pool, big.NewInt(int64(e.Points)))
		amount.Quo(amount, totalScore)
		amounts[i] = amount
	}
	return bumpAndCheck(entries, amounts, pool)
}

// linearSplit pays floor(pool / N) to each of the top N participants.
func linearSplit(entries []domain.ScoreEntry, pool *big.Int, topN int) ([]domain.Payout, error) {
	entries = topEntries(entries, topN)
	if len(entries) == 0 {
		return nil, nil
	}

	share := new(big.Int).Quo(pool, big.NewInt(int64(len(entries))))
	amounts := make([]*big.Int, len(entries))
	for i := range entries {
		amounts[i] = new(big.Int).Set(share)
	}
	return bumpAndCheck(entries, amounts, pool)
}

// rankWeightedSplit pays floor(pool * weight(r) / sum(weights)) where
// rank r (1 = best) among N participants has weight N - r + 1.
func rankWeightedSplit(entries []domain.ScoreEntry, pool *big.Int, topN int) ([]domain.Payout, error) {
	entries = topEntries(entries, topN)
	if len(entries) == 0 {
		return nil, nil
	}

	n := int64(len(entries))
	weightSum := big.NewInt(n * (n + 1) / 2)
	amounts := make([]*big.Int, len(entries))
	for i := range entries {
		weight := big.NewInt(n - int64(i))
		amount := new(big.Int).Mul(pool, weight)
		amount.Quo(amount, weightSum)
		amounts[i] = amount
	}
	return bumpAndCheck(entries, amounts, pool)
}

func topEntries(entries []domain.ScoreEntry, topN int) []domain.ScoreEntry {
	if topN > 0 && topN < len(entries) {
		return entries[:topN]
	}
	return entries
}

// bumpAndCheck raises zero amounts to one unit and rejects plans whose
// bumped total exceeds the pool. The sum may legitimately fall short of
// the pool; the remainder stays unallocated.
func bumpAndCheck(entries []domain.ScoreEntry, amounts []*big.Int, pool *big.Int) ([]domain.Payout, error) {
	one := big.NewInt(1)
	total := new(big.Int)
	payouts := make([]domain.Payout, len(entries))
	for i, amount := range amounts {
		if amount.Sign() == 0 {
			amount = one
		}
		total.Add(total, amount)
		payouts[i] = domain.Payout{Identity: entries[i].Identity, Amount: amount.String()}
	}
	if total.Cmp(pool) > 0 {
		return nil, domain.ErrInsufficientPool
	}
	return payouts, nil
}
