package domain

// DistributionStrategy selects how final scores convert into payouts.
type DistributionStrategy string

const (
	// StrategyQuadratic splits the pool proportionally to score.
	StrategyQuadratic DistributionStrategy = "quadratic"
	// StrategyLinear splits the pool equally among the top N.
	StrategyLinear DistributionStrategy = "linear"
	// StrategyCustom splits the pool by rank weight among the top N.
	StrategyCustom DistributionStrategy = "custom"
)

// Payout is one participant's share of the reward pool. Amount is a
// decimal string in the token's smallest unit; amounts never round-trip
// through floating point.
type Payout struct {
	Identity string `json:"identity"`
	Amount   string `json:"amount"`
}

// RewardDistributionPlan is the payout plan handed verbatim to the
// external settlement executor. Invariant: the payout amounts sum to at
// most Pool, and every payout is positive.
type RewardDistributionPlan struct {
	ID       string               `json:"id"`
	RoomID   string               `json:"roomId"`
	Strategy DistributionStrategy `json:"strategy"`
	Token    string               `json:"token"`
	Pool     string               `json:"pool"`
	Payouts  []Payout             `json:"payouts"`
}
