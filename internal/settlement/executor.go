// Package settlement defines the port to the external system that moves
// tokens for a finalized payout plan. The room actor never blocks on it:
// submissions run on their own goroutine and the result re-enters the
// room loop as an event.
package settlement

import (
	"context"

	"go.uber.org/zap"

	"snarkel-service/internal/domain"
)

// Executor submits payout plans and answers distribution-status queries.
type Executor interface {
	// SubmitPlan hands a finalized plan to the settlement system and
	// returns a transaction reference.
	SubmitPlan(ctx context.Context, plan domain.RewardDistributionPlan) (string, error)
	// Status reports whether rewards for the room were already
	// distributed, guarding against double submission.
	Status(ctx context.Context, roomID string) (bool, error)
}

// Guard persists finalization markers so a restarted process cannot
// re-submit the same room's rewards.
type Guard interface {
	IsDistributed(ctx context.Context, roomID string) (bool, error)
	MarkDistributed(ctx context.Context, roomID, planID string) error
}

// LogExecutor accepts every plan and only logs it. Used for demo runs
// without a settlement endpoint configured.
type LogExecutor struct {
	logger *zap.Logger
}

func NewLogExecutor(logger *zap.Logger) *LogExecutor {
	return &LogExecutor{logger: logger}
}

func (e *LogExecutor) SubmitPlan(_ context.Context, plan domain.RewardDistributionPlan) (string, error) {
	e.logger.Info("settlement disabled, plan accepted locally",
		zap.String("planId", plan.ID),
		zap.String("roomId", plan.RoomID),
		zap.String("strategy", string(plan.Strategy)),
		zap.String("pool", plan.Pool),
		zap.Int("payouts", len(plan.Payouts)),
	)
	return "local-" + plan.ID, nil
}

func (e *LogExecutor) Status(context.Context, string) (bool, error) {
	return false, nil
}

// NoopGuard never blocks finalization; in-memory deployments rely on the
// room's own finalized flag instead.
type NoopGuard struct{}

func (NoopGuard) IsDistributed(context.Context, string) (bool, error) { return false, nil }
func (NoopGuard) MarkDistributed(context.Context, string, string) error {
	return nil
}
