package domain

import (
	"math/big"
	"regexp"
	"time"
)

// Phase is the lifecycle state of a room.
type Phase string

const (
	PhaseWaiting   Phase = "waiting"
	PhaseCountdown Phase = "countdown"
	PhasePlaying   Phase = "playing"
	PhaseFinished  Phase = "finished"
)

// identityPattern matches wallet-derived identities (0x-prefixed, 20 bytes hex).
var identityPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// ValidIdentity reports whether s is a well-formed participant identity.
func ValidIdentity(s string) bool {
	return identityPattern.MatchString(s)
}

// Participant is a joined identity in a room.
type Participant struct {
	Identity    string    `json:"identity"`
	DisplayName string    `json:"displayName"`
	IsAdmin     bool      `json:"isAdmin"`
	Ready       bool      `json:"ready"`
	JoinedAt    time.Time `json:"joinedAt"`
}

// Option represents a possible answer for a question.
type Option struct {
	ID      string `json:"id"`
	Text    string `json:"text"`
	Correct bool   `json:"correct"`
}

// Question models a question with one or more correct options.
// Immutable once the snarkel is published.
type Question struct {
	ID        string   `json:"id"`
	Position  int      `json:"position"`
	Text      string   `json:"text"`
	TimeLimit int      `json:"timeLimit"` // seconds; defaults to 15 if zero
	Options   []Option `json:"options"`
}

// CorrectOptionIDs returns the IDs of every option flagged correct.
func (q Question) CorrectOptionIDs() []string {
	var ids []string
	for _, opt := range q.Options {
		if opt.Correct {
			ids = append(ids, opt.ID)
		}
	}
	return ids
}

// ScoringConfig controls how the scoring engine awards points.
type ScoringConfig struct {
	BasePointsPerQuestion int  `json:"basePointsPerQuestion"`
	SpeedBonusEnabled     bool `json:"speedBonusEnabled"`
	MaxSpeedBonus         int  `json:"maxSpeedBonus"`
}

// Snarkel is a published quiz definition, read-only to this service.
type Snarkel struct {
	ID              string        `json:"id"`
	Title           string        `json:"title"`
	CreatorIdentity string        `json:"creatorIdentity"`
	Questions       []Question    `json:"questions"`
	Scoring         ScoringConfig `json:"scoring"`
	RewardToken     string        `json:"rewardToken"`
	RewardPool      string        `json:"rewardPool"` // pool in the token's smallest unit, decimal string
}

// PoolAmount parses the reward pool into an integer amount.
// Returns false when the pool is unset or malformed.
func (s Snarkel) PoolAmount() (*big.Int, bool) {
	if s.RewardPool == "" {
		return nil, false
	}
	amount, ok := new(big.Int).SetString(s.RewardPool, 10)
	if !ok || amount.Sign() < 0 {
		return nil, false
	}
	return amount, true
}

// AnswerSubmission is a participant's answer for a single question.
// At most one submission per (participant, question) is ever accepted.
type AnswerSubmission struct {
	Identity      string   `json:"identity"`
	QuestionID    string   `json:"questionId"`
	OptionIDs     []string `json:"optionIds"`
	TimeRemaining int      `json:"timeRemaining"` // seconds, client-reported, server-clamped
}

// QuestionResult is the per-question breakdown within a ScoreEntry.
type QuestionResult struct {
	QuestionID string `json:"questionId"`
	Answered   bool   `json:"answered"`
	Correct    bool   `json:"correct"`
	Points     int    `json:"points"`
	TimeTaken  int    `json:"timeTaken"` // seconds from question start to submission
}

// ScoreEntry is a participant's accumulated score for a session.
type ScoreEntry struct {
	Identity    string           `json:"identity"`
	DisplayName string           `json:"displayName"`
	Points      int              `json:"points"`
	TimeToScore int              `json:"timeToScore"` // cumulative seconds spent on correctly answered questions
	Breakdown   []QuestionResult `json:"breakdown,omitempty"`
}

// LeaderboardSnapshot is the ordered scoreboard for a session.
// Entries are sorted by points descending; ties broken by lower
// cumulative time-to-correct, then identity, so the ordering is
// deterministic and reproducible for reward ranking.
type LeaderboardSnapshot struct {
	RoomID    string       `json:"roomId"`
	Entries   []ScoreEntry `json:"entries"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// ParticipantResult is a participant's outcome for one question,
// included in the answer reveal.
type ParticipantResult struct {
	Identity  string   `json:"identity"`
	Answered  bool     `json:"answered"`
	OptionIDs []string `json:"optionIds,omitempty"`
	Correct   bool     `json:"correct"`
	Points    int      `json:"points"`
}
