package domain

// Event is the closed set of outbound room events. The transport adapter
// switches on the concrete type; adding a new event kind is a
// compile-time-checked change, not a string registration.
type Event interface {
	// Kind returns the stable wire name for the event.
	Kind() string
	isEvent()
}

// QuestionView is a question as shown to players: correctness flags are
// stripped so clients cannot read the answer off the wire.
type QuestionView struct {
	ID        string       `json:"id"`
	Position  int          `json:"position"`
	Text      string       `json:"text"`
	TimeLimit int          `json:"timeLimit"`
	Options   []OptionView `json:"options"`
}

// OptionView is an option without its correctness flag.
type OptionView struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// ViewOf strips correctness flags from a question.
func ViewOf(q Question) QuestionView {
	opts := make([]OptionView, 0, len(q.Options))
	for _, o := range q.Options {
		opts = append(opts, OptionView{ID: o.ID, Text: o.Text})
	}
	return QuestionView{
		ID:        q.ID,
		Position:  q.Position,
		Text:      q.Text,
		TimeLimit: q.TimeLimit,
		Options:   opts,
	}
}

// RosterUpdate carries the full participant roster after any change.
type RosterUpdate struct {
	Participants []Participant `json:"participants"`
}

// CountdownTick fires once per second while the room counts down to start.
type CountdownTick struct {
	SecondsLeft int `json:"secondsLeft"`
}

// QuestionStart announces the current question to all players.
type QuestionStart struct {
	Question       QuestionView `json:"question"`
	QuestionNumber int          `json:"questionNumber"`
	TotalQuestions int          `json:"totalQuestions"`
}

// QuestionTick fires once per second while a question is open.
type QuestionTick struct {
	QuestionID  string `json:"questionId"`
	SecondsLeft int    `json:"secondsLeft"`
}

// AnswerReveal publishes the correct options and every participant's outcome.
type AnswerReveal struct {
	QuestionID       string              `json:"questionId"`
	CorrectOptionIDs []string            `json:"correctOptionIds"`
	Results          []ParticipantResult `json:"results"`
}

// LeaderboardUpdate carries the re-sorted scoreboard.
type LeaderboardUpdate struct {
	Leaderboard LeaderboardSnapshot `json:"leaderboard"`
}

// SessionFinished signals the end of the question sequence.
type SessionFinished struct {
	FinalLeaderboard LeaderboardSnapshot `json:"finalLeaderboard"`
}

// AdminMessage is a broadcast-only message from the room admin.
type AdminMessage struct {
	Text string `json:"text"`
}

// RoomReset signals that the room returned to the waiting phase.
type RoomReset struct{}

// RoomSnapshot is pushed to a connection on (re)connect so late joiners
// see the current state without having received earlier broadcasts.
type RoomSnapshot struct {
	RoomID          string              `json:"roomId"`
	Title           string              `json:"title"`
	Phase           Phase               `json:"phase"`
	Participants    []Participant       `json:"participants"`
	CurrentQuestion *QuestionView       `json:"currentQuestion,omitempty"`
	SecondsLeft     int                 `json:"secondsLeft,omitempty"`
	Leaderboard     LeaderboardSnapshot `json:"leaderboard"`
}

// RewardsPreview carries a non-final payout plan for admin inspection.
type RewardsPreview struct {
	Plan RewardDistributionPlan `json:"plan"`
}

// RewardsFinalized confirms a plan was accepted by the settlement executor.
type RewardsFinalized struct {
	Plan  RewardDistributionPlan `json:"plan"`
	TxRef string                 `json:"txRef"`
}

// ErrorEvent reports a rejected action to the originating connection only.
type ErrorEvent struct {
	ErrKind string `json:"kind"`
	Message string `json:"message"`
}

func (RosterUpdate) Kind() string      { return "rosterUpdate" }
func (CountdownTick) Kind() string     { return "countdownTick" }
func (QuestionStart) Kind() string     { return "questionStart" }
func (QuestionTick) Kind() string      { return "questionTick" }
func (AnswerReveal) Kind() string      { return "answerReveal" }
func (LeaderboardUpdate) Kind() string { return "leaderboardUpdate" }
func (SessionFinished) Kind() string   { return "sessionFinished" }
func (AdminMessage) Kind() string      { return "adminMessage" }
func (RoomReset) Kind() string         { return "roomReset" }
func (RoomSnapshot) Kind() string      { return "roomSnapshot" }
func (RewardsPreview) Kind() string    { return "rewardsPreview" }
func (RewardsFinalized) Kind() string  { return "rewardsFinalized" }
func (ErrorEvent) Kind() string        { return "errorEvent" }

func (RosterUpdate) isEvent()      {}
func (CountdownTick) isEvent()     {}
func (QuestionStart) isEvent()     {}
func (QuestionTick) isEvent()      {}
func (AnswerReveal) isEvent()      {}
func (LeaderboardUpdate) isEvent() {}
func (SessionFinished) isEvent()   {}
func (AdminMessage) isEvent()      {}
func (RoomReset) isEvent()         {}
func (RoomSnapshot) isEvent()      {}
func (RewardsPreview) isEvent()    {}
func (RewardsFinalized) isEvent()  {}
func (ErrorEvent) isEvent()        {}
