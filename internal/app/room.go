package app

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"snarkel-service/internal/domain"
	"snarkel-service/internal/rewards"
	"snarkel-service/internal/settlement"
)

// RoomConfig carries the session parameters not owned by the snarkel.
type RoomConfig struct {
	MinParticipants  int
	MaxParticipants  int
	CountdownSeconds int
	RevealSeconds    int
	// Tick is the real duration of one logical second. Production uses
	// time.Second; tests shrink it to run the full flow quickly.
	Tick time.Duration
}

func (c RoomConfig) withDefaults() RoomConfig {
	if c.MinParticipants <= 0 {
		c.MinParticipants = 1
	}
	if c.MaxParticipants <= 0 {
		c.MaxParticipants = 50
	}
	if c.CountdownSeconds <= 0 {
		c.CountdownSeconds = 5
	}
	if c.RevealSeconds <= 0 {
		c.RevealSeconds = 3
	}
	if c.Tick <= 0 {
		c.Tick = time.Second
	}
	return c
}

// Room runs one live snarkel session. All room state is owned by a single
// goroutine; every mutation enters through the inbox channel, so no locks
// guard the roster, phase, or scores. Timers post generation-tagged expiry
// commands back into the inbox and stale generations are discarded, which
// is what makes leave/reset cancellation airtight.
type Room struct {
	id       string
	snarkel  domain.Snarkel
	cfg      RoomConfig
	logger   *zap.Logger
	executor settlement.Executor
	guard    settlement.Guard
	clock    func() time.Time

	inbox    chan command
	done     chan struct{}
	stopOnce sync.Once
	size     atomic.Int32

	// State below is touched only by the run goroutine.
	phase        domain.Phase
	participants map[string]*domain.Participant
	subscribers  map[string]*subscriber
	scores       map[string]*domain.ScoreEntry
	qIndex       int
	qDeadline    time.Time
	secondsLeft  int
	submissions  map[string]domain.AnswerSubmission
	revealed     map[string]bool
	timerGen     uint64
	timerKind    timerKind
	finalizing   bool
	finalized    bool
}

type timerKind int

const (
	timerNone timerKind = iota
	timerCountdown
	timerQuestion
	timerReveal
)

type subscriber struct {
	identity string
	ch       chan domain.Event
}

// Subscription is a participant's live event feed for a room.
type Subscription struct {
	Identity string
	events   chan domain.Event
	room     *Room
	feed     *subscriber
	once     sync.Once
}

// Events returns the outbound event stream for this connection.
func (s *Subscription) Events() <-chan domain.Event { return s.events }

// Close detaches the connection. The leave is tagged with this
// subscription's feed: if a rejoin has already swapped in a fresh feed,
// the stale teardown must not remove the reconnected participant.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.room.post(leaveCmd{identity: s.Identity, feed: s.feed})
	})
}

type command interface{ isCommand() }

type joinCmd struct {
	identity    string
	displayName string
	reply       chan joinReply
}
type readyCmd struct {
	identity string
	ready    bool
}
type startCmd struct {
	identity string
	seconds  int
}
type abortCmd struct{ identity string }
type leaveCmd struct {
	identity string
	// feed, when set, restricts the leave to the connection that posted
	// it; a nil feed leaves unconditionally.
	feed *subscriber
}
type submitCmd struct {
	sub        domain.AnswerSubmission
	receivedAt time.Time
}
type messageCmd struct {
	identity string
	text     string
}
type rewardsCmd struct {
	identity string
	strategy domain.DistributionStrategy
	params   rewards.Params
	finalize bool
}
type timerFiredCmd struct{ gen uint64 }
type settlementDoneCmd struct {
	plan  domain.RewardDistributionPlan
	txRef string
	err   error
}

func (joinCmd) isCommand()           {}
func (readyCmd) isCommand()          {}
func (startCmd) isCommand()          {}
func (abortCmd) isCommand()          {}
func (leaveCmd) isCommand()          {}
func (submitCmd) isCommand()         {}
func (messageCmd) isCommand()        {}
func (rewardsCmd) isCommand()        {}
func (timerFiredCmd) isCommand()     {}
func (settlementDoneCmd) isCommand() {}

type joinReply struct {
	sub *Subscription
	err error
}

// NewRoom builds a room for one snarkel session and starts its control loop.
func NewRoom(id string, snarkel domain.Snarkel, cfg RoomConfig, executor settlement.Executor, guard settlement.Guard, logger *zap.Logger) *Room {
	r := &Room{
		id:           id,
		snarkel:      snarkel,
		cfg:          cfg.withDefaults(),
		logger:       logger.With(zap.String("roomId", id)),
		executor:     executor,
		guard:        guard,
		clock:        time.Now,
		inbox:        make(chan command, 128),
		done:         make(chan struct{}),
		phase:        domain.PhaseWaiting,
		participants: make(map[string]*domain.Participant),
		subscribers:  make(map[string]*subscriber),
		scores:       make(map[string]*domain.ScoreEntry),
		submissions:  make(map[string]domain.AnswerSubmission),
		revealed:     make(map[string]bool),
	}
	go r.run()
	return r
}

// ID returns the room identifier (equal to the snarkel ID).
func (r *Room) ID() string { return r.id }

// IsEmpty reports whether the roster is empty.
func (r *Room) IsEmpty() bool { return r.size.Load() == 0 }

// Stop terminates the control loop and closes all subscriber channels.
func (r *Room) Stop() {
	r.stopOnce.Do(func() { close(r.done) })
}

// Join admits a participant and returns their event subscription. A rejoin
// by an already-present identity reattaches the feed without duplicating
// the roster entry.
func (r *Room) Join(ctx context.Context, identity, displayName string) (*Subscription, error) {
	reply := make(chan joinReply, 1)
	select {
	case r.inbox <- joinCmd{identity: identity, displayName: displayName, reply: reply}:
	case <-r.done:
		return nil, domain.ErrRoomNotFound
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	select {
	case res := <-reply:
		return res.sub, res.err
	case <-r.done:
		return nil, domain.ErrRoomNotFound
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// SetReady toggles a participant's ready flag. Valid only while waiting.
func (r *Room) SetReady(identity string, ready bool) {
	r.post(readyCmd{identity: identity, ready: ready})
}

// Start begins the pre-game countdown. Admin only.
func (r *Room) Start(identity string, countdownSeconds int) {
	r.post(startCmd{identity: identity, seconds: countdownSeconds})
}

// AbortCountdown cancels the countdown and returns to waiting. Admin only.
func (r *Room) AbortCountdown(identity string) {
	r.post(abortCmd{identity: identity})
}

// Leave removes a participant from the roster.
func (r *Room) Leave(identity string) {
	r.post(leaveCmd{identity: identity})
}

// SubmitAnswer records an answer for the current question.
func (r *Room) SubmitAnswer(sub domain.AnswerSubmission) {
	r.post(submitCmd{sub: sub, receivedAt: time.Now()})
}

// SendMessage broadcasts an admin message to the room.
func (r *Room) SendMessage(identity, text string) {
	r.post(messageCmd{identity: identity, text: text})
}

// PreviewRewards computes a payout plan and returns it to the caller's
// feed without side effects. Repeatable with any strategy/parameters.
func (r *Room) PreviewRewards(identity string, strategy domain.DistributionStrategy, params rewards.Params) {
	r.post(rewardsCmd{identity: identity, strategy: strategy, params: params})
}

// FinalizeRewards computes a payout plan and submits it to settlement.
func (r *Room) FinalizeRewards(identity string, strategy domain.DistributionStrategy, params rewards.Params) {
	r.post(rewardsCmd{identity: identity, strategy: strategy, params: params, finalize: true})
}

func (r *Room) post(c command) {
	select {
	case r.inbox <- c:
	case <-r.done:
	}
}

func (r *Room) run() {
	for {
		select {
		case <-r.done:
			for _, sub := range r.subscribers {
				close(sub.ch)
			}
			r.subscribers = nil
			return
		case cmd := <-r.inbox:
			r.dispatch(cmd)
		}
	}
}

func (r *Room) dispatch(cmd command) {
	switch c := cmd.(type) {
	case joinCmd:
		c.reply <- r.handleJoin(c)
	case readyCmd:
		r.handleReady(c)
	case startCmd:
		r.handleStart(c)
	case abortCmd:
		r.handleAbort(c)
	case leaveCmd:
		r.handleLeave(c)
	case submitCmd:
		r.handleSubmit(c)
	case messageCmd:
		r.handleMessage(c)
	case rewardsCmd:
		r.handleRewards(c)
	case timerFiredCmd:
		r.handleTimer(c)
	case settlementDoneCmd:
		r.handleSettlementDone(c)
	}
}

func (r *Room) handleJoin(c joinCmd) joinReply {
	if !domain.ValidIdentity(c.identity) {
		return joinReply{err: domain.ErrInvalidIdentity}
	}

	if existing, ok := r.subscribers[c.identity]; ok {
		// Rejoin: swap the feed, keep the roster entry.
		close(existing.ch)
	} else if _, ok := r.participants[c.identity]; !ok {
		if len(r.participants) >= r.cfg.MaxParticipants {
			return joinReply{err: domain.ErrRoomFull}
		}
		r.participants[c.identity] = &domain.Participant{
			Identity:    c.identity,
			DisplayName: c.displayName,
			IsAdmin:     c.identity == r.snarkel.CreatorIdentity,
			JoinedAt:    r.clock(),
		}
		r.size.Store(int32(len(r.participants)))
	}

	sub := &subscriber{identity: c.identity, ch: make(chan domain.Event, 16)}
	r.subscribers[c.identity] = sub

	r.sendTo(c.identity, r.snapshot())
	r.broadcast(r.rosterEvent())

	return joinReply{sub: &Subscription{Identity: c.identity, events: sub.ch, room: r, feed: sub}}
}

func (r *Room) handleReady(c readyCmd) {
	// Ready toggles outside the waiting phase are a silent no-op.
	if r.phase != domain.PhaseWaiting {
		return
	}
	p, ok := r.participants[c.identity]
	if !ok {
		r.errTo(c.identity, domain.ErrParticipantNotFound)
		return
	}
	p.Ready = c.ready
	r.broadcast(r.rosterEvent())
}

func (r *Room) handleStart(c startCmd) {
	p, ok := r.participants[c.identity]
	if !ok || !p.IsAdmin {
		r.errTo(c.identity, domain.ErrNotAuthorized)
		return
	}
	if r.phase != domain.PhaseWaiting {
		r.errTo(c.identity, domain.ErrInvalidPhase)
		return
	}
	ready := 0
	for _, participant := range r.participants {
		if participant.Ready {
			ready++
		}
	}
	if ready < r.cfg.MinParticipants {
		r.errTo(c.identity, domain.ErrNotEnoughReady)
		return
	}

	seconds := c.seconds
	if seconds <= 0 {
		seconds = r.cfg.CountdownSeconds
	}
	r.phase = domain.PhaseCountdown
	r.secondsLeft = seconds
	r.broadcast(domain.CountdownTick{SecondsLeft: seconds})
	r.armTimer(r.cfg.Tick, timerCountdown)
	r.logger.Info("countdown started", zap.Int("seconds", seconds), zap.Int("ready", ready))
}

func (r *Room) handleAbort(c abortCmd) {
	p, ok := r.participants[c.identity]
	if !ok || !p.IsAdmin {
		r.errTo(c.identity, domain.ErrNotAuthorized)
		return
	}
	if r.phase != domain.PhaseCountdown {
		r.errTo(c.identity, domain.ErrInvalidPhase)
		return
	}
	r.cancelTimer()
	r.phase = domain.PhaseWaiting
	r.secondsLeft = 0
	r.broadcast(domain.RoomReset{})
	r.broadcast(r.rosterEvent())
	r.logger.Info("countdown aborted by admin")
}

func (r *Room) handleLeave(c leaveCmd) {
	if c.feed != nil && r.subscribers[c.identity] != c.feed {
		// Disconnect of a feed already superseded by a rejoin.
		return
	}
	if _, ok := r.participants[c.identity]; !ok {
		return
	}
	delete(r.participants, c.identity)
	r.size.Store(int32(len(r.participants)))
	if sub, ok := r.subscribers[c.identity]; ok {
		close(sub.ch)
		delete(r.subscribers, c.identity)
	}

	if len(r.participants) == 0 {
		r.reset()
		return
	}
	r.broadcast(r.rosterEvent())
	// The leaver may have been the only one still holding the question open.
	r.maybeRevealEarly()
}

// reset returns an emptied room to the waiting phase. Cancelling the timer
// generation here is load-bearing: a per-question timer from the previous
// session must never fire into a reused room.
func (r *Room) reset() {
	r.cancelTimer()
	r.phase = domain.PhaseWaiting
	r.secondsLeft = 0
	r.qIndex = 0
	r.qDeadline = time.Time{}
	r.scores = make(map[string]*domain.ScoreEntry)
	r.submissions = make(map[string]domain.AnswerSubmission)
	r.revealed = make(map[string]bool)
	r.finalizing = false
	r.finalized = false
	r.broadcast(domain.RoomReset{})
	r.logger.Info("room reset, roster empty")
}

func (r *Room) handleSubmit(c submitCmd) {
	identity := c.sub.Identity
	if _, ok := r.participants[identity]; !ok {
		r.errTo(identity, domain.ErrParticipantNotFound)
		return
	}
	if r.phase != domain.PhasePlaying {
		r.errTo(identity, domain.ErrSubmissionTooLate)
		return
	}
	question := r.currentQuestion()
	if question == nil || c.sub.QuestionID != question.ID {
		if r.revealed[c.sub.QuestionID] {
			r.errTo(identity, domain.ErrSubmissionTooLate)
		} else {
			r.errTo(identity, domain.ErrUnknownQuestion)
		}
		return
	}
	if r.revealed[question.ID] {
		r.errTo(identity, domain.ErrSubmissionTooLate)
		return
	}
	if _, dup := r.submissions[identity]; dup {
		r.errTo(identity, domain.ErrDuplicateSubmission)
		return
	}

	// Trust boundary: the client reports timeRemaining, but the server
	// bounds it by its own measurement of the question deadline.
	limit := questionLimit(*question)
	serverRemaining := int(r.qDeadline.Sub(c.receivedAt) / r.cfg.Tick)
	remaining := c.sub.TimeRemaining
	if remaining > serverRemaining {
		remaining = serverRemaining
	}
	if remaining > limit {
		remaining = limit
	}
	if remaining < 0 {
		remaining = 0
	}

	accepted := c.sub
	accepted.TimeRemaining = remaining
	r.submissions[identity] = accepted

	correct, points := Score(accepted.OptionIDs, remaining, *question, r.snarkel.Scoring)
	entry := r.scoreEntry(identity)
	entry.Points += points
	entry.Breakdown = append(entry.Breakdown, domain.QuestionResult{
		QuestionID: question.ID,
		Answered:   true,
		Correct:    correct,
		Points:     points,
		TimeTaken:  limit - remaining,
	})
	if correct {
		entry.TimeToScore += limit - remaining
	}

	r.maybeRevealEarly()
}

// maybeRevealEarly closes the question as soon as every current
// participant has answered; submissions from participants who have since
// left do not count toward the quorum.
func (r *Room) maybeRevealEarly() {
	q := r.currentQuestion()
	if r.phase != domain.PhasePlaying || q == nil || r.revealed[q.ID] {
		return
	}
	answered := 0
	for identity := range r.participants {
		if _, ok := r.submissions[identity]; ok {
			answered++
		}
	}
	if answered > 0 && answered == len(r.participants) {
		r.reveal()
	}
}

func (r *Room) handleMessage(c messageCmd) {
	p, ok := r.participants[c.identity]
	if !ok || !p.IsAdmin {
		r.errTo(c.identity, domain.ErrNotAuthorized)
		return
	}
	r.broadcast(domain.AdminMessage{Text: c.text})
}

func (r *Room) handleTimer(c timerFiredCmd) {
	if c.gen != r.timerGen {
		return // cancelled or superseded
	}
	switch r.timerKind {
	case timerCountdown:
		r.secondsLeft--
		if r.secondsLeft > 0 {
			r.broadcast(domain.CountdownTick{SecondsLeft: r.secondsLeft})
			r.armTimer(r.cfg.Tick, timerCountdown)
			return
		}
		r.beginPlaying()
	case timerQuestion:
		r.secondsLeft--
		if r.secondsLeft > 0 {
			if q := r.currentQuestion(); q != nil {
				r.broadcast(domain.QuestionTick{QuestionID: q.ID, SecondsLeft: r.secondsLeft})
			}
			r.armTimer(r.cfg.Tick, timerQuestion)
			return
		}
		r.reveal()
	case timerReveal:
		r.qIndex++
		if r.qIndex >= len(r.snarkel.Questions) {
			r.finish()
			return
		}
		r.beginQuestion()
	}
}

func (r *Room) beginPlaying() {
	r.phase = domain.PhasePlaying
	r.qIndex = 0
	r.beginQuestion()
	r.logger.Info("session started", zap.Int("questions", len(r.snarkel.Questions)))
}

func (r *Room) beginQuestion() {
	question := r.currentQuestion()
	if question == nil {
		r.finish()
		return
	}
	limit := questionLimit(*question)
	r.submissions = make(map[string]domain.AnswerSubmission)
	r.secondsLeft = limit
	r.qDeadline = r.clock().Add(time.Duration(limit) * r.cfg.Tick)
	r.broadcast(domain.QuestionStart{
		Question:       domain.ViewOf(*question),
		QuestionNumber: r.qIndex + 1,
		TotalQuestions: len(r.snarkel.Questions),
	})
	r.armTimer(r.cfg.Tick, timerQuestion)
}

// reveal closes the current question: unanswered participants get a
// zero-point breakdown entry, results and the re-ranked leaderboard go out,
// and the reveal delay timer is armed.
func (r *Room) reveal() {
	question := r.currentQuestion()
	if question == nil {
		return
	}
	r.cancelTimer()
	r.revealed[question.ID] = true

	results := make([]domain.ParticipantResult, 0, len(r.participants))
	for identity := range r.participants {
		entry := r.scoreEntry(identity)
		if sub, ok := r.submissions[identity]; ok {
			correct, points := Score(sub.OptionIDs, sub.TimeRemaining, *question, r.snarkel.Scoring)
			results = append(results, domain.ParticipantResult{
				Identity:  identity,
				Answered:  true,
				OptionIDs: sub.OptionIDs,
				Correct:   correct,
				Points:    points,
			})
			continue
		}
		entry.Breakdown = append(entry.Breakdown, domain.QuestionResult{
			QuestionID: question.ID,
			Answered:   false,
		})
		results = append(results, domain.ParticipantResult{Identity: identity})
	}

	r.broadcast(domain.AnswerReveal{
		QuestionID:       question.ID,
		CorrectOptionIDs: question.CorrectOptionIDs(),
		Results:          results,
	})
	r.broadcast(domain.LeaderboardUpdate{Leaderboard: r.leaderboard()})
	r.armTimer(time.Duration(r.cfg.RevealSeconds)*r.cfg.Tick, timerReveal)
}

func (r *Room) finish() {
	r.cancelTimer()
	r.phase = domain.PhaseFinished
	r.broadcast(domain.SessionFinished{FinalLeaderboard: r.leaderboard()})
	r.logger.Info("session finished", zap.Int("participants", len(r.participants)))
}

func (r *Room) handleRewards(c rewardsCmd) {
	p, ok := r.participants[c.identity]
	if !ok || !p.IsAdmin {
		r.errTo(c.identity, domain.ErrNotAuthorized)
		return
	}
	if r.phase != domain.PhaseFinished {
		r.errTo(c.identity, domain.ErrInvalidPhase)
		return
	}
	pool, ok := r.snarkel.PoolAmount()
	if !ok {
		r.errTo(c.identity, domain.ErrNoRewardPool)
		return
	}

	plan, err := rewards.Calculate(r.leaderboard(), pool, r.snarkel.RewardToken, c.strategy, c.params)
	if err != nil {
		r.errTo(c.identity, err)
		return
	}

	if !c.finalize {
		r.sendTo(c.identity, domain.RewardsPreview{Plan: plan})
		return
	}

	if r.finalized || r.finalizing {
		r.errTo(c.identity, domain.ErrAlreadyDistributed)
		return
	}
	plan.ID = uuid.NewString()
	r.finalizing = true
	go r.submitPlan(plan)
}

// submitPlan runs off the room loop; its outcome re-enters as a command.
func (r *Room) submitPlan(plan domain.RewardDistributionPlan) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	done, err := r.guard.IsDistributed(ctx, r.id)
	if err == nil && !done {
		done, err = r.executor.Status(ctx, r.id)
	}
	if err != nil {
		r.post(settlementDoneCmd{plan: plan, err: fmt.Errorf("%w: %v", domain.ErrSettlementFailure, err)})
		return
	}
	if done {
		r.post(settlementDoneCmd{plan: plan, err: domain.ErrAlreadyDistributed})
		return
	}

	txRef, err := r.executor.SubmitPlan(ctx, plan)
	if err != nil {
		r.post(settlementDoneCmd{plan: plan, err: fmt.Errorf("%w: %v", domain.ErrSettlementFailure, err)})
		return
	}
	if err := r.guard.MarkDistributed(ctx, r.id, plan.ID); err != nil {
		r.logger.Warn("failed to persist distribution marker", zap.Error(err))
	}
	r.post(settlementDoneCmd{plan: plan, txRef: txRef})
}

func (r *Room) handleSettlementDone(c settlementDoneCmd) {
	r.finalizing = false
	if c.err != nil {
		// Settlement failures leave scores and phase untouched; the admin
		// can retry against the same final leaderboard.
		r.logger.Warn("settlement submission failed", zap.Error(c.err))
		r.errTo(r.adminIdentity(), c.err)
		return
	}
	r.finalized = true
	r.broadcast(domain.RewardsFinalized{Plan: c.plan, TxRef: c.txRef})
	r.logger.Info("rewards finalized", zap.String("txRef", c.txRef), zap.String("planId", c.plan.ID))
}

func (r *Room) armTimer(d time.Duration, kind timerKind) {
	r.timerGen++
	r.timerKind = kind
	gen := r.timerGen
	time.AfterFunc(d, func() { r.post(timerFiredCmd{gen: gen}) })
}

func (r *Room) cancelTimer() {
	r.timerGen++
	r.timerKind = timerNone
}

func (r *Room) currentQuestion() *domain.Question {
	if r.qIndex < 0 || r.qIndex >= len(r.snarkel.Questions) {
		return nil
	}
	return &r.snarkel.Questions[r.qIndex]
}

func questionLimit(q domain.Question) int {
	if q.TimeLimit > 0 {
		return q.TimeLimit
	}
	return defaultTimeLimit
}

func (r *Room) scoreEntry(identity string) *domain.ScoreEntry {
	entry, ok := r.scores[identity]
	if !ok {
		name := identity
		if p, ok := r.participants[identity]; ok {
			name = p.DisplayName
		}
		entry = &domain.ScoreEntry{Identity: identity, DisplayName: name}
		r.scores[identity] = entry
	}
	return entry
}

func (r *Room) adminIdentity() string {
	for identity, p := range r.participants {
		if p.IsAdmin {
			return identity
		}
	}
	return r.snarkel.CreatorIdentity
}

func (r *Room) leaderboard() domain.LeaderboardSnapshot {
	return rankEntries(r.id, r.scores, r.clock())
}

func (r *Room) rosterEvent() domain.RosterUpdate {
	roster := make([]domain.Participant, 0, len(r.participants))
	for _, p := range r.participants {
		roster = append(roster, *p)
	}
	return domain.RosterUpdate{Participants: roster}
}

func (r *Room) snapshot() domain.RoomSnapshot {
	snap := domain.RoomSnapshot{
		RoomID:       r.id,
		Title:        r.snarkel.Title,
		Phase:        r.phase,
		Participants: r.rosterEvent().Participants,
		Leaderboard:  r.leaderboard(),
	}
	if r.phase == domain.PhasePlaying {
		if q := r.currentQuestion(); q != nil && !r.revealed[q.ID] {
			view := domain.ViewOf(*q)
			snap.CurrentQuestion = &view
			snap.SecondsLeft = r.secondsLeft
		}
	}
	if r.phase == domain.PhaseCountdown {
		snap.SecondsLeft = r.secondsLeft
	}
	return snap
}

func (r *Room) broadcast(event domain.Event) {
	for _, sub := range r.subscribers {
		deliver(sub.ch, event)
	}
}

func (r *Room) sendTo(identity string, event domain.Event) {
	if sub, ok := r.subscribers[identity]; ok {
		deliver(sub.ch, event)
	}
}

func (r *Room) errTo(identity string, err error) {
	r.sendTo(identity, domain.ErrorEvent{ErrKind: domain.ErrorKind(err), Message: err.Error()})
}

// deliver drops the oldest buffered event instead of blocking the room
// loop on a slow subscriber.
func deliver(ch chan domain.Event, event domain.Event) {
	select {
	case ch <- event:
	default:
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- event:
		default:
		}
	}
}
