package domain

import "errors"

var (
	// ErrInvalidIdentity is returned for malformed participant identities.
	ErrInvalidIdentity = errors.New("invalid participant identity")
	// ErrRoomFull is returned when a join would exceed room capacity.
	ErrRoomFull = errors.New("room is full")
	// ErrAlreadyJoined is returned when an identity is already in the roster.
	ErrAlreadyJoined = errors.New("participant already joined")
	// ErrNotAuthorized is returned when a non-admin attempts an admin action.
	ErrNotAuthorized = errors.New("not authorized")
	// ErrNotEnoughReady blocks start until enough participants are ready.
	ErrNotEnoughReady = errors.New("not enough ready participants")
	// ErrSubmissionTooLate is returned for answers arriving after reveal.
	ErrSubmissionTooLate = errors.New("submission arrived too late")
	// ErrDuplicateSubmission enforces first-write-wins per (participant, question).
	ErrDuplicateSubmission = errors.New("duplicate submission")
	// ErrUnknownQuestion is returned for submissions against unknown question IDs.
	ErrUnknownQuestion = errors.New("unknown question")
	// ErrInsufficientPool is returned when minimum payouts would exceed the pool.
	ErrInsufficientPool = errors.New("pool too small for minimum payouts")
	// ErrSettlementFailure wraps failures from the external settlement executor.
	ErrSettlementFailure = errors.New("settlement failure")
	// ErrSnarkelNotFound indicates the snarkel definition could not be loaded.
	ErrSnarkelNotFound = errors.New("snarkel not found")
	// ErrRoomNotFound is returned when a room has not been created.
	ErrRoomNotFound = errors.New("room not found")
	// ErrParticipantNotFound is returned when a user acts before joining.
	ErrParticipantNotFound = errors.New("participant not found in room")
	// ErrInvalidPhase rejects actions not valid in the room's current phase.
	ErrInvalidPhase = errors.New("action not valid in current phase")
	// ErrNoRewardPool indicates the snarkel has no distributable pool configured.
	ErrNoRewardPool = errors.New("no reward pool configured")
	// ErrAlreadyDistributed guards against double submission to settlement.
	ErrAlreadyDistributed = errors.New("rewards already distributed")
)

// ErrorKind maps a domain error to the stable kind string carried by
// error events. Unknown errors map to "Internal".
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, ErrInvalidIdentity):
		return "InvalidIdentity"
	case errors.Is(err, ErrRoomFull):
		return "RoomFull"
	case errors.Is(err, ErrAlreadyJoined):
		return "AlreadyJoined"
	case errors.Is(err, ErrNotAuthorized):
		return "NotAuthorized"
	case errors.Is(err, ErrNotEnoughReady):
		return "NotEnoughReady"
	case errors.Is(err, ErrSubmissionTooLate):
		return "SubmissionTooLate"
	case errors.Is(err, ErrDuplicateSubmission):
		return "DuplicateSubmission"
	case errors.Is(err, ErrUnknownQuestion):
		return "UnknownQuestion"
	case errors.Is(err, ErrInsufficientPool):
		return "InsufficientPool"
	case errors.Is(err, ErrSettlementFailure):
		return "SettlementFailure"
	case errors.Is(err, ErrSnarkelNotFound):
		return "SnarkelNotFound"
	case errors.Is(err, ErrRoomNotFound):
		return "RoomNotFound"
	case errors.Is(err, ErrParticipantNotFound):
		return "ParticipantNotFound"
	case errors.Is(err, ErrInvalidPhase):
		return "InvalidPhase"
	case errors.Is(err, ErrNoRewardPool):
		return "NoRewardPool"
	case errors.Is(err, ErrAlreadyDistributed):
		return "AlreadyDistributed"
	default:
		return "Internal"
	}
}
