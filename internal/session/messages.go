package session

import (
	"github.com/DoyleJ11/bingo-live-backend/internal/admission"
	"github.com/DoyleJ11/bingo-live-backend/internal/card"
	"github.com/DoyleJ11/bingo-live-backend/internal/pattern"
)

// Msg is a message into the session actor. All state mutations travel through
// the inbox, so no two of them ever interleave.
type Msg interface{ isSessionMsg() }

// Join registers an observer. Identity is empty for spectators and operators;
// players set it so targeted events (acceptance, proximity alerts) reach them.
type Join struct {
	ObserverID string
	Identity   string
	Outbox     chan Event
}

type Leave struct{ ObserverID string }

// CallNumber calls n. Validation errors come back on Reply; nil means the
// number was accepted, broadcast, and winner-checked.
type CallNumber struct {
	Number int
	Reply  chan error
}

type UndoNumber struct{ Reply chan error }

// SetPattern switches the active pattern and starts a fresh winner round.
// Grid is only consulted when Name is the custom pattern.
type SetPattern struct {
	Name  string
	Grid  pattern.Grid
	Reply chan error
}

type SetMessage struct{ Text string }

type ResetRound struct{}

type FullReset struct{}

// ToggleAutoPlay flips auto-play; the new running state comes back on Reply.
type ToggleAutoPlay struct{ Reply chan bool }

// TogglePause flips pause; entering pause force-stops auto-play.
type TogglePause struct{ Reply chan bool }

// RequestJoin places a player's card request in the approval queue.
type RequestJoin struct {
	Identity string
	CardIDs  []int
	Reply    chan JoinReply
}

type JoinReply struct {
	Pending admission.Pending
	Err     error
}

type ApprovePending struct {
	PendingID string
	Reply     chan error
}

type RejectPending struct {
	PendingID string
	Reply     chan error
}

// AddPlayer binds cards to a player directly, skipping the queue.
type AddPlayer struct {
	Identity string
	CardIDs  []int
	Reply    chan error
}

type KickPlayer struct {
	Identity string
	Reply    chan error
}

// Reconnect lets a returning player resume. The presented card ids must all
// still be bound to the identity; on success the cards are regenerated and the
// observer starts receiving deltas again.
type Reconnect struct {
	ObserverID string
	Identity   string
	CardIDs    []int
	Outbox     chan Event
	Reply      chan ReconnectReply
}

type ReconnectReply struct {
	Cards []card.Card
	Err   error
}

// BingoShout is a player-initiated win claim, verified against the same
// evaluator and dedup rules as automatic detection.
type BingoShout struct {
	Identity string
	Reply    chan *Winner
}

// GetView returns a race-free copy of the state.
type GetView struct{ Reply chan View }

type Shutdown struct{}

// autoTick is an internal auto-play timer firing. Gen guards against stale
// fires from a timer armed before auto-play was toggled or reset.
type autoTick struct{ gen int }

// proximityTick runs the deferred proximity sweep for the call made at Gen.
type proximityTick struct{ gen int }

func (Join) isSessionMsg()           {}
func (Leave) isSessionMsg()          {}
func (CallNumber) isSessionMsg()     {}
func (UndoNumber) isSessionMsg()     {}
func (SetPattern) isSessionMsg()     {}
func (SetMessage) isSessionMsg()     {}
func (ResetRound) isSessionMsg()     {}
func (FullReset) isSessionMsg()      {}
func (ToggleAutoPlay) isSessionMsg() {}
func (TogglePause) isSessionMsg()    {}
func (RequestJoin) isSessionMsg()    {}
func (ApprovePending) isSessionMsg() {}
func (RejectPending) isSessionMsg()  {}
func (AddPlayer) isSessionMsg()      {}
func (KickPlayer) isSessionMsg()     {}
func (Reconnect) isSessionMsg()      {}
func (BingoShout) isSessionMsg()     {}
func (GetView) isSessionMsg()        {}
func (Shutdown) isSessionMsg()       {}
func (autoTick) isSessionMsg()       {}
func (proximityTick) isSessionMsg()  {}
