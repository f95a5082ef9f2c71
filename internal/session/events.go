package session

import (
	"github.com/DoyleJ11/bingo-live-backend/internal/card"
	"github.com/DoyleJ11/bingo-live-backend/internal/pattern"
)

// Event is what the session pushes to observers. The websocket layer marshals
// events as-is; payload shapes below are the wire contract.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

const (
	EvtSyncState      = "sync_state"
	EvtNumberCalled   = "number_called"
	EvtNumberUndone   = "number_undone"
	EvtPatternChanged = "pattern_changed"
	EvtWinner         = "winner_announced"
	EvtHistory        = "update_history"
	EvtPlayers        = "update_players"
	EvtPending        = "update_pending_players"
	EvtGameReset      = "game_reset"
	EvtFullReset      = "full_reset"
	EvtAutoPlay       = "auto_play"
	EvtPaused         = "game_paused"
	EvtMessage        = "message_updated"
	EvtProximity      = "assistant_proximity_alert"
	EvtAccepted       = "player_accepted"
	EvtRejected       = "player_rejected"
	EvtKicked         = "kicked"
)

// SyncState is the full snapshot pushed on connect and after resets. The
// pattern catalog rides along so clients can render shapes without a second
// round trip.
type SyncState struct {
	CalledNumbers []int             `json:"calledNumbers"`
	Last5Numbers  []int             `json:"last5Numbers"`
	Pattern       string            `json:"pattern"`
	CustomGrid    []bool            `json:"customPattern"`
	Message       string            `json:"message"`
	RecentWinners []Winner          `json:"last5Winners"`
	AutoPlaying   bool              `json:"isAutoPlaying"`
	Paused        bool              `json:"isPaused"`
	Patterns      []pattern.Pattern `json:"patterns"`
}

type NumberCalled struct {
	Number      int    `json:"num"`
	Last5       []int  `json:"last5"`
	TotalCalled int    `json:"totalCalled"`
	Pattern     string `json:"pattern"`
}

type NumberUndone struct {
	Number        int   `json:"number"`
	CalledNumbers []int `json:"calledNumbers"`
	Last5         []int `json:"last5"`
	TotalCalled   int   `json:"totalCalled"`
}

type PatternChanged struct {
	Name        string  `json:"type"`
	Label       string  `json:"name"`
	Description string  `json:"description"`
	Positions   [][]int `json:"positions,omitempty"`
	Grid        []bool  `json:"grid,omitempty"`
}

type PlayerInfo struct {
	Identity  string `json:"name"`
	CardCount int    `json:"cardCount"`
	Online    bool   `json:"online"`
}

type PendingInfo struct {
	ID        string `json:"id"`
	Identity  string `json:"name"`
	CardCount int    `json:"cardCount"`
	CardIDs   []int  `json:"cardIds"`
}

type ProximityAlert struct {
	CardID  int    `json:"cardId"`
	Missing int    `json:"missing"`
	Pattern string `json:"pattern"`
}

type Accepted struct {
	Cards []card.Card `json:"cards"`
}

type Rejected struct {
	Message string `json:"message"`
}

type AutoPlay struct {
	Running bool `json:"running"`
}

type Paused struct {
	Paused bool `json:"paused"`
}
