// Package types holds the websocket wire messages shared with clients.
package types

// ClientMessage is what a connected client sends. Type selects the command;
// only the fields that command needs are set.
//
// Player commands:
//
//	join_game:        username, card_ids
//	reconnect_player: username, card_ids
//	bingo_shout:      (uses the identity bound at connect/reconnect)
//
// Admin commands (connection must have been opened with the admin password):
//
//	call_number:      number
//	undo_number:
//	set_pattern:      pattern, grid (grid only for "custom")
//	set_message:      message
//	reset_round:
//	full_reset:
//	toggle_auto_play:
//	toggle_pause:
//	accept_pending:   pending_id
//	reject_pending:   pending_id
//	add_player:       username, card_ids
//	kick_player:      username
type ClientMessage struct {
	Type      string `json:"type"`
	Number    int    `json:"number,omitempty"`
	Username  string `json:"username,omitempty"`
	CardIDs   []int  `json:"card_ids,omitempty"`
	Pattern   string `json:"pattern,omitempty"`
	Grid      []bool `json:"grid,omitempty"`
	PendingID string `json:"pending_id,omitempty"`
	Message   string `json:"message,omitempty"`
}

// ErrorMessage is pushed to the client whose command failed. Everything else
// a server sends is a session.Event.
type ErrorMessage struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}
