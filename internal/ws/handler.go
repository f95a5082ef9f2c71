// Package ws bridges websocket connections to the session actor: client JSON
// commands go in as session messages, session events come back out.
package ws

import (
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"go.uber.org/zap"

	"github.com/DoyleJ11/bingo-live-backend/internal/pattern"
	"github.com/DoyleJ11/bingo-live-backend/internal/session"
	"github.com/DoyleJ11/bingo-live-backend/pkg/types"
)

const (
	writeTimeout = 3 * time.Second
	replyTimeout = 5 * time.Second
	outboxSize   = 16
)

// Handler upgrades the connection and joins it to the session as an observer.
// Players identify with ?username=; operators pass ?admin=<pass> to unlock
// the admin command surface.
func Handler(s *session.Session, adminPass string, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := r.URL.Query().Get("username")
		isAdmin := adminPass != "" && r.URL.Query().Get("admin") == adminPass

		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		out := make(chan session.Event, outboxSize)
		observerID := randID(8)

		s.Inbox() <- session.Join{ObserverID: observerID, Identity: identity, Outbox: out}
		defer func() { s.Inbox() <- session.Leave{ObserverID: observerID} }()

		// Writer: session events out to the socket. The session unregisters
		// a stalled outbox without closing it, so the writer also watches
		// the connection context to avoid leaking after a drop.
		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			for {
				var ev session.Event
				var ok bool
				select {
				case ev, ok = <-out:
					if !ok {
						return
					}
				case <-writeCtx.Done():
					return
				}
				payload, err := json.Marshal(ev)
				if err != nil {
					continue
				}
				ctx, cancel := context.WithTimeout(writeCtx, writeTimeout)
				_ = conn.Write(ctx, websocket.MessageText, payload)
				cancel()
			}
		}()

		c := &client{
			sess:       s,
			conn:       conn,
			observerID: observerID,
			identity:   identity,
			outbox:     out,
			isAdmin:    isAdmin,
			log:        log,
		}

		// Reader loop.
		for {
			_, data, err := conn.Read(r.Context())
			if err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
					return
				}
				return
			}

			var cm types.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				c.sendError(r.Context(), "bad json")
				continue
			}
			c.dispatch(r.Context(), cm)
		}
	}
}

type client struct {
	sess       *session.Session
	conn       *websocket.Conn
	observerID string
	identity   string
	outbox     chan session.Event
	isAdmin    bool
	log        *zap.Logger
}

func (c *client) dispatch(ctx context.Context, cm types.ClientMessage) {
	switch cm.Type {
	case "join_game":
		c.joinGame(ctx, cm)
	case "reconnect_player":
		c.reconnect(ctx, cm)
	case "bingo_shout":
		c.shout(ctx)
	case "call_number", "undo_number", "set_pattern", "set_message",
		"reset_round", "full_reset", "toggle_auto_play", "toggle_pause",
		"accept_pending", "reject_pending", "add_player", "kick_player":
		if !c.isAdmin {
			c.sendError(ctx, "admin command requires admin access")
			return
		}
		c.admin(ctx, cm)
	default:
		c.sendError(ctx, "unknown message type")
	}
}

func (c *client) joinGame(ctx context.Context, cm types.ClientMessage) {
	identity := cm.Username
	if identity == "" {
		identity = c.identity
	}
	if identity == "" {
		c.sendError(ctx, "username required")
		return
	}
	reply := make(chan session.JoinReply, 1)
	c.sess.Inbox() <- session.RequestJoin{Identity: identity, CardIDs: cm.CardIDs, Reply: reply}
	res, ok := await(reply)
	if !ok {
		return
	}
	if res.Err != nil {
		c.send(ctx, session.Event{Type: "join_error", Payload: session.Rejected{Message: res.Err.Error()}})
		return
	}
	c.identity = identity
	c.send(ctx, session.Event{Type: "waiting_approval", Payload: map[string]int{"cardCount": len(res.Pending.CardIDs)}})
}

func (c *client) reconnect(ctx context.Context, cm types.ClientMessage) {
	identity := cm.Username
	if identity == "" {
		identity = c.identity
	}
	reply := make(chan session.ReconnectReply, 1)
	c.sess.Inbox() <- session.Reconnect{
		ObserverID: c.observerID,
		Identity:   identity,
		CardIDs:    cm.CardIDs,
		Outbox:     c.outbox,
		Reply:      reply,
	}
	res, ok := await(reply)
	if !ok {
		return
	}
	if res.Err != nil {
		c.send(ctx, session.Event{Type: "reconnection_failed", Payload: session.Rejected{Message: res.Err.Error()}})
		return
	}
	c.identity = identity
	c.send(ctx, session.Event{Type: "reconnection_success", Payload: session.Accepted{Cards: res.Cards}})
}

func (c *client) shout(ctx context.Context) {
	if c.identity == "" {
		c.sendError(ctx, "not joined")
		return
	}
	reply := make(chan *session.Winner, 1)
	c.sess.Inbox() <- session.BingoShout{Identity: c.identity, Reply: reply}
	w, ok := await(reply)
	if !ok {
		return
	}
	if w == nil {
		c.send(ctx, session.Event{Type: "invalid_bingo"})
	}
	// A valid shout is announced to everyone by the session itself.
}

func (c *client) admin(ctx context.Context, cm types.ClientMessage) {
	switch cm.Type {
	case "call_number":
		reply := make(chan error, 1)
		c.sess.Inbox() <- session.CallNumber{Number: cm.Number, Reply: reply}
		c.replyErr(ctx, reply)
	case "undo_number":
		reply := make(chan error, 1)
		c.sess.Inbox() <- session.UndoNumber{Reply: reply}
		c.replyErr(ctx, reply)
	case "set_pattern":
		grid, err := sessionGrid(cm.Grid)
		if err != nil {
			c.sendError(ctx, err.Error())
			return
		}
		reply := make(chan error, 1)
		c.sess.Inbox() <- session.SetPattern{Name: cm.Pattern, Grid: grid, Reply: reply}
		c.replyErr(ctx, reply)
	case "set_message":
		c.sess.Inbox() <- session.SetMessage{Text: cm.Message}
	case "reset_round":
		c.sess.Inbox() <- session.ResetRound{}
	case "full_reset":
		c.sess.Inbox() <- session.FullReset{}
	case "toggle_auto_play":
		reply := make(chan bool, 1)
		c.sess.Inbox() <- session.ToggleAutoPlay{Reply: reply}
		await(reply)
	case "toggle_pause":
		reply := make(chan bool, 1)
		c.sess.Inbox() <- session.TogglePause{Reply: reply}
		await(reply)
	case "accept_pending":
		reply := make(chan error, 1)
		c.sess.Inbox() <- session.ApprovePending{PendingID: cm.PendingID, Reply: reply}
		c.replyErr(ctx, reply)
	case "reject_pending":
		reply := make(chan error, 1)
		c.sess.Inbox() <- session.RejectPending{PendingID: cm.PendingID, Reply: reply}
		c.replyErr(ctx, reply)
	case "add_player":
		reply := make(chan error, 1)
		c.sess.Inbox() <- session.AddPlayer{Identity: cm.Username, CardIDs: cm.CardIDs, Reply: reply}
		c.replyErr(ctx, reply)
	case "kick_player":
		reply := make(chan error, 1)
		c.sess.Inbox() <- session.KickPlayer{Identity: cm.Username, Reply: reply}
		c.replyErr(ctx, reply)
	}
}

// sessionGrid converts the wire grid (row-major booleans) into the pattern
// grid the session expects. An empty message grid is a valid "no custom
// pattern" value.
func sessionGrid(cells []bool) (pattern.Grid, error) {
	if len(cells) == 0 {
		return pattern.Grid{}, nil
	}
	return pattern.GridFromBools(cells)
}

// await receives a reply without hanging the reader loop forever if the
// session is shutting down.
func await[T any](reply chan T) (T, bool) {
	select {
	case v := <-reply:
		return v, true
	case <-time.After(replyTimeout):
		var zero T
		return zero, false
	}
}

func (c *client) replyErr(ctx context.Context, reply chan error) {
	err, ok := await(reply)
	if !ok {
		return
	}
	if err != nil {
		c.sendError(ctx, err.Error())
	}
}

func (c *client) send(ctx context.Context, ev session.Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return
	}
	wctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	_ = c.conn.Write(wctx, websocket.MessageText, payload)
}

func (c *client) sendError(ctx context.Context, msg string) {
	payload, err := json.Marshal(types.ErrorMessage{Type: "error", Error: msg})
	if err != nil {
		return
	}
	wctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	_ = c.conn.Write(wctx, websocket.MessageText, payload)
}

func randID(length int) string {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	b := make([]byte, length)
	for i := range b {
		b[i] = charset[rand.Intn(len(charset))]
	}
	return string(b)
}
