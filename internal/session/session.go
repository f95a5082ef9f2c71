// Package session owns the authoritative game state and runs every mutation
// through a single actor goroutine, the way the lobby loop serializes a draft.
// Call ordering, winner detection and broadcasting all happen inside the loop;
// persistence and stats emission are handed off so they never block the next
// mutation.
package session

import (
	"context"
	"errors"
	"math/rand"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/DoyleJ11/bingo-live-backend/internal/admission"
	"github.com/DoyleJ11/bingo-live-backend/internal/card"
	"github.com/DoyleJ11/bingo-live-backend/internal/pattern"
	"github.com/DoyleJ11/bingo-live-backend/internal/stats"
)

var (
	ErrOutOfRange       = errors.New("number out of range")
	ErrAlreadyCalled    = errors.New("number already called")
	ErrNothingToUndo    = errors.New("no called numbers to undo")
	ErrReconnectInvalid = errors.New("cards no longer bound to player")
)

// Options configures a session. Zero values fall back to sane defaults.
type Options struct {
	Pool             int           // card pool bound, default 300
	Cooldown         time.Duration // winner announcement throttle, default 2s
	AutoPlayInterval time.Duration // delay between auto-play draws, default 5s
	ProximityDelay   time.Duration // UX pause before proximity alerts, default 200ms
	Store            Store
	Stats            stats.Recorder
	Logger           *zap.Logger
}

func (o *Options) fill() {
	if o.Pool <= 0 {
		o.Pool = 300
	}
	if o.Cooldown <= 0 {
		o.Cooldown = 2 * time.Second
	}
	if o.AutoPlayInterval <= 0 {
		o.AutoPlayInterval = 5 * time.Second
	}
	if o.ProximityDelay <= 0 {
		o.ProximityDelay = 200 * time.Millisecond
	}
	if o.Store == nil {
		o.Store = NopStore{}
	}
	if o.Stats == nil {
		o.Stats = stats.Nop{}
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
}

type observer struct {
	identity string
	outbox   chan Event
}

type Session struct {
	inbox     chan Msg
	state     *State
	observers map[string]*observer
	opts      Options
	log       *zap.Logger

	persistCh chan Snapshot
	rosterCh  chan []admission.Binding
	clearCh   chan struct{}

	autoGen int // invalidates stale auto-play timer fires
	callGen int // invalidates stale proximity sweeps

	ctx    context.Context
	cancel context.CancelFunc
}

// New starts the session actor around an existing state (usually from Load).
func New(parent context.Context, state *State, opts Options) *Session {
	opts.fill()
	ctx, cancel := context.WithCancel(parent)

	s := &Session{
		inbox:     make(chan Msg, 64),
		state:     state,
		observers: make(map[string]*observer),
		opts:      opts,
		log:       opts.Logger,
		persistCh: make(chan Snapshot, 1),
		rosterCh:  make(chan []admission.Binding, 1),
		clearCh:   make(chan struct{}, 1),
		ctx:       ctx,
		cancel:    cancel,
	}
	go s.persister()
	go s.loop()
	return s
}

// Inbox is where transports and tests send messages.
func (s *Session) Inbox() chan<- Msg { return s.inbox }

func (s *Session) loop() {
	for {
		select {
		case <-s.ctx.Done():
			s.shutdown()
			return

		case m := <-s.inbox:
			switch msg := m.(type) {
			case Join:
				s.handleJoin(msg)
			case Leave:
				s.dropObserver(msg.ObserverID)
			case CallNumber:
				msg.Reply <- s.handleCall(msg.Number)
			case UndoNumber:
				msg.Reply <- s.handleUndo()
			case SetPattern:
				s.handleSetPattern(msg.Name, msg.Grid)
				msg.Reply <- nil
			case SetMessage:
				s.state.message = msg.Text
				s.persist()
				s.broadcast(Event{Type: EvtMessage, Payload: msg.Text})
			case ResetRound:
				s.handleResetRound()
			case FullReset:
				s.handleFullReset()
			case ToggleAutoPlay:
				msg.Reply <- s.handleToggleAutoPlay()
			case TogglePause:
				msg.Reply <- s.handleTogglePause()
			case RequestJoin:
				msg.Reply <- s.handleRequestJoin(msg.Identity, msg.CardIDs)
			case ApprovePending:
				msg.Reply <- s.handleApprove(msg.PendingID)
			case RejectPending:
				msg.Reply <- s.handleReject(msg.PendingID)
			case AddPlayer:
				msg.Reply <- s.handleAddPlayer(msg.Identity, msg.CardIDs)
			case KickPlayer:
				msg.Reply <- s.handleKick(msg.Identity)
			case Reconnect:
				msg.Reply <- s.handleReconnect(msg)
			case BingoShout:
				msg.Reply <- s.handleShout(msg.Identity)
			case GetView:
				v := s.state.view(len(s.observers))
				v.Online = make(map[string]bool, len(s.observers))
				for _, o := range s.observers {
					if o.identity != "" {
						v.Online[o.identity] = true
					}
				}
				msg.Reply <- v
			case autoTick:
				s.handleAutoTick(msg.gen)
			case proximityTick:
				if msg.gen == s.callGen {
					s.proximitySweep()
				}
			case Shutdown:
				s.shutdown()
				return
			}
		}
	}
}

func (s *Session) handleCall(n int) error {
	st := s.state
	if n < 1 || n > NumberMax {
		return ErrOutOfRange
	}
	if slices.Contains(st.called, n) {
		return ErrAlreadyCalled
	}

	st.called = append(st.called, n)
	st.last5 = prepend(st.last5, n, recentNumbers)
	s.log.Info("number called", zap.Int("number", n), zap.Int("total", len(st.called)))

	s.persist()
	s.broadcast(Event{Type: EvtNumberCalled, Payload: NumberCalled{
		Number:      n,
		Last5:       slices.Clone(st.last5),
		TotalCalled: len(st.called),
		Pattern:     st.patternName,
	}})

	// Winner detection runs here, inside the same serialized step as the
	// mutation. The broadcast above reaches clients first so their optimistic
	// marking settles before the announcement lands.
	s.detectWinner()
	s.scheduleProximity()
	return nil
}

func (s *Session) handleUndo() error {
	st := s.state
	if len(st.called) == 0 {
		return ErrNothingToUndo
	}
	last := st.called[len(st.called)-1]
	st.called = st.called[:len(st.called)-1]
	if i := slices.Index(st.last5, last); i >= 0 {
		st.last5 = slices.Delete(st.last5, i, i+1)
	}
	s.log.Info("number undone", zap.Int("number", last))

	// Declared winners stay declared: an undo never retracts a win.
	s.persist()
	s.broadcast(Event{Type: EvtNumberUndone, Payload: NumberUndone{
		Number:        last,
		CalledNumbers: slices.Clone(st.called),
		Last5:         slices.Clone(st.last5),
		TotalCalled:   len(st.called),
	}})
	return nil
}

func (s *Session) handleSetPattern(name string, grid pattern.Grid) {
	st := s.state
	st.patternName = name
	if name == pattern.Custom {
		st.customGrid = grid
	} else {
		st.customGrid = pattern.Grid{}
		if _, ok := pattern.Get(name); !ok {
			// Tolerated per the evaluate-to-false policy, but worth noticing.
			s.log.Warn("unknown pattern set", zap.String("pattern", name))
		}
	}

	// A pattern change starts a new round for win counting, even though the
	// called numbers stay on the board.
	st.winner = newWinnerSession(s.opts.Cooldown)
	s.persist()

	changed := PatternChanged{Name: name}
	if p, ok := pattern.Get(name); ok {
		changed.Label = p.Label
		changed.Description = p.Description
		changed.Positions = p.Alternatives
	}
	if name == pattern.Custom {
		changed.Grid = grid[:]
	}
	s.broadcast(Event{Type: EvtPatternChanged, Payload: changed})
	s.broadcast(Event{Type: EvtSyncState, Payload: s.syncState()})
	s.log.Info("pattern changed", zap.String("pattern", name))
}

func (s *Session) handleResetRound() {
	st := s.state
	st.called = nil
	st.last5 = nil
	st.recent = nil
	st.winner = newWinnerSession(s.opts.Cooldown)
	s.stopAutoPlay()

	s.persist()
	s.broadcast(Event{Type: EvtGameReset})
	s.broadcast(Event{Type: EvtSyncState, Payload: s.syncState()})
	s.log.Info("round reset")
}

func (s *Session) handleFullReset() {
	s.handleResetRound()

	st := s.state
	for _, b := range st.roster.Bindings() {
		s.sendTo(b.Identity, Event{Type: EvtKicked})
	}
	st.roster.Reset()

	// Clear goes through the persister so it runs after whatever save is in
	// flight, and anything still queued from the reset above is discarded
	// rather than rewritten post-clear.
	select {
	case <-s.persistCh:
	default:
	}
	select {
	case <-s.rosterCh:
	default:
	}
	select {
	case s.clearCh <- struct{}{}:
	default:
	}

	s.broadcast(Event{Type: EvtFullReset})
	s.broadcastRoster()
	s.log.Info("full reset")
}

func (s *Session) handleToggleAutoPlay() bool {
	st := s.state
	if st.autoPlaying {
		s.stopAutoPlay()
		return false
	}
	st.autoPlaying = true
	s.autoGen++
	s.armAutoTimer(s.autoGen)
	s.broadcast(Event{Type: EvtAutoPlay, Payload: AutoPlay{Running: true}})
	s.log.Info("auto-play started")
	return true
}

func (s *Session) stopAutoPlay() {
	if !s.state.autoPlaying {
		return
	}
	s.state.autoPlaying = false
	s.autoGen++ // any armed timer fire becomes stale
	s.broadcast(Event{Type: EvtAutoPlay, Payload: AutoPlay{Running: false}})
	s.log.Info("auto-play stopped")
}

func (s *Session) handleTogglePause() bool {
	st := s.state
	st.paused = !st.paused
	if st.paused {
		s.stopAutoPlay()
	}
	s.broadcast(Event{Type: EvtPaused, Payload: Paused{Paused: st.paused}})
	s.log.Info("pause toggled", zap.Bool("paused", st.paused))
	return st.paused
}

func (s *Session) armAutoTimer(gen int) {
	time.AfterFunc(s.opts.AutoPlayInterval, func() {
		select {
		case s.inbox <- autoTick{gen: gen}:
		case <-s.ctx.Done():
		}
	})
}

func (s *Session) handleAutoTick(gen int) {
	st := s.state
	if gen != s.autoGen || !st.autoPlaying {
		return // stale fire from before a toggle or reset
	}

	var available []int
	for n := 1; n <= NumberMax; n++ {
		if !slices.Contains(st.called, n) {
			available = append(available, n)
		}
	}
	if len(available) == 0 {
		s.stopAutoPlay()
		return
	}

	// Same path as a manual call: validation, winner detection, broadcast.
	n := available[rand.Intn(len(available))]
	if err := s.handleCall(n); err != nil {
		s.log.Warn("auto-play draw rejected", zap.Int("number", n), zap.Error(err))
	}
	s.armAutoTimer(gen)
}

func (s *Session) handleJoin(msg Join) {
	s.observers[msg.ObserverID] = &observer{identity: msg.Identity, outbox: msg.Outbox}
	s.pushTo(msg.ObserverID, Event{Type: EvtSyncState, Payload: s.syncState()})
	s.pushTo(msg.ObserverID, Event{Type: EvtPlayers, Payload: s.playerList()})
	s.pushTo(msg.ObserverID, Event{Type: EvtPending, Payload: s.pendingList()})
	s.broadcastRoster()
}

func (s *Session) handleReconnect(msg Reconnect) ReconnectReply {
	st := s.state
	if !st.roster.Verify(msg.Identity, msg.CardIDs) {
		return ReconnectReply{Err: ErrReconnectInvalid}
	}

	cards := make([]card.Card, 0, len(msg.CardIDs))
	for _, id := range msg.CardIDs {
		cards = append(cards, card.Generate(id))
	}
	s.observers[msg.ObserverID] = &observer{identity: msg.Identity, outbox: msg.Outbox}
	s.pushTo(msg.ObserverID, Event{Type: EvtSyncState, Payload: s.syncState()})
	s.broadcastRoster()
	s.log.Info("player reconnected", zap.String("identity", msg.Identity))
	return ReconnectReply{Cards: cards}
}

func (s *Session) dropObserver(id string) {
	if o, ok := s.observers[id]; ok {
		close(o.outbox)
		delete(s.observers, id)
		s.broadcastRoster()
	}
}

func (s *Session) syncState() SyncState {
	st := s.state
	return SyncState{
		CalledNumbers: slices.Clone(st.called),
		Last5Numbers:  slices.Clone(st.last5),
		Pattern:       st.patternName,
		CustomGrid:    slices.Clone(st.customGrid[:]),
		Message:       st.message,
		RecentWinners: slices.Clone(st.recent),
		AutoPlaying:   st.autoPlaying,
		Paused:        st.paused,
		Patterns:      pattern.All(),
	}
}

func (s *Session) broadcast(ev Event) {
	for id, o := range s.observers {
		select {
		case o.outbox <- ev:
		default:
			// Slow or dead observer: unregister it rather than stall the
			// loop. The transport still owns the channel and may hand it
			// back on a reconnect, so it is never closed here.
			delete(s.observers, id)
		}
	}
}

// pushTo delivers one event to a single observer, unregistering it if its
// outbox is already full. Same policy as broadcast: a stalled socket never
// stalls the loop.
func (s *Session) pushTo(id string, ev Event) {
	o, ok := s.observers[id]
	if !ok {
		return
	}
	select {
	case o.outbox <- ev:
	default:
		delete(s.observers, id)
	}
}

// sendTo pushes an event to every observer registered under identity.
func (s *Session) sendTo(identity string, ev Event) {
	if identity == "" {
		return
	}
	for id, o := range s.observers {
		if o.identity != identity {
			continue
		}
		select {
		case o.outbox <- ev:
		default:
			delete(s.observers, id)
		}
	}
}

func (s *Session) online(identity string) bool {
	for _, o := range s.observers {
		if o.identity == identity {
			return true
		}
	}
	return false
}

func (s *Session) playerList() []PlayerInfo {
	bindings := s.state.roster.Bindings()
	out := make([]PlayerInfo, 0, len(bindings))
	for _, b := range bindings {
		out = append(out, PlayerInfo{
			Identity:  b.Identity,
			CardCount: len(b.CardIDs),
			Online:    s.online(b.Identity),
		})
	}
	return out
}

func (s *Session) pendingList() []PendingInfo {
	pending := s.state.roster.PendingList()
	out := make([]PendingInfo, 0, len(pending))
	for _, p := range pending {
		out = append(out, PendingInfo{
			ID:        p.ID,
			Identity:  p.Identity,
			CardCount: len(p.CardIDs),
			CardIDs:   p.CardIDs,
		})
	}
	return out
}

func (s *Session) broadcastRoster() {
	s.broadcast(Event{Type: EvtPlayers, Payload: s.playerList()})
	s.broadcast(Event{Type: EvtPending, Payload: s.pendingList()})
}

// persist hands the current snapshot to the persister, keeping only the
// latest if one is already queued. The loop never waits on storage.
func (s *Session) persist() {
	snap := s.state.snapshot()
	select {
	case s.persistCh <- snap:
	default:
		select {
		case <-s.persistCh:
		default:
		}
		select {
		case s.persistCh <- snap:
		default:
		}
	}
}

func (s *Session) persistRoster() {
	bindings := s.state.roster.Bindings()
	select {
	case s.rosterCh <- bindings:
	default:
		select {
		case <-s.rosterCh:
		default:
		}
		select {
		case s.rosterCh <- bindings:
		default:
		}
	}
}

func (s *Session) persister() {
	for {
		select {
		case <-s.ctx.Done():
			return
		case snap := <-s.persistCh:
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			if err := s.opts.Store.SaveSnapshot(ctx, snap); err != nil {
				s.log.Warn("persisting snapshot failed", zap.Error(err))
			}
			cancel()
		case bindings := <-s.rosterCh:
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			if err := s.opts.Store.SaveRoster(ctx, bindings); err != nil {
				s.log.Warn("persisting roster failed", zap.Error(err))
			}
			cancel()
		case <-s.clearCh:
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			if err := s.opts.Store.Clear(ctx); err != nil {
				s.log.Warn("clearing persisted state failed", zap.Error(err))
			}
			cancel()
		}
	}
}

func (s *Session) shutdown() {
	for id, o := range s.observers {
		close(o.outbox)
		delete(s.observers, id)
	}
	s.cancel()
}
