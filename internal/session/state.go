package session

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/DoyleJ11/bingo-live-backend/internal/admission"
	"github.com/DoyleJ11/bingo-live-backend/internal/pattern"
)

// Winner is one declared win, kept in the bounded recent-winners history and
// announced to observers.
type Winner struct {
	Identity     string    `json:"user"`
	CardID       int       `json:"card"`
	Pattern      string    `json:"pattern"`
	PatternLabel string    `json:"patternName"`
	CallCount    int       `json:"numbersCalled"`
	At           time.Time `json:"time"`
}

// winnerSession is the per-round dedup bookkeeping. A fresh one starts on
// every pattern change and round reset; within one, an identity or a card can
// win at most once.
type winnerSession struct {
	id           string
	winners      map[string]bool
	winningCards map[int]bool
	lastWinnerAt time.Time
	cooldown     time.Duration
}

func newWinnerSession(cooldown time.Duration) winnerSession {
	return winnerSession{
		id:           uuid.NewString(),
		winners:      make(map[string]bool),
		winningCards: make(map[int]bool),
		cooldown:     cooldown,
	}
}

const (
	// NumberMax bounds the callable number space.
	NumberMax = 75
	// recentWinners bounds the winner history ring.
	recentWinners = 5
	// recentNumbers bounds the "last called" view.
	recentNumbers = 5
)

// DefaultPattern is the shape a brand-new session starts with.
const DefaultPattern = "line"

// State is the authoritative game state. It is owned by the Session actor and
// must only be touched from its loop.
type State struct {
	called      []int
	last5       []int
	patternName string
	customGrid  pattern.Grid
	message     string
	recent      []Winner
	autoPlaying bool
	paused      bool
	roster      *admission.Controller
	winner      winnerSession
}

// NewState returns an empty state for a card pool of the given size.
func NewState(pool int, cooldown time.Duration) *State {
	return &State{
		patternName: DefaultPattern,
		roster:      admission.NewController(pool),
		winner:      newWinnerSession(cooldown),
	}
}

// Snapshot is the persisted form of the state: enough to recover the round
// after a restart, nothing more. Cards are never part of it; they are
// regenerated from their ids.
type Snapshot struct {
	CalledNumbers []int     `json:"calledNumbers"`
	Last5Numbers  []int     `json:"last5Numbers"`
	Pattern       string    `json:"pattern"`
	CustomGrid    []bool    `json:"customGrid"`
	Message       string    `json:"message"`
	RecentWinners []Winner  `json:"recentWinners"`
	SessionID     string    `json:"sessionId"`
	Winners       []string  `json:"winners"`
	WinningCards  []int     `json:"winningCards"`
	LastWinnerAt  time.Time `json:"lastWinnerAt"`
}

// Store is what the session needs from durable storage. Persistence is
// best-effort recovery support: failures are logged and in-memory state stays
// authoritative.
type Store interface {
	LoadSnapshot(ctx context.Context) (*Snapshot, error) // nil, nil when nothing saved
	SaveSnapshot(ctx context.Context, snap Snapshot) error
	LoadRoster(ctx context.Context) ([]admission.Binding, error)
	SaveRoster(ctx context.Context, roster []admission.Binding) error
	Clear(ctx context.Context) error
}

// NopStore discards everything. Used when running without a database and in
// tests that do not care about persistence.
type NopStore struct{}

func (NopStore) LoadSnapshot(context.Context) (*Snapshot, error)         { return nil, nil }
func (NopStore) SaveSnapshot(context.Context, Snapshot) error            { return nil }
func (NopStore) LoadRoster(context.Context) ([]admission.Binding, error) { return nil, nil }
func (NopStore) SaveRoster(context.Context, []admission.Binding) error   { return nil }
func (NopStore) Clear(context.Context) error                             { return nil }

func (s *State) snapshot() Snapshot {
	winners := make([]string, 0, len(s.winner.winners))
	for identity := range s.winner.winners {
		winners = append(winners, identity)
	}
	slices.Sort(winners)
	cards := make([]int, 0, len(s.winner.winningCards))
	for id := range s.winner.winningCards {
		cards = append(cards, id)
	}
	slices.Sort(cards)
	return Snapshot{
		CalledNumbers: slices.Clone(s.called),
		Last5Numbers:  slices.Clone(s.last5),
		Pattern:       s.patternName,
		CustomGrid:    slices.Clone(s.customGrid[:]),
		Message:       s.message,
		RecentWinners: slices.Clone(s.recent),
		SessionID:     s.winner.id,
		Winners:       winners,
		WinningCards:  cards,
		LastWinnerAt:  s.winner.lastWinnerAt,
	}
}

func (s *State) restore(snap Snapshot) {
	s.called = slices.Clone(snap.CalledNumbers)
	s.last5 = slices.Clone(snap.Last5Numbers)
	if snap.Pattern != "" {
		s.patternName = snap.Pattern
	}
	copy(s.customGrid[:], snap.CustomGrid)
	s.message = snap.Message
	s.recent = slices.Clone(snap.RecentWinners)
	if snap.SessionID != "" {
		s.winner.id = snap.SessionID
	}
	for _, identity := range snap.Winners {
		s.winner.winners[identity] = true
	}
	for _, id := range snap.WinningCards {
		s.winner.winningCards[id] = true
	}
	s.winner.lastWinnerAt = snap.LastWinnerAt
}

// Load builds the state from the durable store. Loss or corruption of the
// snapshot is recoverable: the game continues from an empty state, minus the
// dedup history of the in-progress round.
func Load(ctx context.Context, st Store, pool int, cooldown time.Duration, log *zap.Logger) *State {
	state := NewState(pool, cooldown)

	snap, err := st.LoadSnapshot(ctx)
	if err != nil {
		log.Warn("loading snapshot failed, starting empty", zap.Error(err))
	} else if snap != nil {
		state.restore(*snap)
		log.Info("game state recovered",
			zap.Int("called", len(state.called)),
			zap.String("pattern", state.patternName))
	}

	roster, err := st.LoadRoster(ctx)
	if err != nil {
		log.Warn("loading roster failed, starting empty", zap.Error(err))
	} else if len(roster) > 0 {
		dropped := state.roster.Restore(roster)
		for _, b := range dropped {
			log.Warn("dropped conflicting roster entry",
				zap.String("identity", b.Identity), zap.Ints("cards", b.CardIDs))
		}
		log.Info("roster recovered", zap.Int("players", len(roster)-len(dropped)))
	}

	return state
}

// View is a race-free copy of the state for tests and read-only queries,
// produced by the actor on request.
type View struct {
	CalledNumbers []int
	Last5Numbers  []int
	Pattern       string
	CustomGrid    pattern.Grid
	Message       string
	RecentWinners []Winner
	AutoPlaying   bool
	Paused        bool
	NumObservers  int
	Pool          int
	ClaimedCards  []int
	Pending       []admission.Pending
	Bindings      []admission.Binding
	Winners       []string
	WinningCards  []int
	Online        map[string]bool
}

func (s *State) view(numObservers int) View {
	snap := s.snapshot()
	return View{
		CalledNumbers: snap.CalledNumbers,
		Last5Numbers:  snap.Last5Numbers,
		Pattern:       snap.Pattern,
		CustomGrid:    s.customGrid,
		Message:       snap.Message,
		RecentWinners: snap.RecentWinners,
		AutoPlaying:   s.autoPlaying,
		Paused:        s.paused,
		NumObservers:  numObservers,
		Pool:          s.roster.Pool(),
		ClaimedCards:  s.roster.ClaimedIDs(),
		Pending:       s.roster.PendingList(),
		Bindings:      s.roster.Bindings(),
		Winners:       snap.Winners,
		WinningCards:  snap.WinningCards,
	}
}
