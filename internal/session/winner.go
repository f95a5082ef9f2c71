package session

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/DoyleJ11/bingo-live-backend/internal/card"
	"github.com/DoyleJ11/bingo-live-backend/internal/engine"
	"github.com/DoyleJ11/bingo-live-backend/internal/pattern"
	"github.com/DoyleJ11/bingo-live-backend/internal/stats"
)

// detectWinner scans the roster after an accepted call. At most one winner is
// declared per invocation: first found wins, in stable join order over players
// and then card order within a player. The cooldown throttles back-to-back
// announcements; anyone else who already qualifies is picked up on a later
// call once the window passes. This only ever runs on the actor goroutine.
func (s *Session) detectWinner() *Winner {
	st := s.state
	if len(st.called) == 0 {
		return nil
	}
	if !st.winner.lastWinnerAt.IsZero() && time.Since(st.winner.lastWinnerAt) < st.winner.cooldown {
		return nil
	}

	called := engine.NewCalledSet(st.called)
	// Offline players stay in the roster, so their cards are still in play.
	for _, b := range st.roster.Bindings() {
		if st.winner.winners[b.Identity] {
			continue
		}
		for _, cardID := range b.CardIDs {
			if st.winner.winningCards[cardID] {
				continue
			}
			if engine.Evaluate(card.Generate(cardID), called, st.patternName, st.customGrid) {
				return s.declareWinner(b.Identity, cardID)
			}
		}
	}
	return nil
}

// handleShout verifies a player-initiated bingo claim against their own bound
// cards. It shares the dedup sets with automatic detection, so a claim can
// never double-declare a pair. It is not gated by the cooldown: a player
// shouting deserves an immediate verdict.
func (s *Session) handleShout(identity string) *Winner {
	st := s.state
	if st.winner.winners[identity] {
		return nil
	}
	b, ok := st.roster.Binding(identity)
	if !ok {
		return nil
	}

	called := engine.NewCalledSet(st.called)
	for _, cardID := range b.CardIDs {
		if st.winner.winningCards[cardID] {
			continue
		}
		if engine.Evaluate(card.Generate(cardID), called, st.patternName, st.customGrid) {
			return s.declareWinner(identity, cardID)
		}
	}
	return nil
}

func (s *Session) declareWinner(identity string, cardID int) *Winner {
	st := s.state
	label := st.patternName
	if p, ok := pattern.Get(st.patternName); ok {
		label = p.Label
	}
	w := Winner{
		Identity:     identity,
		CardID:       cardID,
		Pattern:      st.patternName,
		PatternLabel: label,
		CallCount:    len(st.called),
		At:           time.Now(),
	}

	st.winner.winners[identity] = true
	st.winner.winningCards[cardID] = true
	st.winner.lastWinnerAt = w.At
	st.recent = prepend(st.recent, w, recentWinners)

	s.log.Info("winner declared",
		zap.String("identity", identity),
		zap.Int("card", cardID),
		zap.String("pattern", st.patternName),
		zap.Int("callCount", w.CallCount))

	s.persist()
	s.recordWin(w)
	s.broadcast(Event{Type: EvtWinner, Payload: w})
	s.broadcast(Event{Type: EvtHistory, Payload: append([]Winner(nil), st.recent...)})
	return &w
}

// recordWin emits the win fact to the stats collaborator without blocking the
// loop; the collaborator computes points and levels, not us.
func (s *Session) recordWin(w Winner) {
	win := stats.Win{
		Identity:  w.Identity,
		CardID:    w.CardID,
		Pattern:   w.Pattern,
		CallCount: w.CallCount,
		At:        w.At,
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.opts.Stats.RecordWin(ctx, win); err != nil {
			s.log.Warn("recording win fact failed",
				zap.String("identity", win.Identity), zap.Error(err))
		}
	}()
}

// scheduleProximity defers the proximity sweep slightly so clients finish
// rendering the call first. The delay is cosmetic; correctness never depends
// on it, and a newer call invalidates an older pending sweep.
func (s *Session) scheduleProximity() {
	s.callGen++
	gen := s.callGen
	time.AfterFunc(s.opts.ProximityDelay, func() {
		select {
		case s.inbox <- proximityTick{gen: gen}:
		case <-s.ctx.Done():
		}
	})
}

// proximitySweep alerts every online player whose card is one number away
// from completing the active pattern.
func (s *Session) proximitySweep() {
	st := s.state
	called := engine.NewCalledSet(st.called)
	for _, b := range st.roster.Bindings() {
		if !s.online(b.Identity) {
			continue
		}
		for _, cardID := range b.CardIDs {
			if st.winner.winningCards[cardID] {
				continue
			}
			a := engine.Analyze(card.Generate(cardID), called, st.patternName, st.customGrid)
			if a.Missing == 1 {
				s.sendTo(b.Identity, Event{Type: EvtProximity, Payload: ProximityAlert{
					CardID:  cardID,
					Missing: 1,
					Pattern: st.patternName,
				}})
			}
		}
	}
}

// ProximityEntry is one line of the operator's proximity report.
type ProximityEntry struct {
	Identity      string `json:"username"`
	CardID        int    `json:"cardId"`
	Missing       int    `json:"missing"`
	NeededNumbers []int  `json:"neededNumbers"`
	Pattern       string `json:"pattern"`
	Online        bool   `json:"online"`
}

// ProximityReport builds the operator-facing report from a View; it runs off
// the actor on an already-consistent copy.
func ProximityReport(v View) []ProximityEntry {
	called := engine.NewCalledSet(v.CalledNumbers)
	winning := make(map[int]bool, len(v.WinningCards))
	for _, id := range v.WinningCards {
		winning[id] = true
	}

	var report []ProximityEntry
	for _, b := range v.Bindings {
		for _, cardID := range b.CardIDs {
			if winning[cardID] {
				continue
			}
			a := engine.Analyze(card.Generate(cardID), called, v.Pattern, v.CustomGrid)
			if a.Missing == 1 {
				report = append(report, ProximityEntry{
					Identity:      b.Identity,
					CardID:        cardID,
					Missing:       1,
					NeededNumbers: a.NeededNumbers,
					Pattern:       v.Pattern,
					Online:        v.Online[b.Identity],
				})
			}
		}
	}
	return report
}

func prepend[T any](list []T, v T, max int) []T {
	list = append([]T{v}, list...)
	if len(list) > max {
		list = list[:max]
	}
	return list
}
