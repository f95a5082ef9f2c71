package session

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/DoyleJ11/bingo-live-backend/internal/admission"
	"github.com/DoyleJ11/bingo-live-backend/internal/card"
)

func (s *Session) handleRequestJoin(identity string, cardIDs []int) JoinReply {
	p, err := s.state.roster.RequestJoin(identity, cardIDs)
	if err != nil {
		s.log.Info("join request rejected",
			zap.String("identity", identity), zap.Error(err))
		return JoinReply{Err: err}
	}
	s.log.Info("join request queued",
		zap.String("identity", identity), zap.Ints("cards", cardIDs))
	s.broadcast(Event{Type: EvtPending, Payload: s.pendingList()})
	return JoinReply{Pending: p}
}

func (s *Session) handleApprove(pendingID string) error {
	// The queue entry is consumed either way; grab the identity first so the
	// requester can be told about a conflict.
	p, ok := s.state.roster.Pending(pendingID)
	if !ok {
		return admission.ErrUnknownPending
	}

	binding, err := s.state.roster.Approve(pendingID)
	if err != nil {
		s.sendTo(p.Identity, Event{Type: EvtRejected, Payload: Rejected{
			Message: fmt.Sprintf("join failed: %v", err),
		}})
		s.broadcast(Event{Type: EvtPending, Payload: s.pendingList()})
		s.log.Info("approval conflicted",
			zap.String("identity", p.Identity), zap.Error(err))
		return err
	}

	s.persistRoster()
	cards := make([]card.Card, 0, len(binding.CardIDs))
	for _, id := range binding.CardIDs {
		cards = append(cards, card.Generate(id))
	}
	s.sendTo(binding.Identity, Event{Type: EvtAccepted, Payload: Accepted{Cards: cards}})
	s.broadcastRoster()
	s.log.Info("player approved",
		zap.String("identity", binding.Identity), zap.Ints("cards", binding.CardIDs))
	return nil
}

func (s *Session) handleReject(pendingID string) error {
	p, err := s.state.roster.Reject(pendingID)
	if err != nil {
		return err
	}
	s.sendTo(p.Identity, Event{Type: EvtRejected, Payload: Rejected{
		Message: "join request rejected",
	}})
	s.broadcast(Event{Type: EvtPending, Payload: s.pendingList()})
	s.log.Info("player rejected", zap.String("identity", p.Identity))
	return nil
}

func (s *Session) handleAddPlayer(identity string, cardIDs []int) error {
	binding, err := s.state.roster.AddDirect(identity, cardIDs)
	if err != nil {
		return err
	}
	s.persistRoster()
	cards := make([]card.Card, 0, len(binding.CardIDs))
	for _, id := range binding.CardIDs {
		cards = append(cards, card.Generate(id))
	}
	s.sendTo(identity, Event{Type: EvtAccepted, Payload: Accepted{Cards: cards}})
	s.broadcast(Event{Type: EvtPlayers, Payload: s.playerList()})
	s.log.Info("player added",
		zap.String("identity", identity), zap.Ints("cards", cardIDs))
	return nil
}

func (s *Session) handleKick(identity string) error {
	freed, err := s.state.roster.Release(identity)
	if err != nil {
		return err
	}
	s.persistRoster()
	s.sendTo(identity, Event{Type: EvtKicked})
	s.broadcast(Event{Type: EvtPlayers, Payload: s.playerList()})
	s.log.Info("player kicked",
		zap.String("identity", identity), zap.Ints("freed", freed))
	return nil
}
