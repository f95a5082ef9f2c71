// Package stats is the boundary to the player statistics subsystem. The
// engine emits one fact per declared win; points, levels and streaks are
// somebody else's job.
package stats

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// Win is the single fact emitted after a winner is declared.
type Win struct {
	Identity  string    `json:"username"`
	CardID    int       `json:"cardId"`
	Pattern   string    `json:"pattern"`
	CallCount int       `json:"numbersCalled"`
	At        time.Time `json:"at"`
}

type Recorder interface {
	RecordWin(ctx context.Context, win Win) error
}

// Nop drops every fact. Used when no stats backend is configured.
type Nop struct{}

func (Nop) RecordWin(context.Context, Win) error { return nil }

// DefaultSubject is where win facts are published.
const DefaultSubject = "bingo.wins"

// Publisher emits win facts onto NATS for the stats/achievements service.
type Publisher struct {
	nc      *nats.Conn
	subject string
	log     *zap.Logger
}

func NewPublisher(url, subject string, log *zap.Logger) (*Publisher, error) {
	nc, err := nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, err
	}
	if subject == "" {
		subject = DefaultSubject
	}
	return &Publisher{nc: nc, subject: subject, log: log}, nil
}

func (p *Publisher) RecordWin(_ context.Context, win Win) error {
	payload, err := json.Marshal(win)
	if err != nil {
		return err
	}
	if err := p.nc.Publish(p.subject, payload); err != nil {
		p.log.Warn("publishing win fact failed",
			zap.String("identity", win.Identity), zap.Error(err))
		return err
	}
	return nil
}

func (p *Publisher) Close() {
	p.nc.Close()
}
