package store

import (
	"context"
	"slices"
	"sync"

	"github.com/DoyleJ11/bingo-live-backend/internal/admission"
	"github.com/DoyleJ11/bingo-live-backend/internal/session"
)

// Memory keeps the snapshot and roster in process. It backs runs without a
// database and lets tests observe what would have been persisted.
type Memory struct {
	mu     sync.Mutex
	snap   *session.Snapshot
	roster []admission.Binding
}

func NewMemory() *Memory { return &Memory{} }

func (m *Memory) LoadSnapshot(context.Context) (*session.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.snap == nil {
		return nil, nil
	}
	snap := *m.snap
	return &snap, nil
}

func (m *Memory) SaveSnapshot(_ context.Context, snap session.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap = &snap
	return nil
}

func (m *Memory) LoadRoster(context.Context) ([]admission.Binding, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.roster), nil
}

func (m *Memory) SaveRoster(_ context.Context, roster []admission.Binding) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.roster = slices.Clone(roster)
	return nil
}

func (m *Memory) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap = nil
	m.roster = nil
	return nil
}
