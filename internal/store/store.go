// Package store persists the session snapshot and the player roster in
// Postgres. The snapshot is one upserted row; losing it only costs the
// winner-dedup history of the in-progress round, so every error here is
// non-fatal to gameplay.
package store

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/DoyleJ11/bingo-live-backend/internal/admission"
	"github.com/DoyleJ11/bingo-live-backend/internal/session"
)

type gameSnapshot struct {
	ID            uint  `gorm:"primaryKey"`
	CalledNumbers []int `gorm:"serializer:json"`
	Last5Numbers  []int `gorm:"serializer:json"`
	Pattern       string
	CustomGrid    []bool `gorm:"serializer:json"`
	Message       string
	RecentWinners []session.Winner `gorm:"serializer:json"`
	SessionID     string
	Winners       []string `gorm:"serializer:json"`
	WinningCards  []int    `gorm:"serializer:json"`
	LastWinnerAt  time.Time
	UpdatedAt     time.Time
}

type playerBinding struct {
	ID        uint   `gorm:"primaryKey"`
	Identity  string `gorm:"uniqueIndex"`
	CardIDs   []int  `gorm:"serializer:json"`
	Position  int    // join order, drives the winner-scan ordering after recovery
	UpdatedAt time.Time
}

// Postgres implements session.Store on a gorm connection.
type Postgres struct {
	db  *gorm.DB
	log *zap.Logger
}

func Open(dsn string, log *zap.Logger) (*Postgres, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&gameSnapshot{}, &playerBinding{}); err != nil {
		return nil, err
	}
	return &Postgres{db: db, log: log}, nil
}

func (p *Postgres) LoadSnapshot(ctx context.Context) (*session.Snapshot, error) {
	var row gameSnapshot
	err := p.db.WithContext(ctx).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &session.Snapshot{
		CalledNumbers: row.CalledNumbers,
		Last5Numbers:  row.Last5Numbers,
		Pattern:       row.Pattern,
		CustomGrid:    row.CustomGrid,
		Message:       row.Message,
		RecentWinners: row.RecentWinners,
		SessionID:     row.SessionID,
		Winners:       row.Winners,
		WinningCards:  row.WinningCards,
		LastWinnerAt:  row.LastWinnerAt,
	}, nil
}

func (p *Postgres) SaveSnapshot(ctx context.Context, snap session.Snapshot) error {
	row := gameSnapshot{
		ID:            1, // single authoritative session, single row
		CalledNumbers: snap.CalledNumbers,
		Last5Numbers:  snap.Last5Numbers,
		Pattern:       snap.Pattern,
		CustomGrid:    snap.CustomGrid,
		Message:       snap.Message,
		RecentWinners: snap.RecentWinners,
		SessionID:     snap.SessionID,
		Winners:       snap.Winners,
		WinningCards:  snap.WinningCards,
		LastWinnerAt:  snap.LastWinnerAt,
	}
	return p.db.WithContext(ctx).Save(&row).Error
}

func (p *Postgres) LoadRoster(ctx context.Context) ([]admission.Binding, error) {
	var rows []playerBinding
	if err := p.db.WithContext(ctx).Order("position asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	bindings := make([]admission.Binding, 0, len(rows))
	for _, r := range rows {
		bindings = append(bindings, admission.Binding{Identity: r.Identity, CardIDs: r.CardIDs})
	}
	return bindings, nil
}

func (p *Postgres) SaveRoster(ctx context.Context, roster []admission.Binding) error {
	return p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&playerBinding{}).Error; err != nil {
			return err
		}
		for i, b := range roster {
			row := playerBinding{Identity: b.Identity, CardIDs: b.CardIDs, Position: i}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (p *Postgres) Clear(ctx context.Context) error {
	return p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&gameSnapshot{}).Error; err != nil {
			return err
		}
		return tx.Where("1 = 1").Delete(&playerBinding{}).Error
	})
}
