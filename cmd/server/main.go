package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/DoyleJ11/bingo-live-backend/internal/config"
	"github.com/DoyleJ11/bingo-live-backend/internal/httpapi"
	"github.com/DoyleJ11/bingo-live-backend/internal/session"
	"github.com/DoyleJ11/bingo-live-backend/internal/stats"
	"github.com/DoyleJ11/bingo-live-backend/internal/store"
)

func main() {
	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var st session.Store = store.NewMemory()
	if cfg.DatabaseURL != "" {
		pg, err := store.Open(cfg.DatabaseURL, log)
		if err != nil {
			log.Fatal("database", zap.Error(err))
		}
		st = pg
	} else {
		log.Info("no DATABASE_URL set, state will not survive restarts")
	}

	var rec stats.Recorder = stats.Nop{}
	if cfg.NATSURL != "" {
		pub, err := stats.NewPublisher(cfg.NATSURL, stats.DefaultSubject, log)
		if err != nil {
			log.Fatal("nats", zap.Error(err))
		}
		defer pub.Close()
		rec = pub
	}

	state := session.Load(ctx, st, cfg.CardPool, cfg.WinnerCooldown, log)
	sess := session.New(ctx, state, session.Options{
		Pool:             cfg.CardPool,
		Cooldown:         cfg.WinnerCooldown,
		AutoPlayInterval: cfg.AutoPlayInterval,
		ProximityDelay:   cfg.ProximityDelay,
		Store:            st,
		Stats:            rec,
		Logger:           log,
	})

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: httpapi.SetupRoutes(sess, cfg.AdminPass, log),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("listening", zap.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		sess.Inbox() <- session.Shutdown{}
		return srv.Shutdown(shutCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatal("server", zap.Error(err))
	}
}
