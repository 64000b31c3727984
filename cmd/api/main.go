package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"coedit/internal/collab"
	"coedit/internal/config"
	"coedit/internal/database"
	"coedit/internal/server"
	"coedit/internal/store"
	"coedit/internal/ws"
)

func main() {
	cfg := config.Load()

	// Connect to DB (if DB not available, Connect will return an error)
	if err := database.Connect(cfg.DSN); err != nil {
		logrus.Fatalf("DB connect error: %v", err)
	}

	// Run migrations if files exist (RunMigrations is tolerant if dir missing)
	if err := database.RunMigrations("migrations"); err != nil {
		logrus.Fatalf("migrations error: %v", err)
	}

	channels := ws.NewTable()
	svc := collab.NewService(store.NewMySQL(database.GetDB()), channels)

	sweeper := collab.NewSweeper(svc, cfg.SweepInterval)
	go sweeper.Run()

	srv := server.NewServer(":"+cfg.Port, svc, channels, cfg.PingInterval)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Run() }()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			logrus.Fatalf("server error: %v", err)
		}
	case s := <-sig:
		logrus.Infof("received %s, shutting down", s)
	}

	sweeper.Stop()
	channels.CloseAll()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logrus.Errorf("shutdown error: %v", err)
	}
}
