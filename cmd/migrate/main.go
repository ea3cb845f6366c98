package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/pressly/goose/v3"
	"go.uber.org/zap"

	"github.com/noah-isme/roster-api/migrations"
	"github.com/noah-isme/roster-api/pkg/config"
	"github.com/noah-isme/roster-api/pkg/database"
	"github.com/noah-isme/roster-api/pkg/logger"
)

const usage = "usage: migrate [up|down|status]"

func main() {
	command := "up"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if err := run(context.Background(), cfg, logr, command); err != nil {
		logr.Fatal("migration failed", zap.String("command", command), zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, logr *zap.Logger, command string) error {
	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	goose.SetLogger(zap.NewStdLog(logr))

	switch command {
	case "up":
		return migrations.Up(db.DB, cfg.Database.Driver)
	case "down":
		return migrations.Down(db.DB, cfg.Database.Driver)
	case "status":
		return migrations.Status(db.DB, cfg.Database.Driver)
	default:
		return fmt.Errorf("unknown command %q, %s", command, usage)
	}
}
