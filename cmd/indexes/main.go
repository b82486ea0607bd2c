// Command indexes creates the MongoDB indexes the services rely on. The
// server runs the same bootstrap on startup; this tool exists for
// provisioning a database ahead of a deploy.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/remotevoters/api/internal/adapters/repository/mongodb"
	"github.com/remotevoters/api/internal/config"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, disconnect, err := mongodb.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		logger.Error("mongodb connection failed", "error", err)
		os.Exit(1)
	}
	defer disconnect(context.Background())

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		logger.Error("index bootstrap failed", "error", err)
		os.Exit(1)
	}

	logger.Info("indexes created", "database", cfg.MongoDB)
}
