package main

import (
	"context"
	"errors"
	"log/slog"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	handler "github.com/remotevoters/api/internal/adapters/handler/http"
	"github.com/remotevoters/api/internal/adapters/repository/mongodb"
	"github.com/remotevoters/api/internal/config"
	"github.com/remotevoters/api/internal/core/domain"
	"github.com/remotevoters/api/internal/core/services"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, disconnect, err := mongodb.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		logger.Error("mongodb connection failed", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := disconnect(context.Background()); err != nil {
			logger.Error("mongodb disconnect failed", "error", err)
		}
	}()

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		logger.Error("index bootstrap failed", "error", err)
		os.Exit(1)
	}

	companyStore := mongodb.NewStore[domain.Company](db, mongodb.CompaniesCollection, cfg.StoreTimeout)
	campaignStore := mongodb.NewStore[domain.Campaign](db, mongodb.CampaignsCollection, cfg.StoreTimeout)
	voteStore := mongodb.NewStore[domain.Vote](db, mongodb.VotesCollection, cfg.StoreTimeout)

	voteSvc := services.NewVoteService(campaignStore, voteStore, logger)
	campaignSvc := services.NewCampaignService(campaignStore, voteSvc, logger)
	companySvc := services.NewCompanyService(companyStore, campaignSvc, voteSvc, logger)
	authSvc := services.NewAuthService(companySvc, cfg.JWTSecret)

	router := handler.NewHandler(
		handler.NewCompanyHandler(companySvc),
		handler.NewCampaignHandler(campaignSvc, voteSvc),
		handler.NewVoteHandler(voteSvc),
		handler.NewAuthHandler(authSvc),
	)
	server := &stdhttp.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		logger.Info("server listening", "addr", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("gracefully shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
}
