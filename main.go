package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	intconfig "sessiondesk/internal/config"
	router "sessiondesk/internal/http"
	"sessiondesk/internal/http/handlers"
	"sessiondesk/internal/repositories"
	"sessiondesk/internal/services"
	"sessiondesk/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	env := intconfig.LoadEnv()
	log := utils.InitLogger(env.AppEnv)
	defer func() { _ = log.Sync() }()

	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}
	if env.IsProduction() && env.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required in production")
	}

	policy, err := services.PolicyByName(env.SelectionPolicy)
	if err != nil {
		log.Fatal("invalid selection policy", zap.Error(err))
	}

	db, err := intconfig.ConnectDB(env.JournalDSN)
	if err != nil {
		log.Fatal("journal database unavailable", zap.Error(err))
	}
	defer intconfig.CloseDB()

	journal := repositories.JournalRepository{DB: db}
	if journal.Enabled() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := journal.EnsureTable(ctx); err != nil {
			log.Fatal("failed to prepare mutation journal", zap.Error(err))
		}
		cancel()
	} else {
		log.Info("JOURNAL_DSN not set, mutation journal disabled")
	}

	remote := repositories.NewRemote(env.RemoteBaseURL, env.RemoteTimeout)
	svc := services.NewSessionService(
		repositories.BookingRepository{Remote: remote},
		repositories.PaymentRepository{Remote: remote},
		journal,
		policy,
	)

	r := router.NewRouter(env, handlers.NewSessionHandler(svc, journal, env.CurrencySymbol))

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("server listening",
			zap.String("addr", env.AppAddr),
			zap.String("remote", env.RemoteBaseURL),
			zap.String("selection_policy", env.SelectionPolicy),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("server shutdown failed", zap.Error(err))
	}

	log.Info("server stopped")
}
