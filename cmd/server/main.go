package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/you/payout-backoffice/internal/config"
	"github.com/you/payout-backoffice/internal/infra"
	"github.com/you/payout-backoffice/internal/repository"
	pgrepo "github.com/you/payout-backoffice/internal/repository/pg"
	transport "github.com/you/payout-backoffice/internal/transport/http"
	uc "github.com/you/payout-backoffice/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		cancel()
		log.Fatalf("db connect: %v", err)
	}
	defer cancel()
	defer pool.Close()

	repoImpl := pgrepo.NewPGRepo(pool)
	var repo repository.Repo = repoImpl

	logger := infra.NewZapLogger()
	requestUC := uc.NewRequestUsecase(repo)
	expenseUC := uc.NewExpenseUsecase(repo)
	authUC := uc.NewAuthUsecase(repo, cfg.SessionTTL)

	handlers := transport.NewHandlers(requestUC, expenseUC, authUC, repo, logger)
	router := transport.NewRouter(handlers).(*mux.Router)

	srv := &http.Server{
		Handler:      router,
		Addr:         ":" + cfg.Port,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Infof("starting server on :%s", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Errorf("server error: %v", err)
	}
}
