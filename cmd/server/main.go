package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"libraryLoanManagement/internal/config"
	"libraryLoanManagement/internal/db"
	"libraryLoanManagement/internal/httpapi"
	"libraryLoanManagement/internal/loans"
	"libraryLoanManagement/repository"
)

func main() {
	// Load configuration
	cfg, err := config.LoadWithDefaults()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	log.Printf("Configuration loaded: %v", cfg)

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	// Open DB
	d, err := db.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer func() {
		if err := d.Close(); err != nil {
			log.Printf("close db: %v", err)
		}
	}()

	users := repository.NewUserRepository(d)
	books := repository.NewBookRepository(d)
	loanRepo := repository.NewLoanRepository(d)
	monetaries := repository.NewMonetaryRepository(d)
	tokens := repository.NewTokenRepository(d)

	loanService := loans.NewService(d, loanRepo, books, monetaries, logger)

	handler := httpapi.NewHandler(httpapi.Deps{
		JWTSecret: cfg.Auth.JWTSecret,
		Users:     users,
		Tokens:    tokens,
		Books:     books,
		Loans:     loanService,
		Logger:    logger,
	})

	srv := &http.Server{
		Addr:              cfg.HTTP.Address,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Printf("HTTP server listening on %s", cfg.HTTP.Address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("serve http: %v", err)
		}
	}()

	// Periodic overdue sweep
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go func() {
		ticker := time.NewTicker(cfg.Loans.SweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-sweepCtx.Done():
				return
			case now := <-ticker.C:
				if _, err := loanService.SweepOverdue(sweepCtx, now, cfg.Loans.OverdueFee); err != nil {
					logger.Error("overdue sweep failed", slog.String("error", err.Error()))
				}
			}
		}
	}()

	// Wait for signal
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc

	stopSweep()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
