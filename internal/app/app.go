package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "ledger-service/docs"
	"ledger-service/internal/broker"
	"ledger-service/internal/cache"
	"ledger-service/internal/config"
	"ledger-service/internal/database"
	"ledger-service/internal/repositories/kafkarepo"
	"ledger-service/internal/repositories/postgresrepo"
	"ledger-service/internal/repositories/redisrepo"
	"ledger-service/internal/services"
	"ledger-service/internal/transport/http/handler"
	"ledger-service/internal/worker"

	"github.com/sirupsen/logrus"
)

type App struct {
	cfg              *config.Config
	log              *logrus.Logger
	httpServer       *http.Server
	partitionManager *worker.PartitionManager
	reconciler       *worker.Reconciler
}

// @title Account Ledger API
// @version 1.0
// @description Wallet ledger for the investment platform: deposits, withdrawals, fees and the transaction audit trail.
// @host localhost:8080
// @BasePath /api/v1
// @schemes http
func New() (*App, error) {
	a := new(App)

	// Initialize config
	a.cfg = config.New()

	// Initialize logger
	a.log = newLogger(a.cfg.Log)

	// Connect to database
	db, err := database.NewPostgres(a.cfg.Postgres.URL)
	if err != nil {
		return nil, fmt.Errorf("database connection error: %w", err)
	}

	// Connect to cache
	redis, err := cache.NewRedis(a.cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("cache connection error: %w", err)
	}

	// Connect to broker
	kafka, err := broker.NewKafkaWriter(a.cfg.Kafka)
	if err != nil {
		return nil, fmt.Errorf("broker connection error: %w", err)
	}

	// Initialize repositories
	walletRepo := postgresrepo.NewWalletRepository(db)
	transactionRepo := postgresrepo.NewTransactionRepository(db)
	loanRepo := postgresrepo.NewLoanRepository(db)
	investmentRepo := postgresrepo.NewInvestmentRepository(db)
	redisRepo := redisrepo.NewWalletRepository(redis)
	eventRepo := kafkarepo.NewEventRepository(kafka)

	// Initialize services
	walletService := services.NewWalletService(walletRepo, transactionRepo, redisRepo, eventRepo, a.log)
	depositService := services.NewDepositService(walletRepo, redisRepo, eventRepo, a.log)
	withdrawalService := services.NewWithdrawalService(walletRepo, loanRepo, investmentRepo, redisRepo, eventRepo, a.log)
	profitService := services.NewProfitService(walletRepo, redisRepo, a.log)

	// Background workers
	a.partitionManager = worker.NewPartitionManager(a.cfg, profitService, a.log)
	a.reconciler = worker.NewReconciler(&a.cfg.Reconciler, transactionRepo, a.log)

	// Initialize mux and handlers
	mux := http.NewServeMux()

	handler.NewLedger(mux, walletService, depositService, withdrawalService)

	// Initialize http server
	a.httpServer = &http.Server{
		Addr:         a.cfg.Server.Port,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  15 * time.Second,
	}

	return a, nil
}

func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		a.log.Info("received shutdown signal")
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
			a.log.WithError(err).Error("http server shutdown error")
		}
	}()

	if err := a.reconciler.Start(); err != nil {
		return fmt.Errorf("reconciler startup error: %w", err)
	}
	defer a.reconciler.Stop()

	// Profit stream consumers
	go func() {
		if err := a.partitionManager.Start(ctx); err != nil {
			a.log.WithError(err).Error("profit worker error")
		}
	}()

	a.log.WithField("port", a.cfg.Server.Port).Info("starting HTTP server")
	if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server error: %w", err)
	}

	return nil
}

func newLogger(cfg config.LogConfig) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	return log
}
